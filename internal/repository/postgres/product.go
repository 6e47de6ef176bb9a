package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/M0SENI/VisaBot/internal/domain"
)

// ProductRepo implements repository.ProductRepository
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo creates a new product repository
func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// CreateProduct inserts a product and assigns its ID and code.
// The ID is drawn from the serial sequence first so the code always matches
// it; sequence values are never handed out twice, even after deletions.
func (r *ProductRepo) CreateProduct(ctx context.Context, p *domain.Product) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		next := `SELECT nextval(pg_get_serial_sequence('products', 'id'))`
		if err := tx.QueryRowContext(ctx, next).Scan(&p.ID); err != nil {
			return fmt.Errorf("next product id: %w", err)
		}
		p.Code = domain.ProductCode(p.ID)

		query := `
			INSERT INTO products (id, code, name, price, description, photo_file_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at
		`
		err := tx.QueryRowContext(ctx, query,
			p.ID, p.Code, p.Name, p.Price, nullString(p.Description), nullString(p.PhotoFileID),
		).Scan(&p.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
		return nil
	})
}

// GetProduct returns a product by ID
func (r *ProductRepo) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, code, name, price, description, photo_file_id, created_at
		FROM products
		WHERE id = $1
	`
	var (
		p           domain.Product
		description sql.NullString
		photo       sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Code, &p.Name, &p.Price, &description, &photo, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	p.Description = description.String
	p.PhotoFileID = photo.String
	return &p, nil
}

// ListProducts returns products newest first. A zero limit returns all products.
func (r *ProductRepo) ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	query := `
		SELECT id, code, name, price, description, photo_file_id, created_at
		FROM products
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`
	var lim sql.NullInt64
	if limit > 0 {
		lim = sql.NullInt64{Int64: int64(limit), Valid: true}
	}

	rows, err := r.db.QueryContext(ctx, query, lim, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var (
			p           domain.Product
			description sql.NullString
			photo       sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Price, &description, &photo, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Description = description.String
		p.PhotoFileID = photo.String
		products = append(products, p)
	}

	return products, rows.Err()
}

// CountProducts returns the number of products in the catalog
func (r *ProductRepo) CountProducts(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}

// UpdateProductPrice sets a new price
func (r *ProductRepo) UpdateProductPrice(ctx context.Context, id, price int64) error {
	query := `
		UPDATE products
		SET price = $2, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, price)
	if err != nil {
		return fmt.Errorf("update price: %w", err)
	}
	return expectAffected(res)
}

// UpdateProductDescription replaces the description lines
func (r *ProductRepo) UpdateProductDescription(ctx context.Context, id int64, description string) error {
	query := `
		UPDATE products
		SET description = $2, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, nullString(description))
	if err != nil {
		return fmt.Errorf("update description: %w", err)
	}
	return expectAffected(res)
}

// DeleteProduct removes a product
func (r *ProductRepo) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return expectAffected(res)
}

// expectAffected maps "no rows changed" to domain.ErrNotFound
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
