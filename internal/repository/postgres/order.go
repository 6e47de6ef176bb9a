package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/M0SENI/VisaBot/internal/domain"
)

// OrderRepo implements repository.OrderRepository
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo creates a new order repository
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

const orderColumns = `id, user_id, product_id, product_name, product_price, full_name, address, mobile,
		passport_file_id, verification_video_id, tx_hash, status, created_at`

// CreateOrder updates the buyer profile and inserts the order atomically
func (r *OrderRepo) CreateOrder(ctx context.Context, o *domain.Order) error {
	if o.Status == "" {
		o.Status = domain.OrderPending
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		profile := `
			UPDATE users
			SET full_name = $2, address = $3, mobile = $4,
				passport_file_id = $5, verification_video_id = $6
			WHERE user_id = $1
		`
		if _, err := tx.ExecContext(ctx, profile,
			o.UserID, o.FullName, o.Address, o.Mobile, o.PassportFileID, o.VerificationVideoID,
		); err != nil {
			return fmt.Errorf("update buyer profile: %w", err)
		}

		insert := `
			INSERT INTO orders (user_id, product_id, product_name, product_price, full_name, address,
				mobile, passport_file_id, verification_video_id, tx_hash, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, created_at
		`
		err := tx.QueryRowContext(ctx, insert,
			o.UserID, o.ProductID, o.ProductName, o.ProductPrice, o.FullName, o.Address,
			o.Mobile, o.PassportFileID, o.VerificationVideoID, o.TxHash, string(o.Status),
		).Scan(&o.ID, &o.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		return nil
	})
}

// GetOrder returns an order by ID
func (r *OrderRepo) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// ListOrdersByUser returns the latest orders of a user
func (r *OrderRepo) ListOrdersByUser(ctx context.Context, userID int64, limit int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}

	return orders, rows.Err()
}

// CountOrdersByStatus counts a user's orders in the given status
func (r *OrderRepo) CountOrdersByStatus(ctx context.Context, userID int64, status domain.OrderStatus) (int, error) {
	query := `SELECT COUNT(*) FROM orders WHERE user_id = $1 AND status = $2`
	var count int
	err := r.db.QueryRowContext(ctx, query, userID, string(status)).Scan(&count)
	return count, err
}

// ReviewOrder moves a pending order to status and records the referral
// commission, if any, in the same transaction
func (r *OrderRepo) ReviewOrder(ctx context.Context, id int64, status domain.OrderStatus, commission *domain.Transaction) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			UPDATE orders
			SET status = $2
			WHERE id = $1 AND status = $3
		`
		res, err := tx.ExecContext(ctx, query, id, string(status), string(domain.OrderPending))
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: order #%d is not pending", domain.ErrInvalidInput, id)
		}

		if commission == nil {
			return nil
		}
		if err := insertTransaction(ctx, tx, commission); err != nil {
			return fmt.Errorf("record commission: %w", err)
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o                               domain.Order
		productID                       sql.NullInt64
		productName, fullName, address  sql.NullString
		mobile, passport, video, txHash sql.NullString
		productPrice                    sql.NullInt64
		status                          string
	)
	if err := row.Scan(
		&o.ID, &o.UserID, &productID, &productName, &productPrice, &fullName, &address, &mobile,
		&passport, &video, &txHash, &status, &o.CreatedAt,
	); err != nil {
		return nil, err
	}

	o.ProductID = productID.Int64
	o.ProductName = productName.String
	o.ProductPrice = productPrice.Int64
	o.FullName = fullName.String
	o.Address = address.String
	o.Mobile = mobile.String
	o.PassportFileID = passport.String
	o.VerificationVideoID = video.String
	o.TxHash = txHash.String
	o.Status = domain.OrderStatus(status)
	return &o, nil
}
