package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/M0SENI/VisaBot/internal/domain"
	"github.com/M0SENI/VisaBot/internal/repository"

	"go.uber.org/zap"
)

// ProductsPageSize is the number of products per catalog page
const ProductsPageSize = 5

// ProductService handles catalog operations
type ProductService struct {
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// Get returns a product by ID
func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.GetProduct(ctx, id)
}

// List returns a page of products (newest first) and the total page count
func (s *ProductService) List(ctx context.Context, page int) ([]domain.Product, int, error) {
	if page < 1 {
		page = 1
	}

	offset := (page - 1) * ProductsPageSize
	products, err := s.productRepo.ListProducts(ctx, ProductsPageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.CountProducts(ctx)
	if err != nil {
		return nil, 0, err
	}

	return products, totalPages(total, ProductsPageSize), nil
}

// ListAll returns every product, newest first
func (s *ProductService) ListAll(ctx context.Context) ([]domain.Product, error) {
	return s.productRepo.ListProducts(ctx, 0, 0)
}

// Create stores the product collected by the product creation flow
func (s *ProductService) Create(ctx context.Context, data domain.Data) (*domain.Product, error) {
	name := data.String(domain.KeyName)
	price, ok := data.Int64(domain.KeyPrice)
	if name == "" || !ok {
		return nil, fmt.Errorf("%w: product name and price are required", domain.ErrInvalidInput)
	}

	product := &domain.Product{
		Name:        name,
		Price:       price,
		Description: strings.Join(data.Strings(domain.KeyDescriptions), "\n"),
		PhotoFileID: data.String(domain.KeyPhotoFileID),
	}
	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.Info("Product created", zap.Int64("product_id", product.ID), zap.String("code", product.Code))
	return product, nil
}

// UpdatePrice applies the price edit flow and returns the product with its previous price
func (s *ProductService) UpdatePrice(ctx context.Context, data domain.Data) (*domain.Product, int64, error) {
	id, ok := data.Int64(domain.KeyProductID)
	if !ok {
		return nil, 0, fmt.Errorf("%w: product id missing", domain.ErrNotFound)
	}
	price, ok := data.Int64(domain.KeyNewPrice)
	if !ok {
		return nil, 0, fmt.Errorf("%w: new price missing", domain.ErrInvalidInput)
	}

	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	if err := s.productRepo.UpdateProductPrice(ctx, id, price); err != nil {
		return nil, 0, fmt.Errorf("update price: %w", err)
	}

	oldPrice := product.Price
	product.Price = price
	s.logger.Info("Product price updated",
		zap.Int64("product_id", id),
		zap.Int64("old_price", oldPrice),
		zap.Int64("new_price", price),
	)
	return product, oldPrice, nil
}

// UpdateDescription applies the description edit flow: the line at the
// 1-based description_index is replaced. It returns the product and the
// previous text of that line.
func (s *ProductService) UpdateDescription(ctx context.Context, data domain.Data) (*domain.Product, string, error) {
	id, ok := data.Int64(domain.KeyProductID)
	if !ok {
		return nil, "", fmt.Errorf("%w: product id missing", domain.ErrNotFound)
	}
	index, ok := data.Int64(domain.KeyDescriptionIndex)
	if !ok {
		return nil, "", fmt.Errorf("%w: description index missing", domain.ErrInvalidInput)
	}
	text := data.String(domain.KeyNewDescription)
	if text == "" {
		return nil, "", fmt.Errorf("%w: new description missing", domain.ErrInvalidInput)
	}

	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return nil, "", err
	}
	lines := product.Descriptions()
	if index < 1 || index > int64(len(lines)) {
		return nil, "", fmt.Errorf("%w: product %d has no description %d", domain.ErrInvalidInput, id, index)
	}

	old := lines[index-1]
	lines[index-1] = text
	description := strings.Join(lines, "\n")
	if err := s.productRepo.UpdateProductDescription(ctx, id, description); err != nil {
		return nil, "", fmt.Errorf("update description: %w", err)
	}

	product.Description = description
	s.logger.Info("Product description updated",
		zap.Int64("product_id", id),
		zap.Int64("index", index),
	)
	return product, old, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return nil
}

func totalPages(total, pageSize int) int {
	pages := (total + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}
	return pages
}
