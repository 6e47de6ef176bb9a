package repository

import (
	"context"

	"github.com/M0SENI/VisaBot/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	GetUserByReferralCode(ctx context.Context, code string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
}

// ProductRepository defines catalog data operations
type ProductRepository interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error)
	CountProducts(ctx context.Context) (int, error)
	UpdateProductPrice(ctx context.Context, id, price int64) error
	UpdateProductDescription(ctx context.Context, id int64, description string) error
	DeleteProduct(ctx context.Context, id int64) error
}

// OrderRepository defines order data operations
type OrderRepository interface {
	// CreateOrder stores the order and copies the collected profile fields
	// onto the buyer's user record in one transaction.
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64, limit int) ([]domain.Order, error)
	CountOrdersByStatus(ctx context.Context, userID int64, status domain.OrderStatus) (int, error)
	// ReviewOrder moves a pending order to status and, when commission is not
	// nil, records it in the same transaction. An order that is no longer
	// pending yields domain.ErrInvalidInput.
	ReviewOrder(ctx context.Context, id int64, status domain.OrderStatus, commission *domain.Transaction) error
}

// WalletRepository defines wallet data operations
type WalletRepository interface {
	GetBalance(ctx context.Context, userID int64) (int64, error)
	// Deposit credits the wallet and records a confirmed deposit in one transaction.
	Deposit(ctx context.Context, userID, amount int64, description string) error
	ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, error)
	CountTransactions(ctx context.Context, userID int64) (int, error)
}
