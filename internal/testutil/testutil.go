package testutil

import (
	"time"

	"github.com/M0SENI/VisaBot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(userID int64) *domain.User {
	return &domain.User{
		UserID:       userID,
		Username:     "tester",
		FirstName:    "Test",
		ReferralCode: "ABCD1234",
		CreatedAt:    time.Now(),
	}
}

// NewTestProduct creates a test product
func NewTestProduct(id int64, name string, price int64) *domain.Product {
	return &domain.Product{
		ID:        id,
		Code:      domain.ProductCode(id),
		Name:      name,
		Price:     price,
		CreatedAt: time.Now(),
	}
}

// NewTestOrder creates a pending test order
func NewTestOrder(id, userID int64, product *domain.Product) *domain.Order {
	return &domain.Order{
		ID:           id,
		UserID:       userID,
		ProductID:    product.ID,
		ProductName:  product.Name,
		ProductPrice: product.Price,
		Status:       domain.OrderPending,
		CreatedAt:    time.Now(),
	}
}
