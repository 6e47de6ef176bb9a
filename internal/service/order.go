package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/M0SENI/VisaBot/internal/domain"
	"github.com/M0SENI/VisaBot/internal/repository"

	"go.uber.org/zap"
)

// RecentOrdersLimit caps the orders shown to a user
const RecentOrdersLimit = 10

// OrderService handles order placement and review
type OrderService struct {
	orderRepo      repository.OrderRepository
	productRepo    repository.ProductRepository
	userRepo       repository.UserRepository
	tiers          domain.CommissionTiers
	depositPercent int
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	tiers domain.CommissionTiers,
	depositPercent int,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		userRepo:       userRepo,
		tiers:          tiers,
		depositPercent: depositPercent,
		logger:         logger,
	}
}

// DepositAmount is the share of price the buyer pays upfront
func (s *OrderService) DepositAmount(price int64) int64 {
	return price * int64(s.depositPercent) / 100
}

// DepositPercent returns the configured deposit share
func (s *OrderService) DepositPercent() int {
	return s.depositPercent
}

// Place stores the order collected by the order flow.
// A product that no longer exists yields domain.ErrNotFound.
func (s *OrderService) Place(ctx context.Context, userID int64, data domain.Data) (*domain.Order, error) {
	productID, ok := data.Int64(domain.KeyProductID)
	if !ok {
		return nil, fmt.Errorf("%w: product id missing", domain.ErrNotFound)
	}

	product, err := s.productRepo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID:              userID,
		ProductID:           product.ID,
		ProductName:         product.Name,
		ProductPrice:        product.Price,
		FullName:            data.String(domain.KeyFullName),
		Address:             data.String(domain.KeyAddress),
		Mobile:              data.String(domain.KeyMobile),
		PassportFileID:      data.String(domain.KeyPassportFileID),
		VerificationVideoID: data.String(domain.KeyVerificationVideoID),
		TxHash:              data.String(domain.KeyTxHash),
		Status:              domain.OrderPending,
	}
	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", userID),
		zap.Int64("product_id", productID),
	)
	return order, nil
}

// ListByUser returns the user's latest orders
func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.orderRepo.ListOrdersByUser(ctx, userID, RecentOrdersLimit)
}

// Commission returns the user's accepted order count and the tier rate it reaches
func (s *OrderService) Commission(ctx context.Context, userID int64) (int, float64, error) {
	count, err := s.orderRepo.CountOrdersByStatus(ctx, userID, domain.OrderAccepted)
	if err != nil {
		return 0, 0, err
	}
	return count, s.tiers.Rate(count), nil
}

// Review accepts or rejects a pending order. On acceptance of a referred
// buyer's order a pending commission is recorded for the referrer in the
// same transaction as the status change.
func (s *OrderService) Review(ctx context.Context, orderID int64, accept bool) (*domain.OrderReview, error) {
	order, err := s.orderRepo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderPending {
		return nil, fmt.Errorf("%w: order #%d is already %s", domain.ErrInvalidInput, orderID, order.Status)
	}

	review := &domain.OrderReview{Order: order}
	if !accept {
		if err := s.orderRepo.ReviewOrder(ctx, orderID, domain.OrderRejected, nil); err != nil {
			return nil, fmt.Errorf("reject order: %w", err)
		}
		order.Status = domain.OrderRejected
		s.logger.Info("Order rejected", zap.Int64("order_id", orderID))
		return review, nil
	}

	// the tier counts this order as accepted
	accepted, err := s.orderRepo.CountOrdersByStatus(ctx, order.UserID, domain.OrderAccepted)
	if err != nil {
		return nil, fmt.Errorf("count accepted orders: %w", err)
	}
	review.AcceptedOrders = accepted + 1
	review.Rate = s.tiers.Rate(review.AcceptedOrders)

	commission, err := s.referralCommission(ctx, order, review.Rate)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.ReviewOrder(ctx, orderID, domain.OrderAccepted, commission); err != nil {
		return nil, fmt.Errorf("accept order: %w", err)
	}
	order.Status = domain.OrderAccepted
	if commission != nil {
		review.Commission = commission.Amount
		review.ReferrerID = commission.UserID
	}

	s.logger.Info("Order accepted",
		zap.Int64("order_id", orderID),
		zap.Int("accepted_orders", review.AcceptedOrders),
		zap.Float64("rate", review.Rate),
		zap.Int64("commission", review.Commission),
	)
	return review, nil
}

// referralCommission returns the ledger entry owed to the buyer's referrer,
// or nil when the buyer was not referred
func (s *OrderService) referralCommission(ctx context.Context, order *domain.Order, rate float64) (*domain.Transaction, error) {
	buyer, err := s.userRepo.GetUser(ctx, order.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load buyer: %w", err)
	}
	if buyer.ReferredBy == nil {
		return nil, nil
	}

	amount := int64(math.Round(float64(order.ProductPrice) * rate))
	if amount <= 0 {
		return nil, nil
	}
	return &domain.Transaction{
		UserID:      *buyer.ReferredBy,
		Type:        domain.TransactionCommission,
		Amount:      amount,
		Description: fmt.Sprintf("Referral commission for order #%d", order.ID),
		Status:      domain.TransactionPending,
	}, nil
}
