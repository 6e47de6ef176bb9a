package service

import (
	"context"
	"fmt"

	"github.com/M0SENI/VisaBot/internal/domain"
	"github.com/M0SENI/VisaBot/internal/repository"

	"go.uber.org/zap"
)

// TransactionsPageSize is the number of transactions per history page
const TransactionsPageSize = 5

// ChargeAmounts are the wallet top-up options offered to users
var ChargeAmounts = []int64{100000, 500000, 1000000, 2000000, 5000000}

// WalletService handles wallet balance and history
type WalletService struct {
	walletRepo repository.WalletRepository
	logger     *zap.Logger
}

// NewWalletService creates a new wallet service
func NewWalletService(walletRepo repository.WalletRepository, logger *zap.Logger) *WalletService {
	return &WalletService{
		walletRepo: walletRepo,
		logger:     logger,
	}
}

// Balance returns the user's balance
func (s *WalletService) Balance(ctx context.Context, userID int64) (int64, error) {
	return s.walletRepo.GetBalance(ctx, userID)
}

// Charge credits the wallet. Payment is not verified yet, the deposit is confirmed immediately.
func (s *WalletService) Charge(ctx context.Context, userID, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: charge amount must be positive", domain.ErrInvalidInput)
	}
	if err := s.walletRepo.Deposit(ctx, userID, amount, "Wallet charge"); err != nil {
		return fmt.Errorf("charge wallet: %w", err)
	}

	s.logger.Info("Wallet charged", zap.Int64("user_id", userID), zap.Int64("amount", amount))
	return nil
}

// Transactions returns a page of the user's transactions and the total page count
func (s *WalletService) Transactions(ctx context.Context, userID int64, page int) ([]domain.Transaction, int, error) {
	if page < 1 {
		page = 1
	}

	offset := (page - 1) * TransactionsPageSize
	txs, err := s.walletRepo.ListTransactions(ctx, userID, TransactionsPageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.walletRepo.CountTransactions(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return txs, totalPages(total, TransactionsPageSize), nil
}
