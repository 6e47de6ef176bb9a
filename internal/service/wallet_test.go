package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/M0SENI/VisaBot/internal/domain"
	"github.com/M0SENI/VisaBot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestWalletService_Charge(t *testing.T) {
	tests := []struct {
		name          string
		amount        int64
		mockError     error
		callsRepo     bool
		expectedError bool
	}{
		{name: "valid amount", amount: 500000, callsRepo: true},
		{name: "zero amount", amount: 0, expectedError: true},
		{name: "negative amount", amount: -10, expectedError: true},
		{name: "database error", amount: 100000, mockError: fmt.Errorf("db error"), callsRepo: true, expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockWalletRepository)
			if tt.callsRepo {
				mockRepo.On("Deposit", mock.Anything, int64(42), tt.amount, "Wallet charge").Return(tt.mockError)
			}

			service := NewWalletService(mockRepo, testutil.NewTestLogger())

			err := service.Charge(context.Background(), 42, tt.amount)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestWalletService_Transactions(t *testing.T) {
	mockRepo := new(testutil.MockWalletRepository)
	txs := []domain.Transaction{{ID: 1, UserID: 42, Type: domain.TransactionDeposit, Amount: 100000}}
	mockRepo.On("ListTransactions", mock.Anything, int64(42), TransactionsPageSize, 5).Return(txs, nil)
	mockRepo.On("CountTransactions", mock.Anything, int64(42)).Return(6, nil)

	service := NewWalletService(mockRepo, testutil.NewTestLogger())

	got, pages, err := service.Transactions(context.Background(), 42, 2)

	assert.NoError(t, err)
	assert.Equal(t, txs, got)
	assert.Equal(t, 2, pages)
	mockRepo.AssertExpectations(t)
}
