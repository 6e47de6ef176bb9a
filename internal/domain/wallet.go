package domain

import "time"

// TransactionType classifies wallet movements
type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdraw   TransactionType = "withdraw"
	TransactionTransfer   TransactionType = "transfer"
	TransactionCommission TransactionType = "commission"
	TransactionPayment    TransactionType = "payment"
)

// TransactionStatus is the settlement status of a transaction
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionConfirmed TransactionStatus = "confirmed"
	TransactionRejected  TransactionStatus = "rejected"
)

// Transaction is a single wallet movement
type Transaction struct {
	ID          int64
	UserID      int64
	Type        TransactionType
	Amount      int64
	Description string
	TxHash      string
	Status      TransactionStatus
	CreatedAt   time.Time
}
