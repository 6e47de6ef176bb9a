package domain

import "time"

// OrderStatus is the review status of an order
type OrderStatus string

const (
	OrderPending  OrderStatus = "pending"
	OrderAccepted OrderStatus = "accepted"
	OrderRejected OrderStatus = "rejected"
)

// Order is a submitted purchase together with the documents collected for it
type Order struct {
	ID                  int64
	UserID              int64
	ProductID           int64
	ProductName         string
	ProductPrice        int64
	FullName            string
	Address             string
	Mobile              string
	PassportFileID      string
	VerificationVideoID string
	TxHash              string
	Status              OrderStatus
	CreatedAt           time.Time
}

// OrderReview is the result of an admin decision on an order
type OrderReview struct {
	Order          *Order
	AcceptedOrders int
	Rate           float64
	// Commission credited to the referrer, zero when the buyer was not referred
	Commission int64
	ReferrerID int64
}
