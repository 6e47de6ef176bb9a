package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/M0SENI/VisaBot/internal/domain"
)

// WalletRepo implements repository.WalletRepository
type WalletRepo struct {
	db *sql.DB
}

// NewWalletRepo creates a new wallet repository
func NewWalletRepo(db *sql.DB) *WalletRepo {
	return &WalletRepo{db: db}
}

// GetBalance returns the wallet balance, zero when the wallet does not exist yet
func (r *WalletRepo) GetBalance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := r.db.QueryRowContext(ctx, `SELECT balance FROM wallets WHERE user_id = $1`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

// Deposit credits the wallet and records the movement in one transaction
func (r *WalletRepo) Deposit(ctx context.Context, userID, amount int64, description string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		credit := `
			INSERT INTO wallets (user_id, balance)
			VALUES ($1, $2)
			ON CONFLICT (user_id)
			DO UPDATE SET balance = wallets.balance + EXCLUDED.balance
		`
		if _, err := tx.ExecContext(ctx, credit, userID, amount); err != nil {
			return fmt.Errorf("credit wallet: %w", err)
		}

		record := `
			INSERT INTO transactions (user_id, type, amount, description, status)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.ExecContext(ctx, record,
			userID, string(domain.TransactionDeposit), amount, description, string(domain.TransactionConfirmed),
		); err != nil {
			return fmt.Errorf("record deposit: %w", err)
		}
		return nil
	})
}

// insertTransaction records a ledger row without touching the balance
func insertTransaction(ctx context.Context, q queryRower, t *domain.Transaction) error {
	if t.Status == "" {
		t.Status = domain.TransactionPending
	}

	query := `
		INSERT INTO transactions (user_id, type, amount, description, tx_hash, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := q.QueryRowContext(ctx, query,
		t.UserID, string(t.Type), t.Amount, t.Description, nullString(t.TxHash), string(t.Status),
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListTransactions returns a user's transactions newest first
func (r *WalletRepo) ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, error) {
	query := `
		SELECT id, user_id, type, amount, description, tx_hash, status, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var (
			t           domain.Transaction
			kind        string
			status      string
			description sql.NullString
			txHash      sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.UserID, &kind, &t.Amount, &description, &txHash, &status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = domain.TransactionType(kind)
		t.Status = domain.TransactionStatus(status)
		t.Description = description.String
		t.TxHash = txHash.String
		txs = append(txs, t)
	}

	return txs, rows.Err()
}

// CountTransactions returns the number of transactions of a user
func (r *WalletRepo) CountTransactions(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}
