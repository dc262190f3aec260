// Package capital is the finance bridge: ledger transactions and accounts.
package capital

import (
	"context"
	"time"
)

const (
	Module = "capital"
	Bridge = "CapitalBridge"
)

type Transaction struct {
	ID          int64     `json:"id"`
	AccountID   string    `json:"accountId"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Account struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
}

// TransactionFilter narrows GetTransactions, zero fields match everything.
type TransactionFilter struct {
	AccountID string     `json:"accountId,omitempty"`
	Since     *time.Time `json:"since,omitempty"`
	Until     *time.Time `json:"until,omitempty"`
	Limit     int        `json:"limit,omitempty"`
}

type NewTransaction struct {
	AccountID   string  `json:"accountId"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

type Service interface {
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error)
	GetAccounts(ctx context.Context) ([]Account, error)
	CreateTransaction(ctx context.Context, tx NewTransaction) (Transaction, error)
}
