package capital

import (
	"context"
	"sort"
	"sync"
	"time"

	"consolebridge/dispatch"
)

var _ Service = (*Memory)(nil)

// Memory keeps the ledger in process. Hosts register it on a dispatcher.
type Memory struct {
	mutex        sync.RWMutex
	accounts     map[string]*Account
	transactions []Transaction
	nextID       int64
	now          func() time.Time
}

func NewMemory(accounts ...Account) *Memory {
	res := &Memory{
		accounts: make(map[string]*Account, len(accounts)),
		nextID:   1,
		now:      time.Now,
	}
	for i := range accounts {
		acc := accounts[i]
		res.accounts[acc.ID] = &acc
	}
	return res
}

func (m *Memory) GetTransactions(_ context.Context, filter TransactionFilter) ([]Transaction, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	res := make([]Transaction, 0, len(m.transactions))
	// newest first
	for i := len(m.transactions) - 1; i >= 0; i-- {
		tx := m.transactions[i]
		if filter.AccountID != "" && tx.AccountID != filter.AccountID {
			continue
		}
		if filter.Since != nil && tx.CreatedAt.Before(*filter.Since) {
			continue
		}
		if filter.Until != nil && !tx.CreatedAt.Before(*filter.Until) {
			continue
		}
		res = append(res, tx)
		if filter.Limit > 0 && len(res) == filter.Limit {
			break
		}
	}
	return res, nil
}

func (m *Memory) GetAccounts(_ context.Context) ([]Account, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	res := make([]Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		res = append(res, *acc)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (m *Memory) CreateTransaction(_ context.Context, tx NewTransaction) (Transaction, error) {
	if tx.Amount == 0 {
		return Transaction{}, dispatch.BadRequest("amount must not be zero")
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	acc, ok := m.accounts[tx.AccountID]
	if !ok {
		return Transaction{}, dispatch.NotFound("account %s not found", tx.AccountID)
	}
	if acc.Balance+tx.Amount < 0 {
		return Transaction{}, dispatch.BadRequest("insufficient funds in account %s", acc.ID)
	}
	acc.Balance += tx.Amount
	res := Transaction{
		ID:          m.nextID,
		AccountID:   acc.ID,
		Amount:      tx.Amount,
		Currency:    acc.Currency,
		Description: tx.Description,
		CreatedAt:   m.now(),
	}
	m.nextID++
	m.transactions = append(m.transactions, res)
	return res, nil
}
