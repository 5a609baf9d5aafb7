// MIT License
//
// Copyright (c) 2024-2026 Banksys Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/atomic"

	"github.com/banksys/accounts/internal/domain"
)

// MemoryStore is an in-memory Store used by tests and local runs. A single
// mutex guards both tables; WithinTx operates on cloned tables and swaps them
// in on commit, so a failed scope leaves no observable effect.
type MemoryStore struct {
	mu           sync.Mutex
	accounts     map[uuid.UUID]*domain.Account
	transactions map[uuid.UUID]*domain.Transaction
	connected    *atomic.Bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an instance of MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:     make(map[uuid.UUID]*domain.Account),
		transactions: make(map[uuid.UUID]*domain.Transaction),
		connected:    atomic.NewBool(false),
	}
}

func (x *MemoryStore) Start(context.Context) error {
	x.connected.Store(true)
	return nil
}

func (x *MemoryStore) Stop() error {
	x.connected.Store(false)
	return nil
}

func (x *MemoryStore) InsertAccount(_ context.Context, account *domain.Account) error {
	if !x.connected.Load() {
		return errors.New("store is not connected")
	}
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, existing := range x.accounts {
		if existing.OwnerIdentityNumber == account.OwnerIdentityNumber && existing.Type == account.Type {
			return errors.Wrapf(domain.ErrConflict,
				"owner identity number %d with account type %s", account.OwnerIdentityNumber, account.Type)
		}
	}

	clone := *account
	x.accounts[account.ID] = &clone
	return nil
}

func (x *MemoryStore) GetAccount(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return getAccountLocked(x.accounts, id)
}

func (x *MemoryStore) GetAccountByOwnerAndType(_ context.Context, ownerIdentityNumber int64, accountType domain.AccountType) (*domain.Account, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, account := range x.accounts {
		if account.OwnerIdentityNumber == ownerIdentityNumber && account.Type == accountType {
			clone := *account
			return &clone, nil
		}
	}
	return nil, errors.Wrapf(domain.ErrNotFound,
		"owner identity number %d with account type %s", ownerIdentityNumber, accountType)
}

func (x *MemoryStore) UpdateAccount(_ context.Context, account *domain.Account) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, ok := x.accounts[account.ID]; !ok {
		return errors.Wrapf(domain.ErrNotFound, "account %s", account.ID)
	}
	clone := *account
	x.accounts[account.ID] = &clone
	return nil
}

func (x *MemoryStore) ListTransactions(_ context.Context, accountID uuid.UUID) ([]*domain.Transaction, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	var out []*domain.Transaction
	for _, transaction := range x.transactions {
		if transaction.AccountID == accountID {
			clone := *transaction
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (x *MemoryStore) GetTransaction(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	transaction, ok := x.transactions[id]
	if !ok {
		return nil, errors.Wrapf(domain.ErrNotFound, "transaction %s", id)
	}
	clone := *transaction
	return &clone, nil
}

func (x *MemoryStore) WithinTx(ctx context.Context, fn func(tx TxStore) error) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	tx := &memoryTx{
		accounts:     cloneAccounts(x.accounts),
		transactions: cloneTransactions(x.transactions),
	}
	if err := fn(tx); err != nil {
		return err
	}

	x.accounts = tx.accounts
	x.transactions = tx.transactions
	return nil
}

type memoryTx struct {
	accounts     map[uuid.UUID]*domain.Account
	transactions map[uuid.UUID]*domain.Transaction
}

var _ TxStore = (*memoryTx)(nil)

func (x *memoryTx) GetAccountForUpdate(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	return getAccountLocked(x.accounts, id)
}

func (x *memoryTx) UpdateAccountBalance(_ context.Context, id uuid.UUID, balance decimal.Decimal) error {
	account, ok := x.accounts[id]
	if !ok {
		return errors.Wrapf(domain.ErrNotFound, "account %s", id)
	}
	account.Balance = balance
	return nil
}

func (x *memoryTx) AppendTransaction(_ context.Context, transaction *domain.Transaction) error {
	clone := *transaction
	x.transactions[transaction.ID] = &clone
	return nil
}

func (x *memoryTx) DeleteAccount(_ context.Context, id uuid.UUID) error {
	if _, ok := x.accounts[id]; !ok {
		return errors.Wrapf(domain.ErrNotFound, "account %s", id)
	}
	delete(x.accounts, id)
	return nil
}

func (x *memoryTx) DeleteTransactionsByAccount(_ context.Context, accountID uuid.UUID) error {
	for id, transaction := range x.transactions {
		if transaction.AccountID == accountID {
			delete(x.transactions, id)
		}
	}
	return nil
}

func getAccountLocked(accounts map[uuid.UUID]*domain.Account, id uuid.UUID) (*domain.Account, error) {
	account, ok := accounts[id]
	if !ok {
		return nil, errors.Wrapf(domain.ErrNotFound, "account %s", id)
	}
	clone := *account
	return &clone, nil
}

func cloneAccounts(in map[uuid.UUID]*domain.Account) map[uuid.UUID]*domain.Account {
	out := make(map[uuid.UUID]*domain.Account, len(in))
	for id, account := range in {
		clone := *account
		out[id] = &clone
	}
	return out
}

func cloneTransactions(in map[uuid.UUID]*domain.Transaction) map[uuid.UUID]*domain.Transaction {
	out := make(map[uuid.UUID]*domain.Transaction, len(in))
	for id, transaction := range in {
		clone := *transaction
		out[id] = &clone
	}
	return out
}
