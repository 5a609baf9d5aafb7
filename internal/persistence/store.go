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

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/banksys/accounts/internal/domain"
)

// TxStore is the view of the store available inside one transactional scope.
// GetAccountForUpdate holds a per-account write lock until the scope ends, so
// a concurrent balance read-modify-write on the same account serializes
// behind it.
type TxStore interface {
	GetAccountForUpdate(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	UpdateAccountBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
	AppendTransaction(ctx context.Context, transaction *domain.Transaction) error
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	DeleteTransactionsByAccount(ctx context.Context, accountID uuid.UUID) error
}

// Store persists accounts and their immutable transaction records.
//
// InsertAccount enforces the (owner identity number, account type) uniqueness
// key and returns domain.ErrConflict on a duplicate. Lookups return
// domain.ErrNotFound for unknown ids. WithinTx runs fn inside a single
// transactional scope: every write made through the TxStore is committed as
// one unit, or rolled back entirely when fn returns an error.
type Store interface {
	Start(ctx context.Context) error
	Stop() error

	InsertAccount(ctx context.Context, account *domain.Account) error
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetAccountByOwnerAndType(ctx context.Context, ownerIdentityNumber int64, accountType domain.AccountType) (*domain.Account, error)
	UpdateAccount(ctx context.Context, account *domain.Account) error

	ListTransactions(ctx context.Context, accountID uuid.UUID) ([]*domain.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)

	WithinTx(ctx context.Context, fn func(tx TxStore) error) error
}
