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

package engine

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/tochemey/goakt/v4/log"

	"github.com/banksys/accounts/internal/domain"
	"github.com/banksys/accounts/internal/persistence"
)

// UpdateFields are the account fields an update overwrites wholesale.
//
// Balance here is an administrative override: it bypasses the balance
// mutation engine, records no transaction and therefore breaks the
// sum-of-transactions bookkeeping identity. It is not a financial operation.
type UpdateFields struct {
	OwnerFirstName string
	OwnerLastName  string
	Type           domain.AccountType
	Balance        decimal.Decimal
}

// Manager drives the account lifecycle: create, update, get, delete. It
// enforces the (owner identity number, account type) uniqueness invariant on
// both create and update.
type Manager struct {
	store  persistence.Store
	logger log.Logger
}

// NewManager creates an instance of Manager.
func NewManager(store persistence.Store, logger log.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
	}
}

// Create persists a new account with a freshly generated id. It fails with
// domain.ErrConflict when an account already exists for the same owner
// identity number and account type.
func (x *Manager) Create(ctx context.Context, ownerIdentityNumber int64, firstName, lastName string, accountType domain.AccountType, initialBalance decimal.Decimal) (*domain.Account, error) {
	account := &domain.Account{
		ID:                  uuid.New(),
		OwnerIdentityNumber: ownerIdentityNumber,
		OwnerFirstName:      firstName,
		OwnerLastName:       lastName,
		Type:                accountType,
		Balance:             initialBalance,
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := x.store.InsertAccount(ctx, account); err != nil {
		return nil, err
	}

	x.logger.Infof("created account %s for owner %d (%s)", account.ID, ownerIdentityNumber, accountType)
	return account, nil
}

// Get returns the account with the given id.
func (x *Manager) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return x.store.GetAccount(ctx, id)
}

// Update overwrites the account's name, type and balance fields. Changing the
// account type re-validates the uniqueness key against all other accounts, so
// an update cannot collide with an existing (owner, type) pair.
func (x *Manager) Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*domain.Account, error) {
	account, err := x.store.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	account.OwnerFirstName = fields.OwnerFirstName
	account.OwnerLastName = fields.OwnerLastName
	account.Type = fields.Type
	account.Balance = fields.Balance
	if err := account.Validate(); err != nil {
		return nil, err
	}

	existing, err := x.store.GetAccountByOwnerAndType(ctx, account.OwnerIdentityNumber, account.Type)
	switch {
	case err == nil && existing.ID != account.ID:
		return nil, errors.Wrapf(domain.ErrConflict,
			"owner identity number %d with account type %s", account.OwnerIdentityNumber, account.Type)
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	if err := x.store.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}

	x.logger.Infof("updated account %s", account.ID)
	return account, nil
}

// Delete removes the account and all its transaction records as one unit.
func (x *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	err := x.store.WithinTx(ctx, func(tx persistence.TxStore) error {
		if _, err := tx.GetAccountForUpdate(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteTransactionsByAccount(ctx, id); err != nil {
			return err
		}
		return tx.DeleteAccount(ctx, id)
	})
	if err != nil {
		return err
	}

	x.logger.Infof("deleted account %s", id)
	return nil
}
