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

// Package engine implements the balance mutation engine and the account
// lifecycle manager. The engine is the only component allowed to move money:
// it validates a deposit or withdrawal, applies it to the account balance and
// appends the matching transaction record in one transactional scope.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/tochemey/goakt/v4/log"

	"github.com/banksys/accounts/internal/clock"
	"github.com/banksys/accounts/internal/domain"
	"github.com/banksys/accounts/internal/persistence"
)

// Confirmation carries the identifying fields of a recorded transaction back
// to the caller.
type Confirmation struct {
	AccountID uuid.UUID
	Kind      domain.TransactionKind
	Amount    decimal.Decimal
	Timestamp time.Time
}

// Engine applies deposits and withdrawals against accounts.
type Engine struct {
	store  persistence.Store
	clock  clock.Clock
	logger log.Logger
}

// NewEngine creates an instance of Engine.
func NewEngine(store persistence.Store, clk clock.Clock, logger log.Logger) *Engine {
	return &Engine{
		store:  store,
		clock:  clk,
		logger: logger,
	}
}

// Apply validates and applies one balance mutation. The balance read, the
// balance write and the transaction append share one transactional scope: on
// any failure all three roll back and the account is left untouched.
//
// The amount check also runs at the boundary, but the engine owns the
// invariant and re-validates.
func (x *Engine) Apply(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, kind domain.TransactionKind) (*Confirmation, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}
	if _, err := domain.ParseTransactionKind(string(kind)); err != nil {
		return nil, err
	}

	var confirmation *Confirmation
	err := x.store.WithinTx(ctx, func(tx persistence.TxStore) error {
		account, err := tx.GetAccountForUpdate(ctx, accountID)
		if err != nil {
			return err
		}

		var newBalance decimal.Decimal
		if kind == domain.Deposit {
			newBalance = account.Balance.Add(amount)
		} else {
			newBalance = account.Balance.Sub(amount)
		}

		if newBalance.LessThan(domain.MinBalance) {
			return errors.Wrapf(domain.ErrInsufficientFunds,
				"withdrawing %s from balance %s", amount, account.Balance)
		}
		if newBalance.GreaterThan(domain.MaxBalance) {
			return errors.Wrapf(domain.ErrLimitExceeded,
				"depositing %s on balance %s exceeds %s", amount, account.Balance, domain.MaxBalance)
		}

		if err := tx.UpdateAccountBalance(ctx, accountID, newBalance); err != nil {
			return err
		}

		transaction := &domain.Transaction{
			ID:        uuid.New(),
			AccountID: accountID,
			Kind:      kind,
			Amount:    amount,
			Timestamp: x.clock.Now(),
		}
		if err := tx.AppendTransaction(ctx, transaction); err != nil {
			return err
		}

		confirmation = &Confirmation{
			AccountID: accountID,
			Kind:      kind,
			Amount:    amount,
			Timestamp: transaction.Timestamp,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	x.logger.Debugf("applied %s of %s on account %s", kind, amount, accountID)
	return confirmation, nil
}

// Deposit credits the account with the given amount.
func (x *Engine) Deposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*Confirmation, error) {
	return x.Apply(ctx, accountID, amount, domain.Deposit)
}

// Withdraw debits the account with the given amount.
func (x *Engine) Withdraw(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*Confirmation, error) {
	return x.Apply(ctx, accountID, amount, domain.Withdrawal)
}

// Transactions lists the account's transaction history, oldest first.
func (x *Engine) Transactions(ctx context.Context, accountID uuid.UUID) ([]*domain.Transaction, error) {
	if _, err := x.store.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	return x.store.ListTransactions(ctx, accountID)
}
