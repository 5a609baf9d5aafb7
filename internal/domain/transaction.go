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

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// TransactionKind classifies a balance-changing event.
type TransactionKind string

const (
	Deposit    TransactionKind = "DEPOSIT"
	Withdrawal TransactionKind = "WITHDRAWAL"
)

// ParseTransactionKind parses the string representation of a transaction kind.
func ParseTransactionKind(value string) (TransactionKind, error) {
	switch TransactionKind(value) {
	case Deposit, Withdrawal:
		return TransactionKind(value), nil
	default:
		return "", errors.Wrapf(ErrInvalidInput, "unknown transaction kind %q", value)
	}
}

// Transaction is an immutable record of one balance-changing event. A
// transaction is created exactly once per successful deposit or withdrawal,
// never mutated, and deleted only as a cascade of account deletion.
type Transaction struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Kind      TransactionKind
	Amount    decimal.Decimal
	Timestamp time.Time
}

// ValidateAmount rejects non-positive transfer amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.Wrapf(ErrInvalidAmount, "amount must be greater than zero, got %s", amount)
	}
	return nil
}
