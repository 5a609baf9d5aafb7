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
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// AccountType is the currency bucket an account is denominated in.
// Combined with the owner identity number it forms the uniqueness key
// across all accounts.
type AccountType string

const (
	TL  AccountType = "TL"
	USD AccountType = "USD"
	GBP AccountType = "GBP"
)

// MaxOwnerNameLength caps the owner first and last name fields.
const MaxOwnerNameLength = 50

// MaxBalance is the upper bound any account balance may reach.
// MinBalance is the floor; an account can never go negative.
var (
	MaxBalance = decimal.RequireFromString("9999999.99")
	MinBalance = decimal.Zero
)

// ParseAccountType parses the string representation of an account type.
func ParseAccountType(value string) (AccountType, error) {
	switch AccountType(value) {
	case TL, USD, GBP:
		return AccountType(value), nil
	default:
		return "", errors.Wrapf(ErrInvalidInput, "unknown account type %q", value)
	}
}

// Account is a ledger entity holding a balance for one owner and account type.
// The balance field is mutated only by the balance mutation engine, apart from
// the documented administrative override on update.
type Account struct {
	ID                  uuid.UUID
	OwnerIdentityNumber int64
	OwnerFirstName      string
	OwnerLastName       string
	Type                AccountType
	Balance             decimal.Decimal
}

// Validate checks the account field invariants.
func (x *Account) Validate() error {
	if x.OwnerIdentityNumber <= 0 {
		return errors.Wrap(ErrInvalidInput, "owner identity number must be positive")
	}
	if err := validateOwnerName("owner first name", x.OwnerFirstName); err != nil {
		return err
	}
	if err := validateOwnerName("owner last name", x.OwnerLastName); err != nil {
		return err
	}
	if _, err := ParseAccountType(string(x.Type)); err != nil {
		return err
	}
	if x.Balance.LessThan(MinBalance) {
		return errors.Wrap(ErrInvalidInput, "balance cannot be less than 0")
	}
	if x.Balance.GreaterThan(MaxBalance) {
		return errors.Wrapf(ErrInvalidInput, "balance cannot exceed %s", MaxBalance)
	}
	return nil
}

// UniquenessKey returns the (owner identity number, account type) pair that
// must be unique across all accounts.
func (x *Account) UniquenessKey() (int64, AccountType) {
	return x.OwnerIdentityNumber, x.Type
}

func validateOwnerName(field, value string) error {
	if value == "" {
		return errors.Wrapf(ErrInvalidInput, "%s cannot be empty", field)
	}
	if len(value) > MaxOwnerNameLength {
		return errors.Wrapf(ErrInvalidInput, "%s cannot exceed %d characters", field, MaxOwnerNameLength)
	}
	return nil
}
