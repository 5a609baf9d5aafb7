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
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAccount() *Account {
	return &Account{
		ID:                  uuid.New(),
		OwnerIdentityNumber: 111,
		OwnerFirstName:      "Ada",
		OwnerLastName:       "Lovelace",
		Type:                TL,
		Balance:             decimal.RequireFromString("1000"),
	}
}

func TestAccountValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validAccount().Validate())
	})
	t.Run("zero balance is valid", func(t *testing.T) {
		account := validAccount()
		account.Balance = decimal.Zero
		require.NoError(t, account.Validate())
	})
	t.Run("balance at the limit is valid", func(t *testing.T) {
		account := validAccount()
		account.Balance = MaxBalance
		require.NoError(t, account.Validate())
	})
	t.Run("negative balance", func(t *testing.T) {
		account := validAccount()
		account.Balance = decimal.RequireFromString("-0.01")
		assert.ErrorIs(t, account.Validate(), ErrInvalidInput)
	})
	t.Run("balance over the limit", func(t *testing.T) {
		account := validAccount()
		account.Balance = MaxBalance.Add(decimal.RequireFromString("0.01"))
		assert.ErrorIs(t, account.Validate(), ErrInvalidInput)
	})
	t.Run("empty first name", func(t *testing.T) {
		account := validAccount()
		account.OwnerFirstName = ""
		assert.ErrorIs(t, account.Validate(), ErrInvalidInput)
	})
	t.Run("last name too long", func(t *testing.T) {
		account := validAccount()
		account.OwnerLastName = strings.Repeat("a", MaxOwnerNameLength+1)
		assert.ErrorIs(t, account.Validate(), ErrInvalidInput)
	})
	t.Run("non positive owner identity number", func(t *testing.T) {
		account := validAccount()
		account.OwnerIdentityNumber = 0
		assert.ErrorIs(t, account.Validate(), ErrInvalidInput)
	})
	t.Run("unknown account type", func(t *testing.T) {
		account := validAccount()
		account.Type = "EUR"
		assert.ErrorIs(t, account.Validate(), ErrInvalidInput)
	})
}

func TestParseAccountType(t *testing.T) {
	for _, value := range []string{"TL", "USD", "GBP"} {
		parsed, err := ParseAccountType(value)
		require.NoError(t, err)
		assert.Equal(t, AccountType(value), parsed)
	}

	_, err := ParseAccountType("JPY")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidateAmount(t *testing.T) {
	require.NoError(t, ValidateAmount(decimal.RequireFromString("0.01")))
	assert.ErrorIs(t, ValidateAmount(decimal.Zero), ErrInvalidAmount)
	assert.ErrorIs(t, ValidateAmount(decimal.RequireFromString("-5")), ErrInvalidAmount)
}

func TestErrorCodeRoundTrip(t *testing.T) {
	for _, sentinel := range []error{
		ErrInvalidInput,
		ErrConflict,
		ErrNotFound,
		ErrInvalidAmount,
		ErrInsufficientFunds,
		ErrLimitExceeded,
	} {
		code := ErrorCode(sentinel)
		rebuilt := ErrorFromCode(code, sentinel.Error())
		assert.ErrorIs(t, rebuilt, sentinel)
	}
}
