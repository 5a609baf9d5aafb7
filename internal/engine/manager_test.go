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
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banksys/accounts/internal/domain"
)

func TestCreateAccount(t *testing.T) {
	ctx := context.TODO()
	_, manager, _, _ := newFixture(t)

	account, err := manager.Create(ctx, 111, "Ada", "Lovelace", domain.TL, amount("1000"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.True(t, account.Balance.Equal(amount("1000")))

	fetched, err := manager.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, fetched.ID)
}

func TestCreateDuplicateOwnerAndType(t *testing.T) {
	ctx := context.TODO()
	_, manager, _, _ := newFixture(t)

	_, err := manager.Create(ctx, 111, "Ada", "Lovelace", domain.TL, amount("1000"))
	require.NoError(t, err)

	_, err = manager.Create(ctx, 111, "Ada", "Lovelace", domain.TL, amount("0"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	// same owner, different type is allowed
	_, err = manager.Create(ctx, 111, "Ada", "Lovelace", domain.USD, amount("0"))
	require.NoError(t, err)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	ctx := context.TODO()
	_, manager, _, _ := newFixture(t)

	_, err := manager.Create(ctx, 111, "", "Lovelace", domain.TL, amount("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = manager.Create(ctx, 111, "Ada", "Lovelace", domain.TL, amount("-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = manager.Create(ctx, 111, "Ada", "Lovelace", domain.TL, amount("10000000"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetUnknownAccount(t *testing.T) {
	_, manager, _, _ := newFixture(t)
	_, err := manager.Get(context.TODO(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateAccount(t *testing.T) {
	ctx := context.TODO()
	_, manager, store, _ := newFixture(t)
	account := createAccount(t, manager, 111, domain.TL, "1000")

	updated, err := manager.Update(ctx, account.ID, UpdateFields{
		OwnerFirstName: "Augusta",
		OwnerLastName:  "King",
		Type:           domain.TL,
		Balance:        amount("2500"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", updated.OwnerFirstName)
	assert.True(t, updated.Balance.Equal(amount("2500")))

	// the administrative balance override records no transaction
	transactions, err := store.ListTransactions(ctx, account.ID)
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestUpdateUnknownAccount(t *testing.T) {
	_, manager, _, _ := newFixture(t)
	_, err := manager.Update(context.TODO(), uuid.New(), UpdateFields{
		OwnerFirstName: "Ada",
		OwnerLastName:  "Lovelace",
		Type:           domain.TL,
		Balance:        amount("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateTypeRevalidatesUniqueness(t *testing.T) {
	ctx := context.TODO()
	_, manager, _, _ := newFixture(t)
	createAccount(t, manager, 111, domain.USD, "50")
	account := createAccount(t, manager, 111, domain.TL, "1000")

	// switching to USD would collide with the owner's existing USD account
	_, err := manager.Update(ctx, account.ID, UpdateFields{
		OwnerFirstName: account.OwnerFirstName,
		OwnerLastName:  account.OwnerLastName,
		Type:           domain.USD,
		Balance:        account.Balance,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// switching to a free type works
	updated, err := manager.Update(ctx, account.ID, UpdateFields{
		OwnerFirstName: account.OwnerFirstName,
		OwnerLastName:  account.OwnerLastName,
		Type:           domain.GBP,
		Balance:        account.Balance,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.GBP, updated.Type)
}

func TestDeleteAccountCascades(t *testing.T) {
	ctx := context.TODO()
	eng, manager, store, _ := newFixture(t)
	account := createAccount(t, manager, 111, domain.TL, "1000")

	_, err := eng.Deposit(ctx, account.ID, amount("500"))
	require.NoError(t, err)

	transactions, err := eng.Transactions(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	transactionID := transactions[0].ID

	require.NoError(t, manager.Delete(ctx, account.ID))

	_, err = manager.Get(ctx, account.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetTransaction(ctx, transactionID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteUnknownAccount(t *testing.T) {
	_, manager, _, _ := newFixture(t)
	assert.ErrorIs(t, manager.Delete(context.TODO(), uuid.New()), domain.ErrNotFound)
}
