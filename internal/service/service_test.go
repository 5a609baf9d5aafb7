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

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goakt "github.com/tochemey/goakt/v4/actor"
	"github.com/tochemey/goakt/v4/log"
	"github.com/travisjeffery/go-dynaport"

	"github.com/banksys/accounts/internal/clock"
	"github.com/banksys/accounts/internal/engine"
	"github.com/banksys/accounts/internal/persistence"
)

func setupService(t *testing.T) (*httptest.Server, *AccountService) {
	t.Helper()
	ctx := context.TODO()

	store := persistence.NewMemoryStore()
	require.NoError(t, store.Start(ctx))

	actorSystem, err := goakt.NewActorSystem("accounts-test",
		goakt.WithLogger(log.DiscardLogger),
		goakt.WithActorInitMaxRetries(1))
	require.NoError(t, err)
	require.NoError(t, actorSystem.Start(ctx))

	eng := engine.NewEngine(store, clock.System(), log.DiscardLogger)
	manager := engine.NewManager(store, log.DiscardLogger)
	svc := NewAccountService(actorSystem, manager, eng, 0, log.DiscardLogger)

	server := httptest.NewServer(svc.Handler())
	t.Cleanup(func() {
		server.Close()
		_ = actorSystem.Stop(ctx)
		_ = store.Stop()
	})
	return server, svc
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func createAccountRequestBody() map[string]any {
	return map[string]any{
		"ownerIdentityNumber": 111,
		"ownerFirstName":      "Ada",
		"ownerLastName":       "Lovelace",
		"accountType":         "TL",
		"balance":             "1000",
	}
}

func TestAccountLifecycleOverHTTP(t *testing.T) {
	server, _ := setupService(t)

	// create
	resp, body := doJSON(t, http.MethodPost, server.URL+"/accounts", createAccountRequestBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	accountID := body["id"].(string)
	require.NotEmpty(t, accountID)
	assert.Equal(t, "TL", body["accountType"])

	// duplicate (owner, type) pair conflicts
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/accounts", createAccountRequestBody())
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// get
	resp, body = doJSON(t, http.MethodGet, server.URL+"/accounts/"+accountID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1000", body["balance"])

	// update
	resp, body = doJSON(t, http.MethodPut, server.URL+"/accounts/"+accountID, map[string]any{
		"ownerFirstName": "Augusta",
		"ownerLastName":  "King",
		"accountType":    "TL",
		"balance":        "1000",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Augusta", body["ownerFirstName"])

	// delete
	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/accounts/"+accountID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, server.URL+"/accounts/"+accountID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDepositAndWithdrawOverHTTP(t *testing.T) {
	server, _ := setupService(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/accounts", createAccountRequestBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	accountID := body["id"].(string)

	// deposit 500 on 1000
	resp, body = doJSON(t, http.MethodPost, server.URL+"/accounts/"+accountID+"/deposit", map[string]any{"amount": "500"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "DEPOSIT", body["transactionType"])
	assert.Equal(t, "500", body["amount"])

	resp, body = doJSON(t, http.MethodGet, server.URL+"/accounts/"+accountID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1500", body["balance"])

	// withdrawing more than the balance fails and leaves it untouched
	resp, body = doJSON(t, http.MethodPost, server.URL+"/accounts/"+accountID+"/withdraw", map[string]any{"amount": "2000"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_FUNDS", body["code"])

	// a deposit over the balance limit fails
	resp, body = doJSON(t, http.MethodPost, server.URL+"/accounts/"+accountID+"/deposit", map[string]any{"amount": "9999999"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "LIMIT_EXCEEDED", body["code"])

	resp, body = doJSON(t, http.MethodGet, server.URL+"/accounts/"+accountID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1500", body["balance"])

	// non-positive amounts are rejected at the boundary
	resp, body = doJSON(t, http.MethodPost, server.URL+"/accounts/"+accountID+"/deposit", map[string]any{"amount": "0"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_AMOUNT", body["code"])
}

func TestTransactionHistoryOverHTTP(t *testing.T) {
	server, _ := setupService(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/accounts", createAccountRequestBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	accountID := body["id"].(string)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/accounts/"+accountID+"/deposit", map[string]any{"amount": "500"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/accounts/"+accountID+"/withdraw", map[string]any{"amount": "200"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/accounts/"+accountID+"/transactions", nil)
	require.NoError(t, err)
	httpResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer httpResp.Body.Close()
	require.Equal(t, http.StatusOK, httpResp.StatusCode)

	var transactions []map[string]any
	require.NoError(t, json.NewDecoder(httpResp.Body).Decode(&transactions))
	require.Len(t, transactions, 2)
	assert.Equal(t, "DEPOSIT", transactions[0]["transactionType"])
	assert.Equal(t, "WITHDRAWAL", transactions[1]["transactionType"])
}

func TestUnknownAccountOverHTTP(t *testing.T) {
	server, _ := setupService(t)

	resp, body := doJSON(t, http.MethodGet, server.URL+"/accounts/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])

	resp, body = doJSON(t, http.MethodGet, server.URL+"/accounts/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_INPUT", body["code"])
}

func TestServiceStartAndStop(t *testing.T) {
	ctx := context.TODO()

	store := persistence.NewMemoryStore()
	require.NoError(t, store.Start(ctx))
	defer func() { _ = store.Stop() }()

	actorSystem, err := goakt.NewActorSystem("accounts-test",
		goakt.WithLogger(log.DiscardLogger),
		goakt.WithActorInitMaxRetries(1))
	require.NoError(t, err)
	require.NoError(t, actorSystem.Start(ctx))
	defer func() { _ = actorSystem.Stop(ctx) }()

	eng := engine.NewEngine(store, clock.System(), log.DiscardLogger)
	manager := engine.NewManager(store, log.DiscardLogger)

	ports := dynaport.Get(1)
	svc := NewAccountService(actorSystem, manager, eng, ports[0], log.DiscardLogger)
	svc.Start()

	url := fmt.Sprintf("http://localhost:%d/accounts/%s", ports[0], uuid.NewString())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusNotFound
	}, 5*time.Second, 100*time.Millisecond)

	require.NoError(t, svc.Stop(ctx))
}
