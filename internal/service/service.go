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

// Package service exposes the account operations over HTTP. This layer owns
// request decoding, response shaping and the error-kind to status-code
// mapping; all rules live in the engine and the lifecycle manager.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	goakt "github.com/tochemey/goakt/v4/actor"
	gerrors "github.com/tochemey/goakt/v4/errors"
	"github.com/tochemey/goakt/v4/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/banksys/accounts/internal/actors"
	"github.com/banksys/accounts/internal/domain"
	"github.com/banksys/accounts/internal/engine"
	"github.com/banksys/accounts/internal/messages"
)

const askTimeout = 5 * time.Second

// AccountService is the HTTP boundary backed by the actor system and the
// lifecycle manager.
type AccountService struct {
	actorSystem goakt.ActorSystem
	manager     *engine.Manager
	engine      *engine.Engine
	logger      log.Logger
	port        int
	server      *http.Server
}

// NewAccountService creates an instance of AccountService.
func NewAccountService(system goakt.ActorSystem, manager *engine.Manager, eng *engine.Engine, port int, logger log.Logger) *AccountService {
	return &AccountService{
		actorSystem: system,
		manager:     manager,
		engine:      eng,
		logger:      logger,
		port:        port,
	}
}

// Start starts the service.
func (s *AccountService) Start() {
	go func() {
		s.listenAndServe()
	}()
}

// Stop stops the service.
func (s *AccountService) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler with all routes mounted.
func (s *AccountService) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /accounts", s.createAccount)
	mux.HandleFunc("GET /accounts/{id}", s.getAccount)
	mux.HandleFunc("PUT /accounts/{id}", s.updateAccount)
	mux.HandleFunc("DELETE /accounts/{id}", s.deleteAccount)
	mux.HandleFunc("POST /accounts/{id}/deposit", s.deposit)
	mux.HandleFunc("POST /accounts/{id}/withdraw", s.withdraw)
	mux.HandleFunc("GET /accounts/{id}/transactions", s.listTransactions)
	return otelhttp.NewHandler(mux, "accounts")
}

func (s *AccountService) listenAndServe() {
	serverAddr := fmt.Sprintf(":%d", s.port)
	s.server = &http.Server{
		Addr:              serverAddr,
		ReadTimeout:       3 * time.Second,
		ReadHeaderTimeout: time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       1200 * time.Second,
		Handler:           s.Handler(),
	}

	s.logger.Infof("account service listening on %s", serverAddr)
	if err := s.server.ListenAndServe(); err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("failed to start account service: %v", errors.Wrap(err, "listen error"))
		}
	}
}

type createAccountRequest struct {
	OwnerIdentityNumber int64           `json:"ownerIdentityNumber"`
	OwnerFirstName      string          `json:"ownerFirstName"`
	OwnerLastName       string          `json:"ownerLastName"`
	AccountType         string          `json:"accountType"`
	Balance             decimal.Decimal `json:"balance"`
}

type updateAccountRequest struct {
	OwnerFirstName string          `json:"ownerFirstName"`
	OwnerLastName  string          `json:"ownerLastName"`
	AccountType    string          `json:"accountType"`
	Balance        decimal.Decimal `json:"balance"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type accountResponse struct {
	ID                  string          `json:"id"`
	OwnerIdentityNumber int64           `json:"ownerIdentityNumber"`
	OwnerFirstName      string          `json:"ownerFirstName"`
	OwnerLastName       string          `json:"ownerLastName"`
	AccountType         string          `json:"accountType"`
	Balance             decimal.Decimal `json:"balance"`
}

type confirmationResponse struct {
	AccountID       string          `json:"accountId"`
	TransactionType string          `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`
	Timestamp       time.Time       `json:"timestamp"`
}

type transactionResponse struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"accountId"`
	TransactionType string          `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`
	Timestamp       time.Time       `json:"timestamp"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *AccountService) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrapf(domain.ErrInvalidInput, "invalid request: %v", err))
		return
	}

	accountType, err := domain.ParseAccountType(req.AccountType)
	if err != nil {
		s.writeError(w, err)
		return
	}

	account, err := s.manager.Create(r.Context(), req.OwnerIdentityNumber, req.OwnerFirstName, req.OwnerLastName, accountType, req.Balance)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (s *AccountService) getAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseAccountID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	account, err := s.manager.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func (s *AccountService) updateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseAccountID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrapf(domain.ErrInvalidInput, "invalid request: %v", err))
		return
	}

	accountType, err := domain.ParseAccountType(req.AccountType)
	if err != nil {
		s.writeError(w, err)
		return
	}

	account, err := s.manager.Update(r.Context(), id, engine.UpdateFields{
		OwnerFirstName: req.OwnerFirstName,
		OwnerLastName:  req.OwnerLastName,
		Type:           accountType,
		Balance:        req.Balance,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func (s *AccountService) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseAccountID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	if err := s.manager.Delete(ctx, id); err != nil {
		s.writeError(w, err)
		return
	}

	// the account is gone, so is its entity
	if pid, err := s.actorSystem.ActorOf(ctx, id.String()); err == nil {
		if err := pid.Shutdown(ctx); err != nil {
			s.logger.Errorf("error stopping entity %s: %v", id, err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *AccountService) deposit(w http.ResponseWriter, r *http.Request) {
	s.applyTransaction(w, r, domain.Deposit)
}

func (s *AccountService) withdraw(w http.ResponseWriter, r *http.Request) {
	s.applyTransaction(w, r, domain.Withdrawal)
}

func (s *AccountService) applyTransaction(w http.ResponseWriter, r *http.Request, kind domain.TransactionKind) {
	id, err := parseAccountID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrapf(domain.ErrInvalidInput, "invalid request: %v", err))
		return
	}
	if err := domain.ValidateAmount(req.Amount); err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	pid, err := s.entityFor(ctx, id)
	if err != nil {
		s.logger.Errorf("error locating entity %s: %v", id, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var command any
	if kind == domain.Deposit {
		command = &messages.Deposit{AccountID: id.String(), Amount: req.Amount}
	} else {
		command = &messages.Withdraw{AccountID: id.String(), Amount: req.Amount}
	}

	reply, err := goakt.Ask(ctx, pid, command, askTimeout)
	if err != nil {
		s.logger.Errorf("error applying %s on account %s: %v", kind, id, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	switch m := reply.(type) {
	case *messages.Confirmation:
		s.writeJSON(w, http.StatusOK, confirmationResponse{
			AccountID:       m.AccountID,
			TransactionType: m.Kind,
			Amount:          m.Amount,
			Timestamp:       m.Timestamp,
		})
	case *messages.OperationFailed:
		s.writeError(w, domain.ErrorFromCode(m.Code, m.Message))
	default:
		http.Error(w, fmt.Sprintf("invalid reply type: %T", reply), http.StatusInternalServerError)
	}
}

func (s *AccountService) listTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := parseAccountID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	transactions, err := s.engine.Transactions(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]transactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		out = append(out, transactionResponse{
			ID:              transaction.ID.String(),
			AccountID:       transaction.AccountID.String(),
			TransactionType: string(transaction.Kind),
			Amount:          transaction.Amount,
			Timestamp:       transaction.Timestamp,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// entityFor returns the account entity, spawning it on first use. A lost
// spawn race means another request created the entity first; fall back to the
// lookup.
func (s *AccountService) entityFor(ctx context.Context, accountID uuid.UUID) (*goakt.PID, error) {
	pid, err := s.actorSystem.ActorOf(ctx, accountID.String())
	if err == nil {
		return pid, nil
	}
	if !errors.Is(err, gerrors.ErrActorNotFound) {
		return nil, err
	}

	pid, err = s.actorSystem.Spawn(ctx, accountID.String(), actors.NewAccountEntity(s.engine), goakt.WithLongLived())
	if err != nil {
		return s.actorSystem.ActorOf(ctx, accountID.String())
	}
	return pid, nil
}

func (s *AccountService) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *AccountService) writeError(w http.ResponseWriter, err error) {
	code := domain.ErrorCode(err)
	status := statusOf(code)
	if status == http.StatusInternalServerError {
		s.logger.Errorf("internal error: %v", err)
	}
	s.writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}

func statusOf(code string) int {
	switch code {
	case domain.CodeInvalidInput, domain.CodeInvalidAmount:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConflict:
		return http.StatusConflict
	case domain.CodeInsufficientFunds, domain.CodeLimitExceeded:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func parseAccountID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, errors.Wrapf(domain.ErrInvalidInput, "invalid account id %q", r.PathValue("id"))
	}
	return id, nil
}

func toAccountResponse(account *domain.Account) accountResponse {
	return accountResponse{
		ID:                  account.ID.String(),
		OwnerIdentityNumber: account.OwnerIdentityNumber,
		OwnerFirstName:      account.OwnerFirstName,
		OwnerLastName:       account.OwnerLastName,
		AccountType:         string(account.Type),
		Balance:             account.Balance,
	}
}
