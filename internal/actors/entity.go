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

package actors

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tochemey/goakt/v4/actor"

	"github.com/banksys/accounts/internal/domain"
	"github.com/banksys/accounts/internal/engine"
	"github.com/banksys/accounts/internal/messages"
)

// AccountEntity serializes balance mutations for one account. The entity is
// named after the account id and holds no balance state of its own; the store
// is the source of truth. Running every deposit and withdrawal of an account
// through its entity guarantees a single writer per account on this node, on
// top of the store's row-level locking.
type AccountEntity struct {
	engine    *engine.Engine
	accountID uuid.UUID
}

var _ actor.Actor = (*AccountEntity)(nil)

// NewAccountEntity creates an instance of AccountEntity.
func NewAccountEntity(eng *engine.Engine) *AccountEntity {
	return &AccountEntity{engine: eng}
}

// PreStart resolves the account id from the actor name.
func (x *AccountEntity) PreStart(ctx *actor.Context) error {
	accountID, err := uuid.Parse(ctx.ActorName())
	if err != nil {
		return err
	}
	x.accountID = accountID
	return nil
}

// Receive handles the messages sent to the entity.
func (x *AccountEntity) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *actor.PostStart:
		ctx.Logger().Debugf("account entity %s started", x.accountID)
	case *messages.Deposit:
		x.apply(ctx, msg.Amount, domain.Deposit)
	case *messages.Withdraw:
		x.apply(ctx, msg.Amount, domain.Withdrawal)
	default:
		ctx.Unhandled()
	}
}

// PostStop is used to free-up resources when the entity stops.
func (x *AccountEntity) PostStop(ctx *actor.Context) error {
	return nil
}

func (x *AccountEntity) apply(ctx *actor.ReceiveContext, amount decimal.Decimal, kind domain.TransactionKind) {
	confirmation, err := x.engine.Apply(ctx.Context(), x.accountID, amount, kind)
	if err != nil {
		ctx.Response(&messages.OperationFailed{
			Code:    domain.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	ctx.Response(&messages.Confirmation{
		AccountID: confirmation.AccountID.String(),
		Kind:      string(confirmation.Kind),
		Amount:    confirmation.Amount,
		Timestamp: confirmation.Timestamp,
	})
}
