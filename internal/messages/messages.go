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

package messages

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deposit is the entity command to credit the account.
type Deposit struct {
	AccountID string
	Amount    decimal.Decimal
}

// Withdraw is the entity command to debit the account.
type Withdraw struct {
	AccountID string
	Amount    decimal.Decimal
}

// Confirmation is the entity reply to a successful deposit or withdrawal.
type Confirmation struct {
	AccountID string
	Kind      string
	Amount    decimal.Decimal
	Timestamp time.Time
}

// OperationFailed is the entity reply when a deposit or withdrawal is
// rejected. Code is one of the domain error codes.
type OperationFailed struct {
	Code    string
	Message string
}
