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
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// Domain errors. Every operation returns one of these sentinels, usually
// wrapped with context. The HTTP layer translates each kind to a transport
// status code; nothing is retried internally, nothing is swallowed.
var (
	// ErrInvalidInput marks a malformed or out-of-range field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict marks a duplicate (owner identity number, account type) pair.
	ErrConflict = errors.New("account already exists for this owner and account type")

	// ErrNotFound marks an unknown account id.
	ErrNotFound = errors.New("account not found")

	// ErrInvalidAmount marks a non-positive transfer amount.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds marks a withdrawal that would drive the balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrLimitExceeded marks a deposit that would exceed the maximum balance.
	ErrLimitExceeded = errors.New("balance limit exceeded")
)

// Error codes used to carry the error kind across the actor boundary, where
// wrapped sentinel chains do not survive message passing.
const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeConflict          = "CONFLICT"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidAmount     = "INVALID_AMOUNT"
	CodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	CodeLimitExceeded     = "LIMIT_EXCEEDED"
	CodeInternal          = "INTERNAL"
)

// ErrorCode maps an error to its wire code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrLimitExceeded):
		return CodeLimitExceeded
	default:
		return CodeInternal
	}
}

// ErrorFromCode rebuilds a domain error from a wire code and message.
func ErrorFromCode(code, message string) error {
	var sentinel error
	switch code {
	case CodeInvalidInput:
		sentinel = ErrInvalidInput
	case CodeConflict:
		sentinel = ErrConflict
	case CodeNotFound:
		sentinel = ErrNotFound
	case CodeInvalidAmount:
		sentinel = ErrInvalidAmount
	case CodeInsufficientFunds:
		sentinel = ErrInsufficientFunds
	case CodeLimitExceeded:
		sentinel = ErrLimitExceeded
	default:
		return errors.New(message)
	}
	if message == "" || message == sentinel.Error() {
		return sentinel
	}
	return pkgerrors.Wrap(sentinel, message)
}
