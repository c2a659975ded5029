// Package apperr defines the error taxonomy shared by the cart ledger, the
// catalog repository and the login validator.
package apperr

import (
	stdErrors "errors"
	"fmt"
	"strings"
)

type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Reason names the business rule that rejected an operation.
type Reason string

const (
	ReasonInvalidInput      Reason = "InvalidInput"
	ReasonInvalidQuantity   Reason = "InvalidQuantity"
	ReasonProductNotFound   Reason = "ProductNotFound"
	ReasonInsufficientStock Reason = "InsufficientStock"
	ReasonItemNotInCart     Reason = "ItemNotInCart"
	ReasonHasActiveLoans    Reason = "HasActiveLoans"
	ReasonCurrentlyLoaned   Reason = "CurrentlyLoaned"
	ReasonInvalidReference  Reason = "InvalidReference"
	ReasonBookUnavailable   Reason = "BookUnavailable"
	ReasonMissingField      Reason = "MissingField"
	ReasonInvalidEmail      Reason = "InvalidEmail"
	ReasonPasswordTooShort  Reason = "PasswordTooShort"
	ReasonWeakPassword      Reason = "WeakPassword"
	ReasonAccountNotFound   Reason = "AccountNotFound"
	ReasonAccountExists     Reason = "AccountExists"
	ReasonWrongPassword     Reason = "WrongPassword"
	ReasonStorage           Reason = "Storage"
)

var codeByReason = map[Reason]Code{
	ReasonInvalidInput:      CodeValidation,
	ReasonInvalidQuantity:   CodeValidation,
	ReasonMissingField:      CodeValidation,
	ReasonInvalidEmail:      CodeValidation,
	ReasonPasswordTooShort:  CodeValidation,
	ReasonWeakPassword:      CodeValidation,
	ReasonProductNotFound:   CodeNotFound,
	ReasonItemNotInCart:     CodeNotFound,
	ReasonInvalidReference:  CodeNotFound,
	ReasonAccountNotFound:   CodeNotFound,
	ReasonInsufficientStock: CodeConflict,
	ReasonHasActiveLoans:    CodeConflict,
	ReasonCurrentlyLoaned:   CodeConflict,
	ReasonBookUnavailable:   CodeConflict,
	ReasonAccountExists:     CodeConflict,
	ReasonWrongPassword:     CodeUnauthorized,
	ReasonStorage:           CodeInternal,
}

// CodeFor maps a reason onto its taxonomy bucket.
func CodeFor(reason Reason) Code {
	if code, ok := codeByReason[reason]; ok {
		return code
	}
	return CodeInternal
}

type Error struct {
	code    Code
	reason  Reason
	message string
	details []string
	cause   error
}

// New builds an error whose code is derived from reason.
func New(reason Reason, message string) *Error {
	return &Error{code: CodeFor(reason), reason: reason, message: message}
}

// Newf is New with a formatted message.
func Newf(reason Reason, format string, args ...any) *Error {
	return New(reason, fmt.Sprintf(format, args...))
}

// Wrap attaches a cause. A nil err behaves like New.
func Wrap(reason Reason, err error, message string) *Error {
	e := New(reason, message)
	e.cause = err
	return e
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Reason() Reason {
	if e == nil {
		return ""
	}
	return e.reason
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() []string {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details ...string) *Error {
	if e == nil {
		return nil
	}
	e.details = append(e.details, details...)
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s: %s", e.reason, e.message)
	if len(e.details) > 0 {
		msg += " (" + strings.Join(e.details, "; ") + ")"
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches another *Error by reason, so sentinel values work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.reason == t.reason
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the code of err, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	return As(err).Code()
}

// ReasonOf returns the reason of err, or "" for foreign errors.
func ReasonOf(err error) Reason {
	return As(err).Reason()
}

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidQuantity   = New(ReasonInvalidQuantity, "quantity must be greater than zero")
	ErrProductNotFound   = New(ReasonProductNotFound, "product not found")
	ErrInsufficientStock = New(ReasonInsufficientStock, "insufficient stock")
	ErrItemNotInCart     = New(ReasonItemNotInCart, "product is not in the cart")
	ErrHasActiveLoans    = New(ReasonHasActiveLoans, "cannot delete user with active loans")
	ErrCurrentlyLoaned   = New(ReasonCurrentlyLoaned, "cannot delete book that is currently loaned")
	ErrInvalidReference  = New(ReasonInvalidReference, "invalid user or book selected")
	ErrBookUnavailable   = New(ReasonBookUnavailable, "book is not available")
	ErrAccountNotFound   = New(ReasonAccountNotFound, "login not found")
	ErrWrongPassword     = New(ReasonWrongPassword, "incorrect password")
)
