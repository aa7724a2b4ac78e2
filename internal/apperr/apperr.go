package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
	KindBusinessRule Kind = "business_rule"
	KindPersistence  Kind = "persistence"
)

// Error is a classified failure. Two errors match under errors.Is when
// their codes are equal, so wrapped sentinels still compare.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap returns a copy of sentinel carrying err as its cause.
func Wrap(sentinel *Error, err error) error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Message: sentinel.Message, Err: err}
}

// Persistence reports a failed read or write of the underlying store.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) && existing.Kind == KindPersistence {
		return err
	}
	return &Error{Kind: KindPersistence, Code: "persistence_error", Message: op, Err: err}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

var (
	ErrNotFound            = New(KindNotFound, "not_found", "not found")
	ErrDestinationNotFound = New(KindNotFound, "destination_not_found", "destination account not found")

	ErrInvalidAmount   = New(KindValidation, "invalid_amount", "invalid amount")
	ErrInvalidSnapshot = New(KindValidation, "invalid_snapshot", "invalid snapshot")
	ErrRequiredField   = New(KindValidation, "required_field", "required field missing")
	ErrDuplicate       = New(KindValidation, "duplicate", "duplicate unique key")
	ErrInvalidInput    = New(KindValidation, "invalid_input", "invalid input")
	ErrBadCredentials  = New(KindValidation, "invalid_credentials", "invalid credentials")

	ErrOriginNotOwned     = New(KindBusinessRule, "origin_not_owned", "origin account does not belong to user")
	ErrSelfTransfer       = New(KindBusinessRule, "self_transfer_rejected", "cannot transfer between accounts of the same owner")
	ErrInsufficientFunds  = New(KindBusinessRule, "insufficient_funds", "insufficient funds")
	ErrCurrencyMismatch   = New(KindBusinessRule, "currency_mismatch", "currency mismatch")
	ErrLastAdmin          = New(KindBusinessRule, "last_admin_violation", "cannot delete the last administrator")
	ErrInsufficientCredit = New(KindBusinessRule, "insufficient_credit", "insufficient available credit")
	ErrPaymentExceedsDebt = New(KindBusinessRule, "payment_exceeds_balance", "payment exceeds balance to pay")
	ErrNotCreditCard      = New(KindBusinessRule, "not_credit_card", "operation requires a credit card")
	ErrAdminRequired      = New(KindBusinessRule, "admin_required", "admin privileges required")
)
