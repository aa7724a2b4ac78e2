package handlers

import (
	"fmt"
	"time"

	"homebanking/internal/apperr"
	"homebanking/internal/money"

	"github.com/shopspring/decimal"
)

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := money.ParsePositive(raw)
	if err != nil {
		return decimal.Zero, apperr.Wrap(apperr.ErrInvalidAmount, err)
	}
	return amount, nil
}

// parseDecimal checks syntax only. Sign rules are left to the service.
func parseDecimal(raw string) (decimal.Decimal, error) {
	amount, err := money.Parse(raw)
	if err != nil {
		return decimal.Zero, apperr.Wrap(apperr.ErrInvalidAmount, err)
	}
	return amount, nil
}

// parseBalance accepts zero, for opening balances.
func parseBalance(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	amount, err := money.Parse(raw)
	if err != nil || amount.IsNegative() {
		return decimal.Zero, apperr.ErrInvalidAmount
	}
	return amount, nil
}

// parseDate reads an optional YYYY-MM-DD date. "" yields the zero time.
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	date, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, apperr.Wrap(apperr.ErrInvalidInput, fmt.Errorf("date %q", raw))
	}
	return date, nil
}
