package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountKind string

const (
	AccountSavingsLocal   AccountKind = "savingsLocal"
	AccountSavingsForeign AccountKind = "savingsForeign"
	AccountChecking       AccountKind = "checking"
)

func (k AccountKind) Valid() bool {
	switch k {
	case AccountSavingsLocal, AccountSavingsForeign, AccountChecking:
		return true
	}
	return false
}

// Slug is the short form used when building account aliases.
func (k AccountKind) Slug() string {
	switch k {
	case AccountSavingsLocal:
		return "pesos"
	case AccountSavingsForeign:
		return "dolares"
	case AccountChecking:
		return "cc"
	}
	return string(k)
}

type Currency string

const (
	CurrencyLocal   Currency = "ARS"
	CurrencyForeign Currency = "USD"
)

func (c Currency) Valid() bool {
	return c == CurrencyLocal || c == CurrencyForeign
}

type EntityKind string

const (
	EntityAccount EntityKind = "account"
	EntityCard    EntityKind = "card"
)

type Direction string

const (
	Credit Direction = "credit"
	Debit  Direction = "debit"
)

type User struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	PasswordSecret string `json:"passwordSecret"`
	DisplayName    string `json:"displayName"`
	IsAdmin        bool   `json:"isAdmin"`
}

type Account struct {
	ID             string          `json:"id"`
	OwnerUserID    string          `json:"ownerUserId"`
	Kind           AccountKind     `json:"kind"`
	DisplayName    string          `json:"displayName"`
	AccountNumber  string          `json:"accountNumber"`
	RoutingAlias   string          `json:"routingAlias"`
	Alias          string          `json:"alias"`
	Balance        decimal.Decimal `json:"balance"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Currency       Currency        `json:"currency"`
}

type Transaction struct {
	ID                string          `json:"id"`
	EntityID          string          `json:"entityId"`
	EntityKind        EntityKind      `json:"entityKind"`
	Date              time.Time       `json:"date"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	Direction         Direction       `json:"direction"`
	CounterpartyAlias string          `json:"counterpartyAlias,omitempty"`
	Note              string          `json:"note,omitempty"`
	CorrelationID     string          `json:"correlationId,omitempty"`
}

// Signed returns the amount with the sign of its direction.
func (t Transaction) Signed() decimal.Decimal {
	if t.Direction == Debit {
		return t.Amount.Neg()
	}
	return t.Amount
}
