package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type CardKind string

const (
	CardCredit CardKind = "credit"
	CardDebit  CardKind = "debit"
)

type CardBase struct {
	ID              string          `json:"id"`
	OwnerUserID     string          `json:"ownerUserId"`
	DisplayName     string          `json:"displayName"`
	MaskedNumber    string          `json:"maskedNumber"`
	AvailableCredit decimal.Decimal `json:"availableCredit"`
	BalanceToPay    decimal.Decimal `json:"balanceToPay"`
	ExpiryDate      string          `json:"expiryDate"`
}

// Card is either a *CreditCard or a *DebitCard.
type Card interface {
	Base() *CardBase
	Kind() CardKind
}

type CreditCard struct {
	CardBase
	DueDate string
}

func (c *CreditCard) Base() *CardBase { return &c.CardBase }
func (c *CreditCard) Kind() CardKind  { return CardCredit }

type DebitCard struct {
	CardBase
}

func (c *DebitCard) Base() *CardBase { return &c.CardBase }
func (c *DebitCard) Kind() CardKind  { return CardDebit }

// CardRecord is the persisted shape of a Card.
type CardRecord struct {
	CardBase
	Kind    CardKind `json:"kind"`
	DueDate string   `json:"dueDate,omitempty"`
}

func EncodeCard(card Card) CardRecord {
	record := CardRecord{CardBase: *card.Base(), Kind: card.Kind()}
	if credit, ok := card.(*CreditCard); ok {
		record.DueDate = credit.DueDate
	}
	return record
}

func DecodeCard(record CardRecord) (Card, error) {
	switch record.Kind {
	case CardCredit:
		return &CreditCard{CardBase: record.CardBase, DueDate: record.DueDate}, nil
	case CardDebit:
		return &DebitCard{CardBase: record.CardBase}, nil
	default:
		return nil, fmt.Errorf("unknown card kind %q", record.Kind)
	}
}

// UnmarshalJSON rejects records whose kind is not a known variant.
func (r *CardRecord) UnmarshalJSON(data []byte) error {
	type plain CardRecord
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if decoded.Kind != CardCredit && decoded.Kind != CardDebit {
		return fmt.Errorf("unknown card kind %q", decoded.Kind)
	}
	*r = CardRecord(decoded)
	return nil
}
