package store

import (
	"context"
	"errors"
	"testing"

	"homebanking/internal/apperr"
	"homebanking/internal/models"

	"github.com/shopspring/decimal"
)

func TestCardStoreDecodesVariants(t *testing.T) {
	ctx := context.Background()
	cards := NewCardStore(newSeededStore(t))
	card, err := cards.GetByID(ctx, "card1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	credit, ok := card.(*models.CreditCard)
	if !ok {
		t.Fatalf("expected credit card, got %T", card)
	}
	if credit.DueDate != "2023-11-15" {
		t.Fatalf("unexpected due date: %s", credit.DueDate)
	}
	debit, err := cards.GetByID(ctx, "card2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if debit.Kind() != models.CardDebit {
		t.Fatalf("expected debit card, got %s", debit.Kind())
	}
}

func TestCardStoreCreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	cards := NewCardStore(s)
	card := &models.DebitCard{CardBase: models.CardBase{
		ID: "card4", OwnerUserID: "2", DisplayName: "Visa Débito",
		MaskedNumber: "**** **** **** 4321", AvailableCredit: decimal.NewFromInt(50000),
	}}
	mustTx(t, s, func(tx *Tx) error { return cards.Create(ctx, tx, card) })
	mustTx(t, s, func(tx *Tx) error {
		stored, err := cards.GetForUpdate(ctx, tx, "card4")
		if err != nil {
			return err
		}
		stored.Base().DisplayName = "Visa Débito Plus"
		return cards.Update(ctx, tx, stored)
	})
	owned, err := cards.ListByOwner(ctx, "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(owned) != 2 || owned[1].Base().DisplayName != "Visa Débito Plus" {
		t.Fatalf("unexpected cards: %#v", owned)
	}
}

func TestCardStoreCreateRejectsUnknownOwnerAndDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	cards := NewCardStore(s)
	err := s.WithTx(ctx, func(tx *Tx) error {
		return cards.Create(ctx, tx, &models.DebitCard{CardBase: models.CardBase{ID: "card9", OwnerUserID: "404"}})
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	err = s.WithTx(ctx, func(tx *Tx) error {
		return cards.Create(ctx, tx, &models.DebitCard{CardBase: models.CardBase{ID: "card1", OwnerUserID: "1"}})
	})
	if !errors.Is(err, apperr.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestCardStoreUpdateMissingIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	cards := NewCardStore(s)
	mustTx(t, s, func(tx *Tx) error {
		return cards.Update(ctx, tx, &models.DebitCard{CardBase: models.CardBase{ID: "ghost", OwnerUserID: "1"}})
	})
	if _, err := cards.GetByID(ctx, "ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCardStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	cards := NewCardStore(s)
	mustTx(t, s, func(tx *Tx) error { return cards.Delete(ctx, tx, "card2") })
	mustTx(t, s, func(tx *Tx) error { return cards.Delete(ctx, tx, "card2") })
	list, err := cards.List(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("expected 2 cards, got %d, %v", len(list), err)
	}
	if _, err := cards.GetByID(ctx, "card2"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
