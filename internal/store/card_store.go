package store

import (
	"context"
	"fmt"

	"homebanking/internal/apperr"
	"homebanking/internal/models"
)

type CardStore struct {
	store *Store
}

func NewCardStore(store *Store) *CardStore {
	return &CardStore{store: store}
}

func (s *CardStore) List(ctx context.Context) ([]models.Card, error) {
	records, err := Load[models.CardRecord](ctx, s.store, Cards)
	if err != nil {
		return nil, err
	}
	return decodeCards(records, func(models.CardRecord) bool { return true })
}

func (s *CardStore) ListByOwner(ctx context.Context, userID string) ([]models.Card, error) {
	records, err := Load[models.CardRecord](ctx, s.store, Cards)
	if err != nil {
		return nil, err
	}
	return decodeCards(records, func(record models.CardRecord) bool { return record.OwnerUserID == userID })
}

func decodeCards(records []models.CardRecord, keep func(models.CardRecord) bool) ([]models.Card, error) {
	cards := []models.Card{}
	for _, record := range records {
		if !keep(record) {
			continue
		}
		card, err := models.DecodeCard(record)
		if err != nil {
			return nil, apperr.Persistence("decode card "+record.ID, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func (s *CardStore) GetByID(ctx context.Context, cardID string) (models.Card, error) {
	var card models.Card
	err := s.store.View(ctx, func(snap *Snapshot) error {
		found, err := cardAt(snap, cardID)
		card = found
		return err
	})
	return card, err
}

func (s *CardStore) GetForUpdate(ctx context.Context, tx *Tx, cardID string) (models.Card, error) {
	return cardAt(tx.snap, cardID)
}

func cardAt(snap *Snapshot, cardID string) (models.Card, error) {
	i := snap.cardIndex(cardID)
	if i < 0 {
		return nil, apperr.Wrap(apperr.ErrNotFound, fmt.Errorf("card %s", cardID))
	}
	card, err := models.DecodeCard(snap.Cards[i])
	if err != nil {
		return nil, apperr.Persistence("decode card "+cardID, err)
	}
	return card, nil
}

func (s *CardStore) Create(ctx context.Context, tx *Tx, card models.Card) error {
	base := card.Base()
	if base.ID == "" || base.OwnerUserID == "" {
		return apperr.Wrap(apperr.ErrRequiredField, fmt.Errorf("card id and owner are required"))
	}
	if tx.snap.userIndex(base.OwnerUserID) < 0 {
		return apperr.Wrap(apperr.ErrNotFound, fmt.Errorf("user %s", base.OwnerUserID))
	}
	if tx.snap.cardIndex(base.ID) >= 0 {
		return apperr.Wrap(apperr.ErrDuplicate, fmt.Errorf("card id %s", base.ID))
	}
	tx.snap.Cards = append(tx.snap.Cards, models.EncodeCard(card))
	tx.touch(Cards)
	return nil
}

// Update replaces the stored card with the same id; unknown ids are ignored.
func (s *CardStore) Update(ctx context.Context, tx *Tx, card models.Card) error {
	i := tx.snap.cardIndex(card.Base().ID)
	if i < 0 {
		return nil
	}
	tx.snap.Cards[i] = models.EncodeCard(card)
	tx.touch(Cards)
	return nil
}

func (s *CardStore) Delete(ctx context.Context, tx *Tx, cardID string) error {
	i := tx.snap.cardIndex(cardID)
	if i < 0 {
		return nil
	}
	cards := make([]models.CardRecord, 0, len(tx.snap.Cards)-1)
	cards = append(cards, tx.snap.Cards[:i]...)
	tx.snap.Cards = append(cards, tx.snap.Cards[i+1:]...)
	tx.touch(Cards)
	return nil
}
