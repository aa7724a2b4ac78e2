package store

import (
	"context"
	"fmt"

	"homebanking/internal/apperr"
	"homebanking/internal/models"
)

type TransactionStore struct {
	store *Store
}

func NewTransactionStore(store *Store) *TransactionStore {
	return &TransactionStore{store: store}
}

func (s *TransactionStore) List(ctx context.Context) ([]models.Transaction, error) {
	return Load[models.Transaction](ctx, s.store, Transactions)
}

// ListFor returns the entries recorded against one account or card.
func (s *TransactionStore) ListFor(ctx context.Context, entityID string, kind models.EntityKind) ([]models.Transaction, error) {
	var matches []models.Transaction
	err := s.store.View(ctx, func(snap *Snapshot) error {
		matches = snap.TransactionsFor(entityID, kind)
		return nil
	})
	return matches, err
}

func (s *TransactionStore) GetByID(ctx context.Context, transactionID string) (models.Transaction, error) {
	var found models.Transaction
	err := s.store.View(ctx, func(snap *Snapshot) error {
		i := snap.transactionIndex(transactionID)
		if i < 0 {
			return apperr.Wrap(apperr.ErrNotFound, fmt.Errorf("transaction %s", transactionID))
		}
		found = snap.Transactions[i]
		return nil
	})
	return found, err
}

func (s *TransactionStore) Create(ctx context.Context, tx *Tx, t models.Transaction) error {
	if t.ID == "" || t.EntityID == "" {
		return apperr.Wrap(apperr.ErrRequiredField, fmt.Errorf("transaction id and entity are required"))
	}
	if !t.Amount.IsPositive() {
		return apperr.Wrap(apperr.ErrInvalidAmount, fmt.Errorf("transaction %s amount %s", t.ID, t.Amount))
	}
	if tx.snap.transactionIndex(t.ID) >= 0 {
		return apperr.Wrap(apperr.ErrDuplicate, fmt.Errorf("transaction id %s", t.ID))
	}
	tx.snap.Transactions = append(tx.snap.Transactions, t)
	tx.touch(Transactions)
	return nil
}

// Update is reserved for corrective edits; unknown ids are ignored.
func (s *TransactionStore) Update(ctx context.Context, tx *Tx, t models.Transaction) error {
	i := tx.snap.transactionIndex(t.ID)
	if i < 0 {
		return nil
	}
	tx.snap.Transactions[i] = t
	tx.touch(Transactions)
	return nil
}

func (s *TransactionStore) Delete(ctx context.Context, tx *Tx, transactionID string) error {
	i := tx.snap.transactionIndex(transactionID)
	if i < 0 {
		return nil
	}
	transactions := make([]models.Transaction, 0, len(tx.snap.Transactions)-1)
	transactions = append(transactions, tx.snap.Transactions[:i]...)
	tx.snap.Transactions = append(transactions, tx.snap.Transactions[i+1:]...)
	tx.touch(Transactions)
	return nil
}
