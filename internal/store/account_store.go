package store

import (
	"context"
	"fmt"
	"strings"

	"homebanking/internal/apperr"
	"homebanking/internal/models"
)

type AccountStore struct {
	store *Store
}

func NewAccountStore(store *Store) *AccountStore {
	return &AccountStore{store: store}
}

func (s *AccountStore) List(ctx context.Context) ([]models.Account, error) {
	return Load[models.Account](ctx, s.store, Accounts)
}

// ListByOwner keeps the stored order.
func (s *AccountStore) ListByOwner(ctx context.Context, userID string) ([]models.Account, error) {
	accounts, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	owned := []models.Account{}
	for _, account := range accounts {
		if account.OwnerUserID == userID {
			owned = append(owned, account)
		}
	}
	return owned, nil
}

func (s *AccountStore) GetByID(ctx context.Context, accountID string) (models.Account, error) {
	return s.find(ctx, ByID, accountID)
}

func (s *AccountStore) GetByAlias(ctx context.Context, alias string) (models.Account, error) {
	return s.find(ctx, ByAlias, alias)
}

func (s *AccountStore) GetByRoutingAlias(ctx context.Context, routingAlias string) (models.Account, error) {
	return s.find(ctx, ByRoutingAlias, routingAlias)
}

func (s *AccountStore) find(ctx context.Context, lookup AccountLookup, value string) (models.Account, error) {
	var account models.Account
	err := s.store.View(ctx, func(snap *Snapshot) error {
		found, ok := snap.FindAccount(lookup, value)
		if !ok {
			return apperr.Wrap(apperr.ErrNotFound, fmt.Errorf("account %s %s", lookup, value))
		}
		account = found
		return nil
	})
	return account, err
}

func (s *AccountStore) GetForUpdate(ctx context.Context, tx *Tx, accountID string) (models.Account, error) {
	return s.FindForUpdate(ctx, tx, ByID, accountID)
}

func (s *AccountStore) FindForUpdate(ctx context.Context, tx *Tx, lookup AccountLookup, value string) (models.Account, error) {
	account, ok := tx.snap.FindAccount(lookup, value)
	if !ok {
		return models.Account{}, apperr.Wrap(apperr.ErrNotFound, fmt.Errorf("account %s %s", lookup, value))
	}
	return account, nil
}

func (s *AccountStore) Create(ctx context.Context, tx *Tx, account models.Account) error {
	if account.ID == "" || account.OwnerUserID == "" {
		return apperr.Wrap(apperr.ErrRequiredField, fmt.Errorf("account id and owner are required"))
	}
	if tx.snap.userIndex(account.OwnerUserID) < 0 {
		return apperr.Wrap(apperr.ErrNotFound, fmt.Errorf("user %s", account.OwnerUserID))
	}
	if err := uniqueAccount(tx.snap, account, -1); err != nil {
		return err
	}
	tx.snap.Accounts = append(tx.snap.Accounts, account)
	tx.touch(Accounts)
	return nil
}

// Update replaces the stored account with the same id; unknown ids are ignored.
func (s *AccountStore) Update(ctx context.Context, tx *Tx, account models.Account) error {
	i := tx.snap.accountIndex(account.ID)
	if i < 0 {
		return nil
	}
	if err := uniqueAccount(tx.snap, account, i); err != nil {
		return err
	}
	tx.snap.Accounts[i] = account
	tx.touch(Accounts)
	return nil
}

func (s *AccountStore) Delete(ctx context.Context, tx *Tx, accountID string) error {
	i := tx.snap.accountIndex(accountID)
	if i < 0 {
		return nil
	}
	accounts := make([]models.Account, 0, len(tx.snap.Accounts)-1)
	accounts = append(accounts, tx.snap.Accounts[:i]...)
	tx.snap.Accounts = append(accounts, tx.snap.Accounts[i+1:]...)
	tx.touch(Accounts)
	return nil
}

func uniqueAccount(snap *Snapshot, account models.Account, skip int) error {
	for i, existing := range snap.Accounts {
		if i == skip {
			continue
		}
		switch {
		case existing.ID == account.ID:
			return apperr.Wrap(apperr.ErrDuplicate, fmt.Errorf("account id %s", account.ID))
		case account.AccountNumber != "" && existing.AccountNumber == account.AccountNumber:
			return apperr.Wrap(apperr.ErrDuplicate, fmt.Errorf("account number %s", account.AccountNumber))
		case account.RoutingAlias != "" && existing.RoutingAlias == account.RoutingAlias:
			return apperr.Wrap(apperr.ErrDuplicate, fmt.Errorf("routing alias %s", account.RoutingAlias))
		case account.Alias != "" && strings.EqualFold(existing.Alias, account.Alias):
			return apperr.Wrap(apperr.ErrDuplicate, fmt.Errorf("alias %s", account.Alias))
		}
	}
	return nil
}
