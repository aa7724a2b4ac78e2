package store

import (
	"context"
	"fmt"
	"log"

	"homebanking/internal/apperr"
	"homebanking/internal/models"
)

type UserStore struct {
	store *Store
}

func NewUserStore(store *Store) *UserStore {
	return &UserStore{store: store}
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	return Load[models.User](ctx, s.store, Users)
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	err := s.store.View(ctx, func(snap *Snapshot) error {
		i := snap.userIndex(userID)
		if i < 0 {
			return apperr.Wrap(apperr.ErrNotFound, fmt.Errorf("user %s", userID))
		}
		user = snap.Users[i]
		return nil
	})
	return user, err
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.store.View(ctx, func(snap *Snapshot) error {
		for _, candidate := range snap.Users {
			if candidate.Username == username {
				user = candidate
				return nil
			}
		}
		return apperr.Wrap(apperr.ErrNotFound, fmt.Errorf("user %s", username))
	})
	return user, err
}

func (s *UserStore) GetForUpdate(ctx context.Context, tx *Tx, userID string) (models.User, error) {
	i := tx.snap.userIndex(userID)
	if i < 0 {
		return models.User{}, apperr.Wrap(apperr.ErrNotFound, fmt.Errorf("user %s", userID))
	}
	return tx.snap.Users[i], nil
}

// IsAdmin reports false for unknown users.
func (s *UserStore) IsAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := s.GetByID(ctx, userID)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}

func (s *UserStore) Create(ctx context.Context, tx *Tx, user models.User) error {
	if user.ID == "" || user.Username == "" {
		return apperr.Wrap(apperr.ErrRequiredField, fmt.Errorf("user id and username are required"))
	}
	for _, existing := range tx.snap.Users {
		if existing.ID == user.ID || existing.Username == user.Username {
			return apperr.Wrap(apperr.ErrDuplicate, fmt.Errorf("user %s", user.Username))
		}
	}
	tx.snap.Users = append(tx.snap.Users, user)
	tx.touch(Users)
	return nil
}

// Update replaces the stored user with the same id; unknown ids are ignored.
func (s *UserStore) Update(ctx context.Context, tx *Tx, user models.User) error {
	i := tx.snap.userIndex(user.ID)
	if i < 0 {
		return nil
	}
	for j, existing := range tx.snap.Users {
		if j != i && existing.Username == user.Username {
			return apperr.Wrap(apperr.ErrDuplicate, fmt.Errorf("user %s", user.Username))
		}
	}
	if tx.snap.Users[i].IsAdmin && !user.IsAdmin && tx.snap.adminCount() == 1 {
		return apperr.ErrLastAdmin
	}
	tx.snap.Users[i] = user
	tx.touch(Users)
	return nil
}

// Delete removes the user together with the accounts and cards it owns.
// Removing the only remaining administrator fails with ErrLastAdmin.
func (s *UserStore) Delete(ctx context.Context, tx *Tx, userID string) error {
	i := tx.snap.userIndex(userID)
	if i < 0 {
		return nil
	}
	if tx.snap.Users[i].IsAdmin && tx.snap.adminCount() <= 1 {
		return apperr.ErrLastAdmin
	}
	users := make([]models.User, 0, len(tx.snap.Users)-1)
	users = append(users, tx.snap.Users[:i]...)
	tx.snap.Users = append(users, tx.snap.Users[i+1:]...)
	tx.touch(Users)

	accounts := make([]models.Account, 0, len(tx.snap.Accounts))
	for _, account := range tx.snap.Accounts {
		if account.OwnerUserID != userID {
			accounts = append(accounts, account)
		}
	}
	cards := make([]models.CardRecord, 0, len(tx.snap.Cards))
	for _, card := range tx.snap.Cards {
		if card.OwnerUserID != userID {
			cards = append(cards, card)
		}
	}
	removedAccounts := len(tx.snap.Accounts) - len(accounts)
	removedCards := len(tx.snap.Cards) - len(cards)
	if removedAccounts > 0 {
		tx.snap.Accounts = accounts
		tx.touch(Accounts)
	}
	if removedCards > 0 {
		tx.snap.Cards = cards
		tx.touch(Cards)
	}
	log.Printf("store: delete user %s cascades to %d accounts, %d cards", userID, removedAccounts, removedCards)
	return nil
}
