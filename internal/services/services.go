package services

import (
	"context"
	"errors"
	"fmt"

	"homebanking/internal/apperr"
	"homebanking/internal/auth"
	"homebanking/internal/models"
	"homebanking/internal/money"
	"homebanking/internal/store"
	"homebanking/internal/websocket"

	"github.com/shopspring/decimal"
)

type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetForUpdate(ctx context.Context, tx *store.Tx, userID string) (models.User, error)
	Create(ctx context.Context, tx *store.Tx, user models.User) error
	Delete(ctx context.Context, tx *store.Tx, userID string) error
}

type AccountStore interface {
	GetByID(ctx context.Context, accountID string) (models.Account, error)
	ListByOwner(ctx context.Context, userID string) ([]models.Account, error)
	GetForUpdate(ctx context.Context, tx *store.Tx, accountID string) (models.Account, error)
	FindForUpdate(ctx context.Context, tx *store.Tx, lookup store.AccountLookup, value string) (models.Account, error)
	Create(ctx context.Context, tx *store.Tx, account models.Account) error
	Update(ctx context.Context, tx *store.Tx, account models.Account) error
}

type CardStore interface {
	GetByID(ctx context.Context, cardID string) (models.Card, error)
	ListByOwner(ctx context.Context, userID string) ([]models.Card, error)
	GetForUpdate(ctx context.Context, tx *store.Tx, cardID string) (models.Card, error)
	Create(ctx context.Context, tx *store.Tx, card models.Card) error
	Update(ctx context.Context, tx *store.Tx, card models.Card) error
}

type TransactionStore interface {
	ListFor(ctx context.Context, entityID string, kind models.EntityKind) ([]models.Transaction, error)
	Create(ctx context.Context, tx *store.Tx, t models.Transaction) error
}

// Viewer gives read access to one consistent committed snapshot.
type Viewer interface {
	View(ctx context.Context, fn func(*store.Snapshot) error) error
}

type BalanceHub interface {
	BroadcastBalance(userID string, update websocket.BalanceUpdate)
}

func validAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !money.Valid(amount) {
		return apperr.Wrap(apperr.ErrInvalidAmount, fmt.Errorf("amount %s", amount))
	}
	return nil
}

// ensureBalanced checks that a debit and its credit move the same amount in
// opposite directions.
func ensureBalanced(debit, credit models.Transaction) error {
	if debit.Direction != models.Debit || credit.Direction != models.Credit {
		return errors.New("transfer pair has wrong directions")
	}
	if !debit.Signed().Add(credit.Signed()).IsZero() {
		return errors.New("transfer pair is not balanced")
	}
	return nil
}

// canView reports whether the identity may read an entity owned by ownerID.
func canView(identity auth.Identity, ownerID string) bool {
	return identity.IsAdmin || identity.UserID == ownerID
}

func requireAdmin(identity auth.Identity) error {
	if !identity.IsAdmin {
		return apperr.ErrAdminRequired
	}
	return nil
}

func broadcastAccount(hub BalanceHub, account models.Account, transactionID string) {
	if hub == nil {
		return
	}
	hub.BroadcastBalance(account.OwnerUserID, websocket.BalanceUpdate{
		AccountID:     account.ID,
		Balance:       money.Format(account.Balance),
		Currency:      string(account.Currency),
		TransactionID: transactionID,
	})
}
