package services

import (
	"context"
	"fmt"
	"time"

	"homebanking/internal/apperr"
	"homebanking/internal/auth"
	"homebanking/internal/models"
	"homebanking/internal/statement"
	"homebanking/internal/store"
)

type StatementService struct {
	viewer Viewer
}

func NewStatementService(viewer Viewer) *StatementService {
	return &StatementService{viewer: viewer}
}

type Statement struct {
	EntityID     string                `json:"entityId"`
	EntityKind   models.EntityKind     `json:"entityKind"`
	Window       statement.Window      `json:"window"`
	Since        time.Time             `json:"since"`
	Transactions []models.Transaction  `json:"transactions"`
	Summary      statement.Summary     `json:"summary"`
	Groups       []statement.DateGroup `json:"groups"`
}

// Build aggregates the entries of one account or card over a window ending
// at now.
func (s *StatementService) Build(ctx context.Context, identity auth.Identity, kind models.EntityKind, entityID string, window statement.Window, now time.Time) (Statement, error) {
	since, err := window.Since(now)
	if err != nil {
		return Statement{}, apperr.Wrap(apperr.ErrInvalidInput, err)
	}
	entries, err := s.entries(ctx, identity, kind, entityID)
	if err != nil {
		return Statement{}, err
	}
	inWindow, err := statement.FilterByWindow(entries, window, now)
	if err != nil {
		return Statement{}, apperr.Wrap(apperr.ErrInvalidInput, err)
	}
	return Statement{
		EntityID:     entityID,
		EntityKind:   kind,
		Window:       window,
		Since:        since,
		Transactions: statement.SortByDate(inWindow),
		Summary:      statement.Summarize(inWindow),
		Groups:       statement.GroupByDate(inWindow),
	}, nil
}

// AccountActivity lists an account's entries newest first, optionally
// narrowed by direction and a free-text query.
func (s *StatementService) AccountActivity(ctx context.Context, identity auth.Identity, accountID string, direction models.Direction, query string) ([]models.Transaction, error) {
	if direction != "" && direction != models.Credit && direction != models.Debit {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, fmt.Errorf("direction %q", direction))
	}
	entries, err := s.entries(ctx, identity, models.EntityAccount, accountID)
	if err != nil {
		return nil, err
	}
	return statement.SortByDate(statement.Search(statement.FilterByDirection(entries, direction), query)), nil
}

// CardActivity lists a card's entries for one "YYYY-MM" month, or all of
// them when month is empty.
func (s *StatementService) CardActivity(ctx context.Context, identity auth.Identity, cardID, month string) ([]models.Transaction, error) {
	entries, err := s.entries(ctx, identity, models.EntityCard, cardID)
	if err != nil {
		return nil, err
	}
	inMonth, err := statement.FilterByMonth(entries, month)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, err)
	}
	return statement.SortByDate(inMonth), nil
}

func (s *StatementService) entries(ctx context.Context, identity auth.Identity, kind models.EntityKind, entityID string) ([]models.Transaction, error) {
	var entries []models.Transaction
	err := s.viewer.View(ctx, func(snap *store.Snapshot) error {
		owner, ok := ownerOf(snap, kind, entityID)
		if !ok || !canView(identity, owner) {
			return apperr.Wrap(apperr.ErrNotFound, fmt.Errorf("%s %s", kind, entityID))
		}
		entries = snap.TransactionsFor(entityID, kind)
		return nil
	})
	return entries, err
}

func ownerOf(snap *store.Snapshot, kind models.EntityKind, entityID string) (string, bool) {
	switch kind {
	case models.EntityAccount:
		account, ok := snap.FindAccount(store.ByID, entityID)
		return account.OwnerUserID, ok
	case models.EntityCard:
		for _, card := range snap.Cards {
			if card.ID == entityID {
				return card.OwnerUserID, true
			}
		}
	}
	return "", false
}
