package services

import (
	"context"
	"fmt"

	"homebanking/internal/apperr"
	"homebanking/internal/models"
	"homebanking/internal/store"

	"github.com/shopspring/decimal"
)

// LedgerService derives balances from the transaction log. The stored
// balance stays authoritative; the derived figure is for display and audit.
type LedgerService struct {
	viewer Viewer
}

func NewLedgerService(viewer Viewer) *LedgerService {
	return &LedgerService{viewer: viewer}
}

type Reconciliation struct {
	AccountID  string          `json:"accountId"`
	Currency   models.Currency `json:"currency"`
	Stored     decimal.Decimal `json:"stored"`
	Computed   decimal.Decimal `json:"computed"`
	Difference decimal.Decimal `json:"difference"`
	Balanced   bool            `json:"balanced"`
}

// ComputeBalance returns the opening balance plus the signed sum of every
// entry recorded against the account.
func (s *LedgerService) ComputeBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.viewer.View(ctx, func(snap *store.Snapshot) error {
		account, ok := snap.FindAccount(store.ByID, accountID)
		if !ok {
			return apperr.Wrap(apperr.ErrNotFound, fmt.Errorf("account %s", accountID))
		}
		balance = computeBalance(account, snap.TransactionsFor(account.ID, models.EntityAccount))
		return nil
	})
	return balance, err
}

func (s *LedgerService) Reconcile(ctx context.Context, accountID string) (Reconciliation, error) {
	var result Reconciliation
	err := s.viewer.View(ctx, func(snap *store.Snapshot) error {
		account, ok := snap.FindAccount(store.ByID, accountID)
		if !ok {
			return apperr.Wrap(apperr.ErrNotFound, fmt.Errorf("account %s", accountID))
		}
		result = reconcile(account, snap.TransactionsFor(account.ID, models.EntityAccount))
		return nil
	})
	return result, err
}

// ReconcileAll checks every account in one snapshot.
func (s *LedgerService) ReconcileAll(ctx context.Context) ([]Reconciliation, error) {
	results := []Reconciliation{}
	err := s.viewer.View(ctx, func(snap *store.Snapshot) error {
		for _, account := range snap.Accounts {
			results = append(results, reconcile(account, snap.TransactionsFor(account.ID, models.EntityAccount)))
		}
		return nil
	})
	return results, err
}

func computeBalance(account models.Account, entries []models.Transaction) decimal.Decimal {
	balance := account.OpeningBalance
	for _, entry := range entries {
		balance = balance.Add(entry.Signed())
	}
	return balance
}

func reconcile(account models.Account, entries []models.Transaction) Reconciliation {
	computed := computeBalance(account, entries)
	difference := account.Balance.Sub(computed)
	return Reconciliation{
		AccountID:  account.ID,
		Currency:   account.Currency,
		Stored:     account.Balance,
		Computed:   computed,
		Difference: difference,
		Balanced:   difference.IsZero(),
	}
}
