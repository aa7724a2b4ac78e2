package store

import (
	"context"
	"testing"

	"homebanking/internal/db"
	"homebanking/internal/models"

	"github.com/shopspring/decimal"
)

type stubBackend struct {
	getFn    func(ctx context.Context, key string) ([]byte, error)
	putAllFn func(ctx context.Context, entries map[string][]byte) error
	deleteFn func(ctx context.Context, keys ...string) error
}

func (s stubBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if s.getFn == nil {
		return nil, db.ErrKeyNotFound
	}
	return s.getFn(ctx, key)
}

func (s stubBackend) PutAll(ctx context.Context, entries map[string][]byte) error {
	if s.putAllFn == nil {
		return nil
	}
	return s.putAllFn(ctx, entries)
}

func (s stubBackend) Delete(ctx context.Context, keys ...string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, keys...)
}

func (s stubBackend) Close() error {
	return nil
}

// newSeededStore returns a memory-backed store holding the default data.
func newSeededStore(t *testing.T) *Store {
	t.Helper()
	s := New(db.NewMemoryBackend(), "")
	if err := s.InitializeDefaults(context.Background()); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	return s
}

func mustTx(t *testing.T, s *Store, fn func(*Tx) error) {
	t.Helper()
	if err := s.WithTx(context.Background(), fn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func amount(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func testAccount(id, owner, alias string) models.Account {
	return models.Account{
		ID:            id,
		OwnerUserID:   owner,
		Kind:          models.AccountSavingsLocal,
		DisplayName:   "Caja de Ahorro en Pesos",
		AccountNumber: "num-" + id,
		RoutingAlias:  "cbu-" + id,
		Alias:         alias,
		Balance:       amount("100"),
		Currency:      models.CurrencyLocal,
	}
}
