package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"homebanking/internal/apperr"
	"homebanking/internal/db"
	"homebanking/internal/models"
)

func TestInitializeDefaultsSeedsOnlyMissingCollections(t *testing.T) {
	ctx := context.Background()
	s := New(db.NewMemoryBackend(), "")
	if err := Save(ctx, s, Users, []models.User{{ID: "u1", Username: "solo", IsAdmin: true}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.InitializeDefaults(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	users, err := Load[models.User](ctx, s, Users)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 1 || users[0].Username != "solo" {
		t.Fatalf("existing users were overwritten: %#v", users)
	}
	accounts, err := Load[models.Account](ctx, s, Accounts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 4 {
		t.Fatalf("expected 4 seeded accounts, got %d", len(accounts))
	}
}

func TestInitializeDefaultsKeepsEmptyCollections(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	if err := Save(ctx, s, Cards, []models.CardRecord{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.InitializeDefaults(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cards, err := Load[models.CardRecord](ctx, s, Cards)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 0 {
		t.Fatalf("expected empty cards to stay empty, got %d", len(cards))
	}
}

func TestSeedOpeningBalancesReconcile(t *testing.T) {
	snap, err := DefaultSnapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := map[string]string{"acc1": "3201", "acc2": "2000.25", "acc3": "47000.75", "acc4": "125000.30"}
	for _, account := range snap.Accounts {
		if !account.OpeningBalance.Equal(amount(expected[account.ID])) {
			t.Fatalf("unexpected opening balance for %s: %s", account.ID, account.OpeningBalance)
		}
	}
	if snap.Users[0].PasswordSecret == defaultPassword {
		t.Fatalf("seed password should be hashed")
	}
}

func TestLoadMissingCollectionIsEmpty(t *testing.T) {
	s := New(db.NewMemoryBackend(), "")
	users, err := Load[models.User](context.Background(), s, Users)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Fatalf("expected empty slice, got %#v", users)
	}
}

func TestLoadBackendFailureIsPersistenceError(t *testing.T) {
	s := New(stubBackend{
		getFn: func(context.Context, string) ([]byte, error) { return nil, errors.New("disk gone") },
	}, "")
	_, err := Load[models.User](context.Background(), s, Users)
	if apperr.KindOf(err) != apperr.KindPersistence {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestKeysUsePrefix(t *testing.T) {
	var keys []string
	s := New(stubBackend{
		putAllFn: func(_ context.Context, entries map[string][]byte) error {
			for key := range entries {
				keys = append(keys, key)
			}
			return nil
		},
	}, "")
	if err := Save(context.Background(), s, Transactions, []models.Transaction(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 1 || keys[0] != "homeBanking_transactions" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestWithTxDiscardsOnError(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	accounts := NewAccountStore(s)
	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx *Tx) error {
		account, err := accounts.GetForUpdate(ctx, tx, "acc1")
		if err != nil {
			return err
		}
		account.Balance = amount("1")
		if err := accounts.Update(ctx, tx, account); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	account, err := accounts.GetByID(ctx, "acc1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !account.Balance.Equal(amount("75000.50")) {
		t.Fatalf("balance changed after failed tx: %s", account.Balance)
	}
}

func TestWithTxWritesTouchedCollectionsOnce(t *testing.T) {
	ctx := context.Background()
	backend := db.NewMemoryBackend()
	seeded := New(backend, "")
	if err := seeded.InitializeDefaults(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var calls int
	var written []string
	s := New(stubBackend{
		getFn: backend.Get,
		putAllFn: func(ctx context.Context, entries map[string][]byte) error {
			calls++
			for key := range entries {
				written = append(written, key)
			}
			return backend.PutAll(ctx, entries)
		},
	}, "")
	users := NewUserStore(s)
	err := s.WithTx(ctx, func(tx *Tx) error {
		return users.Delete(ctx, tx, "2")
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single backend write, got %d", calls)
	}
	if len(written) != 3 {
		t.Fatalf("expected users, accounts and cards to be written, got %v", written)
	}
}

func TestWithTxCommitFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	backend := db.NewMemoryBackend()
	if err := New(backend, "").InitializeDefaults(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := New(stubBackend{
		getFn:    backend.Get,
		putAllFn: func(context.Context, map[string][]byte) error { return errors.New("write failed") },
	}, "")
	users := NewUserStore(s)
	err := s.WithTx(ctx, func(tx *Tx) error { return users.Delete(ctx, tx, "2") })
	if apperr.KindOf(err) != apperr.KindPersistence {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if _, err := NewUserStore(New(backend, "")).GetByID(ctx, "2"); err != nil {
		t.Fatalf("user should still exist: %v", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newSeededStore(t)
	exported, err := source.ExportAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	backend, err := db.OpenFileBackend(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	target := New(backend, "")
	if err := target.ImportAll(ctx, exported); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, err := target.ExportAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(again) != string(exported) {
		t.Fatalf("round trip mismatch:\n%s\n---\n%s", exported, again)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(again, &doc); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	for _, key := range []string{"users", "accounts", "cards", "transactions"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("export missing %s", key)
		}
	}
}

func TestImportRejectsInvalidInputWithoutMutation(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"not json":      `{"users":`,
		"missing cards": `{"users":[],"accounts":[],"transactions":[]}`,
		"null key":      `{"users":[],"accounts":[],"cards":null,"transactions":[]}`,
		"wrong shape":   `{"users":{},"accounts":[],"cards":[],"transactions":[]}`,
		"bad card kind": `{"users":[],"accounts":[],"cards":[{"id":"c","kind":"gift"}],"transactions":[]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			s := newSeededStore(t)
			before, _ := s.ExportAll(ctx)
			err := s.ImportAll(ctx, []byte(payload))
			if !errors.Is(err, apperr.ErrInvalidSnapshot) {
				t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
			}
			after, _ := s.ExportAll(ctx)
			if string(before) != string(after) {
				t.Fatalf("state changed after rejected import")
			}
		})
	}
}

func TestImportAcceptsEmptyCollections(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	if err := s.ImportAll(ctx, []byte(`{"users":[],"accounts":[],"cards":[],"transactions":[]}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	users, err := NewUserStore(s).List(ctx)
	if err != nil || len(users) != 0 {
		t.Fatalf("expected no users, got %d, %v", len(users), err)
	}
}

func TestResetToDefaults(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	users := NewUserStore(s)
	mustTx(t, s, func(tx *Tx) error { return users.Delete(ctx, tx, "2") })
	if err := s.ResetToDefaults(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exported, err := s.ExportAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(exported), `"mmiranda"`) || !strings.Contains(string(exported), `"card3"`) {
		t.Fatalf("expected seed data after reset")
	}
}
