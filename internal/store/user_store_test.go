package store

import (
	"context"
	"errors"
	"testing"

	"homebanking/internal/apperr"
	"homebanking/internal/models"
)

func TestUserStoreCreate(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	users := NewUserStore(s)
	mustTx(t, s, func(tx *Tx) error {
		return users.Create(ctx, tx, models.User{ID: "3", Username: "jperez", DisplayName: "Juan Perez"})
	})
	user, err := users.GetByUsername(ctx, "jperez")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "3" || user.IsAdmin {
		t.Fatalf("unexpected user: %#v", user)
	}
}

func TestUserStoreCreateRejectsDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	users := NewUserStore(s)
	err := s.WithTx(ctx, func(tx *Tx) error {
		return users.Create(ctx, tx, models.User{ID: "9", Username: "farana"})
	})
	if !errors.Is(err, apperr.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestUserStoreUpdateMissingIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	users := NewUserStore(s)
	before, _ := s.ExportAll(ctx)
	mustTx(t, s, func(tx *Tx) error {
		return users.Update(ctx, tx, models.User{ID: "ghost", Username: "ghost"})
	})
	after, _ := s.ExportAll(ctx)
	if string(before) != string(after) {
		t.Fatalf("update of unknown user changed state")
	}
}

func TestUserStoreUpdateRejectsDemotingLastAdmin(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	users := NewUserStore(s)
	err := s.WithTx(ctx, func(tx *Tx) error {
		admin, err := users.GetForUpdate(ctx, tx, "1")
		if err != nil {
			return err
		}
		admin.IsAdmin = false
		return users.Update(ctx, tx, admin)
	})
	if !errors.Is(err, apperr.ErrLastAdmin) {
		t.Fatalf("expected ErrLastAdmin, got %v", err)
	}
}

func TestUserStoreDeleteLastAdmin(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	users := NewUserStore(s)
	err := s.WithTx(ctx, func(tx *Tx) error { return users.Delete(ctx, tx, "1") })
	if !errors.Is(err, apperr.ErrLastAdmin) {
		t.Fatalf("expected ErrLastAdmin, got %v", err)
	}
	if apperr.KindOf(err) != apperr.KindBusinessRule {
		t.Fatalf("expected business rule kind, got %q", apperr.KindOf(err))
	}
	if _, err := NewAccountStore(s).GetByID(ctx, "acc1"); err != nil {
		t.Fatalf("accounts should survive a rejected delete: %v", err)
	}
}

func TestUserStoreDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	users := NewUserStore(s)
	mustTx(t, s, func(tx *Tx) error { return users.Delete(ctx, tx, "2") })

	if _, err := users.GetByID(ctx, "2"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected user to be gone, got %v", err)
	}
	owned, err := NewAccountStore(s).ListByOwner(ctx, "2")
	if err != nil || len(owned) != 0 {
		t.Fatalf("expected no accounts for deleted user, got %d, %v", len(owned), err)
	}
	cards, err := NewCardStore(s).ListByOwner(ctx, "2")
	if err != nil || len(cards) != 0 {
		t.Fatalf("expected no cards for deleted user, got %d, %v", len(cards), err)
	}
	remaining, err := NewAccountStore(s).List(ctx)
	if err != nil || len(remaining) != 3 {
		t.Fatalf("expected 3 accounts left, got %d, %v", len(remaining), err)
	}
}

func TestUserStoreDeleteAdminWhenAnotherExists(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	users := NewUserStore(s)
	mustTx(t, s, func(tx *Tx) error {
		return users.Create(ctx, tx, models.User{ID: "3", Username: "root", IsAdmin: true})
	})
	mustTx(t, s, func(tx *Tx) error { return users.Delete(ctx, tx, "1") })
	isAdmin, err := users.IsAdmin(ctx, "3")
	if err != nil || !isAdmin {
		t.Fatalf("expected remaining admin, got %v, %v", isAdmin, err)
	}
}

func TestUserStoreIsAdminUnknownUser(t *testing.T) {
	s := newSeededStore(t)
	isAdmin, err := NewUserStore(s).IsAdmin(context.Background(), "nobody")
	if err != nil || isAdmin {
		t.Fatalf("expected false without error, got %v, %v", isAdmin, err)
	}
}
