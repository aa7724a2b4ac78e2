package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"homebanking/internal/apperr"
	"homebanking/internal/db"
	"homebanking/internal/models"
)

type Collection string

const (
	Users        Collection = "users"
	Accounts     Collection = "accounts"
	Cards        Collection = "cards"
	Transactions Collection = "transactions"
)

var AllCollections = []Collection{Users, Accounts, Cards, Transactions}

const DefaultKeyPrefix = "homeBanking_"

// Snapshot is the full persisted state and also the export document.
type Snapshot struct {
	Users        []models.User        `json:"users"`
	Accounts     []models.Account     `json:"accounts"`
	Cards        []models.CardRecord  `json:"cards"`
	Transactions []models.Transaction `json:"transactions"`
}

// Store owns the four collections on top of a key-value Backend. Writers
// hold the lock for the whole load, mutate, persist cycle.
type Store struct {
	mu      sync.RWMutex
	backend db.Backend
	prefix  string
}

func New(backend db.Backend, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{backend: backend, prefix: prefix}
}

func (s *Store) Key(c Collection) string {
	return s.prefix + string(c)
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// Load returns the stored collection; a collection never written reads as empty.
func Load[T any](ctx context.Context, s *Store, c Collection) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return loadLocked[T](ctx, s, c)
}

// Save replaces a whole collection.
func Save[T any](ctx context.Context, s *Store, c Collection, items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return apperr.Persistence("encode "+string(c), err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.PutAll(context.WithoutCancel(ctx), map[string][]byte{s.Key(c): payload}); err != nil {
		return apperr.Persistence("save "+string(c), err)
	}
	return nil
}

func loadLocked[T any](ctx context.Context, s *Store, c Collection) ([]T, error) {
	raw, err := s.backend.Get(ctx, s.Key(c))
	if errors.Is(err, db.ErrKeyNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, apperr.Persistence("load "+string(c), err)
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, apperr.Persistence("decode "+string(c), err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (s *Store) readLocked(ctx context.Context) (*Snapshot, error) {
	users, err := loadLocked[models.User](ctx, s, Users)
	if err != nil {
		return nil, err
	}
	accounts, err := loadLocked[models.Account](ctx, s, Accounts)
	if err != nil {
		return nil, err
	}
	cards, err := loadLocked[models.CardRecord](ctx, s, Cards)
	if err != nil {
		return nil, err
	}
	transactions, err := loadLocked[models.Transaction](ctx, s, Transactions)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Users: users, Accounts: accounts, Cards: cards, Transactions: transactions}, nil
}

func (s *Store) encode(snap *Snapshot, collections []Collection) (map[string][]byte, error) {
	entries := make(map[string][]byte, len(collections))
	for _, c := range collections {
		var value any
		switch c {
		case Users:
			value = nonNil(snap.Users)
		case Accounts:
			value = nonNil(snap.Accounts)
		case Cards:
			value = nonNil(snap.Cards)
		case Transactions:
			value = nonNil(snap.Transactions)
		default:
			return nil, fmt.Errorf("unknown collection %q", c)
		}
		payload, err := json.Marshal(value)
		if err != nil {
			return nil, apperr.Persistence("encode "+string(c), err)
		}
		entries[s.Key(c)] = payload
	}
	return entries, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// View runs fn against a consistent committed snapshot.
func (s *Store) View(ctx context.Context, fn func(*Snapshot) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, err := s.readLocked(ctx)
	if err != nil {
		return err
	}
	return fn(snap)
}

// Tx is the working copy of an exclusive section opened by WithTx.
type Tx struct {
	snap  *Snapshot
	dirty map[Collection]bool
}

func (tx *Tx) touch(c Collection) {
	tx.dirty[c] = true
}

// Snapshot exposes the working copy for reads inside the section.
func (tx *Tx) Snapshot() *Snapshot {
	return tx.snap
}

type TxRunner interface {
	WithTx(ctx context.Context, fn func(*Tx) error) error
}

// WithTx loads the collections, lets fn mutate a private copy and writes
// every touched collection in a single Backend.PutAll. An error from fn
// discards the copy. Once fn has returned the write is not cancellable.
func (s *Store) WithTx(ctx context.Context, fn func(*Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.readLocked(ctx)
	if err != nil {
		return err
	}
	tx := &Tx{snap: snap, dirty: map[Collection]bool{}}
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.dirty) == 0 {
		return nil
	}
	touched := make([]Collection, 0, len(tx.dirty))
	for _, c := range AllCollections {
		if tx.dirty[c] {
			touched = append(touched, c)
		}
	}
	entries, err := s.encode(snap, touched)
	if err != nil {
		return err
	}
	if err := s.backend.PutAll(context.WithoutCancel(ctx), entries); err != nil {
		return apperr.Persistence("commit", err)
	}
	return nil
}

// InitializeDefaults seeds every collection that has never been written.
// Existing collections, even empty ones, are left alone.
func (s *Store) InitializeDefaults(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var missing []Collection
	for _, c := range AllCollections {
		_, err := s.backend.Get(ctx, s.Key(c))
		if errors.Is(err, db.ErrKeyNotFound) {
			missing = append(missing, c)
			continue
		}
		if err != nil {
			return apperr.Persistence("load "+string(c), err)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	seed, err := DefaultSnapshot()
	if err != nil {
		return err
	}
	entries, err := s.encode(seed, missing)
	if err != nil {
		return err
	}
	if err := s.backend.PutAll(context.WithoutCancel(ctx), entries); err != nil {
		return apperr.Persistence("seed", err)
	}
	log.Printf("store: seeded %v", missing)
	return nil
}

func (s *Store) ExportAll(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := s.View(ctx, func(snap *Snapshot) error {
		encoded, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return apperr.Persistence("encode snapshot", err)
		}
		payload = encoded
		return nil
	})
	return payload, err
}

// ImportAll replaces all four collections with the ones in data. Input that
// does not parse or lacks any of the four keys is rejected before anything
// is written.
func (s *Store) ImportAll(ctx context.Context, data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return apperr.Wrap(apperr.ErrInvalidSnapshot, err)
	}
	for _, c := range AllCollections {
		raw, ok := keys[string(c)]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return apperr.Wrap(apperr.ErrInvalidSnapshot, fmt.Errorf("missing %s", c))
		}
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return apperr.Wrap(apperr.ErrInvalidSnapshot, err)
	}
	entries, err := s.encode(&snap, AllCollections)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.PutAll(context.WithoutCancel(ctx), entries); err != nil {
		return apperr.Persistence("import", err)
	}
	log.Printf("store: imported %d users, %d accounts, %d cards, %d transactions",
		len(snap.Users), len(snap.Accounts), len(snap.Cards), len(snap.Transactions))
	return nil
}

// ResetToDefaults overwrites all four collections with the seed data.
func (s *Store) ResetToDefaults(ctx context.Context) error {
	seed, err := DefaultSnapshot()
	if err != nil {
		return err
	}
	entries, err := s.encode(seed, AllCollections)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.PutAll(context.WithoutCancel(ctx), entries); err != nil {
		return apperr.Persistence("reset", err)
	}
	log.Printf("store: reset to defaults")
	return nil
}
