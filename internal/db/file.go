package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type fileDocument struct {
	Version   int                        `json:"version"`
	UpdatedAt time.Time                  `json:"updatedAt"`
	Entries   map[string]json.RawMessage `json:"entries"`
}

// FileBackend keeps every key in a single JSON document. Each write
// replaces the document through a temp file and rename, so a crash leaves
// either the old or the new content on disk.
type FileBackend struct {
	mu   sync.RWMutex
	path string
	doc  fileDocument
}

func OpenFileBackend(path string) (*FileBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	backend := &FileBackend{path: path}
	if err := backend.load(); err != nil {
		return nil, err
	}
	return backend, nil
}

func (f *FileBackend) load() error {
	content, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && len(content) == 0) {
		f.doc = fileDocument{Version: 1, Entries: map[string]json.RawMessage{}}
		return nil
	}
	if err != nil {
		return err
	}
	var doc fileDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return fmt.Errorf("decode %s: %w", f.path, err)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]json.RawMessage{}
	}
	f.doc = doc
	return nil
}

func (f *FileBackend) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	value, ok := f.doc.Entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), value...), nil
}

func (f *FileBackend) PutAll(ctx context.Context, entries map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for key, value := range entries {
		if !json.Valid(value) {
			return fmt.Errorf("value for %s is not valid JSON", key)
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	next := f.copyEntries()
	for key, value := range entries {
		next[key] = append(json.RawMessage(nil), value...)
	}
	return f.flushLocked(next)
}

func (f *FileBackend) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := f.copyEntries()
	for _, key := range keys {
		delete(next, key)
	}
	return f.flushLocked(next)
}

func (f *FileBackend) Close() error {
	return nil
}

func (f *FileBackend) copyEntries() map[string]json.RawMessage {
	next := make(map[string]json.RawMessage, len(f.doc.Entries))
	for key, value := range f.doc.Entries {
		next[key] = value
	}
	return next
}

// flushLocked persists entries and only then swaps them into memory.
func (f *FileBackend) flushLocked(entries map[string]json.RawMessage) error {
	doc := fileDocument{Version: f.doc.Version, UpdatedAt: time.Now().UTC(), Entries: entries}
	tmp := f.path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		_ = file.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	f.doc = doc
	return nil
}
