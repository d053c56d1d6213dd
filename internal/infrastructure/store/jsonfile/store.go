// Package jsonfile is the file-backed DocumentStore driver. State is one JSON
// array of records, rewritten in full on every mutation. A single mutex
// serializes the read-modify-write cycle: two concurrent saves against the
// same file would otherwise drop one record's update (last writer wins).
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/kirillkom/document-pipeline/internal/core/domain"
)

type Store struct {
	mu   sync.Mutex
	path string
}

// New creates the backing file (and its directory) if absent. After
// bootstrap, a missing or corrupt file reads as an empty collection instead
// of failing.
func New(path string) (*Store, error) {
	if path == "" {
		path = "./data/documents.json"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := writeFile(path, []domain.DocumentRecord{}); err != nil {
			return nil, fmt.Errorf("create storage file: %w", err)
		}
	}
	return &Store{path: path}, nil
}

func (s *Store) Save(_ context.Context, record domain.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readAll()
	replaced := false
	for i := range records {
		if records[i].ID == record.ID {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}

	if err := writeFile(s.path, records); err != nil {
		return domain.WrapError(domain.ErrStorageUnavailable, "save document", err)
	}
	return nil
}

func (s *Store) GetByID(_ context.Context, id string) (domain.DocumentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.readAll() {
		if record.ID == id {
			return record, nil
		}
	}
	return domain.DocumentRecord{}, domain.ErrDocumentNotFound
}

func (s *Store) ListAll(_ context.Context) ([]domain.DocumentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll(), nil
}

func (s *Store) ListByStatus(_ context.Context, status domain.DocumentStatus) ([]domain.DocumentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.DocumentRecord{}
	for _, record := range s.readAll() {
		if record.Status == status {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *Store) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readAll()
	kept := records[:0]
	for _, record := range records {
		if record.ID != id {
			kept = append(kept, record)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}
	if err := writeFile(s.path, kept); err != nil {
		return false, domain.WrapError(domain.ErrStorageUnavailable, "delete document", err)
	}
	return true, nil
}

// readAll treats a missing or unparsable file as empty. Callers already hold
// the mutex.
func (s *Store) readAll() []domain.DocumentRecord {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return []domain.DocumentRecord{}
	}
	var records []domain.DocumentRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return []domain.DocumentRecord{}
	}
	return records
}

// writeFile makes the rewrite durable and atomic: a partially written temp
// file never replaces the live collection.
func writeFile(path string, records []domain.DocumentRecord) error {
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".documents-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}
