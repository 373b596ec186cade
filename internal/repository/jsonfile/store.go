// Package jsonfile keeps the session log as a single human-readable JSON
// document that is rewritten wholesale on every change.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"camstation/internal/logger"
	"camstation/internal/model"
	"camstation/internal/repository"
)

// Store implements repository.SessionLogStore on top of one JSON file.
type Store struct {
	path   string
	mu     sync.RWMutex
	logger *logger.Logger
}

var _ repository.SessionLogStore = (*Store)(nil)

// New returns a Store writing to path. The parent directory is created if needed;
// the file itself is created on the first append.
func New(path string, logger *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &Store{path: path, logger: logger}, nil
}

// Path returns the location of the JSON document.
func (s *Store) Path() string {
	return s.path
}

// Append adds rec at the end of the log.
func (s *Store) Append(ctx context.Context, rec model.CaptureRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("refusing to append invalid record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadForWrite()
	if err != nil {
		return err
	}
	for _, existing := range records {
		if existing.ImageFilename == rec.ImageFilename {
			return fmt.Errorf("%w: %s", repository.ErrDuplicate, rec.ImageFilename)
		}
	}

	return s.write(append(records, rec))
}

// ReadAll returns the normalised records in stored order.
func (s *Store) ReadAll(ctx context.Context) ([]model.CaptureRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	raw, corrupt, err := s.load()
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	if corrupt {
		s.logger.Warning("Session log %s is not a valid JSON list, treating it as empty", s.path)
		return []model.CaptureRecord{}, nil
	}

	records := make([]model.CaptureRecord, 0, len(raw))
	for i, r := range raw {
		normalized, err := r.Normalize()
		if err != nil {
			s.logger.Warning("Skipping log entry %d (%s): %v", i, r.ImageFilename, err)
			continue
		}
		records = append(records, normalized)
	}
	return records, nil
}

// Remove rewrites the log without the record referencing filename.
func (s *Store) Remove(ctx context.Context, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadForWrite()
	if err != nil {
		return err
	}

	kept := make([]model.CaptureRecord, 0, len(records))
	for _, r := range records {
		if r.ImageFilename != filename {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return fmt.Errorf("%w: %s", repository.ErrNotFound, filename)
	}

	return s.write(kept)
}

// Close is a no-op; the file is only open while it is read or written.
func (s *Store) Close() error {
	return nil
}

// load reads the document. A JSON Lines log from older builds is converted
// on the fly and written back as a list on the next change. corrupt is true
// when the file exists with content that is neither; err is only set for
// real I/O failures.
func (s *Store) load() (records []model.CaptureRecord, corrupt bool, err error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read session log: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		if legacy, ok := decodeLegacy(data); ok {
			return legacy, false, nil
		}
		return nil, true, nil
	}
	return records, false, nil
}

// loadForWrite is load for the append/remove path: a corrupt document is set
// aside next to the log so the rewrite starts from an empty collection
// without destroying what was there.
func (s *Store) loadForWrite() ([]model.CaptureRecord, error) {
	records, corrupt, err := s.load()
	if err != nil {
		return nil, err
	}
	if corrupt {
		backup := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().UnixNano())
		if err := os.Rename(s.path, backup); err != nil {
			s.logger.Error("Failed to set aside corrupt session log: %v", err)
		} else {
			s.logger.Warning("Session log was corrupt, moved to %s and started a new one", backup)
		}
		return nil, nil
	}
	return records, nil
}

// write replaces the document atomically (temporary file in the same
// directory, then rename), so readers see either the old or the new list.
func (s *Store) write(records []model.CaptureRecord) error {
	if records == nil {
		records = []model.CaptureRecord{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode session log: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary log file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temporary log file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temporary log file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary log file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace session log: %w", err)
	}
	return nil
}
