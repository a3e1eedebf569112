package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/GuptaAyush04/Drug-Safety-Calculator/internal/store"
)

// Store implements store.RecordStore on a flat CSV file with a fixed
// header row. Appends within one process are serialized by a per-store
// mutex; nothing coordinates separate processes writing the same file.
type Store struct {
	path   string
	header []string
	log    *zap.Logger

	mu sync.Mutex
}

// NewStore creates a CSV record store for the given file path and header.
// The file itself is not touched until Ensure or Append is called.
func NewStore(path string, header []string, log *zap.Logger) *Store {
	return &Store{
		path:   path,
		header: header,
		log:    log,
	}
}

// Ensure creates the parent directories and the store file with its header
// row if they do not exist. A pre-existing file is trusted as-is; its
// header is never read back or verified.
func (s *Store) Ensure(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.log.Error("Failed to create store directory",
				zap.String("path", s.path),
				zap.Error(err))
			return fmt.Errorf("%w: failed to create directory for %s: %v", store.ErrUnavailable, s.path, err)
		}
	}

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%w: failed to stat %s: %v", store.ErrUnavailable, s.path, err)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		s.log.Error("Failed to create store file",
			zap.String("path", s.path),
			zap.Error(err))
		return fmt.Errorf("%w: failed to create %s: %v", store.ErrUnavailable, s.path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			s.log.Error("Failed to close store file",
				zap.String("path", s.path),
				zap.Error(closeErr))
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(s.header); err != nil {
		return fmt.Errorf("%w: failed to write header to %s: %v", store.ErrUnavailable, s.path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: failed to flush header to %s: %v", store.ErrUnavailable, s.path, err)
	}

	s.log.Info("Initialized record store",
		zap.String("path", s.path),
		zap.Int("column_count", len(s.header)))

	return nil
}

// Append writes one complete row to the store file. The store must already
// exist; a store that vanished since Ensure yields ErrUnavailable rather
// than being silently recreated without a header.
func (s *Store) Append(ctx context.Context, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err != nil {
		s.log.Error("Store file missing at append time",
			zap.String("path", s.path),
			zap.Error(err))
		return fmt.Errorf("%w: store %s could not be found", store.ErrUnavailable, s.path)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: failed to open %s for append: %v", store.ErrUnavailable, s.path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			s.log.Error("Failed to close store file",
				zap.String("path", s.path),
				zap.Error(closeErr))
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write row to %s: %w", s.path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush row to %s: %w", s.path, err)
	}

	return nil
}

// Exists reports whether the store file is present on disk.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}
