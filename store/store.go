package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/kbukum/audiovault/errors"
	"github.com/kbukum/audiovault/logger"
)

// Store is a handle on one record file. Handles are cheap; any number may
// point at the same file.
type Store struct {
	path string
	log  *logger.Logger

	// beforeReplace runs after the temp file is complete and before the
	// rename. Tests use it to simulate an interruption.
	beforeReplace func(tmpPath string) error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for store operations.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open returns a Store for path, creating its parent directory. The file
// itself is created by the first Append.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, apperrors.InvalidInput("store.path", "path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, apperrors.StoreWrite(fmt.Errorf("resolve store path: %w", err))
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
		return nil, apperrors.StoreWrite(fmt.Errorf("create store directory: %w", err))
	}

	s := &Store{path: abs, log: logger.Get("store")}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// FromConfig opens the store described by cfg.
func FromConfig(cfg Config, opts ...Option) (*Store, error) {
	cfg.ApplyDefaults()
	return Open(cfg.Path, opts...)
}

// Path returns the absolute path of the record file.
func (s *Store) Path() string { return s.path }

// Load returns every record in insertion order. A missing or blank file is
// an empty store.
func (s *Store) Load(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Internal(err)
	}
	records, err := s.read()
	if err != nil {
		s.log.WithContext(ctx).Error("store load failed", logger.ErrorFields("load", err))
		return nil, err
	}
	return records, nil
}

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, apperrors.RecordNotFound(id)
}

// List returns summaries of every record in insertion order.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, len(records))
	for i := range records {
		out[i] = records[i].Summary()
	}
	return out, nil
}

// Append adds rec to the end of the store. Either the whole new sequence
// is durably written or the file is left as it was.
func (s *Store) Append(ctx context.Context, rec Record) error {
	log := s.log.WithContext(ctx)
	fail := func(err error) error {
		fields := logger.ErrorFields("append", err)
		fields[logger.FieldRecordID] = rec.ID
		fields[logger.FieldPath] = s.path
		log.Error("store append failed", fields)
		return err
	}

	if err := ctx.Err(); err != nil {
		return fail(apperrors.StoreWrite(err))
	}
	if rec.ID == "" {
		return fail(apperrors.StoreWrite(errors.New("record id is empty")))
	}

	unlock, err := acquire(ctx, s.path)
	if err != nil {
		return fail(apperrors.StoreWrite(err))
	}
	defer unlock()

	records, err := s.read()
	if err != nil {
		return fail(err)
	}
	for i := range records {
		if records[i].ID == rec.ID {
			return fail(apperrors.StoreWrite(fmt.Errorf("duplicate record id %q", rec.ID)))
		}
	}
	records = append(records, rec)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fail(apperrors.StoreWrite(fmt.Errorf("encode records: %w", err)))
	}
	data = append(data, '\n')

	if err := s.replace(data); err != nil {
		return fail(apperrors.StoreWrite(err))
	}

	log.Info("record appended", logger.Fields(
		logger.FieldRecordID, rec.ID,
		"records", len(records),
	))
	return nil
}

// read parses the file without taking the lock.
func (s *Store) read() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Record{}, nil
		}
		return nil, apperrors.StoreCorrupt(s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []Record{}, nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperrors.StoreCorrupt(s.path, err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Check verifies the store parses and that its directory accepts new
// files, without changing the store.
func (s *Store) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Internal(err)
	}
	if _, err := s.read(); err != nil {
		return err
	}
	probe, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.probe")
	if err != nil {
		return apperrors.StoreWrite(err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}

// replace writes data to a temp file beside the store and renames it into
// place. The temp file is removed on every failure.
func (s *Store) replace(data []byte) (err error) {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if s.beforeReplace != nil {
		if err = s.beforeReplace(tmpPath); err != nil {
			return err
		}
	}
	if err = os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}

	if serr := syncDir(dir); serr != nil {
		s.log.Warn("store directory sync failed", logger.ErrorFields("sync_dir", serr))
	}
	return nil
}

// syncDir flushes the rename to disk.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
