// Package workbook persists the tracker's tables as sheets of a single xlsx
// document. Reads are unlocked; every write takes an exclusive lock on a
// companion lock file and rewrites the whole document.
package workbook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/sjperalta/sitetrack-api/internal/metrics"
	"github.com/sjperalta/sitetrack-api/internal/models"
	"github.com/sjperalta/sitetrack-api/pkg/logger"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrLockTimeout means another writer held the lock for the whole timeout.
	// Nothing was written; the caller may retry.
	ErrLockTimeout = errors.New("workbook is busy, try again in a few seconds")
	// ErrUnknownTable is returned for a sheet name outside the schema registry
	ErrUnknownTable = errors.New("unknown table")
	// ErrSchemaMismatch is returned when a row width differs from the table's columns
	ErrSchemaMismatch = errors.New("row does not match table schema")
	// ErrCellTooLong is returned for a cell the spreadsheet would silently truncate
	ErrCellTooLong = errors.New("cell text too long")
	// ErrSkipWrite lets an Update callback decide that nothing needs saving
	ErrSkipWrite = errors.New("skip write")
)

const defaultRetryDelay = 50 * time.Millisecond

// UpdateFunc receives the current data rows of a sheet and returns the rows to save
type UpdateFunc func(rows [][]string) ([][]string, error)

// Store reads and writes named tables in one workbook file
type Store struct {
	path        string
	lockPath    string
	lockTimeout time.Duration
	retryDelay  time.Duration
	schemas     []models.TableSchema
	metrics     *metrics.Metrics
}

// Option customizes a Store
type Option func(*Store)

// WithMetrics instruments lock waits and writes
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithRetryDelay sets how often a blocked writer polls the lock
func WithRetryDelay(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.retryDelay = d
		}
	}
}

// New creates a store for the workbook at path guarded by lockPath
func New(path, lockPath string, lockTimeout time.Duration, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("workbook path is required")
	}
	if lockPath == "" {
		lockPath = path + ".lock"
	}

	s := &Store{
		path:        path,
		lockPath:    lockPath,
		lockTimeout: lockTimeout,
		retryDelay:  defaultRetryDelay,
		schemas:     models.Schemas(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, dir := range []string{filepath.Dir(path), filepath.Dir(lockPath)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create workbook directory: %w", err)
		}
	}

	return s, nil
}

// Path returns the workbook file location
func (s *Store) Path() string {
	return s.path
}

// Tables returns the sheet names managed by the store, in workbook order
func (s *Store) Tables() []string {
	names := make([]string, len(s.schemas))
	for i, schema := range s.schemas {
		names[i] = schema.Name
	}
	return names
}

// Schema returns the column layout of table
func (s *Store) Schema(table string) (models.TableSchema, error) {
	for _, schema := range s.schemas {
		if schema.Name == table {
			return schema, nil
		}
	}
	return models.TableSchema{}, fmt.Errorf("%w: %s", ErrUnknownTable, table)
}

// EnsureInitialized creates the workbook with every sheet holding only its header
// row. Existing workbooks only get the sheets they are missing.
func (s *Store) EnsureInitialized(ctx context.Context) error {
	return s.withLock(ctx, "_workbook", s.ensureLocked)
}

// Read loads every data row of table. A missing or unreadable workbook or sheet
// yields an empty result rather than an error so callers stay usable.
func (s *Store) Read(ctx context.Context, table string) ([][]string, error) {
	schema, err := s.Schema(table)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Workbook unreadable, returning empty table", "table", table, "error", err)
		}
		return [][]string{}, nil
	}
	defer f.Close()

	return readSheet(f, schema), nil
}

// Write replaces the contents of table with rows. Other sheets are left as they are.
func (s *Store) Write(ctx context.Context, table string, rows [][]string) error {
	schema, err := s.Schema(table)
	if err != nil {
		return err
	}
	if err := validateRows(schema, rows); err != nil {
		return err
	}

	return s.withLock(ctx, table, func() error {
		start := time.Now()
		err := s.replaceLocked(schema, rows)
		s.metrics.ObserveWrite(table, start, err)
		return err
	})
}

// Update runs a read-modify-write of table while holding the lock, so no other
// writer can slip in between the read and the write. If fn returns ErrSkipWrite
// nothing is saved and Update returns nil.
func (s *Store) Update(ctx context.Context, table string, fn UpdateFunc) error {
	schema, err := s.Schema(table)
	if err != nil {
		return err
	}

	return s.withLock(ctx, table, func() error {
		start := time.Now()

		if err := s.ensureLocked(); err != nil {
			return err
		}

		current, err := s.readLocked(schema)
		if err != nil {
			return err
		}

		next, err := fn(current)
		if errors.Is(err, ErrSkipWrite) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := validateRows(schema, next); err != nil {
			return err
		}

		err = s.replaceLocked(schema, next)
		s.metrics.ObserveWrite(table, start, err)
		return err
	})
}

// AppendRow adds one row at the end of table
func (s *Store) AppendRow(ctx context.Context, table string, row []string) error {
	return s.Update(ctx, table, func(rows [][]string) ([][]string, error) {
		return append(rows, row), nil
	})
}

// withLock runs fn while holding the document lock. The lock is released on
// every exit path; failing to get it within the timeout returns ErrLockTimeout.
func (s *Store) withLock(ctx context.Context, table string, fn func() error) error {
	lock := flock.New(s.lockPath)

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	start := time.Now()
	locked, err := lock.TryLockContext(lockCtx, s.retryDelay)
	s.metrics.ObserveLockWait(start)
	timedOut := !locked && ctx.Err() == nil && (err == nil || errors.Is(err, context.DeadlineExceeded))
	traceFrom(ctx).record(table, time.Since(start), timedOut)

	if err != nil || !locked {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if timedOut {
			s.metrics.IncrementLockTimeout(table)
			logger.Warn("Timed out waiting for workbook lock", "table", table, "timeout", s.lockTimeout)
			return ErrLockTimeout
		}
		return fmt.Errorf("failed to acquire workbook lock: %w", err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Error("Failed to release workbook lock", "error", err)
		}
	}()

	return fn()
}

// ensureLocked must run under the lock
func (s *Store) ensureLocked() error {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		f := excelize.NewFile()
		defer f.Close()

		first := f.GetSheetName(0)
		for i, schema := range s.schemas {
			if i == 0 {
				if err := f.SetSheetName(first, schema.Name); err != nil {
					return fmt.Errorf("failed to name sheet %s: %w", schema.Name, err)
				}
			} else if _, err := f.NewSheet(schema.Name); err != nil {
				return fmt.Errorf("failed to create sheet %s: %w", schema.Name, err)
			}
			if err := writeRows(f, schema, nil); err != nil {
				return err
			}
		}

		logger.Info("Created workbook", "path", s.path, "sheets", len(s.schemas))
		return s.save(f)
	} else if err != nil {
		return fmt.Errorf("failed to stat workbook: %w", err)
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	added := 0
	for _, schema := range s.schemas {
		idx, err := f.GetSheetIndex(schema.Name)
		if err != nil {
			return fmt.Errorf("failed to look up sheet %s: %w", schema.Name, err)
		}
		if idx != -1 {
			continue
		}
		if _, err := f.NewSheet(schema.Name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", schema.Name, err)
		}
		if err := writeRows(f, schema, nil); err != nil {
			return err
		}
		added++
	}

	if added == 0 {
		return nil
	}
	logger.Info("Added missing sheets to workbook", "path", s.path, "added", added)
	return s.save(f)
}

func (s *Store) readLocked(schema models.TableSchema) ([][]string, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return readSheet(f, schema), nil
}

// replaceLocked must run under the lock
func (s *Store) replaceLocked(schema models.TableSchema, rows [][]string) error {
	if err := s.ensureLocked(); err != nil {
		return err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	existing, err := f.GetRows(schema.Name)
	if err != nil {
		return fmt.Errorf("failed to read sheet %s: %w", schema.Name, err)
	}
	if err := writeRows(f, schema, rows); err != nil {
		return err
	}

	// Drop rows left over from a longer previous version, bottom up
	for r := len(existing); r > len(rows)+1; r-- {
		if err := f.RemoveRow(schema.Name, r); err != nil {
			return fmt.Errorf("failed to trim sheet %s: %w", schema.Name, err)
		}
	}

	return s.save(f)
}

// save writes to a temp file next to the workbook and renames it into place,
// so readers never observe a half-written document.
func (s *Store) save(f *excelize.File) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp workbook: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close workbook: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, schema models.TableSchema, rows [][]string) error {
	header := append([]string(nil), schema.Columns...)
	if err := f.SetSheetRow(schema.Name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", schema.Name, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := append([]string(nil), row...)
		if err := f.SetSheetRow(schema.Name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, schema.Name, err)
		}
	}
	return nil
}

// readSheet maps the sheet's header onto the schema so reordered columns still
// decode. Blank rows are skipped and short rows padded.
func readSheet(f *excelize.File, schema models.TableSchema) [][]string {
	raw, err := f.GetRows(schema.Name)
	if err != nil {
		logger.Warn("Sheet unreadable, returning empty table", "table", schema.Name, "error", err)
		return [][]string{}
	}
	if len(raw) == 0 {
		return [][]string{}
	}

	positions := make(map[string]int, len(raw[0]))
	for i, name := range raw[0] {
		positions[name] = i
	}

	rows := make([][]string, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		if isBlank(cells) {
			continue
		}
		row := make([]string, len(schema.Columns))
		for i, column := range schema.Columns {
			if pos, ok := positions[column]; ok && pos < len(cells) {
				row[i] = cells[pos]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// MaxCellChars is the longest text a cell keeps; excelize cuts anything longer
const MaxCellChars = excelize.TotalCellChars

// CellLen counts value the way the spreadsheet limit does, in UTF-16 units
func CellLen(value string) int {
	n := 0
	for _, r := range value {
		// runes outside the basic plane take a surrogate pair
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// CellFits reports whether value is stored without truncation
func CellFits(value string) bool {
	return CellLen(value) <= MaxCellChars
}

func validateRows(schema models.TableSchema, rows [][]string) error {
	for i, row := range rows {
		if len(row) != len(schema.Columns) {
			return fmt.Errorf("%w: %s row %d has %d cells, want %d",
				ErrSchemaMismatch, schema.Name, i+1, len(row), len(schema.Columns))
		}
		for j, cell := range row {
			if !CellFits(cell) {
				return fmt.Errorf("%w: %s row %d column %s exceeds %d characters",
					ErrCellTooLong, schema.Name, i+1, schema.Columns[j], MaxCellChars)
			}
		}
	}
	return nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
