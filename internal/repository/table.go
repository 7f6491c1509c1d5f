package repository

import (
	"context"
	"errors"

	"github.com/sjperalta/sitetrack-api/internal/models"
	"github.com/sjperalta/sitetrack-api/internal/workbook"
	"github.com/sjperalta/sitetrack-api/pkg/logger"
)

var (
	// ErrRecordNotFound is returned when no row carries the requested id
	ErrRecordNotFound = errors.New("record not found")
	// ErrStop ends a Modify walk early; changes reported with it are still saved
	ErrStop = errors.New("stop modify")
)

// Store is the persistence the repositories need from the workbook
type Store interface {
	Read(ctx context.Context, table string) ([][]string, error)
	Update(ctx context.Context, table string, fn workbook.UpdateFunc) error
	AppendRow(ctx context.Context, table string, row []string) error
}

// ModifyFunc inspects one decoded row and reports whether it changed
type ModifyFunc[T any] func(item *T) (changed bool, err error)

// table is the typed view of one sheet shared by the concrete repositories
type table[T models.Row] struct {
	store  Store
	name   string
	decode func([]string) (T, error)
}

// list decodes every row in sheet order, skipping rows that do not decode
func (t *table[T]) list(ctx context.Context) ([]T, error) {
	rows, err := t.store.Read(ctx, t.name)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(rows))
	for i, row := range rows {
		item, err := t.decode(row)
		if err != nil {
			logger.Warn("Skipping undecodable row", "table", t.name, "row", i+2, "error", err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (t *table[T]) find(ctx context.Context, match func(T) bool) (*T, error) {
	items, err := t.list(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if match(items[i]) {
			return &items[i], nil
		}
	}
	return nil, ErrRecordNotFound
}

func (t *table[T]) create(ctx context.Context, item T) error {
	return t.store.AppendRow(ctx, t.name, item.ToRow())
}

// modify walks the rows in sheet order under the workbook lock. Rows that do
// not decode are written back untouched. Returns how many rows changed.
func (t *table[T]) modify(ctx context.Context, fn ModifyFunc[T]) (int, error) {
	changed := 0
	err := t.store.Update(ctx, t.name, func(rows [][]string) ([][]string, error) {
		changed = 0
		for i, row := range rows {
			item, err := t.decode(row)
			if err != nil {
				continue
			}

			dirty, err := fn(&item)
			if dirty {
				rows[i] = item.ToRow()
				changed++
			}
			if errors.Is(err, ErrStop) {
				break
			}
			if err != nil {
				return nil, err
			}
		}

		if changed == 0 {
			return nil, workbook.ErrSkipWrite
		}
		return rows, nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}
