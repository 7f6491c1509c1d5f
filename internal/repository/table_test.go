package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/sitetrack-api/internal/models"
	"github.com/sjperalta/sitetrack-api/internal/workbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore keeps sheets in memory and counts saves
type memStore struct {
	sheets map[string][][]string
	saves  int
}

func newMemStore() *memStore {
	return &memStore{sheets: make(map[string][][]string)}
}

func (m *memStore) Read(ctx context.Context, table string) ([][]string, error) {
	rows := make([][]string, len(m.sheets[table]))
	for i, r := range m.sheets[table] {
		rows[i] = append([]string(nil), r...)
	}
	return rows, nil
}

func (m *memStore) Update(ctx context.Context, table string, fn workbook.UpdateFunc) error {
	current, _ := m.Read(ctx, table)
	next, err := fn(current)
	if errors.Is(err, workbook.ErrSkipWrite) {
		return nil
	}
	if err != nil {
		return err
	}
	m.sheets[table] = next
	m.saves++
	return nil
}

func (m *memStore) AppendRow(ctx context.Context, table string, row []string) error {
	return m.Update(ctx, table, func(rows [][]string) ([][]string, error) {
		return append(rows, row), nil
	})
}

func TestModify_PreservesUndecodableRows(t *testing.T) {
	store := newMemStore()
	store.sheets[models.TableFundAllocations] = [][]string{
		{"bad", "E1", "S1", "n/a", "2024-05-01", "n/a", ""},
		{"a1", "E1", "S1", "500.00", "2024-05-01", "500.00", ""},
		{"a2", "E1", "S1", "500.00", "2024-05-01", "500.00", ""},
	}
	repo := NewAllocationRepository(store)
	ctx := context.Background()

	changed, err := repo.Modify(ctx, func(a *models.FundAllocation) (bool, error) {
		if !a.HasBalance() {
			return false, nil
		}
		a.BalanceRemaining = a.BalanceRemaining.Sub(decimal.NewFromInt(600))
		return true, ErrStop
	})
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	rows := store.sheets[models.TableFundAllocations]
	assert.Equal(t, "n/a", rows[0][3])
	assert.Equal(t, "-100.00", rows[1][5])
	assert.Equal(t, "500.00", rows[2][5])

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestModify_NoChangeSkipsSave(t *testing.T) {
	store := newMemStore()
	repo := NewExpenseRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Expense{ID: "x1", Amount: decimal.NewFromInt(5)}))
	require.Equal(t, 1, store.saves)

	changed, err := repo.Modify(ctx, func(e *models.Expense) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	assert.Zero(t, changed)
	assert.Equal(t, 1, store.saves)
}

func TestModify_ErrorAbortsWrite(t *testing.T) {
	store := newMemStore()
	repo := NewExpenseRepository(store)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.Expense{ID: "x1"}))

	boom := errors.New("boom")
	_, err := repo.Modify(ctx, func(e *models.Expense) (bool, error) {
		e.Notes = "changed"
		return true, boom
	})
	assert.ErrorIs(t, err, boom)

	found, err := repo.FindByID(ctx, "x1")
	require.NoError(t, err)
	assert.Empty(t, found.Notes)
}

func TestFindByID_NotFound(t *testing.T) {
	repos := NewRepositories(newMemStore())

	_, err := repos.Engineer.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestAuditRepository_AppendAndList(t *testing.T) {
	store := newMemStore()
	repo := NewAuditRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, &models.AuditEntry{ID: "l1", Action: models.ActionLogin, User: "Alice"}))
	require.NoError(t, repo.Append(ctx, &models.AuditEntry{ID: "l2", Action: models.ActionCreateSite, User: "Alice"}))

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "l1", entries[0].ID)
	assert.Equal(t, "l2", entries[1].ID)
}
