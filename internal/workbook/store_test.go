package workbook

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sjperalta/sitetrack-api/internal/metrics"
	"github.com/sjperalta/sitetrack-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "construction_data.xlsx")
	opts = append([]Option{WithRetryDelay(5 * time.Millisecond)}, opts...)
	s, err := New(path, "", 150*time.Millisecond, opts...)
	require.NoError(t, err)
	return s
}

func companyRow(id, name string) []string {
	return []string{id, name, "", ""}
}

func TestEnsureInitialized_CreatesEverySheet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureInitialized(ctx))
	require.NoError(t, s.EnsureInitialized(ctx))

	f, err := excelize.OpenFile(s.Path())
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, models.TableNames(), f.GetSheetList())
	for _, schema := range models.Schemas() {
		rows, err := f.GetRows(schema.Name)
		require.NoError(t, err)
		require.Len(t, rows, 1, schema.Name)
		assert.Equal(t, schema.Columns, rows[0])
	}
}

func TestEnsureInitialized_AddsMissingSheets(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), models.TableCompanies))
	require.NoError(t, f.SetSheetRow(models.TableCompanies, "A1", &[]string{"company_id", "company_name", "address", "phone"}))
	require.NoError(t, f.SetSheetRow(models.TableCompanies, "A2", &[]string{"c1", "Acme", "", ""}))
	require.NoError(t, f.SaveAs(s.Path()))
	require.NoError(t, f.Close())

	require.NoError(t, s.EnsureInitialized(ctx))

	rows, err := s.Read(ctx, models.TableCompanies)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"c1", "Acme", "", ""}}, rows)

	audit, err := s.Read(ctx, models.TableAuditLog)
	require.NoError(t, err)
	assert.Empty(t, audit)
}

func TestRead_Lenient(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rows, err := s.Read(ctx, models.TableExpenses)
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, os.WriteFile(s.Path(), []byte("not a workbook"), 0644))
	rows, err = s.Read(ctx, models.TableExpenses)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = s.Read(ctx, "payroll")
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestWrite_ReplacesOnlyThatSheet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.EnsureInitialized(ctx))

	require.NoError(t, s.Write(ctx, models.TableCompanies, [][]string{companyRow("c1", "Acme"), companyRow("c2", "Beta")}))
	require.NoError(t, s.AppendRow(ctx, models.TableAuditLog, []string{"l1", "create_company", "company", "c1", "Alice", "2024-05-01T09:00:00Z", "x"}))
	require.NoError(t, s.Write(ctx, models.TableCompanies, [][]string{companyRow("c3", "Gamma")}))

	companies, err := s.Read(ctx, models.TableCompanies)
	require.NoError(t, err)
	assert.Equal(t, [][]string{companyRow("c3", "Gamma")}, companies)

	audit, err := s.Read(ctx, models.TableAuditLog)
	require.NoError(t, err)
	require.Len(t, audit, 1)
	assert.Equal(t, "l1", audit[0][0])

	f, err := excelize.OpenFile(s.Path())
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, models.TableNames(), f.GetSheetList())
}

func TestWrite_RoundTripsText(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	row := []string{"e1", "s1", "eng1", "Material", "0010.50", "2024-05-02", "Cash", "", "", "", "  spaced, \"quoted\"  "}
	require.NoError(t, s.Write(ctx, models.TableExpenses, [][]string{row}))

	rows, err := s.Read(ctx, models.TableExpenses)
	require.NoError(t, err)
	assert.Equal(t, [][]string{row}, rows)
}

func TestCellLen_CountsUTF16Units(t *testing.T) {
	assert.Equal(t, 3, CellLen("abc"))
	assert.Equal(t, 2, CellLen("éa"))
	assert.Equal(t, 2, CellLen("😀"))
	assert.False(t, CellFits(strings.Repeat("😀", MaxCellChars/2+1)))
}

func TestWrite_RejectsCellsExcelWouldTruncate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	fits := strings.Repeat("x", MaxCellChars)
	require.NoError(t, s.AppendRow(ctx, models.TableCompanies, []string{"c1", "Acme", fits, ""}))

	err := s.AppendRow(ctx, models.TableCompanies, []string{"c2", "Beta", strings.Repeat("x", 40000), ""})
	assert.ErrorIs(t, err, ErrCellTooLong)

	rows, err := s.Read(ctx, models.TableCompanies)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, fits, rows[0][2])
}

func TestWrite_SchemaMismatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Write(ctx, models.TableCompanies, [][]string{{"c1", "Acme"}})
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	err = s.AppendRow(ctx, models.TableCompanies, []string{"c1"})
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	rows, err := s.Read(ctx, models.TableCompanies)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpdate_SkipWrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, models.TableCompanies, [][]string{companyRow("c1", "Acme")}))

	before, err := os.Stat(s.Path())
	require.NoError(t, err)

	called := false
	err = s.Update(ctx, models.TableCompanies, func(rows [][]string) ([][]string, error) {
		called = true
		assert.Len(t, rows, 1)
		return nil, ErrSkipWrite
	})
	require.NoError(t, err)
	assert.True(t, called)

	after, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestLockTimeout(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	s := newTestStore(t, WithMetrics(m))
	ctx := context.Background()
	require.NoError(t, s.EnsureInitialized(ctx))

	held := flock.New(s.Path() + ".lock")
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)

	start := time.Now()
	err = s.AppendRow(ctx, models.TableCompanies, companyRow("c1", "Acme"))
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LockTimeouts.WithLabelValues(models.TableCompanies)))

	require.NoError(t, held.Unlock())

	rows, err := s.Read(ctx, models.TableCompanies)
	require.NoError(t, err)
	assert.Empty(t, rows)

	// the lock is free again once the holder lets go
	require.NoError(t, s.AppendRow(ctx, models.TableCompanies, companyRow("c1", "Acme")))
}

func TestLock_CanceledContext(t *testing.T) {
	s := newTestStore(t)

	held := flock.New(s.Path() + ".lock")
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer held.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = s.Write(ctx, models.TableCompanies, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAppendRow_ConcurrentWritersKeepEveryRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "construction_data.xlsx")
	s, err := New(path, "", 5*time.Second, WithRetryDelay(2*time.Millisecond))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.EnsureInitialized(ctx))

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.AppendRow(ctx, models.TableCompanies, companyRow(string(rune('a'+i)), "co")))
		}(i)
	}
	wg.Wait()

	rows, err := s.Read(ctx, models.TableCompanies)
	require.NoError(t, err)
	assert.Len(t, rows, writers)
}

func TestReadSheet_MapsReorderedHeader(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), models.TableCompanies))
	require.NoError(t, f.SetSheetRow(models.TableCompanies, "A1", &[]string{"company_name", "company_id"}))
	require.NoError(t, f.SetSheetRow(models.TableCompanies, "A2", &[]string{"Acme", "c1"}))
	require.NoError(t, f.SetSheetRow(models.TableCompanies, "A4", &[]string{"Beta", "c2"}))
	require.NoError(t, f.SaveAs(s.Path()))
	require.NoError(t, f.Close())

	rows, err := s.Read(ctx, models.TableCompanies)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"c1", "Acme", "", ""}, {"c2", "Beta", "", ""}}, rows)
}

func TestTrace_RecordsEachLockedCall(t *testing.T) {
	s := newTestStore(t)
	trace := &Trace{}
	ctx := WithTrace(context.Background(), trace)

	require.NoError(t, s.AppendRow(ctx, models.TableCompanies, companyRow("c1", "Acme")))
	require.NoError(t, s.Write(ctx, models.TableSites, nil))
	_, err := s.Read(ctx, models.TableCompanies)
	require.NoError(t, err)

	assert.Equal(t, []string{models.TableCompanies, models.TableSites}, trace.Tables())
	assert.False(t, trace.TimedOut())

	held := flock.New(s.lockPath)
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer held.Unlock()

	assert.ErrorIs(t, s.AppendRow(ctx, models.TableCompanies, companyRow("c2", "Beta")), ErrLockTimeout)
	assert.True(t, trace.TimedOut())
	assert.GreaterOrEqual(t, trace.LockWait(), 100*time.Millisecond)
}
