package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/flock"
	"github.com/sjperalta/sitetrack-api/internal/config"
	"github.com/sjperalta/sitetrack-api/internal/middleware"
	"github.com/sjperalta/sitetrack-api/internal/repository"
	"github.com/sjperalta/sitetrack-api/internal/services"
	"github.com/sjperalta/sitetrack-api/internal/storage"
	"github.com/sjperalta/sitetrack-api/internal/workbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const actor = "Alice <alice@example.com>"

type testServer struct {
	router   *gin.Engine
	lockPath string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	dataPath := filepath.Join(dir, "construction_data.xlsx")
	store, err := workbook.New(dataPath, "", 200*time.Millisecond, workbook.WithRetryDelay(10*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, store.EnsureInitialized(context.Background()))

	receipts, err := storage.NewLocalStorage(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	cfg := &config.Config{SessionSecret: "test-secret", SessionTTLHours: 1, AllowedOrigins: []string{"*"}}
	svcs := services.NewServices(repository.NewRepositories(store), store, receipts, cfg, nil)

	return &testServer{
		router:   SetupRouter(NewHandlers(svcs), cfg, nil),
		lockPath: dataPath + ".lock",
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func asActor() map[string]string {
	return map[string]string{middleware.ActorHeader: actor}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestWrites_RequireActor(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/companies", map[string]string{"company_name": "Acme"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/companies", map[string]string{"company_name": "Acme"},
		map[string]string{"Authorization": "Bearer not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/companies", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_TokenIdentifiesAuditEntries(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"name": "Alice", "email": "alice@example.com"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	login := decode(t, w)
	assert.Equal(t, actor, login["actor"])
	token := login["token"].(string)

	w = s.do(t, http.MethodPost, "/api/v1/engineers", map[string]any{"engineer": map[string]string{"name": "Ravi", "role": "Site Engineer"}},
		map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/audits?per_page=1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	audits := decode(t, w)["audits"].([]any)
	require.Len(t, audits, 1)
	entry := audits[0].(map[string]any)
	assert.Equal(t, "create_engineer", entry["action"])
	assert.Equal(t, actor, entry["user"])

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "x@example.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExpenseFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/allocations", map[string]any{
		"engineer_id": "E1", "site_id": "S1", "amount": 1000, "date": "2024-05-01",
	}, asActor())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	allocationID := decode(t, w)["allocation"].(map[string]any)["allocation_id"].(string)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"engineer_id": "E1", "site_id": "S1", "expense_type": "Material",
		"amount": "300", "date": "2024-05-02", "payment_mode": "Cash",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("receipt", "cement.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/expenses", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(middleware.ActorHeader, actor)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	expense := decode(t, w)["expense"].(map[string]any)
	expenseID := expense["expense_id"].(string)
	assert.True(t, strings.HasSuffix(expense["receipt_path"].(string), expenseID+"_cement.jpg"))
	assert.Nil(t, expense["approved"])

	w = s.do(t, http.MethodGet, "/api/v1/expenses/"+expenseID+"/receipt", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "jpeg bytes", w.Body.String())
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), expenseID+"_cement.jpg")

	// the upload is not a decodable image, so it has no preview
	w = s.do(t, http.MethodGet, "/api/v1/expenses/"+expenseID+"/receipt?thumbnail=true", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/expenses/missing/receipt", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/allocations", nil, nil)
	allocations := decode(t, w)["allocations"].([]any)
	require.Len(t, allocations, 1)
	alloc := allocations[0].(map[string]any)
	assert.Equal(t, allocationID, alloc["allocation_id"])
	assert.Equal(t, "700", alloc["balance_remaining"])

	w = s.do(t, http.MethodGet, "/api/v1/expenses/pending", nil, nil)
	assert.Len(t, decode(t, w)["expenses"].([]any), 1)

	w = s.do(t, http.MethodPost, "/api/v1/expenses/"+expenseID+"/approve", nil, asActor())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	approved := decode(t, w)["expense"].(map[string]any)
	assert.Equal(t, true, approved["approved"])
	assert.Equal(t, actor, approved["approved_by"])

	w = s.do(t, http.MethodPost, "/api/v1/expenses/"+expenseID+"/reject", nil, asActor())
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/expenses/missing/approve", nil, asActor())
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/dashboard/engineers", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExpense_InvalidInput(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/expenses", map[string]any{
		"expense_type": "Food", "payment_mode": "Cash", "amount": 5,
	}, asActor())
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/expenses", map[string]any{
		"expense_type": "Misc", "payment_mode": "Cash", "amount": 5, "date": "yesterday",
	}, asActor())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLockTimeout_ReturnsServiceUnavailable(t *testing.T) {
	s := newTestServer(t)

	held := flock.New(s.lockPath)
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer held.Unlock()

	w := s.do(t, http.MethodPost, "/api/v1/sites", map[string]string{"site_name": "Tower A"}, asActor())
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "5", w.Header().Get("Retry-After"))
	assert.Contains(t, decode(t, w)["error"], "busy")

	// reads stay available while a writer holds the lock
	w = s.do(t, http.MethodGet, "/api/v1/sites", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExport(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/companies", map[string]string{"company_name": "Acme"}, asActor())
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/export/companies", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "companies.csv")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "company_id,company_name,address,phone", lines[0])

	w = s.do(t, http.MethodGet, "/api/v1/export/payroll", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/export/dashboard", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))

	w = s.do(t, http.MethodGet, "/api/v1/export/workbook", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS_Preflight(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodOptions, "/api/v1/expenses", nil, map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": http.MethodPost,
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Actor")
}

func TestCORS_RejectedTokenIsReadable(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/expenses", nil, map[string]string{
		"Origin":        "http://localhost:3000",
		"Authorization": "Bearer not-a-token",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
