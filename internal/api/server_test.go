package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/minimart-api/infrastructure/report"
	"github.com/vfg2006/minimart-api/infrastructure/repository"
	"github.com/vfg2006/minimart-api/internal/config"
	"github.com/vfg2006/minimart-api/internal/domain"
	"github.com/vfg2006/minimart-api/internal/usecases/authenticating"
	"github.com/vfg2006/minimart-api/internal/usecases/dailysales"
	"github.com/vfg2006/minimart-api/pkg/log"
	"github.com/xuri/excelize/v2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func TestMain(m *testing.M) {
	log.SetupTestLogger()
	os.Exit(m.Run())
}

type envelope struct {
	Success     bool                `json:"success"`
	Data        jsoniter.RawMessage `json:"data"`
	Message     string              `json:"message"`
	Count       *int                `json:"count"`
	Error       string              `json:"error"`
	Code        string              `json:"code"`
	FieldErrors map[string]string   `json:"fieldErrors"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	ctx := context.Background()

	cfg := &config.Config{
		Server:    config.Server{CorsAllowedOrigins: []string{"http://localhost:3000"}},
		Storage:   config.Storage{Backend: config.BackendJSON, DataDir: t.TempDir()},
		Auth:      config.Auth{TokenTTL: time.Hour},
		Seed:      config.Seed{Enabled: true, DefaultPassword: "password123"},
		SecretKey: "segredo-de-teste",
	}

	storage, err := repository.OpenStorage(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, storage.Initialize(ctx))

	authenticator := authenticating.NewService(storage.Users, cfg)
	require.NoError(t, authenticator.SeedUsers(ctx))

	server, err := New(cfg, storage.Backend, storage, dailysales.NewService(storage.Sales, storage.Users), authenticator)
	require.NoError(t, err)

	return &testServer{t: t, handler: server.Handler()}
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(s.t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}

	return rec, env
}

func (s *testServer) login(email string) (string, domain.User) {
	s.t.Helper()

	rec, env := s.do(http.MethodPost, "/v1/login", "", domain.LoginRequest{Email: email, Password: "password123"})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp domain.LoginResponse
	require.NoError(s.t, json.Unmarshal(env.Data, &resp))
	return resp.Token, resp.User
}

func decodeEntry(t *testing.T, env envelope) domain.DailySalesEntry {
	var entry domain.DailySalesEntry
	require.NoError(t, json.Unmarshal(env.Data, &entry))
	return entry
}

func TestServer_Healthcheck(t *testing.T) {
	server := newTestServer(t)

	rec, env := server.do(http.MethodGet, "/healthcheck", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"backend":"json"`)
}

func TestServer_AuthenticationErrors(t *testing.T) {
	server := newTestServer(t)

	rec, env := server.do(http.MethodGet, "/v1/daily-sales", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "AUTH_006", env.Code)

	rec, env = server.do(http.MethodGet, "/v1/daily-sales", "nao-e-um-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_006", env.Code)

	rec, env = server.do(http.MethodPost, "/v1/login", "", domain.LoginRequest{Email: "owner@example.com", Password: "errada"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_001", env.Code)
}

func TestServer_DailySalesLifecycle(t *testing.T) {
	server := newTestServer(t)
	cashierToken, cashier := server.login("test@example.com")
	ownerToken, owner := server.login("owner@example.com")

	rec, env := server.do(http.MethodPost, "/v1/daily-sales", cashierToken, map[string]any{
		"date":      "2026-01-29",
		"cashierId": "cashier-1",
		"channels":  map[string]float64{"cash": 5000, "qr": 3000, "bank": 2000, "government": 1000},
		"reconciliation": map[string]float64{
			"expectedAmount": 11000,
			"actualAmount":   11000,
		},
		"total": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeEntry(t, env)
	assert.Equal(t, 11000.0, created.Total)
	assert.Equal(t, 0.0, created.Reconciliation.Difference)
	assert.Equal(t, domain.SalesStatusSubmitted, created.Status)
	assert.Equal(t, cashier.UID, created.SubmittedBy)
	assert.Equal(t, cashier.DisplayName, created.CashierName)

	rec, env = server.do(http.MethodPut, "/v1/daily-sales/"+created.ID, cashierToken, map[string]any{
		"reconciliation": map[string]float64{"actualAmount": 10800},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeEntry(t, env)
	assert.Equal(t, -200.0, updated.Reconciliation.Difference)
	assert.Equal(t, 11000.0, updated.Total)

	rec, env = server.do(http.MethodGet, "/v1/daily-sales?status=submitted", cashierToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)

	rec, env = server.do(http.MethodGet, "/v1/daily-sales?sortBy=valor", cashierToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.FieldErrors, "sortBy")

	rec, env = server.do(http.MethodPost, "/v1/daily-sales/"+created.ID+"/approve", cashierToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "AUTH_008", env.Code)

	rec, env = server.do(http.MethodPut, "/v1/daily-sales/"+created.ID, cashierToken, map[string]any{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "AUTH_008", env.Code)

	rec, env = server.do(http.MethodPost, "/v1/daily-sales/"+created.ID+"/approve", ownerToken, map[string]string{"notes": "ok"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	approved := decodeEntry(t, env)
	assert.Equal(t, domain.SalesStatusApproved, approved.Status)
	assert.Equal(t, owner.UID, approved.AuditedBy)
	assert.Equal(t, "ok", approved.AuditNotes)
	assert.NotNil(t, approved.AuditedAt)

	rec, env = server.do(http.MethodPut, "/v1/daily-sales/"+created.ID, ownerToken, map[string]any{"status": "submitted"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VAL_004", env.Code)
	assert.Contains(t, env.FieldErrors, "status")

	rec, _ = server.do(http.MethodGet, "/v1/reports/daily-sales", cashierToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = server.do(http.MethodGet, "/v1/reports/daily-sales?dateFrom=2026-01-01", ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, report.ContentTypeXLSX, rec.Header().Get("Content-Type"))

	workbook, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer workbook.Close()
	rows, err := workbook.GetRows(report.SalesSheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rec, env = server.do(http.MethodDelete, "/v1/daily-sales/"+created.ID, cashierToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, env = server.do(http.MethodGet, "/v1/daily-sales/"+created.ID, cashierToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SAL_001", env.Code)
}

func TestServer_ValidationErrors(t *testing.T) {
	server := newTestServer(t)
	token, _ := server.login("test@example.com")

	rec, env := server.do(http.MethodPost, "/v1/daily-sales", token, map[string]any{
		"date":     "29/01/2026",
		"channels": map[string]float64{"cash": -10},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VAL_004", env.Code)
	assert.Contains(t, env.FieldErrors, "date")
	assert.Contains(t, env.FieldErrors, "cashierId")
	assert.Contains(t, env.FieldErrors, "channels.cash")
	assert.Contains(t, env.FieldErrors, "channels.qr")
	assert.Contains(t, env.FieldErrors, "reconciliation")

	req := httptest.NewRequest(http.MethodPost, "/v1/daily-sales", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer "+token)
	raw := httptest.NewRecorder()
	server.handler.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestServer_RoutingAndCors(t *testing.T) {
	server := newTestServer(t)
	token, _ := server.login("owner@example.com")

	rec, env := server.do(http.MethodGet, "/v1/nao-existe", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "RTE_001", env.Code)

	req := httptest.NewRequest(http.MethodOptions, "/v1/daily-sales", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	preflight := httptest.NewRecorder()
	server.handler.ServeHTTP(preflight, req)
	assert.Equal(t, http.StatusNoContent, preflight.Code)
	assert.Equal(t, "http://localhost:3000", preflight.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/v1/daily-sales", nil)
	req.Header.Set("Origin", "http://evil.example")
	denied := httptest.NewRecorder()
	server.handler.ServeHTTP(denied, req)
	assert.Empty(t, denied.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_Users(t *testing.T) {
	server := newTestServer(t)
	ownerToken, owner := server.login("owner@example.com")
	managerToken, _ := server.login("manager@example.com")
	cashierToken, _ := server.login("test@example.com")

	rec, env := server.do(http.MethodGet, "/v1/me", cashierToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, string(env.Data), "passwordHash")

	rec, _ = server.do(http.MethodGet, "/v1/users", cashierToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = server.do(http.MethodGet, "/v1/users", managerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 3, *env.Count)

	rec, _ = server.do(http.MethodPost, "/v1/users", managerToken, domain.CreateUserRequest{
		Email: "dono2@example.com", Password: "segredo1", DisplayName: "Dono 2", Role: domain.RoleOwner,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = server.do(http.MethodPost, "/v1/users", managerToken, domain.CreateUserRequest{
		Email: "caixa2@example.com", Password: "segredo1", DisplayName: "Caixa 2", Role: domain.RoleCashier,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = server.do(http.MethodDelete, "/v1/users/"+owner.UID, ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = server.do(http.MethodPut, "/v1/me/password", cashierToken, domain.ChangePasswordRequest{
		CurrentPassword: "password123", NewPassword: "nova-senha",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = server.do(http.MethodPost, "/v1/login", "", domain.LoginRequest{Email: "test@example.com", Password: "nova-senha"})
	assert.Equal(t, http.StatusOK, rec.Code)
}
