package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"kaskita/internal/cache"
	"kaskita/internal/client"
	"kaskita/internal/logger"
	"kaskita/internal/models"
	"kaskita/internal/services"
	"kaskita/internal/session"
	"kaskita/internal/snapshot"
	"kaskita/internal/testutil"
	"kaskita/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// testApp holds the full daemon stack against a fake backend.
type testApp struct {
	Backend *testutil.FakeBackend
	Router  *gin.Engine
}

func setupApp(t *testing.T, apiKey string) *testApp {
	t.Helper()
	fb := testutil.NewFakeBackend(t)
	db := testutil.SetupTestCache(t)
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	repo := cache.NewRepository(db)
	sess := session.NewManager(repo, nil)

	opts := services.Options{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2025, time.March, 15, 9, 0, 0, 0, time.UTC) },
	}
	ledger := services.NewLedger(client.New(fb.URL(), fb.Client(), sess), snapshot.NewStore(repo), snapshot.NewTracker(), opts)
	settings := services.NewSettingsService(ledger)
	periods := services.NewPeriodService(ledger, settings)

	router := newRouter(deps{
		APIKey:       apiKey,
		Sessions:     sess,
		Auth:         services.NewAuthService(ledger, sess),
		Settings:     settings,
		Periods:      periods,
		Assets:       services.NewAssetService(ledger),
		Savings:      services.NewSavingService(ledger),
		Loans:        services.NewLoanService(ledger),
		Categories:   services.NewCategoryService(ledger),
		Transactions: services.NewTransactionService(ledger, periods, repo),
		Statistics:   services.NewStatisticService(ledger, periods),
		Overview:     services.NewOverviewService(ledger),
	})
	return &testApp{Backend: fb, Router: router}
}

func (a *testApp) do(t *testing.T, method, path, body string, headers ...string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	var result map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
		}
	}
	return rec, result
}

func errorCode(body map[string]interface{}) string {
	errObj, _ := body["error"].(map[string]interface{})
	code, _ := errObj["code"].(string)
	return code
}

func TestDaemon_SessionLifecycle(t *testing.T) {
	app := setupApp(t, "")

	_, health := app.do(t, http.MethodGet, "/api/health", "")
	if health["authenticated"] != false {
		t.Fatalf("expected a signed-out daemon, got %v", health)
	}

	rec, body := app.do(t, http.MethodGet, "/api/v1/assets", "")
	if rec.Code != http.StatusUnauthorized || errorCode(body) != "UNAUTHENTICATED" {
		t.Fatalf("expected 401 UNAUTHENTICATED before login, got %d %v", rec.Code, body)
	}
	if app.Backend.TotalCalls() != 0 {
		t.Fatalf("expected no backend traffic before login, got %d", app.Backend.TotalCalls())
	}

	rec, body = app.do(t, http.MethodPost, "/api/v1/auth/login", `{"email":"sari@kaskita.id","password":"rahasia"}`)
	if rec.Code != http.StatusOK || body["authenticated"] != true {
		t.Fatalf("login: %d %v", rec.Code, body)
	}

	rec, _ = app.do(t, http.MethodPost, "/api/v1/assets", `{"name":"BCA","category_id":"ac-bank","balance":"1500000"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create asset: %d %s", rec.Code, rec.Body.String())
	}
	_, body = app.do(t, http.MethodGet, "/api/v1/assets", "")
	if body["display"] != "Rp 1.500.000,00" {
		t.Errorf("unexpected asset total %v", body)
	}

	rec, body = app.do(t, http.MethodPost, "/api/v1/auth/logout", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout: %d %v", rec.Code, body)
	}
	rec, _ = app.do(t, http.MethodGet, "/api/v1/assets", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestDaemon_TransactionFlow(t *testing.T) {
	app := setupApp(t, "")
	app.Backend.Settings.ClosingDate = 25
	app.Backend.Assets = []models.Asset{{Base: models.Base{ID: "asset-1"}, Name: "BCA", Balance: 1000000}}

	if rec, body := app.do(t, http.MethodPost, "/api/v1/auth/login", `{"email":"sari@kaskita.id","password":"rahasia"}`); rec.Code != http.StatusOK {
		t.Fatalf("login: %d %v", rec.Code, body)
	}

	_, period := app.do(t, http.MethodGet, "/api/v1/period", "")
	if period["label"] != "03-2025" {
		t.Fatalf("expected period 03-2025, got %v", period)
	}

	rec, body := app.do(t, http.MethodPost, "/api/v1/transactions",
		`{"type":"EXPENSES","date":"2025-03-10","amount":"50.000","asset_id":"asset-1"}`)
	if rec.Code != http.StatusUnprocessableEntity || errorCode(body) != "MISSING_FIELD" {
		t.Fatalf("expected MISSING_FIELD without a category, got %d %v", rec.Code, body)
	}
	if n := app.Backend.Calls("POST /api/transactions"); n != 0 {
		t.Fatalf("incomplete draft reached the backend %d times", n)
	}

	rec, body = app.do(t, http.MethodPost, "/api/v1/transactions",
		`{"type":"EXPENSES","date":"2025-03-10","time":"12:30","amount":"50.000","asset_id":"asset-1","category_id":"cat-food"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	if body["image_status"] != "none" {
		t.Errorf("expected image_status none, got %v", body["image_status"])
	}

	rec, body = app.do(t, http.MethodPost, "/api/v1/period/shift", `{"months":1}`)
	if rec.Code != http.StatusOK || body["label"] != "04-2025" {
		t.Fatalf("shift: %d %v", rec.Code, body)
	}
}

func TestDaemon_APIKey(t *testing.T) {
	app := setupApp(t, "local-secret")

	rec, body := app.do(t, http.MethodGet, "/api/v1/auth/session", "")
	if rec.Code != http.StatusUnauthorized || errorCode(body) != "INVALID_API_KEY" {
		t.Fatalf("expected INVALID_API_KEY, got %d %v", rec.Code, body)
	}

	rec, _ = app.do(t, http.MethodGet, "/api/v1/auth/session", "", "X-API-Key", "local-secret")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with the key, got %d", rec.Code)
	}

	if rec, _ := app.do(t, http.MethodGet, "/api/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("health must stay open, got %d", rec.Code)
	}
}
