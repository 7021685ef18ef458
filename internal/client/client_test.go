package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/ledger"
	"kaskita/internal/models"
	"kaskita/internal/period"
	"kaskita/internal/session"
)

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func signedIn(t *testing.T, token string) *session.Manager {
	t.Helper()
	m := session.NewManager(nil, nil)
	m.Set(context.Background(), token, 3600)
	return m
}

func TestListTransactions_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/api/transactions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("month"); got != "03" {
			t.Errorf("expected zero-padded month 03, got %q", got)
		}
		if got := r.URL.Query().Get("year"); got != "2025" {
			t.Errorf("expected year 2025, got %q", got)
		}
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			t.Errorf("missing or wrong bearer header: %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "ok",
			"data": []map[string]any{
				{"id": "t1", "type": "EXPENSES", "amount": "150000.00", "asset_id": "a1", "category_id": "c1", "date": "2025-03-02T10:00:00.000Z"},
				{"id": 2, "type": "INCOME", "amount": 2500000, "asset_id": "a1", "category_id": "c2", "date": "2025-03-01T08:00:00.000Z"},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL+"/", server.Client(), signedIn(t, "tok-1"))
	txs, err := c.ListTransactions(context.Background(), period.Period{Month: time.March, Year: 2025})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].Amount != 150000 || txs[0].Type != models.TransactionTypeExpenses {
		t.Errorf("first transaction mismatch: %+v", txs[0])
	}
	if txs[1].ID != "2" || txs[1].Amount != 2500000 {
		t.Errorf("second transaction mismatch: %+v", txs[1])
	}
}

func TestDo_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Aset masih dipakai"})
	}))
	defer server.Close()

	c := New(server.URL, server.Client(), signedIn(t, "tok"))
	err := c.DeleteAsset(context.Background(), "a1")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity || apiErr.Message != "Aset masih dipakai" {
		t.Errorf("unexpected api error: %+v", apiErr)
	}
	if want := "unexpected status 422"; !contains(err.Error(), want) {
		t.Errorf("error %q should contain %q", err.Error(), want)
	}
}

func TestDo_RefreshesExpiredSessionBeforeRequest(t *testing.T) {
	var refreshes atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/refresh":
			refreshes.Add(1)
			if r.Header.Get("Authorization") != "Bearer old" {
				t.Errorf("refresh should present the old token, got %q", r.Header.Get("Authorization"))
			}
			writeJSON(w, http.StatusOK, map[string]any{"access_token": "new", "expires_in": 3600})
		case "/api/assets":
			if r.Header.Get("Authorization") != "Bearer new" {
				t.Errorf("request should use the refreshed token, got %q", r.Header.Get("Authorization"))
			}
			writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{{"id": "a1", "name": "BCA", "balance": "1000"}}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	now := time.Date(2025, 4, 26, 9, 0, 0, 0, time.UTC)
	sess := session.NewManager(nil, nil).WithClock(func() time.Time { return now })
	sess.Set(context.Background(), "old", 60)
	now = now.Add(2 * time.Minute)

	c := New(server.URL, server.Client(), sess)
	assets, err := c.ListAssets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assets) != 1 || assets[0].Balance != 1000 {
		t.Errorf("unexpected assets: %+v", assets)
	}
	if refreshes.Load() != 1 {
		t.Errorf("expected exactly one refresh, got %d", refreshes.Load())
	}
	if tok, _ := sess.Token(); tok != "new" {
		t.Errorf("session should hold the refreshed token, got %q", tok)
	}
}

func TestDo_RetriesOnceAfterExpiredTokenResponse(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/refresh":
			writeJSON(w, http.StatusOK, map[string]any{"access_token": "fresh", "expires_in": 3600})
		case "/api/savings":
			calls.Add(1)
			if r.Header.Get("Authorization") == "Bearer stale" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token has expired"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{{"id": "s1", "target_amount": "1000000", "current_amount": "250000"}}})
		}
	}))
	defer server.Close()

	c := New(server.URL, server.Client(), signedIn(t, "stale"))
	savings, err := c.ListSavings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected the request to be retried once, got %d calls", calls.Load())
	}
	if len(savings) != 1 || savings[0].CurrentAmount != 250000 {
		t.Errorf("unexpected savings: %+v", savings)
	}
}

func TestDo_UnauthenticatedClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthenticated."})
	}))
	defer server.Close()

	sess := signedIn(t, "revoked")
	var reason string
	sess.OnCleared(func(r string) { reason = r })

	c := New(server.URL, server.Client(), sess)
	_, err := c.ListLoans(context.Background())
	if !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if sess.Authenticated() {
		t.Error("session should be cleared")
	}
	if reason == "" {
		t.Error("cleared listeners should be notified")
	}
}

func TestDo_RefreshFailureClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/refresh" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthenticated."})
			return
		}
		t.Errorf("no request should follow a failed refresh, got %s", r.URL.Path)
	}))
	defer server.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sess := session.NewManager(nil, nil).WithClock(func() time.Time { return now })
	sess.Set(context.Background(), "old", 1)
	now = now.Add(time.Hour)

	c := New(server.URL, server.Client(), sess)
	_, err := c.GetSettings(context.Background())
	if !errors.Is(err, apperrors.ErrSessionRefreshFailed) {
		t.Fatalf("expected ErrSessionRefreshFailed, got %v", err)
	}
	if sess.Authenticated() {
		t.Error("session should be cleared after a failed refresh")
	}
}

func TestLogin_StoresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not carry a bearer token")
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "sari@kaskita.id" || body["password"] != "rahasia" {
			t.Errorf("unexpected body: %v", body)
		}
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "jwt", "expires_in": 7200})
	}))
	defer server.Close()

	sess := session.NewManager(nil, nil)
	c := New(server.URL, server.Client(), sess)
	tok, err := c.Login(context.Background(), "sari@kaskita.id", "rahasia")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.ExpiresIn != 7200 {
		t.Errorf("expected expires_in 7200, got %d", tok.ExpiresIn)
	}
	if got, _ := sess.Token(); got != "jwt" {
		t.Errorf("session token = %q, want jwt", got)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Email atau password salah"})
	}))
	defer server.Close()

	sess := session.NewManager(nil, nil)
	var cleared bool
	sess.OnCleared(func(string) { cleared = true })

	c := New(server.URL, server.Client(), sess)
	_, err := c.Login(context.Background(), "x@y.z", "bad")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
	if cleared {
		t.Error("a failed login is not a forced logout")
	}
}

func TestCreateTransaction_Multipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/transactions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("expected multipart body: %v", err)
		}
		if r.FormValue("type") != "TRANSFER" || r.FormValue("amount") != "50000" || r.FormValue("transfer_asset_id") != "a2" {
			t.Errorf("unexpected form: %v", r.MultipartForm.Value)
		}
		if r.FormValue("category_id") != "" {
			t.Error("transfer must not carry a category")
		}
		writeJSON(w, http.StatusCreated, map[string]any{"data": map[string]any{"id": "t9", "type": "TRANSFER", "amount": "50000"}})
	}))
	defer server.Close()

	entry := ledger.Transfer{
		Common:    ledger.Common{Date: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), Amount: 50000, AssetID: "a1"},
		ToAssetID: "a2",
	}
	c := New(server.URL, server.Client(), signedIn(t, "tok"))
	tx, err := c.CreateTransaction(context.Background(), ledger.Encode(entry))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.ID != "t9" {
		t.Errorf("expected id t9, got %q", tx.ID)
	}
}

func TestUploadImage_Multipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/images/add" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("expected multipart body: %v", err)
		}
		if r.FormValue("table_name") != "transactions" || r.FormValue("table_id") != "t1" {
			t.Errorf("unexpected form: %v", r.MultipartForm.Value)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		defer func() { _ = f.Close() }()
		data, _ := io.ReadAll(f)
		if hdr.Filename != "struk.jpg" || string(data) != "jpeg-bytes" {
			t.Errorf("unexpected file %q %q", hdr.Filename, data)
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"id": 1, "path": "images/struk.jpg", "table_name": "transactions", "table_id": "t1"}})
	}))
	defer server.Close()

	c := New(server.URL, server.Client(), signedIn(t, "tok"))
	img, err := c.UploadImage(context.Background(), "transactions", "t1", "struk.jpg", []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Path != "images/struk.jpg" || img.ID != "1" {
		t.Errorf("unexpected image: %+v", img)
	}
}

func TestCategoryTotals_YearlyOmitsMonth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Has("month") {
			t.Error("yearly breakdown must not send a month")
		}
		if q.Get("year") != "2025" || q.Get("type") != "EXPENSES" {
			t.Errorf("unexpected query: %v", q)
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{{"name": "Makan", "total_amount": "300000", "type": "EXPENSES"}}})
	}))
	defer server.Close()

	c := New(server.URL, server.Client(), signedIn(t, "tok"))
	f := period.Filter{Mode: period.ChartYearly, Period: period.Period{Month: time.May, Year: 2025}}
	rows, err := c.CategoryTotals(context.Background(), f, models.CategoryTypeExpenses)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].TotalAmount != 300000 {
		t.Errorf("unexpected rows: %+v", rows)
	}
}

func TestDo_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	c := New(url, http.DefaultClient, signedIn(t, "tok"))
	if _, err := c.ListAssets(context.Background()); err == nil {
		t.Fatal("expected error for unreachable backend")
	}
}
