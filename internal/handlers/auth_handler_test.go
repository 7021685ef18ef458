package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/models"
	"kaskita/internal/services"
	"kaskita/internal/session"
	"kaskita/internal/validator"
)

// --- mock services ---

type mockAuthService struct {
	loginFn         func(ctx context.Context, email, password string) (*session.Session, error)
	registerFn      func(ctx context.Context, name, email, password string) (string, error)
	logoutFn        func(ctx context.Context) error
	profileFn       func(ctx context.Context) (*models.User, error)
	updateProfileFn func(ctx context.Context, name string) (*models.User, error)
	current         session.Session
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*session.Session, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return &session.Session{}, nil
}

func (m *mockAuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, name, email, password)
	}
	return "", nil
}

func (m *mockAuthService) Logout(ctx context.Context) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx)
	}
	return nil
}

func (m *mockAuthService) Profile(ctx context.Context) (*models.User, error) {
	if m.profileFn != nil {
		return m.profileFn(ctx)
	}
	return &models.User{}, nil
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, name string) (*models.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, name)
	}
	return &models.User{Name: name}, nil
}

func (m *mockAuthService) Current() session.Session { return m.current }

var _ services.AuthServicer = (*mockAuthService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.POST("/auth/logout", handler.Logout)
	r.GET("/auth/session", handler.GetSession)
	r.GET("/profile", handler.GetProfile)
	r.PUT("/profile", handler.UpdateProfile)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 with the backend message", func(t *testing.T) {
		svc := &mockAuthService{
			registerFn: func(_ context.Context, name, email, _ string) (string, error) {
				if name != "Budi" || email != "budi@kaskita.id" {
					t.Errorf("unexpected registration %q %q", name, email)
				}
				return "Registrasi berhasil", nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(svc))

		rec := doRequest(r, http.MethodPost, "/auth/register", `{"name":"Budi","email":"budi@kaskita.id","password":"rahasia"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if parseJSON(t, rec)["message"] != "Registrasi berhasil" {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("returns 400 for an invalid email", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockAuthService{}))

		rec := doRequest(r, http.MethodPost, "/auth/register", `{"name":"Budi","email":"not-an-email","password":"x"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns the session without the token", func(t *testing.T) {
		expires := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
		svc := &mockAuthService{
			loginFn: func(_ context.Context, email, _ string) (*session.Session, error) {
				return &session.Session{
					AccessToken: "secret-token",
					ExpiresAt:   expires,
					User:        &models.User{ID: "u-1", Email: email},
				}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(svc))

		rec := doRequest(r, http.MethodPost, "/auth/login", `{"email":"sari@kaskita.id","password":"rahasia"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if strings.Contains(rec.Body.String(), "secret-token") {
			t.Error("response must not leak the access token")
		}
		body := parseJSON(t, rec)
		if body["authenticated"] != true {
			t.Errorf("expected authenticated=true, got %v", body["authenticated"])
		}
	})

	t.Run("returns 401 for invalid credentials", func(t *testing.T) {
		svc := &mockAuthService{
			loginFn: func(context.Context, string, string) (*session.Session, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		r := setupAuthRouter(NewAuthHandler(svc))

		rec := doRequest(r, http.MethodPost, "/auth/login", `{"email":"sari@kaskita.id","password":"salah"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})

	t.Run("returns 400 for a missing password", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockAuthService{}))

		rec := doRequest(r, http.MethodPost, "/auth/login", `{"email":"sari@kaskita.id"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	called := false
	svc := &mockAuthService{logoutFn: func(context.Context) error { called = true; return nil }}
	r := setupAuthRouter(NewAuthHandler(svc))

	rec := doRequest(r, http.MethodPost, "/auth/logout", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !called {
		t.Error("expected logout to reach the service")
	}
}

func TestAuthHandler_GetSession(t *testing.T) {
	t.Run("reports a signed-out state", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockAuthService{}))

		rec := doRequest(r, http.MethodGet, "/auth/session", "")
		body := parseJSON(t, rec)
		if body["authenticated"] != false {
			t.Errorf("expected authenticated=false, got %v", body["authenticated"])
		}
		if _, ok := body["expires_at"]; ok {
			t.Error("expires_at must be omitted when signed out")
		}
	})

	t.Run("reports the user when signed in", func(t *testing.T) {
		svc := &mockAuthService{current: session.Session{
			AccessToken: "tok",
			User:        &models.User{ID: "u-1", Name: "Sari"},
		}}
		r := setupAuthRouter(NewAuthHandler(svc))

		body := parseJSON(t, doRequest(r, http.MethodGet, "/auth/session", ""))
		user, ok := body["user"].(map[string]interface{})
		if !ok || user["name"] != "Sari" {
			t.Errorf("expected user in session, got %v", body)
		}
	})
}

func TestAuthHandler_Profile(t *testing.T) {
	t.Run("get surfaces backend errors", func(t *testing.T) {
		svc := &mockAuthService{
			profileFn: func(context.Context) (*models.User, error) { return nil, apperrors.ErrUnauthenticated },
		}
		r := setupAuthRouter(NewAuthHandler(svc))

		rec := doRequest(r, http.MethodGet, "/profile", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNAUTHENTICATED")
	})

	t.Run("update returns the renamed user", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockAuthService{}))

		rec := doRequest(r, http.MethodPut, "/profile", `{"name":"Sari Dewi"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["name"] != "Sari Dewi" {
			t.Errorf("expected renamed user, got %v", user)
		}
	})
}
