package services

import (
	"context"
	"net/http"
	"testing"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/models"
	"kaskita/internal/snapshot"
	"kaskita/internal/testutil"
)

func TestLogin_StoresTokenAndProfile(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.session.Clear(ctx, "test")

	sess, err := h.auth.Login(ctx, " sari@kaskita.id ", "rahasia")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sess.AccessToken, testutil.FakeToken, "token")
	if sess.User == nil || sess.User.Email != "sari@kaskita.id" {
		t.Errorf("expected profile attached, got %+v", sess.User)
	}
	testutil.AssertEqual(t, h.auth.Current().AccessToken, testutil.FakeToken, "current token")
}

func TestLogin_BadCredentials(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.session.Clear(ctx, "test")

	_, err := h.auth.Login(ctx, "sari@kaskita.id", "wrong")
	testutil.AssertAppError(t, err, apperrors.ErrInvalidCredentials.Code)
	if h.session.Authenticated() {
		t.Error("failed login must not leave a token behind")
	}
}

func TestLogin_MissingFieldsNeverCallBackend(t *testing.T) {
	h := newHarness(t)

	_, err := h.auth.Login(context.Background(), "", "x")
	testutil.AssertAppError(t, err, apperrors.ErrMissingField.Code)
	testutil.AssertEqual(t, h.backend.TotalCalls(), 0, "backend calls")
}

func TestLogout_WipesSnapshot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.backend.Assets = []models.Asset{{Base: models.Base{ID: "asset-1"}, Name: "BCA", Balance: 100}}

	if _, err := h.assets.ListAssets(ctx, false); err != nil {
		t.Fatalf("listing assets: %v", err)
	}
	h.backend.Fail("POST /api/logout", http.StatusInternalServerError, "boom")

	testutil.AssertNoError(t, h.auth.Logout(ctx))
	if h.session.Authenticated() {
		t.Error("expected session cleared even when the backend logout fails")
	}
	if h.store.Has(snapshot.KeyAssets) {
		t.Error("expected snapshot wiped on logout")
	}
	var cached []models.Asset
	found, err := h.repo.Get(ctx, snapshot.KeyAssets, &cached)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, found, false, "persisted assets")
}

func TestForcedLogout_WipesSnapshot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.backend.Assets = []models.Asset{{Base: models.Base{ID: "asset-1"}, Name: "BCA", Balance: 100}}

	if _, err := h.assets.ListAssets(ctx, false); err != nil {
		t.Fatalf("listing assets: %v", err)
	}
	h.backend.Token = "rotated-elsewhere"

	_, err := h.assets.ListAssets(ctx, true)
	testutil.AssertAppError(t, err, apperrors.ErrUnauthenticated.Code)
	if h.session.Authenticated() {
		t.Error("expected the session to be cleared")
	}
	if h.store.Has(snapshot.KeyAssets) {
		t.Error("expected snapshot wiped after a forced logout")
	}
}

func TestUpdateProfile(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.auth.UpdateProfile(ctx, "  ")
	testutil.AssertAppError(t, err, apperrors.ErrMissingField.Code)

	user, err := h.auth.UpdateProfile(ctx, "Sari Dewi")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, user.Name, "Sari Dewi", "name")
	testutil.AssertEqual(t, h.auth.Current().User.Name, "Sari Dewi", "session user")
}

func TestRegister(t *testing.T) {
	h := newHarness(t)

	msg, err := h.auth.Register(context.Background(), "Budi", "budi@kaskita.id", "rahasia")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, msg, "Registrasi berhasil", "message")
}
