package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"kaskita/internal/cache"
	"kaskita/internal/client"
	"kaskita/internal/logger"
	"kaskita/internal/session"
	"kaskita/internal/snapshot"
	"kaskita/internal/testutil"
)

// fixedNow is mid-March 2025. With the harness closing date of 25 the
// displayed period resolves to March 2025.
var fixedNow = time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

type harness struct {
	backend *testutil.FakeBackend
	repo    *cache.Repository
	store   *snapshot.Store
	session *session.Manager
	ledger  *Ledger

	settings     SettingsServicer
	periods      PeriodServicer
	auth         AuthServicer
	assets       AssetServicer
	savings      SavingServicer
	loans        LoanServicer
	categories   CategoryServicer
	transactions TransactionServicer
	statistics   StatisticServicer
	overview     OverviewServicer
}

func newHarness(t *testing.T, tweak ...func(*Options)) *harness {
	t.Helper()
	logger.Init("test")

	fb := testutil.NewFakeBackend(t)
	fb.Settings.ClosingDate = 25

	db := testutil.SetupTestCache(t)
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	repo := cache.NewRepository(db)

	sess := session.NewManager(repo, nil)
	sess.Set(context.Background(), testutil.FakeToken, 3600)

	opts := Options{
		Location:          time.UTC,
		ImageMaxDimension: 64,
		Now:               func() time.Time { return fixedNow },
	}
	for _, fn := range tweak {
		fn(&opts)
	}

	store := snapshot.NewStore(repo)
	l := NewLedger(client.New(fb.URL(), fb.Client(), sess), store, snapshot.NewTracker(), opts)

	h := &harness{backend: fb, repo: repo, store: store, session: sess, ledger: l}
	h.settings = NewSettingsService(l)
	h.periods = NewPeriodService(l, h.settings)
	h.auth = NewAuthService(l, sess)
	h.assets = NewAssetService(l)
	h.savings = NewSavingService(l)
	h.loans = NewLoanService(l)
	h.categories = NewCategoryService(l)
	h.transactions = NewTransactionService(l, h.periods, repo)
	h.statistics = NewStatisticService(l, h.periods)
	h.overview = NewOverviewService(l)
	return h
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
