package middleware

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init("test")
	m.Run()
}

func TestRequestLogging(t *testing.T) {
	t.Run("assigns a request id", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestLogging())
		var seen string
		r.POST("/test", func(c *gin.Context) {
			seen = RequestID(c)
			okHandler(c)
		})

		rec := doRequest(r, nil)
		got := rec.Header().Get("X-Request-ID")
		parsed, err := uuid.Parse(got)
		if err != nil {
			t.Fatalf("expected a UUID request id, got %q", got)
		}
		if parsed.Version() != 7 {
			t.Errorf("expected a UUIDv7 request id, got version %d", parsed.Version())
		}
		if seen != got {
			t.Errorf("context id %q differs from header %q", seen, got)
		}
	})

	t.Run("keeps a caller id", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestLogging())
		r.POST("/test", okHandler)

		id := uuid.NewString()
		rec := doRequest(r, map[string]string{"X-Request-ID": id})
		if rec.Header().Get("X-Request-ID") != id {
			t.Errorf("expected %q to be kept, got %q", id, rec.Header().Get("X-Request-ID"))
		}
	})

	t.Run("canonicalizes an upper-case caller id", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestLogging())
		r.POST("/test", okHandler)

		id := uuid.NewString()
		rec := doRequest(r, map[string]string{"X-Request-ID": strings.ToUpper(id)})
		if rec.Header().Get("X-Request-ID") != id {
			t.Errorf("expected %q, got %q", id, rec.Header().Get("X-Request-ID"))
		}
	})

	t.Run("replaces a malformed caller id", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestLogging())
		r.POST("/test", okHandler)

		rec := doRequest(r, map[string]string{"X-Request-ID": "not a uuid"})
		if rec.Header().Get("X-Request-ID") == "not a uuid" {
			t.Error("expected a fresh request id")
		}
	})
}

func TestErrorHandler(t *testing.T) {
	t.Run("renders app errors", func(t *testing.T) {
		r := gin.New()
		r.Use(ErrorHandler())
		r.POST("/test", func(c *gin.Context) {
			_ = c.Error(apperrors.Wrap(apperrors.ErrFetchAssets, errors.New("status 500")))
		})

		rec := doRequest(r, nil)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
		if code := errorCode(t, rec); code != "FETCH_ASSETS_FAILED" {
			t.Errorf("expected FETCH_ASSETS_FAILED, got %q", code)
		}
	})

	t.Run("hides unexpected errors", func(t *testing.T) {
		r := gin.New()
		r.Use(ErrorHandler())
		r.POST("/test", func(c *gin.Context) {
			_ = c.Error(errors.New("database exploded"))
		})

		rec := doRequest(r, nil)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if code := errorCode(t, rec); code != "INTERNAL_ERROR" {
			t.Errorf("expected INTERNAL_ERROR, got %q", code)
		}
	})

	t.Run("leaves written responses alone", func(t *testing.T) {
		r := gin.New()
		r.Use(ErrorHandler())
		r.POST("/test", func(c *gin.Context) {
			_ = c.Error(errors.New("already handled"))
			c.JSON(http.StatusTeapot, gin.H{"ok": false})
		})

		if rec := doRequest(r, nil); rec.Code != http.StatusTeapot {
			t.Fatalf("expected 418, got %d", rec.Code)
		}
	})
}
