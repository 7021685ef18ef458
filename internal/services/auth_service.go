package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"kaskita/internal/client"
	apperrors "kaskita/internal/errors"
	"kaskita/internal/models"
	"kaskita/internal/session"
)

type authService struct {
	l       *Ledger
	session *session.Manager
}

// NewAuthService creates a new AuthServicer. Any session clear, forced or
// not, also wipes the snapshot and cancels in-flight loads.
func NewAuthService(l *Ledger, sess *session.Manager) AuthServicer {
	s := &authService{l: l, session: sess}
	sess.OnCleared(func(reason string) {
		l.tracker.CancelAll()
		l.store.Reset(context.Background())
		l.log.Infow("snapshot wiped", "reason", reason)
	})
	return s
}

func (s *authService) Login(ctx context.Context, email, password string) (*session.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrMissingField, "Email dan password wajib diisi")
	}

	// A previous user's figures must never show under the new account.
	s.l.tracker.CancelAll()
	s.l.store.Reset(ctx)

	if _, err := s.l.backend.Login(ctx, email, password); err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError {
			msg := apperrors.ErrInvalidCredentials.Message
			if apiErr.Message != "" {
				msg = apiErr.Message
			}
			return nil, apperrors.Wrap(apperrors.WithMessage(apperrors.ErrInvalidCredentials, msg), err)
		}
		return nil, s.l.backendError(apperrors.ErrLogin, err)
	}

	if user, err := s.l.backend.Profile(ctx); err != nil {
		s.l.log.Warnw("signed in but profile fetch failed", "error", err)
	} else {
		s.session.SetUser(ctx, user)
	}

	cur := s.session.Current()
	s.l.log.Infow("signed in", "email", email)
	return &cur, nil
}

func (s *authService) Register(ctx context.Context, name, email, password string) (string, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return "", apperrors.WithMessage(apperrors.ErrMissingField, "Nama, email dan password wajib diisi")
	}
	msg, err := s.l.backend.Register(ctx, name, email, password)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnprocessableEntity && apiErr.Message != "" {
			return "", apperrors.Wrap(apperrors.WithMessage(apperrors.ErrInvalidInput, apiErr.Message), err)
		}
		return "", s.l.backendError(apperrors.ErrRegister, err)
	}
	return msg, nil
}

// Logout revokes the token when the backend is reachable and clears the
// session regardless.
func (s *authService) Logout(ctx context.Context) error {
	if s.session.Authenticated() {
		if err := s.l.backend.Logout(ctx); err != nil {
			s.l.log.Warnw("backend logout failed, clearing locally", "error", err)
		}
	}
	s.session.Clear(ctx, "logout")
	s.l.tracker.CancelAll()
	s.l.store.Reset(ctx)
	return nil
}

func (s *authService) Profile(ctx context.Context) (*models.User, error) {
	user, err := s.l.backend.Profile(ctx)
	if err != nil {
		return nil, s.l.backendError(apperrors.ErrFetchProfile, err)
	}
	s.session.SetUser(ctx, user)
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrMissingField, "Nama wajib diisi")
	}
	if err := s.l.backend.UpdateProfile(ctx, name); err != nil {
		return nil, s.l.backendError(apperrors.ErrSaveProfile, err)
	}
	return s.Profile(ctx)
}

func (s *authService) Current() session.Session {
	return s.session.Current()
}
