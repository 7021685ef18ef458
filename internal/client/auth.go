package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/models"
)

// ensureFresh refreshes the token before a request when the session has
// expired.
func (cl *Client) ensureFresh(ctx context.Context) error {
	if cl.session == nil || !cl.session.Expired() {
		return nil
	}
	token, _ := cl.session.Token()
	return cl.refresh(ctx, token)
}

// refresh exchanges stale for a new token. Concurrent callers holding the
// same stale token share one refresh.
func (cl *Client) refresh(ctx context.Context, stale string) error {
	if cl.session == nil {
		return apperrors.ErrUnauthenticated
	}

	cl.refreshMu.Lock()
	defer cl.refreshMu.Unlock()

	if current, ok := cl.session.Token(); ok && current != stale && !cl.session.Expired() {
		return nil
	}

	tok, err := cl.requestRefresh(ctx, stale)
	if err != nil {
		cl.log.Warnw("token refresh failed", "error", err)
		cl.session.Clear(ctx, "refresh failed")
		return apperrors.Wrap(apperrors.ErrSessionRefreshFailed, err)
	}
	cl.session.Set(ctx, tok.AccessToken, tok.ExpiresIn)
	cl.log.Debugw("token refreshed", "expires_in", tok.ExpiresIn)
	return nil
}

func (cl *Client) requestRefresh(ctx context.Context, stale string) (*models.TokenResponse, error) {
	if stale == "" {
		return nil, errors.New("no token to refresh")
	}
	c := call{method: http.MethodPost, path: "/api/refresh", public: true}
	resp, err := cl.send(ctx, c, stale)
	if err != nil {
		return nil, err
	}
	if resp.status < 200 || resp.status >= 300 {
		return nil, cl.apiError(c, resp)
	}
	return decodeToken(c.path, resp.payload)
}

// decodeToken accepts the token at the top level or inside the envelope.
func decodeToken(path string, payload []byte) (*models.TokenResponse, error) {
	var tok models.TokenResponse
	if err := json.Unmarshal(payload, &tok); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", path, err)
	}
	if tok.AccessToken == "" {
		var env models.Envelope[models.TokenResponse]
		if err := json.Unmarshal(payload, &env); err == nil {
			tok = env.Data
		}
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%s: response carries no access token", path)
	}
	return &tok, nil
}

// Login authenticates with email and password and stores the new token in
// the session.
func (cl *Client) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	c := call{
		method: http.MethodPost,
		path:   "/api/login",
		body:   jsonBody(map[string]string{"email": email, "password": password}),
		public: true,
	}
	resp, err := cl.send(ctx, c, "")
	if err != nil {
		return nil, err
	}
	if resp.status < 200 || resp.status >= 300 {
		return nil, cl.apiError(c, resp)
	}
	tok, err := decodeToken(c.path, resp.payload)
	if err != nil {
		return nil, err
	}
	if cl.session != nil {
		cl.session.Set(ctx, tok.AccessToken, tok.ExpiresIn)
	}
	return tok, nil
}

// Register creates an account. The backend replies with a message only.
func (cl *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := cl.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/register",
		body:   jsonBody(map[string]string{"name": name, "email": email, "password": password}),
		public: true,
		raw:    true,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}

// Logout revokes the token on the backend. The caller clears the session
// whatever the outcome.
func (cl *Client) Logout(ctx context.Context) error {
	return cl.do(ctx, call{method: http.MethodPost, path: "/api/logout", body: jsonBody(struct{}{})}, nil)
}

// Profile fetches the signed-in user.
func (cl *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := cl.do(ctx, call{method: http.MethodGet, path: "/api/profile"}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile renames the signed-in user.
func (cl *Client) UpdateProfile(ctx context.Context, name string) error {
	return cl.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/profile/update",
		body:   jsonBody(map[string]string{"name": name}),
	}, nil)
}
