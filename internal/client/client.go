// Package client provides an HTTP client for the KasKita REST backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/ledger"
	"kaskita/internal/logger"
	"kaskita/internal/session"
	"kaskita/internal/uuid"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 10 << 20

// messageUnauthenticated is the body message the backend sends for a
// rejected token, whatever the status code.
const messageUnauthenticated = "Unauthenticated."

// APIError is a non-2xx response from the backend.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Client communicates with the KasKita backend on behalf of the session
// holder.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Manager
	log        *zap.SugaredLogger
	refreshMu  sync.Mutex
}

// New creates a backend client. sess supplies and receives bearer tokens.
func New(baseURL string, httpClient *http.Client, sess *session.Manager) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		session:    sess,
		log:        logger.Named("client"),
	}
}

// body builds a fresh request body per attempt so a request can be resent
// after a token refresh.
type body func() (io.Reader, string, error)

func jsonBody(v any) body {
	return func() (io.Reader, string, error) {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("marshaling request: %w", err)
		}
		return bytes.NewReader(raw), "application/json", nil
	}
}

// filePart is a file attached to a multipart request.
type filePart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartBody(fields ledger.Form, file *filePart) body {
	return func() (io.Reader, string, error) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		if err := fields.WriteTo(w); err != nil {
			return nil, "", err
		}
		if file != nil {
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.field, file.filename))
			h.Set("Content-Type", file.contentType)
			part, err := w.CreatePart(h)
			if err != nil {
				return nil, "", fmt.Errorf("creating file part: %w", err)
			}
			if _, err := part.Write(file.data); err != nil {
				return nil, "", fmt.Errorf("writing file part: %w", err)
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", fmt.Errorf("closing multipart body: %w", err)
		}
		return &buf, w.FormDataContentType(), nil
	}
}

// call describes one backend request.
type call struct {
	method string
	path   string
	query  url.Values
	body   body
	// public calls carry no token and never trigger refresh or logout.
	public bool
	// raw responses are decoded whole instead of through the envelope.
	raw bool
}

type response struct {
	status  int
	payload []byte
	message string
}

// do sends c and decodes the response into out. Expired sessions are
// refreshed first; a 401 reporting token expiry is refreshed and retried
// once; any other 401 clears the session.
func (cl *Client) do(ctx context.Context, c call, out any) error {
	if !c.public {
		if err := cl.ensureFresh(ctx); err != nil {
			return err
		}
	}

	token := cl.currentToken(c)
	resp, err := cl.send(ctx, c, token)
	if err != nil {
		return err
	}

	if !c.public && isUnauthenticated(resp) {
		if tokenExpired(resp.message) {
			if err := cl.refresh(ctx, token); err != nil {
				return err
			}
			resp, err = cl.send(ctx, c, cl.currentToken(c))
			if err != nil {
				return err
			}
		}
		if isUnauthenticated(resp) {
			apiErr := cl.apiError(c, resp)
			cl.session.Clear(ctx, "unauthenticated")
			return apperrors.Wrap(apperrors.ErrUnauthenticated, apiErr)
		}
	}

	if resp.status < 200 || resp.status >= 300 {
		return cl.apiError(c, resp)
	}
	if out == nil || len(resp.payload) == 0 {
		return nil
	}
	if c.raw {
		if err := json.Unmarshal(resp.payload, out); err != nil {
			return fmt.Errorf("decoding %s response: %w", c.path, err)
		}
		return nil
	}
	return decodeEnvelope(c.path, resp.payload, out)
}

func (cl *Client) currentToken(c call) string {
	if c.public || cl.session == nil {
		return ""
	}
	token, _ := cl.session.Token()
	return token
}

func (cl *Client) send(ctx context.Context, c call, token string) (*response, error) {
	endpoint := cl.baseURL + c.path
	if len(c.query) > 0 {
		endpoint += "?" + c.query.Encode()
	}

	var (
		reader      io.Reader
		contentType string
	)
	if c.body != nil {
		var err error
		reader, contentType, err = c.body()
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, c.method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := cl.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", c.method, c.path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", c.path, err)
	}
	return &response{status: resp.StatusCode, payload: payload, message: messageOf(payload)}, nil
}

func (cl *Client) apiError(c call, resp *response) *APIError {
	apiErr := &APIError{Method: c.method, Path: c.path, StatusCode: resp.status, Message: resp.message}
	cl.log.Warnw("backend request failed",
		"method", c.method,
		"path", c.path,
		"status", resp.status,
		"message", resp.message,
	)
	return apiErr
}

func decodeEnvelope(path string, payload []byte, out any) error {
	var env struct {
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding %s data: %w", path, err)
	}
	return nil
}

func messageOf(payload []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Message
}

func isUnauthenticated(resp *response) bool {
	return resp.status == http.StatusUnauthorized || resp.message == messageUnauthenticated
}

func tokenExpired(message string) bool {
	return strings.Contains(strings.ToLower(message), "expired")
}
