package client

import (
	"context"
	"net/http"
	"net/url"

	"kaskita/internal/ledger"
	"kaskita/internal/models"
	"kaskita/internal/period"
)

// ListTransactions fetches the transactions of a period.
func (cl *Client) ListTransactions(ctx context.Context, p period.Period) ([]models.Transaction, error) {
	q := url.Values{}
	q.Set("month", p.MonthParam())
	q.Set("year", p.YearParam())

	var out []models.Transaction
	if err := cl.do(ctx, call{method: http.MethodGet, path: "/api/transactions", query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTransaction submits a new transaction as multipart form data.
func (cl *Client) CreateTransaction(ctx context.Context, form ledger.Form) (*models.Transaction, error) {
	var out models.Transaction
	if err := cl.do(ctx, call{method: http.MethodPost, path: "/api/transactions", body: multipartBody(form, nil)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTransaction resubmits the full form of an existing transaction.
func (cl *Client) UpdateTransaction(ctx context.Context, id models.ID, form ledger.Form) (*models.Transaction, error) {
	var out models.Transaction
	if err := cl.do(ctx, call{method: http.MethodPost, path: "/api/transactions/" + escape(id), body: multipartBody(form, nil)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTransaction deletes a transaction. The backend recomputes balances.
func (cl *Client) DeleteTransaction(ctx context.Context, id models.ID) error {
	return cl.do(ctx, call{method: http.MethodDelete, path: "/api/transactions/" + escape(id)}, nil)
}

// MonthlySummary fetches income and expense per month of a year.
func (cl *Client) MonthlySummary(ctx context.Context, year string) ([]models.MonthlySummary, error) {
	q := url.Values{}
	q.Set("year", year)

	var out []models.MonthlySummary
	if err := cl.do(ctx, call{method: http.MethodGet, path: "/api/transactions/monthly-summary", query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateByVoice uploads an audio clip; the backend transcribes it and
// creates the transaction. The returned record may be empty when the
// backend replies with a message only.
func (cl *Client) CreateByVoice(ctx context.Context, filename, contentType string, audio []byte) (*models.Transaction, error) {
	if contentType == "" {
		contentType = "audio/m4a"
	}
	file := &filePart{field: "voice", filename: filename, contentType: contentType, data: audio}

	var out models.Transaction
	if err := cl.do(ctx, call{method: http.MethodPost, path: "/api/transactions/create-by-voice", body: multipartBody(nil, file)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadImage associates an image with a record of the given table.
func (cl *Client) UploadImage(ctx context.Context, table string, tableID models.ID, filename string, data []byte) (*models.Image, error) {
	form := ledger.Form{
		{Name: "table_name", Value: table},
		{Name: "table_id", Value: tableID.String()},
	}
	file := &filePart{field: "file", filename: filename, contentType: "image/jpeg", data: data}

	var out models.Image
	if err := cl.do(ctx, call{method: http.MethodPost, path: "/api/images/add", body: multipartBody(form, file)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteImage removes an image from the remote store by its stored path.
func (cl *Client) DeleteImage(ctx context.Context, path string) error {
	return cl.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/images/delete",
		body:   jsonBody(map[string]string{"path": path}),
	}, nil)
}
