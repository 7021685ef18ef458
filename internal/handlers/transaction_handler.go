package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/ledger"
	"kaskita/internal/pagination"
	"kaskita/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest is a transaction draft as JSON. Multipart requests send
// the same object in the "draft" field plus an optional "image" file.
type TransactionRequest struct {
	ledger.Draft
	RemoveImage bool `json:"remove_image,omitempty"`
}

// ListTransactions returns the transactions of the displayed period
// @Summary     List transactions
// @Description Transactions of the displayed period, newest first, paged in memory
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int  false "Page number"
// @Param       page_size query int  false "Page size"
// @Param       refresh   query bool false "Bypass the cached snapshot"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	txs, err := h.transactionService.ListTransactions(c.Request.Context(), wantsRefresh(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.Slice(txs, page))
}

// Daily returns the displayed period grouped by day
// @Summary     Daily view
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       refresh query bool false "Bypass the cached snapshot"
// @Success     200 {object} views.DailyView "Transactions grouped by day"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /transactions/daily [get]
func (h *TransactionHandler) Daily(c *gin.Context) {
	v, err := h.transactionService.Daily(c.Request.Context(), wantsRefresh(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// GetTransaction returns one transaction of the displayed period
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// GetEditDraft returns a transaction as form input for the edit screen
// @Summary     Get edit form
// @Description Prefill values for editing. A saving movement whose direction is unknown comes back without reference_type.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} ledger.Draft "Form values"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     422 {object} ErrorResponse "Transaction type cannot be edited"
// @Router      /transactions/{id}/draft [get]
func (h *TransactionHandler) GetEditDraft(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	draft, err := h.transactionService.EditDraft(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// CreateTransaction records a new transaction
// @Summary     Create a transaction
// @Description Accepts JSON, or multipart with a "draft" JSON field and an optional "image" file
// @Tags        transactions
// @Accept      json,mpfd
// @Produce     json
// @Security    BearerAuth
// @Param       request body TransactionRequest true "Transaction draft"
// @Success     201 {object} services.TransactionResult "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     422 {object} ErrorResponse "Missing field or invalid amount"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	req, img, err := decodeTransactionRequest(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.CreateTransaction(c.Request.Context(), req.Draft, img)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// UpdateTransaction edits a transaction
// @Summary     Update a transaction
// @Description Accepts JSON, or multipart with a "draft" JSON field and an optional "image" file. The type cannot change.
// @Tags        transactions
// @Accept      json,mpfd
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Transaction ID"
// @Param       request body TransactionRequest true "Transaction draft"
// @Success     200 {object} services.TransactionResult "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     422 {object} ErrorResponse "Type change rejected"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	req, img, err := decodeTransactionRequest(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.UpdateTransaction(c.Request.Context(), id, services.EditRequest{
		Draft:       req.Draft,
		Image:       img,
		RemoveImage: req.RemoveImage,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteTransaction deletes a transaction
// @Summary     Delete a transaction
// @Tags        transactions
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.transactionService.DeleteTransaction(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateByVoice submits a voice note for the backend to transcribe
// @Summary     Create a transaction from voice
// @Tags        transactions
// @Accept      mpfd
// @Produce     json
// @Security    BearerAuth
// @Param       audio formData file true "Recorded audio"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     422 {object} ErrorResponse "Missing audio"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /transactions/voice [post]
func (h *TransactionHandler) CreateByVoice(c *gin.Context) {
	audio, err := readFormFile(c, "audio")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if audio == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrMissingField, "audio is required"))
		return
	}

	tx, err := h.transactionService.CreateByVoice(c.Request.Context(), audio.Filename, audio.ContentType, audio.Data)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// RetryPendingImages re-uploads queued attachments
// @Summary     Retry pending images
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.RetryReport "Retry outcome"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions/images/retry [post]
func (h *TransactionHandler) RetryPendingImages(c *gin.Context) {
	report, err := h.transactionService.RetryPendingImages(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// decodeTransactionRequest reads a draft from JSON or multipart. Field checks
// are left to Draft.Build so an incomplete draft reports MISSING_FIELD.
func decodeTransactionRequest(c *gin.Context) (TransactionRequest, *services.ImageUpload, error) {
	var req TransactionRequest
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
			return req, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		return req, nil, nil
	}

	raw := c.PostForm("draft")
	if raw == "" {
		return req, nil, apperrors.WithMessage(apperrors.ErrMissingField, "draft is required")
	}
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return req, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	if v := c.PostForm("remove_image"); v != "" {
		remove, err := strconv.ParseBool(v)
		if err != nil {
			return req, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "remove_image must be a boolean")
		}
		req.RemoveImage = remove
	}

	file, err := readFormFile(c, "image")
	if err != nil || file == nil {
		return req, nil, err
	}
	return req, &services.ImageUpload{Filename: file.Filename, Data: file.Data}, nil
}
