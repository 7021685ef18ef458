package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/models"
	"kaskita/internal/money"
	"kaskita/internal/projection"
	"kaskita/internal/services"
)

// SavingHandler handles saving goal requests.
type SavingHandler struct {
	savingService services.SavingServicer
}

// NewSavingHandler creates a new SavingHandler.
func NewSavingHandler(savingService services.SavingServicer) *SavingHandler {
	return &SavingHandler{savingService: savingService}
}

// ListSavings returns every saving goal with its progress
// @Summary     List savings
// @Tags        savings
// @Produce     json
// @Security    BearerAuth
// @Param       refresh query bool false "Bypass the cached snapshot"
// @Success     200 {array} projection.SavingProgress "Savings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /savings [get]
func (h *SavingHandler) ListSavings(c *gin.Context) {
	savings, err := h.savingService.ListSavings(c.Request.Context(), wantsRefresh(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	if savings == nil {
		savings = []projection.SavingProgress{}
	}
	var saved money.Amount
	for _, s := range savings {
		saved += s.CurrentAmount
	}
	c.JSON(http.StatusOK, gin.H{
		"savings":       savings,
		"total_saved":   saved,
		"display_saved": money.FormatIDR(saved.Int64()),
	})
}

// CreateSaving creates a saving goal
// @Summary     Create a saving
// @Tags        savings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body models.SavingInput true "Saving details"
// @Success     201 {object} projection.SavingProgress "Saving created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     422 {object} ErrorResponse "Invalid amount"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /savings [post]
func (h *SavingHandler) CreateSaving(c *gin.Context) {
	var req models.SavingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	saving, err := h.savingService.CreateSaving(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"saving": saving})
}

// UpdateSaving updates a saving goal
// @Summary     Update a saving
// @Tags        savings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Saving ID"
// @Param       request body models.SavingInput true "Saving details"
// @Success     200 {object} projection.SavingProgress "Saving updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /savings/{id} [put]
func (h *SavingHandler) UpdateSaving(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req models.SavingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	saving, err := h.savingService.UpdateSaving(c.Request.Context(), id, req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saving": saving})
}

// DeleteSaving deletes a saving goal
// @Summary     Delete a saving
// @Tags        savings
// @Security    BearerAuth
// @Param       id path string true "Saving ID"
// @Success     204 "Saving deleted"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /savings/{id} [delete]
func (h *SavingHandler) DeleteSaving(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.savingService.DeleteSaving(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
