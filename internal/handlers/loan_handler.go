package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/models"
	"kaskita/internal/projection"
	"kaskita/internal/services"
)

// LoanHandler handles loan requests.
type LoanHandler struct {
	loanService services.LoanServicer
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loanService services.LoanServicer) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// ListLoans returns every loan with its repayment progress
// @Summary     List loans
// @Tags        loans
// @Produce     json
// @Security    BearerAuth
// @Param       refresh query bool false "Bypass the cached snapshot"
// @Success     200 {array} projection.LoanProgress "Loans"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /loans [get]
func (h *LoanHandler) ListLoans(c *gin.Context) {
	loans, err := h.loanService.ListLoans(c.Request.Context(), wantsRefresh(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	if loans == nil {
		loans = []projection.LoanProgress{}
	}
	c.JSON(http.StatusOK, gin.H{"loans": loans})
}

// CreateLoan creates a loan
// @Summary     Create a loan
// @Tags        loans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body models.LoanInput true "Loan details"
// @Success     201 {object} projection.LoanProgress "Loan created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     422 {object} ErrorResponse "Invalid amount"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /loans [post]
func (h *LoanHandler) CreateLoan(c *gin.Context) {
	var req models.LoanInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	loan, err := h.loanService.CreateLoan(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"loan": loan})
}

// UpdateLoan updates a loan
// @Summary     Update a loan
// @Tags        loans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true "Loan ID"
// @Param       request body models.LoanInput true "Loan details"
// @Success     200 {object} projection.LoanProgress "Loan updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /loans/{id} [put]
func (h *LoanHandler) UpdateLoan(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req models.LoanInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	loan, err := h.loanService.UpdateLoan(c.Request.Context(), id, req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

// DeleteLoan deletes a loan
// @Summary     Delete a loan
// @Tags        loans
// @Security    BearerAuth
// @Param       id path string true "Loan ID"
// @Success     204 "Loan deleted"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /loans/{id} [delete]
func (h *LoanHandler) DeleteLoan(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.loanService.DeleteLoan(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
