package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kaskita/internal/budget"
	apperrors "kaskita/internal/errors"
	"kaskita/internal/period"
	"kaskita/internal/services"
)

// BudgetHandler handles category budget requests.
type BudgetHandler struct {
	categoryService services.CategoryServicer
	periodService   services.PeriodServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(categoryService services.CategoryServicer, periodService services.PeriodServicer) *BudgetHandler {
	return &BudgetHandler{categoryService: categoryService, periodService: periodService}
}

// SaveBudget creates or updates a budget record.
// @Summary     Save a budget
// @Description Create a budget record, or update it when id is set. A global record applies to every month without an override.
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body budget.Input true "Budget details"
// @Success     200 {object} models.TransactionCategory "Category with its budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     422 {object} ErrorResponse "Missing field"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /budgets [post]
func (h *BudgetHandler) SaveBudget(c *gin.Context) {
	var req budget.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.SaveBudget(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// ResolveBudget returns the effective budget of a category for one period.
// @Summary     Resolve a budget
// @Description Without month and year the displayed period is used.
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true  "Category ID"
// @Param       month query int    false "Month (1-12)"
// @Param       year  query int    false "Year"
// @Success     200 {object} budget.Resolved "Effective budget"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /categories/{id}/budget [get]
func (h *BudgetHandler) ResolveBudget(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var p period.Period
	if c.Query("month") == "" && c.Query("year") == "" {
		p, err = h.periodService.Current(c.Request.Context())
		if err != nil {
			respondWithError(c, err)
			return
		}
	} else {
		month, mErr := strconv.Atoi(c.Query("month"))
		year, yErr := strconv.Atoi(c.Query("year"))
		if mErr != nil || yErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidPeriod, "month and year must both be numbers"))
			return
		}
		p, err = period.New(month, year)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidPeriod, err.Error()))
			return
		}
	}

	resolved, err := h.categoryService.ResolveBudget(c.Request.Context(), id, p)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": toPeriodResponse(p), "budget": resolved})
}

// YearGrid returns the twelve monthly budgets of a category.
// @Summary     Budget year grid
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id   path string true "Category ID"
// @Param       year path int    true "Year"
// @Success     200 {array} budget.MonthBudget "Twelve months"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /categories/{id}/budgets/{year} [get]
func (h *BudgetHandler) YearGrid(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidPeriod, "Invalid year"))
		return
	}

	grid, err := h.categoryService.YearGrid(c.Request.Context(), id, year)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": grid})
}
