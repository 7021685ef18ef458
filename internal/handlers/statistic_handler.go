package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/models"
	"kaskita/internal/period"
	"kaskita/internal/services"
	"kaskita/internal/validator"
)

// StatisticHandler serves the aggregation screens.
type StatisticHandler struct {
	statisticService services.StatisticServicer
	overviewService  services.OverviewServicer
	periodService    services.PeriodServicer
}

// NewStatisticHandler creates a new StatisticHandler.
func NewStatisticHandler(statisticService services.StatisticServicer, overviewService services.OverviewServicer, periodService services.PeriodServicer) *StatisticHandler {
	return &StatisticHandler{statisticService: statisticService, overviewService: overviewService, periodService: periodService}
}

// Monthly returns income and expense per month of a year
// @Summary     Monthly summary
// @Description Without year the year of the displayed period is used.
// @Tags        statistics
// @Produce     json
// @Security    BearerAuth
// @Param       year    query int  false "Year"
// @Param       refresh query bool false "Bypass the cached snapshot"
// @Success     200 {object} views.MonthlyView "Monthly rows and totals"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /statistics/monthly [get]
func (h *StatisticHandler) Monthly(c *gin.Context) {
	var year int
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidPeriod, "Invalid year"))
			return
		}
		year = y
	} else {
		p, err := h.periodService.Current(c.Request.Context())
		if err != nil {
			respondWithError(c, err)
			return
		}
		year = p.Year
	}

	v, err := h.statisticService.Monthly(c.Request.Context(), year, wantsRefresh(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// BreakdownQuery selects the breakdown type and chart mode. Values are
// upper-cased before validation.
type BreakdownQuery struct {
	Type models.CategoryType `form:"type" binding:"required,category_type"`
	Mode period.ChartMode    `form:"mode" binding:"required,chart_mode"`
}

// Breakdown returns the per-category split of income or expenses
// @Summary     Category breakdown
// @Tags        statistics
// @Produce     json
// @Security    BearerAuth
// @Param       type    query string true  "INCOME or EXPENSES"
// @Param       mode    query string false "MONTHLY (default) or YEARLY"
// @Param       refresh query bool   false "Bypass the cached snapshot"
// @Success     200 {object} views.BreakdownView "Breakdown"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /statistics/breakdown [get]
func (h *StatisticHandler) Breakdown(c *gin.Context) {
	q := BreakdownQuery{
		Type: models.CategoryType(strings.ToUpper(c.Query("type"))),
		Mode: period.ChartMode(strings.ToUpper(c.DefaultQuery("mode", string(period.ChartMonthly)))),
	}
	if err := validator.Struct(q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	v, err := h.statisticService.Breakdown(c.Request.Context(), q.Type, q.Mode, wantsRefresh(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Budgeting returns budget against spending for the displayed period
// @Summary     Budgeting
// @Tags        statistics
// @Produce     json
// @Security    BearerAuth
// @Param       refresh query bool false "Bypass the cached snapshot"
// @Success     200 {object} views.BudgetingView "Budget usage"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /statistics/budgeting [get]
func (h *StatisticHandler) Budgeting(c *gin.Context) {
	v, err := h.statisticService.Budgeting(c.Request.Context(), wantsRefresh(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Overview returns the headline balances
// @Summary     Overview
// @Description Total balance, total saved and total owed. Fails if any of the three lists cannot be loaded.
// @Tags        statistics
// @Produce     json
// @Security    BearerAuth
// @Param       refresh query bool false "Bypass the cached snapshot"
// @Success     200 {object} projection.Overview "Headline balances"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /overview [get]
func (h *StatisticHandler) Overview(c *gin.Context) {
	o, err := h.overviewService.Overview(c.Request.Context(), wantsRefresh(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
