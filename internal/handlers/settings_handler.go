package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/models"
	"kaskita/internal/period"
	"kaskita/internal/services"
)

// SettingsHandler handles user settings and the displayed period.
type SettingsHandler struct {
	settingsService services.SettingsServicer
	periodService   services.PeriodServicer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService services.SettingsServicer, periodService services.PeriodServicer) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, periodService: periodService}
}

// SelectPeriodRequest picks an explicit accounting period.
type SelectPeriodRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required,min=1900,max=9999"`
}

// ShiftPeriodRequest moves the period by a number of months.
type ShiftPeriodRequest struct {
	Months int `json:"months" binding:"required,min=-1200,max=1200"`
}

// PeriodResponse is the displayed period plus its wire form.
type PeriodResponse struct {
	Month time.Month `json:"month"`
	Year  int        `json:"year"`
	Label string     `json:"label"`
}

func toPeriodResponse(p period.Period) PeriodResponse {
	return PeriodResponse{Month: p.Month, Year: p.Year, Label: p.String()}
}

// GetSettings returns the user settings
// @Summary     Get settings
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Param       refresh query bool false "Bypass the cached snapshot"
// @Success     200 {object} models.UserSettings "Settings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context(), wantsRefresh(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings saves the user settings
// @Summary     Update settings
// @Description Save settings. A new closing date moves the displayed period to the one containing today.
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body models.SettingsInput true "Settings"
// @Success     200 {object} models.UserSettings "Saved settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req models.SettingsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// GetPeriod returns the displayed accounting period
// @Summary     Get current period
// @Tags        period
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} PeriodResponse "Period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /period [get]
func (h *SettingsHandler) GetPeriod(c *gin.Context) {
	p, err := h.periodService.Current(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPeriodResponse(p))
}

// SelectPeriod switches to an explicit period
// @Summary     Select period
// @Tags        period
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SelectPeriodRequest true "Month and year"
// @Success     200 {object} PeriodResponse "Selected period"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /period [put]
func (h *SettingsHandler) SelectPeriod(c *gin.Context) {
	var req SelectPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	p, err := period.New(req.Month, req.Year)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidPeriod, err.Error()))
		return
	}
	c.JSON(http.StatusOK, toPeriodResponse(h.periodService.Select(c.Request.Context(), p)))
}

// ShiftPeriod moves the period forward or back
// @Summary     Shift period
// @Tags        period
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ShiftPeriodRequest true "Months to move, negative goes back"
// @Success     200 {object} PeriodResponse "New period"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /period/shift [post]
func (h *SettingsHandler) ShiftPeriod(c *gin.Context) {
	var req ShiftPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	p, err := h.periodService.Shift(c.Request.Context(), req.Months)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPeriodResponse(p))
}

// ResetPeriod returns to the period containing today
// @Summary     Reset period
// @Tags        period
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} PeriodResponse "Current period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /period/reset [post]
func (h *SettingsHandler) ResetPeriod(c *gin.Context) {
	p, err := h.periodService.Reset(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPeriodResponse(p))
}
