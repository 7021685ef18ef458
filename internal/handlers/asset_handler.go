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

// AssetHandler handles asset requests.
type AssetHandler struct {
	assetService services.AssetServicer
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetService services.AssetServicer) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// AssetListResponse is the asset list with its total balance.
type AssetListResponse struct {
	Assets       []models.Asset `json:"assets"`
	TotalBalance money.Amount   `json:"total_balance"`
	Display      string         `json:"display"`
}

// ListAssets returns every asset
// @Summary     List assets
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       refresh query bool false "Bypass the cached snapshot"
// @Success     200 {object} AssetListResponse "Assets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /assets [get]
func (h *AssetHandler) ListAssets(c *gin.Context) {
	assets, err := h.assetService.ListAssets(c.Request.Context(), wantsRefresh(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	total := projection.TotalBalance(assets)
	c.JSON(http.StatusOK, AssetListResponse{
		Assets:       assets,
		TotalBalance: total,
		Display:      money.FormatIDR(total.Int64()),
	})
}

// CreateAsset creates an asset
// @Summary     Create an asset
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body models.AssetInput true "Asset details"
// @Success     201 {object} models.Asset "Asset created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req models.AssetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	asset, err := h.assetService.CreateAsset(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

// UpdateAsset updates an asset
// @Summary     Update an asset
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string           true "Asset ID"
// @Param       request body models.AssetInput true "Asset details"
// @Success     200 {object} models.Asset "Asset updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /assets/{id} [put]
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req models.AssetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	asset, err := h.assetService.UpdateAsset(c.Request.Context(), id, req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// DeleteAsset deletes an asset
// @Summary     Delete an asset
// @Tags        assets
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Success     204 "Asset deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /assets/{id} [delete]
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.assetService.DeleteAsset(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListAssetCategories returns the asset categories
// @Summary     List asset categories
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       refresh query bool false "Bypass the cached snapshot"
// @Success     200 {array} models.AssetCategory "Asset categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /asset-categories [get]
func (h *AssetHandler) ListAssetCategories(c *gin.Context) {
	categories, err := h.assetService.ListAssetCategories(c.Request.Context(), wantsRefresh(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	if categories == nil {
		categories = []models.AssetCategory{}
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
