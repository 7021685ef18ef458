package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/logger"
	"kaskita/internal/models"
)

// maxUploadBytes caps a single multipart file read into memory.
const maxUploadBytes = 20 << 20

// parseID reads a non-empty record id from the named path parameter.
//
//nolint:unparam // param is generic for reuse across handlers with different path params
func parseID(c *gin.Context, param string) (models.ID, error) {
	raw := strings.TrimSpace(c.Param(param))
	if raw == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return models.ID(raw), nil
}

// wantsRefresh reports whether the caller asked to bypass the snapshot with
// ?refresh=true.
func wantsRefresh(c *gin.Context) bool {
	v, err := strconv.ParseBool(c.DefaultQuery("refresh", "false"))
	return err == nil && v
}

// formFile is an uploaded multipart file held in memory.
type formFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// readFormFile returns the named multipart file, or nil when the request
// carries none.
func readFormFile(c *gin.Context, field string) (*formFile, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, multipart.ErrMessageTooLarge) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, field+" is too large")
		}
		return nil, nil
	}
	if fh.Size > maxUploadBytes {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, field+" is too large")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}
	return &formFile{Filename: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data}, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}
