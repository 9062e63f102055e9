package handlers

import (
	"errors"
	"net/http"

	"battery-arbitrage/internal/api/models"
	"battery-arbitrage/internal/backtest"
	"battery-arbitrage/internal/data"
	"battery-arbitrage/internal/model"
	"battery-arbitrage/internal/session"

	"github.com/gin-gonic/gin"
)

// Error codes not owned by the loader.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInvalidConfig  = "INVALID_CONFIG"
	CodeNoDataset      = "NO_DATASET"
	CodeAnalysisError  = "ANALYSIS_ERROR"
	CodeInternalError  = "INTERNAL_ERROR"
)

func abortWithError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// writeError maps core errors onto HTTP responses.
func writeError(c *gin.Context, err error) {
	var (
		loadErr     *data.LoadError
		analysisErr *backtest.AnalysisError
	)
	switch {
	case errors.As(err, &loadErr):
		var details map[string]interface{}
		if loadErr.Row > 0 {
			details = map[string]interface{}{"row": loadErr.Row}
		}
		status := http.StatusBadRequest
		if loadErr.Code == data.CodeFileTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		abortWithError(c, status, loadErr.Code, loadErr.Error(), details)
	case errors.Is(err, session.ErrNoDataset):
		abortWithError(c, http.StatusBadRequest, CodeNoDataset, err.Error(), nil)
	case errors.As(err, &analysisErr):
		details := map[string]interface{}{"stage": analysisErr.Stage}
		if !analysisErr.Date.IsZero() {
			details["date"] = analysisErr.Date.Format(model.DateLayout)
		}
		abortWithError(c, http.StatusInternalServerError, CodeAnalysisError, err.Error(), details)
	case errors.Is(err, model.ErrInvalidParams):
		abortWithError(c, http.StatusBadRequest, CodeInvalidConfig, err.Error(), nil)
	default:
		abortWithError(c, http.StatusInternalServerError, CodeInternalError, err.Error(), nil)
	}
}
