package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"battery-arbitrage/internal/analysis"
	"battery-arbitrage/internal/api/models"
	"battery-arbitrage/internal/data"
	"battery-arbitrage/internal/session"

	"github.com/gin-gonic/gin"
)

// BestDaysLimit is how many top days the analyze response carries.
const BestDaysLimit = 5

// multipartSlack covers form boundaries and part headers on top of the file cap.
const multipartSlack = 64 << 10

// AnalysisHandler exposes the session's upload and analyze operations.
type AnalysisHandler struct {
	session  *session.Session
	maxBytes int64
}

func NewAnalysisHandler(s *session.Session, maxUploadBytes int64) *AnalysisHandler {
	return &AnalysisHandler{session: s, maxBytes: maxUploadBytes}
}

// Upload handles POST /api/upload (multipart field "file").
func (h *AnalysisHandler) Upload(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartSlack)
	}
	fh, err := c.FormFile("file")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(c, &data.LoadError{
			Code:    data.CodeFileTooLarge,
			Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		})
		return
	}
	if err != nil {
		abortWithError(c, http.StatusBadRequest, CodeInvalidRequest, "no file provided in form field \"file\"", nil)
		return
	}
	if fh.Filename == "" {
		abortWithError(c, http.StatusBadRequest, CodeInvalidRequest, "no file selected", nil)
		return
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		writeError(c, &data.LoadError{
			Code:    data.CodeFileTooLarge,
			Message: fmt.Sprintf("file is %d bytes, limit is %d", fh.Size, h.maxBytes),
		})
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, &data.LoadError{Code: data.CodeUnreadableFile, Message: "cannot open upload", Err: err})
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		writeError(c, &data.LoadError{Code: data.CodeUnreadableFile, Message: "cannot read upload", Err: err})
		return
	}

	ds, err := h.session.Upload(raw, fh.Filename)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		Message: "file uploaded successfully",
		Dataset: models.NewDatasetInfo(ds, analysis.ComputePriceStats(ds)),
	})
}

// Analyze handles POST /api/analyze
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
		return
	}

	res, err := h.session.Analyze(req.Capacity, req.Price)
	if err != nil {
		writeError(c, err)
		return
	}

	best := analysis.TopDays(res.Daily, BestDaysLimit)
	c.JSON(http.StatusOK, models.NewAnalyzeResponse(res, best))
}

// DatasetInfo handles GET /api/dataset
func (h *AnalysisHandler) DatasetInfo(c *gin.Context) {
	ds, err := h.session.Current()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewDatasetInfo(ds, analysis.ComputePriceStats(ds)))
}
