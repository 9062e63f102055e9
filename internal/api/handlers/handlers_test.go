package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"battery-arbitrage/internal/api/models"
	"battery-arbitrage/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pricesCSV = `Date Time,EUR per kWh
01/06/2024 10:00,0.10
01/06/2024 14:00,0.50
01/06/2024 18:00,0.05
01/06/2024 22:00,0.30
02/06/2024 08:00,0.40
02/06/2024 20:00,0.10
`

var testNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(&bytes.Buffer{})
	return l
}

func newRouter(t *testing.T, maxBytes int64) *gin.Engine {
	t.Helper()
	s := session.New(session.Options{
		MaxUploadBytes: maxBytes,
		Logger:         quietLogger(),
		Now:            func() time.Time { return testNow },
	})
	h := NewAnalysisHandler(s, maxBytes)

	r := gin.New()
	r.GET("/health", Health)
	r.POST("/api/upload", h.Upload)
	r.POST("/api/analyze", h.Analyze)
	r.GET("/api/dataset", h.DatasetInfo)
	return r
}

func uploadRequest(t *testing.T, filename, body string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func analyzeRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorDetail {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestHealth(t *testing.T) {
	w := serve(newRouter(t, 1<<20), httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.False(t, body.Timestamp.IsZero())
}

func TestAnalyzeWithoutDataset(t *testing.T) {
	w := serve(newRouter(t, 1<<20), analyzeRequest(`{"capacity":10,"price":1000}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeNoDataset, decodeError(t, w).Code)

	w = serve(newRouter(t, 1<<20), httptest.NewRequest(http.MethodGet, "/api/dataset", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeNoDataset, decodeError(t, w).Code)
}

func TestUploadAndAnalyze(t *testing.T) {
	r := newRouter(t, 1<<20)

	w := serve(r, uploadRequest(t, "prices.csv", pricesCSV))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var up models.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &up))
	assert.Equal(t, "prices.csv", up.Dataset.Source)
	assert.Equal(t, 6, up.Dataset.RecordCount)
	assert.Equal(t, 2, up.Dataset.DayCount)
	require.NotNil(t, up.Dataset.Prices)
	assert.Equal(t, 0.05, up.Dataset.Prices.Min)
	assert.Equal(t, 0.5, up.Dataset.Prices.Max)

	w = serve(r, analyzeRequest(`{"capacity":2,"price":100}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res models.AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	require.Len(t, res.Daily, 2)
	assert.Equal(t, "2024-06-01", res.Daily[0].Date)
	assert.Equal(t, 0.5, res.Daily[0].Profit)
	assert.Equal(t, 1, res.Daily[0].Transactions)
	require.Len(t, res.Daily[0].Opportunities, 1)
	opp := res.Daily[0].Opportunities[0]
	assert.Equal(t, "18:00", opp.BuyTime)
	assert.Equal(t, 0.05, opp.BuyPrice)
	assert.Equal(t, "22:00", opp.SellTime)
	assert.Equal(t, 0.3, opp.SellPrice)

	assert.Equal(t, 0.0, res.Daily[1].Profit)
	assert.Empty(t, res.Daily[1].Opportunities)

	require.Len(t, res.Monthly, 1)
	assert.Equal(t, "2024-06", res.Monthly[0].Month)
	assert.Equal(t, 2, res.Monthly[0].TradingDays)

	assert.Equal(t, 0.5, res.Yearly.TotalProfit)
	assert.Equal(t, 0.5, res.Yearly.AnnualReturnPercentage)
	assert.False(t, res.Yearly.ROIUnbounded)
	require.NotNil(t, res.Yearly.ROIYears)
	assert.Equal(t, 200.0, *res.Yearly.ROIYears)
	require.NotNil(t, res.Yearly.BreakevenDate)
	assert.Equal(t, testNow.AddDate(0, 0, 73000).Format("2006-01-02"), *res.Yearly.BreakevenDate)

	require.Len(t, res.BestDays, 2)
	assert.Equal(t, "2024-06-01", res.BestDays[0].Date)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/dataset", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var info models.DatasetInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, up.Dataset.ID, info.ID)
}

func TestAnalyzeUnboundedROI(t *testing.T) {
	r := newRouter(t, 1<<20)
	falling := "Date Time,EUR per kWh\n01/06/2024 08:00,0.40\n01/06/2024 20:00,0.10\n"
	require.Equal(t, http.StatusOK, serve(r, uploadRequest(t, "falling.csv", falling)).Code)

	w := serve(r, analyzeRequest(`{"capacity":10,"price":1000}`))
	require.Equal(t, http.StatusOK, w.Code)

	var raw struct {
		Yearly map[string]any `json:"yearly"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	yearly := raw.Yearly
	assert.Nil(t, yearly["roi_years"])
	assert.Nil(t, yearly["breakeven_date"])
	assert.Equal(t, true, yearly["roi_unbounded"])
	assert.Equal(t, 0.0, yearly["total_profit"])
}

func TestAnalyzeInvalidParams(t *testing.T) {
	r := newRouter(t, 1<<20)
	require.Equal(t, http.StatusOK, serve(r, uploadRequest(t, "prices.csv", pricesCSV)).Code)

	for _, body := range []string{
		`{"capacity":0,"price":1000}`,
		`{"capacity":-5,"price":1000}`,
		`{"capacity":10,"price":0}`,
		`{"capacity":10}`,
	} {
		w := serve(r, analyzeRequest(body))
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, CodeInvalidConfig, decodeError(t, w).Code, body)
	}

	w := serve(r, analyzeRequest(`{"capacity":"ten"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidRequest, decodeError(t, w).Code)
}

func TestUploadMissingColumnKeepsDataset(t *testing.T) {
	r := newRouter(t, 1<<20)
	require.Equal(t, http.StatusOK, serve(r, uploadRequest(t, "prices.csv", pricesCSV)).Code)

	w := serve(r, uploadRequest(t, "bad.csv", "When,Price\n01/06/2024 10:00,0.1\n"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_COLUMN", decodeError(t, w).Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/dataset", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var info models.DatasetInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "prices.csv", info.Source)
}

func TestUploadBadTimestampReportsRow(t *testing.T) {
	r := newRouter(t, 1<<20)
	w := serve(r, uploadRequest(t, "bad.csv", "Date Time,EUR per kWh\n01/06/2024 10:00,0.1\nyesterday-ish,0.2\n"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	e := decodeError(t, w)
	assert.Equal(t, "BAD_TIMESTAMP", e.Code)
	assert.Equal(t, float64(3), e.Details["row"])
}

func TestUploadWithoutFile(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(""))
	w := serve(newRouter(t, 1<<20), req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidRequest, decodeError(t, w).Code)
}

func TestUploadTooLarge(t *testing.T) {
	w := serve(newRouter(t, 32), uploadRequest(t, "prices.csv", pricesCSV))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "FILE_TOO_LARGE", decodeError(t, w).Code)
}

func TestUploadBodyCappedBeforeParsing(t *testing.T) {
	big := "Date Time,EUR per kWh\n" + strings.Repeat("01/06/2024 10:00,0.10\n", 8<<10)
	w := serve(newRouter(t, 1024), uploadRequest(t, "big.csv", big))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "FILE_TOO_LARGE", decodeError(t, w).Code)
}

func TestListBatteries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "home.yaml"),
		[]byte("battery:\n  name: Home\n  capacity_kwh: 10\n  price: 5500\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("battery: ["), 0o644))

	r := gin.New()
	r.GET("/api/batteries", NewBatteryHandler(dir, quietLogger()).ListBatteries)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/batteries", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Batteries []models.BatteryInfo `json:"batteries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Batteries, 1)
	assert.Equal(t, "home", body.Batteries[0].ID)
	assert.Equal(t, "Home", body.Batteries[0].Name)
	assert.Equal(t, 10, body.Batteries[0].CapacityKWh)
	assert.Equal(t, 5500.0, body.Batteries[0].Price)
}

func TestListBatteriesMissingDir(t *testing.T) {
	r := gin.New()
	r.GET("/api/batteries", NewBatteryHandler(filepath.Join(t.TempDir(), "none"), quietLogger()).ListBatteries)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/batteries", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"batteries":[]}`, w.Body.String())
}
