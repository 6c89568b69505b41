package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/fingestao/fingestao-api/services"
)

func monthlyRequest(t *testing.T, query string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	h := &ReportHandler{Reports: services.NewReportService(nil)}
	router.GET("/reports/monthly", h.Monthly)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/monthly"+query, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestMonthlyRequiresMonthAndYear(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, monthlyRequest(t, "").Code)
	assert.Equal(t, http.StatusBadRequest, monthlyRequest(t, "?month=6").Code)
	assert.Equal(t, http.StatusBadRequest, monthlyRequest(t, "?year=2024").Code)
}

func TestMonthlyRejectsOutOfRangeParams(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, monthlyRequest(t, "?month=13&year=2024").Code)
	assert.Equal(t, http.StatusBadRequest, monthlyRequest(t, "?month=0&year=2024").Code)
	assert.Equal(t, http.StatusBadRequest, monthlyRequest(t, "?month=6&year=1999").Code)
	assert.Equal(t, http.StatusBadRequest, monthlyRequest(t, "?month=6&year=2101").Code)
	assert.Equal(t, http.StatusBadRequest, monthlyRequest(t, "?month=abc&year=2024").Code)
}

func TestStartOfDayTruncatesTime(t *testing.T) {
	loc := services.ReferenceLocation()
	instant := time.Date(2024, 6, 15, 17, 42, 9, 0, loc)

	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, loc), startOfDay(instant, loc))
	assert.Equal(t, startOfDay(instant, loc), startOfDay(startOfDay(instant, loc), loc))
}
