package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fingestao/fingestao-api/middleware"
	"github.com/fingestao/fingestao-api/services"
)

type ReportHandler struct {
	Reports *services.ReportService
}

func (h *ReportHandler) Monthly(c *gin.Context) {
	userID := middleware.GetUserID(c)

	monthParam := c.Query("month")
	yearParam := c.Query("year")
	if monthParam == "" || yearParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mês e ano são obrigatórios"})
		return
	}
	month, err := strconv.Atoi(monthParam)
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mês inválido"})
		return
	}
	year, err := strconv.Atoi(yearParam)
	if err != nil || year < 2000 || year > 2100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ano inválido"})
		return
	}

	report, err := h.Reports.Monthly(c.Request.Context(), userID, month, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao gerar relatório"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	userID := middleware.GetUserID(c)
	loc := h.Reports.Location()

	var start, end *time.Time
	if v := c.Query("start_date"); v != "" {
		parsed, err := parseDateQuery(v, false, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Data inicial inválida"})
			return
		}
		start = &parsed
	}
	if v := c.Query("end_date"); v != "" {
		parsed, err := parseDateQuery(v, true, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Data final inválida"})
			return
		}
		end = &parsed
	}

	dashboard, err := h.Reports.Dashboard(c.Request.Context(), userID, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao gerar dashboard"})
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// Export streams the user's transactions in the requested range as a CSV
// download. Defaults to the trailing 30 days.
func (h *ReportHandler) Export(c *gin.Context) {
	userID := middleware.GetUserID(c)
	loc := h.Reports.Location()
	now := time.Now().In(loc)

	// Default start is midnight of day -30, not the current time of day, so
	// boundary-day transactions are included whole.
	start := startOfDay(now.AddDate(0, 0, -30), loc)
	end := now
	if v := c.Query("start_date"); v != "" {
		parsed, err := parseDateQuery(v, false, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Data inicial inválida"})
			return
		}
		start = parsed
	}
	if v := c.Query("end_date"); v != "" {
		parsed, err := parseDateQuery(v, true, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Data final inválida"})
			return
		}
		end = parsed
	}

	txs, categories, err := h.Reports.TransactionsForExport(c.Request.Context(), userID, start, end, c.Query("type"), c.Query("category_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao exportar transações"})
		return
	}

	data, err := services.BuildTransactionsCSV(txs, categories, loc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao exportar transações"})
		return
	}

	filename := fmt.Sprintf("transacoes_%s_ate_%s.csv",
		start.In(loc).Format("2006-01-02"), end.In(loc).Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
