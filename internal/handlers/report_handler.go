package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/loanbook/loanbook-api/internal/config"
	"github.com/loanbook/loanbook-api/internal/services"
	"github.com/loanbook/loanbook-api/internal/store"
)

type ReportHandler struct {
	reportService *services.ReportService
	exportService *services.ExportService
	walletService *services.WalletService
	store         *store.Store
	cfg           *config.Config
}

func NewReportHandler(reportService *services.ReportService, exportService *services.ExportService, walletService *services.WalletService, st *store.Store, cfg *config.Config) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		exportService: exportService,
		walletService: walletService,
		store:         st,
		cfg:           cfg,
	}
}

// @Summary Dashboard
// @Description Get headline counters, the financial overview and the last six monthly buckets
// @Tags Reports
// @Produce json
// @Param month query string false "Restrict overview to one month (YYYY-MM)"
// @Success 200 {object} map[string]interface{}
// @Router /dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	loans := h.store.Loans()
	now := time.Now()

	c.JSON(http.StatusOK, gin.H{
		"stats":    h.reportService.DashboardStats(loans, now),
		"overview": h.reportService.Overview(loans, c.Query("month"), h.cfg.CurrencySymbol),
		"monthly":  h.reportService.LastSixMonths(loans, now),
	})
}

// @Summary Monthly Buckets
// @Description Get disbursed vs collected totals for every month with activity
// @Tags Reports
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /reports/monthly [get]
func (h *ReportHandler) Monthly(c *gin.Context) {
	buckets := h.reportService.MonthlyBuckets(h.store.Loans())
	c.JSON(http.StatusOK, gin.H{"monthly": buckets})
}

// @Summary Employee Incentives
// @Description Get per-employee monthly incentive rows (2% of collections)
// @Tags Reports
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /reports/incentives [get]
func (h *ReportHandler) Incentives(c *gin.Context) {
	rows := h.reportService.EmployeeIncentives(h.store.Loans())
	c.JSON(http.StatusOK, gin.H{"incentives": rows})
}

// @Summary Export Incentives CSV
// @Description Download employee incentive rows as a CSV file
// @Tags Reports
// @Produce text/csv
// @Success 200 {file} file
// @Router /reports/incentives/export [get]
func (h *ReportHandler) ExportIncentivesCSV(c *gin.Context) {
	rows := h.reportService.EmployeeIncentives(h.store.Loans())
	data, filename, err := h.exportService.IncentivesCSV(rows)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// @Summary Export Overview XLSX
// @Description Download the dashboard overview as an Excel workbook
// @Tags Reports
// @Produce application/octet-stream
// @Param month query string false "Restrict overview to one month (YYYY-MM)"
// @Success 200 {file} file
// @Router /reports/export [get]
func (h *ReportHandler) ExportOverviewXLSX(c *gin.Context) {
	loans := h.store.Loans()
	now := time.Now()

	stats := h.reportService.DashboardStats(loans, now)
	overview := h.reportService.Overview(loans, c.Query("month"), h.cfg.CurrencySymbol)
	buckets := h.reportService.MonthlyBuckets(loans)

	data, filename, err := h.exportService.OverviewXLSX(stats, overview, buckets)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/octet-stream", data)
}
