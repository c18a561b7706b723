package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/loanbook/loanbook-api/internal/services"
	"github.com/loanbook/loanbook-api/internal/store"
)

type BorrowerHandler struct {
	reportService *services.ReportService
	exportService *services.ExportService
	store         *store.Store
}

func NewBorrowerHandler(reportService *services.ReportService, exportService *services.ExportService, st *store.Store) *BorrowerHandler {
	return &BorrowerHandler{reportService: reportService, exportService: exportService, store: st}
}

// @Summary List Borrowers
// @Description Get borrower summaries aggregated across all their loans
// @Tags Borrowers
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /borrowers [get]
func (h *BorrowerHandler) Index(c *gin.Context) {
	summaries := h.reportService.BorrowerSummaries(h.store.Loans(), time.Now())
	c.JSON(http.StatusOK, gin.H{
		"borrowers": summaries,
		"total":     len(summaries),
	})
}

// @Summary Export Borrowers CSV
// @Description Download borrower summaries as a CSV file
// @Tags Borrowers
// @Produce text/csv
// @Success 200 {file} file
// @Router /borrowers/export [get]
func (h *BorrowerHandler) ExportCSV(c *gin.Context) {
	summaries := h.reportService.BorrowerSummaries(h.store.Loans(), time.Now())
	data, filename, err := h.exportService.BorrowersCSV(summaries)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", data)
}
