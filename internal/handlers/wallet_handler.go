package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/loanbook/loanbook-api/internal/config"
	"github.com/loanbook/loanbook-api/internal/models"
	"github.com/loanbook/loanbook-api/internal/services"
	"github.com/loanbook/loanbook-api/internal/store"
)

type WalletHandler struct {
	walletService *services.WalletService
	reportService *services.ReportService
	exportService *services.ExportService
	store         *store.Store
	cfg           *config.Config
}

func NewWalletHandler(walletService *services.WalletService, reportService *services.ReportService, exportService *services.ExportService, st *store.Store, cfg *config.Config) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		reportService: reportService,
		exportService: exportService,
		store:         st,
		cfg:           cfg,
	}
}

// summary assembles the wallet view from the loan snapshot plus the manual
// records. Repository errors surface; loan data is always local.
func (h *WalletHandler) summary(c *gin.Context) (models.WalletSummary, error) {
	manual, err := h.walletService.Transactions(c.Request.Context())
	if err != nil {
		return models.WalletSummary{}, err
	}
	expenses, err := h.walletService.Expenses(c.Request.Context())
	if err != nil {
		return models.WalletSummary{}, err
	}
	return h.reportService.WalletSummary(h.store.Loans(), manual, expenses, h.cfg.CurrencySymbol), nil
}

// @Summary Wallet Summary
// @Description Get the company wallet balance and full cash ledger
// @Tags Wallet
// @Produce json
// @Success 200 {object} models.WalletSummary
// @Router /wallet [get]
func (h *WalletHandler) Show(c *gin.Context) {
	summary, err := h.summary(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallet": summary})
}

type walletTxnRequest struct {
	Type        string  `json:"type" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

// @Summary Record Wallet Transaction
// @Description Record a manual Deposit or Withdrawal
// @Tags Wallet
// @Accept json
// @Produce json
// @Param transaction body walletTxnRequest true "Transaction details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /wallet/transactions [post]
func (h *WalletHandler) CreateTransaction(c *gin.Context) {
	var req walletTxnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction payload"})
		return
	}
	if req.Type != models.TxnTypeDeposit && req.Type != models.TxnTypeWithdrawal {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be Deposit or Withdrawal"})
		return
	}

	txn, err := h.walletService.RecordTransaction(c.Request.Context(), req.Type, req.Amount, req.Description, req.Date)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": txn})
}

// @Summary Delete Wallet Transaction
// @Description Remove a manual wallet transaction
// @Tags Wallet
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} map[string]string
// @Router /wallet/transactions/{id} [delete]
func (h *WalletHandler) DeleteTransaction(c *gin.Context) {
	if err := h.walletService.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction deleted"})
}

type expenseRequest struct {
	Category    string  `json:"category"`
	Amount      float64 `json:"amount" binding:"required"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

// @Summary List Expenses
// @Description Get all company expense records
// @Tags Wallet
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /wallet/expenses [get]
func (h *WalletHandler) Expenses(c *gin.Context) {
	expenses, err := h.walletService.Expenses(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses, "total": len(expenses)})
}

// @Summary Record Expense
// @Description Record a company expense
// @Tags Wallet
// @Accept json
// @Produce json
// @Param expense body expenseRequest true "Expense details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /wallet/expenses [post]
func (h *WalletHandler) CreateExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense payload"})
		return
	}

	exp, err := h.walletService.RecordExpense(c.Request.Context(), req.Category, req.Amount, req.Description, req.Date)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"expense": exp})
}

// @Summary Delete Expense
// @Description Remove an expense record
// @Tags Wallet
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} map[string]string
// @Router /wallet/expenses/{id} [delete]
func (h *WalletHandler) DeleteExpense(c *gin.Context) {
	if err := h.walletService.DeleteExpense(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "expense deleted"})
}

// @Summary List Employees
// @Description Get the staff roster
// @Tags Employees
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /employees [get]
func (h *WalletHandler) Employees(c *gin.Context) {
	employees, err := h.walletService.Employees(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"employees": employees, "total": len(employees)})
}

// @Summary Save Employee
// @Description Create or update a staff record
// @Tags Employees
// @Accept json
// @Produce json
// @Param employee body models.Employee true "Employee Data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /employees [post]
func (h *WalletHandler) SaveEmployee(c *gin.Context) {
	var emp models.Employee
	if err := BindNestedOrFlat(c, "employee", &emp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee payload"})
		return
	}
	if strings.TrimSpace(emp.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee name is required"})
		return
	}

	saved, err := h.walletService.SaveEmployee(c.Request.Context(), &emp)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"employee": saved})
}

// @Summary Delete Employee
// @Description Remove a staff record
// @Tags Employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} map[string]string
// @Router /employees/{id} [delete]
func (h *WalletHandler) DeleteEmployee(c *gin.Context) {
	if err := h.walletService.DeleteEmployee(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "employee deleted"})
}

// @Summary Export Wallet CSV
// @Description Download the wallet ledger as a CSV file
// @Tags Wallet
// @Produce text/csv
// @Success 200 {file} file
// @Router /wallet/export [get]
func (h *WalletHandler) ExportCSV(c *gin.Context) {
	summary, err := h.summary(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	data, filename, err := h.exportService.WalletCSV(summary)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", data)
}
