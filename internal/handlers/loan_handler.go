package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/loanbook/loanbook-api/internal/models"
	"github.com/loanbook/loanbook-api/internal/services"
)

type LoanHandler struct {
	loanService   *services.LoanService
	emiService    *services.EMIService
	exportService *services.ExportService
}

func NewLoanHandler(loanService *services.LoanService, emiService *services.EMIService, exportService *services.ExportService) *LoanHandler {
	return &LoanHandler{loanService: loanService, emiService: emiService, exportService: exportService}
}

// @Summary List Loans
// @Description Get all loans with derived schedule state, optionally filtered
// @Tags Loans
// @Produce json
// @Param state query string false "Filter by derived state (Pending, Rejected, Active, Overdue, Closed)"
// @Success 200 {object} map[string]interface{}
// @Router /loans [get]
func (h *LoanHandler) Index(c *gin.Context) {
	views := h.loanService.List(c.Query("state"), time.Now())
	c.JSON(http.StatusOK, gin.H{
		"loans": views,
		"total": len(views),
	})
}

// @Summary Get Loan
// @Description Get one loan with full schedule and transaction timeline
// @Tags Loans
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} models.LoanView
// @Failure 404 {object} map[string]string
// @Router /loans/{id} [get]
func (h *LoanHandler) Show(c *gin.Context) {
	view, err := h.loanService.GetView(c.Param("id"), time.Now())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": view})
}

// @Summary Create Loan
// @Description Register a new loan application
// @Tags Loans
// @Accept json
// @Produce json
// @Param loan body models.Loan true "Loan Data"
// @Success 201 {object} map[string]interface{}
// @Router /loans [post]
func (h *LoanHandler) Create(c *gin.Context) {
	var loan models.Loan
	if err := BindNestedOrFlat(c, "loan", &loan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan payload"})
		return
	}

	created, err := h.loanService.Create(c.Request.Context(), &loan)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"loan": created})
}

// @Summary Delete Loan
// @Description Remove a loan record
// @Tags Loans
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /loans/{id} [delete]
func (h *LoanHandler) Delete(c *gin.Context) {
	if err := h.loanService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "loan deleted"})
}

// @Summary Approve Loan
// @Description Transition a Pending or Rejected loan to Active
// @Tags Loans
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Router /loans/{id}/approve [post]
func (h *LoanHandler) Approve(c *gin.Context) {
	loan, err := h.loanService.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

// @Summary Reject Loan
// @Description Transition a Pending loan to Rejected
// @Tags Loans
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Router /loans/{id}/reject [post]
func (h *LoanHandler) Reject(c *gin.Context) {
	loan, err := h.loanService.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

// @Summary Reopen Loan
// @Description Send a Rejected loan back to the Pending queue
// @Tags Loans
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Router /loans/{id}/reopen [post]
func (h *LoanHandler) Reopen(c *gin.Context) {
	loan, err := h.loanService.Reopen(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

type paymentRequest struct {
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	CollectedBy string  `json:"collected_by"`
}

// @Summary Mark Installment Paid
// @Description Record a full payment for one installment; repeating the call is a no-op
// @Tags Loans
// @Accept json
// @Produce json
// @Param id path string true "Loan ID"
// @Param number path int true "Installment number"
// @Param payment body paymentRequest false "Payment details"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /loans/{id}/installments/{number}/pay [post]
func (h *LoanHandler) MarkPaid(c *gin.Context) {
	num, err := installmentNumber(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	var req paymentRequest
	_ = c.ShouldBindJSON(&req)

	loan, err := h.loanService.MarkInstallmentPaid(c.Request.Context(), c.Param("id"), num, req.Date, req.CollectedBy)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

// @Summary Record Partial Payment
// @Description Accumulate a partial amount onto an unpaid installment
// @Tags Loans
// @Accept json
// @Produce json
// @Param id path string true "Loan ID"
// @Param number path int true "Installment number"
// @Param payment body paymentRequest true "Payment details"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /loans/{id}/installments/{number}/partial [post]
func (h *LoanHandler) PartialPayment(c *gin.Context) {
	num, err := installmentNumber(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment payload"})
		return
	}

	loan, err := h.loanService.RecordPartialPayment(c.Request.Context(), c.Param("id"), num, req.Amount, req.Date, req.CollectedBy)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

type penaltyRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

// @Summary Add Penalty
// @Description Add an additive penalty charge to a loan
// @Tags Loans
// @Accept json
// @Produce json
// @Param id path string true "Loan ID"
// @Param penalty body penaltyRequest true "Penalty details"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /loans/{id}/penalties [post]
func (h *LoanHandler) AddPenalty(c *gin.Context) {
	var req penaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid penalty payload"})
		return
	}

	loan, err := h.loanService.AddPenalty(c.Request.Context(), c.Param("id"), req.Amount, req.Description, req.Date)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

// @Summary Settle Loan
// @Description Mark every remaining unpaid installment as paid today
// @Tags Loans
// @Accept json
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} map[string]interface{}
// @Router /loans/{id}/settle [post]
func (h *LoanHandler) Settle(c *gin.Context) {
	var req paymentRequest
	_ = c.ShouldBindJSON(&req)

	loan, err := h.loanService.Settle(c.Request.Context(), c.Param("id"), req.CollectedBy)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

type editDateRequest struct {
	Date    string `json:"date" binding:"required"`
	Partial bool   `json:"partial"`
}

// @Summary Edit Payment Date
// @Description Overwrite the recorded date of an installment's payment
// @Tags Loans
// @Accept json
// @Produce json
// @Param id path string true "Loan ID"
// @Param number path int true "Installment number"
// @Param edit body editDateRequest true "New date"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /loans/{id}/installments/{number}/date [patch]
func (h *LoanHandler) EditPaymentDate(c *gin.Context) {
	num, err := installmentNumber(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	var req editDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date payload"})
		return
	}

	loan, err := h.loanService.EditTransactionDate(c.Request.Context(), c.Param("id"), num, req.Partial, req.Date)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

// @Summary Export Loans CSV
// @Description Download all loans as a CSV file
// @Tags Loans
// @Produce text/csv
// @Success 200 {file} file
// @Router /loans/export [get]
func (h *LoanHandler) ExportCSV(c *gin.Context) {
	views := h.loanService.List("", time.Now())
	data, filename, err := h.exportService.LoansCSV(views)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// @Summary EMI Calculator
// @Description Compute flat and reducing-balance EMIs for arbitrary terms
// @Tags Loans
// @Produce json
// @Param principal query number true "Principal amount"
// @Param rate query number true "Rate percent (flat per term, reducing per month)"
// @Param tenure query int true "Tenure in months"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /calculator [get]
func (h *LoanHandler) Calculator(c *gin.Context) {
	principal, err1 := strconv.ParseFloat(c.Query("principal"), 64)
	rate, err2 := strconv.ParseFloat(c.Query("rate"), 64)
	tenure, err3 := strconv.Atoi(c.Query("tenure"))
	if err1 != nil || err2 != nil || err3 != nil || principal < 0 || tenure < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "principal, rate and tenure must be valid numbers"})
		return
	}

	flat := h.emiService.FlatEMI(principal, rate, tenure)
	reducing := h.emiService.ReducingBalanceEMI(principal, rate, tenure)

	c.JSON(http.StatusOK, gin.H{
		"flat": gin.H{
			"emi":             flat,
			"total_repayable": flat * float64(tenure),
			"total_interest":  h.emiService.TotalInterest(flat, tenure, principal),
		},
		"reducing": gin.H{
			"emi":             reducing,
			"total_repayable": reducing * float64(tenure),
			"total_interest":  h.emiService.TotalInterest(reducing, tenure, principal),
		},
	})
}

func installmentNumber(c *gin.Context) (int, error) {
	num, err := strconv.Atoi(c.Param("number"))
	if err != nil || num < 1 {
		return 0, services.ErrBadInstallment
	}
	return num, nil
}
