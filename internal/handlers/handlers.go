package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loanbook/loanbook-api/internal/config"
	"github.com/loanbook/loanbook-api/internal/services"
	"github.com/loanbook/loanbook-api/internal/store"
)

// Handlers holds all handler instances
type Handlers struct {
	Health   *HealthHandler
	Loan     *LoanHandler
	Borrower *BorrowerHandler
	Wallet   *WalletHandler
	Report   *ReportHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, st *store.Store, cfg *config.Config) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(),
		Loan:     NewLoanHandler(svcs.Loan, svcs.EMI, svcs.Export),
		Borrower: NewBorrowerHandler(svcs.Report, svcs.Export, st),
		Wallet:   NewWalletHandler(svcs.Wallet, svcs.Report, svcs.Export, st, cfg),
		Report:   NewReportHandler(svcs.Report, svcs.Export, svcs.Wallet, st, cfg),
	}
}

// abortWithError maps service errors onto HTTP status codes.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrBadInstallment),
		errors.Is(err, services.ErrMissingBorrower):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrAlreadyPaid):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
