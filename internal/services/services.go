package services

import (
	"time"

	"github.com/loanbook/loanbook-api/internal/config"
	"github.com/loanbook/loanbook-api/internal/jobs"
	"github.com/loanbook/loanbook-api/internal/repository"
	"github.com/loanbook/loanbook-api/internal/store"
)

// Services holds all service instances
type Services struct {
	EMI      *EMIService
	Schedule *ScheduleService
	Ledger   *LedgerService
	Report   *ReportService
	Export   *ExportService
	Loan     *LoanService
	Wallet   *WalletService
}

// NewServices creates all service instances
func NewServices(st *store.Store, repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config) *Services {
	emiSvc := NewEMIService()
	scheduleSvc := NewScheduleService(emiSvc)
	ledgerSvc := NewLedgerService(emiSvc, scheduleSvc)

	persistTimeout := time.Duration(cfg.PersistTimeoutSeconds) * time.Second

	return &Services{
		EMI:      emiSvc,
		Schedule: scheduleSvc,
		Ledger:   ledgerSvc,
		Report:   NewReportService(emiSvc, scheduleSvc, ledgerSvc),
		Export:   NewExportService(),
		Loan:     NewLoanService(st, repos.Loan, worker, emiSvc, scheduleSvc, ledgerSvc, persistTimeout),
		Wallet:   NewWalletService(repos.Wallet, repos.Employee),
	}
}
