package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"

	"github.com/loanbook/loanbook-api/internal/jobs"
	"github.com/loanbook/loanbook-api/internal/models"
	"github.com/loanbook/loanbook-api/internal/repository"
	"github.com/loanbook/loanbook-api/internal/statemachine"
	"github.com/loanbook/loanbook-api/internal/store"
	"github.com/loanbook/loanbook-api/pkg/logger"
)

// LoanService applies mutations to single loans. Every operation works on a
// clone, updates the snapshot store optimistically, and writes through to
// the database mirror asynchronously. A write failure is logged and
// reported, never rolled back: local state stays usable offline.
type LoanService struct {
	store          *store.Store
	repo           repository.LoanRepository
	worker         *jobs.Worker
	emi            *EMIService
	schedule       *ScheduleService
	ledger         *LedgerService
	persistTimeout time.Duration
}

// NewLoanService creates a new loan service
func NewLoanService(st *store.Store, repo repository.LoanRepository, worker *jobs.Worker, emi *EMIService, schedule *ScheduleService, ledger *LedgerService, persistTimeout time.Duration) *LoanService {
	return &LoanService{
		store:          st,
		repo:           repo,
		worker:         worker,
		emi:            emi,
		schedule:       schedule,
		ledger:         ledger,
		persistTimeout: persistTimeout,
	}
}

// NewLoanRef generates a reference number like LN250901-4821 from the
// creation date and a random 4-digit suffix.
func NewLoanRef(now time.Time) string {
	return fmt.Sprintf("LN%s-%04d", now.Format("060102"), rand.Intn(10000))
}

// Create registers a new loan. Missing IDs get a local UUID so the record
// is addressable before the first successful remote write; an empty status
// enters the workflow as Pending.
func (s *LoanService) Create(ctx context.Context, loan *models.Loan) (*models.Loan, error) {
	c := loan.Clone()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now()
	if c.LoanRef == "" {
		c.LoanRef = NewLoanRef(now)
	}
	if c.Status == "" {
		c.Status = models.LoanStatusPending
	}
	c.BorrowerName = strings.TrimSpace(c.BorrowerName)
	if c.BorrowerName == "" {
		return nil, ErrMissingBorrower
	}
	if c.IssueDate.IsZero() {
		c.IssueDate = models.NewFlexDate(now)
	}
	c.CreatedAt = now
	c.UpdatedAt = now

	s.apply(c)
	return c, nil
}

// Approve transitions a Pending or Rejected loan to Active.
func (s *LoanService) Approve(ctx context.Context, id string) (*models.Loan, error) {
	return s.transition(ctx, id, func(ctx context.Context, fsm *statemachine.LoanFSM) error {
		return fsm.Approve(ctx)
	})
}

// Reject transitions a Pending loan to Rejected.
func (s *LoanService) Reject(ctx context.Context, id string) (*models.Loan, error) {
	return s.transition(ctx, id, func(ctx context.Context, fsm *statemachine.LoanFSM) error {
		return fsm.Reject(ctx)
	})
}

// Reopen sends a Rejected loan back to Pending.
func (s *LoanService) Reopen(ctx context.Context, id string) (*models.Loan, error) {
	return s.transition(ctx, id, func(ctx context.Context, fsm *statemachine.LoanFSM) error {
		return fsm.Reopen(ctx)
	})
}

func (s *LoanService) transition(ctx context.Context, id string, event func(context.Context, *statemachine.LoanFSM) error) (*models.Loan, error) {
	loan, ok := s.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	c := loan.Clone()
	if err := event(ctx, statemachine.NewLoanFSM(c)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	c.UpdatedAt = time.Now()
	s.apply(c)
	return c, nil
}

// MarkInstallmentPaid records a full payment for one installment. Both
// schemas are updated so either reader agrees, and any partial amount for
// the installment is cleared. Marking an already-paid installment is a
// no-op: no duplicate ledger entry is ever produced.
func (s *LoanService) MarkInstallmentPaid(ctx context.Context, id string, instNum int, paymentDate string, collectedBy string) (*models.Loan, error) {
	loan, ok := s.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	if instNum < 1 || instNum > loan.TenureCount() {
		return nil, ErrBadInstallment
	}

	schedule := s.schedule.DeriveSchedule(&loan)
	if schedule.Installments[instNum-1].IsPaid() {
		return &loan, nil
	}

	when := models.ParseSafeDate(paymentDate)
	if models.IsEpoch(when) {
		when = time.Now()
	}

	c := s.withMaps(loan.Clone())
	c.EMISchedule.Set(instNum, models.EMIEntry{
		Status:      models.EMIEntryStatusPaid,
		AmountPaid:  models.Numeric(s.emi.LoanEMI(c)),
		Date:        models.NewFlexDate(when),
		CollectedBy: collectedBy,
	})
	if !c.PaidInstallments.Contains(instNum) {
		c.PaidInstallments = append(c.PaidInstallments, instNum)
	}
	c.PaidDates.Set(instNum, when)
	c.PartialPayments.Delete(instNum)
	c.PartialPaymentDates.Delete(instNum)
	c.UpdatedAt = time.Now()

	s.apply(c)
	return c, nil
}

// RecordPartialPayment accumulates a partial amount onto an unpaid
// installment. Non-positive or non-finite amounts are rejected with no
// state change.
func (s *LoanService) RecordPartialPayment(ctx context.Context, id string, instNum int, amount float64, paymentDate string, collectedBy string) (*models.Loan, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, ErrInvalidAmount
	}
	loan, ok := s.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	if instNum < 1 || instNum > loan.TenureCount() {
		return nil, ErrBadInstallment
	}

	schedule := s.schedule.DeriveSchedule(&loan)
	inst := schedule.Installments[instNum-1]
	if inst.IsPaid() {
		return nil, fmt.Errorf("%w: installment %d", ErrAlreadyPaid, instNum)
	}

	when := models.ParseSafeDate(paymentDate)
	if models.IsEpoch(when) {
		when = time.Now()
	}

	total := inst.PartialAmount + amount

	c := s.withMaps(loan.Clone())
	c.EMISchedule.Set(instNum, models.EMIEntry{
		Status:      "Partial",
		AmountPaid:  models.Numeric(total),
		Date:        models.NewFlexDate(when),
		CollectedBy: collectedBy,
	})
	c.PartialPayments.Set(instNum, total)
	c.PartialPaymentDates.Set(instNum, when)
	c.UpdatedAt = time.Now()

	s.apply(c)
	return c, nil
}

// AddPenalty appends an additive charge, never tied to an installment.
func (s *LoanService) AddPenalty(ctx context.Context, id string, amount float64, description string, date string) (*models.Loan, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, ErrInvalidAmount
	}
	loan, ok := s.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}

	when := models.ParseSafeDate(date)
	if models.IsEpoch(when) {
		when = time.Now()
	}

	c := loan.Clone()
	c.Penalties = append(c.Penalties, models.Penalty{
		Date:        models.NewFlexDate(when),
		Amount:      models.Numeric(amount),
		Description: strings.TrimSpace(description),
	})
	c.UpdatedAt = time.Now()

	s.apply(c)
	return c, nil
}

// Settle marks every remaining unpaid installment Paid as of now, the bulk
// equivalent of repeated MarkInstallmentPaid calls.
func (s *LoanService) Settle(ctx context.Context, id string, collectedBy string) (*models.Loan, error) {
	loan, ok := s.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}

	now := time.Now()
	emi := s.emi.LoanEMI(&loan)
	schedule := s.schedule.DeriveSchedule(&loan)

	c := s.withMaps(loan.Clone())
	for _, inst := range schedule.Installments {
		if inst.IsPaid() {
			continue
		}
		c.EMISchedule.Set(inst.Number, models.EMIEntry{
			Status:      models.EMIEntryStatusPaid,
			AmountPaid:  models.Numeric(emi),
			Date:        models.NewFlexDate(now),
			CollectedBy: collectedBy,
		})
		if !c.PaidInstallments.Contains(inst.Number) {
			c.PaidInstallments = append(c.PaidInstallments, inst.Number)
		}
		c.PaidDates.Set(inst.Number, now)
		c.PartialPayments.Delete(inst.Number)
		c.PartialPaymentDates.Delete(inst.Number)
	}
	c.UpdatedAt = now

	s.apply(c)
	return c, nil
}

// EditTransactionDate overwrites the recorded payment date for an
// installment's full or partial payment. Fails when the new date does not
// parse; nothing is mutated in that case.
func (s *LoanService) EditTransactionDate(ctx context.Context, id string, instNum int, isPartial bool, newDate string) (*models.Loan, error) {
	when := models.ParseSafeDate(newDate)
	if models.IsEpoch(when) {
		return nil, ErrInvalidDate
	}
	loan, ok := s.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	if instNum < 1 || instNum > loan.TenureCount() {
		return nil, ErrBadInstallment
	}

	c := s.withMaps(loan.Clone())
	if entry, ok := c.EMISchedule.Entry(instNum); ok {
		entry.Date = models.NewFlexDate(when)
		c.EMISchedule.Set(instNum, entry)
	}
	if isPartial {
		c.PartialPaymentDates.Set(instNum, when)
	} else {
		c.PaidDates.Set(instNum, when)
	}
	c.UpdatedAt = time.Now()

	s.apply(c)
	return c, nil
}

// Delete removes the loan from the collection. Nothing else cascades.
func (s *LoanService) Delete(ctx context.Context, id string) error {
	if _, ok := s.store.Get(id); !ok {
		return ErrNotFound
	}
	s.store.Remove(id)

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, s.persistTimeout)
		defer cancel()
		if err := s.repo.Delete(ctx, id); err != nil {
			s.reportPersistFailure(id, err)
		}
		return nil
	})
	return nil
}

// Get returns one loan from the snapshot.
func (s *LoanService) Get(id string) (*models.Loan, error) {
	loan, ok := s.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &loan, nil
}

// List returns summary views, optionally filtered by derived state.
func (s *LoanService) List(stateFilter string, today time.Time) []models.LoanView {
	loans := s.store.Loans()
	views := make([]models.LoanView, 0, len(loans))
	for i := range loans {
		view := s.BuildView(&loans[i], today, false)
		if stateFilter != "" && !strings.EqualFold(view.State, stateFilter) {
			continue
		}
		views = append(views, view)
	}
	return views
}

// GetView returns the full detail view with schedule and timeline.
func (s *LoanService) GetView(id string, today time.Time) (*models.LoanView, error) {
	loan, ok := s.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	view := s.BuildView(&loan, today, true)
	return &view, nil
}

// BuildView derives the render-ready projection of one loan.
func (s *LoanService) BuildView(loan *models.Loan, today time.Time, detailed bool) models.LoanView {
	schedule := s.schedule.DeriveSchedule(loan)
	emi := s.emi.LoanEMI(loan)
	totalRepayable := s.emi.TotalRepayable(loan)
	totalPaid := schedule.TotalPaid()

	view := models.LoanView{
		ID:             loan.ID,
		LoanRef:        loan.LoanRef,
		BorrowerName:   loan.BorrowerName,
		MobileNumber:   loan.MobileNumber,
		Amount:         loan.Principal(),
		Interest:       loan.RatePercent(),
		Tenure:         loan.TenureCount(),
		Status:         loan.Status,
		EMI:            emi,
		TotalRepayable: totalRepayable,
		TotalPaid:      totalPaid,
		TotalPenalties: loan.TotalPenalties(),
		Outstanding:    totalRepayable + loan.TotalPenalties() - totalPaid,
		State:          s.schedule.Classify(loan, schedule, today),
		IssueDate:      loan.IssueDate.Time(),
		IssueDateLabel: models.FormatDisplayDate(loan.IssueDate.Time()),
		NextDueDate:    schedule.NextDueDate,
		NextDueLabel:   "N/A",
	}
	if totalRepayable > 0 {
		view.ProgressPercent = math.Min(100, totalPaid/totalRepayable*100)
	}
	if schedule.NextDueDate != nil {
		view.NextDueLabel = models.FormatDisplayDate(*schedule.NextDueDate)
	}
	if detailed {
		view.Schedule = schedule.Installments
		view.Timeline = s.ledger.BuildLoanTimeline(loan)
	}
	return view
}

// apply performs the optimistic local update and the async write-through.
func (s *LoanService) apply(loan *models.Loan) {
	s.store.Upsert(*loan)

	persisted := loan.Clone()
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, s.persistTimeout)
		defer cancel()
		if err := s.repo.Save(ctx, persisted); err != nil {
			s.reportPersistFailure(persisted.ID, err)
		}
		return nil
	})
}

// reportPersistFailure logs and reports a failed mirror write. Local state
// remains authoritative; there is no retry and no rollback.
func (s *LoanService) reportPersistFailure(id string, err error) {
	logger.Error("loan mirror write failed", "loan_id", id, "error", err)
	sentry.CaptureException(err)
}

// withMaps makes sure all schema maps exist before a mutation touches them.
func (s *LoanService) withMaps(c *models.Loan) *models.Loan {
	if c.EMISchedule == nil {
		c.EMISchedule = make(models.EMISchedule)
	}
	if c.PaidDates == nil {
		c.PaidDates = make(models.DateMap)
	}
	if c.PartialPayments == nil {
		c.PartialPayments = make(models.AmountMap)
	}
	if c.PartialPaymentDates == nil {
		c.PartialPaymentDates = make(models.DateMap)
	}
	return c
}
