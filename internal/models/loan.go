package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Loan is the central entity: terms, borrower profile and payment records.
// Two payment-record schemas coexist in the stored documents. The legacy
// flat fields (paid_installments, paid_dates, partial_payments,
// partial_payment_dates) and the newer per-installment emi_schedule map.
// When emi_schedule has an entry for an installment it is authoritative for
// that installment; otherwise the legacy fields are read. Both schemas must
// keep being read indefinitely.
type Loan struct {
	ID      string `gorm:"primaryKey;size:64" json:"id"`
	LoanRef string `gorm:"size:32;index" json:"loanRef"`

	// Borrower profile, opaque to the derivation engine
	BorrowerName string `gorm:"not null;index" json:"name"`
	MobileNumber string `json:"mobile"`
	Address      string `json:"address"`
	IDProofType  string `json:"idProofType"`
	IDProofValue string `json:"idProofValue"`
	PhotoURL     string `json:"photoUrl"`

	// Terms. Amount and Interest coerce invalid input to 0, Tenure to 1,
	// so a malformed record still derives something.
	Amount   Numeric `gorm:"type:decimal" json:"amount"`
	Interest Numeric `gorm:"type:decimal" json:"interest"`
	Tenure   Numeric `json:"tenure"`

	// IssueDate anchors installment i at issue+i months. The stored field
	// has always been called dueDate; the JSON key stays for compat.
	IssueDate FlexDate `gorm:"type:timestamptz" json:"dueDate"`

	// Explicit workflow status: "", Pending, Rejected or Active. Empty means
	// legacy active. Independent of the computed Active/Overdue/Closed state.
	Status string `gorm:"size:16;index" json:"status,omitempty"`

	// Legacy payment schema
	PaidInstallments    InstallmentSet `gorm:"type:jsonb" json:"paidInstallments,omitempty"`
	PaidDates           DateMap        `gorm:"type:jsonb" json:"paidDates,omitempty"`
	PartialPayments     AmountMap      `gorm:"type:jsonb" json:"partialPayments,omitempty"`
	PartialPaymentDates DateMap        `gorm:"type:jsonb" json:"partialPaymentDates,omitempty"`

	// Newer per-installment schema, authoritative where present
	EMISchedule EMISchedule `gorm:"type:jsonb" json:"emi_schedule,omitempty"`

	Penalties PenaltyList `gorm:"type:jsonb" json:"penalties,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Loan
func (Loan) TableName() string {
	return "loans"
}

// Workflow status constants (stored). An empty status is a legacy record
// and is treated as Active.
const (
	LoanStatusPending  = "Pending"
	LoanStatusRejected = "Rejected"
	LoanStatusActive   = "Active"
)

// Computed loan states (derived, never stored)
const (
	StatePending  = "Pending"
	StateRejected = "Rejected"
	StateActive   = "Active"
	StateOverdue  = "Overdue"
	StateClosed   = "Closed"
)

// Principal returns the coerced principal amount.
func (l *Loan) Principal() float64 {
	return l.Amount.Float()
}

// RatePercent returns the coerced flat rate percent.
func (l *Loan) RatePercent() float64 {
	return l.Interest.Float()
}

// TenureCount returns the number of installments, floored to 1 to avoid
// division by zero on malformed records.
func (l *Loan) TenureCount() int {
	n := int(l.Tenure.Float())
	if n < 1 {
		return 1
	}
	return n
}

// IsPending reports the explicit Pending workflow status.
func (l *Loan) IsPending() bool {
	return l.Status == LoanStatusPending
}

// IsRejected reports the explicit Rejected workflow status.
func (l *Loan) IsRejected() bool {
	return l.Status == LoanStatusRejected
}

// MayApprove returns true if the loan can transition to Active
func (l *Loan) MayApprove() bool {
	return l.Status == LoanStatusPending || l.Status == LoanStatusRejected
}

// MayReject returns true if the loan can be rejected
func (l *Loan) MayReject() bool {
	return l.Status == LoanStatusPending
}

// MayReopen returns true if a rejected loan can go back to Pending
func (l *Loan) MayReopen() bool {
	return l.Status == LoanStatusRejected
}

// TotalPenalties sums the penalty amounts.
func (l *Loan) TotalPenalties() float64 {
	var total float64
	for _, p := range l.Penalties {
		total += p.Amount.Float()
	}
	return total
}

// Clone returns a deep copy. Mutation operations work on a clone so a
// snapshot handed to an in-flight render is never torn mid-derivation.
func (l *Loan) Clone() *Loan {
	c := *l
	if l.PaidInstallments != nil {
		c.PaidInstallments = append(InstallmentSet(nil), l.PaidInstallments...)
	}
	if l.PaidDates != nil {
		c.PaidDates = make(DateMap, len(l.PaidDates))
		for k, v := range l.PaidDates {
			c.PaidDates[k] = v
		}
	}
	if l.PartialPayments != nil {
		c.PartialPayments = make(AmountMap, len(l.PartialPayments))
		for k, v := range l.PartialPayments {
			c.PartialPayments[k] = v
		}
	}
	if l.PartialPaymentDates != nil {
		c.PartialPaymentDates = make(DateMap, len(l.PartialPaymentDates))
		for k, v := range l.PartialPaymentDates {
			c.PartialPaymentDates[k] = v
		}
	}
	if l.EMISchedule != nil {
		c.EMISchedule = make(EMISchedule, len(l.EMISchedule))
		for k, v := range l.EMISchedule {
			c.EMISchedule[k] = v
		}
	}
	if l.Penalties != nil {
		c.Penalties = append(PenaltyList(nil), l.Penalties...)
	}
	return &c
}

// EMIEntry is one installment record in the newer schema.
type EMIEntry struct {
	Status      string   `json:"status"`
	AmountPaid  Numeric  `json:"amountPaid"`
	Date        FlexDate `json:"date"`
	CollectedBy string   `json:"collectedBy,omitempty"`
}

// EMIEntryStatusPaid is the only status value that marks an installment
// fully paid in the newer schema.
const EMIEntryStatusPaid = "Paid"

// EMISchedule maps installment numbers (as string keys, the document store
// has no integer keys) to their entries.
type EMISchedule map[string]EMIEntry

// Entry looks up the record for installment i.
func (s EMISchedule) Entry(i int) (EMIEntry, bool) {
	e, ok := s[strconv.Itoa(i)]
	return e, ok
}

// Set stores the record for installment i.
func (s EMISchedule) Set(i int, e EMIEntry) {
	s[strconv.Itoa(i)] = e
}

// InstallmentSet is the legacy list of fully paid installment numbers.
// Old documents stored the numbers as strings in places.
type InstallmentSet []int

// Contains reports whether installment i is in the set.
func (s InstallmentSet) Contains(i int) bool {
	for _, n := range s {
		if n == i {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts numbers or numeric strings.
func (s *InstallmentSet) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		*s = nil
		return nil
	}
	out := make(InstallmentSet, 0, len(raw))
	for _, r := range raw {
		var n Numeric
		_ = n.UnmarshalJSON(r)
		if n > 0 {
			out = append(out, int(n))
		}
	}
	*s = out
	return nil
}

// DateMap maps installment numbers (string keys) to stored date strings.
type DateMap map[string]string

// Date parses the stored date for installment i, Epoch when absent.
func (m DateMap) Date(i int) time.Time {
	if m == nil {
		return Epoch
	}
	return parseDateString(m[strconv.Itoa(i)])
}

// Set stores an ISO date string for installment i.
func (m DateMap) Set(i int, t time.Time) {
	m[strconv.Itoa(i)] = t.Format(time.RFC3339)
}

// Delete removes the entry for installment i.
func (m DateMap) Delete(i int) {
	delete(m, strconv.Itoa(i))
}

// AmountMap maps installment numbers (string keys) to partial amounts.
type AmountMap map[string]Numeric

// Amount returns the recorded partial amount for installment i, 0 if none.
func (m AmountMap) Amount(i int) float64 {
	if m == nil {
		return 0
	}
	return m[strconv.Itoa(i)].Float()
}

// Set stores the partial amount for installment i.
func (m AmountMap) Set(i int, amount float64) {
	m[strconv.Itoa(i)] = Numeric(amount)
}

// Delete removes the entry for installment i.
func (m AmountMap) Delete(i int) {
	delete(m, strconv.Itoa(i))
}

// Penalty is an additive charge, never tied to an installment.
type Penalty struct {
	Date        FlexDate `json:"date"`
	Amount      Numeric  `json:"amount"`
	Description string   `json:"description"`
	AddedBy     string   `json:"addedBy,omitempty"`
}

// PenaltyList is the stored list of penalties on a loan.
type PenaltyList []Penalty

// jsonValue serializes v for a jsonb column.
func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// jsonScan deserializes a jsonb column into dst.
func jsonScan(src, dst interface{}) error {
	if src == nil {
		return nil
	}
	switch b := src.(type) {
	case []byte:
		return json.Unmarshal(b, dst)
	case string:
		return json.Unmarshal([]byte(b), dst)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}

// Value implements driver.Valuer
func (s InstallmentSet) Value() (driver.Value, error) { return jsonValue([]int(s)) }

// Scan implements sql.Scanner
func (s *InstallmentSet) Scan(src interface{}) error { return jsonScan(src, (*[]int)(s)) }

// Value implements driver.Valuer
func (m DateMap) Value() (driver.Value, error) { return jsonValue(map[string]string(m)) }

// Scan implements sql.Scanner
func (m *DateMap) Scan(src interface{}) error { return jsonScan(src, (*map[string]string)(m)) }

// Value implements driver.Valuer
func (m AmountMap) Value() (driver.Value, error) { return jsonValue(map[string]Numeric(m)) }

// Scan implements sql.Scanner
func (m *AmountMap) Scan(src interface{}) error { return jsonScan(src, (*map[string]Numeric)(m)) }

// Value implements driver.Valuer
func (s EMISchedule) Value() (driver.Value, error) { return jsonValue(map[string]EMIEntry(s)) }

// Scan implements sql.Scanner
func (s *EMISchedule) Scan(src interface{}) error {
	return jsonScan(src, (*map[string]EMIEntry)(s))
}

// Value implements driver.Valuer
func (p PenaltyList) Value() (driver.Value, error) { return jsonValue([]Penalty(p)) }

// Scan implements sql.Scanner
func (p *PenaltyList) Scan(src interface{}) error { return jsonScan(src, (*[]Penalty)(p)) }

// Value implements driver.Valuer. Missing dates store as NULL.
func (d FlexDate) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.t, nil
}

// Scan implements sql.Scanner
func (d *FlexDate) Scan(src interface{}) error {
	switch t := src.(type) {
	case nil:
		d.t = Epoch
	case time.Time:
		d.t = t
	case []byte:
		d.t = parseDateString(string(t))
	case string:
		d.t = parseDateString(t)
	default:
		d.t = Epoch
	}
	return nil
}

// Value implements driver.Valuer. Numeric stores as a plain float column.
func (n Numeric) Value() (driver.Value, error) { return float64(n), nil }

// Scan implements sql.Scanner
func (n *Numeric) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*n = 0
	case float64:
		*n = Numeric(v)
	case int64:
		*n = Numeric(v)
	case []byte:
		f, ok := toFloat(string(v))
		if !ok {
			f = 0
		}
		*n = Numeric(f)
	case string:
		f, ok := toFloat(v)
		if !ok {
			f = 0
		}
		*n = Numeric(f)
	default:
		return fmt.Errorf("unsupported numeric source type %T", src)
	}
	return nil
}

// Installment status constants (derived)
const (
	InstallmentUnpaid        = "Unpaid"
	InstallmentPaid          = "Paid"
	InstallmentPartiallyPaid = "PartiallyPaid"
)

// Installment is one derived scheduled payment period, numbered 1..tenure.
type Installment struct {
	Number        int       `json:"number"`
	DueDate       time.Time `json:"due_date"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	PartialAmount float64   `json:"partial_amount,omitempty"`
	PaymentDate   time.Time `json:"payment_date,omitempty"`
	CollectedBy   string    `json:"collected_by,omitempty"`
}

// IsPaid reports a fully paid installment.
func (i *Installment) IsPaid() bool {
	return i.Status == InstallmentPaid
}

// Schedule is the derived installment list for one loan.
type Schedule struct {
	Installments []Installment `json:"installments"`
	// NextDueDate is the due date of the first unpaid installment by number,
	// nil when every installment is paid (loan fully closed).
	NextDueDate *time.Time `json:"next_due_date"`
}

// TotalPaid sums full EMI payments and partial amounts across the schedule.
func (s Schedule) TotalPaid() float64 {
	var total float64
	for _, inst := range s.Installments {
		switch inst.Status {
		case InstallmentPaid:
			total += inst.Amount
		case InstallmentPartiallyPaid:
			total += inst.PartialAmount
		}
	}
	return total
}

// PaidCount returns the number of fully paid installments.
func (s Schedule) PaidCount() int {
	var n int
	for _, inst := range s.Installments {
		if inst.IsPaid() {
			n++
		}
	}
	return n
}
