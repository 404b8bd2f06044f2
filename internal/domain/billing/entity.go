// internal/domain/billing/entity.go
package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PlanKind string

const (
	PlanMonthly PlanKind = "monthly"
	PlanAnnual  PlanKind = "annual"
)

type SubscriberStatus string

const (
	StatusActive    SubscriberStatus = "Active"
	StatusCancelled SubscriberStatus = "Cancelled"
)

type InvoiceState string

const (
	InvoicePending InvoiceState = "Pending"
	InvoicePaid    InvoiceState = "Paid"
	InvoiceOverdue InvoiceState = "Overdue"
)

var monthsPerYear = decimal.NewFromInt(12)

// Plan is immutable once placed in the catalog.
type Plan struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Kind         PlanKind        `json:"kind"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	Features     []string        `json:"features"`
	TrialDays    int             `json:"trial_days"`

	// Discount applies to annual plans only.
	Discount decimal.Decimal `json:"discount"`
}

// ComputeAmount returns the charge for one billing cycle.
func (p Plan) ComputeAmount() decimal.Decimal {
	switch p.Kind {
	case PlanAnnual:
		return p.MonthlyPrice.Mul(monthsPerYear).Mul(decimal.NewFromInt(1).Sub(p.Discount))
	default:
		return p.MonthlyPrice
	}
}

func (p Plan) String() string {
	return fmt.Sprintf("%d. %s (%s/month, %s billing, trial %d days, features: %s)",
		p.ID, p.Name, p.MonthlyPrice.StringFixed(2), p.Kind, p.TrialDays, strings.Join(p.Features, ","))
}

type Subscriber struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	PlanID    int64            `json:"plan_id"`
	Status    SubscriberStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

func (s Subscriber) IsActive() bool { return s.Status == StatusActive }

func (s Subscriber) String() string {
	return fmt.Sprintf("Subscriber#%d | %s <%s> | Plan: %d | Status: %s", s.ID, s.Name, s.Email, s.PlanID, s.Status)
}

type Invoice struct {
	Number       int64           `json:"number"`
	SubscriberID int64           `json:"subscriber_id"`
	PlanID       int64           `json:"plan_id"`
	Amount       decimal.Decimal `json:"amount"`
	IssuedAt     time.Time       `json:"issued_at"`
	DueDate      time.Time       `json:"due_date"`
	State        InvoiceState    `json:"state"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
}

func (i Invoice) IsPaid() bool { return i.State == InvoicePaid }

// MarkPaid settles the invoice. Paid is terminal.
func (i *Invoice) MarkPaid(at time.Time) {
	i.State = InvoicePaid
	i.PaidAt = &at
}

// MarkOverdue moves a pending invoice past its due date to overdue; it never overrides Paid.
func (i *Invoice) MarkOverdue(now time.Time) bool {
	if i.State != InvoicePending || !now.After(i.DueDate) {
		return false
	}
	i.State = InvoiceOverdue
	return true
}

func (i Invoice) String() string {
	return fmt.Sprintf("Invoice#%d | Subscriber: %d | Amount: %s | Due: %s | State: %s",
		i.Number, i.SubscriberID, i.Amount.StringFixed(2), i.DueDate.Format("2006-01-02"), i.State)
}
