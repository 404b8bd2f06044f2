// internal/service/billing/billing_service.go
package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"clinic-billing/internal/domain/billing"
	xerrors "clinic-billing/internal/pkg/errors"
	"clinic-billing/internal/pkg/sequence"
	"clinic-billing/internal/repository/memory"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Options struct {
	InvoiceStart   int64
	DueDays        int
	AnnualDiscount decimal.Decimal
	Now            func() time.Time
}

// DefaultOptions mirrors the desk's built-in pricing rules.
func DefaultOptions() Options {
	return Options{
		InvoiceStart:   1000,
		DueDays:        15,
		AnnualDiscount: decimal.RequireFromString("0.10"),
		Now:            time.Now,
	}
}

type BillingService struct {
	planRepo       *memory.PlanRepository
	subscriberRepo *memory.SubscriberRepository
	invoiceRepo    *memory.InvoiceRepository
	opts           Options
	logger         *zap.Logger

	// mu serializes every operation over the collections above.
	mu           sync.Mutex
	invoiceSeq   *sequence.Sequence
	totalRevenue decimal.Decimal
}

func NewBillingService(
	planRepo *memory.PlanRepository,
	subscriberRepo *memory.SubscriberRepository,
	invoiceRepo *memory.InvoiceRepository,
	opts Options,
	logger *zap.Logger,
) *BillingService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &BillingService{
		planRepo:       planRepo,
		subscriberRepo: subscriberRepo,
		invoiceRepo:    invoiceRepo,
		opts:           opts,
		logger:         logger,
		invoiceSeq:     sequence.New(opts.InvoiceStart),
		totalRevenue:   decimal.Zero,
	}
}

// EnsureCatalog installs the two built-in plans when the catalog is empty
func (s *BillingService) EnsureCatalog(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plans, err := s.planRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}
	if len(plans) > 0 {
		return nil
	}

	catalog := []billing.Plan{
		{
			ID: 1, Code: "1", Name: "Basic Monthly", Kind: billing.PlanMonthly,
			MonthlyPrice: decimal.NewFromInt(500), Features: []string{"F1", "F2"}, TrialDays: 7,
		},
		{
			ID: 2, Code: "2", Name: "Premium Annual", Kind: billing.PlanAnnual,
			MonthlyPrice: decimal.NewFromInt(450), Features: []string{"F1", "F2", "F3"}, TrialDays: 14,
			Discount: s.opts.AnnualDiscount,
		},
	}
	for i := range catalog {
		if err := s.planRepo.Create(ctx, &catalog[i]); err != nil {
			return fmt.Errorf("failed to create plan %q: %w", catalog[i].Name, err)
		}
	}

	s.logger.Info("plan catalog installed", zap.Int("plans", len(catalog)))
	return nil
}

func (s *BillingService) ListPlans(ctx context.Context) ([]billing.Plan, error) {
	return s.planRepo.List(ctx)
}

func (s *BillingService) GetPlan(ctx context.Context, id int64) (*billing.Plan, error) {
	return s.findPlan(ctx, id)
}

// PlanByChoice resolves the plan code typed at the menu. Unknown codes are rejected
// rather than defaulting to any plan.
func (s *BillingService) PlanByChoice(ctx context.Context, choice string) (*billing.Plan, error) {
	plan, err := s.planRepo.FindByCode(ctx, strings.TrimSpace(choice))
	if err != nil {
		return nil, fmt.Errorf("failed to look up plan: %w", err)
	}
	if plan == nil {
		return nil, fmt.Errorf("%w (got %q)", billing.ErrInvalidPlanChoice, choice)
	}
	return plan, nil
}

// AddSubscriber registers a subscriber on an existing plan
func (s *BillingService) AddSubscriber(ctx context.Context, req *billing.AddSubscriberRequest) (*billing.Subscriber, error) {
	if err := validateSubscriber(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.findPlan(ctx, req.PlanID); err != nil {
		return nil, err
	}

	sub := &billing.Subscriber{
		ID:        req.ID,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		PlanID:    req.PlanID,
		Status:    billing.StatusActive,
		CreatedAt: s.opts.Now(),
	}
	if err := s.subscriberRepo.Create(ctx, sub); err != nil {
		if errors.Is(err, xerrors.ErrDuplicateEntry) {
			return nil, fmt.Errorf("%w: %d", billing.ErrSubscriberExists, req.ID)
		}
		return nil, fmt.Errorf("failed to create subscriber: %w", err)
	}

	s.logger.Info("subscriber added",
		zap.Int64("subscriber_id", sub.ID),
		zap.Int64("plan_id", sub.PlanID),
	)
	return sub, nil
}

func validateSubscriber(req *billing.AddSubscriberRequest) error {
	switch {
	case req.ID <= 0:
		return xerrors.Invalid("subscriber id must be positive")
	case strings.TrimSpace(req.Name) == "":
		return xerrors.Invalid("name is required")
	case !strings.Contains(req.Email, "@"):
		return xerrors.Invalid("invalid email %q", req.Email)
	}
	return nil
}

func (s *BillingService) GetSubscriber(ctx context.Context, id int64) (*billing.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findSubscriber(ctx, id)
}

func (s *BillingService) ListSubscribers(ctx context.Context) ([]billing.Subscriber, error) {
	return s.subscriberRepo.List(ctx)
}

// ChangePlan replaces the subscriber's plan reference
func (s *BillingService) ChangePlan(ctx context.Context, subscriberID, planID int64) (*billing.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, err := s.findSubscriber(ctx, subscriberID)
	if err != nil {
		return nil, err
	}
	if !sub.IsActive() {
		return nil, billing.ErrSubscriptionCancelled
	}
	plan, err := s.findPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	previous := sub.PlanID
	sub.PlanID = plan.ID
	if err := s.subscriberRepo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to update subscriber: %w", err)
	}

	s.logger.Info("subscriber changed plan",
		zap.Int64("subscriber_id", sub.ID),
		zap.Int64("from_plan_id", previous),
		zap.Int64("to_plan_id", plan.ID),
	)
	return sub, nil
}

// CancelSubscription is one-way; cancelling a cancelled subscriber changes nothing.
func (s *BillingService) CancelSubscription(ctx context.Context, subscriberID int64) (*billing.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, err := s.findSubscriber(ctx, subscriberID)
	if err != nil {
		return nil, err
	}
	if !sub.IsActive() {
		return sub, nil
	}

	sub.Status = billing.StatusCancelled
	if err := s.subscriberRepo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to update subscriber: %w", err)
	}

	s.logger.Info("subscription cancelled", zap.Int64("subscriber_id", sub.ID))
	return sub, nil
}

// GenerateInvoice bills the subscriber's current plan for one cycle
func (s *BillingService) GenerateInvoice(ctx context.Context, subscriberID int64) (*billing.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, err := s.findSubscriber(ctx, subscriberID)
	if err != nil {
		return nil, err
	}
	plan, err := s.findPlan(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}

	issued := s.opts.Now()
	inv := &billing.Invoice{
		Number:       s.invoiceSeq.Next(),
		SubscriberID: sub.ID,
		PlanID:       plan.ID,
		Amount:       plan.ComputeAmount(),
		IssuedAt:     issued,
		DueDate:      issued.AddDate(0, 0, s.opts.DueDays),
		State:        billing.InvoicePending,
	}
	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.logger.Info("invoice generated",
		zap.Int64("invoice_no", inv.Number),
		zap.Int64("subscriber_id", sub.ID),
		zap.String("amount", inv.Amount.String()),
	)
	return inv, nil
}

// RecordPayment marks an invoice paid and books its amount as revenue.
// Paying an already paid invoice reports AlreadyPaid and books nothing.
func (s *BillingService) RecordPayment(ctx context.Context, invoiceNo int64) (*billing.PaymentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, err := s.invoiceRepo.FindByNumber(ctx, invoiceNo)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			s.logger.Warn("payment for unknown invoice", zap.Int64("invoice_no", invoiceNo))
			return nil, billing.ErrInvoiceNotFound
		}
		return nil, err
	}
	if inv.IsPaid() {
		return &billing.PaymentResult{Invoice: *inv, AlreadyPaid: true}, nil
	}

	inv.MarkPaid(s.opts.Now())
	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}
	s.totalRevenue = s.totalRevenue.Add(inv.Amount)

	s.logger.Info("invoice paid",
		zap.Int64("invoice_no", inv.Number),
		zap.String("amount", inv.Amount.String()),
		zap.String("total_revenue", s.totalRevenue.String()),
	)
	return &billing.PaymentResult{Invoice: *inv}, nil
}

// MarkOverdue flags pending invoices whose due date has passed and returns how many changed
func (s *BillingService) MarkOverdue(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.invoiceRepo.ListByState(ctx, billing.InvoicePending)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending invoices: %w", err)
	}

	now := s.opts.Now()
	changed := 0
	for i := range pending {
		if !pending[i].MarkOverdue(now) {
			continue
		}
		if err := s.invoiceRepo.Update(ctx, &pending[i]); err != nil {
			return changed, fmt.Errorf("failed to update invoice: %w", err)
		}
		changed++
	}

	if changed > 0 {
		s.logger.Info("invoices marked overdue", zap.Int("count", changed))
	}
	return changed, nil
}

func (s *BillingService) ListInvoices(ctx context.Context) ([]billing.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invoiceRepo.List(ctx)
}

func (s *BillingService) RevenueReport(ctx context.Context) (*billing.RevenueReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	report := &billing.RevenueReport{TotalRevenue: s.totalRevenue, Outstanding: decimal.Zero}
	for _, inv := range invoices {
		switch inv.State {
		case billing.InvoicePaid:
			report.Paid++
		case billing.InvoiceOverdue:
			report.Overdue++
			report.Outstanding = report.Outstanding.Add(inv.Amount)
		default:
			report.Pending++
			report.Outstanding = report.Outstanding.Add(inv.Amount)
		}
	}
	return report, nil
}

func (s *BillingService) findSubscriber(ctx context.Context, id int64) (*billing.Subscriber, error) {
	sub, err := s.subscriberRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", billing.ErrSubscriberNotFound, id)
		}
		return nil, err
	}
	return sub, nil
}

func (s *BillingService) findPlan(ctx context.Context, id int64) (*billing.Plan, error) {
	plan, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", billing.ErrPlanNotFound, id)
		}
		return nil, err
	}
	return plan, nil
}
