// internal/repository/memory/billing_repo.go
package memory

import (
	"context"
	"slices"

	"clinic-billing/internal/domain/billing"
)

type PlanRepository struct {
	plans *table[billing.Plan]
}

func NewPlanRepository() *PlanRepository {
	return &PlanRepository{plans: newTable("plan", func(p billing.Plan) billing.Plan {
		p.Features = slices.Clone(p.Features)
		return p
	})}
}

// Create adds a plan to the catalog
func (r *PlanRepository) Create(ctx context.Context, plan *billing.Plan) error {
	return r.plans.insert(plan.ID, *plan)
}

func (r *PlanRepository) FindByID(ctx context.Context, id int64) (*billing.Plan, error) {
	p, err := r.plans.get(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByCode returns nil when no plan carries the code
func (r *PlanRepository) FindByCode(ctx context.Context, code string) (*billing.Plan, error) {
	found := r.plans.list(func(p billing.Plan) bool { return p.Code == code })
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (r *PlanRepository) List(ctx context.Context) ([]billing.Plan, error) {
	return r.plans.list(nil), nil
}

type SubscriberRepository struct {
	subscribers *table[billing.Subscriber]
}

func NewSubscriberRepository() *SubscriberRepository {
	return &SubscriberRepository{subscribers: newTable[billing.Subscriber]("subscriber", nil)}
}

func (r *SubscriberRepository) Create(ctx context.Context, s *billing.Subscriber) error {
	return r.subscribers.insert(s.ID, *s)
}

func (r *SubscriberRepository) FindByID(ctx context.Context, id int64) (*billing.Subscriber, error) {
	s, err := r.subscribers.get(id)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriberRepository) Update(ctx context.Context, s *billing.Subscriber) error {
	return r.subscribers.update(s.ID, *s)
}

func (r *SubscriberRepository) List(ctx context.Context) ([]billing.Subscriber, error) {
	return r.subscribers.list(nil), nil
}

type InvoiceRepository struct {
	invoices *table[billing.Invoice]
}

func NewInvoiceRepository() *InvoiceRepository {
	return &InvoiceRepository{invoices: newTable[billing.Invoice]("invoice", nil)}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *billing.Invoice) error {
	return r.invoices.insert(inv.Number, *inv)
}

func (r *InvoiceRepository) FindByNumber(ctx context.Context, number int64) (*billing.Invoice, error) {
	inv, err := r.invoices.get(number)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *billing.Invoice) error {
	return r.invoices.update(inv.Number, *inv)
}

// List returns invoices in generation order
func (r *InvoiceRepository) List(ctx context.Context) ([]billing.Invoice, error) {
	return r.invoices.list(nil), nil
}

func (r *InvoiceRepository) ListByState(ctx context.Context, state billing.InvoiceState) ([]billing.Invoice, error) {
	return r.invoices.list(func(inv billing.Invoice) bool { return inv.State == state }), nil
}
