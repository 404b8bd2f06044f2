// internal/handlers/billing/billing_handler.go
package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinic-billing/internal/domain/billing"
	xerrors "clinic-billing/internal/pkg/errors"
	"clinic-billing/internal/pkg/money"
	"clinic-billing/internal/pkg/prompt"
	"clinic-billing/internal/pkg/response"
	service "clinic-billing/internal/service/billing"
)

type BillingHandler struct {
	billingService *service.BillingService
	currency       string
}

func NewBillingHandler(billingService *service.BillingService, currency string) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		currency:       currency,
	}
}

// ========== Subscribers ==========

func (h *BillingHandler) AddSubscriber(ctx context.Context, p *prompt.Prompter) error {
	id, err := p.Int("Subscriber ID: ")
	if err != nil {
		return inputError(p, err)
	}
	name, err := p.Line("Name: ")
	if err != nil {
		return err
	}
	email, err := p.Line("Email: ")
	if err != nil {
		return err
	}
	plan, err := h.choosePlan(ctx, p)
	if err != nil || plan == nil {
		return err
	}

	sub, err := h.billingService.AddSubscriber(ctx, &billing.AddSubscriberRequest{
		ID:     id,
		Name:   name,
		Email:  email,
		PlanID: plan.ID,
	})
	if err != nil {
		response.Error(p.Out(), "Could not add subscriber", err)
		return nil
	}

	response.Success(p.Out(), "Subscriber Added!", sub)
	return nil
}

func (h *BillingHandler) ChangePlan(ctx context.Context, p *prompt.Prompter) error {
	id, err := p.Int("Subscriber ID: ")
	if err != nil {
		return inputError(p, err)
	}
	plan, err := h.choosePlan(ctx, p)
	if err != nil || plan == nil {
		return err
	}

	sub, err := h.billingService.ChangePlan(ctx, id, plan.ID)
	if err != nil {
		failure(p, "Subscriber", "Could not change plan", err)
		return nil
	}

	response.Success(p.Out(), "Plan Changed!", sub)
	return nil
}

func (h *BillingHandler) CancelSubscription(ctx context.Context, p *prompt.Prompter) error {
	id, err := p.Int("Subscriber ID: ")
	if err != nil {
		return inputError(p, err)
	}

	sub, err := h.billingService.CancelSubscription(ctx, id)
	if err != nil {
		failure(p, "Subscriber", "Could not cancel subscription", err)
		return nil
	}

	response.Success(p.Out(), "Subscription Cancelled!", sub)
	return nil
}

func (h *BillingHandler) ListSubscribers(ctx context.Context, p *prompt.Prompter) error {
	subs, err := h.billingService.ListSubscribers(ctx)
	if err != nil {
		response.Error(p.Out(), "Could not list subscribers", err)
		return nil
	}
	response.Table(p.Out(), "--- Subscribers ---", subs, "No subscribers yet.")
	return nil
}

// ShowSubscriber prints a subscriber with the plan it is billed on.
func (h *BillingHandler) ShowSubscriber(ctx context.Context, p *prompt.Prompter) error {
	id, err := p.Int("Subscriber ID: ")
	if err != nil {
		return inputError(p, err)
	}

	sub, err := h.billingService.GetSubscriber(ctx, id)
	if err != nil {
		failure(p, "Subscriber", "Could not load subscriber", err)
		return nil
	}
	plan, err := h.billingService.GetPlan(ctx, sub.PlanID)
	if err != nil {
		failure(p, "Plan", "Could not load plan", err)
		return nil
	}

	fmt.Fprintln(p.Out(), sub)
	fmt.Fprintf(p.Out(), "Plan: %s\nCharge per cycle: %s\n", plan, money.Format(h.currency, plan.ComputeAmount()))
	return nil
}

// ========== Invoices ==========

func (h *BillingHandler) GenerateInvoice(ctx context.Context, p *prompt.Prompter) error {
	id, err := p.Int("Subscriber ID: ")
	if err != nil {
		return inputError(p, err)
	}

	inv, err := h.billingService.GenerateInvoice(ctx, id)
	if err != nil {
		failure(p, "Subscriber", "Could not generate invoice", err)
		return nil
	}

	response.Success(p.Out(), "Invoice Generated: "+inv.String())
	return nil
}

// RecordPayment settles an invoice in full. Paying twice only reports the existing payment.
func (h *BillingHandler) RecordPayment(ctx context.Context, p *prompt.Prompter) error {
	no, err := p.Int("Invoice No: ")
	if err != nil {
		return inputError(p, err)
	}

	result, err := h.billingService.RecordPayment(ctx, no)
	if err != nil {
		failure(p, "Invoice", "Could not record payment", err)
		return nil
	}
	if result.AlreadyPaid {
		response.Success(p.Out(), fmt.Sprintf("Invoice #%d is already paid.", result.Invoice.Number))
		return nil
	}

	response.Success(p.Out(), "Payment Recorded!", result.Invoice)
	return nil
}

func (h *BillingHandler) MarkOverdue(ctx context.Context, p *prompt.Prompter) error {
	n, err := h.billingService.MarkOverdue(ctx)
	if err != nil {
		response.Error(p.Out(), "Could not mark overdue invoices", err)
		return nil
	}
	response.Success(p.Out(), fmt.Sprintf("%d invoice(s) marked overdue.", n))
	return nil
}

func (h *BillingHandler) ListInvoices(ctx context.Context, p *prompt.Prompter) error {
	invoices, err := h.billingService.ListInvoices(ctx)
	if err != nil {
		response.Error(p.Out(), "Could not list invoices", err)
		return nil
	}
	response.Table(p.Out(), "--- Invoices ---", invoices, "No invoices yet.")
	return nil
}

func (h *BillingHandler) RevenueReport(ctx context.Context, p *prompt.Prompter) error {
	report, err := h.billingService.RevenueReport(ctx)
	if err != nil {
		response.Error(p.Out(), "Could not build revenue report", err)
		return nil
	}

	w := p.Out()
	fmt.Fprintln(w, "--- Revenue Report ---")
	fmt.Fprintf(w, "Total Revenue: %s\n", money.Format(h.currency, report.TotalRevenue))
	fmt.Fprintf(w, "Outstanding: %s\n", money.Format(h.currency, report.Outstanding))
	fmt.Fprintf(w, "Invoices: %d pending, %d paid, %d overdue\n", report.Pending, report.Paid, report.Overdue)
	return nil
}

// ========== helpers ==========

// choosePlan asks for a menu plan code. A nil plan with a nil error means the
// choice was rejected and already reported.
func (h *BillingHandler) choosePlan(ctx context.Context, p *prompt.Prompter) (*billing.Plan, error) {
	plans, err := h.billingService.ListPlans(ctx)
	if err != nil {
		response.Error(p.Out(), "Could not list plans", err)
		return nil, nil
	}
	codes := make([]string, 0, len(plans))
	for _, pl := range plans {
		codes = append(codes, pl.Code+"="+pl.Name)
	}

	choice, err := p.Line("Plan (" + strings.Join(codes, ", ") + "): ")
	if err != nil {
		return nil, err
	}
	plan, err := h.billingService.PlanByChoice(ctx, choice)
	if err != nil {
		response.Error(p.Out(), "Could not select plan", err)
		return nil, nil
	}
	return plan, nil
}

// failure prints the short not-found diagnostic, or the full reason for anything else.
func failure(p *prompt.Prompter, what, message string, err error) {
	if errors.Is(err, xerrors.ErrNotFound) {
		response.NotFound(p.Out(), what)
		return
	}
	response.Error(p.Out(), message, err)
}

// inputError reports malformed input and keeps the menu running. End of input is passed up.
func inputError(p *prompt.Prompter, err error) error {
	if !errors.Is(err, xerrors.ErrInvalidInput) {
		return err
	}
	response.Error(p.Out(), "Input rejected", err)
	return nil
}
