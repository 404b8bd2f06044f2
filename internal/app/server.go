// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"io"

	"clinic-billing/internal/config"
	billingHandler "clinic-billing/internal/handlers/billing"
	clinicHandler "clinic-billing/internal/handlers/clinic"
	"clinic-billing/internal/pkg/prompt"
	"clinic-billing/internal/repository/memory"
	billingUsecase "clinic-billing/internal/service/billing"
	clinicUsecase "clinic-billing/internal/service/clinic"

	"go.uber.org/zap"
)

// Desk is one console application: a menu over its services plus optional demo data.
type Desk struct {
	cfg    config.AppConfig
	logger *zap.Logger
	menu   *Menu
	seed   func(context.Context) error
}

// Run seeds demo data when enabled and serves the menu on in/out.
func (d *Desk) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	for _, key := range d.cfg.Invalid {
		d.logger.Warn("invalid config value, using default", zap.String("key", key))
	}

	if d.cfg.SeedSampleData && d.seed != nil {
		if err := d.seed(ctx); err != nil {
			return fmt.Errorf("failed to seed sample data: %w", err)
		}
	}

	return d.menu.Serve(ctx, prompt.New(in, out))
}

func NewBillingDesk(cfg config.AppConfig, logger *zap.Logger) (*Desk, error) {
	// ----- Repositories -----
	planRepo := memory.NewPlanRepository()
	subscriberRepo := memory.NewSubscriberRepository()
	invoiceRepo := memory.NewInvoiceRepository()

	// ----- Services -----
	opts := billingUsecase.DefaultOptions()
	opts.InvoiceStart = cfg.InvoiceStartNumber
	opts.DueDays = cfg.InvoiceDueDays
	opts.AnnualDiscount = cfg.AnnualDiscount
	billingService := billingUsecase.NewBillingService(planRepo, subscriberRepo, invoiceRepo, opts, logger)

	// The plan catalog is part of the desk, not demo data.
	if err := billingService.EnsureCatalog(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to install plan catalog: %w", err)
	}

	// ----- Handlers -----
	h := billingHandler.NewBillingHandler(billingService, cfg.CurrencySymbol)

	menu := NewMenu("Subscription Billing", logger,
		Command{Choice: "1", Label: "Add Subscriber", Run: h.AddSubscriber},
		Command{Choice: "2", Label: "Change Plan", Run: h.ChangePlan},
		Command{Choice: "3", Label: "Cancel Subscription", Run: h.CancelSubscription},
		Command{Choice: "4", Label: "Generate Invoice", Run: h.GenerateInvoice},
		Command{Choice: "5", Label: "Record Payment", Run: h.RecordPayment},
		Command{Choice: "6", Label: "List Invoices", Run: h.ListInvoices},
		Command{Choice: "7", Label: "Revenue Report", Run: h.RevenueReport},
		Command{Choice: "8", Label: "Mark Overdue Invoices", Run: h.MarkOverdue},
		Command{Choice: "9", Label: "List Subscribers", Run: h.ListSubscribers},
		Command{Choice: "10", Label: "Show Subscriber", Run: h.ShowSubscriber},
		Command{Choice: "0", Label: "Exit"},
	)

	return &Desk{cfg: cfg, logger: logger, menu: menu}, nil
}

func NewClinicDesk(cfg config.AppConfig, logger *zap.Logger) (*Desk, error) {
	// ----- Services -----
	opts := clinicUsecase.DefaultOptions()
	opts.TaxRate = cfg.TaxRate
	clinicService := clinicUsecase.NewClinicService(clinicUsecase.NewRepositories(), opts, logger)

	// ----- Handlers -----
	h := clinicHandler.NewClinicHandler(clinicService, cfg.CurrencySymbol)

	menu := NewMenu("Clinic Management", logger,
		Command{Choice: "1", Label: "Add Patient", Run: h.AddPatient},
		Command{Choice: "2", Label: "Add Doctor", Run: h.AddDoctor},
		Command{Choice: "3", Label: "Schedule Appointment", Run: h.ScheduleAppointment},
		Command{Choice: "4", Label: "Record Consultation", Run: h.RecordConsultation},
		Command{Choice: "5", Label: "Generate Invoice", Run: h.GenerateInvoice},
		Command{Choice: "6", Label: "Record Payment", Run: h.RecordPayment},
		Command{Choice: "7", Label: "List Appointments", Run: h.ListAppointments},
		Command{Choice: "8", Label: "Outstanding Dues Report", Run: h.OutstandingReport},
		Command{Choice: "9", Label: "Exit"},
		Command{Choice: "10", Label: "Complete Appointment", Run: h.CompleteAppointment},
		Command{Choice: "11", Label: "Cancel Appointment", Run: h.CancelAppointment},
		Command{Choice: "12", Label: "Add Prescription Item", Run: h.AddPrescriptionItem},
		Command{Choice: "13", Label: "List Patients & Doctors", Run: h.ListPeople},
		Command{Choice: "14", Label: "Show Invoice", Run: h.ShowInvoice},
	)

	return &Desk{
		cfg:    cfg,
		logger: logger,
		menu:   menu,
		seed: func(ctx context.Context) error {
			return seedClinic(ctx, clinicService, opts.Now(), logger)
		},
	}, nil
}
