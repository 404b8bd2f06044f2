// internal/service/clinic/clinic_service.go
package clinic

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"clinic-billing/internal/domain/clinic"
	xerrors "clinic-billing/internal/pkg/errors"
	"clinic-billing/internal/pkg/money"
	"clinic-billing/internal/pkg/sequence"
	"clinic-billing/internal/repository/memory"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Options struct {
	TaxRate decimal.Decimal
	Now     func() time.Time
}

func DefaultOptions() Options {
	return Options{TaxRate: decimal.RequireFromString("0.12"), Now: time.Now}
}

type Repositories struct {
	Patients      *memory.PatientRepository
	Doctors       *memory.DoctorRepository
	Appointments  *memory.AppointmentRepository
	Consultations *memory.ConsultationRepository
	Invoices      *memory.ClinicInvoiceRepository
	Payments      *memory.PaymentRepository
}

// NewRepositories returns an empty set of in-memory repositories.
func NewRepositories() Repositories {
	return Repositories{
		Patients:      memory.NewPatientRepository(),
		Doctors:       memory.NewDoctorRepository(),
		Appointments:  memory.NewAppointmentRepository(),
		Consultations: memory.NewConsultationRepository(),
		Invoices:      memory.NewClinicInvoiceRepository(),
		Payments:      memory.NewPaymentRepository(),
	}
}

// ClinicService owns the clinic collections and enforces the
// appointment -> consultation -> invoice -> payment sequence.
type ClinicService struct {
	repos  Repositories
	opts   Options
	logger *zap.Logger

	mu              sync.Mutex
	patientSeq      *sequence.Sequence
	doctorSeq       *sequence.Sequence
	appointmentSeq  *sequence.Sequence
	consultationSeq *sequence.Sequence
	invoiceSeq      *sequence.Sequence
	paymentSeq      *sequence.Sequence
}

func NewClinicService(repos Repositories, opts Options, logger *zap.Logger) *ClinicService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ClinicService{
		repos:           repos,
		opts:            opts,
		logger:          logger,
		patientSeq:      sequence.New(1),
		doctorSeq:       sequence.New(1),
		appointmentSeq:  sequence.New(1),
		consultationSeq: sequence.New(1),
		invoiceSeq:      sequence.New(1),
		paymentSeq:      sequence.New(1),
	}
}

// ========== People ==========

func (s *ClinicService) AddPatient(ctx context.Context, name, contact string) (*clinic.Patient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, xerrors.Invalid("patient name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := &clinic.Patient{
		ID:        s.patientSeq.Next(),
		Name:      name,
		Contact:   strings.TrimSpace(contact),
		CreatedAt: s.opts.Now(),
	}
	if err := s.repos.Patients.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	s.logger.Info("patient added", zap.Int64("patient_id", p.ID))
	return p, nil
}

func (s *ClinicService) AddDoctor(ctx context.Context, name, specialty, contact string) (*clinic.Doctor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, xerrors.Invalid("doctor name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d := &clinic.Doctor{
		ID:        s.doctorSeq.Next(),
		Name:      name,
		Specialty: strings.TrimSpace(specialty),
		Contact:   strings.TrimSpace(contact),
		CreatedAt: s.opts.Now(),
	}
	if err := s.repos.Doctors.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}

	s.logger.Info("doctor added", zap.Int64("doctor_id", d.ID), zap.String("specialty", d.Specialty))
	return d, nil
}

func (s *ClinicService) GetPatient(ctx context.Context, id int64) (*clinic.Patient, error) {
	p, err := s.repos.Patients.FindByID(ctx, id)
	return notFoundAs(p, err, clinic.ErrPatientNotFound, id)
}

func (s *ClinicService) GetDoctor(ctx context.Context, id int64) (*clinic.Doctor, error) {
	d, err := s.repos.Doctors.FindByID(ctx, id)
	return notFoundAs(d, err, clinic.ErrDoctorNotFound, id)
}

func (s *ClinicService) ListPatients(ctx context.Context) ([]clinic.Patient, error) {
	return s.repos.Patients.List(ctx)
}

func (s *ClinicService) ListDoctors(ctx context.Context) ([]clinic.Doctor, error) {
	return s.repos.Doctors.List(ctx)
}

// ========== Appointments ==========

// ScheduleAppointment books a SCHEDULED appointment. A doctor cannot hold two SCHEDULED
// appointments at the same instant; different instants never conflict.
func (s *ClinicService) ScheduleAppointment(ctx context.Context, patientID, doctorID int64, slot time.Time) (*clinic.AppointmentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patient, err := s.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	doctor, err := s.GetDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	slot = slot.Truncate(time.Minute)
	booked, err := s.repos.Appointments.List(ctx, &doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	for _, a := range booked {
		if a.Occupies(doctorID, slot) {
			s.logger.Warn("slot already taken",
				zap.Int64("doctor_id", doctorID),
				zap.Time("slot", slot),
				zap.Int64("appointment_id", a.ID),
			)
			return nil, clinic.ErrSlotTaken
		}
	}

	now := s.opts.Now()
	a := &clinic.Appointment{
		ID:        s.appointmentSeq.Next(),
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		Slot:      slot,
		Status:    clinic.AppointmentScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repos.Appointments.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.logger.Info("appointment scheduled",
		zap.Int64("appointment_id", a.ID),
		zap.Int64("patient_id", patient.ID),
		zap.Int64("doctor_id", doctor.ID),
		zap.Time("slot", slot),
	)
	return &clinic.AppointmentDetail{Appointment: *a, Patient: *patient, Doctor: *doctor}, nil
}

func (s *ClinicService) CompleteAppointment(ctx context.Context, id int64) (*clinic.Appointment, error) {
	return s.transition(ctx, id, clinic.AppointmentCompleted)
}

func (s *ClinicService) CancelAppointment(ctx context.Context, id int64) (*clinic.Appointment, error) {
	return s.transition(ctx, id, clinic.AppointmentCancelled)
}

func (s *ClinicService) transition(ctx context.Context, id int64, to clinic.AppointmentStatus) (*clinic.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.Transition(to, s.opts.Now()); err != nil {
		return nil, err
	}
	if err := s.repos.Appointments.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.logger.Info("appointment status changed", zap.Int64("appointment_id", a.ID), zap.String("status", string(a.Status)))
	return a, nil
}

func (s *ClinicService) GetAppointment(ctx context.Context, id int64) (*clinic.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findAppointment(ctx, id)
}

// ListAppointments returns appointments sorted by slot, optionally for one doctor.
// Appointments sharing a slot keep their booking order.
func (s *ClinicService) ListAppointments(ctx context.Context, doctorID *int64) ([]clinic.AppointmentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appts, err := s.repos.Appointments.List(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	slices.SortStableFunc(appts, func(a, b clinic.Appointment) int {
		return a.Slot.Compare(b.Slot)
	})

	out := make([]clinic.AppointmentDetail, 0, len(appts))
	for _, a := range appts {
		patient, err := s.GetPatient(ctx, a.PatientID)
		if err != nil {
			return nil, err
		}
		doctor, err := s.GetDoctor(ctx, a.DoctorID)
		if err != nil {
			return nil, err
		}
		out = append(out, clinic.AppointmentDetail{Appointment: a, Patient: *patient, Doctor: *doctor})
	}
	return out, nil
}

// ========== Consultations ==========

// RecordConsultation records the single consultation of a COMPLETED appointment.
func (s *ClinicService) RecordConsultation(ctx context.Context, req *clinic.RecordConsultationRequest) (*clinic.Consultation, error) {
	if req.Fee.IsNegative() {
		return nil, xerrors.Invalid("consultation fee must not be negative")
	}
	for _, it := range req.Items {
		if err := it.Validate(); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.findAppointment(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if a.Status != clinic.AppointmentCompleted {
		return nil, fmt.Errorf("%w (status %s)", clinic.ErrAppointmentNotCompleted, a.Status)
	}
	existing, err := s.repos.Consultations.FindByAppointment(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up consultation: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w (consultation %d)", clinic.ErrConsultationExists, existing.ID)
	}

	patient, err := s.GetPatient(ctx, a.PatientID)
	if err != nil {
		return nil, err
	}
	doctor, err := s.GetDoctor(ctx, a.DoctorID)
	if err != nil {
		return nil, err
	}

	c := &clinic.Consultation{
		ID:            s.consultationSeq.Next(),
		AppointmentID: a.ID,
		PatientID:     patient.ID,
		PatientName:   patient.Name,
		DoctorID:      doctor.ID,
		DoctorName:    doctor.Name,
		Notes:         strings.TrimSpace(req.Notes),
		Fee:           req.Fee,
		Prescription:  clinic.Prescription{Items: slices.Clone(req.Items)},
	}
	if err := s.repos.Consultations.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create consultation: %w", err)
	}

	s.logger.Info("consultation recorded",
		zap.Int64("consultation_id", c.ID),
		zap.Int64("appointment_id", a.ID),
		zap.Int("items", len(c.Prescription.Items)),
	)
	return c, nil
}

// AddPrescriptionItem appends a line item. Invoices already generated keep their snapshot.
func (s *ClinicService) AddPrescriptionItem(ctx context.Context, consultationID int64, item clinic.PrescriptionItem) (*clinic.Consultation, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.findConsultation(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	c.Prescription.AddItem(item)
	if err := s.repos.Consultations.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update consultation: %w", err)
	}
	return c, nil
}

func (s *ClinicService) GetConsultation(ctx context.Context, id int64) (*clinic.Consultation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findConsultation(ctx, id)
}

// ========== Invoices & payments ==========

// GenerateInvoice creates the one invoice a consultation may have.
func (s *ClinicService) GenerateInvoice(ctx context.Context, consultationID int64) (*clinic.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.findConsultation(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if c.HasInvoice() {
		return nil, fmt.Errorf("%w (invoice %d)", clinic.ErrInvoiceExists, c.InvoiceID)
	}

	inv := clinic.NewInvoice(s.invoiceSeq.Next(), *c, s.opts.TaxRate, s.opts.Now())
	if err := s.repos.Invoices.Create(ctx, &inv); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	c.InvoiceID = inv.ID
	if err := s.repos.Consultations.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to link invoice: %w", err)
	}

	s.logger.Info("invoice generated",
		zap.Int64("invoice_id", inv.ID),
		zap.Int64("consultation_id", c.ID),
		zap.String("total", inv.Total().String()),
	)
	return &inv, nil
}

func (s *ClinicService) GetInvoice(ctx context.Context, id int64) (*clinic.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findInvoice(ctx, id)
}

// RecordPayment settles an OPEN invoice in full. The payment is settled and the
// invoice closed under the same lock; partial amounts are rejected.
func (s *ClinicService) RecordPayment(ctx context.Context, invoiceID int64, req *clinic.PaymentRequest) (*clinic.PaymentResult, error) {
	if err := validatePayment(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inv, err := s.findInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.IsOpen() {
		return nil, clinic.ErrInvoiceClosed
	}
	due := inv.Total()
	if !money.Covers(req.Amount, due) {
		s.logger.Warn("payment rejected",
			zap.Int64("invoice_id", inv.ID),
			zap.String("amount", req.Amount.String()),
			zap.String("due", due.String()),
		)
		return nil, fmt.Errorf("%w (due %s, offered %s)", clinic.ErrInsufficientPayment, due.StringFixed(2), req.Amount.StringFixed(2))
	}

	now := s.opts.Now()
	p := &clinic.Payment{
		ID:        s.paymentSeq.Next(),
		Reference: ulid.Make().String(),
		InvoiceID: inv.ID,
		Method:    req.Method,
		Amount:    req.Amount,
		Status:    clinic.PaymentPending,
		PaidAt:    now,
	}
	if req.Method == clinic.PaymentMethodCard {
		p.CardHolder = strings.TrimSpace(req.CardHolder)
	}
	p.Settle()
	before := *inv
	inv.Close(p.ID, now)

	if err := s.repos.Invoices.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to close invoice: %w", err)
	}
	if err := s.repos.Payments.Create(ctx, p); err != nil {
		if rbErr := s.repos.Invoices.Update(ctx, &before); rbErr != nil {
			s.logger.Error("failed to reopen invoice", zap.Int64("invoice_id", inv.ID), zap.Error(rbErr))
		}
		return nil, fmt.Errorf("failed to store payment: %w", err)
	}

	s.logger.Info("payment settled",
		zap.Int64("invoice_id", inv.ID),
		zap.Int64("payment_id", p.ID),
		zap.String("reference", p.Reference),
		zap.String("method", string(p.Method)),
		zap.String("amount", p.Amount.String()),
	)
	return &clinic.PaymentResult{Payment: *p, Invoice: *inv, Receipt: p.Receipt(inv.PatientName)}, nil
}

func validatePayment(req *clinic.PaymentRequest) error {
	switch req.Method {
	case clinic.PaymentMethodCash:
	case clinic.PaymentMethodCard:
		if strings.TrimSpace(req.CardHolder) == "" {
			return xerrors.Invalid("card holder name is required for card payments")
		}
	default:
		return fmt.Errorf("%w: %q", clinic.ErrUnknownPaymentMethod, req.Method)
	}
	if req.Amount.IsNegative() {
		return xerrors.Invalid("amount must not be negative")
	}
	return nil
}

func (s *ClinicService) ListPayments(ctx context.Context, invoiceID int64) ([]clinic.Payment, error) {
	return s.repos.Payments.ListByInvoice(ctx, invoiceID)
}

// ReportOutstanding lists OPEN invoices by id with the amount still due.
func (s *ClinicService) ReportOutstanding(ctx context.Context) (*clinic.OutstandingReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.repos.Invoices.ListByStatus(ctx, clinic.InvoiceOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	slices.SortFunc(open, func(a, b clinic.Invoice) int { return cmp.Compare(a.ID, b.ID) })

	report := &clinic.OutstandingReport{Invoices: open, Total: decimal.Zero}
	for _, inv := range open {
		report.Total = report.Total.Add(inv.Total())
	}
	return report, nil
}

// ========== lookups ==========

func (s *ClinicService) findAppointment(ctx context.Context, id int64) (*clinic.Appointment, error) {
	a, err := s.repos.Appointments.FindByID(ctx, id)
	return notFoundAs(a, err, clinic.ErrAppointmentNotFound, id)
}

func (s *ClinicService) findConsultation(ctx context.Context, id int64) (*clinic.Consultation, error) {
	c, err := s.repos.Consultations.FindByID(ctx, id)
	return notFoundAs(c, err, clinic.ErrConsultationNotFound, id)
}

func (s *ClinicService) findInvoice(ctx context.Context, id int64) (*clinic.Invoice, error) {
	inv, err := s.repos.Invoices.FindByID(ctx, id)
	return notFoundAs(inv, err, clinic.ErrInvoiceNotFound, id)
}

// notFoundAs replaces a repository not-found error with the domain sentinel for the entity.
func notFoundAs[T any](v *T, err error, notFound error, id int64) (*T, error) {
	if err == nil {
		return v, nil
	}
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", notFound, id)
	}
	return nil, err
}
