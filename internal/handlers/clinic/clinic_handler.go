// internal/handlers/clinic/clinic_handler.go
package clinic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinic-billing/internal/domain/clinic"
	xerrors "clinic-billing/internal/pkg/errors"
	"clinic-billing/internal/pkg/money"
	"clinic-billing/internal/pkg/prompt"
	"clinic-billing/internal/pkg/response"
	service "clinic-billing/internal/service/clinic"
)

type ClinicHandler struct {
	clinicService *service.ClinicService
	currency      string
}

func NewClinicHandler(clinicService *service.ClinicService, currency string) *ClinicHandler {
	return &ClinicHandler{
		clinicService: clinicService,
		currency:      currency,
	}
}

// ========== People ==========

func (h *ClinicHandler) AddPatient(ctx context.Context, p *prompt.Prompter) error {
	name, err := p.Line("Patient name: ")
	if err != nil {
		return err
	}
	contact, err := p.Line("Contact: ")
	if err != nil {
		return err
	}

	patient, err := h.clinicService.AddPatient(ctx, name, contact)
	if err != nil {
		response.Error(p.Out(), "Could not add patient", err)
		return nil
	}

	response.Success(p.Out(), "Added: "+patient.String())
	return nil
}

func (h *ClinicHandler) AddDoctor(ctx context.Context, p *prompt.Prompter) error {
	name, err := p.Line("Doctor name: ")
	if err != nil {
		return err
	}
	specialty, err := p.Line("Specialty: ")
	if err != nil {
		return err
	}
	contact, err := p.Line("Contact: ")
	if err != nil {
		return err
	}

	doctor, err := h.clinicService.AddDoctor(ctx, name, specialty, contact)
	if err != nil {
		response.Error(p.Out(), "Could not add doctor", err)
		return nil
	}

	response.Success(p.Out(), "Added: "+doctor.String())
	return nil
}

// ListPeople prints the patient and doctor registries.
func (h *ClinicHandler) ListPeople(ctx context.Context, p *prompt.Prompter) error {
	patients, err := h.clinicService.ListPatients(ctx)
	if err != nil {
		response.Error(p.Out(), "Could not list patients", err)
		return nil
	}
	doctors, err := h.clinicService.ListDoctors(ctx)
	if err != nil {
		response.Error(p.Out(), "Could not list doctors", err)
		return nil
	}
	response.Table(p.Out(), "--- Patients ---", patients, "No patients.")
	response.Table(p.Out(), "--- Doctors ---", doctors, "No doctors.")
	return nil
}

// ========== Appointments ==========

func (h *ClinicHandler) ScheduleAppointment(ctx context.Context, p *prompt.Prompter) error {
	patientID, err := p.Int("Patient ID: ")
	if err != nil {
		return inputError(p, err)
	}
	doctorID, err := p.Int("Doctor ID: ")
	if err != nil {
		return inputError(p, err)
	}
	slot, err := p.Time("Date & time (yyyy-MM-dd HH:mm): ")
	if err != nil {
		return inputError(p, err)
	}

	appt, err := h.clinicService.ScheduleAppointment(ctx, patientID, doctorID, slot)
	if err != nil {
		response.Error(p.Out(), "Could not schedule", err)
		return nil
	}

	response.Success(p.Out(), "Scheduled: "+appt.String())
	return nil
}

func (h *ClinicHandler) CompleteAppointment(ctx context.Context, p *prompt.Prompter) error {
	return h.transition(ctx, p, "Completed", h.clinicService.CompleteAppointment)
}

func (h *ClinicHandler) CancelAppointment(ctx context.Context, p *prompt.Prompter) error {
	return h.transition(ctx, p, "Cancelled", h.clinicService.CancelAppointment)
}

func (h *ClinicHandler) transition(
	ctx context.Context,
	p *prompt.Prompter,
	done string,
	apply func(context.Context, int64) (*clinic.Appointment, error),
) error {
	id, err := p.Int("Appointment ID: ")
	if err != nil {
		return inputError(p, err)
	}

	appt, err := apply(ctx, id)
	if err != nil {
		failure(p, "Appointment", "Could not update appointment", err)
		return nil
	}

	response.Success(p.Out(), fmt.Sprintf("%s appointment %d (status=%s)", done, appt.ID, appt.Status))
	return nil
}

// ListAppointments prints every appointment, or one doctor's when an id is given.
func (h *ClinicHandler) ListAppointments(ctx context.Context, p *prompt.Prompter) error {
	doctorID, err := p.OptionalInt("Doctor ID (blank for all): ")
	if err != nil {
		return inputError(p, err)
	}

	appts, err := h.clinicService.ListAppointments(ctx, doctorID)
	if err != nil {
		response.Error(p.Out(), "Could not list appointments", err)
		return nil
	}
	response.Table(p.Out(), "--- Appointments ---", appts, "No appointments.")
	return nil
}

// ========== Consultations ==========

// RecordConsultation collects notes, fee and prescription lines until a blank item name.
func (h *ClinicHandler) RecordConsultation(ctx context.Context, p *prompt.Prompter) error {
	apptID, err := p.Int("Appointment ID (must be COMPLETED): ")
	if err != nil {
		return inputError(p, err)
	}
	appt, err := h.clinicService.GetAppointment(ctx, apptID)
	if err != nil {
		failure(p, "Appointment", "Could not record consultation", err)
		return nil
	}
	if appt.Status != clinic.AppointmentCompleted {
		response.Error(p.Out(), "Could not record consultation",
			fmt.Errorf("%w (status %s)", clinic.ErrAppointmentNotCompleted, appt.Status))
		return nil
	}
	notes, err := p.Line("Notes: ")
	if err != nil {
		return err
	}
	fee, err := p.Amount("Consultation fee: ")
	if err != nil {
		return inputError(p, err)
	}

	var items []clinic.PrescriptionItem
	for {
		name, err := p.Line("Prescription item name (blank to finish): ")
		if err != nil {
			return err
		}
		if strings.TrimSpace(name) == "" {
			break
		}
		qty, err := p.Int("Quantity: ")
		if err != nil {
			return inputError(p, err)
		}
		price, err := p.Amount("Unit price: ")
		if err != nil {
			return inputError(p, err)
		}
		items = append(items, clinic.PrescriptionItem{Name: strings.TrimSpace(name), Quantity: qty, UnitPrice: price})
	}

	c, err := h.clinicService.RecordConsultation(ctx, &clinic.RecordConsultationRequest{
		AppointmentID: apptID,
		Notes:         notes,
		Fee:           fee,
		Items:         items,
	})
	if err != nil {
		response.Error(p.Out(), "Could not record consultation", err)
		return nil
	}

	response.Success(p.Out(), "Recorded: "+c.Summary())
	return nil
}

// AddPrescriptionItem appends one line to a recorded consultation. An invoice already
// generated for it keeps the items it was issued with.
func (h *ClinicHandler) AddPrescriptionItem(ctx context.Context, p *prompt.Prompter) error {
	consultationID, err := p.Int("Consultation ID: ")
	if err != nil {
		return inputError(p, err)
	}
	existing, err := h.clinicService.GetConsultation(ctx, consultationID)
	if err != nil {
		failure(p, "Consultation", "Could not load consultation", err)
		return nil
	}

	name, err := p.Line("Item name: ")
	if err != nil {
		return err
	}
	qty, err := p.Int("Quantity: ")
	if err != nil {
		return inputError(p, err)
	}
	price, err := p.Amount("Unit price: ")
	if err != nil {
		return inputError(p, err)
	}

	c, err := h.clinicService.AddPrescriptionItem(ctx, existing.ID, clinic.PrescriptionItem{
		Name:      strings.TrimSpace(name),
		Quantity:  qty,
		UnitPrice: price,
	})
	if err != nil {
		response.Error(p.Out(), "Could not add item", err)
		return nil
	}

	response.Success(p.Out(), "Updated: "+c.Summary())
	if c.HasInvoice() {
		fmt.Fprintf(p.Out(), "Invoice %d was issued earlier and is unchanged.\n", c.InvoiceID)
	}
	return nil
}

// ========== Invoices & payments ==========

func (h *ClinicHandler) GenerateInvoice(ctx context.Context, p *prompt.Prompter) error {
	consultationID, err := p.Int("Consultation ID: ")
	if err != nil {
		return inputError(p, err)
	}

	inv, err := h.clinicService.GenerateInvoice(ctx, consultationID)
	if err != nil {
		failure(p, "Consultation", "Could not generate invoice", err)
		return nil
	}

	response.Success(p.Out(), "Invoice created:", inv)
	return nil
}

// RecordPayment takes a full cash or card payment; partial amounts are refused.
func (h *ClinicHandler) RecordPayment(ctx context.Context, p *prompt.Prompter) error {
	invoiceID, err := p.Int("Invoice ID: ")
	if err != nil {
		return inputError(p, err)
	}
	inv, err := h.clinicService.GetInvoice(ctx, invoiceID)
	if err != nil {
		failure(p, "Invoice", "Could not load invoice", err)
		return nil
	}
	if !inv.IsOpen() {
		response.Error(p.Out(), "Payment rejected", clinic.ErrInvoiceClosed)
		return nil
	}
	fmt.Fprintln(p.Out(), inv)

	raw, err := p.Line("Payment method (cash/card): ")
	if err != nil {
		return err
	}
	method, err := clinic.ParsePaymentMethod(raw)
	if err != nil {
		response.Error(p.Out(), "Payment rejected", err)
		return nil
	}

	req := &clinic.PaymentRequest{Method: method}
	if method == clinic.PaymentMethodCard {
		if req.CardHolder, err = p.Line("Card holder: "); err != nil {
			return err
		}
	}
	prompted := fmt.Sprintf("Amount (%s): ", money.Format(h.currency, inv.Total()))
	if req.Amount, err = p.Amount(prompted); err != nil {
		return inputError(p, err)
	}

	result, err := h.clinicService.RecordPayment(ctx, invoiceID, req)
	if err != nil {
		response.Error(p.Out(), "Payment rejected", err)
		return nil
	}

	response.Success(p.Out(), "Payment accepted.", result.Receipt)
	return nil
}

// ShowInvoice prints an invoice with the payments recorded against it.
func (h *ClinicHandler) ShowInvoice(ctx context.Context, p *prompt.Prompter) error {
	invoiceID, err := p.Int("Invoice ID: ")
	if err != nil {
		return inputError(p, err)
	}
	inv, err := h.clinicService.GetInvoice(ctx, invoiceID)
	if err != nil {
		failure(p, "Invoice", "Could not load invoice", err)
		return nil
	}
	payments, err := h.clinicService.ListPayments(ctx, invoiceID)
	if err != nil {
		response.Error(p.Out(), "Could not list payments", err)
		return nil
	}

	w := p.Out()
	fmt.Fprintln(w, inv)
	fmt.Fprintln(w, "Payments:")
	if len(payments) == 0 {
		fmt.Fprintln(w, "(none)")
	}
	for _, pay := range payments {
		fmt.Fprintf(w, "  %s | %s | %s | %s\n",
			pay.Reference, pay.Method, money.Format(h.currency, pay.Amount), pay.Status)
	}
	return nil
}

func (h *ClinicHandler) OutstandingReport(ctx context.Context, p *prompt.Prompter) error {
	report, err := h.clinicService.ReportOutstanding(ctx)
	if err != nil {
		response.Error(p.Out(), "Could not build report", err)
		return nil
	}

	w := p.Out()
	fmt.Fprintln(w, "--- Outstanding invoices ---")
	if len(report.Invoices) == 0 {
		fmt.Fprintln(w, "None.")
	}
	for _, inv := range report.Invoices {
		fmt.Fprintf(w, "Invoice %d | %s | %s\n", inv.ID, inv.PatientName, money.Format(h.currency, inv.Total()))
	}
	fmt.Fprintf(w, "Total outstanding: %s\n", money.Format(h.currency, report.Total))
	return nil
}

// ========== helpers ==========

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
