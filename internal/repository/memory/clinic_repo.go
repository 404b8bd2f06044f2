// internal/repository/memory/clinic_repo.go
package memory

import (
	"context"
	"slices"

	"clinic-billing/internal/domain/clinic"
)

type PatientRepository struct {
	patients *table[clinic.Patient]
}

func NewPatientRepository() *PatientRepository {
	return &PatientRepository{patients: newTable[clinic.Patient]("patient", nil)}
}

func (r *PatientRepository) Create(ctx context.Context, p *clinic.Patient) error {
	return r.patients.insert(p.ID, *p)
}

func (r *PatientRepository) FindByID(ctx context.Context, id int64) (*clinic.Patient, error) {
	p, err := r.patients.get(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) List(ctx context.Context) ([]clinic.Patient, error) {
	return r.patients.list(nil), nil
}

type DoctorRepository struct {
	doctors *table[clinic.Doctor]
}

func NewDoctorRepository() *DoctorRepository {
	return &DoctorRepository{doctors: newTable[clinic.Doctor]("doctor", nil)}
}

func (r *DoctorRepository) Create(ctx context.Context, d *clinic.Doctor) error {
	return r.doctors.insert(d.ID, *d)
}

func (r *DoctorRepository) FindByID(ctx context.Context, id int64) (*clinic.Doctor, error) {
	d, err := r.doctors.get(id)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DoctorRepository) List(ctx context.Context) ([]clinic.Doctor, error) {
	return r.doctors.list(nil), nil
}

type AppointmentRepository struct {
	appointments *table[clinic.Appointment]
}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{appointments: newTable[clinic.Appointment]("appointment", nil)}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *clinic.Appointment) error {
	return r.appointments.insert(a.ID, *a)
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id int64) (*clinic.Appointment, error) {
	a, err := r.appointments.get(id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, a *clinic.Appointment) error {
	return r.appointments.update(a.ID, *a)
}

// List returns appointments in booking order, optionally only those of doctorID.
func (r *AppointmentRepository) List(ctx context.Context, doctorID *int64) ([]clinic.Appointment, error) {
	if doctorID == nil {
		return r.appointments.list(nil), nil
	}
	id := *doctorID
	return r.appointments.list(func(a clinic.Appointment) bool { return a.DoctorID == id }), nil
}

type ConsultationRepository struct {
	consultations *table[clinic.Consultation]
}

func NewConsultationRepository() *ConsultationRepository {
	return &ConsultationRepository{consultations: newTable("consultation", func(c clinic.Consultation) clinic.Consultation {
		c.Prescription = c.Prescription.Clone()
		return c
	})}
}

func (r *ConsultationRepository) Create(ctx context.Context, c *clinic.Consultation) error {
	return r.consultations.insert(c.ID, *c)
}

func (r *ConsultationRepository) FindByID(ctx context.Context, id int64) (*clinic.Consultation, error) {
	c, err := r.consultations.get(id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByAppointment returns nil when the appointment has no consultation yet.
func (r *ConsultationRepository) FindByAppointment(ctx context.Context, appointmentID int64) (*clinic.Consultation, error) {
	found := r.consultations.list(func(c clinic.Consultation) bool { return c.AppointmentID == appointmentID })
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (r *ConsultationRepository) Update(ctx context.Context, c *clinic.Consultation) error {
	return r.consultations.update(c.ID, *c)
}

type ClinicInvoiceRepository struct {
	invoices *table[clinic.Invoice]
}

func NewClinicInvoiceRepository() *ClinicInvoiceRepository {
	return &ClinicInvoiceRepository{invoices: newTable("invoice", func(inv clinic.Invoice) clinic.Invoice {
		inv.Items = slices.Clone(inv.Items)
		return inv
	})}
}

func (r *ClinicInvoiceRepository) Create(ctx context.Context, inv *clinic.Invoice) error {
	return r.invoices.insert(inv.ID, *inv)
}

func (r *ClinicInvoiceRepository) FindByID(ctx context.Context, id int64) (*clinic.Invoice, error) {
	inv, err := r.invoices.get(id)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *ClinicInvoiceRepository) Update(ctx context.Context, inv *clinic.Invoice) error {
	return r.invoices.update(inv.ID, *inv)
}

func (r *ClinicInvoiceRepository) ListByStatus(ctx context.Context, status clinic.InvoiceStatus) ([]clinic.Invoice, error) {
	return r.invoices.list(func(inv clinic.Invoice) bool { return inv.Status == status }), nil
}

type PaymentRepository struct {
	payments *table[clinic.Payment]
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{payments: newTable[clinic.Payment]("payment", nil)}
}

func (r *PaymentRepository) Create(ctx context.Context, p *clinic.Payment) error {
	return r.payments.insert(p.ID, *p)
}

func (r *PaymentRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]clinic.Payment, error) {
	return r.payments.list(func(p clinic.Payment) bool { return p.InvoiceID == invoiceID }), nil
}
