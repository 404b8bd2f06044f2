package clinic

import (
	"context"
	"testing"
	"time"

	"clinic-billing/internal/domain/clinic"
	xerrors "clinic-billing/internal/pkg/errors"

	randomdata "github.com/Pallinder/go-randomdata"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var baseSlot = time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	svc     *ClinicService
	repos   Repositories
	patient *clinic.Patient
	doctor  *clinic.Doctor
	other   *clinic.Doctor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	opts := DefaultOptions()
	opts.Now = func() time.Time { return baseSlot.Add(-24 * time.Hour) }
	repos := NewRepositories()
	svc := NewClinicService(repos, opts, zap.NewNop())

	p, err := svc.AddPatient(ctx, randomdata.FullName(randomdata.RandomGender), randomdata.PhoneNumber())
	require.NoError(t, err)
	d1, err := svc.AddDoctor(ctx, "Dr. "+randomdata.LastName(), "General", "")
	require.NoError(t, err)
	d2, err := svc.AddDoctor(ctx, "Dr. "+randomdata.LastName(), "ENT", "")
	require.NoError(t, err)

	return &fixture{svc: svc, repos: repos, patient: p, doctor: d1, other: d2}
}

// completedAppointment schedules and completes an appointment at slot.
func (f *fixture) completedAppointment(t *testing.T, slot time.Time) int64 {
	t.Helper()
	ctx := context.Background()
	a, err := f.svc.ScheduleAppointment(ctx, f.patient.ID, f.doctor.ID, slot)
	require.NoError(t, err)
	_, err = f.svc.CompleteAppointment(ctx, a.ID)
	require.NoError(t, err)
	return a.ID
}

// invoiceFor672 produces the fee=500, 2x50 invoice.
func (f *fixture) invoiceFor672(t *testing.T) *clinic.Invoice {
	t.Helper()
	ctx := context.Background()
	apptID := f.completedAppointment(t, baseSlot)
	c, err := f.svc.RecordConsultation(ctx, &clinic.RecordConsultationRequest{
		AppointmentID: apptID,
		Notes:         "fever",
		Fee:           dec("500"),
		Items:         []clinic.PrescriptionItem{{Name: "Paracetamol", Quantity: 2, UnitPrice: dec("50")}},
	})
	require.NoError(t, err)
	inv, err := f.svc.GenerateInvoice(ctx, c.ID)
	require.NoError(t, err)
	return inv
}

func TestAddPeople(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, int64(1), f.patient.ID)
	assert.Equal(t, int64(1), f.doctor.ID)
	assert.Equal(t, int64(2), f.other.ID)

	_, err := f.svc.AddPatient(ctx, "  ", "123")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	_, err = f.svc.AddDoctor(ctx, "", "ENT", "")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	patients, err := f.svc.ListPatients(ctx)
	require.NoError(t, err)
	assert.Len(t, patients, 1)
	doctors, err := f.svc.ListDoctors(ctx)
	require.NoError(t, err)
	assert.Len(t, doctors, 2)
}

func TestScheduleAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.ScheduleAppointment(ctx, f.patient.ID, f.doctor.ID, baseSlot)
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, clinic.AppointmentScheduled, a.Status)
	assert.Equal(t, f.patient.Name, a.Patient.Name)

	_, err = f.svc.ScheduleAppointment(ctx, f.patient.ID, f.doctor.ID, baseSlot)
	assert.ErrorIs(t, err, clinic.ErrSlotTaken)

	_, err = f.svc.ScheduleAppointment(ctx, f.patient.ID, f.doctor.ID, baseSlot.Add(30*time.Second))
	assert.ErrorIs(t, err, clinic.ErrSlotTaken, "slots are compared at minute precision")

	b, err := f.svc.ScheduleAppointment(ctx, f.patient.ID, f.other.ID, baseSlot)
	require.NoError(t, err, "another doctor may take the same slot")
	assert.Equal(t, int64(2), b.ID)

	c, err := f.svc.ScheduleAppointment(ctx, f.patient.ID, f.doctor.ID, baseSlot.Add(time.Minute))
	require.NoError(t, err, "back-to-back slots are allowed")
	assert.Greater(t, c.ID, b.ID)

	_, err = f.svc.ScheduleAppointment(ctx, 99, f.doctor.ID, baseSlot)
	assert.ErrorIs(t, err, clinic.ErrPatientNotFound)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	assert.Equal(t, "patient not found: 99", xerrors.Reason(err))

	_, err = f.svc.ScheduleAppointment(ctx, f.patient.ID, 99, baseSlot)
	assert.ErrorIs(t, err, clinic.ErrDoctorNotFound)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestScheduleAppointment_FreedSlotCanBeRebooked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.ScheduleAppointment(ctx, f.patient.ID, f.doctor.ID, baseSlot)
	require.NoError(t, err)
	_, err = f.svc.CancelAppointment(ctx, a.ID)
	require.NoError(t, err)

	_, err = f.svc.ScheduleAppointment(ctx, f.patient.ID, f.doctor.ID, baseSlot)
	require.NoError(t, err)
}

func TestAppointmentTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.svc.ScheduleAppointment(ctx, f.patient.ID, f.doctor.ID, baseSlot)
	require.NoError(t, err)

	done, err := f.svc.CompleteAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, clinic.AppointmentCompleted, done.Status)

	_, err = f.svc.CancelAppointment(ctx, a.ID)
	assert.ErrorIs(t, err, clinic.ErrInvalidTransition)

	_, err = f.svc.CompleteAppointment(ctx, 77)
	assert.ErrorIs(t, err, clinic.ErrAppointmentNotFound)

	stored, err := f.svc.GetAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, clinic.AppointmentCompleted, stored.Status)
}

func TestListAppointments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	book := func(doctorID int64, slot time.Time) int64 {
		a, err := f.svc.ScheduleAppointment(ctx, f.patient.ID, doctorID, slot)
		require.NoError(t, err)
		return a.ID
	}
	late := book(f.doctor.ID, baseSlot.Add(2*time.Hour))
	otherSame := book(f.other.ID, baseSlot)
	early := book(f.doctor.ID, baseSlot)
	otherLate := book(f.other.ID, baseSlot.Add(3*time.Hour))

	all, err := f.svc.ListAppointments(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{otherSame, early, late, otherLate}, ids(all), "sorted by slot, ties keep booking order")

	mine, err := f.svc.ListAppointments(ctx, &f.doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{early, late}, ids(mine))
	for _, a := range mine {
		assert.Equal(t, f.doctor.Name, a.Doctor.Name)
	}

	nobody := int64(42)
	none, err := f.svc.ListAppointments(ctx, &nobody)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListAppointments_StableForEqualSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var want []int64
	for i := 0; i < 5; i++ {
		a, err := f.svc.ScheduleAppointment(ctx, f.patient.ID, f.doctor.ID, baseSlot)
		require.NoError(t, err)
		_, err = f.svc.CancelAppointment(ctx, a.ID)
		require.NoError(t, err)
		want = append(want, a.ID)
	}

	got, err := f.svc.ListAppointments(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, want, ids(got))
}

func ids(details []clinic.AppointmentDetail) []int64 {
	out := make([]int64, 0, len(details))
	for _, d := range details {
		out = append(out, d.ID)
	}
	return out
}

func TestRecordConsultation_RequiresCompletedAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	scheduled, err := f.svc.ScheduleAppointment(ctx, f.patient.ID, f.doctor.ID, baseSlot)
	require.NoError(t, err)
	cancelled, err := f.svc.ScheduleAppointment(ctx, f.patient.ID, f.doctor.ID, baseSlot.Add(time.Hour))
	require.NoError(t, err)
	_, err = f.svc.CancelAppointment(ctx, cancelled.ID)
	require.NoError(t, err)
	completed := f.completedAppointment(t, baseSlot.Add(2*time.Hour))

	for _, id := range []int64{scheduled.ID, cancelled.ID} {
		_, err := f.svc.RecordConsultation(ctx, &clinic.RecordConsultationRequest{AppointmentID: id, Fee: dec("100")})
		assert.ErrorIs(t, err, clinic.ErrAppointmentNotCompleted)
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	}

	c, err := f.svc.RecordConsultation(ctx, &clinic.RecordConsultationRequest{AppointmentID: completed, Notes: " ok ", Fee: dec("100")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)
	assert.Equal(t, "ok", c.Notes)
	assert.Equal(t, f.patient.Name, c.PatientName)
	assert.Equal(t, f.doctor.Name, c.DoctorName)

	_, err = f.svc.RecordConsultation(ctx, &clinic.RecordConsultationRequest{AppointmentID: completed, Fee: dec("100")})
	assert.ErrorIs(t, err, clinic.ErrConsultationExists)

	_, err = f.svc.RecordConsultation(ctx, &clinic.RecordConsultationRequest{AppointmentID: 404, Fee: dec("100")})
	assert.ErrorIs(t, err, clinic.ErrAppointmentNotFound)
}

func TestRecordConsultation_ValidatesInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	apptID := f.completedAppointment(t, baseSlot)

	_, err := f.svc.RecordConsultation(ctx, &clinic.RecordConsultationRequest{AppointmentID: apptID, Fee: dec("-1")})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	_, err = f.svc.RecordConsultation(ctx, &clinic.RecordConsultationRequest{
		AppointmentID: apptID,
		Fee:           dec("10"),
		Items:         []clinic.PrescriptionItem{{Name: "X", Quantity: 0, UnitPrice: dec("1")}},
	})
	assert.ErrorIs(t, err, clinic.ErrInvalidItem)
}

func TestGenerateInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.invoiceFor672(t)

	assert.Equal(t, int64(1), inv.ID)
	assert.Equal(t, clinic.InvoiceOpen, inv.Status)
	assert.True(t, inv.Subtotal().Equal(dec("600")))
	assert.True(t, inv.Tax().Equal(dec("72")))
	assert.True(t, inv.Total().Equal(dec("672")))

	_, err := f.svc.GenerateInvoice(ctx, inv.ConsultationID)
	assert.ErrorIs(t, err, clinic.ErrInvoiceExists)
	assert.ErrorIs(t, err, xerrors.ErrDuplicateEntry)

	_, err = f.svc.GenerateInvoice(ctx, 55)
	assert.ErrorIs(t, err, clinic.ErrConsultationNotFound)

	c, err := f.svc.GetConsultation(ctx, inv.ConsultationID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, c.InvoiceID)
}

func TestAddPrescriptionItem_DoesNotChangeIssuedInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.invoiceFor672(t)

	c, err := f.svc.AddPrescriptionItem(ctx, inv.ConsultationID, clinic.PrescriptionItem{Name: "Zinc", Quantity: 1, UnitPrice: dec("30")})
	require.NoError(t, err)
	assert.Len(t, c.Prescription.Items, 2)

	stored, err := f.svc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)
	assert.True(t, stored.Total().Equal(dec("672")))

	_, err = f.svc.AddPrescriptionItem(ctx, inv.ConsultationID, clinic.PrescriptionItem{Name: "", Quantity: 1})
	assert.ErrorIs(t, err, clinic.ErrInvalidItem)
	_, err = f.svc.AddPrescriptionItem(ctx, 99, clinic.PrescriptionItem{Name: "Zinc", Quantity: 1})
	assert.ErrorIs(t, err, clinic.ErrConsultationNotFound)
}

func TestRecordPayment(t *testing.T) {
	cases := []struct {
		name    string
		amount  string
		method  clinic.PaymentMethod
		holder  string
		wantErr error
	}{
		{name: "exact cash", amount: "672", method: clinic.PaymentMethodCash},
		{name: "within epsilon", amount: "671.99995", method: clinic.PaymentMethodCash},
		{name: "overpay by card", amount: "700", method: clinic.PaymentMethodCard, holder: "S. Rao"},
		{name: "short by a cent", amount: "671.99", method: clinic.PaymentMethodCash, wantErr: clinic.ErrInsufficientPayment},
		{name: "card without holder", amount: "672", method: clinic.PaymentMethodCard, wantErr: xerrors.ErrInvalidInput},
		{name: "unknown method", amount: "672", method: "cheque", wantErr: clinic.ErrUnknownPaymentMethod},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			inv := f.invoiceFor672(t)

			res, err := f.svc.RecordPayment(ctx, inv.ID, &clinic.PaymentRequest{
				Method: tc.method, CardHolder: tc.holder, Amount: dec(tc.amount),
			})

			stored, getErr := f.svc.GetInvoice(ctx, inv.ID)
			require.NoError(t, getErr)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, clinic.InvoiceOpen, stored.Status, "rejected payments leave the invoice open")
				payments, _ := f.svc.ListPayments(ctx, inv.ID)
				assert.Empty(t, payments)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, clinic.PaymentSettled, res.Payment.Status)
			assert.Len(t, res.Payment.Reference, 26, "ULID reference")
			assert.Equal(t, clinic.InvoiceClosed, stored.Status)
			assert.Equal(t, res.Payment.ID, stored.PaymentID)
			assert.Contains(t, res.Receipt, "Patient: "+f.patient.Name)
			if tc.method == clinic.PaymentMethodCard {
				assert.Equal(t, tc.holder, res.Payment.CardHolder)
				assert.Contains(t, res.Receipt, "Card Holder: "+tc.holder)
			}
		})
	}
}

func TestRecordPayment_ClosedAndUnknownInvoices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.invoiceFor672(t)
	req := &clinic.PaymentRequest{Method: clinic.PaymentMethodCash, Amount: dec("672")}

	_, err := f.svc.RecordPayment(ctx, inv.ID, req)
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(ctx, inv.ID, req)
	assert.ErrorIs(t, err, clinic.ErrInvoiceClosed)

	payments, err := f.svc.ListPayments(ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	_, err = f.svc.RecordPayment(ctx, 31, req)
	assert.ErrorIs(t, err, clinic.ErrInvoiceNotFound)
}

func TestRecordPayment_StoreFailureLeavesInvoiceOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.invoiceFor672(t)

	// Occupy the id the service hands to its first payment.
	require.NoError(t, f.repos.Payments.Create(ctx, &clinic.Payment{ID: 1, InvoiceID: 99}))

	_, err := f.svc.RecordPayment(ctx, inv.ID, &clinic.PaymentRequest{Method: clinic.PaymentMethodCash, Amount: dec("672")})
	require.ErrorIs(t, err, xerrors.ErrDuplicateEntry)

	got, err := f.svc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, got.IsOpen())
	assert.Zero(t, got.PaymentID)
	assert.Nil(t, got.ClosedAt)

	payments, err := f.svc.ListPayments(ctx, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)

	report, err := f.svc.ReportOutstanding(ctx)
	require.NoError(t, err)
	assert.True(t, report.Total.Equal(dec("672")))

	// The next id is free, so a retry settles the invoice.
	res, err := f.svc.RecordPayment(ctx, inv.ID, &clinic.PaymentRequest{Method: clinic.PaymentMethodCash, Amount: dec("672")})
	require.NoError(t, err)
	assert.Equal(t, clinic.InvoiceClosed, res.Invoice.Status)
}

func TestReportOutstanding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.invoiceFor672(t)

	apptID := f.completedAppointment(t, baseSlot.Add(time.Hour))
	c, err := f.svc.RecordConsultation(ctx, &clinic.RecordConsultationRequest{AppointmentID: apptID, Fee: dec("250")})
	require.NoError(t, err)
	second, err := f.svc.GenerateInvoice(ctx, c.ID)
	require.NoError(t, err)

	report, err := f.svc.ReportOutstanding(ctx)
	require.NoError(t, err)
	require.Len(t, report.Invoices, 2)
	assert.True(t, report.Total.Equal(dec("952")), "672 + 280, got %s", report.Total)

	_, err = f.svc.RecordPayment(ctx, first.ID, &clinic.PaymentRequest{Method: clinic.PaymentMethodCash, Amount: dec("672")})
	require.NoError(t, err)

	report, err = f.svc.ReportOutstanding(ctx)
	require.NoError(t, err)
	require.Len(t, report.Invoices, 1)
	assert.Equal(t, second.ID, report.Invoices[0].ID)
	assert.True(t, report.Total.Equal(dec("280")))
}
