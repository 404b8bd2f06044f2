package clinic

import (
	"testing"
	"time"

	xerrors "clinic-billing/internal/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointment_Transition(t *testing.T) {
	at := time.Now()

	cases := []struct {
		name    string
		from    AppointmentStatus
		to      AppointmentStatus
		wantErr bool
	}{
		{name: "complete scheduled", from: AppointmentScheduled, to: AppointmentCompleted},
		{name: "cancel scheduled", from: AppointmentScheduled, to: AppointmentCancelled},
		{name: "no way back to scheduled", from: AppointmentCompleted, to: AppointmentScheduled, wantErr: true},
		{name: "cancelled stays cancelled", from: AppointmentCancelled, to: AppointmentCompleted, wantErr: true},
		{name: "completed cannot be cancelled", from: AppointmentCompleted, to: AppointmentCancelled, wantErr: true},
		{name: "scheduled to scheduled", from: AppointmentScheduled, to: AppointmentScheduled, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := Appointment{ID: 1, Status: tc.from}
			err := a.Transition(tc.to, at)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidTransition)
				assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
				assert.Equal(t, tc.from, a.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.to, a.Status)
			assert.Equal(t, at, a.UpdatedAt)
		})
	}
}

func TestAppointment_Occupies(t *testing.T) {
	slot := time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)
	a := Appointment{DoctorID: 1, Slot: slot, Status: AppointmentScheduled}

	assert.True(t, a.Occupies(1, slot))
	assert.True(t, a.Occupies(1, slot.In(time.FixedZone("IST", 5*3600+1800))), "same instant in another zone")
	assert.False(t, a.Occupies(2, slot))
	assert.False(t, a.Occupies(1, slot.Add(time.Minute)))

	a.Status = AppointmentCancelled
	assert.False(t, a.Occupies(1, slot), "cancelled appointments free the slot")
}

func TestPrescription(t *testing.T) {
	var p Prescription
	assert.True(t, p.Total().IsZero())
	assert.Equal(t, "(no items)", p.String())

	p.AddItem(PrescriptionItem{Name: "A", Quantity: 2, UnitPrice: decimal.NewFromInt(50)})
	p.AddItem(PrescriptionItem{Name: "B", Quantity: 1, UnitPrice: decimal.RequireFromString("12.5")})

	assert.True(t, p.Total().Equal(decimal.RequireFromString("112.5")))
	assert.Equal(t, "A", p.Items[0].Name, "items keep insertion order")

	clone := p.Clone()
	clone.Items[0].Name = "changed"
	assert.Equal(t, "A", p.Items[0].Name)
}

func TestPrescriptionItem_Validate(t *testing.T) {
	valid := PrescriptionItem{Name: "A", Quantity: 1, UnitPrice: decimal.Zero}
	require.NoError(t, valid.Validate())

	for _, item := range []PrescriptionItem{
		{Name: " ", Quantity: 1, UnitPrice: decimal.NewFromInt(1)},
		{Name: "A", Quantity: 0, UnitPrice: decimal.NewFromInt(1)},
		{Name: "A", Quantity: 1, UnitPrice: decimal.NewFromInt(-1)},
	} {
		err := item.Validate()
		assert.ErrorIs(t, err, ErrInvalidItem)
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	}
}

func TestPayment_Receipt(t *testing.T) {
	paidAt := time.Date(2025, 6, 1, 9, 15, 0, 0, time.UTC)
	cash := Payment{Reference: "R1", InvoiceID: 3, Method: PaymentMethodCash, Amount: decimal.NewFromInt(672), PaidAt: paidAt}
	card := Payment{Reference: "R2", InvoiceID: 3, Method: PaymentMethodCard, CardHolder: "S. Rao", Amount: decimal.NewFromInt(672), PaidAt: paidAt}

	assert.Equal(t, "Receipt - Cash\nReference: R1\nInvoice: 3\nPatient: Sita\nAmount: 672.00\nDate: 2025-06-01 09:15:00",
		cash.Receipt("Sita"))
	assert.Contains(t, card.Receipt("Sita"), "Receipt - Card\n")
	assert.Contains(t, card.Receipt("Sita"), "Card Holder: S. Rao\n")
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod(" CASH ")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodCash, m)

	m, err = ParsePaymentMethod("card")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodCard, m)

	_, err = ParsePaymentMethod("cheque")
	assert.ErrorIs(t, err, ErrUnknownPaymentMethod)
}
