// internal/domain/clinic/consultation.go
package clinic

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

type PrescriptionItem struct {
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (i PrescriptionItem) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// Validate checks a single line item.
func (i PrescriptionItem) Validate() error {
	switch {
	case strings.TrimSpace(i.Name) == "":
		return fmt.Errorf("%w: item name is required", ErrInvalidItem)
	case i.Quantity <= 0:
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidItem)
	case i.UnitPrice.IsNegative():
		return fmt.Errorf("%w: unit price must not be negative", ErrInvalidItem)
	}
	return nil
}

func (i PrescriptionItem) String() string {
	return fmt.Sprintf("%s x%d @ %s => %s", i.Name, i.Quantity, i.UnitPrice.StringFixed(2), i.Total().StringFixed(2))
}

// Prescription is an ordered list of line items owned by one consultation.
type Prescription struct {
	Items []PrescriptionItem `json:"items"`
}

func (p *Prescription) AddItem(item PrescriptionItem) {
	p.Items = append(p.Items, item)
}

func (p Prescription) Total() decimal.Decimal {
	return itemsTotal(p.Items)
}

// Clone returns a prescription whose items no longer share storage with p.
func (p Prescription) Clone() Prescription {
	return Prescription{Items: slices.Clone(p.Items)}
}

func (p Prescription) String() string {
	if len(p.Items) == 0 {
		return "(no items)"
	}
	var sb strings.Builder
	for _, it := range p.Items {
		sb.WriteString(it.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

func itemsTotal(items []PrescriptionItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Total())
	}
	return total
}

type Consultation struct {
	ID            int64 `json:"id"`
	AppointmentID int64 `json:"appointment_id"`

	// Copied from the appointment when the consultation is recorded.
	PatientID   int64  `json:"patient_id"`
	PatientName string `json:"patient_name"`
	DoctorID    int64  `json:"doctor_id"`
	DoctorName  string `json:"doctor_name"`

	Notes        string          `json:"notes"`
	Fee          decimal.Decimal `json:"fee"`
	Prescription Prescription    `json:"prescription"`

	// InvoiceID is zero until an invoice is generated; it is set at most once.
	InvoiceID int64 `json:"invoice_id,omitempty"`
}

func (c Consultation) HasInvoice() bool { return c.InvoiceID != 0 }

func (c Consultation) Summary() string {
	return fmt.Sprintf("Consultation[id=%d, appointment=%d, patient=%s, doctor=%s, fee=%s, notes=%s]\nPrescription:\n%s",
		c.ID, c.AppointmentID, c.PatientName, c.DoctorName, c.Fee.StringFixed(2), c.Notes, c.Prescription)
}
