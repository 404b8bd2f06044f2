// internal/domain/clinic/invoice.go
package clinic

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceOpen   InvoiceStatus = "OPEN"
	InvoiceClosed InvoiceStatus = "CLOSED"
)

// Invoice snapshots the fee and prescription items of a consultation at generation time.
type Invoice struct {
	ID              int64              `json:"id"`
	ConsultationID  int64              `json:"consultation_id"`
	PatientID       int64              `json:"patient_id"`
	PatientName     string             `json:"patient_name"`
	ConsultationFee decimal.Decimal    `json:"consultation_fee"`
	Items           []PrescriptionItem `json:"items"`
	TaxRate         decimal.Decimal    `json:"tax_rate"`
	Status          InvoiceStatus      `json:"status"`
	PaymentID       int64              `json:"payment_id,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	ClosedAt        *time.Time         `json:"closed_at,omitempty"`
}

// NewInvoice builds an OPEN invoice from c. Items are copied.
func NewInvoice(id int64, c Consultation, taxRate decimal.Decimal, at time.Time) Invoice {
	return Invoice{
		ID:              id,
		ConsultationID:  c.ID,
		PatientID:       c.PatientID,
		PatientName:     c.PatientName,
		ConsultationFee: c.Fee,
		Items:           slices.Clone(c.Prescription.Items),
		TaxRate:         taxRate,
		Status:          InvoiceOpen,
		CreatedAt:       at,
	}
}

func (i Invoice) IsOpen() bool { return i.Status == InvoiceOpen }

func (i Invoice) ItemsTotal() decimal.Decimal { return itemsTotal(i.Items) }

func (i Invoice) Subtotal() decimal.Decimal { return i.ConsultationFee.Add(i.ItemsTotal()) }

func (i Invoice) Tax() decimal.Decimal { return i.Subtotal().Mul(i.TaxRate) }

func (i Invoice) Total() decimal.Decimal { return i.Subtotal().Add(i.Tax()) }

// Close records the settling payment. CLOSED is terminal.
func (i *Invoice) Close(paymentID int64, at time.Time) {
	i.Status = InvoiceClosed
	i.PaymentID = paymentID
	i.ClosedAt = &at
}

func (i Invoice) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Invoice[id=%d, patient=%s, status=%s]\n", i.ID, i.PatientName, i.Status)
	fmt.Fprintf(&sb, "Consultation fee: %s\n", i.ConsultationFee.StringFixed(2))
	sb.WriteString("Items:\n")
	if len(i.Items) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, it := range i.Items {
		sb.WriteString("  ")
		sb.WriteString(it.String())
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Subtotal: %s\nTax(%s%%): %s\nTOTAL: %s",
		i.Subtotal().StringFixed(2), i.TaxRate.Shift(2).String(), i.Tax().StringFixed(2), i.Total().StringFixed(2))
	return sb.String()
}
