// internal/domain/clinic/payment.go
package clinic

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSettled PaymentStatus = "SETTLED"
)

// ParsePaymentMethod accepts "cash" or "card" in any case.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case PaymentMethodCash, PaymentMethodCard:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, s)
}

// Payment is a full settlement of one invoice. CardHolder is set for card payments only.
type Payment struct {
	ID         int64           `json:"id"`
	Reference  string          `json:"reference"`
	InvoiceID  int64           `json:"invoice_id"`
	Method     PaymentMethod   `json:"method"`
	CardHolder string          `json:"card_holder,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Status     PaymentStatus   `json:"status"`
	PaidAt     time.Time       `json:"paid_at"`
}

func (p *Payment) Settle() { p.Status = PaymentSettled }

// Receipt renders the operator receipt for the payment's method.
func (p Payment) Receipt(patientName string) string {
	var sb strings.Builder
	switch p.Method {
	case PaymentMethodCard:
		sb.WriteString("Receipt - Card\n")
		fmt.Fprintf(&sb, "Reference: %s\nInvoice: %d\nPatient: %s\nCard Holder: %s\n",
			p.Reference, p.InvoiceID, patientName, p.CardHolder)
	default:
		sb.WriteString("Receipt - Cash\n")
		fmt.Fprintf(&sb, "Reference: %s\nInvoice: %d\nPatient: %s\n", p.Reference, p.InvoiceID, patientName)
	}
	fmt.Fprintf(&sb, "Amount: %s\nDate: %s", p.Amount.StringFixed(2), p.PaidAt.Format("2006-01-02 15:04:05"))
	return sb.String()
}
