// internal/domain/clinic/dto.go
package clinic

import "github.com/shopspring/decimal"

type RecordConsultationRequest struct {
	AppointmentID int64
	Notes         string
	Fee           decimal.Decimal
	Items         []PrescriptionItem
}

type PaymentRequest struct {
	Method     PaymentMethod
	CardHolder string
	Amount     decimal.Decimal
}

type PaymentResult struct {
	Payment Payment
	Invoice Invoice
	Receipt string
}

type OutstandingReport struct {
	Invoices []Invoice       `json:"invoices"`
	Total    decimal.Decimal `json:"total"`
}
