// internal/domain/billing/dto.go
package billing

import "github.com/shopspring/decimal"

type AddSubscriberRequest struct {
	ID     int64
	Name   string
	Email  string
	PlanID int64
}

type PaymentResult struct {
	Invoice     Invoice
	AlreadyPaid bool
}

type RevenueReport struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Outstanding  decimal.Decimal `json:"outstanding"`
	Pending      int             `json:"pending"`
	Paid         int             `json:"paid"`
	Overdue      int             `json:"overdue"`
}
