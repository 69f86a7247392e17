package model

import "time"

type ListPayoutsRequest struct {
	RiderID string `json:"-" validate:"required"`
}

type MarkPayoutPaidRequest struct {
	ActorID  string `json:"-" validate:"required"`
	Role     string `json:"-" validate:"required,oneof=rider admin paystack"`
	PayoutID string `json:"-" validate:"required"`
}

type RunPayoutJobRequest struct {
	AdminID string `json:"-" validate:"required"`
	Job     string `json:"job" validate:"required,oneof=generate remind block"`
}

type PayoutOrderInfo struct {
	OrderID          string    `json:"orderId"`
	DeliveredAt      time.Time `json:"deliveredAt"`
	GrossAmount      int64     `json:"grossAmount"`
	CommissionAmount int64     `json:"commissionAmount"`
	RiderNetAmount   int64     `json:"riderNetAmount"`
}

type PayoutResponse struct {
	ID                   string            `json:"id"`
	RiderID              string            `json:"riderId"`
	WeekStart            time.Time         `json:"weekStart"`
	WeekEnd              time.Time         `json:"weekEnd"`
	Status               string            `json:"status"`
	PaidAt               *time.Time        `json:"paidAt,omitempty"`
	MarkedPaidBy         string            `json:"markedPaidBy,omitempty"`
	PaymentReferenceCode string            `json:"paymentReferenceCode"`
	GrossTotal           int64             `json:"grossTotal"`
	CommissionTotal      int64             `json:"commissionTotal"`
	NetTotal             int64             `json:"netTotal"`
	DueAt                time.Time         `json:"dueAt"`
	GraceDeadline        time.Time         `json:"graceDeadline"`
	Orders               []PayoutOrderInfo `json:"orders,omitempty"`
}
