package entity

import "time"

type PayoutStatus string

const (
	PayoutPending PayoutStatus = "pending"
	PayoutPaid    PayoutStatus = "paid"
)

// RiderPayout aggregates one rider's settled orders for one ISO week
// (Sunday 00:00 inclusive to next Sunday 00:00 exclusive).
type RiderPayout struct {
	ID                   string       `db:"id"`
	RiderID              string       `db:"rider_id"`
	WeekStart            time.Time    `db:"week_start"`
	WeekEnd              time.Time    `db:"week_end"`
	Status               PayoutStatus `db:"status"`
	PaidAt               *time.Time   `db:"paid_at"`
	MarkedPaidBy         *string      `db:"marked_paid_by"`
	PaymentReferenceCode string       `db:"payment_reference_code"`

	GrossTotal      int64 `db:"gross_total"`
	CommissionTotal int64 `db:"commission_total"`
	NetTotal        int64 `db:"net_total"`
	OrderCount      int   `db:"order_count"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// DueAt is the payment deadline: Saturday 23:59:59 of the payout week.
func (p *RiderPayout) DueAt() time.Time {
	return p.WeekEnd.Add(-time.Second)
}

// GraceDeadline is two days past the due date (Monday 23:59:59).
func (p *RiderPayout) GraceDeadline() time.Time {
	return p.DueAt().Add(48 * time.Hour)
}

// PayoutOrder is one settled order appended to a payout, unique by order id.
type PayoutOrder struct {
	PayoutID         string    `db:"payout_id"`
	OrderID          string    `db:"order_id"`
	DeliveredAt      time.Time `db:"delivered_at"`
	GrossAmount      int64     `db:"gross_amount"`
	CommissionAmount int64     `db:"commission_amount"`
	RiderNetAmount   int64     `db:"rider_net_amount"`
}
