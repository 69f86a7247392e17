package entity

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderAssigned   OrderStatus = "assigned"
	OrderPickedUp   OrderStatus = "picked_up"
	OrderDelivering OrderStatus = "delivering"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type NegotiationStatus string

const (
	NegotiationNone         NegotiationStatus = "none"
	NegotiationRequested    NegotiationStatus = "requested"
	NegotiationAccepted     NegotiationStatus = "accepted"
	NegotiationRejected     NegotiationStatus = "rejected"
	NegotiationAdminUpdated NegotiationStatus = "admin_updated"
)

type ServiceType string

const (
	ServiceCourier ServiceType = "courier"
	ServiceRide    ServiceType = "ride"
)

// allowedTransitions encodes the order state flow; status never moves backwards.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderAssigned, OrderCancelled},
	OrderAssigned:   {OrderPickedUp, OrderCancelled},
	OrderPickedUp:   {OrderDelivering},
	OrderDelivering: {OrderDelivered},
}

func CanTransition(from, to OrderStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Order is the central aggregate. Columns are flat for sqlx; the nested
// API shape is assembled by the model converter.
type Order struct {
	ID         string  `db:"id"`
	CustomerID string  `db:"customer_id"`
	RiderID    *string `db:"rider_id"`

	PickupAddress  string  `db:"pickup_address"`
	PickupLat      float64 `db:"pickup_lat"`
	PickupLng      float64 `db:"pickup_lng"`
	DropoffAddress string  `db:"dropoff_address"`
	DropoffLat     float64 `db:"dropoff_lat"`
	DropoffLng     float64 `db:"dropoff_lng"`

	Price                 int64       `db:"price"`
	OriginalPrice         int64       `db:"original_price"`
	ServiceType           ServiceType `db:"service_type"`
	PreferredVehicleType  string      `db:"preferred_vehicle_type"`
	PaymentMethod         string      `db:"payment_method"`
	DistanceKm            float64     `db:"distance_km"`

	Status OrderStatus `db:"status"`

	NegotiationStatus      NegotiationStatus `db:"negotiation_status"`
	NegotiationRiderID     *string           `db:"negotiation_rider_id"`
	NegotiationPrice       *int64            `db:"negotiation_price"`
	NegotiationReason      *string           `db:"negotiation_reason"`
	NegotiationRequestedAt *time.Time        `db:"negotiation_requested_at"`
	NegotiationResolvedAt  *time.Time        `db:"negotiation_resolved_at"`

	OtpCode        *string    `db:"otp_code"`
	OtpExpiresAt   *time.Time `db:"otp_expires_at"`
	OtpVerifiedAt  *time.Time `db:"otp_verified_at"`
	DeliveredAt    *time.Time `db:"delivered_at"`
	ProofPhotoURL  *string    `db:"proof_photo_url"`
	RecipientName  *string    `db:"recipient_name"`
	RecipientPhone *string    `db:"recipient_phone"`

	GrossAmount       *int64     `db:"gross_amount"`
	CommissionRatePct *float64   `db:"commission_rate_pct"`
	CommissionAmount  *int64     `db:"commission_amount"`
	RiderNetAmount    *int64     `db:"rider_net_amount"`
	SettledAt         *time.Time `db:"settled_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Settled reports whether the financial split has been written. Once true
// it never changes; settlement is guarded on this column.
func (o *Order) Settled() bool {
	return o.SettledAt != nil
}

// OrderFinancial is the gross/commission/rider-net split written exactly
// once at the delivered transition.
type OrderFinancial struct {
	GrossAmount       int64
	CommissionRatePct float64
	CommissionAmount  int64
	RiderNetAmount    int64
}

// TimelineEntry is one append-only audit row of the order state machine.
type TimelineEntry struct {
	ID        int64       `db:"id"`
	OrderID   string      `db:"order_id"`
	Status    OrderStatus `db:"status"`
	Note      string      `db:"note"`
	CreatedAt time.Time   `db:"created_at"`
}
