package model

// Event is the common contract for everything published to the bus.
type Event interface {
	GetId() string
}

// Lifecycle event types emitted on order transitions.
const (
	EventOrderCreated         = "created"
	EventOrderAssigned        = "assigned"
	EventOrderStatusUpdated   = "status_updated"
	EventPriceChangeRequested = "price_change_requested"
	EventPriceChangeAccepted  = "price_change_accepted"
	EventPriceChangeRejected  = "price_change_rejected"
	EventDeliveryOtp          = "delivery_otp"
	EventDeliveryVerified     = "delivery_verified"
	EventOrderCancelled       = "cancelled"

	EventPayoutGenerated = "payout_generated"
	EventPayoutReminder  = "payout_reminder"
	EventPayoutPaid      = "payout_paid"
	EventRiderBlocked    = "rider_blocked"
)

// OrderLifecycleEvent carries the minimal state a client needs to refresh.
type OrderLifecycleEvent struct {
	EventID    string `json:"event_id"`
	Type       string `json:"type"`
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
	RiderID    string `json:"rider_id,omitempty"`
	Status     string `json:"status"`
	Price      int64  `json:"price,omitempty"`
	// OtpCode is only set on delivery_otp events, consumed by the
	// customer-facing notification channel.
	OtpCode string `json:"otp_code,omitempty"`
}

func (e *OrderLifecycleEvent) GetId() string { return e.EventID }

// OrderAvailableEvent is the per-rider dispatch fan-out payload.
type OrderAvailableEvent struct {
	EventID     string       `json:"event_id"`
	OrderID     string       `json:"order_id"`
	RiderID     string       `json:"rider_id"`
	DistanceKm  float64      `json:"distance_km"`
	Price       int64        `json:"price"`
	ServiceType string       `json:"service_type"`
	Pickup      LocationInfo `json:"pickup"`
}

func (e *OrderAvailableEvent) GetId() string { return e.EventID }

type PayoutEvent struct {
	EventID   string `json:"event_id"`
	Type      string `json:"type"`
	PayoutID  string `json:"payout_id,omitempty"`
	RiderID   string `json:"rider_id"`
	NetTotal  int64  `json:"net_total,omitempty"`
	WeekStart string `json:"week_start,omitempty"`
	Message   string `json:"message,omitempty"`
}

func (e *PayoutEvent) GetId() string { return e.EventID }
