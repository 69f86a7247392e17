package model

import "time"

type LocationRequest struct {
	Address   string  `json:"address" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"required"`
	Longitude float64 `json:"longitude" validate:"required"`
}

type CreateOrderRequest struct {
	CustomerID           string          `json:"-" validate:"required"`
	Pickup               LocationRequest `json:"pickup" validate:"required"`
	Dropoff              LocationRequest `json:"dropoff" validate:"required"`
	ServiceType          string          `json:"serviceType" validate:"required,oneof=courier ride"`
	PreferredVehicleType string          `json:"preferredVehicleType,omitempty"`
	PaymentMethod        string          `json:"paymentMethod" validate:"required,oneof=wallet cash"`
	Price                int64           `json:"price,omitempty" validate:"omitempty,gt=0"`
	RecipientName        string          `json:"recipientName,omitempty"`
	RecipientPhone       string          `json:"recipientPhone,omitempty"`
}

type GetOrderRequest struct {
	UserID  string `json:"-" validate:"required"`
	OrderID string `json:"-" validate:"required"`
}

type AcceptOrderRequest struct {
	RiderID string `json:"-" validate:"required"`
	OrderID string `json:"-" validate:"required"`
}

type RequestPriceChangeRequest struct {
	RiderID string `json:"-" validate:"required"`
	OrderID string `json:"-" validate:"required"`
	Price   int64  `json:"price" validate:"required,gt=0"`
	Reason  string `json:"reason" validate:"required,max=255"`
}

type RespondPriceChangeRequest struct {
	CustomerID string `json:"-" validate:"required"`
	OrderID    string `json:"-" validate:"required"`
	Action     string `json:"action" validate:"required,oneof=accept reject"`
}

type UpdateOrderStatusRequest struct {
	ActorID string `json:"-" validate:"required"`
	Role    string `json:"-" validate:"required,oneof=rider admin"`
	OrderID string `json:"-" validate:"required"`
	Action  string `json:"action" validate:"required,oneof=pickup start deliver"`
}

type GenerateOtpRequest struct {
	RiderID string `json:"-" validate:"required"`
	OrderID string `json:"-" validate:"required"`
}

type VerifyOtpRequest struct {
	RiderID       string `json:"-" validate:"required"`
	OrderID       string `json:"-" validate:"required"`
	Code          string `json:"code" validate:"required,len=6,numeric"`
	ProofPhotoURL string `json:"proofPhotoUrl,omitempty"`
}

type CancelOrderRequest struct {
	ActorID string `json:"-" validate:"required"`
	Role    string `json:"-" validate:"required,oneof=customer admin"`
	OrderID string `json:"-" validate:"required"`
	Reason  string `json:"reason" validate:"max=255"`
}

type AdminUpdatePriceRequest struct {
	AdminID string `json:"-" validate:"required"`
	OrderID string `json:"-" validate:"required"`
	Price   int64  `json:"price" validate:"required,gt=0"`
}

type NearbyRidersRequest struct {
	UserID               string  `json:"-" validate:"required"`
	Latitude             float64 `json:"latitude" validate:"required"`
	Longitude            float64 `json:"longitude" validate:"required"`
	ServiceType          string  `json:"serviceType" validate:"required,oneof=courier ride"`
	PreferredVehicleType string  `json:"preferredVehicleType,omitempty"`
}

type FareConfigResponse struct {
	MinFare            int64              `json:"minFare"`
	ShortRatePerKm     int64              `json:"shortRatePerKm"`
	MediumRatePerKm    int64              `json:"mediumRatePerKm"`
	LongRatePerKm      int64              `json:"longRatePerKm"`
	ShortMaxKm         float64            `json:"shortMaxKm"`
	MediumMaxKm        float64            `json:"mediumMaxKm"`
	VehicleMultipliers map[string]float64 `json:"vehicleMultipliers"`
}

type LocationInfo struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type NegotiationInfo struct {
	Status      string     `json:"status"`
	RiderID     string     `json:"riderId,omitempty"`
	Price       int64      `json:"price,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	RequestedAt *time.Time `json:"requestedAt,omitempty"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
}

type DeliveryInfo struct {
	OtpExpiresAt   *time.Time `json:"otpExpiresAt,omitempty"`
	OtpVerifiedAt  *time.Time `json:"otpVerifiedAt,omitempty"`
	DeliveredAt    *time.Time `json:"deliveredAt,omitempty"`
	ProofPhotoURL  string     `json:"proofPhotoUrl,omitempty"`
	RecipientName  string     `json:"recipientName,omitempty"`
	RecipientPhone string     `json:"recipientPhone,omitempty"`
}

type FinancialInfo struct {
	GrossAmount       int64   `json:"grossAmount"`
	CommissionRatePct float64 `json:"commissionRatePct"`
	CommissionAmount  int64   `json:"commissionAmount"`
	RiderNetAmount    int64   `json:"riderNetAmount"`
}

type TimelineInfo struct {
	Status    string    `json:"status"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}

type OrderResponse struct {
	ID                   string           `json:"id"`
	CustomerID           string           `json:"customerId"`
	RiderID              string           `json:"riderId,omitempty"`
	Pickup               LocationInfo     `json:"pickup"`
	Dropoff              LocationInfo     `json:"dropoff"`
	Price                int64            `json:"price"`
	OriginalPrice        int64            `json:"originalPrice"`
	ServiceType          string           `json:"serviceType"`
	PreferredVehicleType string           `json:"preferredVehicleType,omitempty"`
	PaymentMethod        string           `json:"paymentMethod"`
	DistanceKm           float64          `json:"distanceKm"`
	Status               string           `json:"status"`
	Negotiation          *NegotiationInfo `json:"negotiation,omitempty"`
	Delivery             *DeliveryInfo    `json:"delivery,omitempty"`
	Financial            *FinancialInfo   `json:"financial,omitempty"`
	Timeline             []TimelineInfo   `json:"timeline,omitempty"`
	CreatedAt            time.Time        `json:"createdAt"`
}

type NearbyRiderResponse struct {
	RiderID     string  `json:"riderId"`
	VehicleType string  `json:"vehicleType"`
	CarTier     string  `json:"carTier,omitempty"`
	DistanceKm  float64 `json:"distanceKm"`
}
