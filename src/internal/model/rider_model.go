package model

type RiderLocationRequest struct {
	RiderID   string  `json:"-" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"required"`
	Longitude float64 `json:"longitude" validate:"required"`
}

type SetOnlineRequest struct {
	RiderID string `json:"-" validate:"required"`
	Online  *bool  `json:"online" validate:"required"`
}

type UnblockRiderRequest struct {
	AdminID string `json:"-" validate:"required"`
	RiderID string `json:"-" validate:"required"`
}

type RiderResponse struct {
	RiderID            string  `json:"riderId"`
	FullName           string  `json:"fullName"`
	Online             bool    `json:"online"`
	VehicleType        string  `json:"vehicleType"`
	CarTier            string  `json:"carTier,omitempty"`
	Services           string  `json:"services"`
	SearchRadiusKm     float64 `json:"searchRadiusKm"`
	AcceptStreak       int     `json:"acceptStreak"`
	PaymentBlocked     bool    `json:"paymentBlocked"`
	AccountDeactivated bool    `json:"accountDeactivated"`
}
