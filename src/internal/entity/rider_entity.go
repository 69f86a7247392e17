package entity

import (
	"strings"
	"time"
)

type Rider struct {
	RiderID        string  `db:"rider_id"`
	FullName       string  `db:"full_name"`
	Email          string  `db:"email"`
	MobileNumber   string  `db:"mobile_number"`
	NationalID     string  `db:"national_id"`
	Online         bool    `db:"online"`
	VehicleType    string  `db:"vehicle_type"`
	CarTier        string  `db:"car_tier"`
	Services       string  `db:"services"` // comma separated: courier,ride
	SearchRadiusKm float64 `db:"search_radius_km"`
	AcceptStreak   int     `db:"accept_streak"`

	GoldUntil *time.Time `db:"gold_until"`

	PaymentBlocked     bool       `db:"payment_blocked"`
	AccountDeactivated bool       `db:"account_deactivated"`
	BlockedReason      *string    `db:"blocked_reason"`
	BlockedAt          *time.Time `db:"blocked_at"`

	LastSeenAt time.Time `db:"last_seen_at"`
	CreatedAt  time.Time `db:"created_at"`
}

// SupportsService checks the rider's comma separated capability list.
func (r *Rider) SupportsService(service ServiceType) bool {
	for _, s := range strings.Split(r.Services, ",") {
		if strings.TrimSpace(s) == string(service) {
			return true
		}
	}
	return false
}

// GoldActive reports whether the rider's merit status is currently valid.
func (r *Rider) GoldActive(at time.Time) bool {
	return r.GoldUntil != nil && at.Before(*r.GoldUntil)
}

// RiderDistance pairs a rider id with its distance from a pickup point.
type RiderDistance struct {
	RiderID    string
	DistanceKm float64
	Lat        float64
	Lng        float64
}

// BlockedCredential is one deny-list row recorded when a rider defaults.
// The national id is stored only as a bcrypt digest.
type BlockedCredential struct {
	ID             int64     `db:"id"`
	RiderID        string    `db:"rider_id"`
	Email          string    `db:"email"`
	MobileNumber   string    `db:"mobile_number"`
	NationalIDHash string    `db:"national_id_hash"`
	Reason         string    `db:"reason"`
	CreatedAt      time.Time `db:"created_at"`
}
