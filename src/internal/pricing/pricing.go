package pricing

import (
	"github.com/spf13/viper"

	"dispatch-service/src/pkg/utils"
)

// Vehicle classes known to the fare table. Car sub-tiers fall back to the
// standard car multiplier scaled by a fixed factor when not configured.
const (
	VehicleBicycle     = "bicycle"
	VehicleMotorbike   = "motorbike"
	VehicleStandardCar = "standard_car"
	VehicleComfortCar  = "comfort_car"
	VehiclePremiumCar  = "premium_car"
	VehicleVan         = "van"
)

var carTierFactors = map[string]float64{
	VehicleComfortCar: 1.25,
	VehiclePremiumCar: 1.6,
}

// FareConfig is the runtime-tunable fare table. All rates are in the
// smallest currency unit per kilometre.
type FareConfig struct {
	MinFare     int64
	ShortRate   int64
	MediumRate  int64
	LongRate    int64
	ShortMaxKm  float64
	MediumMaxKm float64
	Multipliers map[string]float64
}

// FromViper loads the fare table; defaults keep the service priceable
// before any remote config is pushed.
func FromViper(v *viper.Viper) FareConfig {
	cfg := FareConfig{
		MinFare:     v.GetInt64("fare.min_fare"),
		ShortRate:   v.GetInt64("fare.short_rate"),
		MediumRate:  v.GetInt64("fare.medium_rate"),
		LongRate:    v.GetInt64("fare.long_rate"),
		ShortMaxKm:  v.GetFloat64("fare.short_max_km"),
		MediumMaxKm: v.GetFloat64("fare.medium_max_km"),
		Multipliers: map[string]float64{},
	}
	for _, vehicle := range []string{
		VehicleBicycle, VehicleMotorbike, VehicleStandardCar,
		VehicleComfortCar, VehiclePremiumCar, VehicleVan,
	} {
		key := "fare.multipliers." + vehicle
		if v.IsSet(key) {
			cfg.Multipliers[vehicle] = v.GetFloat64(key)
		}
	}
	return cfg
}

// Multiplier resolves the vehicle-class multiplier. Unconfigured car
// sub-tiers derive from the standard car base; unknown classes price as
// motorbike (factor 1).
func (c FareConfig) Multiplier(vehicleClass string) float64 {
	if m, ok := c.Multipliers[vehicleClass]; ok && m > 0 {
		return m
	}
	if factor, ok := carTierFactors[vehicleClass]; ok {
		if base, ok := c.Multipliers[VehicleStandardCar]; ok && base > 0 {
			return base * factor
		}
	}
	return 1.0
}

// Calculate maps distance and vehicle class to a fare. The tiered rates
// are summed across tier boundaries, the vehicle multiplier scales the
// subtotal, and the result never drops below the class minimum fare.
// An unknown distance (<= 0) prices as the minimum fare.
func Calculate(distanceKm float64, vehicleClass string, cfg FareConfig) int64 {
	mult := cfg.Multiplier(vehicleClass)
	minFare := utils.RoundHalfUp(float64(cfg.MinFare) * mult)

	if distanceKm <= 0 {
		return minFare
	}

	subtotal := float64(cfg.MinFare)

	short := distanceKm
	if short > cfg.ShortMaxKm {
		short = cfg.ShortMaxKm
	}
	subtotal += short * float64(cfg.ShortRate)

	if distanceKm > cfg.ShortMaxKm {
		medium := distanceKm - cfg.ShortMaxKm
		if distanceKm > cfg.MediumMaxKm {
			medium = cfg.MediumMaxKm - cfg.ShortMaxKm
		}
		subtotal += medium * float64(cfg.MediumRate)
	}

	if distanceKm > cfg.MediumMaxKm {
		subtotal += (distanceKm - cfg.MediumMaxKm) * float64(cfg.LongRate)
	}

	price := utils.RoundHalfUp(subtotal * mult)
	if price < minFare {
		return minFare
	}
	return price
}
