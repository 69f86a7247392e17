package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testFareConfig() FareConfig {
	return FareConfig{
		MinFare:     800,
		ShortRate:   100,
		MediumRate:  80,
		LongRate:    60,
		ShortMaxKm:  5,
		MediumMaxKm: 15,
		Multipliers: map[string]float64{
			VehicleBicycle:     0.7,
			VehicleMotorbike:   1.0,
			VehicleStandardCar: 1.5,
			VehicleVan:         2.0,
		},
	}
}

func TestCalculateTieredRates(t *testing.T) {
	cfg := testFareConfig()

	tests := []struct {
		name       string
		distanceKm float64
		vehicle    string
		want       int64
	}{
		{"unknown distance prices as minimum", 0, VehicleMotorbike, 800},
		{"negative distance prices as minimum", -3, VehicleMotorbike, 800},
		{"short tier only", 3, VehicleMotorbike, 800 + 3*100},
		{"exactly at short boundary", 5, VehicleMotorbike, 800 + 5*100},
		{"spans into medium tier", 8, VehicleMotorbike, 800 + 5*100 + 3*80},
		{"spans all three tiers", 20, VehicleMotorbike, 800 + 5*100 + 10*80 + 5*60},
		{"bicycle scales down", 3, VehicleBicycle, 770}, // (800+300)*0.7
		{"van scales up", 3, VehicleVan, 2200},          // (800+300)*2.0
		{"unknown class prices as motorbike", 3, "hoverboard", 1100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Calculate(tt.distanceKm, tt.vehicle, cfg))
		})
	}
}

func TestMinimumFareScalesWithClass(t *testing.T) {
	cfg := testFareConfig()

	// a trip so short the metered amount would undercut the class minimum
	cfg.Multipliers[VehicleBicycle] = 0.5
	fare := Calculate(0.1, VehicleBicycle, cfg)
	require.Equal(t, int64(405), fare) // (800 + 0.1*100) * 0.5
	require.GreaterOrEqual(t, fare, int64(400))
}

func TestCarTierDerivesFromStandardBase(t *testing.T) {
	cfg := testFareConfig()

	require.InDelta(t, 1.5, cfg.Multiplier(VehicleStandardCar), 0.0001)
	require.InDelta(t, 1.5*1.25, cfg.Multiplier(VehicleComfortCar), 0.0001)
	require.InDelta(t, 1.5*1.6, cfg.Multiplier(VehiclePremiumCar), 0.0001)

	// explicit config wins over the derived factor
	cfg.Multipliers[VehicleComfortCar] = 1.9
	require.InDelta(t, 1.9, cfg.Multiplier(VehicleComfortCar), 0.0001)
}

func TestFareIsMonotonicInDistance(t *testing.T) {
	cfg := testFareConfig()

	prev := int64(0)
	for km := 0.5; km <= 30; km += 0.5 {
		fare := Calculate(km, VehicleMotorbike, cfg)
		require.GreaterOrEqual(t, fare, prev, "fare decreased at %.1f km", km)
		prev = fare
	}
}
