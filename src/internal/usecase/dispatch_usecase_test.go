package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"
)

func newDispatchTestEnv(t *testing.T, distance DistanceProvider, riders ...*entity.Rider) (*DispatchUseCase, *fakeLocationIndex, *recordingDispatchEvents) {
	t.Helper()
	index := newFakeLocationIndex()
	events := &recordingDispatchEvents{}
	uc := NewDispatchUseCase(log.Log{LogLevel: 3}, validator.New(), testConfig(),
		newFakeRiderStore(riders...), index, distance, events)
	return uc, index, events
}

func TestFindCandidatesFiltersEligibility(t *testing.T) {
	online := testRider("online")
	offline := testRider("offline")
	offline.Online = false
	blocked := testRider("blocked")
	blocked.PaymentBlocked = true
	rideOnly := testRider("ride-only")
	rideOnly.Services = "ride"

	uc, index, _ := newDispatchTestEnv(t, fixedDistance{km: 2}, online, offline, blocked, rideOnly)

	ctx := context.Background()
	for _, id := range []string{"online", "offline", "blocked", "ride-only"} {
		require.NoError(t, index.Update(ctx, id, 3.37, 6.52))
	}

	candidates, err := uc.FindCandidates(ctx, 6.52, 3.37, entity.ServiceCourier, "", 0)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, "online", candidates[0].Rider.RiderID)
}

func TestFindCandidatesRespectsPersonalRadius(t *testing.T) {
	near := testRider("near")
	far := testRider("far")
	far.SearchRadiusKm = 3

	uc, index, _ := newDispatchTestEnv(t, fixedDistance{km: 5}, near, far)

	ctx := context.Background()
	require.NoError(t, index.Update(ctx, "near", 3.37, 6.52))
	require.NoError(t, index.Update(ctx, "far", 3.37, 6.52))

	// road distance 5 km exceeds far's 3 km preference but not near's 10 km
	candidates, err := uc.FindCandidates(ctx, 6.52, 3.37, entity.ServiceCourier, "", 0)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, "near", candidates[0].Rider.RiderID)
}

func TestCarTierPreferenceMatchesExactly(t *testing.T) {
	comfort := testRider("comfort")
	comfort.VehicleType = "car"
	comfort.CarTier = "comfort"
	standard := testRider("standard")
	standard.VehicleType = "car"
	standard.CarTier = "standard"

	uc, index, _ := newDispatchTestEnv(t, fixedDistance{km: 2}, comfort, standard)

	ctx := context.Background()
	require.NoError(t, index.Update(ctx, "comfort", 3.37, 6.52))
	require.NoError(t, index.Update(ctx, "standard", 3.37, 6.52))

	candidates, err := uc.FindCandidates(ctx, 6.52, 3.37, entity.ServiceRide, "comfort_car", 0)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, "comfort", candidates[0].Rider.RiderID)
}

func TestDistanceFallsBackToHaversine(t *testing.T) {
	uc, _, _ := newDispatchTestEnv(t, fixedDistance{err: errors.New("quota exceeded")})

	km := uc.DistanceKm(context.Background(), 6.52, 3.37, 6.45, 3.39)
	straight := utils.HaversineKm(6.52, 3.37, 6.45, 3.39)
	require.InDelta(t, straight*1.3, km, 0.001)
	require.Greater(t, km, straight)
}

func TestFanOutNotifiesEveryCandidate(t *testing.T) {
	r1 := testRider("r1")
	r2 := testRider("r2")
	uc, index, events := newDispatchTestEnv(t, fixedDistance{km: 2}, r1, r2)

	ctx := context.Background()
	require.NoError(t, index.Update(ctx, "r1", 3.37, 6.52))
	require.NoError(t, index.Update(ctx, "r2", 3.37, 6.52))

	order := &entity.Order{
		ID:          "o1",
		CustomerID:  "cust-1",
		PickupLat:   6.52,
		PickupLng:   3.37,
		Price:       1500,
		ServiceType: entity.ServiceCourier,
		Status:      entity.OrderPending,
	}
	uc.FanOut(ctx, order)

	require.Len(t, events.events, 2)
	notified := map[string]bool{}
	for _, e := range events.events {
		require.Equal(t, "o1", e.OrderID)
		notified[e.RiderID] = true
	}
	require.True(t, notified["r1"])
	require.True(t, notified["r2"])
}
