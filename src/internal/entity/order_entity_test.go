package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransitionForwardOnly(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{OrderPending, OrderAssigned},
		{OrderPending, OrderCancelled},
		{OrderAssigned, OrderPickedUp},
		{OrderAssigned, OrderCancelled},
		{OrderPickedUp, OrderDelivering},
		{OrderDelivering, OrderDelivered},
	}
	for _, tr := range allowed {
		require.True(t, CanTransition(tr.from, tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	denied := []struct{ from, to OrderStatus }{
		{OrderAssigned, OrderPending},
		{OrderPickedUp, OrderAssigned},
		{OrderPickedUp, OrderCancelled},
		{OrderDelivering, OrderCancelled},
		{OrderDelivered, OrderDelivering},
		{OrderCancelled, OrderPending},
		{OrderPending, OrderDelivered},
	}
	for _, tr := range denied {
		require.False(t, CanTransition(tr.from, tr.to), "%s -> %s should be denied", tr.from, tr.to)
	}
}

func TestSupportsService(t *testing.T) {
	rider := Rider{Services: "courier, ride"}
	require.True(t, rider.SupportsService(ServiceCourier))
	require.True(t, rider.SupportsService(ServiceRide))

	courierOnly := Rider{Services: "courier"}
	require.False(t, courierOnly.SupportsService(ServiceRide))
}
