package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/viper"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/pricing"
	httpError "dispatch-service/src/pkg/http-error"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"
)

const nearbyPreviewLimit = 50

type DispatchUseCase struct {
	Log              log.Log
	Validate         *validator.Validate
	Config           *viper.Viper
	RiderRepository  RiderStore
	LocationIndex    RiderLocationIndex
	Distance         DistanceProvider
	DispatchProducer DispatchEvents
}

func NewDispatchUseCase(
	logger log.Log,
	validate *validator.Validate,
	cfg *viper.Viper,
	riderRepository RiderStore,
	locationIndex RiderLocationIndex,
	distance DistanceProvider,
	dispatchProducer DispatchEvents,
) *DispatchUseCase {
	return &DispatchUseCase{
		Log:              logger,
		Validate:         validate,
		Config:           cfg,
		RiderRepository:  riderRepository,
		LocationIndex:    locationIndex,
		Distance:         distance,
		DispatchProducer: dispatchProducer,
	}
}

// Candidate is one eligible rider with its road distance to the pickup.
type Candidate struct {
	Rider      entity.Rider
	DistanceKm float64
}

// DistanceKm returns the road distance, falling back to the straight-line
// estimate scaled by the empirical multiplier. It never fails; a route
// always has at least the haversine estimate.
func (c *DispatchUseCase) DistanceKm(ctx context.Context, fromLat, fromLng, toLat, toLng float64) float64 {
	if c.Distance != nil {
		if km, err := c.Distance.RoadDistanceKm(ctx, fromLat, fromLng, toLat, toLng); err == nil {
			return km
		}
	}
	multiplier := c.Config.GetFloat64("dispatch.fallback_multiplier")
	if multiplier <= 0 {
		multiplier = 1.3
	}
	return utils.HaversineKm(fromLat, fromLng, toLat, toLng) * multiplier
}

// FindCandidates selects eligible online riders for a pickup point.
// The Redis GEO index is the cheap pre-filter; the expensive road
// distance is only requested for riders that already passed it, and a
// provider failure excludes that one candidate, never the whole search.
func (c *DispatchUseCase) FindCandidates(ctx context.Context, pickupLat, pickupLng float64, serviceType entity.ServiceType, preferredVehicleType string, limit int) ([]Candidate, error) {
	maxRadius := c.Config.GetFloat64("dispatch.max_radius_km")
	if maxRadius <= 0 {
		maxRadius = 25
	}

	hits, err := c.LocationIndex.Search(ctx, pickupLng, pickupLat, maxRadius)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(hits))
	byID := make(map[string]entity.RiderDistance, len(hits))
	for _, h := range hits {
		ids = append(ids, h.RiderID)
		byID[h.RiderID] = h
	}

	riders, err := c.RiderRepository.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(riders))
	for _, rider := range riders {
		if !c.eligible(&rider, serviceType, preferredVehicleType) {
			continue
		}
		hit := byID[rider.RiderID]

		effectiveRadius := rider.SearchRadiusKm
		if classMax := c.vehicleMaxRadius(rider.VehicleType); classMax > 0 && classMax < effectiveRadius {
			effectiveRadius = classMax
		}

		roadKm, err := c.Distance.RoadDistanceKm(ctx, pickupLat, pickupLng, hit.Lat, hit.Lng)
		if err != nil {
			c.Log.Warn("dispatch-usecase", fmt.Sprintf("distance provider failed for rider %s: %v", rider.RiderID, err), "FindCandidates", "")
			continue
		}
		if roadKm > effectiveRadius {
			continue
		}

		candidates = append(candidates, Candidate{Rider: rider, DistanceKm: roadKm})
	}

	// GEO hits arrive nearest-first but road distance can reorder them
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].DistanceKm < candidates[j].DistanceKm
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// NearbyRiders is the customer-facing preview, capped at 50.
func (c *DispatchUseCase) NearbyRiders(ctx context.Context, request *model.NearbyRidersRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("dispatch-usecase", errObj.Message, "NearbyRiders", utils.ConvertString(request))
		return result
	}

	candidates, err := c.FindCandidates(ctx, request.Latitude, request.Longitude,
		entity.ServiceType(request.ServiceType), request.PreferredVehicleType, nearbyPreviewLimit)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error searching riders: %v", err)
		result.Error = errObj
		c.Log.Error("dispatch-usecase", errObj.Message, "NearbyRiders", utils.ConvertString(err))
		return result
	}

	responses := make([]model.NearbyRiderResponse, 0, len(candidates))
	for _, cand := range candidates {
		responses = append(responses, model.NearbyRiderResponse{
			RiderID:     cand.Rider.RiderID,
			VehicleType: cand.Rider.VehicleType,
			CarTier:     cand.Rider.CarTier,
			DistanceKm:  cand.DistanceKm,
		})
	}
	result.Data = responses
	return result
}

// FanOut notifies every matched rider about a new order, concurrently
// and best-effort: one failed notification never blocks the rest.
func (c *DispatchUseCase) FanOut(ctx context.Context, order *entity.Order) {
	candidates, err := c.FindCandidates(ctx, order.PickupLat, order.PickupLng,
		order.ServiceType, order.PreferredVehicleType, 0)
	if err != nil {
		c.Log.Error("dispatch-usecase", fmt.Sprintf("fan-out candidate search failed: %v", err), "FanOut", order.ID)
		return
	}

	var wg sync.WaitGroup
	for _, cand := range candidates {
		wg.Add(1)
		go func(cand Candidate) {
			defer wg.Done()
			event := &model.OrderAvailableEvent{
				EventID:     uuid.NewString(),
				OrderID:     order.ID,
				RiderID:     cand.Rider.RiderID,
				DistanceKm:  cand.DistanceKm,
				Price:       order.Price,
				ServiceType: string(order.ServiceType),
				Pickup: model.LocationInfo{
					Address:   order.PickupAddress,
					Latitude:  order.PickupLat,
					Longitude: order.PickupLng,
				},
			}
			if err := c.DispatchProducer.SendOrderAvailable(event); err != nil {
				c.Log.Error("dispatch-usecase", fmt.Sprintf("failed to notify rider %s: %v", cand.Rider.RiderID, err), "FanOut", order.ID)
			}
		}(cand)
	}
	wg.Wait()

	c.Log.Info("dispatch-usecase", fmt.Sprintf("notified %d riders", len(candidates)), "FanOut", order.ID)
}

func (c *DispatchUseCase) eligible(rider *entity.Rider, serviceType entity.ServiceType, preferredVehicleType string) bool {
	if !rider.Online || rider.PaymentBlocked || rider.AccountDeactivated {
		return false
	}
	if !rider.SupportsService(serviceType) {
		return false
	}
	return vehicleMatches(rider, serviceType, preferredVehicleType)
}

// vehicleMatches applies the preferred-vehicle filter: unset or generic
// preferences match anything, car-tier preferences on ride orders must
// match the rider's tier exactly.
func vehicleMatches(rider *entity.Rider, serviceType entity.ServiceType, preferred string) bool {
	if preferred == "" {
		return true
	}
	switch preferred {
	case pricing.VehicleStandardCar, pricing.VehicleComfortCar, pricing.VehiclePremiumCar:
		if serviceType != entity.ServiceRide {
			return true
		}
		return rider.VehicleType == "car" && rider.CarTier == carTier(preferred)
	default:
		return rider.VehicleType == preferred
	}
}

func carTier(preferred string) string {
	switch preferred {
	case pricing.VehicleStandardCar:
		return "standard"
	case pricing.VehicleComfortCar:
		return "comfort"
	case pricing.VehiclePremiumCar:
		return "premium"
	}
	return ""
}

func (c *DispatchUseCase) vehicleMaxRadius(vehicleType string) float64 {
	if c.Config.IsSet("dispatch.vehicle_max_radius_km." + vehicleType) {
		return c.Config.GetFloat64("dispatch.vehicle_max_radius_km." + vehicleType)
	}
	return c.Config.GetFloat64("dispatch.max_radius_km")
}
