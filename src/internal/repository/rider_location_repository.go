package repository

import (
	"context"

	"github.com/redis/go-redis/v9"

	"dispatch-service/src/internal/entity"
)

const riderGeoKey = "riders:locations"

// RiderLocationRepository is the Redis GEO index used as the cheap
// spatial pre-filter before any road-distance calls.
type RiderLocationRepository struct {
	Redis redis.UniversalClient
}

func NewRiderLocationRepository(redisClient redis.UniversalClient) *RiderLocationRepository {
	return &RiderLocationRepository{Redis: redisClient}
}

func (r *RiderLocationRepository) Update(ctx context.Context, riderID string, lng, lat float64) error {
	return r.Redis.GeoAdd(ctx, riderGeoKey, &redis.GeoLocation{
		Name:      riderID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

func (r *RiderLocationRepository) Remove(ctx context.Context, riderID string) error {
	return r.Redis.ZRem(ctx, riderGeoKey, riderID).Err()
}

// Search returns riders within radiusKm of the point, nearest first.
func (r *RiderLocationRepository) Search(ctx context.Context, lng, lat, radiusKm float64) ([]entity.RiderDistance, error) {
	locations, err := r.Redis.GeoRadius(ctx, riderGeoKey, lng, lat, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithDist:  true,
		WithCoord: true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	result := make([]entity.RiderDistance, 0, len(locations))
	for _, loc := range locations {
		result = append(result, entity.RiderDistance{
			RiderID:    loc.Name,
			DistanceKm: loc.Dist,
			Lat:        loc.Latitude,
			Lng:        loc.Longitude,
		})
	}
	return result, nil
}
