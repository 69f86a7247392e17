package geoservice

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"dispatch-service/src/pkg/log"
)

// GoogleDistance resolves road distance via the Distance Matrix API.
// Callers are expected to fall back to a straight-line estimate when it
// errors; this type never hides a failure behind a guess.
type GoogleDistance struct {
	Client  *maps.Client
	Log     log.Log
	Timeout time.Duration
}

func NewGoogleDistance(client *maps.Client, logger log.Log, timeout time.Duration) *GoogleDistance {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &GoogleDistance{Client: client, Log: logger, Timeout: timeout}
}

func (g *GoogleDistance) RoadDistanceKm(ctx context.Context, fromLat, fromLng, toLat, toLng float64) (float64, error) {
	if g.Client == nil {
		return 0, fmt.Errorf("maps client is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	resp, err := g.Client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{fmt.Sprintf("%f,%f", fromLat, fromLng)},
		Destinations: []string{fmt.Sprintf("%f,%f", toLat, toLng)},
		Mode:         maps.TravelModeDriving,
	})
	if err != nil {
		g.Log.Error("geoservice", err.Error(), "RoadDistanceKm", "")
		return 0, err
	}

	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return 0, fmt.Errorf("distance matrix returned no rows")
	}
	element := resp.Rows[0].Elements[0]
	if element.Status != "OK" {
		return 0, fmt.Errorf("distance matrix element status %s", element.Status)
	}

	return float64(element.Distance.Meters) / 1000.0, nil
}
