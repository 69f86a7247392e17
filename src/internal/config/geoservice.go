package config

import (
	"github.com/spf13/viper"
	"googlemaps.github.io/maps"
)

// GeoService holds the Google Maps client backing road-distance lookups.
type GeoService struct {
	Client *maps.Client
}

func NewGeoService(viper *viper.Viper) (*GeoService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(viper.GetString("geo.google.api_key")))
	if err != nil {
		return nil, err
	}
	return &GeoService{Client: client}, nil
}
