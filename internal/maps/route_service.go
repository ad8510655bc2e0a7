// README: Travel-time estimates between itinerary stops via the Google Maps API.
package maps

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"
)

// RouteService answers "how long from one itinerary stop to the next" for
// generated plans. It is optional wiring: the server runs without it when no
// Google Maps key is configured.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// TravelEstimate holds a single leg estimate between two activity locations.
type TravelEstimate struct {
	Duration time.Duration `json:"duration"`
	Distance string        `json:"distance"`
}

// GetTravelEstimate returns the driving duration and human-readable distance
// from origin to destination.
func (s *RouteService) GetTravelEstimate(ctx context.Context, origin, destination string) (*TravelEstimate, error) {
	r := &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
		Language:    "zh-CN",
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, fmt.Errorf("no route found")
	}

	leg := routes[0].Legs[0]
	return &TravelEstimate{
		Duration: leg.Duration,
		Distance: leg.Distance.HumanReadable,
	}, nil
}
