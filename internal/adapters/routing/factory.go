package routing

import (
	"collection-route-service/internal/ports"
	"fmt"
)

// ProviderType names a road routing backend.
type ProviderType string

const (
	ProviderOSRM     ProviderType = "osrm"
	ProviderORS      ProviderType = "ors"
	ProviderStraight ProviderType = "straight"
)

// ProviderConfig holds configuration for creating a road router.
type ProviderConfig struct {
	Type    ProviderType
	BaseURL string
	Profile string
	APIKey  string // required for ors
	Client  HTTPClient
}

// NewRouter creates the road router selected by config.
func NewRouter(config ProviderConfig) (ports.RoadRouter, error) {
	switch config.Type {
	case ProviderOSRM:
		return NewOSRMRouter(config.BaseURL, config.Profile, config.Client), nil
	case ProviderORS:
		return NewORSRouter(config.APIKey, config.BaseURL, config.Profile, config.Client)
	case ProviderStraight:
		return StraightLineRouter{}, nil
	default:
		return nil, fmt.Errorf("unsupported router provider: %s", config.Type)
	}
}
