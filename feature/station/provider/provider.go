package provider

import (
	"context"
	"fmt"
	"time"

	"stationwatch/feature/station/models"
)

// Snapshot is the complete set of station descriptors returned by one fetch,
// along with the raw payload for archiving and the single fetch timestamp
// every measurement of the cycle is stamped with.
type Snapshot struct {
	// Descriptors are the stations reported by the provider.
	Descriptors []models.StationDescriptor
	// Raw is the unparsed provider payload.
	Raw []byte
	// FetchedAt is when the snapshot was acquired.
	FetchedAt time.Time
}

// Adapter is a bike-share data source. Implementations translate one
// provider's JSON shape into station descriptors; which optional fields a
// descriptor carries depends on the provider.
type Adapter interface {
	// Name identifies the adapter (citybikes, gbfs).
	Name() string
	// FetchSnapshot acquires one snapshot. It fails with a *FetchError on
	// any network, timeout or parse problem; a failed fetch aborts the
	// cycle before any store interaction.
	FetchSnapshot(ctx context.Context) (*Snapshot, error)
}

// FetchError reports a failed or unparseable provider fetch.
type FetchError struct {
	// Provider is the adapter name.
	Provider string
	// Err is the underlying cause.
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("provider %s fetch failed: %v", e.Provider, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// New creates the adapter selected by the configuration.
func New(cfg Config) (Adapter, error) {
	switch cfg.Kind {
	case "citybikes", "":
		return NewCityBikes(cfg), nil
	case "gbfs":
		if cfg.InformationURL == "" || cfg.StatusURL == "" {
			return nil, fmt.Errorf("gbfs provider requires information_url and status_url")
		}
		return NewGBFS(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported provider kind: %s", cfg.Kind)
	}
}
