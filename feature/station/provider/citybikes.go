package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stationwatch/core/utils"
	"stationwatch/feature/station/models"
)

// CityBikesAdapter fetches one network from a citybik.es-compatible API.
// Station extras (uid, banking, bonus, slots, status, ebikes, address) vary
// per network and are loosely typed, so they are probed individually and
// converted tolerantly.
type CityBikesAdapter struct {
	endpoint string
	network  string
	client   *http.Client
}

// NewCityBikes creates the citybikes adapter from the configuration.
func NewCityBikes(cfg Config) *CityBikesAdapter {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return &CityBikesAdapter{
		endpoint: cfg.Endpoint,
		network:  cfg.Network,
		client:   &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// Name identifies the adapter.
func (a *CityBikesAdapter) Name() string {
	return "citybikes"
}

type cityBikesStation struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Latitude  *float64       `json:"latitude"`
	Longitude *float64       `json:"longitude"`
	FreeBikes *int           `json:"free_bikes"`
	EmptySlot *int           `json:"empty_slots"`
	Extra     map[string]any `json:"extra"`
}

type cityBikesPayload struct {
	Network struct {
		Stations []cityBikesStation `json:"stations"`
	} `json:"network"`
}

// FetchSnapshot acquires the network's station list.
func (a *CityBikesAdapter) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	url := fmt.Sprintf("%s/v2/networks/%s", a.endpoint, a.network)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Provider: a.Name(), Err: err}
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &FetchError{Provider: a.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Provider: a.Name(), Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Provider: a.Name(), Err: err}
	}

	var payload cityBikesPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &FetchError{Provider: a.Name(), Err: fmt.Errorf("malformed payload: %w", err)}
	}

	descriptors := make([]models.StationDescriptor, 0, len(payload.Network.Stations))
	for _, st := range payload.Network.Stations {
		descriptors = append(descriptors, st.toDescriptor())
	}

	return &Snapshot{
		Descriptors: descriptors,
		Raw:         raw,
		FetchedAt:   time.Now(),
	}, nil
}

// toDescriptor maps one citybikes station, probing the extra block for
// fields the network may or may not expose.
func (st cityBikesStation) toDescriptor() models.StationDescriptor {
	d := models.StationDescriptor{
		ID:         st.ID,
		Name:       st.Name,
		Latitude:   st.Latitude,
		Longitude:  st.Longitude,
		Bikes:      st.FreeBikes,
		FreeStands: st.EmptySlot,
	}

	// pybikes networks report the provider's own station number as
	// extra.uid; prefer it over the citybik.es hash when present.
	if v, ok := st.Extra["uid"]; ok {
		d.ID = utils.ToString(v)
	}
	if v, ok := st.Extra["address"]; ok {
		d.Address = utils.ToString(v)
	}
	if v, ok := st.Extra["banking"]; ok {
		banking := utils.ToBool(v)
		d.Banking = &banking
	}
	if v, ok := st.Extra["bonus"]; ok {
		bonus := utils.ToBool(v)
		d.Bonus = &bonus
	}
	if v, ok := st.Extra["slots"]; ok {
		slots := utils.ToInt(v)
		d.BikeStands = &slots
	}
	if v, ok := st.Extra["status"]; ok {
		status := utils.ToString(v)
		d.Status = &status
	}
	if v, ok := st.Extra["ebikes"]; ok {
		ebikes := utils.ToInt(v)
		d.EBikes = &ebikes
	}

	return d
}
