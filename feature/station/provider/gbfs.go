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

// GBFSAdapter fetches a GBFS feed: static attributes from
// station_information.json, live counts and renting state from
// station_status.json, joined on station_id. GBFS has no banking or bonus
// flags, so those descriptor fields stay absent.
type GBFSAdapter struct {
	informationURL string
	statusURL      string
	client         *http.Client
}

// NewGBFS creates the GBFS adapter from the configuration.
func NewGBFS(cfg Config) *GBFSAdapter {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return &GBFSAdapter{
		informationURL: cfg.InformationURL,
		statusURL:      cfg.StatusURL,
		client:         &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// Name identifies the adapter.
func (a *GBFSAdapter) Name() string {
	return "gbfs"
}

type gbfsInformation struct {
	Data struct {
		Stations []struct {
			StationID string   `json:"station_id"`
			Name      string   `json:"name"`
			Address   string   `json:"address"`
			Lat       *float64 `json:"lat"`
			Lon       *float64 `json:"lon"`
			Capacity  *int     `json:"capacity"`
		} `json:"stations"`
	} `json:"data"`
}

type gbfsStatusStation struct {
	StationID          string `json:"station_id"`
	NumBikesAvailable  *int   `json:"num_bikes_available"`
	NumEbikesAvailable *int   `json:"num_ebikes_available"`
	NumDocksAvailable  *int   `json:"num_docks_available"`
	// 0/1 in GBFS v1.x, true/false in v2.x
	IsInstalled any `json:"is_installed"`
	IsRenting   any `json:"is_renting"`
}

type gbfsStatus struct {
	Data struct {
		Stations []gbfsStatusStation `json:"stations"`
	} `json:"data"`
}

// FetchSnapshot fetches both feed documents and joins them per station.
func (a *GBFSAdapter) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	infoRaw, err := a.get(ctx, a.informationURL)
	if err != nil {
		return nil, err
	}
	statusRaw, err := a.get(ctx, a.statusURL)
	if err != nil {
		return nil, err
	}

	var info gbfsInformation
	if err := json.Unmarshal(infoRaw, &info); err != nil {
		return nil, &FetchError{Provider: a.Name(), Err: fmt.Errorf("malformed station_information: %w", err)}
	}
	var status gbfsStatus
	if err := json.Unmarshal(statusRaw, &status); err != nil {
		return nil, &FetchError{Provider: a.Name(), Err: fmt.Errorf("malformed station_status: %w", err)}
	}

	statusByID := make(map[string]gbfsStatusStation, len(status.Data.Stations))
	for _, st := range status.Data.Stations {
		statusByID[st.StationID] = st
	}

	descriptors := make([]models.StationDescriptor, 0, len(info.Data.Stations))
	for _, st := range info.Data.Stations {
		d := models.StationDescriptor{
			ID:         st.StationID,
			Name:       st.Name,
			Address:    st.Address,
			Latitude:   st.Lat,
			Longitude:  st.Lon,
			BikeStands: st.Capacity,
		}

		if live, ok := statusByID[st.StationID]; ok {
			d.Bikes = live.NumBikesAvailable
			d.EBikes = live.NumEbikesAvailable
			d.FreeStands = live.NumDocksAvailable
			if live.IsRenting != nil && live.IsInstalled != nil {
				label := "CLOSED"
				if utils.ToBool(live.IsRenting) && utils.ToBool(live.IsInstalled) {
					label = "OPEN"
				}
				d.Status = &label
			}
		}

		descriptors = append(descriptors, d)
	}

	// Archive both documents as one payload.
	raw, err := json.Marshal(map[string]json.RawMessage{
		"information": infoRaw,
		"status":      statusRaw,
	})
	if err != nil {
		return nil, &FetchError{Provider: a.Name(), Err: err}
	}

	return &Snapshot{
		Descriptors: descriptors,
		Raw:         raw,
		FetchedAt:   time.Now(),
	}, nil
}

func (a *GBFSAdapter) get(ctx context.Context, url string) ([]byte, error) {
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
		return nil, &FetchError{Provider: a.Name(), Err: fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Provider: a.Name(), Err: err}
	}
	return raw, nil
}
