package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gbfsInformationFixture = `{
  "last_updated": 1756500000,
  "data": {
    "stations": [
      {"station_id": "42", "name": "Rue X", "address": "1 Rue X", "lat": 48.85, "lon": 2.35, "capacity": 20},
      {"station_id": "43", "name": "Rue Z", "lat": 48.80, "lon": 2.30}
    ]
  }
}`

const gbfsStatusFixture = `{
  "last_updated": 1756500000,
  "data": {
    "stations": [
      {"station_id": "42", "num_bikes_available": 10, "num_ebikes_available": 3, "num_docks_available": 7, "is_installed": true, "is_renting": true},
      {"station_id": "43", "num_bikes_available": 2, "num_docks_available": 5, "is_installed": 1, "is_renting": 0}
    ]
  }
}`

func gbfsServers(t *testing.T) (*httptest.Server, *httptest.Server) {
	information := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(gbfsInformationFixture))
	}))
	status := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(gbfsStatusFixture))
	}))
	return information, status
}

func TestGBFS_FetchSnapshot(t *testing.T) {
	information, status := gbfsServers(t)
	defer information.Close()
	defer status.Close()

	adapter := NewGBFS(Config{InformationURL: information.URL, StatusURL: status.URL})

	snapshot, err := adapter.FetchSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.Descriptors, 2)

	d := snapshot.Descriptors[0]
	assert.Equal(t, "42", d.ID)
	assert.Equal(t, "Rue X", d.Name)
	assert.Equal(t, "1 Rue X", d.Address)
	require.NotNil(t, d.BikeStands)
	assert.Equal(t, 20, *d.BikeStands)
	require.NotNil(t, d.Bikes)
	assert.Equal(t, 10, *d.Bikes)
	require.NotNil(t, d.EBikes)
	assert.Equal(t, 3, *d.EBikes)
	require.NotNil(t, d.Status)
	assert.Equal(t, "OPEN", *d.Status)

	// GBFS carries no banking or bonus flags: absent, not false
	assert.Nil(t, d.Banking)
	assert.Nil(t, d.Bonus)

	// v1-style numeric renting flags, not renting -> CLOSED
	closed := snapshot.Descriptors[1]
	require.NotNil(t, closed.Status)
	assert.Equal(t, "CLOSED", *closed.Status)
	assert.Nil(t, closed.EBikes)
	assert.Nil(t, closed.BikeStands)
}

func TestGBFS_StatusEndpointFailure(t *testing.T) {
	information, _ := gbfsServers(t)
	defer information.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	adapter := NewGBFS(Config{InformationURL: information.URL, StatusURL: broken.URL})

	_, err := adapter.FetchSnapshot(context.Background())
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "gbfs", fetchErr.Provider)
}

func TestNew_SelectsAdapter(t *testing.T) {
	adapter, err := New(Config{Kind: "citybikes"})
	require.NoError(t, err)
	assert.Equal(t, "citybikes", adapter.Name())

	adapter, err = New(Config{Kind: "gbfs", InformationURL: "http://x/information.json", StatusURL: "http://x/status.json"})
	require.NoError(t, err)
	assert.Equal(t, "gbfs", adapter.Name())

	_, err = New(Config{Kind: "gbfs"})
	assert.Error(t, err)

	_, err = New(Config{Kind: "carrier-pigeon"})
	assert.Error(t, err)
}
