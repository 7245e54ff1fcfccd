package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cityBikesFixture = `{
  "network": {
    "stations": [
      {
        "id": "abc123",
        "name": "Rue X",
        "latitude": 48.85,
        "longitude": 2.35,
        "free_bikes": 10,
        "empty_slots": 7,
        "extra": {
          "uid": 42,
          "banking": true,
          "bonus": 0,
          "slots": "20",
          "status": "OPEN",
          "ebikes": 3,
          "address": "1 Rue X"
        }
      },
      {
        "id": "def456",
        "name": "Rue Z",
        "latitude": 48.80,
        "longitude": 2.30,
        "free_bikes": 2,
        "empty_slots": 5,
        "extra": {}
      }
    ]
  }
}`

func cityBikesServer(t *testing.T, status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/networks/velib", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestCityBikes_FetchSnapshot(t *testing.T) {
	server := cityBikesServer(t, http.StatusOK, cityBikesFixture)
	defer server.Close()

	adapter := NewCityBikes(Config{Endpoint: server.URL, Network: "velib"})

	snapshot, err := adapter.FetchSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.Descriptors, 2)
	assert.Equal(t, []byte(cityBikesFixture), snapshot.Raw)
	assert.False(t, snapshot.FetchedAt.IsZero())

	d := snapshot.Descriptors[0]
	// extra.uid wins over the citybik.es hash, converted from its numeric form
	assert.Equal(t, "42", d.ID)
	assert.Equal(t, "Rue X", d.Name)
	assert.Equal(t, "1 Rue X", d.Address)
	require.NotNil(t, d.Latitude)
	assert.Equal(t, 48.85, *d.Latitude)
	require.NotNil(t, d.Banking)
	assert.True(t, *d.Banking)
	require.NotNil(t, d.Bonus)
	assert.False(t, *d.Bonus) // numeric 0 converts to false
	require.NotNil(t, d.BikeStands)
	assert.Equal(t, 20, *d.BikeStands) // string "20" converts tolerantly
	require.NotNil(t, d.EBikes)
	assert.Equal(t, 3, *d.EBikes)
	require.NotNil(t, d.Status)
	assert.Equal(t, "OPEN", *d.Status)

	// Network without extras: no uid, every optional field absent
	bare := snapshot.Descriptors[1]
	assert.Equal(t, "def456", bare.ID)
	assert.Nil(t, bare.Banking)
	assert.Nil(t, bare.Bonus)
	assert.Nil(t, bare.BikeStands)
	assert.Nil(t, bare.EBikes)
	assert.Nil(t, bare.Status)
	require.NotNil(t, bare.Bikes)
	assert.Equal(t, 2, *bare.Bikes)
}

func TestCityBikes_NonOKStatus(t *testing.T) {
	server := cityBikesServer(t, http.StatusBadGateway, "upstream broken")
	defer server.Close()

	adapter := NewCityBikes(Config{Endpoint: server.URL, Network: "velib"})

	snapshot, err := adapter.FetchSnapshot(context.Background())
	require.Error(t, err)
	assert.Nil(t, snapshot)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "citybikes", fetchErr.Provider)
}

func TestCityBikes_MalformedPayload(t *testing.T) {
	server := cityBikesServer(t, http.StatusOK, `{"network": [`)
	defer server.Close()

	adapter := NewCityBikes(Config{Endpoint: server.URL, Network: "velib"})

	_, err := adapter.FetchSnapshot(context.Background())
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "malformed")
}

func TestCityBikes_NetworkFailure(t *testing.T) {
	server := cityBikesServer(t, http.StatusOK, cityBikesFixture)
	server.Close() // Closed before use

	adapter := NewCityBikes(Config{Endpoint: server.URL, Network: "velib"})

	_, err := adapter.FetchSnapshot(context.Background())
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
}
