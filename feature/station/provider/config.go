package provider

// Config holds configuration for the bike-share data provider.
type Config struct {
	// Kind selects the adapter (citybikes, gbfs).
	Kind string `mapstructure:"kind" default:"citybikes"`
	// Endpoint is the API base URL for the citybikes adapter.
	Endpoint string `mapstructure:"endpoint" default:"https://api.citybik.es"`
	// Network is the citybikes network slug (e.g. velib).
	Network string `mapstructure:"network" default:"velib"`
	// InformationURL is the GBFS station_information.json URL.
	InformationURL string `mapstructure:"information_url" default:""`
	// StatusURL is the GBFS station_status.json URL.
	StatusURL string `mapstructure:"status_url" default:""`
	// TimeoutSeconds bounds one fetch. A timeout is treated like any other
	// fetch failure: the cycle aborts with zero writes.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
