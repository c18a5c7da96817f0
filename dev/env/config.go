package devenv

// LiveTestConfig lives at dev/.state/live_config.json5, tests that hit the
// real bank sites are skipped unless it exists and enables them.
type LiveTestConfig struct {
	Enabled bool `json:"enabled"`
	// source id -> base url, empty means the production endpoint
	BaseUrls map[string]string `json:"base_urls"`
}
