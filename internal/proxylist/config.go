package proxylist

import "time"

// Config holds the proxy selector settings.
type Config struct {
	// ProxyScrapeURL is the SOCKS4 list endpoint.
	ProxyScrapeURL string

	// MTProURL is the SOCKS5 list endpoint.
	MTProURL string

	// RequestTimeout bounds each upstream HTTP call.
	RequestTimeout time.Duration

	// AllowedCountries is the ISO country-code allow-list applied to the
	// fetched records.
	AllowedCountries []string

	// CacheTTL is how long a fetched list stays valid per protocol.
	CacheTTL time.Duration
}

// DefaultConfig returns a Config populated with the upstream endpoints and
// the defaults the tool ships with.
func DefaultConfig() Config {
	return Config{
		ProxyScrapeURL:   "https://api.proxyscrape.com/v3/free-proxy-list/get",
		MTProURL:         "https://mtpro.xyz/api/",
		RequestTimeout:   3 * time.Second,
		AllowedCountries: []string{"FR", "GB", "DE", "ES", "CH", "US"},
		CacheTTL:         180 * time.Second,
	}
}
