package pdpmcp

import "time"

// Default endpoints and tuning values for the Payment Developer Portal.
const (
	DefaultBaseURL       = "https://developer.payments.jpmorgan.com"
	DefaultSearchAPIURL  = "https://developer.payments.jpmorgan.com/console/api/search"
	DefaultRelatedAPIURL = "https://developer.payments.jpmorgan.com/console/api/related"
	DefaultUserAgent     = "ModelContextProtocol/1.0 (PDP Documentation Server)"
	DefaultTimeout       = 30 * time.Second
	DefaultMaxRetries    = 2
)

// Config holds process-wide configuration. It is constructed once at startup
// and treated as immutable afterwards; components receive it (or the fields
// they need) through their constructors and never consult the environment
// themselves.
type Config struct {
	// BaseURL is the root of the documentation portal. Its host defines the
	// Guard's allow-list and relative result URLs are resolved against it.
	BaseURL string

	// SearchAPIURL is the portal's Search API endpoint.
	SearchAPIURL string

	// RelatedAPIURL is the portal's Related-Content API endpoint.
	RelatedAPIURL string

	// ProxyURL routes outbound requests through a proxy when non-empty.
	ProxyURL string

	// UserAgent is sent with every outbound request.
	UserAgent string

	// SessionID is sent as the X-MCP-Session-Id header, generated once per
	// process so the portal can correlate requests from a single assistant
	// session.
	SessionID string

	// Timeout bounds each individual fetch attempt, not the whole call.
	Timeout time.Duration

	// MaxRetries is the number of additional attempts after the first on
	// transient failures (connection errors, timeouts, 5xx, 429).
	MaxRetries int
}

// DefaultConfig returns a Config populated with portal defaults. The caller
// is expected to fill in SessionID and any environment overrides.
func DefaultConfig() Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		SearchAPIURL:  DefaultSearchAPIURL,
		RelatedAPIURL: DefaultRelatedAPIURL,
		UserAgent:     DefaultUserAgent,
		Timeout:       DefaultTimeout,
		MaxRetries:    DefaultMaxRetries,
	}
}
