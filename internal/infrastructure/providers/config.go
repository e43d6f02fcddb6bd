package providers

import "time"

// ClientConfig is the per-provider configuration shared by all source
// clients. An empty APIKey disables the provider; the cascade skips it.
type ClientConfig struct {
	APIKey         string
	BaseURL        string
	BaseConfidence float64
	Timeout        time.Duration
	// RequestsPerSecond bounds outbound traffic to the provider. Zero
	// disables client-side rate limiting.
	RequestsPerSecond float64
}

// DefaultTimeout applies when a provider config leaves Timeout unset.
const DefaultTimeout = 10 * time.Second

// EffectiveTimeout returns the configured timeout or the default.
func (c ClientConfig) EffectiveTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}
