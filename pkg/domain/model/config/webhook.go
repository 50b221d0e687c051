package config

import (
	"net"

	"github.com/clearpath-fin/clearpath/pkg/domain/types"
)

// WebhookConfig holds the payment-provider webhook endpoint configuration:
// which events the endpoint subscribes to, how often the provider retries,
// and which source addresses are accepted.
type WebhookConfig struct {
	EndpointURL   string
	SigningSecret string
	MaxRetries    int
	ToleranceSec  int64 // signature timestamp tolerance
	Events        []types.WebhookEventType
	AllowedCIDRs  []string
}

// IsEventRegistered reports whether the endpoint subscribes to the event type
func (c *WebhookConfig) IsEventRegistered(t types.WebhookEventType) bool {
	for _, e := range c.Events {
		if e == t {
			return true
		}
	}
	return false
}

// IsSourceAllowed reports whether the remote IP is within the allowlist.
// An empty allowlist accepts any source.
func (c *WebhookConfig) IsSourceAllowed(ip net.IP) bool {
	if len(c.AllowedCIDRs) == 0 {
		return true
	}
	for _, cidr := range c.AllowedCIDRs {
		_, network, err := net.ParseCIDR(cidr)
		if err == nil {
			if network.Contains(ip) {
				return true
			}
			continue
		}
		if allowed := net.ParseIP(cidr); allowed != nil && allowed.Equal(ip) {
			return true
		}
	}
	return false
}
