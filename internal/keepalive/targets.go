package keepalive

import (
	"log/slog"

	"github.com/contactbox/backend/internal/config"
)

// TargetsFromConfig returns the self target and, when an external URL is
// configured, the external target. A missing external URL is logged at WARN.
func TargetsFromConfig(ka config.KeepAliveConfig, selfURL string) []Target {
	targets := []Target{{
		Name:     "self",
		URL:      selfURL,
		Interval: ka.SelfInterval,
		Timeout:  ka.SelfTimeout,
	}}
	if ka.ExternalURL == "" {
		slog.Warn("external keepalive target disabled", "reason", "KEEPALIVE_EXTERNAL_URL not set")
	} else {
		targets = append(targets, Target{
			Name:     "external",
			URL:      ka.ExternalURL,
			Interval: ka.ExternalInterval,
			Timeout:  ka.ExternalTimeout,
		})
	}
	return targets
}
