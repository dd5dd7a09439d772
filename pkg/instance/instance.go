package instance

import (
	"os"

	"github.com/angelmondragon/brewery-backend/pkg/env"
)

// GetID returns the process instance identifier used in startup logs.
// BREWERY_INSTANCE_ID wins, then the platform DYNO name, then the hostname.
func GetID() string {
	if id := env.Get("BREWERY_INSTANCE_ID", ""); id != "" {
		return id
	}
	if id := env.Get("DYNO", ""); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
