package instance

import (
	"os"
	"strings"
)

// GetID returns an identifier for the running process, preferring the platform
// dyno name, then the host name.
func GetID() string {
	for _, env := range []string{"CARBON_INSTANCE_ID", "DYNO", "HOSTNAME"} {
		if id := strings.TrimSpace(os.Getenv(env)); id != "" {
			return id
		}
	}
	return "local"
}
