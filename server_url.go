package replaysync

import (
	"os"
	"strings"
)

// EnvServerURL overrides the base URL of the ingestion server.
const EnvServerURL = "REPLAYSYNC_SERVER_URL"

// ResolveServerURL returns the base URL of the ingestion server: the EnvServerURL variable
// when set, otherwise the default for this build.
func ResolveServerURL(getenv func(string) string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(EnvServerURL)); v != "" {
		return v
	}
	return DefaultServerURL
}
