//go:build dev

package replaysync

// DefaultServerURL is the ingestion server used by development builds.
const DefaultServerURL = "http://localhost:8080"
