//go:build !dev

package replaysync

// DefaultServerURL is the ingestion server used by release builds.
const DefaultServerURL = "https://api.melee.tv"
