// Package common contains constants and small helpers shared by the client
// packages.
package common

const (
	// AuthorizationHeaderName carries the bearer token on outbound API requests.
	AuthorizationHeaderName = "Authorization"
	// BearerPrefix precedes the token value in the Authorization header.
	BearerPrefix = "Bearer "
)

// Keys of the persisted local snapshots. Each is loaded and saved
// independently.
const (
	CacheKeySession   = "session"
	CacheKeyDonations = "donations_cache"
	CacheKeyCampaigns = "campaigns_cache"
	CacheKeyNGOs      = "ngos_cache"
)

// AllCacheKeys lists every snapshot wiped on logout.
var AllCacheKeys = []string{CacheKeySession, CacheKeyDonations, CacheKeyCampaigns, CacheKeyNGOs}
