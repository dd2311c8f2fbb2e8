package store

// Store is a namespaced key-value store for strings and string maps.
// It mirrors the local-storage contract mobile SDKs expose to modules:
// reads never fail (the namespace document is held in memory once opened),
// writes persist through to the backend and report failures to the caller.
//
// Implementations must be safe for concurrent use; callers still own any
// ordering guarantees between related keys.
type Store interface {
	// GetString returns the value stored under key, or fallback when the key
	// is absent.
	GetString(key, fallback string) string

	// SetString stores value under key.
	SetString(key, value string) error

	// GetMap returns the map stored under key, or nil when the key is absent.
	GetMap(key string) map[string]string

	// SetMap stores value under key.
	SetMap(key string, value map[string]string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error

	// Contains reports whether key is present.
	Contains(key string) bool
}

// Provider hands out Stores by namespace. Each module addresses its own
// namespace so modules never collide on keys.
//
// A Provider reference held by a module may be nil when local storage is
// unavailable; modules are expected to degrade to memory-only operation.
type Provider interface {
	// DataStore returns the Store for the given namespace, creating it on
	// first use. Calls with the same name return the same Store.
	DataStore(name string) Store
}
