package models

// Collection identifies a cached entity collection.
type Collection string

const (
	CollectionDebts       Collection = "debts"
	CollectionAccounts    Collection = "accounts"
	CollectionInvestments Collection = "investments"
)

// validCollections lists all known collections.
var validCollections = map[Collection]bool{
	CollectionDebts:       true,
	CollectionAccounts:    true,
	CollectionInvestments: true,
}

// ValidCollection returns true if c is a known collection.
func ValidCollection(c Collection) bool {
	return validCollections[c]
}

// CollectionState is the cache lifecycle of one collection:
// Idle → Fetching → Fresh → Stale → Fetching.
type CollectionState string

const (
	// CollectionIdle means the collection has never been fetched.
	CollectionIdle CollectionState = "idle"
	// CollectionFetching means a fetch from the store is in flight.
	CollectionFetching CollectionState = "fetching"
	// CollectionFresh means the cached collection is served without
	// touching the store.
	CollectionFresh CollectionState = "fresh"
	// CollectionStale means a related mutation invalidated the cached
	// collection; the next read refetches.
	CollectionStale CollectionState = "stale"
)
