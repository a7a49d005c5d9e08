package ports

import "context"

// Location is the registrant-facing geolocation detail attached to new
// accounts.
type Location struct {
	Country  string
	City     string
	Currency string
}

// LocationProvider resolves the location of the registering client.
// Lookups are best-effort: registration proceeds with empty fields when the
// provider fails.
type LocationProvider interface {
	Lookup(ctx context.Context) (Location, error)
}
