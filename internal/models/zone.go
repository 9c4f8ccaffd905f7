// Package models defines data structures and domain types.
package models

// Zone is one traffic-analytics scope visible to an API token.
type Zone struct {
	// Tag is the stable zone identifier used in API calls.
	Tag string
	// Name is the display name. When discovery had to fall back to the
	// GraphQL zone listing, no name is available and Name equals Tag.
	Name string
}
