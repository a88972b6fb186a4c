package model

import "time"

// Destination is a place the agency sells tours to.  A destination
// cannot be deleted while any tour still references it.
type Destination struct {
	ID        uint64    // destinations.id
	Name      string    // destinations.name
	Country   string    // destinations.country
	CreatedAt time.Time // destinations.created_at
}
