package model

import "time"

// Tour represents a scheduled group trip to a destination.  GroupSize is
// the fixed maximum number of seats ever sellable for the tour's next
// departure.  Available seats are never stored; they are always derived
// from GroupSize minus the seats held by active orders.
//
// Fields:
//  ID            – primary key identifier.
//  Slug          – unique, URL-safe identifier.
//  DestinationID – destination the tour visits.
//  Title         – display title of the tour.
//  PriceCents    – price per seat in cents.
//  GroupSize     – maximum seats sellable for the departure.
//  StartsAt      – departure time.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Tour struct {
	ID            uint64    // tours.id
	Slug          string    // tours.slug
	DestinationID uint64    // tours.destination_id
	Title         string    // tours.title
	PriceCents    uint32    // tours.price_cents
	GroupSize     uint32    // tours.group_size
	StartsAt      time.Time // tours.starts_at
	CreatedAt     time.Time // tours.created_at
	UpdatedAt     time.Time // tours.updated_at
}
