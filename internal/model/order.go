package model

import "time"

// Order status values.  PENDING and CONFIRMED orders hold seats against
// their tour; CANCELLED and COMPLETED do not.  COMPLETED seats were
// consumed by a past departure and are never recycled.
const (
	OrderPending   = "PENDING"
	OrderConfirmed = "CONFIRMED"
	OrderCancelled = "CANCELLED"
	OrderCompleted = "COMPLETED"
)

// transitions lists the allowed target statuses for each current status.
// CANCELLED -> CONFIRMED is the staff reinstatement path and requires a
// fresh seat reservation before it may be applied.  COMPLETED is terminal.
var transitions = map[string][]string{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderCompleted, OrderCancelled},
	OrderCancelled: {OrderConfirmed},
}

// CanTransition reports whether an order may move from one status to
// another.  It encodes the full state machine including reinstatement;
// callers that must restrict the set further (e.g. user-initiated
// cancellation) layer their own checks on top.
func CanTransition(from, to string) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// IsActiveStatus reports whether an order in the given status holds seats.
func IsActiveStatus(s string) bool {
	return s == OrderPending || s == OrderConfirmed
}

// IsValidStatus reports whether s is one of the four known order statuses.
func IsValidStatus(s string) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderCancelled, OrderCompleted:
		return true
	}
	return false
}

// Order records a user's booking of seats on a tour.
//
// Fields:
//  ID              – primary key identifier.
//  TourID          – tour being booked.
//  UserID          – user who placed the order.
//  Quantity        – number of seats requested (always positive).
//  TotalPriceCents – quantity × tour price at creation time, immutable.
//  Status          – one of PENDING, CONFIRMED, CANCELLED, COMPLETED.
//  ContactEmail    – required contact address for the booking.
//  ContactPhone    – optional contact phone number.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Order struct {
	ID              uint64    // orders.id
	TourID          uint64    // orders.tour_id
	UserID          uint64    // orders.user_id
	Quantity        uint32    // orders.quantity
	TotalPriceCents uint32    // orders.total_price_cents
	Status          string    // orders.status
	ContactEmail    string    // orders.contact_email
	ContactPhone    *string   // orders.contact_phone (nullable)
	CreatedAt       time.Time // orders.created_at
	UpdatedAt       time.Time // orders.updated_at
}
