package model

import "time"

// Review is a customer review of a tour.  Reviews are authored and
// moderated outside this service; the engine only deletes them in bulk
// when their tour is removed.
type Review struct {
	ID        uint64    // reviews.id
	TourID    uint64    // reviews.tour_id
	UserID    uint64    // reviews.user_id
	Rating    uint8     // reviews.rating (1..5)
	Body      string    // reviews.body
	CreatedAt time.Time // reviews.created_at
}
