// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types published to the order.lifecycle queue.
const (
	EventOrderCreated       = "order.created"
	EventOrderCancelled     = "order.cancelled"
	EventOrderStatusChanged = "order.status_changed"
	EventTourDeleted        = "tour.deleted"
)

// OrderEvent is published whenever an order is created or transitions
// status. It carries enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type OrderEvent struct {
	EventID         string `json:"event_id"`
	EventType       string `json:"event_type"`
	OrderID         uint64 `json:"order_id"`
	TourID          uint64 `json:"tour_id"`
	UserID          uint64 `json:"user_id"`
	Quantity        uint32 `json:"quantity"`
	FromStatus      string `json:"from_status,omitempty"`
	Status          string `json:"status"`
	TotalPriceCents uint32 `json:"total_price_cents"`
	OccurredAt      string `json:"occurred_at"`
}

// TourDeletedEvent is published after a tour cascade delete commits.
type TourDeletedEvent struct {
	EventID         string `json:"event_id"`
	EventType       string `json:"event_type"`
	TourID          uint64 `json:"tour_id"`
	Slug            string `json:"slug"`
	CancelledOrders int64  `json:"cancelled_orders"`
	DeletedReviews  int64  `json:"deleted_reviews"`
	OccurredAt      string `json:"occurred_at"`
}
