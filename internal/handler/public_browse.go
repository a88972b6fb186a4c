// This file exposes the unauthenticated catalog endpoints. They are
// read-only and idempotent, which is what makes them safe to put behind
// the Redis response cache: reservation paths never read through it.
package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sunvoyage/tour-booking/internal/booking"
	"github.com/sunvoyage/tour-booking/internal/model"
	"github.com/sunvoyage/tour-booking/internal/repository"
)

// PublicHandler serves the guest-facing catalog: destinations, tours
// and derived seat availability.
type PublicHandler struct {
	Tours        booking.TourService
	TourRepo     *repository.TourRepo
	Destinations *repository.DestinationRepo
}

// NewPublicHandler constructs a PublicHandler.
func NewPublicHandler(tours booking.TourService, tourRepo *repository.TourRepo, destinations *repository.DestinationRepo) *PublicHandler {
	if tours == nil || tourRepo == nil || destinations == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Tours: tours, TourRepo: tourRepo, Destinations: destinations}
}

// PublicDestination is the sanitized destination row served to guests.
type PublicDestination struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// ListDestinations handles GET /v1/destinations.
func (h *PublicHandler) ListDestinations(c echo.Context) error {
	items, err := h.Destinations.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load destinations"})
	}
	out := make([]PublicDestination, 0, len(items))
	for _, d := range items {
		out = append(out, PublicDestination{ID: d.ID, Name: d.Name, Country: d.Country})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListTours handles GET /v1/tours. Each tour carries its available seat
// count computed from the active orders aggregate.
func (h *PublicHandler) ListTours(c echo.Context) error {
	items, err := h.TourRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tours"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// PublicTour is the sanitized tour detail served to guests.
type PublicTour struct {
	ID            uint64    `json:"id"`
	Slug          string    `json:"slug"`
	DestinationID uint64    `json:"destination_id"`
	Title         string    `json:"title"`
	PriceCents    uint32    `json:"price_cents"`
	GroupSize     uint32    `json:"group_size"`
	StartsAt      time.Time `json:"starts_at"`
}

// GetTour handles GET /v1/tours/:id. Numeric IDs and slugs are both
// accepted so catalog links can use either.
func (h *PublicHandler) GetTour(c echo.Context) error {
	ctx := c.Request().Context()
	param := strings.TrimSpace(c.Param("id"))

	var (
		tour *model.Tour
		err  error
	)
	if id, ok := parseID(c, "id"); ok {
		tour, err = h.TourRepo.GetByID(ctx, id)
	} else {
		tour, err = h.TourRepo.GetBySlug(ctx, param)
	}
	if err != nil {
		if errors.Is(err, repository.ErrTourNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tour not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch tour"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": PublicTour{
		ID:            tour.ID,
		Slug:          tour.Slug,
		DestinationID: tour.DestinationID,
		Title:         tour.Title,
		PriceCents:    tour.PriceCents,
		GroupSize:     tour.GroupSize,
		StartsAt:      tour.StartsAt,
	}})
}

// GetTourAvailability handles GET /v1/tours/:id/availability. It
// returns the tour's fixed group size alongside the derived available
// seat count.
func (h *PublicHandler) GetTourAvailability(c echo.Context) error {
	tourID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tour id"})
	}
	av, err := h.Tours.Availability(c.Request().Context(), tourID)
	if err != nil {
		if errors.Is(err, repository.ErrTourNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tour not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute availability"})
	}
	return c.JSON(http.StatusOK, av)
}
