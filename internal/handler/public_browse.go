// Package handler exposes HTTP handlers for both authenticated and public
// endpoints.  This file defines the public browsing API: unauthenticated
// users can list complexes, their courts, and the availability grid of a
// court for a given date.  Sensitive fields (owner IDs, timestamps) are
// filtered from responses.

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/matchpoint/court-reservation/internal/repository"
	"github.com/matchpoint/court-reservation/internal/schedule"
)

// PublicHandler aggregates repositories needed for unauthenticated browsing.
type PublicHandler struct {
	ComplexRepo *repository.ComplexRepo
	CourtRepo   *repository.CourtRepo
	Resolver    *schedule.Resolver
}

// PublicComplex represents a complex exposed via the public API.  It
// contains only safe fields.
type PublicComplex struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
	Slug    string `json:"slug"`
}

// PublicCourt represents a court exposed via the public API.
type PublicCourt struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Sport       string `json:"sport"`
	OpenTime    string `json:"open_time"`
	CloseTime   string `json:"close_time"`
	SlotMinutes int    `json:"slot_minutes"`
	PriceCents  uint32 `json:"price_cents"`
}

// GetComplexes handles GET /v1/complexes.  Response JSON contains an
// "items" array of PublicComplex.
func (h *PublicHandler) GetComplexes(c echo.Context) error {
	ctx := c.Request().Context()
	complexes, err := h.ComplexRepo.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicComplex, 0, len(complexes))
	for _, cx := range complexes {
		out = append(out, PublicComplex{ID: cx.ID, Name: cx.Name, Address: cx.Address, City: cx.City, Phone: cx.Phone, Slug: cx.Slug})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetCourtsByComplex handles GET /v1/complexes/:id/courts.  It validates
// the complex exists, then returns only non-sensitive fields.
func (h *PublicHandler) GetCourtsByComplex(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.ComplexRepo.GetByID(ctx, id); err != nil {
		if err == repository.ErrComplexNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "complex not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	courts, err := h.CourtRepo.ListByComplex(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicCourt, 0, len(courts))
	for _, ct := range courts {
		out = append(out, PublicCourt{
			ID:          ct.ID,
			Name:        ct.Name,
			Sport:       ct.Sport,
			OpenTime:    ct.OpenTime,
			CloseTime:   ct.CloseTime,
			SlotMinutes: ct.SlotMinutes,
			PriceCents:  ct.PriceCents,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetAvailability handles GET /v1/courts/:id/availability?date=YYYY-MM-DD.
// It returns the ordered slot grid for the court on that date, each slot
// marked free or occupied with the occupation kind and effective price.
func (h *PublicHandler) GetAvailability(c echo.Context) error {
	ctx := c.Request().Context()
	courtID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	date, err := schedule.ParseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	cfg, err := h.CourtRepo.Config(ctx, courtID)
	if err != nil {
		if err == repository.ErrCourtNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		if handled, herr := scheduleError(c, err); handled {
			return herr
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	slots, err := schedule.AvailabilityForDate(ctx, h.Resolver, cfg, date)
	if err != nil {
		if handled, herr := scheduleError(c, err); handled {
			return herr
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"court_id": courtID,
		"date":     date.Format("2006-01-02"),
		"slots":    slots,
	})
}
