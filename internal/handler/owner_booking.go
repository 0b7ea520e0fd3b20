package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/matchpoint/court-reservation/internal/model"
	"github.com/matchpoint/court-reservation/internal/repository"
	"github.com/matchpoint/court-reservation/internal/schedule"
)

// ConfirmBooking handles POST /v1/bookings/:id/confirm.  The owner of
// the court marks a pending booking as paid and confirmed.
func (h *OwnerHandler) ConfirmBooking(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()

	b, err := h.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if ok, resp := h.requireCourtOwner(c, b.CourtID, ownerID); !ok {
		return resp
	}

	if err := h.BookingRepo.Confirm(ctx, bookingID); err != nil {
		switch err {
		case repository.ErrBookingNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not pending"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": bookingID, "status": model.BookingConfirmed, "paid": true})
}

type outcomeReq struct {
	Status string `json:"status"` // NO_SHOW | COMPLETED
}

// MarkBookingOutcome handles POST /v1/bookings/:id/outcome.  After the
// slot, the owner records whether the customer showed up; either way
// the row stops occupying its slot.
func (h *OwnerHandler) MarkBookingOutcome(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req outcomeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status != model.BookingNoShow && status != model.BookingCompleted {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be NO_SHOW or COMPLETED"})
	}
	ctx := c.Request().Context()

	b, err := h.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if ok, resp := h.requireCourtOwner(c, b.CourtID, ownerID); !ok {
		return resp
	}

	if err := h.BookingRepo.MarkOutcome(ctx, bookingID, status); err != nil {
		switch err {
		case repository.ErrBookingNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not open"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": bookingID, "status": status})
}

// ListCourtBookings handles GET /v1/courts/:id/bookings?date=YYYY-MM-DD,
// the owner's day view.  Historical rows are included so the day sheet
// shows cancellations and no-shows too.
func (h *OwnerHandler) ListCourtBookings(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courtID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	date, err := schedule.ParseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if ok, resp := h.requireCourtOwner(c, courtID, ownerID); !ok {
		return resp
	}

	bookings, err := h.BookingRepo.ListByCourtAndDate(c.Request().Context(), courtID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items := make([]echo.Map, 0, len(bookings))
	for _, b := range bookings {
		item := echo.Map{
			"id":          b.ID,
			"start":       schedule.FormatClock(b.StartMin),
			"end":         schedule.FormatClock(b.EndMin),
			"status":      b.Status,
			"paid":        b.Paid,
			"price_cents": b.PriceCents,
		}
		if b.PlayerID != nil {
			item["player_id"] = *b.PlayerID
		}
		if b.CustomerName != "" {
			item["customer_name"] = b.CustomerName
			item["customer_phone"] = b.CustomerPhone
		}
		items = append(items, item)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"court_id": courtID,
		"date":     date.Format("2006-01-02"),
		"items":    items,
	})
}
