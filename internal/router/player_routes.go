package router

import (
	"github.com/labstack/echo/v4"

	"github.com/matchpoint/court-reservation/internal/handler"
	"github.com/matchpoint/court-reservation/internal/middleware"
	"github.com/matchpoint/court-reservation/internal/model"
)

// RegisterBookings registers the booking endpoints.  Both roles may
// book: players book for themselves, owners register walk-ins on their
// own courts.  Ownership of the slot or court is verified in the
// handlers.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RolePlayer, model.RoleOwner),
	)
	g.POST("/courts/:id/bookings", h.CreateBooking)
	g.GET("/my-bookings", h.ListMyBookings)
	g.DELETE("/bookings/:id", h.CancelBooking)
}
