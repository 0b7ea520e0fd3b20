package router

import (
	"github.com/labstack/echo/v4"

	"github.com/matchpoint/court-reservation/internal/handler"
	"github.com/matchpoint/court-reservation/internal/middleware"
	"github.com/matchpoint/court-reservation/internal/model"
)

// RegisterOwner registers OWNER-scoped endpoints under /v1.  All routes
// require a valid JWT and the OWNER role; per-resource ownership is
// enforced in the handlers through complex→court joins.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner),
	)

	// ---- Complexes and courts ----
	g.POST("/complexes", o.CreateComplex)
	g.GET("/owner/complexes", o.ListComplexes)
	g.POST("/complexes/:id/courts", o.CreateCourt)
	g.PATCH("/courts/:id", o.UpdateCourt)

	// ---- Recurring bookings and releases ----
	g.POST("/courts/:id/recurring", o.CreateRecurring)
	g.GET("/courts/:id/recurring", o.ListRecurring)
	g.PATCH("/recurring/:id/pause", o.PauseRecurring)
	g.PATCH("/recurring/:id/resume", o.ResumeRecurring)
	g.DELETE("/recurring/:id", o.CancelRecurring)
	g.POST("/recurring/:id/releases", o.CreateRelease)
	g.DELETE("/releases/:id", o.DeleteRelease)

	// ---- Bookings (owner side) ----
	g.POST("/bookings/:id/confirm", o.ConfirmBooking)
	g.POST("/bookings/:id/outcome", o.MarkBookingOutcome)
	g.GET("/courts/:id/bookings", o.ListCourtBookings)

	// ---- Tournaments ----
	g.POST("/complexes/:id/tournaments", o.CreateTournament)
	g.GET("/complexes/:id/tournaments", o.ListTournaments)
	g.DELETE("/tournaments/:id", o.CancelTournament)
}
