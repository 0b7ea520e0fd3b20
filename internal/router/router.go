// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/matchpoint/court-reservation/internal/handler"
	"github.com/matchpoint/court-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication routes and the protected /v1/me
// endpoint.  Unauthenticated operations live under /v1/auth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout does not require JWT middleware; the handler accepts either
	// a refresh_token body or a bearer token and revokes accordingly.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse and availability
// endpoints.  The cache middleware (a no-op when Redis is down) wraps
// these GETs only; authenticated routes are never cached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)
	g.GET("/complexes", p.GetComplexes)
	g.GET("/complexes/:id/courts", p.GetCourtsByComplex)
	g.GET("/courts/:id/availability", p.GetAvailability)
}
