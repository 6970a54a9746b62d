package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/kinozal/ticket-office/internal/handler"
	"github.com/kinozal/ticket-office/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes and the authenticated
// identity endpoint. Unauthenticated operations live under /v1/auth,
// protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts either a bearer token (revokes every session) or a
	// refresh_token in the body (revokes that one session), so it stays
	// outside the JWT group.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "CUSTOMER"),
	)
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints: the hall
// catalogue and the showtime listings for today or tomorrow. An optional
// response-cache middleware (Redis) may be supplied; pass nil to skip it.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, cache echo.MiddlewareFunc) {
	var mw []echo.MiddlewareFunc
	if cache != nil {
		mw = append(mw, cache)
	}
	g := e.Group("/v1", mw...)
	g.GET("/halls", b.ListHalls)
	g.GET("/showtimes", b.ListShowtimes)
}

// RegisterAdmin registers ADMIN-scoped endpoints under /v1. All routes
// require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Halls ----
	g.POST("/halls", a.CreateHall)
	g.PUT("/halls/:id", a.UpdateHall)
	g.PATCH("/halls/:id", a.UpdateHall) // allow partial updates via PATCH as well

	// ---- Showtimes ----
	g.POST("/showtimes", a.CreateShowtime)
	g.PUT("/showtimes/:id", a.UpdateShowtime)
	g.PATCH("/showtimes/:id", a.UpdateShowtime)
	g.GET("/halls/:hall_id/showtimes", a.ListShowtimesInHall)
}

// RegisterCustomer registers CUSTOMER-scoped endpoints under /v1: buying
// tickets and listing one's own purchases. Admins may buy too.
func RegisterCustomer(e *echo.Echo, p *handler.PurchaseHandler, jwtSecret string) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	)
	g.POST("/tickets", p.Buy)
	g.GET("/tickets", p.MyTickets)
}
