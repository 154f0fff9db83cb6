package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dern-company/support-portal/internal/api/http/handlers"
	"github.com/dern-company/support-portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Auth            *handlers.AuthHandler
	Users           *handlers.UsersHandler
	Tickets         *handlers.TicketsHandler
	Bookings        *handlers.BookingsHandler
	Services        *handlers.ServicesHandler
	ActorMiddleware *auth.ActorMiddleware
}

// RegisterRoutes wires HTTP routes. Every route is mounted twice, at the
// bare path and under /api, so older clients keep working.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	registerAPIRoutes(app.Group("", cfg.ActorMiddleware.Handle), cfg)
	registerAPIRoutes(app.Group("/api", cfg.ActorMiddleware.Handle), cfg)
}

func registerAPIRoutes(router fiber.Router, cfg RouteConfig) {
	authGroup := router.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/create-admin", cfg.Auth.CreateAdmin)

	router.Get("/users", auth.RequireAdmin(), cfg.Users.ListUsers)

	tickets := router.Group("/support-tickets", auth.RequireActor())
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Patch("/:id/status", cfg.Tickets.UpdateTicketStatus)
	tickets.Patch("/:id/assign", cfg.Tickets.AssignTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)

	bookings := router.Group("/bookings", auth.RequireActor())
	bookings.Get("", cfg.Bookings.ListBookings)
	bookings.Post("", cfg.Bookings.CreateBooking)
	bookings.Patch("/:id/status", cfg.Bookings.UpdateBookingStatus)
	bookings.Patch("/:id/cancel", cfg.Bookings.CancelBooking)

	services := router.Group("/services")
	services.Get("", cfg.Services.ListServices)
	services.Get("/:id", cfg.Services.GetService)
	services.Post("", auth.RequireAdmin(), cfg.Services.CreateService)
	services.Put("/:id", auth.RequireAdmin(), cfg.Services.UpdateService)
	services.Delete("/:id", auth.RequireAdmin(), cfg.Services.DeleteService)
}
