package v1

import (
	"volunteer-hub/internal/delivery/http/handler"
	"volunteer-hub/internal/delivery/http/middleware"
	"volunteer-hub/internal/domain/user"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth           *handler.AuthHandler
	User           *handler.UserHandler
	Opportunity    *handler.OpportunityHandler
	Admin          *handler.AdminHandler
	Contact        *handler.ContactHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func Register(r fiber.Router, h Handlers) {
	if r == nil || h.AuthMiddleware == nil {
		return
	}

	auth := h.AuthMiddleware.Middleware()
	hostOnly := middleware.RequireRoles(user.RoleHost, user.RoleAdmin)
	adminOnly := middleware.RequireRoles(user.RoleAdmin)

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"), auth)
	}
	if h.User != nil {
		h.User.RegisterRoutes(r.Group("/users", auth))
	}
	if h.Opportunity != nil {
		h.Opportunity.RegisterRoutes(r.Group("/opportunities"), auth, hostOnly)
	}
	if h.Admin != nil {
		h.Admin.RegisterRoutes(r.Group("/admin", auth, adminOnly))
	}
	if h.Contact != nil {
		h.Contact.RegisterRoutes(r)
	}
}
