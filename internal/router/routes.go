package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/beetagged/contacts-api/internal/auth"
	"github.com/beetagged/contacts-api/internal/config"
	"github.com/beetagged/contacts-api/internal/handler"
	middlewarepkg "github.com/beetagged/contacts-api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserAdminHandler
	Contacts *handler.ContactsHandler
	Import   *handler.ImportHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/register", handlers.Auth.Register)
	e.POST("/auth/login", handlers.Auth.Login)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	secured.GET("/contacts", handlers.Contacts.List)
	secured.POST("/contacts/import", handlers.Import.Upload, middlewarepkg.ImportRateLimiter(cfg.RateLimitImport))

	admin := secured.Group("/admin", middlewarepkg.RequireRole("admin"))
	admin.GET("/contacts", handlers.Contacts.ListAdmin)
	admin.GET("/users", handlers.Users.List)
	admin.POST("/users", handlers.Users.Create)
	admin.PATCH("/users/:id", handlers.Users.Update)
	admin.DELETE("/users/:id", handlers.Users.Delete)
}
