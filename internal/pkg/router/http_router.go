package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/khudpay/onboard/app/controllers"
	"github.com/khudpay/onboard/internal/pkg/editor"
	"github.com/khudpay/onboard/internal/pkg/middleware"
	"github.com/khudpay/onboard/internal/pkg/session"
)

type HttpRouter struct {
	storage fiber.Storage
}

func (h *HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Session drafts live next to the persisted collections.
	controllers.InitializeControllers(editor.NewStore(h.storage))

	h.registerPublicRoutes(app)
	h.registerConsoleRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

// NewHttpRouter builds the page router. The storage backend holds the
// per-session editor drafts.
func NewHttpRouter(storage fiber.Storage) *HttpRouter {
	return &HttpRouter{storage: storage}
}
