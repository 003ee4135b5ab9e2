package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/khudpay/onboard/app/controllers"
	"github.com/khudpay/onboard/internal/pkg/middleware"
)

func (h *HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Auth
	app.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)

	// Session-bound JSON endpoints the editor pages call via fetch. These
	// carry no form body, so they sit outside the form CSRF group.
	editorJSON := app.Group("/client", middleware.RequireAuth)
	editorJSON.Post("/select/country", controllers.HandleClientSelectCountry)
	editorJSON.Post("/select/state", controllers.HandleClientSelectState)
	editorJSON.Post("/select/city", controllers.HandleClientSelectCity)
	editorJSON.Post("/options/states", controllers.HandleClientStateOptions)
	editorJSON.Post("/options/cities", controllers.HandleClientCityOptions)
	editorJSON.Post("/location", controllers.HandleLocationConfirm)
	editorJSON.Post("/branch/select/country", controllers.HandleBranchSelectCountry)
	editorJSON.Post("/branch/select/state", controllers.HandleBranchSelectState)
	editorJSON.Post("/branch/select/city", controllers.HandleBranchSelectCity)
	editorJSON.Post("/branch/options/states", controllers.HandleBranchStateOptions)
	editorJSON.Post("/branch/options/cities", controllers.HandleBranchCityOptions)
}
