package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/khudpay/onboard/app/controllers"
	"github.com/khudpay/onboard/internal/pkg/middleware"
)

func (h *HttpRouter) registerConsoleRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.RequireAdmin)
	adminGroup.Post("/clients/delete/:id", controllers.HandleAdminClientDelete)
	adminGroup.Post("/clients/:id/branches/delete/:index", controllers.HandleAdminBranchDelete)
	adminGroup.Post("/clients/:id/branches/:index/apis/delete/:apiIndex", controllers.HandleAdminAPIDelete)

	// Stored file downloads render inside the console every signed-in user
	// sees, so they live outside the admin gate.
	app.Get("/clients/:id/logo", middleware.RequireAuth, controllers.HandleAdminLogo)
	app.Get("/clients/:id/contracts/:index/download", middleware.RequireAuth, controllers.HandleAdminContractDownload)
}
