package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/khudpay/onboard/app/controllers"
	"github.com/khudpay/onboard/internal/pkg/env"
	"github.com/khudpay/onboard/internal/pkg/middleware"
)

func (h *HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))

	// Console
	group.Get("/", middleware.RequireAuth, controllers.HandleAdminConsole)

	// Auth screens
	group.Get("/login", controllers.HandleAuthLogin)
	group.Post("/login", controllers.HandleAuthLogin)
	group.Get("/signup", controllers.HandleAuthSignup)
	group.Post("/signup", controllers.HandleAuthSignup)
	group.Get("/forgot-password", controllers.HandleAuthForgotPassword)
	group.Post("/forgot-password", controllers.HandleAuthForgotPassword)

	// Client editor
	editorGroup := group.Group("/client", middleware.RequireAuth)
	editorGroup.Get("/", controllers.HandleClientNew)
	editorGroup.Get("/edit/:id", controllers.HandleClientEdit)
	editorGroup.Post("/apply", controllers.HandleClientApply)
	editorGroup.Post("/contracts/add", controllers.HandleContractAdd)
	editorGroup.Post("/contracts/remove/:index", controllers.HandleContractRemove)
	editorGroup.Post("/contracts/upload/:index", controllers.HandleContractUpload)
	editorGroup.Get("/contracts/download/:index", controllers.HandleContractDownload)
	editorGroup.Post("/logo", controllers.HandleLogoUpload)
	editorGroup.Post("/branches/add", controllers.HandleClientBranchAdd)
	editorGroup.Post("/branches/edit/:index", controllers.HandleClientBranchEdit)
	editorGroup.Post("/branches/delete/:index", controllers.HandleClientBranchDelete)
	editorGroup.Post("/submit", controllers.HandleClientSubmit)
	editorGroup.Post("/clear", controllers.HandleClientClear)

	// Branch editor
	branchGroup := group.Group("/client/branch", middleware.RequireAuth)
	branchGroup.Get("/", controllers.HandleBranchForm)
	branchGroup.Post("/apply", controllers.HandleBranchApply)
	branchGroup.Post("/apis/add", controllers.HandleBranchAPIAdd)
	branchGroup.Post("/apis/remove/:index", controllers.HandleBranchAPIRemove)
	branchGroup.Post("/submit", controllers.HandleBranchSubmit)
	branchGroup.Post("/cancel", controllers.HandleBranchCancel)
}
