package router

import (
	"github.com/gofiber/fiber/v2"
)

// InstallRouter wires all routes. The HttpRouter goes first so the session
// store and the global UserContext middleware exist before the API routes
// that depend on them.
func InstallRouter(app *fiber.App, storage fiber.Storage) {
	setup(app, NewHttpRouter(storage), NewApiRouter())
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}

type Router interface {
	InstallRouter(app *fiber.App)
}
