package main

import (
	"fmt"
	"log"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/storage/redis"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"

	"github.com/khudpay/onboard/app/repository"
	"github.com/khudpay/onboard/internal/pkg/cache"
	"github.com/khudpay/onboard/internal/pkg/env"
	"github.com/khudpay/onboard/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	cache.SetupCache()

	storage := redis.New(redis.Config{
		Host:     env.GetEnv("CACHE_HOST", "localhost"),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		Database: 2,
	})
	repository.InitializeFactory(storage)

	engine := html.New("./views", ".html")
	app := fiber.New(fiber.Config{
		Views:     engine,
		BodyLimit: 20 * 1024 * 1024,
	})

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(recover.New(), logger.New())

	app.Get("/metrics", monitor.New())

	app.Use(swagger.New(swagger.Config{
		BasePath: "/docs/api/",
		FilePath: "./public/docs/v1/openapi.yml",
		Path:     "v1",
	}))

	router.InstallRouter(app, storage)

	return app
}
