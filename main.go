package main

import (
	"fmt"
	"log"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/creatorkart/CreatorKart/app/repository"
	"github.com/creatorkart/CreatorKart/internal/pkg/cache"
	"github.com/creatorkart/CreatorKart/internal/pkg/database"
	"github.com/creatorkart/CreatorKart/internal/pkg/env"
	"github.com/creatorkart/CreatorKart/internal/pkg/invoice"
	"github.com/creatorkart/CreatorKart/internal/pkg/jobqueue"
	"github.com/creatorkart/CreatorKart/internal/pkg/mail"
	"github.com/creatorkart/CreatorKart/internal/pkg/proposal"
	"github.com/creatorkart/CreatorKart/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repos := repository.NewRepositories(database.GetDB())

	manager := jobqueue.NewManager(3, mail.NewSender(), invoice.NewGenerator(repos))
	manager.Start()

	service := proposal.NewService(repos, manager)

	app := fiber.New(fiber.Config{
		AppName: "CreatorKart",
	})
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: "./public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app, repos, service)

	return app
}
