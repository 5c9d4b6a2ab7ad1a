package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
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
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	// Find the correct base path for the openapi file
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/creatorkart to project root
		"../../../", // Fallback
	}
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}
	if basePath == "" {
		panic("Could not find project root directory")
	}

	repos := repository.NewRepositories(database.GetDB())

	manager := jobqueue.NewManager(3, mail.NewSender(), invoice.NewGenerator(repos))
	manager.Start()

	service := proposal.NewService(repos, manager)

	app := fiber.New(fiber.Config{
		AppName: "CreatorKart",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "test"),
		},
	}), monitor.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app, repos, service)

	// stop workers on SIGINT/SIGTERM before the listener goes away
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		manager.Stop()
		_ = app.Shutdown()
	}()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	if err != nil {
		log.Fatal(err)
	}
}
