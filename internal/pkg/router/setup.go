package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/creatorkart/CreatorKart/app/repository"
	"github.com/creatorkart/CreatorKart/internal/pkg/proposal"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// InstallRouter wires all route groups onto the app. The HTTP router goes
// first so the health endpoints sit outside the rate-limited API group.
func InstallRouter(app *fiber.App, repos *repository.Repositories, service *proposal.Service) {
	setup(app, NewHttpRouter(), NewApiRouter(repos, service))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
