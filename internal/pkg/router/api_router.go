package router

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	"github.com/creatorkart/CreatorKart/app/controllers"
	"github.com/creatorkart/CreatorKart/app/repository"
	"github.com/creatorkart/CreatorKart/internal/pkg/cache"
	"github.com/creatorkart/CreatorKart/internal/pkg/env"
	"github.com/creatorkart/CreatorKart/internal/pkg/proposal"
)

type ApiRouter struct {
	repos   *repository.Repositories
	service *proposal.Service
}

func NewApiRouter(repos *repository.Repositories, service *proposal.Service) *ApiRouter {
	return &ApiRouter{repos: repos, service: service}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Storage:    limiterStorage(),
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	proposalCtrl := controllers.NewProposalController(h.service)
	tokenCtrl := controllers.NewProposalTokenController(h.service)
	catalogCtrl := controllers.NewCatalogController(h.repos)

	v1 := api.Group("/v1")

	v1.Get("/catalog/influencers", catalogCtrl.HandleListInfluencers)
	v1.Get("/catalog/websites", catalogCtrl.HandleListWebsites)

	// Operator side: create and maintain proposals.
	v1.Post("/proposals", proposalCtrl.HandleCreateProposal)
	v1.Post("/proposals/tokens", proposalCtrl.HandleCreateProposalToken)
	v1.Put("/proposals/:checkoutId", proposalCtrl.HandleEditProposal)
	v1.Post("/proposals/:checkoutId/resend", proposalCtrl.HandleResendProposal)
	v1.Delete("/proposals/:checkoutId", proposalCtrl.HandleDeleteProposal)

	// Client side: everything keyed by the emailed token.
	v1.Get("/proposals/tokens/:token", tokenCtrl.HandleGetProposalByToken)
	v1.Put("/proposals/tokens/:token", tokenCtrl.HandleApplyApprovals)
	v1.Put("/proposals/tokens/:token/submit", tokenCtrl.HandleSubmitProposal)
}

// limiterStorage backs the rate limiter with Redis so limits hold across
// instances. Falls back to the limiter's in-memory store when the cache is
// not configured.
func limiterStorage() fiber.Storage {
	client := cache.GetClient()
	if client == nil {
		return nil
	}

	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	addr := client.Options().Addr
	if h, p, err := net.SplitHostPort(addr); err == nil {
		host = h
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}
	if p := client.Options().Password; p != "" {
		password = p
	}

	// Database 1 keeps limiter counters apart from the cache on DB 0.
	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})
}
