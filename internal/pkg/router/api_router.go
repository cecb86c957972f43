package router

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/VoiceAsService/VoxGate/app/controllers"
	"github.com/VoiceAsService/VoxGate/internal/pkg/cache"
	"github.com/VoiceAsService/VoxGate/internal/pkg/middleware"
)

type ApiRouter struct {
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

	v1 := api.Group("/v1")

	// Open routes
	v1.Post("/register", controllers.HandleRegister)

	// Authenticated routes
	authed := v1.Group("", middleware.APIKeyAuthMiddleware())

	authed.Get("/account", controllers.HandleGetAccount)
	authed.Post("/account/api-key", controllers.HandleRotateAPIKey)

	authed.Get("/plans", controllers.HandleListPlans)
	authed.Get("/plans/:id", controllers.HandleGetPlan)
	authed.Post("/subscribe", controllers.HandleSubscribe)
	authed.Get("/subscription", controllers.HandleMySubscription)

	authed.Get("/voices", controllers.HandleListActiveVoices)
	authed.Get("/providers", controllers.HandleListActiveConfigs)

	authed.Post("/tts", controllers.HandleSynthesize)
	authed.Post("/tts/:provider", controllers.HandleSynthesize)
	authed.Post("/stt", controllers.HandleTranscribe)
	authed.Post("/stt/:provider", controllers.HandleTranscribe)

	authed.Post("/clones", controllers.HandleCreateClone)
	authed.Post("/clones/:provider", controllers.HandleCreateClone)
	authed.Get("/clones", controllers.HandleListClones)
	authed.Delete("/clones/:clone_id", controllers.HandleDeleteClone)

	// Admin routes
	admin := authed.Group("/admin", middleware.RequireAdmin)

	admin.Get("/users", controllers.HandleListUsers)

	admin.Post("/plans", controllers.HandleCreatePlan)
	admin.Put("/plans/:id", controllers.HandleUpdatePlan)
	admin.Delete("/plans/:id", controllers.HandleDeletePlan)

	admin.Post("/subscriptions/assign", controllers.HandleAssignSubscription)
	admin.Delete("/subscriptions/:user_id", controllers.HandleRevokeSubscription)

	admin.Get("/configs", controllers.HandleListConfigs)
	admin.Get("/configs/:id", controllers.HandleGetConfig)
	admin.Post("/configs", controllers.HandleCreateConfig)
	admin.Put("/configs/:id", controllers.HandleUpdateConfig)
	admin.Delete("/configs/:id", controllers.HandleDeleteConfig)
	admin.Post("/configs/toggle", controllers.HandleToggleConfigs)
	admin.Get("/configs/:id/voices", controllers.HandleListVoicesByConfig)

	admin.Get("/payment-configs", controllers.HandleListPaymentConfigs)
	admin.Post("/payment-configs", controllers.HandleCreatePaymentConfig)
	admin.Put("/payment-configs/:id", controllers.HandleUpdatePaymentConfig)
	admin.Delete("/payment-configs/:id", controllers.HandleDeletePaymentConfig)

	admin.Get("/email-configs", controllers.HandleListEmailConfigs)
	admin.Post("/email-configs", controllers.HandleCreateEmailConfig)
	admin.Put("/email-configs/:id", controllers.HandleUpdateEmailConfig)
	admin.Delete("/email-configs/:id", controllers.HandleDeleteEmailConfig)
	admin.Post("/email-configs/test", controllers.HandleSendTestMail)

	admin.Get("/statistics", controllers.HandleUsageStatistics)
}

// limiterStorage backs the rate limiter with the shared cache so limits hold
// across instances.
func limiterStorage() fiber.Storage {
	opts := cache.GetClient().Options()

	host := "localhost"
	port := 6379
	if opts != nil && opts.Addr != "" {
		if h, p, err := net.SplitHostPort(opts.Addr); err == nil {
			host = h
			if parsed, e := strconv.Atoi(p); e == nil {
				port = parsed
			}
		} else {
			host = opts.Addr
		}
	}

	return redisstorage.New(redisstorage.Config{
		Host:     host,
		Port:     port,
		Password: opts.Password,
		Database: 1,
		Reset:    false,
	})
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
