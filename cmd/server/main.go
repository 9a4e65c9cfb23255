// cmd/server/main.go
package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/unclebandit/recruitflow-backend/internal/config"
	"github.com/unclebandit/recruitflow-backend/internal/controller"
	"github.com/unclebandit/recruitflow-backend/internal/db"
	"github.com/unclebandit/recruitflow-backend/internal/mailer"
	"github.com/unclebandit/recruitflow-backend/internal/provider"
	"github.com/unclebandit/recruitflow-backend/internal/queue"
	"github.com/unclebandit/recruitflow-backend/internal/repository"
	"github.com/unclebandit/recruitflow-backend/internal/resolver"
	"github.com/unclebandit/recruitflow-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}
	cfg := config.Load()

	// Init DB
	db.Init(cfg.Database)

	companyRepo := &repository.CompanyRepository{DB: db.DB}
	contactRepo := &repository.ContactRepository{DB: db.DB}
	campaignRepo := &repository.CampaignRepository{DB: db.DB}
	emailLogRepo := &repository.EmailLogRepository{DB: db.DB}

	registry := provider.NewRegistry(cfg)

	var cache *resolver.DomainCache
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		cache = resolver.NewDomainCache(client, cfg.Redis.CacheTTL)
		log.Println("✅ Resolver cache enabled via redis at", cfg.Redis.Addr)
	}
	contactResolver := resolver.New(registry, cache)

	var sender mailer.Sender
	if cfg.Resend.Enabled() {
		sender = mailer.NewResendClient(cfg.Resend)
	} else {
		log.Println("⚠️ RESEND_API_KEY not set, campaign dispatch is disabled")
	}

	discoveryService := &service.DiscoveryService{
		CompanyRepo: companyRepo,
		ContactRepo: contactRepo,
		Resolver:    contactResolver,
		Locator:     registry.Locator(),
	}

	campaignService := &service.CampaignService{
		CampaignRepo:   campaignRepo,
		CompanyRepo:    companyRepo,
		ContactRepo:    contactRepo,
		EmailLogRepo:   emailLogRepo,
		Mailer:         sender,
		FromEmail:      cfg.Resend.FromEmail,
		FromName:       cfg.Resend.FromName,
		MaxAttempts:    cfg.Dispatch.MaxAttempts,
		RetryBaseDelay: cfg.Dispatch.RetryBaseDelay,
	}

	analyticsService := &service.AnalyticsService{
		CampaignRepo: campaignRepo,
		CompanyRepo:  companyRepo,
		ContactRepo:  contactRepo,
	}

	eventService := &service.EventService{
		EmailLogRepo: emailLogRepo,
		CampaignRepo: campaignRepo,
	}

	discoveryController := &controller.DiscoveryController{DiscoveryService: discoveryService}
	campaignController := &controller.CampaignController{CampaignService: campaignService}
	analyticsController := &controller.AnalyticsController{
		AnalyticsService: analyticsService,
		EventService:     eventService,
	}

	// Without a broker the events worker is not running, so engagement events
	// flow through the in-process queue instead.
	if cfg.AMQP.URL == "" {
		events := queue.NewInMemoryQueue()
		queue.StartEmailEventSubscriber(events, eventService)
		analyticsController.EventQueue = events
		log.Println("📨 AMQP_URL not set, processing email events in-process")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	// Discovery routes
	r.Post("/companies/resolve", discoveryController.ResolveCompany)
	r.Post("/contacts/resolve", discoveryController.ResolveContact)

	// Campaign routes
	r.Post("/campaigns", campaignController.CreateCampaign)
	r.Get("/campaigns", campaignController.ListCampaigns)
	r.Get("/campaigns/{id}", campaignController.GetCampaignDetails)
	r.Delete("/campaigns/{id}", campaignController.DeleteCampaign)
	r.Post("/campaigns/{id}/dispatch", campaignController.DispatchCampaign)
	r.Post("/campaigns/{id}/preview", campaignController.PersonalizedPreview)

	// Reporting + provider callbacks
	r.Get("/analytics", analyticsController.GetAnalytics)
	r.Post("/webhooks/email-events", analyticsController.EmailEventWebhook)

	log.Println("🚀 Server listening on :" + cfg.Server.Port)
	if err := http.ListenAndServe(":"+cfg.Server.Port, r); err != nil {
		log.Fatal(err)
	}
}
