package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/townhub-api/internal/application/business"
	"github.com/townhub-api/internal/application/device"
	"github.com/townhub-api/internal/application/events"
	"github.com/townhub-api/internal/application/housing"
	"github.com/townhub-api/internal/application/interest"
	"github.com/townhub-api/internal/application/jobpost"
	"github.com/townhub-api/internal/application/media"
	"github.com/townhub-api/internal/application/notify"
	"github.com/townhub-api/internal/application/obituary"
	"github.com/townhub-api/internal/application/purge"
	syncapp "github.com/townhub-api/internal/application/sync"
	"github.com/townhub-api/internal/application/user"
	"github.com/townhub-api/internal/config"
	"github.com/townhub-api/internal/domain"
	"github.com/townhub-api/internal/transport/http/handler"
	appmiddleware "github.com/townhub-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}
	cronMw := appmiddleware.CronAuth(cfg.CronSecret)

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	loc := cfg.Location()

	eventsSvc := events.NewService(events.ServiceDeps{
		Repo:   deps.EventRepo,
		TownID: cfg.TownID,
		Loc:    loc,
	})
	syncSvc := syncapp.NewService(syncapp.ServiceDeps{
		Client: deps.FeedClient,
		Events: eventsSvc,
		Feeds:  cfg.Feeds,
		TownID: cfg.TownID,
		Loc:    loc,
		Logger: deps.Logger,
	})
	notifySvc := notify.NewService(notify.ServiceDeps{
		Events:    deps.EventRepo,
		Interests: deps.InterestRepo,
		Devices:   deps.DeviceRepo,
		Reminders: deps.ReminderRepo,
		Push:      deps.Notifier,
		TownName:  cfg.TownName,
		Loc:       loc,
		Logger:    deps.Logger,
	})
	purgeSvc := purge.NewService(purge.ServiceDeps{
		Events:     deps.EventRepo,
		Obituaries: deps.ObituaryRepo,
		Housing:    deps.HousingRepo,
		Reminders:  deps.ReminderRepo,
		Interests:  deps.InterestRepo,
		Loc:        loc,
		Logger:     deps.Logger,
	})
	interestSvc := interest.NewService(interest.ServiceDeps{
		Repo:   deps.InterestRepo,
		Events: deps.EventRepo,
	})
	obituarySvc := obituary.NewService(obituary.ServiceDeps{Repo: deps.ObituaryRepo, TownID: cfg.TownID})
	housingSvc := housing.NewService(housing.ServiceDeps{Repo: deps.HousingRepo, TownID: cfg.TownID})
	jobSvc := jobpost.NewService(jobpost.ServiceDeps{Repo: deps.JobPostRepo, TownID: cfg.TownID})
	businessSvc := business.NewService(business.ServiceDeps{Repo: deps.BusinessRepo, TownID: cfg.TownID})
	userSvc := user.NewService(user.ServiceDeps{
		Repo:   deps.UserRepo,
		Tokens: deps.JWTProvider,
		Google: deps.GoogleAuth,
		TownID: cfg.TownID,
	})
	deviceSvc := device.NewService(device.ServiceDeps{Repo: deps.DeviceRepo, Push: deps.Notifier})
	mediaSvc := media.NewService(media.ServiceDeps{Repo: deps.MediaRepo, Blobs: deps.S3Store})

	healthH := handler.NewHealthHandler()
	taskH := handler.NewTaskHandler(syncSvc, notifySvc, purgeSvc)
	webhookH := handler.NewWebhookHandler(eventsSvc)
	eventH := handler.NewEventHandler(eventsSvc, interestSvc)
	obituaryH := handler.NewObituaryHandler(obituarySvc)
	housingH := handler.NewHousingHandler(housingSvc)
	jobH := handler.NewJobPostHandler(jobSvc)
	businessH := handler.NewBusinessHandler(businessSvc)
	userH := handler.NewUserHandler(userSvc)
	deviceH := handler.NewDeviceHandler(deviceSvc)
	mediaH := handler.NewMediaHandler(mediaSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check", healthH.Ping)
		r.Get("/events", eventH.List)
		r.Get("/events/{id}", eventH.Get)
		r.Get("/obituaries", obituaryH.List)
		r.Get("/obituaries/{id}", obituaryH.Get)
		r.Get("/housing", housingH.List)
		r.Get("/housing/{id}", housingH.Get)
		r.Get("/jobs", jobH.List)
		r.Get("/jobs/{id}", jobH.Get)
		r.Get("/businesses", businessH.List)
		r.Get("/businesses/{id}", businessH.Get)
		r.With(sensitiveRL.Limit).Post("/users", userH.Register)
		r.With(sensitiveRL.Limit).Post("/sessions/login", userH.Login)
		r.With(sensitiveRL.Limit).Post("/sessions/google", userH.GoogleLogin)

		// ── Scheduled-task triggers (pre-shared secret) ──────────────────────
		r.Group(func(r chi.Router) {
			r.Use(cronMw)

			r.Post("/tasks/sync-calendars", taskH.SyncCalendars)
			r.Post("/tasks/daily-digest", taskH.DailyDigest)
			r.Post("/tasks/event-reminders", taskH.EventReminders)
			r.Post("/tasks/purge", taskH.Purge)
			r.Post("/webhooks/events", webhookH.IngestEvents)
		})

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/users/me", userH.Me)
			r.Post("/events", eventH.Create)
			r.Put("/events/{id}/interest", eventH.AddInterest)
			r.Delete("/events/{id}/interest", eventH.RemoveInterest)
			r.Post("/housing", housingH.Create)
			r.Put("/housing/{id}", housingH.Update)
			r.Delete("/housing/{id}", housingH.Delete)
			r.Post("/jobs", jobH.Create)
			r.Delete("/jobs/{id}", jobH.Close)
			r.Post("/devices", deviceH.Register)
			r.Get("/devices", deviceH.List)
			r.Delete("/devices/{id}", deviceH.Delete)
			r.Post("/media", mediaH.Upload)
			r.Post("/media/base64", mediaH.UploadBase64)
			r.Get("/media/{id}/url", mediaH.GetURL)
			r.Delete("/media/{id}", mediaH.Delete)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Delete("/events/{id}", eventH.Delete)
				r.Post("/obituaries", obituaryH.Create)
				r.Delete("/obituaries/{id}", obituaryH.Delete)
				r.Post("/businesses", businessH.Create)
				r.Put("/businesses/{id}", businessH.Update)
				r.Delete("/businesses/{id}", businessH.Delete)
			})
		})
	})

	return r
}
