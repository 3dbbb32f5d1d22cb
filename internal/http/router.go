package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/wrestlepro/wrestlepro/internal/auth"
	"github.com/wrestlepro/wrestlepro/internal/cache"
	"github.com/wrestlepro/wrestlepro/internal/config"
	"github.com/wrestlepro/wrestlepro/internal/domain/user"
	"github.com/wrestlepro/wrestlepro/internal/http/handlers"
	"github.com/wrestlepro/wrestlepro/internal/http/middlewares"
	"github.com/wrestlepro/wrestlepro/internal/observability"
	"github.com/wrestlepro/wrestlepro/internal/repo/postgres"
	"github.com/wrestlepro/wrestlepro/internal/smoothcomp"
)

const maxRequestBody = 1 << 20 // 1 MiB

func NewRouter(cfg config.Config, log *slog.Logger, pool *pgxpool.Pool, prom *observability.Prom, store *cache.Cache) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("wrestlepro-api"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxRequestBody))
	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	eventsRepo := postgres.NewEventsRepo(pool, prom)
	registrationsRepo := postgres.NewRegistrationsRepo(pool, prom)
	jobsRepo := postgres.NewJobsRepo(pool, prom)
	transcriptsRepo := postgres.NewTranscriptsRepo(pool, prom)

	// auth plumbing shared by handlers and middleware
	tokens := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL())
	resolver := auth.NewResolver(tokens, usersRepo)
	authMW := middlewares.NewAuthMiddleware(resolver)

	// wire up handlers
	authHandler := handlers.NewAuthHandler(usersRepo, tokens)
	eventsHandler := handlers.NewEventsHandler(eventsRepo)
	registrationsHandler := handlers.NewRegistrationsHandler(registrationsRepo, jobsRepo)
	smoothcompHandler := handlers.NewSmoothcompHandler(smoothcomp.New(cfg.SmoothcompBaseURL, cfg.SmoothcompAPIKey, store))
	chatHandler := handlers.NewChatHandler(transcriptsRepo, log)

	authLimiter := middlewares.NewRateLimiter(20, time.Minute)
	registerLimiter := middlewares.NewRateLimiter(30, time.Minute)

	api := r.Group("/api")
	api.Use(middlewares.RequireJSON())

	authGroup := api.Group("/auth")
	authGroup.Use(authLimiter.RateLimiterMiddleware(middlewares.KeyByIP))
	authGroup.POST("/signup", authHandler.SignUp)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authMW.RequireAuth(), authHandler.Me)

	events := api.Group("/events")
	events.GET("", eventsHandler.ListEvents)
	events.GET("/:id", eventsHandler.GetEventById)
	events.POST("", authMW.RequireAuth(), authMW.RequireRole(user.RoleOrganizer, user.RoleAdmin), eventsHandler.CreateEvent)
	events.PUT("/:id", authMW.RequireAuth(), authMW.RequireRole(user.RoleOrganizer, user.RoleAdmin), eventsHandler.UpdateEvent)
	events.DELETE("/:id", authMW.RequireAuth(), authMW.RequireRole(user.RoleAdmin), eventsHandler.DeleteEvent)

	events.POST("/:id/register", authMW.RequireAuth(), registerLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP), registrationsHandler.Register)
	events.GET("/:id/registrations", authMW.RequireAuth(), authMW.RequireRole(user.RoleOrganizer, user.RoleAdmin), registrationsHandler.ListForEvent)
	events.GET("/:id/registrations/:regId", authMW.RequireAuth(), authMW.RequireRole(user.RoleOrganizer, user.RoleAdmin), registrationsHandler.GetRegistration)

	sc := api.Group("/smoothcomp")
	sc.GET("/events", smoothcompHandler.ListEvents)
	sc.GET("/events/:id", smoothcompHandler.GetEvent)

	api.POST("/chat", chatHandler.Chat)

	return r
}
