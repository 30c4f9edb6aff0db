package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/havenfurnitures/storefront-api/api/controllers"
	"github.com/havenfurnitures/storefront-api/api/middleware"
	"github.com/havenfurnitures/storefront-api/internal/auth"
	"github.com/havenfurnitures/storefront-api/internal/catalog"
	"github.com/havenfurnitures/storefront-api/internal/interests"
	"github.com/havenfurnitures/storefront-api/internal/media"
	"github.com/havenfurnitures/storefront-api/internal/newsletter"
	"github.com/havenfurnitures/storefront-api/pkg/auth/session"
	"github.com/havenfurnitures/storefront-api/pkg/config"
	"github.com/havenfurnitures/storefront-api/pkg/enums"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
	"github.com/havenfurnitures/storefront-api/pkg/metrics"
	"github.com/havenfurnitures/storefront-api/pkg/redis"
)

// RedisStore is the slice of pkg/redis.Client the HTTP layer uses for
// throttling and idempotent replays.
type RedisStore interface {
	middleware.WindowLimiter
	redis.IdempotencyStore
}

// Dependencies bundles everything the router wires into handlers.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	Gatherer prometheus.Gatherer
	Metrics  *metrics.HTTPMetrics
	Redis    RedisStore
	Sessions session.AccessSessionChecker
	Checks   map[string]controllers.Pinger

	Catalog    catalog.Service
	Interests  interests.Service
	Newsletter newsletter.Service
	Media      media.Service
	Auth       auth.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg, logg := deps.Config, deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.ExposeErrors(cfg.FeatureFlags.ExposeErrors && !cfg.App.IsProd()),
		middleware.Recoverer(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.App.AllowedOrigins()),
		middleware.BodyLimit(int64(cfg.App.BodyLimitMB)<<20),
	)
	r.NotFound(controllers.NotFound(logg))
	r.MethodNotAllowed(controllers.MethodNotAllowed(logg))

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/health/live", controllers.HealthLive(cfg))

	loginPolicy := middleware.LoginRateLimitPolicy{
		Window:   cfg.RateLimit.LoginWindow,
		PerIP:    cfg.RateLimit.LoginIPLimit,
		PerEmail: cfg.RateLimit.LoginEmailLimit,
	}
	idempotent := middleware.Idempotency(deps.Redis, cfg.FeatureFlags.IdempotentTTL, logg)
	authenticated := chi.Chain(
		middleware.Auth(cfg.JWT, deps.Sessions, logg),
		middleware.RequireRole(enums.RoleAdmin, logg),
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(deps.Redis, cfg.RateLimit.Max, cfg.RateLimit.Window, logg))

		r.Get("/health", controllers.Health(cfg, logg, deps.Checks))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.LoginRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
			r.With(authenticated...).Post("/logout", controllers.AuthLogout(deps.Auth, logg))
			r.With(authenticated...).Get("/session", controllers.AuthSession(deps.Auth, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Catalog, logg))
			r.Get("/{id}", controllers.GetProduct(deps.Catalog, logg))
			r.Group(func(r chi.Router) {
				r.Use(authenticated...)
				r.With(idempotent).Post("/", controllers.CreateProduct(deps.Catalog, logg))
				r.Put("/{id}", controllers.UpdateProduct(deps.Catalog, logg))
				r.Delete("/{id}", controllers.DeleteProduct(deps.Catalog, logg))
			})
		})

		r.Route("/interests", func(r chi.Router) {
			r.With(idempotent).Post("/", controllers.SubmitInterest(deps.Interests, logg))
			r.With(authenticated...).Get("/", controllers.ListInterests(deps.Interests, logg))
		})

		r.With(idempotent).Post("/subscribe", controllers.Subscribe(deps.Newsletter, logg))

		r.Route("/upload/image", func(r chi.Router) {
			r.Use(authenticated...)
			r.Post("/", controllers.UploadImage(deps.Media, logg))
			r.Delete("/", controllers.DeleteImage(deps.Media, logg))
		})
	})

	return r
}
