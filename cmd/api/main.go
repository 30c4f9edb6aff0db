package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/havenfurnitures/storefront-api/api"
	"github.com/havenfurnitures/storefront-api/api/controllers"
	"github.com/havenfurnitures/storefront-api/api/routes"
	"github.com/havenfurnitures/storefront-api/internal/auth"
	"github.com/havenfurnitures/storefront-api/internal/catalog"
	"github.com/havenfurnitures/storefront-api/internal/datastore"
	"github.com/havenfurnitures/storefront-api/internal/interests"
	"github.com/havenfurnitures/storefront-api/internal/media"
	"github.com/havenfurnitures/storefront-api/internal/newsletter"
	"github.com/havenfurnitures/storefront-api/pkg/auth/session"
	"github.com/havenfurnitures/storefront-api/pkg/config"
	"github.com/havenfurnitures/storefront-api/pkg/instance"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
	"github.com/havenfurnitures/storefront-api/pkg/mailer"
	"github.com/havenfurnitures/storefront-api/pkg/metrics"
	"github.com/havenfurnitures/storefront-api/pkg/redis"
	"github.com/havenfurnitures/storefront-api/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	st, err := datastore.Open(ctx, cfg, logg)
	if err != nil {
		return err
	}
	closers = append(closers, st.Close)

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	closers = append(closers, redisClient.Close)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)
	notifyMetrics := metrics.NewNotificationMetrics(registry)

	sender := mailer.New(cfg.SMTP)
	business := mailer.BusinessFromConfig(cfg.SMTP)
	if !cfg.SMTP.Enabled() {
		logg.Warn(ctx, "smtp not configured; notification emails are disabled")
	}

	var uploader media.Uploader
	if cfg.GCS.Enabled() {
		gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
		if err != nil {
			return err
		}
		closers = append(closers, gcsClient.Close)
		uploader = gcsClient
	} else {
		logg.Warn(ctx, "image bucket not configured; uploads return the placeholder image")
	}

	catalogService, err := catalog.NewService(st.Catalog, cfg.Catalog)
	if err != nil {
		return err
	}
	interestService, err := interests.NewService(
		st.Interests,
		catalogService,
		interests.NewMailNotifier(sender, business, notifyMetrics, logg),
		cfg.Catalog,
	)
	if err != nil {
		return err
	}
	newsletterService, err := newsletter.NewService(sender, business, notifyMetrics, logg)
	if err != nil {
		return err
	}
	mediaService, err := media.NewService(uploader, cfg.Media, logg)
	if err != nil {
		return err
	}
	authService, err := auth.NewService(auth.ServiceParams{
		Admin:          cfg.Admin,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return err
	}

	handler := routes.NewRouter(routes.Dependencies{
		Config:   cfg,
		Logger:   logg,
		Gatherer: registry,
		Metrics:  httpMetrics,
		Redis:    redisClient,
		Sessions: sessionManager,
		Checks: map[string]controllers.Pinger{
			"store": st.Checker,
			"redis": redisClient,
		},
		Catalog:    catalogService,
		Interests:  interestService,
		Newsletter: newsletterService,
		Media:      mediaService,
		Auth:       authService,
	})

	server := api.NewServer(cfg.App, handler, logg)
	logg.Info(logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     server.Addr(),
		"store":    cfg.Store.Driver,
		"instance": instance.GetID(),
	}), "starting api server")

	return server.Run(ctx)
}
