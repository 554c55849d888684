package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/voyago/travelplanner/internal/pkg/config"
	"github.com/voyago/travelplanner/internal/pkg/database"
	"github.com/voyago/travelplanner/internal/pkg/health"
	"github.com/voyago/travelplanner/internal/pkg/logger"
	"github.com/voyago/travelplanner/internal/pkg/middleware"
	"github.com/voyago/travelplanner/internal/pkg/models"
	"github.com/voyago/travelplanner/internal/pkg/server"
	"github.com/voyago/travelplanner/services/alerts"
	"github.com/voyago/travelplanner/services/auth"
	"github.com/voyago/travelplanner/services/notifications"
	"github.com/voyago/travelplanner/services/planner"
	"github.com/voyago/travelplanner/services/realtime"
	"github.com/voyago/travelplanner/services/travel"
	"github.com/voyago/travelplanner/services/trips"
)

const serviceName = "travelplanner"

func main() {
	cfg := config.InitConfig(".env")

	zapLogger, err := logger.NewZapLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer zapLogger.Close()
	logger.SetGlobalLogger(zapLogger)

	shutdownManager := server.NewShutdownManager(zapLogger)

	pg, err := database.NewPostgresClient(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}
	shutdownManager.Register(func(context.Context) error { return pg.Close() })

	redisClient, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", logger.Err(err))
	}
	shutdownManager.Register(func(context.Context) error { return redisClient.Close() })

	db := pg.GetDB()

	// Shared infrastructure
	hub := realtime.NewHub()
	sessions := auth.NewSessionStore(redisClient, cfg.Session)
	authMW := middleware.SessionAuthMiddleware(sessions)

	// Notifications feed both the REST API and the realtime push path
	notificationUC := notifications.NewUseCase(notifications.NewRepository(db), hub)

	// Travel providers double as price snapshot fetchers for the monitor
	flightClient := travel.NewAmadeusClient(cfg.Providers)
	hotelClient := travel.NewHotelsClient(cfg.Providers)
	activityClient := travel.NewActivitiesClient(cfg.Providers)
	weatherClient := travel.NewWeatherClient(cfg.Providers)

	alertRepo := alerts.NewRepository(db)
	monitor := alerts.NewMonitor(alertRepo, notificationUC, map[models.AlertKind]alerts.Fetcher{
		models.AlertKindFlight: flightClient,
		models.AlertKindHotel:  hotelClient,
	}, cfg.Alerts)
	alertUC := alerts.NewUseCase(alertRepo, notificationUC)

	authUC := auth.NewUseCase(auth.NewRepository(db), sessions)
	tripUC := trips.NewUseCase(trips.NewRepository(db), notificationUC)
	plannerUC := planner.NewUseCase(planner.NewAgentClient(cfg.Agent), tripUC)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())

	health.RegisterHealthEndpoints(e, serviceName)
	auth.NewHandler(authUC).RegisterRoutes(e, authMW)
	trips.NewHandler(tripUC).RegisterRoutes(e, authMW)
	alerts.NewHandler(alertUC, monitor).RegisterRoutes(e, authMW)
	notifications.NewHandler(notificationUC).RegisterRoutes(e, authMW)
	travel.NewHandler(flightClient, hotelClient, activityClient, weatherClient).RegisterRoutes(e, authMW)
	planner.NewHandler(plannerUC).RegisterRoutes(e, authMW)
	realtime.NewHandler(hub, sessions, realtime.NewLocationRepository(redisClient)).RegisterRoutes(e, authMW)

	if cfg.Alerts.AutoStart {
		monitor.Start()
	}
	shutdownManager.Register(func(context.Context) error {
		monitor.Stop()
		return nil
	})

	srv := server.NewGracefulServer(e, zapLogger, cfg.Server.Port)
	if err := srv.Start(); err != nil {
		zapLogger.Error("Server exited with error", logger.Err(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	shutdownManager.Shutdown(ctx)
}
