package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	httpapi "github.com/i474232898/pincode-weather/internal/api/http"
	"github.com/i474232898/pincode-weather/internal/config"
	"github.com/i474232898/pincode-weather/internal/scheduler"
	"github.com/i474232898/pincode-weather/internal/store"
	"github.com/i474232898/pincode-weather/internal/weather"
	"github.com/i474232898/pincode-weather/internal/weather/providers"
)

func main() {
	// Load configuration. A missing API key is fatal.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Errorf("error closing store: %v", err)
		}
	}()

	// Shared HTTP client for outbound provider calls.
	httpCfg := providers.NewHTTPClientConfig(&http.Client{
		Timeout: cfg.HTTPTimeout,
	}, cfg.UpstreamMaxRetries)

	openWeather := providers.NewOpenWeatherProvider(httpCfg, cfg.OpenWeatherAPIKey, cfg.GeocodeCountry)

	var geocoder weather.Geocoder = openWeather
	if cfg.Geocoder == config.GeocoderGoogle {
		geocoder = providers.NewGoogleGeocoder(cfg.GoogleAPIKey, cfg.GeocodeCountry)
	}

	var fetcher weather.Fetcher = openWeather
	switch cfg.WeatherProvider {
	case config.WeatherAPI:
		fetcher = providers.NewWeatherAPIProvider(httpCfg, cfg.WeatherAPIKey)
	case config.WeatherOpenMeteo:
		fetcher = providers.NewOpenMeteoProvider(httpCfg)
	}

	service := weather.NewService(db, geocoder, fetcher)

	// Scheduler that periodically collects cache statistics.
	sched := scheduler.New(service, cfg.StatsInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "pincode-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// Leave room for an upstream call that runs up to HTTPTimeout.
		WriteTimeout: cfg.HTTPTimeout*2 + 5*time.Second,
		ErrorHandler: httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}?${queryParams}\n",
	}))
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, service, sched)

	go func() {
		log.Infof("listening on :%s (geocoder=%s, weather=%s)", cfg.Port, geocoder.Name(), fetcher.Name())
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("error during shutdown: %v", err)
	}
}
