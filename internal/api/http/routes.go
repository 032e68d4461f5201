package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/i474232898/pincode-weather/internal/weather"
)

const (
	msgMissingParams  = "Please provide pincode and for_date parameters"
	msgInvalidPincode = "Invalid pincode or unable to fetch latitude and longitude"
	msgWeatherFailure = "Unable to fetch weather information"
	msgInternalError  = "Internal Server Error"
)

var validate = validator.New()

// Resolver is the part of weather.Service the handlers need.
type Resolver interface {
	ResolveCoordinates(ctx context.Context, pincode string) (weather.Coordinates, error)
	ResolveWeather(ctx context.Context, coords weather.Coordinates, date, pincode string) (weather.Payload, error)
	Ping(ctx context.Context) error
}

// StatsReporter exposes the last collected cache statistics.
type StatsReporter interface {
	Latest() *weather.Stats
}

// WeatherResponse is the body of a successful /weather call.
type WeatherResponse struct {
	Pincode string          `json:"pincode"`
	Date    string          `json:"date"`
	Weather weather.Payload `json:"weather"`
}

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status   string         `json:"status"`
	Service  string         `json:"service"`
	Database string         `json:"database"`
	Stats    *weather.Stats `json:"stats,omitempty"`
}

// ErrorHandler renders errors as {"error": message}. Only *fiber.Error
// messages reach the caller; anything else is logged and reported as a
// generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var e *fiber.Error
	if errors.As(err, &e) {
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
		})
	}

	log.Errorw("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": msgInternalError,
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. stats may be nil.
func RegisterRoutes(app *fiber.App, resolver Resolver, stats StatsReporter) {
	app.Get("/weather", func(c *fiber.Ctx) error {
		var q weatherQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, msgMissingParams)
		}

		ctx := c.UserContext()

		coords, err := resolver.ResolveCoordinates(ctx, q.Pincode)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, msgInvalidPincode)
		}

		payload, err := resolver.ResolveWeather(ctx, coords, q.ForDate, q.Pincode)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, msgWeatherFailure)
		}

		return c.JSON(WeatherResponse{
			Pincode: q.Pincode,
			Date:    q.ForDate,
			Weather: payload,
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		resp := HealthResponse{
			Status:   "ok",
			Service:  "pincode-weather",
			Database: "ok",
		}
		if err := resolver.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "unavailable"
		}
		if stats != nil {
			resp.Stats = stats.Latest()
		}

		return c.JSON(resp)
	})
}

// weatherQuery holds the query parameters of /weather.
type weatherQuery struct {
	Pincode string `query:"pincode" validate:"required"`
	ForDate string `query:"for_date" validate:"required"`
}

func (q *weatherQuery) bind(c *fiber.Ctx) error {
	if err := c.QueryParser(q); err != nil {
		return err
	}
	return validate.Struct(q)
}
