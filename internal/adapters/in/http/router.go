package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"fulfillment/api"
	"fulfillment/internal/pkg/logger"
	"fulfillment/internal/pkg/metrics"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
	"golang.org/x/time/rate"
)

const APIPrefix = "/api/v1"

// RouterConfig carries everything NewRouter wires into echo.
type RouterConfig struct {
	Handlers Handlers
	Verifier *TokenVerifier
	Logger   *logger.Logger
	Metrics  *metrics.HTTP
	// Gatherer backs GET /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// OpenAPI overrides the embedded document, mostly for tests.
	OpenAPI []byte
	// OTPAttempts limits delivery proof submissions per actor; a zero Rate
	// disables the limit.
	OTPAttempts RateLimit
	Debug       bool
}

// RateLimit is a token bucket: Rate events per second with bursts up to Burst.
type RateLimit struct {
	Rate      rate.Limit
	Burst     int
	ExpiresIn time.Duration
}

// NewRouter builds the echo instance serving the fulfillment API.
func NewRouter(ctx context.Context, cfg RouterConfig) (*echo.Echo, error) {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	raw := cfg.OpenAPI
	if raw == nil {
		raw = api.OpenAPI
	}
	doc, err := loadOpenAPI(ctx, raw)
	if err != nil {
		return nil, err
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Debug
	if cfg.Debug {
		e.Logger.SetLevel(log.DEBUG)
	} else {
		e.Logger.SetLevel(log.WARN)
	}
	e.Validator = newStructValidator()
	e.HTTPErrorHandler = NewErrorHandler(cfg.Logger)

	e.Use(middleware.Recover())
	e.Use(requestID(cfg.Logger))
	e.Use(requestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		e.Use(observeRequests(cfg.Metrics))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if cfg.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group(APIPrefix, Authenticate(cfg.Verifier, cfg.Logger), openAPIRequestValidator(doc))
	NewServer(cfg.Handlers).RegisterRoutes(v1, perActorLimit(cfg.OTPAttempts))
	if err = checkRoutesDocumented(doc, e.Routes(), APIPrefix); err != nil {
		return nil, err
	}
	if err = registerSwagger(doc); err != nil {
		return nil, err
	}

	return e, nil
}

func requestID(l *logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		RequestIDHandler: func(c echo.Context, id string) {
			ctx := l.WithRequestID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
		},
	})
}

func requestLogger(l *logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := zerolog.InfoLevel
			if v.Status >= http.StatusInternalServerError {
				level = zerolog.ErrorLevel
			}
			l.Event(c.Request().Context(), level).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("route", v.RoutePath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

func observeRequests(m *metrics.HTTP) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil {
				status = toErrorResponse(err).Code
			}
			m.Observe(c.Request().Method, c.Path(), status, time.Since(start))
			return err
		}
	}
}

// perActorLimit throttles a route per authenticated actor. Rejections surface
// as 429 through the error handler.
func perActorLimit(limit RateLimit) echo.MiddlewareFunc {
	if limit.Rate <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit.Rate,
		Burst:     limit.Burst,
		ExpiresIn: limit.ExpiresIn,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			actor, err := actorFrom(c)
			if err != nil {
				return "", err
			}
			return actor.ID().String(), nil
		},
		ErrorHandler: func(_ echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing actor").SetInternal(err)
		},
		DenyHandler: func(_ echo.Context, _ string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many delivery proof attempts").SetInternal(err)
		},
	})
}

var swaggerOnce sync.Once

// swaggerDoc serves the OpenAPI document to echo-swagger as JSON.
type swaggerDoc struct {
	json string
}

func (d swaggerDoc) ReadDoc() string {
	return d.json
}

// registerSwagger publishes doc under swag's default instance. swag panics on
// duplicate registration, so only the first router registers.
func registerSwagger(doc *openapi3.T) error {
	encoded, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	swaggerOnce.Do(func() {
		swag.Register(swag.Name, swaggerDoc{json: string(encoded)})
	})
	return nil
}
