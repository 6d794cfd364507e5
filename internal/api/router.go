package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"

	"github.com/FelixFS3D/uixom/internal/api/handler"
	"github.com/FelixFS3D/uixom/internal/api/middleware"
	"github.com/FelixFS3D/uixom/internal/core/domain"
	"github.com/FelixFS3D/uixom/internal/core/service"
	"github.com/FelixFS3D/uixom/internal/infrastructure/config"
	mongodb "github.com/FelixFS3D/uixom/internal/infrastructure/db/mongo"
	redisdb "github.com/FelixFS3D/uixom/internal/infrastructure/db/redis"
)

// Dependencies carries the process-wide resources the router wires together.
// Redis and Notifier are optional features; nil disables them.
type Dependencies struct {
	Cfg      *config.Config
	DB       *mongo.Database
	Redis    *goredis.Client
	Notifier service.RequestNotifier
	Logger   zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	if deps.Cfg.TrustProxy {
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     deps.Cfg.CORS.Origins,
		AllowCredentials: deps.Cfg.CORS.AllowCredentials,
	}))
	e.Use(echoprometheus.NewMiddleware("uixom"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(deps.DB)
	requestRepo := mongodb.NewRequestRepository(deps.DB)

	tokenService := service.NewTokenService(deps.Cfg.JWTSecret, deps.Cfg.JWTTTL)
	authService := service.NewAuthService(userRepo, tokenService, deps.Cfg.BcryptCost, deps.Logger)
	requestService := service.NewRequestService(requestRepo, userRepo, deps.Notifier, deps.Logger)
	userService := service.NewUserService(userRepo, deps.Cfg.BcryptCost, deps.Logger)

	var throttle handler.LoginThrottle
	if deps.Redis != nil {
		throttle = redisdb.NewLoginThrottle(deps.Redis, 20, 15*time.Minute)
	}

	authHandler := handler.NewAuthHandler(authService, throttle, deps.Logger)
	requestHandler := handler.NewRequestHandler(requestService)
	userHandler := handler.NewUserHandler(userService)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)

	authRequired := middleware.Auth(tokenService, userRepo)
	authOptional := middleware.OptionalAuth(tokenService, userRepo)
	staffOnly := middleware.RBAC(domain.RoleAdmin, domain.RoleSuperAdmin)
	superAdminOnly := middleware.RBAC(domain.RoleSuperAdmin)

	// --- Probes & metrics (no auth, no rate limit) ---
	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- API routes ---
	api := e.Group("/api", rateLimiter(deps.Cfg.RateLimit.Max, deps.Cfg.RateLimit.Window))

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login, rateLimiter(20, 15*time.Minute))
	auth.GET("/me", authHandler.Me, authRequired)
	auth.PUT("/me", authHandler.UpdateMe, authRequired)

	// Body-carrying mutations gate roles inside the service, after
	// validation; bodyless routes use route-level RBAC.
	api.POST("/requests", requestHandler.Create, authOptional)
	api.GET("/requests", requestHandler.List, authRequired, staffOnly)
	api.GET("/requests/stats", requestHandler.Stats, authRequired, staffOnly)
	api.GET("/requests/:id", requestHandler.Get, authRequired, staffOnly)
	api.PATCH("/requests/:id", requestHandler.Update, authRequired)
	api.POST("/requests/:id/notes", requestHandler.AddNote, authRequired)
	api.DELETE("/requests/:id", requestHandler.Delete, authRequired, superAdminOnly)

	api.GET("/users", userHandler.List, authRequired, staffOnly)
	api.GET("/users/:id", userHandler.Get, authRequired, staffOnly)
	api.POST("/users", userHandler.Create, authRequired)
	api.PUT("/users/:id", userHandler.Update, authRequired)
	api.DELETE("/users/:id", userHandler.Delete, authRequired, superAdminOnly)

	return e
}

// requestLogger emits one access log line per request. Server-side failures
// are logged at error level, everything else at info.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

// rateLimiter builds an in-memory fixed-budget limiter: max requests per
// window, tracked per client IP.
func rateLimiter(max int, window time.Duration) echo.MiddlewareFunc {
	if window <= 0 {
		window = time.Minute
	}
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(max) / window.Seconds()),
			Burst:     max,
			ExpiresIn: window,
		}),
	})
}
