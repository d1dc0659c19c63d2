package router

import (
	"github.com/gin-gonic/gin"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"github.com/stockroom/backend/internal/infrastructure/telemetry"
	"github.com/stockroom/backend/internal/interfaces/http/handler"
	"github.com/stockroom/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// SwaggerPath serves the API browser and its doc.json
const SwaggerPath = "/swagger/*any"

// Handlers bundles the HTTP handlers served under the API prefix
type Handlers struct {
	Inventory *handler.InventoryHandler
	Health    *handler.HealthHandler
}

// EngineOptions configures the middleware chain of the API engine
type EngineOptions struct {
	Logger         *zap.Logger
	ServiceName    string
	TracingEnabled bool
	MeterProvider  *telemetry.MeterProvider
	CORS           middleware.CORSConfig
	TrustedProxies []string
	JWT            middleware.JWTMiddlewareConfig
	// ExportLimiter guards the CSV export routes; nil leaves them unlimited
	ExportLimiter *middleware.RateLimiter
	// Docs serves the OpenAPI browser without authentication. The document
	// itself is registered by importing the docs package.
	Docs bool
}

// NewEngine builds the gin engine with the global middleware chain and every API route.
//
// Order matters: the tracing span must exist before the request logger copies the
// request context, and the span enricher reads the subject set by the JWT middleware.
func NewEngine(opts EngineOptions, h Handlers) (*gin.Engine, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.JWT.Logger == nil {
		opts.JWT.Logger = log
	}

	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
	)
	if opts.Docs {
		engine.GET(SwaggerPath, ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	engine.Use(
		middleware.Tracing(opts.ServiceName, opts.TracingEnabled),
		logger.GinMiddleware(log),
		middleware.CORSWithConfig(opts.CORS),
		middleware.Secure(),
		middleware.HTTPMetrics(opts.MeterProvider, log),
		middleware.JWTAuthMiddlewareWithConfig(opts.JWT),
		middleware.SpanEnricher(),
	)

	var exportGuard []gin.HandlerFunc
	if opts.ExportLimiter != nil {
		exportGuard = append(exportGuard, middleware.RateLimit(opts.ExportLimiter))
	}

	NewRouter(engine, WithAPIVersion("v1")).
		Register(InventoryRoutes(h.Inventory, exportGuard...)...).
		Register(HealthRoutes(h.Health)).
		Setup()

	return engine, nil
}

// InventoryRoutes declares the activity log and inventory item routes.
// exportGuard runs in front of the CSV export handlers only.
func InventoryRoutes(h *handler.InventoryHandler, exportGuard ...gin.HandlerFunc) []RouteRegistrar {
	logs := NewDomainGroup("logs", "/logs").
		GET("", h.ListLogs).
		GET("/export", guarded(exportGuard, h.ExportLogs)...).
		GET("/:id", h.GetLog)

	items := NewDomainGroup("items", "/items").
		GET("", h.ListItems).
		GET("/export", guarded(exportGuard, h.ExportItems)...).
		GET("/:id", h.GetItem)

	return []RouteRegistrar{logs, items}
}

// HealthRoutes declares the health probe route
func HealthRoutes(h *handler.HealthHandler) RouteRegistrar {
	return NewDomainGroup("health", "/health").GET("", h.Check)
}

func guarded(guard []gin.HandlerFunc, final gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(guard)+1)
	chain = append(chain, guard...)
	return append(chain, final)
}
