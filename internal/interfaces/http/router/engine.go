package router

import (
	"github.com/gin-gonic/gin"
	"github.com/haccp/backend/internal/infrastructure/logger"
	"github.com/haccp/backend/internal/interfaces/http/dto"
	"github.com/haccp/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// EngineConfig configures the gin engine
type EngineConfig struct {
	Logger           *zap.Logger
	ServiceName      string
	TracingEnabled   bool
	MaxBodySize      int64
	CORSAllowOrigins []string
	TrustedProxies   []string
	// TokenValidator guards the API; nil leaves it open
	TokenValidator middleware.TokenValidator
}

// NewEngine builds the engine with the middleware chain, health endpoint
// and versioned API
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(logger.Recovery(log))
	if cfg.TracingEnabled {
		engine.Use(middleware.Tracing(cfg.ServiceName))
	}
	engine.Use(logger.GinMiddleware(log))
	if len(cfg.CORSAllowOrigins) > 0 {
		engine.Use(middleware.CORS(cfg.CORSAllowOrigins))
	}
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	engine.GET("/health", h.System.Health)

	var apiMiddleware []gin.HandlerFunc
	if cfg.TokenValidator != nil {
		apiMiddleware = append(apiMiddleware, middleware.Authenticate(cfg.TokenValidator))
	}
	if cfg.TracingEnabled {
		apiMiddleware = append(apiMiddleware, middleware.AnnotateActor())
	}
	NewRouter(engine, WithAPIVersion("v1"), WithMiddleware(apiMiddleware...)).
		Register(APIRoutes(h)...).
		Setup()

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(dto.HTTPStatus(dto.ErrCodeRouteMissing), dto.NewErrorResponse(
			dto.ErrCodeRouteMissing,
			"route "+c.Request.Method+" "+c.Request.URL.Path+" not found",
			c.Writer.Header().Get(logger.RequestIDHeader),
		))
	})
	return engine, nil
}
