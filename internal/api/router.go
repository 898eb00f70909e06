package api

import (
	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/docqa/internal/api/middleware"
	"github.com/liliang-cn/docqa/internal/api/page"
	"go.uber.org/zap"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	AllowOrigins []string
	Logger       *zap.Logger
}

// SetupRouter sets up the Gin router
func SetupRouter(pageHandler *page.Handler, cfg RouterConfig) (*gin.Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Page template and stylesheet
	if err := SetupStaticRoutes(r); err != nil {
		return nil, err
	}

	pageHandler.RegisterRoutes(r.Group(""))

	// JSON API
	apiGroup := r.Group("/api")
	apiGroup.Use(middleware.CORS(cfg.AllowOrigins))
	apiGroup.OPTIONS("/*path", func(c *gin.Context) {})
	pageHandler.RegisterAPIRoutes(apiGroup)

	return r, nil
}
