package http

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-helloworld/internal/infra/config"
	"github.com/yanqian/weather-helloworld/pkg/metrics"
)

const apiGreeting = "Connecting to the Weather App API. Please use the frontend to access the application."

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, m *metrics.Metrics) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger),
		metricsMiddleware(m),
		errorHandlingMiddleware(handler.logger),
		securityHeadersMiddleware(),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
		bodyLimitMiddleware(cfg.HTTP.MaxBodyBytes),
	)

	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.GET("/weather", optionalAuthMiddleware(handler.authSvc), handler.Weather)

		authGroup := api.Group("/auth")
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/refresh", handler.Refresh)
		authGroup.GET("/me", authMiddleware(handler.authSvc), handler.Me)

		user := api.Group("/user", authMiddleware(handler.authSvc))
		user.GET("/history", handler.History)
		user.GET("/favorites", handler.Favorites)
		user.POST("/favorites", handler.AddFavorite)
		user.DELETE("/favorites/:id", handler.RemoveFavorite)
	}

	router.NoMethod(func(c *gin.Context) {
		if isAuthPath(c.Request.URL.Path) {
			handler.authMethodNotAllowed(c)
			return
		}
		abortWithError(c, NewHTTPError(http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil))
	})
	router.NoRoute(fallback(handler, cfg.HTTP.StaticDir))

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

// fallback answers unmatched paths: unknown auth routes get 405, other API
// paths 404, and everything else is served from the client build when present.
func fallback(handler *Handler, staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		switch {
		case isAuthPath(p):
			handler.authMethodNotAllowed(c)
			return
		case p == "/api" || strings.HasPrefix(p, "/api/"):
			abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "Not found", nil))
			return
		case c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead:
			abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "Not found", nil))
			return
		}

		if staticDir != "" {
			if file, ok := staticFile(staticDir, p); ok {
				c.File(file)
				return
			}
			if index, ok := staticFile(staticDir, "/index.html"); ok {
				c.File(index)
				return
			}
		}
		c.String(http.StatusOK, apiGreeting)
	}
}

func staticFile(dir, urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	if clean == "/" {
		return "", false
	}
	full := filepath.Join(dir, filepath.FromSlash(clean))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", false
	}
	return full, true
}

func isAuthPath(p string) bool {
	return p == "/api/auth" || strings.HasPrefix(p, "/api/auth/")
}
