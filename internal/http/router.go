package http

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/geocoder89/showfinder/internal/config"
	"github.com/geocoder89/showfinder/internal/geosession"
	"github.com/geocoder89/showfinder/internal/http/handlers"
	"github.com/geocoder89/showfinder/internal/http/middlewares"
	"github.com/geocoder89/showfinder/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps is everything the router wires into handlers. Nil optional fields
// disable the matching feature (metrics, readiness checks).
type Deps struct {
	Config config.Config
	Logger *slog.Logger

	Auth     handlers.Authenticator
	Tokens   middlewares.TokenVerifier
	Saved    handlers.SavedStore
	Finder   handlers.ConcertFinder
	Geocoder handlers.Geocoder
	Sessions geosession.Store

	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
	Checks   map[string]handlers.PingFunc

	// ShuttingDown flips readiness to 503 during graceful shutdown.
	ShuttingDown func() bool
}

func NewRouter(d Deps) *gin.Engine {
	if d.Config.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware(serviceName(d.Config)))

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	r.Use(middlewares.RequestLogger(d.Logger))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Config.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(d.Config.MaxBodyBytes))

	// health, metrics, docs
	h := handlers.NewHealthHandler(d.Checks, d.ShuttingDown)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	r.GET("/docs", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	// Wire up handlers
	authMW := middlewares.NewAuthMiddleware(d.Tokens)
	authHandler := handlers.NewAuthHandler(d.Auth)
	concertsHandler := handlers.NewConcertsHandler(d.Finder, d.Sessions)
	locationHandler := handlers.NewLocationHandler(d.Geocoder, d.Sessions)
	savedHandler := handlers.NewSavedHandler(d.Saved)

	api := r.Group("/api")

	authGroup := api.Group("/auth", middlewares.RequireJSON())
	authGroup.POST("/signup", authHandler.SignUp)
	authGroup.POST("/login", authHandler.Login)

	api.GET("/concerts", concertsHandler.Search)
	api.GET("/concerts/:id", concertsHandler.GetByID)

	// optional identity keys the per-session geocode
	r.GET("/location", authMW.OptionalAuth(), locationHandler.Geocode)
	r.GET("/concert", authMW.OptionalAuth(), concertsHandler.Nearby)

	me := api.Group("/me", authMW.RequireAuth(), middlewares.RequireJSON())
	me.GET("/saved", savedHandler.List)
	me.POST("/saved", savedHandler.Create)
	me.DELETE("/saved/:id", savedHandler.Delete)

	r.NoRoute(staticFallback(d.Config.PublicDir))

	return r
}

func serviceName(cfg config.Config) string {
	if cfg.ServiceName != "" {
		return cfg.ServiceName
	}
	return "showfinder"
}

// staticFallback serves the web client from dir for any unmatched GET. API
// paths and other methods get the JSON 404.
func staticFallback(dir string) gin.HandlerFunc {
	var files http.Handler

	if dir != "" {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			files = http.FileServer(http.Dir(dir))
		}
	}

	return func(c *gin.Context) {
		method := c.Request.Method
		isRead := method == http.MethodGet || method == http.MethodHead

		if files == nil || !isRead || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			handlers.RespondNotFound(c, "Route not found")
			return
		}

		files.ServeHTTP(c.Writer, c.Request)
	}
}
