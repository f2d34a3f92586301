package http

import (
	"github.com/geocoder89/bloglist/internal/config"
	"github.com/geocoder89/bloglist/internal/http/handlers"
	"github.com/geocoder89/bloglist/internal/http/middlewares"
	"github.com/geocoder89/bloglist/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	serviceName = "bloglist-api"
	docsPrefix  = "/docs"
)

// Deps is everything the router mounts. Prom and Gatherer are nil when
// metrics are disabled; Ping and Draining may be nil.
type Deps struct {
	Config   config.Config
	Blogs    handlers.BlogsService
	Users    handlers.UsersService
	Login    handlers.Authenticator
	Ping     func() error
	Draining func() bool
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
}

func NewRouter(d Deps) *gin.Engine {
	if d.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	if d.Config.OTLPEndpoint != "" {
		r.Use(otelgin.Middleware(serviceName))
	}
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.SecurityHeaders(docsPrefix))
	r.Use(middlewares.CORSMiddleware(d.Config.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(d.Config.MaxBodyBytes))
	r.Use(middlewares.TokenExtractor())
	r.Use(middlewares.ErrorHandler())

	// health
	h := handlers.NewHealthHandler(d.Ping, d.Draining)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	r.GET(docsPrefix, handlers.SwaggerUI)
	r.GET(docsPrefix+"/openapi.yaml", handlers.OpenAPISpec)

	// Wire up handlers
	blogsHandler := handlers.NewBlogsHandler(d.Blogs)
	usersHandler := handlers.NewUsersHandler(d.Users)
	loginHandler := handlers.NewLoginHandler(d.Login)

	api := r.Group("/api")
	{
		api.GET("/blogs", blogsHandler.ListBlogs)
		api.GET("/blogs/stats", blogsHandler.BlogStats)
		api.POST("/blogs", blogsHandler.CreateBlog)
		api.DELETE("/blogs/:id", blogsHandler.DeleteBlog)
		api.PUT("/blogs/:id", blogsHandler.UpdateBlog)

		api.POST("/users", usersHandler.CreateUser)
		api.GET("/users", usersHandler.ListUsers)

		api.POST("/login", loginHandler.Login)
	}

	r.NoRoute(middlewares.UnknownEndpoint)

	return r
}
