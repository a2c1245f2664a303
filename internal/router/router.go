package router

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/medadmin/hospital-api/internal/handler"
	appointmentHandler "github.com/medadmin/hospital-api/internal/handler/appointment"
	authHandler "github.com/medadmin/hospital-api/internal/handler/auth"
	datarestoreHandler "github.com/medadmin/hospital-api/internal/handler/datarestore"
	doctorHandler "github.com/medadmin/hospital-api/internal/handler/doctor"
	patientHandler "github.com/medadmin/hospital-api/internal/handler/patient"
	userHandler "github.com/medadmin/hospital-api/internal/handler/user"
	"github.com/medadmin/hospital-api/internal/middleware"
	"github.com/medadmin/hospital-api/internal/model"
)

type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *authHandler.Handler
	Doctor      *doctorHandler.Handler
	Patient     *patientHandler.Handler
	Appointment *appointmentHandler.Handler
	User        *userHandler.Handler
	DataRestore *datarestoreHandler.Handler
}

type Config struct {
	RateLimit      rate.Limit
	RateBurst      int
	RequestTimeout time.Duration
	AllowOrigins   []string
	MetricsPrefix  string
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	metrics  *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, config Config) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = model.RegisterValidations(v)
	}

	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 30 * time.Second
	}
	if config.MetricsPrefix == "" {
		config.MetricsPrefix = "hospital_api"
	}
	if len(config.AllowOrigins) == 0 {
		config.AllowOrigins = []string{"*"}
	}

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		metrics:  initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout}),
	)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = config.AllowOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("Authorization", middleware.HeaderXRequestID)
	if len(config.AllowOrigins) == 1 && config.AllowOrigins[0] == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	engine.Use(cors.New(corsConfig))

	if config.RateLimit > 0 {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.handlers.Health.RegisterRoutes(api)
	r.handlers.Auth.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	adminOnly := r.auth.RequireRole(model.RoleAdmin)

	r.handlers.Auth.RegisterProtectedRoutes(protected)
	r.handlers.Doctor.RegisterRoutes(protected, adminOnly)
	r.handlers.Patient.RegisterRoutes(protected, adminOnly)
	r.handlers.Appointment.RegisterRoutes(protected)
	r.handlers.User.RegisterRoutes(protected, adminOnly)
	r.handlers.DataRestore.RegisterRoutes(protected, adminOnly)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
