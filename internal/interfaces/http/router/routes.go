package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// EngineOptions configures the global middleware stack
type EngineOptions struct {
	HTTP          config.HTTPConfig
	ServiceName   string
	Tracing       bool
	MeterProvider *telemetry.MeterProvider
	// RateLimiter throttles every request by client IP when set
	RateLimiter *middleware.RateLimiter
	Logger      *zap.Logger
}

// NewEngine builds a gin engine with the global middleware stack:
// request id, recovery, access log, tracing, metrics, security headers,
// CORS, body limit and the optional rate limit.
func NewEngine(opts EngineOptions) *gin.Engine {
	log := opts.Logger
	middleware.SetupValidator()

	engine := gin.New()
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if opts.Tracing {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{ServiceName: opts.ServiceName, Enabled: true}))
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: opts.MeterProvider,
		Enabled:       true,
	}))
	engine.Use(middleware.Secure())

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = opts.HTTP.CORSAllowOrigins
	if len(opts.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = opts.HTTP.CORSAllowMethods
	}
	if len(opts.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = opts.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(cors))

	if opts.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.HTTP.MaxBodySize))
	}
	if opts.RateLimiter != nil {
		engine.Use(middleware.RateLimit(opts.RateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", opts.HTTP.RateLimitRequests),
			zap.Duration("window", opts.HTTP.RateLimitWindow),
		)
	}
	return engine
}

// Handlers are the HTTP handlers mounted by Mount
type Handlers struct {
	Shoppers   *handler.ShopperHandler
	Merchants  *handler.MerchantHandler
	Catalog    *handler.CatalogHandler
	Cart       *handler.CartHandler
	Orders     *handler.OrderHandler
	Coupons    *handler.CouponHandler
	Complaints *handler.ComplaintHandler
	Health     *handler.HealthHandler
}

// Guards are the access checks applied per route group
type Guards struct {
	Sessions    middleware.Authenticator
	OperatorKey string
	// AuthLimiter throttles signup and login when set
	AuthLimiter *middleware.RateLimiter
	Logger      *zap.Logger
}

// Mount registers the probes on the engine and every API route under /api/v1
func Mount(engine *gin.Engine, h Handlers, g Guards) {
	engine.GET("/health", h.Health.Health)
	engine.GET("/health/live", h.Health.Live)
	engine.GET("/health/ready", h.Health.Ready)

	shopper := []gin.HandlerFunc{
		middleware.SessionAuth(identity.PrincipalShopper, g.Sessions, g.Logger),
		middleware.TracingAttributeInjector(),
	}
	merchant := []gin.HandlerFunc{
		middleware.SessionAuth(identity.PrincipalMerchant, g.Sessions, g.Logger),
		middleware.TracingAttributeInjector(),
	}

	r := NewRouter(engine, WithAPIVersion("v1"))

	auth := NewDomainGroup("auth", "/auth")
	if g.AuthLimiter != nil {
		auth.Use(middleware.RateLimit(g.AuthLimiter))
	}
	auth.POST("/shoppers/signup", h.Shoppers.Signup)
	auth.POST("/shoppers/login", h.Shoppers.Login)
	auth.POST("/merchants/signup", h.Merchants.Signup)
	auth.POST("/merchants/login", h.Merchants.Login)
	auth.With(shopper...).POST("/shoppers/logout", h.Shoppers.Logout)
	auth.With(merchant...).POST("/merchants/logout", h.Merchants.Logout)

	users := NewDomainGroup("users", "/users")
	users.GET("/:userId", h.Shoppers.PublicProfile)

	profile := NewDomainGroup("profile", "/profile").Use(shopper...)
	profile.GET("", h.Shoppers.Profile)
	profile.PUT("", h.Shoppers.UpdateProfile)
	profile.PUT("/password", h.Shoppers.ChangePassword)

	merchants := NewDomainGroup("merchants", "/merchants")
	merchants.With(merchant...).GET("/me/session", h.Merchants.SessionState)
	merchants.GET("/:sellerId", h.Merchants.PublicProfile)

	catalog := NewDomainGroup("catalog", "/catalog/items")
	catalog.GET("", h.Catalog.List)
	catalog.GET("/featured", h.Catalog.ListFeatured)
	catalog.GET("/:itemId", h.Catalog.Get)
	catalog.With(merchant...).
		POST("", h.Catalog.Create).
		PATCH("/:itemId", h.Catalog.Update).
		PUT("/:itemId/image", h.Catalog.UploadImage)

	cart := NewDomainGroup("cart", "/cart").Use(shopper...)
	cart.GET("", h.Cart.Get)
	cart.POST("/items", h.Cart.AddItem)
	cart.PUT("/items/:itemId", h.Cart.UpdateQuantity)
	cart.DELETE("/items/:itemId", h.Cart.RemoveItem)

	orders := NewDomainGroup("orders", "/orders").Use(shopper...)
	orders.POST("", h.Orders.PlaceOrder)
	orders.GET("", h.Orders.List)
	orders.GET("/:orderId", h.Orders.Get)

	coupons := NewDomainGroup("coupons", "/coupons")
	coupons.GET("", h.Coupons.List)
	coupons.POST("/verify", h.Coupons.Verify)

	complaints := NewDomainGroup("complaints", "/complaints")
	complaints.POST("", h.Complaints.Submit)

	operator := NewDomainGroup("operator", "/operator").Use(middleware.OperatorAuth(g.OperatorKey))
	operator.POST("/coupons", h.Coupons.Create)
	operator.DELETE("/coupons/:code", h.Coupons.Delete)
	operator.GET("/complaints", h.Complaints.List)
	operator.PUT("/complaints/:number/status", h.Complaints.UpdateStatus)
	operator.PUT("/merchants/:sellerId/verification", h.Merchants.SetVerification)

	r.Register(auth, users, profile, merchants, catalog, cart, orders, coupons, complaints, operator)
	r.Setup()
}
