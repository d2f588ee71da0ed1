// Package router registers the HTTP routes and their middleware.
package router

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-booking/internal/config"
	"github.com/iliyamo/hotel-booking/internal/handler"
	"github.com/iliyamo/hotel-booking/internal/middleware"
)

// Deps is everything the routes need.  Redis may be nil.
type Deps struct {
	Catalog  *handler.CatalogHandler
	Wizard   *handler.WizardHandler
	Bookings *handler.BookingHandler

	VisitorSecret string
	VisitorTTL    time.Duration
	SecureCookie  bool

	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Redis     *redis.Client
	Logger    *zap.Logger
}

// New returns an Echo instance with all routes registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomw.Recover())

	RegisterRoutes(e)

	v1 := e.Group("/v1")
	v1.Use(middleware.Visitor(d.VisitorSecret, d.VisitorTTL, d.SecureCookie, d.Logger))
	v1.Use(middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Logger))

	RegisterCatalog(v1, d.Catalog, middleware.NewRedisCache(d.Cache, d.Redis))
	RegisterWizard(v1, d.Wizard)
	RegisterBookings(v1, d.Bookings)
	return e
}

// RegisterRoutes registers routes outside /v1.  At the moment it only
// exposes the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterCatalog registers the read-only catalog routes behind cache.
func RegisterCatalog(g *echo.Group, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	g.GET("/rooms", h.Rooms, cache)
	g.GET("/rooms/:id", h.Room, cache)
	g.GET("/settings", h.Settings, cache)
	g.GET("/payment-methods", h.PaymentMethods, cache)
}

// RegisterWizard registers the booking dialog routes.
func RegisterWizard(g *echo.Group, h *handler.WizardHandler) {
	g.POST("/wizard", h.Open)
	g.GET("/wizard/:sid", h.Get)
	g.PATCH("/wizard/:sid/draft", h.PatchDraft)
	g.POST("/wizard/:sid/next", h.Next)
	g.POST("/wizard/:sid/back", h.Back)
	g.POST("/wizard/:sid/finalize", h.Finalize)
}

// RegisterBookings registers ledger reads and the payment proof flow.
func RegisterBookings(g *echo.Group, h *handler.BookingHandler) {
	g.GET("/bookings", h.List)
	g.GET("/bookings/:id", h.Get)
	g.GET("/bookings/:id/proof", h.Proof)
	g.GET("/bookings/:id/handoff", h.Handoff)
	g.POST("/bookings/:id/receipt", h.SubmitReceipt)
	g.POST("/bookings/:id/verify", h.Verify)
}
