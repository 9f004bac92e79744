package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matthieukhl/shopctl/internal/config"
)

// Server is the in-memory dev backend. It implements the dashboard
// API surface faithfully enough to develop and test the client
// against: JWT access tokens, opaque refresh tokens, paginated lists
// and the same endpoint paths and payload shapes as production.
type Server struct {
	router    *gin.Engine
	store     *memStore
	jwtSecret []byte
	accessTTL time.Duration
}

// NewServer creates a dev server instance from config.
func NewServer(cfg *config.DevConfig) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}

	server := &Server{
		router:    router,
		store:     newMemStore(),
		jwtSecret: []byte(cfg.JWTSecret),
		accessTTL: accessTTL,
	}

	if cfg.Seed {
		server.store.seed()
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/dashboard")

	auth := api.Group("/auth")
	{
		auth.POST("/login/", s.login)
		auth.POST("/token/refresh/", s.refreshToken)
		auth.POST("/logout/", s.logout)
	}

	authed := api.Group("")
	authed.Use(s.requireAuth())
	{
		authed.GET("/auth/me/", s.me)
		authed.PATCH("/auth/me/", s.updateMe)
		authed.POST("/auth/change-password/", s.changePassword)

		authed.GET("/products/", s.listProducts)
		authed.POST("/products/", s.createProduct)
		authed.GET("/products/:id/", s.getProduct)
		authed.PATCH("/products/:id/", s.updateProduct)
		authed.DELETE("/products/:id/", s.deleteProduct)
		authed.DELETE("/products/:id/images/:imageID/", s.deleteProductImage)
		authed.PATCH("/products/:id/images/:imageID/", s.setPrimaryImage)
		authed.GET("/products/:id/variants/", s.listVariants)
		authed.POST("/products/:id/variants/", s.createVariant)
		authed.GET("/products/:id/variants/:variantID/", s.getVariant)
		authed.PATCH("/products/:id/variants/:variantID/", s.updateVariant)
		authed.DELETE("/products/:id/variants/:variantID/", s.deleteVariant)
		authed.PATCH("/products/:id/variants/:variantID/stock/", s.updateVariantStock)

		authed.GET("/orders/", s.listOrders)
		authed.GET("/orders/stats/", s.orderStats)
		authed.GET("/orders/export/", s.exportOrders)
		authed.GET("/orders/:id/", s.getOrder)
		authed.PATCH("/orders/:id/status/", s.updateOrderStatus)

		authed.GET("/customers/", s.listCustomers)
		authed.GET("/customers/:id/", s.getCustomer)
		authed.POST("/customers/:id/block/", s.toggleBlockCustomer)
		authed.GET("/admins/", s.listAdmins)
		authed.POST("/admins/", s.createAdmin)
		authed.GET("/roles/", s.listRoles)
		authed.POST("/roles/", s.createRole)

		authed.GET("/coupons/", s.listCoupons)
		authed.POST("/coupons/", s.createCoupon)
		authed.POST("/coupons/validate/", s.validateCoupon)
		authed.GET("/coupons/:id/", s.getCoupon)
		authed.PUT("/coupons/:id/", s.updateCoupon)
		authed.PATCH("/coupons/:id/", s.patchCoupon)
		authed.DELETE("/coupons/:id/", s.deleteCoupon)

		authed.GET("/categories/", s.listCategories)
		authed.POST("/categories/", s.createCategory)
		authed.GET("/categories/:id/", s.getCategory)
		authed.PATCH("/categories/:id/", s.updateCategory)
		authed.DELETE("/categories/:id/", s.deleteCategory)

		authed.GET("/attributes/", s.listAttributes)
		authed.POST("/attributes/", s.createAttribute)
		authed.DELETE("/attributes/:id/", s.deleteAttribute)
		authed.GET("/attributes/:id/values/", s.listAttributeValues)
		authed.POST("/attributes/:id/values/", s.createAttributeValue)
		authed.DELETE("/attributes/:id/values/:valueID/", s.deleteAttributeValue)

		authed.GET("/notifications/", s.listNotifications)
		authed.POST("/notifications/:id/mark-read/", s.markNotificationRead)
		authed.POST("/notifications/mark-all-read/", s.markAllNotificationsRead)
		authed.GET("/notifications/unread-count/", s.unreadCount)
		authed.GET("/activity-logs/", s.listActivityLogs)

		authed.GET("/dashboard/stats/", s.dashboardStats)
		authed.GET("/dashboard/analytics/", s.dashboardAnalytics)
		authed.GET("/dashboard/inventory-alerts/", s.inventoryAlerts)
	}
}

// Handler exposes the router for httptest-based tests.
func (s *Server) Handler() *gin.Engine {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
