package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"inventory-service/internal/models"
	"inventory-service/internal/service"
	"inventory-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	ctxOrgID  = "org_id"
	ctxUserID = "user_id"
)

// Handler contains HTTP handlers
type Handler struct {
	orders *service.OrderService
	stock  *service.StockService
}

// NewHandler creates a new HTTP handler
func NewHandler(orders *service.OrderService, stock *service.StockService) *Handler {
	return &Handler{orders: orders, stock: stock}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(tenantAuth())
	{
		v1.POST("/orders", h.createOrder)
		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.PUT("/orders/:id", h.updateOrder)
		v1.DELETE("/orders/:id", h.deleteOrder)

		v1.GET("/products/:id", h.getProduct)
		v1.GET("/products/:id/movements", h.listMovements)
		v1.POST("/products/:id/adjustments", h.adjustStock)
	}
}

// tenantAuth resolves the organization and acting user from headers set by
// the upstream auth gateway. Requests without both are rejected.
func tenantAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := c.GetHeader("X-Org-ID")
		userID := c.GetHeader("X-User-ID")
		if orgID == "" || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing organization or user identity",
			})
			return
		}
		c.Set(ctxOrgID, orgID)
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

func identity(c *gin.Context) (orgID, userID string) {
	return c.GetString(ctxOrgID), c.GetString(ctxUserID)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// createOrder handles order creation
func (h *Handler) createOrder(c *gin.Context) {
	var req service.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	orgID, userID := identity(c)
	resp, err := h.orders.CreateOrder(c.Request.Context(), orgID, userID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateOrder handles full-replacement order updates
func (h *Handler) updateOrder(c *gin.Context) {
	var req service.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	orgID, userID := identity(c)
	resp, err := h.orders.UpdateOrder(c.Request.Context(), orgID, userID, c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// deleteOrder handles order deletion
func (h *Handler) deleteOrder(c *gin.Context) {
	orgID, userID := identity(c)
	if err := h.orders.DeleteOrder(c.Request.Context(), orgID, userID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// getOrder handles get order by ID
func (h *Handler) getOrder(c *gin.Context) {
	orgID, _ := identity(c)
	resp, err := h.orders.GetOrder(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listOrders handles listing the organization's orders
func (h *Handler) listOrders(c *gin.Context) {
	orgID, _ := identity(c)
	orders, err := h.orders.ListOrders(c.Request.Context(), orgID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// getProduct handles get product by ID
func (h *Handler) getProduct(c *gin.Context) {
	orgID, _ := identity(c)
	product, err := h.stock.GetProduct(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// listMovements handles listing a product's movement ledger
func (h *Handler) listMovements(c *gin.Context) {
	orgID, _ := identity(c)
	movements, err := h.stock.ListMovements(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"movements": movements})
}

// adjustStock handles manual stock adjustments
func (h *Handler) adjustStock(c *gin.Context) {
	var req service.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	orgID, userID := identity(c)
	product, err := h.stock.AdjustStock(c.Request.Context(), orgID, userID, c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// writeError maps domain errors to HTTP responses. Store-level failures are
// logged upstream and surfaced as a generic message so internals never leak.
func writeError(c *gin.Context, err error) {
	var insufficient *models.InsufficientStockError
	var notActive *models.ProductNotActiveError
	var validation *models.ValidationError

	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Insufficient stock for product " + insufficient.ProductID,
			"product_id": insufficient.ProductID,
			"available":  insufficient.Available,
			"requested":  insufficient.Requested,
		})
	case errors.As(err, &notActive):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Product is not available for sale",
			"product_id": notActive.ProductID,
		})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		util.GetLogger().Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
