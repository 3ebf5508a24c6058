package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
	"storefront-service/internal/prefs"
	"storefront-service/internal/service"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	session  *service.SessionService
	fixtures *catalog.Fixtures
	prefs    prefs.Store
}

// NewHandler creates a new HTTP handler
func NewHandler(session *service.SessionService, fixtures *catalog.Fixtures, prefStore prefs.Store) *Handler {
	return &Handler{
		session:  session,
		fixtures: fixtures,
		prefs:    prefStore,
	}
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
	{
		v1.GET("/catalog", h.getCatalog)
		v1.GET("/catalog/categories", h.getCategories)
		v1.POST("/catalog/search", h.search)
		v1.POST("/catalog/category", h.selectCategory)
		v1.POST("/catalog/sort", h.sortCatalog)

		v1.GET("/products/:id", h.getProduct)
		v1.GET("/products/:id/reviews", h.getProductReviews)

		v1.GET("/cart", h.getCart)
		v1.POST("/cart/items", h.addToCart)
		v1.PUT("/cart/items/:productId", h.updateCartQuantity)
		v1.DELETE("/cart/items/:productId", h.removeFromCart)

		v1.GET("/wishlist", h.getWishlist)
		v1.POST("/wishlist/toggle", h.toggleWishlist)

		v1.POST("/auth/login", h.login)
		v1.POST("/auth/logout", h.logout)

		v1.POST("/orders", h.placeOrder)
		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)

		v1.POST("/reviews", h.addReview)

		v1.GET("/recommendations", h.getRecommendations)

		v1.GET("/admin/stats", h.adminStats)

		v1.GET("/preferences/dark-mode", h.getDarkMode)
		v1.PUT("/preferences/dark-mode", h.setDarkMode)
	}
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

func catalogView(state store.State) gin.H {
	products := state.Filtered
	if products == nil {
		products = []models.Product{}
	}
	return gin.H{
		"products":          products,
		"selected_category": state.SelectedCategory,
		"search_query":      state.SearchQuery,
		"sort_by":           state.SortBy,
	}
}

func cartView(state store.State) gin.H {
	items := state.Cart
	if items == nil {
		items = []models.CartLine{}
	}
	return gin.H{
		"items": items,
		"total": state.CartTotal,
	}
}

// getCatalog returns the current filtered and sorted product list
func (h *Handler) getCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, catalogView(h.session.Snapshot()))
}

// getCategories returns the category enumeration
func (h *Handler) getCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.fixtures.Categories()})
}

type searchRequest struct {
	Query string `json:"query"`
}

// search applies a free-text filter to the catalog
func (h *Handler) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, catalogView(h.session.Search(c.Request.Context(), req.Query)))
}

type categoryRequest struct {
	Category string `json:"category" binding:"required"`
}

// selectCategory applies a category filter to the catalog
func (h *Handler) selectCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, catalogView(h.session.SelectCategory(c.Request.Context(), req.Category)))
}

type sortRequest struct {
	Sort string `json:"sort" binding:"required"`
}

// sortCatalog reorders the current filtered list
func (h *Handler) sortCatalog(c *gin.Context) {
	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, catalogView(h.session.Sort(c.Request.Context(), req.Sort)))
}

// getProduct returns one product by id
func (h *Handler) getProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, ok := h.fixtures.ProductByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// getProductReviews returns the review log for one product
func (h *Handler) getProductReviews(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	reviews := h.session.Snapshot().ReviewsFor(id)
	if reviews == nil {
		reviews = []models.Review{}
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// getCart returns the current cart
func (h *Handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, cartView(h.session.Snapshot()))
}

type addToCartRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

// addToCart adds one unit of a product to the cart
func (h *Handler) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cartView(h.session.AddToCart(c.Request.Context(), req.ProductID)))
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// updateCartQuantity sets a cart line's quantity
func (h *Handler) updateCartQuantity(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, cartView(h.session.UpdateCartQuantity(c.Request.Context(), productID, req.Quantity)))
}

// removeFromCart drops a cart line
func (h *Handler) removeFromCart(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}
	c.JSON(http.StatusOK, cartView(h.session.RemoveFromCart(c.Request.Context(), productID)))
}

// getWishlist returns the wishlist product ids
func (h *Handler) getWishlist(c *gin.Context) {
	wishlist := h.session.Snapshot().Wishlist
	if wishlist == nil {
		wishlist = []int64{}
	}
	c.JSON(http.StatusOK, gin.H{"product_ids": wishlist})
}

type toggleWishlistRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

// toggleWishlist flips a product's wishlist membership
func (h *Handler) toggleWishlist(c *gin.Context) {
	var req toggleWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	state, err := h.session.ToggleWishlist(c.Request.Context(), req.ProductID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	wishlist := state.Wishlist
	if wishlist == nil {
		wishlist = []int64{}
	}
	c.JSON(http.StatusOK, gin.H{"product_ids": wishlist})
}

type loginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// login authenticates a user from the fixture roster
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	state, err := h.session.Login(c.Request.Context(), req.Email)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":            state.CurrentUser,
		"wishlist":        state.Wishlist,
		"recommendations": state.Recommendations,
	})
}

// logout clears the session
func (h *Handler) logout(c *gin.Context) {
	h.session.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

type placeOrderRequest struct {
	ShippingAddress models.Address `json:"shipping_address" binding:"required"`
}

// placeOrder checks out the current cart
func (h *Handler) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	order, err := h.session.PlaceOrder(c.Request.Context(), req.ShippingAddress)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// listOrders returns the authenticated user's orders
func (h *Handler) listOrders(c *gin.Context) {
	state := h.session.Snapshot()
	if !state.Authenticated || state.CurrentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	orders := state.OrdersFor(state.CurrentUser.ID)
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// getOrder returns one order by id for tracking
func (h *Handler) getOrder(c *gin.Context) {
	id := c.Param("id")
	for _, order := range h.session.Snapshot().Orders {
		if order.ID == id {
			c.JSON(http.StatusOK, order)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
}

type addReviewRequest struct {
	ProductID int64  `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Title     string `json:"title"`
	Comment   string `json:"comment"`
}

// addReview appends a review by the authenticated user
func (h *Handler) addReview(c *gin.Context) {
	var req addReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	review, err := h.session.AddReview(c.Request.Context(), req.ProductID, req.Rating, req.Title, req.Comment)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// getRecommendations returns the current suggestion list
func (h *Handler) getRecommendations(c *gin.Context) {
	recommendations := h.session.Snapshot().Recommendations
	if recommendations == nil {
		recommendations = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": recommendations})
}

// adminStats returns dashboard totals
func (h *Handler) adminStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Stats())
}

// getDarkMode reads the persisted display preference
func (h *Handler) getDarkMode(c *gin.Context) {
	enabled, err := h.prefs.DarkMode(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read preference", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dark_mode": enabled})
}

type darkModeRequest struct {
	DarkMode bool `json:"dark_mode"`
}

// setDarkMode writes the persisted display preference
func (h *Handler) setDarkMode(c *gin.Context) {
	var req darkModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.prefs.SetDarkMode(c.Request.Context(), req.DarkMode); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write preference", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dark_mode": req.DarkMode})
}

// writeError maps service errors to HTTP statuses
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, service.ErrEmptyCart), errors.Is(err, service.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "details": err.Error()})
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
