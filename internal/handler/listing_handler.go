package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/TQS-Project-OLS/backend-sub001/internal/application"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/auth"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/middleware"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/response"
)

// ListingHandler handles HTTP requests for listing operations, including the
// owner's unavailability windows and public listing reviews.
type ListingHandler struct {
	service *application.ListingService
	reviews *application.ReviewService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(service *application.ListingService, reviews *application.ReviewService) *ListingHandler {
	return &ListingHandler{service: service, reviews: reviews}
}

// RegisterRoutes registers all listing routes on the given router group.
func (h *ListingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	listings := r.Group("/api/v1/listings")
	{
		listings.GET("", h.BrowseListings)
		listings.GET("/:id", h.GetListing)
		listings.GET("/:id/reviews", h.GetListingReviews)

		listings.POST("", authMW, middleware.RequireRole(auth.RoleOwner), h.CreateListing)
		listings.GET("/mine", authMW, middleware.RequireRole(auth.RoleOwner), h.GetMyListings)
		listings.PUT("/:id", authMW, middleware.RequireRole(auth.RoleOwner), h.UpdateListing)
		listings.DELETE("/:id", authMW, middleware.RequireRole(auth.RoleOwner), h.ArchiveListing)

		listings.POST("/:id/unavailability", authMW, middleware.RequireRole(auth.RoleOwner), h.AddUnavailability)
		listings.GET("/:id/unavailability", authMW, h.GetUnavailability)
		listings.DELETE("/:id/unavailability/:windowId", authMW, middleware.RequireRole(auth.RoleOwner), h.RemoveUnavailability)
	}
}

// BrowseListings handles GET /api/v1/listings.
func (h *ListingHandler) BrowseListings(c *gin.Context) {
	page, limit := parsePagination(c)
	kind := c.Query("kind")

	result, err := h.service.BrowseListings(c.Request.Context(), kind, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetListing handles GET /api/v1/listings/:id.
func (h *ListingHandler) GetListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing ID")
		return
	}

	result, err := h.service.GetListing(c.Request.Context(), listingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetListingReviews handles GET /api/v1/listings/:id/reviews.
func (h *ListingHandler) GetListingReviews(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing ID")
		return
	}

	page, limit := parsePagination(c)

	result, err := h.reviews.GetListingReviews(c.Request.Context(), listingID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// CreateListing handles POST /api/v1/listings.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateListing(c.Request.Context(), ownerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetMyListings handles GET /api/v1/listings/mine.
func (h *ListingHandler) GetMyListings(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.GetMyListings(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateListing handles PUT /api/v1/listings/:id.
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing ID")
		return
	}

	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateListing(c.Request.Context(), ownerID, listingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ArchiveListing handles DELETE /api/v1/listings/:id.
func (h *ListingHandler) ArchiveListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing ID")
		return
	}

	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.ArchiveListing(c.Request.Context(), ownerID, listingID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// AddUnavailability handles POST /api/v1/listings/:id/unavailability.
func (h *ListingHandler) AddUnavailability(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing ID")
		return
	}

	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.AddUnavailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddUnavailability(c.Request.Context(), ownerID, listingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetUnavailability handles GET /api/v1/listings/:id/unavailability.
func (h *ListingHandler) GetUnavailability(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing ID")
		return
	}

	result, err := h.service.GetUnavailability(c.Request.Context(), listingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RemoveUnavailability handles DELETE /api/v1/listings/:id/unavailability/:windowId.
func (h *ListingHandler) RemoveUnavailability(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing ID")
		return
	}

	windowID, err := uuid.Parse(c.Param("windowId"))
	if err != nil {
		response.BadRequest(c, "invalid window ID")
		return
	}

	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.RemoveUnavailability(c.Request.Context(), ownerID, listingID, windowID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
