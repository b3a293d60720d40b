package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/models"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/service"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/pkg/response"
)

// ProfileHandler handles HTTP requests for the user profile
type ProfileHandler struct {
	service *service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// GetProfile handles GET /api/v1/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.service.GetProfile()
	if err != nil {
		response.InternalError(c, "Failed to get profile")
		return
	}
	if profile == nil {
		response.NotFound(c, "Profile not set")
		return
	}

	response.Success(c, profile)
}

// SaveProfile handles PUT /api/v1/profile
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	var profile models.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.service.SaveProfile(&profile); err != nil {
		response.InternalError(c, "Failed to save profile")
		return
	}

	response.Success(c, profile)
}
