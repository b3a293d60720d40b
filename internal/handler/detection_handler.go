package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/service"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/pkg/response"
)

// DetectionHandler handles HTTP requests for trip detection runs
type DetectionHandler struct {
	service *service.DetectionService
}

// NewDetectionHandler creates a new detection handler
func NewDetectionHandler(service *service.DetectionService) *DetectionHandler {
	return &DetectionHandler{service: service}
}

// Detect handles POST /api/v1/detect
func (h *DetectionHandler) Detect(c *gin.Context) {
	var req service.DetectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	summary, err := h.service.Detect(req)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, summary)
}
