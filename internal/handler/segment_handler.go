package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/models"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/service"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/pkg/response"
)

// SegmentHandler handles HTTP requests for timeline segments
type SegmentHandler struct {
	service *service.SegmentService
}

// NewSegmentHandler creates a new segment handler
func NewSegmentHandler(service *service.SegmentService) *SegmentHandler {
	return &SegmentHandler{service: service}
}

// GetSegments handles GET /api/v1/segments
func (h *SegmentHandler) GetSegments(c *gin.Context) {
	var filter models.SegmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	segments, total, err := h.service.GetSegments(filter)
	if err != nil {
		response.InternalError(c, "Failed to get segments")
		return
	}

	response.Success(c, gin.H{
		"data":  segments,
		"total": total,
	})
}

// ImportSegments handles POST /api/v1/segments
func (h *SegmentHandler) ImportSegments(c *gin.Context) {
	var segments []models.TimelineSegment
	if err := c.ShouldBindJSON(&segments); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if len(segments) == 0 {
		response.BadRequest(c, "No segments provided")
		return
	}

	ids, err := h.service.ImportSegments(segments)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"imported": len(ids),
		"ids":      ids,
	})
}
