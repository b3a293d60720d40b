package service

import (
	"fmt"

	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/models"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/repository"
)

// SegmentService handles business logic for timeline segments
type SegmentService struct {
	repo *repository.SegmentRepository
}

// NewSegmentService creates a new segment service
func NewSegmentService(repo *repository.SegmentRepository) *SegmentService {
	return &SegmentService{repo: repo}
}

// GetSegments retrieves segments with filtering and pagination
func (s *SegmentService) GetSegments(filter models.SegmentFilter) ([]models.TimelineSegment, int64, error) {
	return s.repo.GetSegments(filter)
}

// ImportSegments validates and inserts a batch of segments
func (s *SegmentService) ImportSegments(segments []models.TimelineSegment) ([]int64, error) {
	for i := range segments {
		seg := &segments[i]

		switch seg.Type {
		case models.SegmentTypeVisit, models.SegmentTypeActivity,
			models.SegmentTypePath, models.SegmentTypeMemory:
		default:
			return nil, fmt.Errorf("segment %d: unknown type %q", i, seg.Type)
		}

		if seg.EndTime.Before(seg.StartTime) {
			return nil, fmt.Errorf("segment %d: end time before start time", i)
		}
	}

	return s.repo.InsertSegments(segments)
}
