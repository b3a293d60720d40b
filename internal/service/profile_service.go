package service

import (
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/models"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/repository"
)

// ProfileService handles business logic for the user profile
type ProfileService struct {
	repo *repository.ProfileRepository
}

// NewProfileService creates a new profile service
func NewProfileService(repo *repository.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// GetProfile retrieves the user profile
func (s *ProfileService) GetProfile() (*models.UserProfile, error) {
	return s.repo.GetProfile()
}

// SaveProfile upserts the user profile
func (s *ProfileService) SaveProfile(p *models.UserProfile) error {
	return s.repo.SaveProfile(p)
}
