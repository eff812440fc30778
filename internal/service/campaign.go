package service

import (
	"context"
	"strings"

	"mordheim-tracker/internal/constants"
	"mordheim-tracker/internal/domain"
	"mordheim-tracker/internal/repository"

	"github.com/rs/zerolog"
)

type CampaignService struct {
	repo   *repository.CampaignRepository
	logger zerolog.Logger
}

func NewCampaignService(repo *repository.CampaignRepository, logger zerolog.Logger) *CampaignService {
	return &CampaignService{repo: repo, logger: logger}
}

func (s *CampaignService) Create(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if strings.TrimSpace(c.Name) == "" {
		return nil, invalidf("campaign name is required")
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create campaign")
		return nil, err
	}

	s.logger.Info().Str("campaign_id", created.ID).Str("name", created.Name).Msg("campaign created")
	return created, nil
}

func (s *CampaignService) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.Get(ctx, id)
}

func (s *CampaignService) List(ctx context.Context) ([]domain.Campaign, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.List(ctx)
}

func (s *CampaignService) Update(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if strings.TrimSpace(c.Name) == "" {
		return nil, invalidf("campaign name is required")
	}
	return s.repo.Update(ctx, c)
}
