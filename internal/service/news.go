package service

import (
	"context"
	"strings"

	"mordheim-tracker/internal/constants"
	"mordheim-tracker/internal/domain"
	"mordheim-tracker/internal/repository"

	"github.com/rs/zerolog"
)

type NewsService struct {
	repo   *repository.NewsRepository
	logger zerolog.Logger
}

func NewNewsService(repo *repository.NewsRepository, logger zerolog.Logger) *NewsService {
	return &NewsService{repo: repo, logger: logger}
}

func (s *NewsService) Create(ctx context.Context, n *domain.CustomNewsItem) (*domain.CustomNewsItem, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if n.CampaignID == "" {
		return nil, invalidf("campaign id is required")
	}
	if strings.TrimSpace(n.Title) == "" {
		return nil, invalidf("news title is required")
	}
	return s.repo.Create(ctx, n)
}

func (s *NewsService) ListByCampaign(ctx context.Context, campaignID string) ([]domain.CustomNewsItem, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.ListByCampaign(ctx, campaignID, constants.NewsLimit)
}

func (s *NewsService) Update(ctx context.Context, n *domain.CustomNewsItem) (*domain.CustomNewsItem, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if strings.TrimSpace(n.Title) == "" {
		return nil, invalidf("news title is required")
	}
	return s.repo.Update(ctx, n)
}

func (s *NewsService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.Delete(ctx, id)
}
