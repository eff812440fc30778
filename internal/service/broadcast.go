package service

import (
	"context"

	"mordheim-tracker/internal/config"
	"mordheim-tracker/internal/constants"
	"mordheim-tracker/internal/domain"
	"mordheim-tracker/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Broadcast bundles everything the auto-rotating display needs in one
// response, so the passive screen issues a single poll per rotation cycle.
// The rotation interval is expressed in milliseconds for the client.
type Broadcast struct {
	Standings          []repository.Standing         `json:"standings"`
	Progression        map[string]*ProgressionSeries `json:"progression"`
	RecentResults      []domain.Match                `json:"recentResults"`
	News               []domain.CustomNewsItem       `json:"news"`
	RotationIntervalMs int64                         `json:"rotationIntervalMs"`
}

type BroadcastService struct {
	matchRepo   *repository.MatchRepository
	warbandRepo *repository.WarbandRepository
	newsRepo    *repository.NewsRepository
	cfg         *config.Config
	logger      zerolog.Logger
}

func NewBroadcastService(matchRepo *repository.MatchRepository, warbandRepo *repository.WarbandRepository, newsRepo *repository.NewsRepository, cfg *config.Config, logger zerolog.Logger) *BroadcastService {
	return &BroadcastService{matchRepo: matchRepo, warbandRepo: warbandRepo, newsRepo: newsRepo, cfg: cfg, logger: logger}
}

// Get assembles the broadcast payload, fetching the four slide data sets
// concurrently. An empty campaign yields empty slices, never nulls.
func (s *BroadcastService) Get(ctx context.Context, campaignID string) (*Broadcast, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	b := &Broadcast{
		Standings:          []repository.Standing{},
		Progression:        map[string]*ProgressionSeries{},
		RecentResults:      []domain.Match{},
		News:               []domain.CustomNewsItem{},
		RotationIntervalMs: s.cfg.DisplayRotation.Milliseconds(),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		standings, err := s.matchRepo.StandingsByCampaign(gCtx, campaignID)
		if err != nil {
			return err
		}
		b.Standings = standings
		return nil
	})
	g.Go(func() error {
		entries, err := s.warbandRepo.ListStateChangesByCampaign(gCtx, campaignID)
		if err != nil {
			return err
		}
		b.Progression = BuildProgression(entries)
		return nil
	})
	g.Go(func() error {
		results, err := s.matchRepo.ListRecentResults(gCtx, campaignID, s.cfg.RecentResultsMax)
		if err != nil {
			return err
		}
		b.RecentResults = results
		return nil
	})
	g.Go(func() error {
		news, err := s.newsRepo.ListByCampaign(gCtx, campaignID, constants.NewsLimit)
		if err != nil {
			return err
		}
		b.News = news
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("campaign_id", campaignID).Msg("failed to assemble broadcast")
		return nil, err
	}
	return b, nil
}
