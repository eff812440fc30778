package service

import (
	"context"

	"mordheim-tracker/internal/constants"
	"mordheim-tracker/internal/domain"
	"mordheim-tracker/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type MatchService struct {
	matchRepo *repository.MatchRepository
	eventRepo *repository.EventRepository
	logger    zerolog.Logger
}

func NewMatchService(matchRepo *repository.MatchRepository, eventRepo *repository.EventRepository, logger zerolog.Logger) *MatchService {
	return &MatchService{matchRepo: matchRepo, eventRepo: eventRepo, logger: logger}
}

func validMatchType(t domain.MatchType) bool {
	switch t {
	case domain.MatchTypeSkirmish, domain.MatchTypeTeam, domain.MatchTypeBattleRoyale:
		return true
	}
	return false
}

func validMatchStatus(s domain.MatchStatus) bool {
	switch s {
	case domain.MatchStatusScheduled, domain.MatchStatusActive, domain.MatchStatusEnded:
		return true
	}
	return false
}

// Create validates the participant structure against the match type before
// writing: teams belong to team matches, placements to battle royales.
func (s *MatchService) Create(ctx context.Context, p repository.CreateMatchParams) (*domain.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if p.Match.CampaignID == "" {
		return nil, invalidf("campaign id is required")
	}
	if !validMatchType(p.Match.MatchType) {
		return nil, invalidf("match type %q is invalid", p.Match.MatchType)
	}
	if len(p.WarbandIDs) < 2 {
		return nil, invalidf("a match needs at least two participants")
	}
	if len(p.Teams) > 0 && p.Match.MatchType != domain.MatchTypeTeam {
		return nil, invalidf("teams are only valid for team matches")
	}
	if len(p.Placements) > 0 && p.Match.MatchType != domain.MatchTypeBattleRoyale {
		return nil, invalidf("placements are only valid for battle royale matches")
	}

	created, err := s.matchRepo.Create(ctx, p)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create match")
		return nil, err
	}

	s.logger.Info().
		Str("match_id", created.ID).
		Str("match_type", string(created.MatchType)).
		Int("participants", len(p.WarbandIDs)).
		Msg("match created")
	return created, nil
}

func (s *MatchService) Get(ctx context.Context, id string) (*domain.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.matchRepo.Get(ctx, id)
}

// GetDetail loads the match and all its child collections concurrently.
func (s *MatchService) GetDetail(ctx context.Context, id string) (*repository.MatchDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	match, err := s.matchRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &repository.MatchDetail{Match: *match}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail.Participants, err = s.matchRepo.ListParticipants(gCtx, id)
		return err
	})
	g.Go(func() error {
		var err error
		detail.Teams, err = s.matchRepo.ListTeams(gCtx, id)
		return err
	})
	g.Go(func() error {
		var err error
		detail.Placements, err = s.matchRepo.ListPlacements(gCtx, id)
		return err
	})
	g.Go(func() error {
		var err error
		detail.Events, err = s.eventRepo.ListByMatch(gCtx, id)
		return err
	})
	g.Go(func() error {
		var err error
		detail.Casualties, err = s.matchRepo.ListCasualties(gCtx, id)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *MatchService) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.matchRepo.ListByCampaign(ctx, campaignID)
}

func (s *MatchService) Update(ctx context.Context, m *domain.Match) (*domain.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if !validMatchStatus(m.Status) {
		return nil, invalidf("match status %q is invalid", m.Status)
	}
	return s.matchRepo.Update(ctx, m)
}

func (s *MatchService) Standings(ctx context.Context, campaignID string) ([]repository.Standing, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.matchRepo.StandingsByCampaign(ctx, campaignID)
}
