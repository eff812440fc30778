package service

import (
	"context"

	"mordheim-tracker/internal/constants"
	"mordheim-tracker/internal/domain"
	"mordheim-tracker/internal/repository"

	"github.com/rs/zerolog"
)

// ResolutionService orchestrates the post-match flow: injury outcomes on
// events (with death propagation) and match-driven gold/experience applied
// through the state-change ledger.
type ResolutionService struct {
	eventRepo   *repository.EventRepository
	warbandRepo *repository.WarbandRepository
	matchRepo   *repository.MatchRepository
	logger      zerolog.Logger
}

func NewResolutionService(eventRepo *repository.EventRepository, warbandRepo *repository.WarbandRepository, matchRepo *repository.MatchRepository, logger zerolog.Logger) *ResolutionService {
	return &ResolutionService{eventRepo: eventRepo, warbandRepo: warbandRepo, matchRepo: matchRepo, logger: logger}
}

func (s *ResolutionService) CreateEvent(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if e.MatchID == "" || e.WarriorID == "" {
		return nil, invalidf("match id and warrior id are required")
	}
	if e.EventType != domain.EventTypeKnockdown && e.EventType != domain.EventTypeMemorableMoment {
		return nil, invalidf("event type %q is invalid", e.EventType)
	}
	return s.eventRepo.Create(ctx, e)
}

// ResolveEvent validates the outcome code and applies the resolution. The
// injury code is checked against the chart before anything is written;
// unknown events surface ErrNotFound from inside the transaction.
func (s *ResolutionService) ResolveEvent(ctx context.Context, eventID string, injuryType domain.InjuryType) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, ok := domain.CategoryOf(injuryType); !ok {
		return nil, invalidf("injury type %q is not on the chart", injuryType)
	}

	resolved, err := s.eventRepo.Resolve(ctx, eventID, injuryType)
	if err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Msg("failed to resolve event")
		return nil, err
	}
	return resolved, nil
}

// RecordMatchGold credits gold won in a match to a warband via the ledger.
func (s *ResolutionService) RecordMatchGold(ctx context.Context, warbandID, matchID string, amount int, description string) (*domain.WarbandStateChange, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if matchID == "" {
		return nil, invalidf("match id is required")
	}
	if description == "" {
		description = "gold from match"
	}
	return s.warbandRepo.ApplyStateChange(ctx, warbandID, &matchID, amount, 0, domain.ChangeTypeMatchGold, description)
}

// RecordMatchExperience credits experience earned in a match to a warband
// via the ledger.
func (s *ResolutionService) RecordMatchExperience(ctx context.Context, warbandID, matchID string, amount int, description string) (*domain.WarbandStateChange, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if matchID == "" {
		return nil, invalidf("match id is required")
	}
	if description == "" {
		description = "experience from match"
	}
	return s.warbandRepo.ApplyStateChange(ctx, warbandID, &matchID, 0, amount, domain.ChangeTypeMatchExperience, description)
}

func (s *ResolutionService) AddCasualty(ctx context.Context, c *domain.Casualty) (*domain.Casualty, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if c.MatchID == "" || c.WarriorID == "" {
		return nil, invalidf("match id and warrior id are required")
	}
	if _, ok := domain.CategoryOf(c.InjuryType); !ok {
		return nil, invalidf("injury type %q is not on the chart", c.InjuryType)
	}
	return s.matchRepo.AddCasualty(ctx, c)
}
