package service

import (
	"context"
	"time"

	"mordheim-tracker/internal/constants"
	"mordheim-tracker/internal/repository"

	"github.com/rs/zerolog"
)

// ProgressionPoint is one chart sample: the warband's counters as they
// stood immediately after a ledger entry. Values come straight from the
// entry's *After snapshots; no delta replay is ever needed.
type ProgressionPoint struct {
	Timestamp  time.Time `json:"timestamp"`
	Treasury   int       `json:"treasury"`
	Experience int       `json:"experience"`
	Rating     int       `json:"rating"`
}

// ProgressionSeries groups one warband's points with the display metadata
// the charts need.
type ProgressionSeries struct {
	WarbandID string             `json:"warbandId"`
	Name      string             `json:"name"`
	Color     string             `json:"color"`
	Icon      string             `json:"icon"`
	Points    []ProgressionPoint `json:"points"`
}

// BuildProgression reshapes a campaign's flat, timestamp-ordered ledger
// into one series per warband. It is a pure function: the same input always
// yields the same output, and an empty ledger yields an empty map so
// callers can render an explicit empty state.
func BuildProgression(entries []repository.StateChangeWithWarband) map[string]*ProgressionSeries {
	series := map[string]*ProgressionSeries{}
	for _, e := range entries {
		s, ok := series[e.Change.WarbandID]
		if !ok {
			s = &ProgressionSeries{
				WarbandID: e.Change.WarbandID,
				Name:      e.WarbandName,
				Color:     e.WarbandColor,
				Icon:      e.WarbandIcon,
				Points:    []ProgressionPoint{},
			}
			series[e.Change.WarbandID] = s
		}
		s.Points = append(s.Points, ProgressionPoint{
			Timestamp:  e.Change.CreatedAt,
			Treasury:   e.Change.TreasuryAfter,
			Experience: e.Change.ExperienceAfter,
			Rating:     e.Change.RatingAfter,
		})
	}
	return series
}

type ProgressionService struct {
	warbandRepo *repository.WarbandRepository
	logger      zerolog.Logger
}

func NewProgressionService(warbandRepo *repository.WarbandRepository, logger zerolog.Logger) *ProgressionService {
	return &ProgressionService{warbandRepo: warbandRepo, logger: logger}
}

func (s *ProgressionService) ByCampaign(ctx context.Context, campaignID string) (map[string]*ProgressionSeries, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	entries, err := s.warbandRepo.ListStateChangesByCampaign(ctx, campaignID)
	if err != nil {
		s.logger.Error().Err(err).Str("campaign_id", campaignID).Msg("failed to load ledger")
		return nil, err
	}
	return BuildProgression(entries), nil
}
