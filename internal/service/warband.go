package service

import (
	"context"
	"strings"

	"mordheim-tracker/internal/constants"
	"mordheim-tracker/internal/domain"
	"mordheim-tracker/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type WarbandService struct {
	warbandRepo *repository.WarbandRepository
	warriorRepo *repository.WarriorRepository
	logger      zerolog.Logger
}

func NewWarbandService(warbandRepo *repository.WarbandRepository, warriorRepo *repository.WarriorRepository, logger zerolog.Logger) *WarbandService {
	return &WarbandService{warbandRepo: warbandRepo, warriorRepo: warriorRepo, logger: logger}
}

// WarbandDetail is a warband with its roster and full ledger history.
type WarbandDetail struct {
	Warband      domain.Warband              `json:"warband"`
	Warriors     []domain.Warrior            `json:"warriors"`
	StateChanges []domain.WarbandStateChange `json:"stateChanges"`
}

func (s *WarbandService) Create(ctx context.Context, w *domain.Warband) (*domain.Warband, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if strings.TrimSpace(w.Name) == "" {
		return nil, invalidf("warband name is required")
	}
	if w.CampaignID == "" {
		return nil, invalidf("campaign id is required")
	}

	created, err := s.warbandRepo.Create(ctx, w)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create warband")
		return nil, err
	}

	s.logger.Info().Str("warband_id", created.ID).Str("name", created.Name).Msg("warband created")
	return created, nil
}

func (s *WarbandService) Get(ctx context.Context, id string) (*domain.Warband, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.warbandRepo.Get(ctx, id)
}

// GetDetail loads the warband, its roster, and its ledger concurrently.
func (s *WarbandService) GetDetail(ctx context.Context, id string) (*WarbandDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	detail := &WarbandDetail{}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w, err := s.warbandRepo.Get(gCtx, id)
		if err != nil {
			return err
		}
		detail.Warband = *w
		return nil
	})
	g.Go(func() error {
		warriors, err := s.warriorRepo.ListByWarband(gCtx, id)
		if err != nil {
			return err
		}
		detail.Warriors = warriors
		return nil
	})
	g.Go(func() error {
		changes, err := s.warbandRepo.ListStateChanges(gCtx, id)
		if err != nil {
			return err
		}
		detail.StateChanges = changes
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *WarbandService) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Warband, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.warbandRepo.ListByCampaign(ctx, campaignID)
}

func (s *WarbandService) Update(ctx context.Context, w *domain.Warband) (*domain.Warband, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if strings.TrimSpace(w.Name) == "" {
		return nil, invalidf("warband name is required")
	}
	return s.warbandRepo.Update(ctx, w)
}

func (s *WarbandService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.warbandRepo.Delete(ctx, id)
}

// AdjustTreasury applies a manual treasury delta through the ledger.
func (s *WarbandService) AdjustTreasury(ctx context.Context, warbandID string, amount int, description string) (*domain.WarbandStateChange, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if description == "" {
		description = "manual treasury adjustment"
	}
	return s.warbandRepo.ApplyStateChange(ctx, warbandID, nil, amount, 0, domain.ChangeTypeManualAdjustment, description)
}

// AdjustExperience applies a manual experience delta through the ledger.
func (s *WarbandService) AdjustExperience(ctx context.Context, warbandID string, amount int, description string) (*domain.WarbandStateChange, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if description == "" {
		description = "manual experience adjustment"
	}
	return s.warbandRepo.ApplyStateChange(ctx, warbandID, nil, 0, amount, domain.ChangeTypeManualAdjustment, description)
}

func (s *WarbandService) CreateWarrior(ctx context.Context, w *domain.Warrior) (*domain.Warrior, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if strings.TrimSpace(w.Name) == "" {
		return nil, invalidf("warrior name is required")
	}
	if w.WarbandID == "" {
		return nil, invalidf("warband id is required")
	}
	if w.Kind != domain.WarriorKindHero && w.Kind != domain.WarriorKindHenchman {
		return nil, invalidf("warrior kind %q is invalid", w.Kind)
	}
	return s.warriorRepo.Create(ctx, w)
}

func (s *WarbandService) GetWarrior(ctx context.Context, id string) (*domain.Warrior, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.warriorRepo.Get(ctx, id)
}

func (s *WarbandService) UpdateWarrior(ctx context.Context, w *domain.Warrior) (*domain.Warrior, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if strings.TrimSpace(w.Name) == "" {
		return nil, invalidf("warrior name is required")
	}
	if w.Kind != domain.WarriorKindHero && w.Kind != domain.WarriorKindHenchman {
		return nil, invalidf("warrior kind %q is invalid", w.Kind)
	}
	return s.warriorRepo.Update(ctx, w)
}
