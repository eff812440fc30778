package service

import (
	"context"
	"errors"
	"testing"

	"mordheim-tracker/internal/database"
	"mordheim-tracker/internal/domain"
	"mordheim-tracker/internal/repository"

	"github.com/rs/zerolog"
)

func newMatchService(t *testing.T) (*MatchService, *repository.WarbandRepository, *domain.Campaign) {
	t.Helper()
	db, err := database.NewMemory(zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	nop := zerolog.Nop()
	campaigns := repository.NewCampaignRepository(db, nop)
	warbands := repository.NewWarbandRepository(db, nop)
	matches := repository.NewMatchRepository(db, nop)
	events := repository.NewEventRepository(db, nop)

	campaign, err := campaigns.Create(context.Background(), &domain.Campaign{Name: "Winter Campaign"})
	if err != nil {
		t.Fatalf("failed to create campaign: %v", err)
	}
	return NewMatchService(matches, events, nop), warbands, campaign
}

func TestMatchCreateRejectsBadStructure(t *testing.T) {
	svc, warbands, campaign := newMatchService(t)
	ctx := context.Background()

	a, err := warbands.Create(ctx, &domain.Warband{CampaignID: campaign.ID, Name: "Averlanders"})
	if err != nil {
		t.Fatalf("failed to create warband: %v", err)
	}
	b, err := warbands.Create(ctx, &domain.Warband{CampaignID: campaign.ID, Name: "Ostlanders"})
	if err != nil {
		t.Fatalf("failed to create warband: %v", err)
	}

	cases := []struct {
		name   string
		params repository.CreateMatchParams
	}{
		{
			name: "unknown match type",
			params: repository.CreateMatchParams{
				Match:      domain.Match{CampaignID: campaign.ID, MatchType: "duel"},
				WarbandIDs: []string{a.ID, b.ID},
			},
		},
		{
			name: "single participant",
			params: repository.CreateMatchParams{
				Match:      domain.Match{CampaignID: campaign.ID, MatchType: domain.MatchTypeSkirmish},
				WarbandIDs: []string{a.ID},
			},
		},
		{
			name: "teams on a skirmish",
			params: repository.CreateMatchParams{
				Match:      domain.Match{CampaignID: campaign.ID, MatchType: domain.MatchTypeSkirmish},
				WarbandIDs: []string{a.ID, b.ID},
				Teams:      []domain.Team{{Name: "North", WarbandIDs: []string{a.ID}}},
			},
		},
		{
			name: "placements on a team match",
			params: repository.CreateMatchParams{
				Match:      domain.Match{CampaignID: campaign.ID, MatchType: domain.MatchTypeTeam},
				WarbandIDs: []string{a.ID, b.ID},
				Placements: []domain.Placement{{WarbandID: a.ID, Position: 1}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.params); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestMatchCreateValidSkirmish(t *testing.T) {
	svc, warbands, campaign := newMatchService(t)
	ctx := context.Background()

	a, err := warbands.Create(ctx, &domain.Warband{CampaignID: campaign.ID, Name: "Averlanders"})
	if err != nil {
		t.Fatalf("failed to create warband: %v", err)
	}
	b, err := warbands.Create(ctx, &domain.Warband{CampaignID: campaign.ID, Name: "Ostlanders"})
	if err != nil {
		t.Fatalf("failed to create warband: %v", err)
	}

	match, err := svc.Create(ctx, repository.CreateMatchParams{
		Match:      domain.Match{CampaignID: campaign.ID, MatchType: domain.MatchTypeSkirmish},
		WarbandIDs: []string{a.ID, b.ID},
	})
	if err != nil {
		t.Fatalf("failed to create match: %v", err)
	}
	if match.ID == "" || match.Status != domain.MatchStatusScheduled {
		t.Fatalf("unexpected match: %+v", match)
	}

	detail, err := svc.GetDetail(ctx, match.ID)
	if err != nil {
		t.Fatalf("failed to load match detail: %v", err)
	}
	if len(detail.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(detail.Participants))
	}
	if detail.Events == nil || detail.Casualties == nil {
		t.Fatal("expected empty collections, not nil")
	}
}

func TestMatchUpdateRejectsBadStatus(t *testing.T) {
	svc, _, campaign := newMatchService(t)

	_, err := svc.Update(context.Background(), &domain.Match{
		ID:         "whatever",
		CampaignID: campaign.ID,
		Status:     "abandoned",
	})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
