package service

import (
	"context"
	"testing"
	"time"

	"mordheim-tracker/internal/config"
	"mordheim-tracker/internal/database"
	"mordheim-tracker/internal/domain"
	"mordheim-tracker/internal/repository"

	"github.com/rs/zerolog"
)

func TestBroadcastEmptyCampaign(t *testing.T) {
	db, err := database.NewMemory(zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	nop := zerolog.Nop()
	campaigns := repository.NewCampaignRepository(db, nop)
	matches := repository.NewMatchRepository(db, nop)
	warbands := repository.NewWarbandRepository(db, nop)
	news := repository.NewNewsRepository(db, nop)

	campaign, err := campaigns.Create(context.Background(), &domain.Campaign{Name: "Fresh Campaign"})
	if err != nil {
		t.Fatalf("failed to create campaign: %v", err)
	}

	cfg := &config.Config{DisplayRotation: 15 * time.Second, RecentResultsMax: 10}
	svc := NewBroadcastService(matches, warbands, news, cfg, nop)

	b, err := svc.Get(context.Background(), campaign.ID)
	if err != nil {
		t.Fatalf("failed to assemble broadcast: %v", err)
	}
	if b.Standings == nil || b.Progression == nil || b.RecentResults == nil || b.News == nil {
		t.Fatal("expected empty collections, not nil")
	}
	if len(b.Standings) != 0 || len(b.RecentResults) != 0 || len(b.News) != 0 {
		t.Fatalf("expected an empty broadcast for a fresh campaign, got %+v", b)
	}
	if b.RotationIntervalMs != 15000 {
		t.Fatalf("expected rotation interval of 15000ms, got %d", b.RotationIntervalMs)
	}
}
