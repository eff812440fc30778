package repository

import (
	"context"
	"database/sql"
	"testing"

	"mordheim-tracker/internal/database"
	"mordheim-tracker/internal/domain"

	"github.com/rs/zerolog"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.NewMemory(zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedCampaign(t *testing.T, db *sql.DB) *domain.Campaign {
	t.Helper()
	repo := NewCampaignRepository(db, zerolog.Nop())
	c, err := repo.Create(context.Background(), &domain.Campaign{Name: "City of the Damned"})
	if err != nil {
		t.Fatalf("failed to seed campaign: %v", err)
	}
	return c
}

func seedWarband(t *testing.T, db *sql.DB, campaignID, name string, treasury int) *domain.Warband {
	t.Helper()
	repo := NewWarbandRepository(db, zerolog.Nop())
	w, err := repo.Create(context.Background(), &domain.Warband{
		CampaignID: campaignID,
		Name:       name,
		Faction:    "Reiklanders",
		Color:      "#aa2222",
		Icon:       "sword",
		Treasury:   treasury,
	})
	if err != nil {
		t.Fatalf("failed to seed warband: %v", err)
	}
	return w
}

func seedWarrior(t *testing.T, db *sql.DB, warbandID, name string, experience int) *domain.Warrior {
	t.Helper()
	repo := NewWarriorRepository(db, zerolog.Nop())
	w, err := repo.Create(context.Background(), &domain.Warrior{
		WarbandID:  warbandID,
		Name:       name,
		Kind:       domain.WarriorKindHero,
		Experience: experience,
	})
	if err != nil {
		t.Fatalf("failed to seed warrior: %v", err)
	}
	return w
}
