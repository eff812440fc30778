package repository

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestWarriorCreateRecomputesRating(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	campaign := seedCampaign(t, db)
	wb := seedWarband(t, db, campaign.ID, "Marienburgers", 0)

	seedWarrior(t, db, wb.ID, "Aldric", 3)

	warbands := NewWarbandRepository(db, zerolog.Nop())
	got, err := warbands.Get(ctx, wb.ID)
	if err != nil {
		t.Fatalf("failed to get warband: %v", err)
	}
	if got.Rating != 8 {
		t.Fatalf("expected rating 8 (5 per warrior + 3 experience), got %d", got.Rating)
	}

	changes, err := warbands.ListStateChanges(ctx, wb.ID)
	if err != nil {
		t.Fatalf("failed to list state changes: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("expected one ledger entry for the roster change, got %d", len(changes))
	}
	if changes[0].RatingDelta != 8 || changes[0].RatingAfter != 8 {
		t.Fatalf("expected rating delta/after of 8/8, got %d/%d", changes[0].RatingDelta, changes[0].RatingAfter)
	}
}

func TestWarriorUpdateShiftsRating(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	campaign := seedCampaign(t, db)
	wb := seedWarband(t, db, campaign.ID, "Marienburgers", 0)
	warrior := seedWarrior(t, db, wb.ID, "Aldric", 3)

	warriors := NewWarriorRepository(db, zerolog.Nop())
	warbands := NewWarbandRepository(db, zerolog.Nop())

	warrior.Experience = 7
	updated, err := warriors.Update(ctx, warrior)
	if err != nil {
		t.Fatalf("failed to update warrior: %v", err)
	}
	if updated.Experience != 7 {
		t.Fatalf("expected experience 7, got %d", updated.Experience)
	}

	got, err := warbands.Get(ctx, wb.ID)
	if err != nil {
		t.Fatalf("failed to get warband: %v", err)
	}
	if got.Rating != 12 {
		t.Fatalf("expected rating 12 after experience gain, got %d", got.Rating)
	}
}

func TestWarriorListRoundTripsEquipment(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	campaign := seedCampaign(t, db)
	wb := seedWarband(t, db, campaign.ID, "Marienburgers", 0)

	warriors := NewWarriorRepository(db, zerolog.Nop())
	warrior := seedWarrior(t, db, wb.ID, "Aldric", 0)
	warrior.Equipment = []string{"sword", "shield"}
	warrior.Skills = []string{"strike to injure"}
	if _, err := warriors.Update(ctx, warrior); err != nil {
		t.Fatalf("failed to update warrior: %v", err)
	}

	list, err := warriors.ListByWarband(ctx, wb.ID)
	if err != nil {
		t.Fatalf("failed to list warriors: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one warrior, got %d", len(list))
	}
	if len(list[0].Equipment) != 2 || list[0].Equipment[0] != "sword" {
		t.Fatalf("unexpected equipment: %v", list[0].Equipment)
	}
	if len(list[0].Skills) != 1 || list[0].Skills[0] != "strike to injure" {
		t.Fatalf("unexpected skills: %v", list[0].Skills)
	}
}
