package repository

import (
	"context"
	"errors"
	"testing"

	"mordheim-tracker/internal/domain"

	"github.com/rs/zerolog"
)

func TestApplyStateChangeRunningTotal(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	campaign := seedCampaign(t, db)
	wb := seedWarband(t, db, campaign.ID, "Reikland Marauders", 100)

	repo := NewWarbandRepository(db, zerolog.Nop())

	first, err := repo.ApplyStateChange(ctx, wb.ID, nil, 50, 0, domain.ChangeTypeManualAdjustment, "looted the ruins")
	if err != nil {
		t.Fatalf("first state change failed: %v", err)
	}
	if first.TreasuryAfter != 150 {
		t.Fatalf("expected treasury after first change to be 150, got %d", first.TreasuryAfter)
	}

	second, err := repo.ApplyStateChange(ctx, wb.ID, nil, 20, 0, domain.ChangeTypeManualAdjustment, "sold wyrdstone")
	if err != nil {
		t.Fatalf("second state change failed: %v", err)
	}
	if second.TreasuryAfter != 170 {
		t.Fatalf("expected treasury after second change to be 170, got %d", second.TreasuryAfter)
	}

	changes, err := repo.ListStateChanges(ctx, wb.ID)
	if err != nil {
		t.Fatalf("failed to list state changes: %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(changes))
	}

	prev := 100
	for i, c := range changes {
		if c.TreasuryAfter != prev+c.TreasuryDelta {
			t.Fatalf("entry %d breaks the running total: %d + %d != %d", i, prev, c.TreasuryDelta, c.TreasuryAfter)
		}
		prev = c.TreasuryAfter
	}

	got, err := repo.Get(ctx, wb.ID)
	if err != nil {
		t.Fatalf("failed to get warband: %v", err)
	}
	if got.Treasury != 170 {
		t.Fatalf("expected warband treasury 170, got %d", got.Treasury)
	}
}

func TestApplyStateChangeZeroDeltaIsNoop(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	campaign := seedCampaign(t, db)
	wb := seedWarband(t, db, campaign.ID, "Skaven of Clan Eshin", 0)

	repo := NewWarbandRepository(db, zerolog.Nop())

	entry, err := repo.ApplyStateChange(ctx, wb.ID, nil, 0, 0, domain.ChangeTypeManualAdjustment, "nothing happened")
	if err != nil {
		t.Fatalf("zero-delta change failed: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected no ledger entry for a zero delta, got %+v", entry)
	}

	changes, err := repo.ListStateChanges(ctx, wb.ID)
	if err != nil {
		t.Fatalf("failed to list state changes: %v", err)
	}
	if len(changes) != 0 {
		t.Fatalf("expected empty ledger, got %d entries", len(changes))
	}
}

func TestApplyStateChangeUnknownWarband(t *testing.T) {
	db := newTestDB(t)
	repo := NewWarbandRepository(db, zerolog.Nop())

	_, err := repo.ApplyStateChange(context.Background(), "missing", nil, 10, 0, domain.ChangeTypeManualAdjustment, "ghost gold")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWarbandUpdateLeavesCountersAlone(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	campaign := seedCampaign(t, db)
	wb := seedWarband(t, db, campaign.ID, "Middenheimers", 75)

	repo := NewWarbandRepository(db, zerolog.Nop())

	wb.Name = "Middenheim Wolves"
	wb.Treasury = 9999 // must be ignored; only the ledger moves counters
	updated, err := repo.Update(ctx, wb)
	if err != nil {
		t.Fatalf("failed to update warband: %v", err)
	}
	if updated.Name != "Middenheim Wolves" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}
	if updated.Treasury != 75 {
		t.Fatalf("expected treasury untouched at 75, got %d", updated.Treasury)
	}
}

func TestWarbandDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	campaign := seedCampaign(t, db)
	wb := seedWarband(t, db, campaign.ID, "Possessed", 40)
	other := seedWarband(t, db, campaign.ID, "Witch Hunters", 40)
	warrior := seedWarrior(t, db, wb.ID, "Gorthor", 4)

	warbands := NewWarbandRepository(db, zerolog.Nop())
	warriors := NewWarriorRepository(db, zerolog.Nop())
	matches := NewMatchRepository(db, zerolog.Nop())

	match, err := matches.Create(ctx, CreateMatchParams{
		Match: domain.Match{
			CampaignID: campaign.ID,
			MatchType:  domain.MatchTypeSkirmish,
		},
		WarbandIDs: []string{wb.ID, other.ID},
	})
	if err != nil {
		t.Fatalf("failed to create match: %v", err)
	}

	if _, err := warbands.ApplyStateChange(ctx, wb.ID, nil, 30, 0, domain.ChangeTypeMatchGold, "spoils"); err != nil {
		t.Fatalf("failed to apply state change: %v", err)
	}

	if err := warbands.Delete(ctx, wb.ID); err != nil {
		t.Fatalf("failed to delete warband: %v", err)
	}

	if _, err := warbands.Get(ctx, wb.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected warband gone, got %v", err)
	}
	if _, err := warriors.Get(ctx, warrior.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected warrior gone, got %v", err)
	}

	changes, err := warbands.ListStateChanges(ctx, wb.ID)
	if err != nil {
		t.Fatalf("failed to list state changes: %v", err)
	}
	if len(changes) != 0 {
		t.Fatalf("expected ledger purged, got %d entries", len(changes))
	}

	participants, err := matches.ListParticipants(ctx, match.ID)
	if err != nil {
		t.Fatalf("failed to list participants: %v", err)
	}
	if len(participants) != 1 || participants[0].ID != other.ID {
		t.Fatalf("expected only the surviving warband to remain a participant, got %d", len(participants))
	}

	if err := warbands.Delete(ctx, wb.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected second delete to report ErrNotFound, got %v", err)
	}
}
