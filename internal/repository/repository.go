package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mordheim-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrNotFound is returned by any lookup whose target row does not exist.
var ErrNotFound = errors.New("not found")

func newID() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate nanoid: %w", err)
	}
	return id, nil
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	return items, nil
}

// warbandCounters is the mutable slice of a warband row the ledger guards.
type warbandCounters struct {
	Treasury   int
	Experience int
	Rating     int
}

type stateChangeParams struct {
	WarbandID       string
	MatchID         *string
	TreasuryDelta   int
	ExperienceDelta int
	ChangeType      domain.ChangeType
	Description     string
}

// applyStateChangeTx is the single write path for warband treasury,
// experience, and rating. Inside the caller's transaction it reads the
// current counters, applies the deltas, recomputes the rating from the
// living roster, updates the warband row, and appends one ledger entry
// carrying the deltas and the resulting values. Read, update, and append
// all happen in the same transaction, so the ledger's *After columns can
// never drift from the stored row.
func applyStateChangeTx(ctx context.Context, tx *sql.Tx, p stateChangeParams, now time.Time) (*domain.WarbandStateChange, error) {
	var cur warbandCounters
	err := tx.QueryRowContext(ctx,
		`SELECT treasury, experience, rating FROM warbands WHERE id = ?`,
		p.WarbandID,
	).Scan(&cur.Treasury, &cur.Experience, &cur.Rating)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("warband %s: %w", p.WarbandID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read warband counters: %w", err)
	}

	next := warbandCounters{
		Treasury:   cur.Treasury + p.TreasuryDelta,
		Experience: cur.Experience + p.ExperienceDelta,
	}

	var count, totalExp int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(experience), 0) FROM warriors WHERE warband_id = ? AND is_alive`,
		p.WarbandID,
	).Scan(&count, &totalExp)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	next.Rating = domain.RatingFor(count, totalExp)

	ratingDelta := next.Rating - cur.Rating
	if p.TreasuryDelta == 0 && p.ExperienceDelta == 0 && ratingDelta == 0 {
		return nil, nil
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE warbands SET treasury = ?, experience = ?, rating = ?, updated_at = ? WHERE id = ?`,
		next.Treasury, next.Experience, next.Rating, now, p.WarbandID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update warband counters: %w", err)
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	entry := &domain.WarbandStateChange{
		ID:              id,
		WarbandID:       p.WarbandID,
		MatchID:         p.MatchID,
		TreasuryDelta:   p.TreasuryDelta,
		ExperienceDelta: p.ExperienceDelta,
		RatingDelta:     ratingDelta,
		TreasuryAfter:   next.Treasury,
		ExperienceAfter: next.Experience,
		RatingAfter:     next.Rating,
		ChangeType:      p.ChangeType,
		Description:     p.Description,
		CreatedAt:       now,
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO warband_state_changes
			(id, warband_id, match_id, treasury_delta, experience_delta, rating_delta,
			 treasury_after, experience_after, rating_after, change_type, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.WarbandID, nullString(entry.MatchID),
		entry.TreasuryDelta, entry.ExperienceDelta, entry.RatingDelta,
		entry.TreasuryAfter, entry.ExperienceAfter, entry.RatingAfter,
		string(entry.ChangeType), entry.Description, entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append state change: %w", err)
	}

	return entry, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
