package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mordheim-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type WarbandRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewWarbandRepository(sqlDB *sql.DB, logger zerolog.Logger) *WarbandRepository {
	return &WarbandRepository{db: sqlDB, logger: logger}
}

func (r *WarbandRepository) Create(ctx context.Context, w *domain.Warband) (*domain.Warband, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	w.ID = id
	w.Rating = 0
	w.CreatedAt = now
	w.UpdatedAt = now

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO warbands
			(id, campaign_id, name, faction, color, icon, treasury, experience, rating, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.CampaignID, w.Name, w.Faction, w.Color, w.Icon,
		w.Treasury, w.Experience, w.Rating, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert warband: %w", err)
	}
	return w, nil
}

func (r *WarbandRepository) Get(ctx context.Context, id string) (*domain.Warband, error) {
	var w domain.Warband
	err := r.db.QueryRowContext(ctx,
		`SELECT id, campaign_id, name, faction, color, icon, treasury, experience, rating, created_at, updated_at
		 FROM warbands WHERE id = ?`,
		id,
	).Scan(&w.ID, &w.CampaignID, &w.Name, &w.Faction, &w.Color, &w.Icon,
		&w.Treasury, &w.Experience, &w.Rating, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("warband %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get warband: %w", err)
	}
	return &w, nil
}

func (r *WarbandRepository) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Warband, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, campaign_id, name, faction, color, icon, treasury, experience, rating, created_at, updated_at
		 FROM warbands WHERE campaign_id = ? ORDER BY rating DESC, name`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list warbands: %w", err)
	}
	defer rows.Close()

	warbands := []domain.Warband{}
	for rows.Next() {
		var w domain.Warband
		if err := rows.Scan(&w.ID, &w.CampaignID, &w.Name, &w.Faction, &w.Color, &w.Icon,
			&w.Treasury, &w.Experience, &w.Rating, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan warband: %w", err)
		}
		warbands = append(warbands, w)
	}
	return warbands, rows.Err()
}

// Update changes display fields only. Treasury, experience, and rating are
// owned by the state-change ledger; no other write path may touch them.
func (r *WarbandRepository) Update(ctx context.Context, w *domain.Warband) (*domain.Warband, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE warbands SET name = ?, faction = ?, color = ?, icon = ?, updated_at = ? WHERE id = ?`,
		w.Name, w.Faction, w.Color, w.Icon, time.Now(), w.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update warband: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("warband %s: %w", w.ID, ErrNotFound)
	}
	return r.Get(ctx, w.ID)
}

// ApplyStateChange applies signed treasury/experience deltas to a warband
// and appends the matching ledger entry, atomically. A zero-delta call is a
// no-op and returns nil without writing.
func (r *WarbandRepository) ApplyStateChange(ctx context.Context, warbandID string, matchID *string, treasuryDelta, experienceDelta int, changeType domain.ChangeType, description string) (*domain.WarbandStateChange, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	entry, err := applyStateChangeTx(ctx, tx, stateChangeParams{
		WarbandID:       warbandID,
		MatchID:         matchID,
		TreasuryDelta:   treasuryDelta,
		ExperienceDelta: experienceDelta,
		ChangeType:      changeType,
		Description:     description,
	}, time.Now())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit state change: %w", err)
	}

	if entry != nil {
		r.logger.Info().
			Str("warband_id", warbandID).
			Int("treasury_delta", treasuryDelta).
			Int("experience_delta", experienceDelta).
			Str("change_type", string(changeType)).
			Msg("state change applied")
	}
	return entry, nil
}

// Delete removes a warband and everything that references it, in one
// transaction: warriors, state changes, participant rows, team memberships,
// placements, and casualties involving the warband's warriors.
func (r *WarbandRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM warbands WHERE id = ?`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check warband: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("warband %s: %w", id, ErrNotFound)
	}

	statements := []struct {
		query string
		args  []any
	}{
		{`DELETE FROM casualties WHERE warrior_id IN (SELECT id FROM warriors WHERE warband_id = ?)
			OR killer_id IN (SELECT id FROM warriors WHERE warband_id = ?)`, []any{id, id}},
		{`DELETE FROM events WHERE warrior_id IN (SELECT id FROM warriors WHERE warband_id = ?)
			OR defender_id IN (SELECT id FROM warriors WHERE warband_id = ?)`, []any{id, id}},
		{`DELETE FROM warriors WHERE warband_id = ?`, []any{id}},
		{`DELETE FROM warband_state_changes WHERE warband_id = ?`, []any{id}},
		{`DELETE FROM match_participants WHERE warband_id = ?`, []any{id}},
		{`DELETE FROM team_members WHERE warband_id = ?`, []any{id}},
		{`DELETE FROM placements WHERE warband_id = ?`, []any{id}},
		{`UPDATE matches SET winner_id = NULL WHERE winner_id = ?`, []any{id}},
		{`DELETE FROM warbands WHERE id = ?`, []any{id}},
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			return fmt.Errorf("failed to cascade warband delete: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit warband delete: %w", err)
	}

	r.logger.Info().Str("warband_id", id).Msg("warband deleted with dependents")
	return nil
}

// ListStateChanges returns the warband's ledger, oldest first.
func (r *WarbandRepository) ListStateChanges(ctx context.Context, warbandID string) ([]domain.WarbandStateChange, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, warband_id, match_id, treasury_delta, experience_delta, rating_delta,
				treasury_after, experience_after, rating_after, change_type, description, created_at
		 FROM warband_state_changes WHERE warband_id = ? ORDER BY created_at, id`,
		warbandID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list state changes: %w", err)
	}
	defer rows.Close()
	return scanStateChanges(rows)
}

// StateChangeWithWarband annotates a ledger row with the display metadata
// the progression charts need.
type StateChangeWithWarband struct {
	Change       domain.WarbandStateChange `json:"change"`
	WarbandName  string                    `json:"warbandName"`
	WarbandColor string                    `json:"warbandColor"`
	WarbandIcon  string                    `json:"warbandIcon"`
}

// ListStateChangesByCampaign returns the joined ledger for every warband in
// a campaign, ascending by timestamp.
func (r *WarbandRepository) ListStateChangesByCampaign(ctx context.Context, campaignID string) ([]StateChangeWithWarband, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT sc.id, sc.warband_id, sc.match_id, sc.treasury_delta, sc.experience_delta, sc.rating_delta,
				sc.treasury_after, sc.experience_after, sc.rating_after, sc.change_type, sc.description, sc.created_at,
				w.name, w.color, w.icon
		 FROM warband_state_changes sc
		 JOIN warbands w ON w.id = sc.warband_id
		 WHERE w.campaign_id = ?
		 ORDER BY sc.created_at, sc.id`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaign state changes: %w", err)
	}
	defer rows.Close()

	entries := []StateChangeWithWarband{}
	for rows.Next() {
		var e StateChangeWithWarband
		var matchID sql.NullString
		var changeType string
		if err := rows.Scan(&e.Change.ID, &e.Change.WarbandID, &matchID,
			&e.Change.TreasuryDelta, &e.Change.ExperienceDelta, &e.Change.RatingDelta,
			&e.Change.TreasuryAfter, &e.Change.ExperienceAfter, &e.Change.RatingAfter,
			&changeType, &e.Change.Description, &e.Change.CreatedAt,
			&e.WarbandName, &e.WarbandColor, &e.WarbandIcon); err != nil {
			return nil, fmt.Errorf("failed to scan state change: %w", err)
		}
		e.Change.MatchID = stringPtr(matchID)
		e.Change.ChangeType = domain.ChangeType(changeType)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanStateChanges(rows *sql.Rows) ([]domain.WarbandStateChange, error) {
	changes := []domain.WarbandStateChange{}
	for rows.Next() {
		var c domain.WarbandStateChange
		var matchID sql.NullString
		var changeType string
		if err := rows.Scan(&c.ID, &c.WarbandID, &matchID,
			&c.TreasuryDelta, &c.ExperienceDelta, &c.RatingDelta,
			&c.TreasuryAfter, &c.ExperienceAfter, &c.RatingAfter,
			&changeType, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan state change: %w", err)
		}
		c.MatchID = stringPtr(matchID)
		c.ChangeType = domain.ChangeType(changeType)
		changes = append(changes, c)
	}
	return changes, rows.Err()
}
