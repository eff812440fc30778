package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mordheim-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type EventRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewEventRepository(sqlDB *sql.DB, logger zerolog.Logger) *EventRepository {
	return &EventRepository{db: sqlDB, logger: logger}
}

// Create records an in-match incident. A knockdown credits the acting
// warrior's knockdown counter in the same transaction.
func (r *EventRepository) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	e.ID = id
	e.Resolved = false
	e.InjuryType = nil
	e.Death = false
	e.Injury = false
	e.ResolvedAt = nil
	e.CreatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO events
			(id, match_id, event_type, warrior_id, defender_id, description, resolved, injury_type, death, injury, death_applied, resolved_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, FALSE, NULL, FALSE, FALSE, FALSE, NULL, ?)`,
		e.ID, e.MatchID, string(e.EventType), e.WarriorID, nullString(e.DefenderID), e.Description, e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	if e.EventType == domain.EventTypeKnockdown {
		_, err = tx.ExecContext(ctx,
			`UPDATE warriors SET knockdowns = knockdowns + 1, updated_at = ? WHERE id = ?`,
			now, e.WarriorID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to credit knockdown: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit event create: %w", err)
	}
	return e, nil
}

func (r *EventRepository) Get(ctx context.Context, id string) (*domain.Event, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, match_id, event_type, warrior_id, defender_id, description, resolved, injury_type, death, injury, death_applied, resolved_at, created_at
		 FROM events WHERE id = ?`,
		id,
	)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

func (r *EventRepository) ListByMatch(ctx context.Context, matchID string) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, match_id, event_type, warrior_id, defender_id, description, resolved, injury_type, death, injury, death_applied, resolved_at, created_at
		 FROM events WHERE match_id = ? ORDER BY created_at`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// Resolve assigns an injury outcome to an event and cascades its side
// effects, all in one transaction:
//
//   - the event is marked resolved with death/injury flags matching the
//     outcome category;
//   - a lethal outcome with a defender present kills the defender (alive
//     cleared, death date stamped) only if the defender is still alive, so
//     retrying with the same outcome stamps the death exactly once; the
//     event records whether its own resolution applied the death;
//   - re-resolving with a different outcome first reverts the previous
//     outcome's death, restoring the defender, before the new outcome is
//     applied; the revert only runs when this event is the one that killed
//     the defender, so a lethal verdict against an already-dead warrior can
//     never undo another event's kill;
//   - any change to the defender's alive state shifts the owning warband's
//     rating, which is recomputed through the state-change ledger.
//
// The injury type must already be validated by the caller; Resolve rejects
// unmapped codes before writing anything.
func (r *EventRepository) Resolve(ctx context.Context, eventID string, injuryType domain.InjuryType) (*domain.Event, error) {
	category, ok := domain.CategoryOf(injuryType)
	if !ok {
		return nil, fmt.Errorf("injury type %q is not on the chart", injuryType)
	}

	now := time.Now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, match_id, event_type, warrior_id, defender_id, description, resolved, injury_type, death, injury, death_applied, resolved_at, created_at
		 FROM events WHERE id = ?`,
		eventID,
	)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read event: %w", err)
	}

	sameOutcome := e.Resolved && e.InjuryType != nil && *e.InjuryType == injuryType

	// Revert the previous resolution's death before applying a different
	// outcome, so a downgraded verdict resurrects the defender. Only this
	// event's own kill may be undone; a lethal verdict that found the
	// defender already dead never applied a death and has nothing to revert.
	if !sameOutcome && e.DeathApplied && e.DefenderID != nil {
		if err := r.setDefenderAlive(ctx, tx, *e.DefenderID, true, now); err != nil {
			return nil, err
		}
		if err := r.adjustKills(ctx, tx, e.WarriorID, -1, now); err != nil {
			return nil, err
		}
		e.DeathApplied = false
	}

	death := category == domain.InjuryCategoryLethal
	injury := category == domain.InjuryCategoryInjurious
	deathApplied := e.DeathApplied

	if death && e.DefenderID != nil {
		var alive bool
		err = tx.QueryRowContext(ctx, `SELECT is_alive FROM warriors WHERE id = ?`, *e.DefenderID).Scan(&alive)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("defender %s: %w", *e.DefenderID, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read defender: %w", err)
		}
		if alive {
			if err := r.setDefenderAlive(ctx, tx, *e.DefenderID, false, now); err != nil {
				return nil, err
			}
			if err := r.adjustKills(ctx, tx, e.WarriorID, 1, now); err != nil {
				return nil, err
			}
			deathApplied = true
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE events SET resolved = TRUE, injury_type = ?, death = ?, injury = ?, death_applied = ?, resolved_at = ? WHERE id = ?`,
		string(injuryType), death, injury, deathApplied, now, eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit resolution: %w", err)
	}

	r.logger.Info().
		Str("event_id", eventID).
		Str("injury_type", string(injuryType)).
		Str("category", string(category)).
		Msg("event resolved")

	return r.Get(ctx, eventID)
}

// setDefenderAlive flips a warrior's alive state and recomputes the owning
// warband's rating through the ledger within the caller's transaction.
func (r *EventRepository) setDefenderAlive(ctx context.Context, tx *sql.Tx, warriorID string, alive bool, now time.Time) error {
	var warbandID, name string
	err := tx.QueryRowContext(ctx, `SELECT warband_id, name FROM warriors WHERE id = ?`, warriorID).Scan(&warbandID, &name)
	if err == sql.ErrNoRows {
		return fmt.Errorf("warrior %s: %w", warriorID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read warrior: %w", err)
	}

	if alive {
		_, err = tx.ExecContext(ctx,
			`UPDATE warriors SET is_alive = TRUE, death_date = NULL, updated_at = ? WHERE id = ?`,
			now, warriorID,
		)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE warriors SET is_alive = FALSE, death_date = ?, updated_at = ? WHERE id = ?`,
			now, now, warriorID,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to update warrior alive state: %w", err)
	}

	description := fmt.Sprintf("%s died in battle", name)
	if alive {
		description = fmt.Sprintf("%s restored after re-resolution", name)
	}
	_, err = applyStateChangeTx(ctx, tx, stateChangeParams{
		WarbandID:   warbandID,
		ChangeType:  domain.ChangeTypeManualAdjustment,
		Description: description,
	}, now)
	return err
}

func (r *EventRepository) adjustKills(ctx context.Context, tx *sql.Tx, warriorID string, delta int, now time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE warriors SET kills = kills + ?, updated_at = ? WHERE id = ?`,
		delta, now, warriorID,
	)
	if err != nil {
		return fmt.Errorf("failed to adjust kills: %w", err)
	}
	return nil
}

func scanEvent(s rowScanner) (*domain.Event, error) {
	var e domain.Event
	var eventType string
	var defenderID, injuryType sql.NullString
	var resolvedAt sql.NullTime
	if err := s.Scan(&e.ID, &e.MatchID, &eventType, &e.WarriorID, &defenderID, &e.Description,
		&e.Resolved, &injuryType, &e.Death, &e.Injury, &e.DeathApplied, &resolvedAt, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.EventType = domain.EventType(eventType)
	e.DefenderID = stringPtr(defenderID)
	e.ResolvedAt = timePtr(resolvedAt)
	if injuryType.Valid {
		it := domain.InjuryType(injuryType.String)
		e.InjuryType = &it
	}
	return &e, nil
}
