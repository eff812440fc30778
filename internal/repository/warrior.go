package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mordheim-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type WarriorRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewWarriorRepository(sqlDB *sql.DB, logger zerolog.Logger) *WarriorRepository {
	return &WarriorRepository{db: sqlDB, logger: logger}
}

// Create inserts a warrior and, since the roster grew, recomputes the owning
// warband's rating through the ledger in the same transaction.
func (r *WarriorRepository) Create(ctx context.Context, w *domain.Warrior) (*domain.Warrior, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	w.ID = id
	w.IsAlive = true
	w.DeathDate = nil
	w.CreatedAt = now
	w.UpdatedAt = now

	equipment, err := encodeList(w.Equipment)
	if err != nil {
		return nil, err
	}
	skills, err := encodeList(w.Skills)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO warriors
			(id, warband_id, name, kind, experience, kills, knockdowns, equipment, skills, is_alive, death_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, TRUE, NULL, ?, ?)`,
		w.ID, w.WarbandID, w.Name, string(w.Kind), w.Experience, w.Kills, w.Knockdowns,
		equipment, skills, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert warrior: %w", err)
	}

	_, err = applyStateChangeTx(ctx, tx, stateChangeParams{
		WarbandID:   w.WarbandID,
		ChangeType:  domain.ChangeTypeManualAdjustment,
		Description: fmt.Sprintf("%s joined the roster", w.Name),
	}, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit warrior create: %w", err)
	}
	return w, nil
}

func (r *WarriorRepository) Get(ctx context.Context, id string) (*domain.Warrior, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, warband_id, name, kind, experience, kills, knockdowns, equipment, skills, is_alive, death_date, created_at, updated_at
		 FROM warriors WHERE id = ?`,
		id,
	)
	w, err := scanWarrior(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("warrior %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get warrior: %w", err)
	}
	return w, nil
}

func (r *WarriorRepository) ListByWarband(ctx context.Context, warbandID string) ([]domain.Warrior, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, warband_id, name, kind, experience, kills, knockdowns, equipment, skills, is_alive, death_date, created_at, updated_at
		 FROM warriors WHERE warband_id = ? ORDER BY kind, name`,
		warbandID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list warriors: %w", err)
	}
	defer rows.Close()

	warriors := []domain.Warrior{}
	for rows.Next() {
		w, err := scanWarrior(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan warrior: %w", err)
		}
		warriors = append(warriors, *w)
	}
	return warriors, rows.Err()
}

// Update writes the warrior's mutable fields. Reviving a dead warrior is a
// manual override: allowed here, but not recorded as a ledger event beyond
// the rating recompute. Experience or alive-state changes shift the
// warband's rating, so the recompute runs in the same transaction.
func (r *WarriorRepository) Update(ctx context.Context, w *domain.Warrior) (*domain.Warrior, error) {
	equipment, err := encodeList(w.Equipment)
	if err != nil {
		return nil, err
	}
	skills, err := encodeList(w.Skills)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var warbandID string
	err = tx.QueryRowContext(ctx, `SELECT warband_id FROM warriors WHERE id = ?`, w.ID).Scan(&warbandID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("warrior %s: %w", w.ID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read warrior: %w", err)
	}

	deathDate := nullTime(w.DeathDate)
	if w.IsAlive {
		deathDate = sql.NullTime{}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE warriors
		 SET name = ?, kind = ?, experience = ?, kills = ?, knockdowns = ?, equipment = ?, skills = ?,
			 is_alive = ?, death_date = ?, updated_at = ?
		 WHERE id = ?`,
		w.Name, string(w.Kind), w.Experience, w.Kills, w.Knockdowns, equipment, skills,
		w.IsAlive, deathDate, now, w.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update warrior: %w", err)
	}

	_, err = applyStateChangeTx(ctx, tx, stateChangeParams{
		WarbandID:   warbandID,
		ChangeType:  domain.ChangeTypeManualAdjustment,
		Description: fmt.Sprintf("%s updated", w.Name),
	}, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit warrior update: %w", err)
	}

	return r.Get(ctx, w.ID)
}

func scanWarrior(s rowScanner) (*domain.Warrior, error) {
	var w domain.Warrior
	var kind, equipment, skills string
	var deathDate sql.NullTime
	if err := s.Scan(&w.ID, &w.WarbandID, &w.Name, &kind, &w.Experience, &w.Kills, &w.Knockdowns,
		&equipment, &skills, &w.IsAlive, &deathDate, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	w.Kind = domain.WarriorKind(kind)
	w.DeathDate = timePtr(deathDate)

	var err error
	if w.Equipment, err = decodeList(equipment); err != nil {
		return nil, err
	}
	if w.Skills, err = decodeList(skills); err != nil {
		return nil, err
	}
	return &w, nil
}
