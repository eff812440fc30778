package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mordheim-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type CampaignRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewCampaignRepository(sqlDB *sql.DB, logger zerolog.Logger) *CampaignRepository {
	return &CampaignRepository{db: sqlDB, logger: logger}
}

func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.StartedAt.IsZero() {
		c.StartedAt = now
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO campaigns (id, name, description, started_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, c.StartedAt, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert campaign: %w", err)
	}
	return c, nil
}

func (r *CampaignRepository) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	var c domain.Campaign
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, started_at, created_at, updated_at FROM campaigns WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.StartedAt, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("campaign %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return &c, nil
}

func (r *CampaignRepository) List(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, started_at, created_at, updated_at FROM campaigns ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []domain.Campaign{}
	for rows.Next() {
		var c domain.Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.StartedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) Update(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	c.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE campaigns SET name = ?, description = ?, started_at = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Description, c.StartedAt, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("campaign %s: %w", c.ID, ErrNotFound)
	}
	return r.Get(ctx, c.ID)
}
