package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mordheim-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type NewsRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewNewsRepository(sqlDB *sql.DB, logger zerolog.Logger) *NewsRepository {
	return &NewsRepository{db: sqlDB, logger: logger}
}

func (r *NewsRepository) Create(ctx context.Context, n *domain.CustomNewsItem) (*domain.CustomNewsItem, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	n.ID = id
	n.CreatedAt = now
	n.UpdatedAt = now

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO custom_news_items (id, campaign_id, title, body, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.CampaignID, n.Title, n.Body, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert news item: %w", err)
	}
	return n, nil
}

func (r *NewsRepository) Get(ctx context.Context, id string) (*domain.CustomNewsItem, error) {
	var n domain.CustomNewsItem
	err := r.db.QueryRowContext(ctx,
		`SELECT id, campaign_id, title, body, created_at, updated_at FROM custom_news_items WHERE id = ?`,
		id,
	).Scan(&n.ID, &n.CampaignID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("news item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get news item: %w", err)
	}
	return &n, nil
}

func (r *NewsRepository) ListByCampaign(ctx context.Context, campaignID string, limit int) ([]domain.CustomNewsItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, campaign_id, title, body, created_at, updated_at
		 FROM custom_news_items WHERE campaign_id = ? ORDER BY created_at DESC LIMIT ?`,
		campaignID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list news items: %w", err)
	}
	defer rows.Close()

	items := []domain.CustomNewsItem{}
	for rows.Next() {
		var n domain.CustomNewsItem
		if err := rows.Scan(&n.ID, &n.CampaignID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan news item: %w", err)
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

func (r *NewsRepository) Update(ctx context.Context, n *domain.CustomNewsItem) (*domain.CustomNewsItem, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE custom_news_items SET title = ?, body = ?, updated_at = ? WHERE id = ?`,
		n.Title, n.Body, time.Now(), n.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update news item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("news item %s: %w", n.ID, ErrNotFound)
	}
	return r.Get(ctx, n.ID)
}

func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM custom_news_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete news item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("news item %s: %w", id, ErrNotFound)
	}
	return nil
}
