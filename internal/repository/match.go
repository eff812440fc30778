package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mordheim-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{db: sqlDB, logger: logger}
}

// MatchDetail is a match with every child collection loaded.
type MatchDetail struct {
	Match        domain.Match       `json:"match"`
	Participants []domain.Warband   `json:"participants"`
	Teams        []domain.Team      `json:"teams"`
	Placements   []domain.Placement `json:"placements"`
	Events       []domain.Event     `json:"events"`
	Casualties   []domain.Casualty  `json:"casualties"`
}

// CreateMatchParams carries a match and its participant structure, written
// together in one transaction.
type CreateMatchParams struct {
	Match      domain.Match       `json:"match"`
	WarbandIDs []string           `json:"warbandIds"`
	Teams      []domain.Team      `json:"teams,omitempty"`
	Placements []domain.Placement `json:"placements,omitempty"`
}

func (r *MatchRepository) Create(ctx context.Context, p CreateMatchParams) (*domain.Match, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	m := p.Match
	m.ID = id
	if m.Status == "" {
		m.Status = domain.MatchStatusScheduled
	}
	if m.ScheduledAt.IsZero() {
		m.ScheduledAt = now
	}
	m.CreatedAt = now
	m.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO matches
			(id, campaign_id, match_type, status, scenario_slug, winner_id, scheduled_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.CampaignID, string(m.MatchType), string(m.Status), m.ScenarioSlug,
		nullString(m.WinnerID), m.ScheduledAt, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert match: %w", err)
	}

	for _, warbandID := range p.WarbandIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO match_participants (match_id, warband_id) VALUES (?, ?)`,
			m.ID, warbandID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert participant %s: %w", warbandID, err)
		}
	}

	for _, team := range p.Teams {
		teamID, err := newID()
		if err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO teams (id, match_id, name) VALUES (?, ?, ?)`,
			teamID, m.ID, team.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert team %s: %w", team.Name, err)
		}
		for _, warbandID := range team.WarbandIDs {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO team_members (team_id, warband_id) VALUES (?, ?)`,
				teamID, warbandID,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to insert team member %s: %w", warbandID, err)
			}
		}
	}

	for _, pl := range p.Placements {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO placements (match_id, warband_id, position) VALUES (?, ?, ?)`,
			m.ID, pl.WarbandID, pl.Position,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert placement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match create: %w", err)
	}
	return &m, nil
}

func (r *MatchRepository) Get(ctx context.Context, id string) (*domain.Match, error) {
	var m domain.Match
	var matchType, status string
	var winnerID sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, campaign_id, match_type, status, scenario_slug, winner_id, scheduled_at, created_at, updated_at
		 FROM matches WHERE id = ?`,
		id,
	).Scan(&m.ID, &m.CampaignID, &matchType, &status, &m.ScenarioSlug, &winnerID,
		&m.ScheduledAt, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("match %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	m.MatchType = domain.MatchType(matchType)
	m.Status = domain.MatchStatus(status)
	m.WinnerID = stringPtr(winnerID)
	return &m, nil
}

func (r *MatchRepository) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Match, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, campaign_id, match_type, status, scenario_slug, winner_id, scheduled_at, created_at, updated_at
		 FROM matches WHERE campaign_id = ? ORDER BY scheduled_at DESC`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()
	return scanMatches(rows)
}

// ListRecentResults returns the latest ended matches for a campaign.
func (r *MatchRepository) ListRecentResults(ctx context.Context, campaignID string, limit int) ([]domain.Match, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, campaign_id, match_type, status, scenario_slug, winner_id, scheduled_at, created_at, updated_at
		 FROM matches WHERE campaign_id = ? AND status = ? ORDER BY updated_at DESC LIMIT ?`,
		campaignID, string(domain.MatchStatusEnded), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent results: %w", err)
	}
	defer rows.Close()
	return scanMatches(rows)
}

// Update writes status, scenario, winner, and schedule. Status is the only
// field the client updates optimistically; the server treats it like any
// other column.
func (r *MatchRepository) Update(ctx context.Context, m *domain.Match) (*domain.Match, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE matches SET status = ?, scenario_slug = ?, winner_id = ?, scheduled_at = ?, updated_at = ? WHERE id = ?`,
		string(m.Status), m.ScenarioSlug, nullString(m.WinnerID), m.ScheduledAt, time.Now(), m.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("match %s: %w", m.ID, ErrNotFound)
	}
	return r.Get(ctx, m.ID)
}

func (r *MatchRepository) ListParticipants(ctx context.Context, matchID string) ([]domain.Warband, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT w.id, w.campaign_id, w.name, w.faction, w.color, w.icon, w.treasury, w.experience, w.rating, w.created_at, w.updated_at
		 FROM match_participants mp
		 JOIN warbands w ON w.id = mp.warband_id
		 WHERE mp.match_id = ? ORDER BY w.name`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	warbands := []domain.Warband{}
	for rows.Next() {
		var w domain.Warband
		if err := rows.Scan(&w.ID, &w.CampaignID, &w.Name, &w.Faction, &w.Color, &w.Icon,
			&w.Treasury, &w.Experience, &w.Rating, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		warbands = append(warbands, w)
	}
	return warbands, rows.Err()
}

func (r *MatchRepository) ListTeams(ctx context.Context, matchID string) ([]domain.Team, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.match_id, t.name, tm.warband_id
		 FROM teams t
		 LEFT JOIN team_members tm ON tm.team_id = t.id
		 WHERE t.match_id = ? ORDER BY t.name, tm.warband_id`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := []domain.Team{}
	index := map[string]int{}
	for rows.Next() {
		var teamID, mID, name string
		var warbandID sql.NullString
		if err := rows.Scan(&teamID, &mID, &name, &warbandID); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		i, ok := index[teamID]
		if !ok {
			teams = append(teams, domain.Team{ID: teamID, MatchID: mID, Name: name, WarbandIDs: []string{}})
			i = len(teams) - 1
			index[teamID] = i
		}
		if warbandID.Valid {
			teams[i].WarbandIDs = append(teams[i].WarbandIDs, warbandID.String)
		}
	}
	return teams, rows.Err()
}

func (r *MatchRepository) ListPlacements(ctx context.Context, matchID string) ([]domain.Placement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT match_id, warband_id, position FROM placements WHERE match_id = ? ORDER BY position`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list placements: %w", err)
	}
	defer rows.Close()

	placements := []domain.Placement{}
	for rows.Next() {
		var p domain.Placement
		if err := rows.Scan(&p.MatchID, &p.WarbandID, &p.Position); err != nil {
			return nil, fmt.Errorf("failed to scan placement: %w", err)
		}
		placements = append(placements, p)
	}
	return placements, rows.Err()
}

func (r *MatchRepository) AddCasualty(ctx context.Context, c *domain.Casualty) (*domain.Casualty, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	c.ID = id
	c.CreatedAt = time.Now()

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO casualties (id, match_id, warrior_id, killer_id, injury_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.MatchID, c.WarriorID, nullString(c.KillerID), string(c.InjuryType), c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert casualty: %w", err)
	}
	return c, nil
}

func (r *MatchRepository) ListCasualties(ctx context.Context, matchID string) ([]domain.Casualty, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, match_id, warrior_id, killer_id, injury_type, created_at
		 FROM casualties WHERE match_id = ? ORDER BY created_at`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list casualties: %w", err)
	}
	defer rows.Close()

	casualties := []domain.Casualty{}
	for rows.Next() {
		var c domain.Casualty
		var killerID sql.NullString
		var injuryType string
		if err := rows.Scan(&c.ID, &c.MatchID, &c.WarriorID, &killerID, &injuryType, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan casualty: %w", err)
		}
		c.KillerID = stringPtr(killerID)
		c.InjuryType = domain.InjuryType(injuryType)
		casualties = append(casualties, c)
	}
	return casualties, rows.Err()
}

// Standing is one warband's tally over the campaign's ended matches. A win
// is an ended match where the warband is the recorded winner or placed
// first; an ended match without either counts as a loss for the other
// participants only when a winner exists, otherwise a draw.
type Standing struct {
	WarbandID string `json:"warbandId"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Icon      string `json:"icon"`
	Rating    int    `json:"rating"`
	Played    int    `json:"played"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
	Draws     int    `json:"draws"`
}

func (r *MatchRepository) StandingsByCampaign(ctx context.Context, campaignID string) ([]Standing, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT w.id, w.name, w.color, w.icon, w.rating,
				COUNT(m.id) AS played,
				COALESCE(SUM(CASE
					WHEN m.winner_id = w.id THEN 1
					WHEN p.position = 1 THEN 1
					ELSE 0 END), 0) AS wins,
				COALESCE(SUM(CASE
					WHEN m.winner_id IS NOT NULL AND m.winner_id != w.id THEN 1
					WHEN m.winner_id IS NULL AND p.position IS NOT NULL AND p.position != 1 THEN 1
					ELSE 0 END), 0) AS losses
		 FROM warbands w
		 LEFT JOIN match_participants mp ON mp.warband_id = w.id
		 LEFT JOIN matches m ON m.id = mp.match_id AND m.status = ?
		 LEFT JOIN placements p ON p.match_id = m.id AND p.warband_id = w.id
		 WHERE w.campaign_id = ?
		 GROUP BY w.id
		 ORDER BY wins DESC, w.rating DESC, w.name`,
		string(domain.MatchStatusEnded), campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings: %w", err)
	}
	defer rows.Close()

	standings := []Standing{}
	for rows.Next() {
		var s Standing
		if err := rows.Scan(&s.WarbandID, &s.Name, &s.Color, &s.Icon, &s.Rating,
			&s.Played, &s.Wins, &s.Losses); err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		s.Draws = s.Played - s.Wins - s.Losses
		standings = append(standings, s)
	}
	return standings, rows.Err()
}

func scanMatches(rows *sql.Rows) ([]domain.Match, error) {
	matches := []domain.Match{}
	for rows.Next() {
		var m domain.Match
		var matchType, status string
		var winnerID sql.NullString
		if err := rows.Scan(&m.ID, &m.CampaignID, &matchType, &status, &m.ScenarioSlug, &winnerID,
			&m.ScheduledAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		m.MatchType = domain.MatchType(matchType)
		m.Status = domain.MatchStatus(status)
		m.WinnerID = stringPtr(winnerID)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
