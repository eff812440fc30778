package domain

import (
	"time"
)

type MatchType string

const (
	MatchTypeSkirmish     MatchType = "skirmish"
	MatchTypeTeam         MatchType = "team"
	MatchTypeBattleRoyale MatchType = "battle_royale"
)

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusActive    MatchStatus = "active"
	MatchStatusEnded     MatchStatus = "ended"
)

type EventType string

const (
	EventTypeKnockdown       EventType = "knockdown"
	EventTypeMemorableMoment EventType = "memorable_moment"
)

type ChangeType string

const (
	ChangeTypeMatchGold        ChangeType = "match_gold"
	ChangeTypeMatchExperience  ChangeType = "match_experience"
	ChangeTypeManualAdjustment ChangeType = "manual_adjustment"
)

type WarriorKind string

const (
	WarriorKindHero     WarriorKind = "hero"
	WarriorKindHenchman WarriorKind = "henchman"
)

type Campaign struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartedAt   time.Time `json:"startedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Warband struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaignId"`
	Name       string    `json:"name"`
	Faction    string    `json:"faction"`
	Color      string    `json:"color"`
	Icon       string    `json:"icon"`
	Treasury   int       `json:"treasury"`
	Experience int       `json:"experience"`
	Rating     int       `json:"rating"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Warrior struct {
	ID         string      `json:"id"`
	WarbandID  string      `json:"warbandId"`
	Name       string      `json:"name"`
	Kind       WarriorKind `json:"kind"`
	Experience int         `json:"experience"`
	Kills      int         `json:"kills"`
	Knockdowns int         `json:"knockdowns"`
	Equipment  []string    `json:"equipment"`
	Skills     []string    `json:"skills"`
	IsAlive    bool        `json:"isAlive"`
	DeathDate  *time.Time  `json:"deathDate,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

type Match struct {
	ID           string      `json:"id"`
	CampaignID   string      `json:"campaignId"`
	MatchType    MatchType   `json:"matchType"`
	Status       MatchStatus `json:"status"`
	ScenarioSlug string      `json:"scenarioSlug"`
	WinnerID     *string     `json:"winnerId,omitempty"`
	ScheduledAt  time.Time   `json:"scheduledAt"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

type Team struct {
	ID         string   `json:"id"`
	MatchID    string   `json:"matchId"`
	Name       string   `json:"name"`
	WarbandIDs []string `json:"warbandIds"`
}

type Placement struct {
	MatchID   string `json:"matchId"`
	WarbandID string `json:"warbandId"`
	Position  int    `json:"position"`
}

type Casualty struct {
	ID         string     `json:"id"`
	MatchID    string     `json:"matchId"`
	WarriorID  string     `json:"warriorId"`
	KillerID   *string    `json:"killerId,omitempty"`
	InjuryType InjuryType `json:"injuryType"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Event is one in-match incident. DeathApplied records whether this event's
// own resolution cleared the defender's alive flag; a lethal outcome against
// an already-dead defender leaves it false, so re-resolving that event can
// never undo a kill that belongs to another event.
type Event struct {
	ID           string      `json:"id"`
	MatchID      string      `json:"matchId"`
	EventType    EventType   `json:"eventType"`
	WarriorID    string      `json:"warriorId"`
	DefenderID   *string     `json:"defenderId,omitempty"`
	Description  string      `json:"description"`
	Resolved     bool        `json:"resolved"`
	InjuryType   *InjuryType `json:"injuryType,omitempty"`
	Death        bool        `json:"death"`
	Injury       bool        `json:"injury"`
	DeathApplied bool        `json:"deathApplied"`
	ResolvedAt   *time.Time  `json:"resolvedAt,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

type CustomNewsItem struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaignId"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// WarbandStateChange is one immutable ledger entry: the delta applied to a
// warband's treasury, experience, or rating, plus the values that resulted.
// Entries are only ever appended; the *After columns of consecutive entries
// for one warband form a running total.
type WarbandStateChange struct {
	ID              string     `json:"id"`
	WarbandID       string     `json:"warbandId"`
	MatchID         *string    `json:"matchId,omitempty"`
	TreasuryDelta   int        `json:"treasuryDelta"`
	ExperienceDelta int        `json:"experienceDelta"`
	RatingDelta     int        `json:"ratingDelta"`
	TreasuryAfter   int        `json:"treasuryAfter"`
	ExperienceAfter int        `json:"experienceAfter"`
	RatingAfter     int        `json:"ratingAfter"`
	ChangeType      ChangeType `json:"changeType"`
	Description     string     `json:"description"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// RatingFor derives a warband's rating from its living roster.
func RatingFor(warriorCount, totalExperience int) int {
	return warriorCount*5 + totalExperience
}
