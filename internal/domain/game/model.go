package game

import (
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinal      Status = "FINAL"
)

// Provider status names as they appear in the scoreboard and summary feeds.
const (
	ProviderStatusScheduled  = "STATUS_SCHEDULED"
	ProviderStatusInProgress = "STATUS_IN_PROGRESS"
	ProviderStatusHalftime   = "STATUS_HALFTIME"
	ProviderStatusEndPeriod  = "STATUS_END_PERIOD"
	ProviderStatusFinal      = "STATUS_FINAL"
)

// NormalizeStatus collapses provider status names into the three game phases.
// Unknown names (postponed, delayed) stay SCHEDULED; they still lock through IsLockedStatus.
func NormalizeStatus(providerStatus string) Status {
	switch strings.ToUpper(strings.TrimSpace(providerStatus)) {
	case ProviderStatusInProgress, ProviderStatusHalftime, ProviderStatusEndPeriod:
		return StatusInProgress
	case ProviderStatusFinal:
		return StatusFinal
	default:
		return StatusScheduled
	}
}

// IsLockedStatus reports whether a provider status freezes new selections.
// Anything other than STATUS_SCHEDULED locks, including an empty status from a partial payload.
func IsLockedStatus(providerStatus string) bool {
	name := strings.ToUpper(strings.TrimSpace(providerStatus))
	return name != "" && name != ProviderStatusScheduled
}

type Team struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
	LogoURL      string `json:"logoUrl,omitempty"`
	LiveScore    *int   `json:"liveScore"`
}

type Game struct {
	ID             string    `json:"id"`
	Name           string    `json:"name,omitempty"`
	ScheduledStart time.Time `json:"scheduledStart"`
	Status         Status    `json:"status"`
	StatusName     string    `json:"statusName"`
	StatusDetail   string    `json:"statusDetail,omitempty"`
	ClockDisplay   string    `json:"clockDisplay,omitempty"`
	Period         int       `json:"period"`
	Teams          []Team    `json:"teams"`
}

func (g Game) IsLive() bool {
	return g.Status == StatusInProgress
}

func (g Game) IsOver() bool {
	return g.Status == StatusFinal
}

// StartedBy reports whether the scheduled tip-off is at or before now.
// A zero start time never counts as started.
func (g Game) StartedBy(now time.Time) bool {
	return !g.ScheduledStart.IsZero() && !now.Before(g.ScheduledStart)
}

// Matchup joins team abbreviations, e.g. "DUKE vs UNC".
func (g Game) Matchup() string {
	parts := make([]string, 0, len(g.Teams))
	for _, team := range g.Teams {
		label := strings.TrimSpace(team.Abbreviation)
		if label == "" {
			label = strings.TrimSpace(team.DisplayName)
		}
		if label != "" {
			parts = append(parts, label)
		}
	}
	return strings.Join(parts, " vs ")
}

func (g Game) Team(teamID string) (Team, bool) {
	for _, team := range g.Teams {
		if team.ID == teamID {
			return team, true
		}
	}
	return Team{}, false
}

func (g Game) Clone() Game {
	out := g
	out.Teams = make([]Team, len(g.Teams))
	for i, team := range g.Teams {
		out.Teams[i] = team
		if team.LiveScore != nil {
			score := *team.LiveScore
			out.Teams[i].LiveScore = &score
		}
	}
	return out
}

// BoxScore is one game's live state as read from the summary feed.
type BoxScore struct {
	GameID     string
	StatusName string
	Clock      string
	Period     int
	// TeamScores is keyed by team ID.
	TeamScores map[string]int
	// Points is keyed by athlete ID.
	Points map[string]int
	Lines  []PlayerLine
}

// PlayerLine is one athlete row of a box score.
type PlayerLine struct {
	AthleteID        string   `json:"athleteId"`
	DisplayName      string   `json:"displayName"`
	ShortName        string   `json:"shortName,omitempty"`
	HeadshotURL      string   `json:"headshotUrl,omitempty"`
	Position         string   `json:"position,omitempty"`
	TeamAbbreviation string   `json:"team"`
	Points           int      `json:"points"`
	Starter          bool     `json:"starter"`
	Active           bool     `json:"active"`
	StatKeys         []string `json:"keys,omitempty"`
	Stats            []string `json:"stats,omitempty"`
}

func (b BoxScore) Status() Status {
	return NormalizeStatus(b.StatusName)
}
