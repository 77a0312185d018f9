package player

import (
	"strings"
	"time"
)

// DefaultPosition is used when the roster omits a position.
const DefaultPosition = "G"

const headshotURLPattern = "https://a.espncdn.com/i/headshots/mens-college-basketball/players/full/"

type TeamSummary struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
	LogoURL      string `json:"logoUrl,omitempty"`
}

// Player is one athlete in one game. The same athlete in two games is two players.
type Player struct {
	ID           string      `json:"id"`
	AthleteID    string      `json:"athleteId"`
	DisplayName  string      `json:"displayName"`
	ShortName    string      `json:"shortName,omitempty"`
	HeadshotURL  string      `json:"headshotUrl"`
	Position     string      `json:"position"`
	JerseyNumber string      `json:"jerseyNumber,omitempty"`
	Team         TeamSummary `json:"team"`
	MatchupLabel string      `json:"matchupLabel"`
	GameID       string      `json:"gameId"`
	GameStart    time.Time   `json:"gameStart"`
	IsLocked     bool        `json:"isLocked"`
	IsLive       bool        `json:"isLive"`
	IsOver       bool        `json:"isOver"`
	Points       *int        `json:"points"`
	AvgPoints    *float64    `json:"avgPoints"`
}

// ComposeID builds the universe-wide player key.
func ComposeID(gameID, athleteID string) string {
	return strings.TrimSpace(gameID) + "_" + strings.TrimSpace(athleteID)
}

// SplitID is the inverse of ComposeID. Athlete IDs never contain underscores; game IDs may not either.
func SplitID(id string) (gameID, athleteID string, ok bool) {
	idx := strings.LastIndex(id, "_")
	if idx <= 0 || idx == len(id)-1 {
		return "", "", false
	}
	return id[:idx], id[idx+1:], true
}

func DefaultHeadshotURL(athleteID string) string {
	return headshotURLPattern + strings.TrimSpace(athleteID) + ".png"
}

func (p Player) Clone() Player {
	out := p
	if p.Points != nil {
		v := *p.Points
		out.Points = &v
	}
	if p.AvgPoints != nil {
		v := *p.AvgPoints
		out.AvgPoints = &v
	}
	return out
}
