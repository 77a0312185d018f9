package usecase

import (
	"context"

	"github.com/riskibarqy/dirty-thirty/internal/domain/game"
	"github.com/riskibarqy/dirty-thirty/internal/domain/gameday"
)

// ExternalAthlete is one roster row as returned by the feed.
type ExternalAthlete struct {
	ID           string
	DisplayName  string
	ShortName    string
	HeadshotURL  string
	Position     string
	JerseyNumber string
}

// ExternalSeasonAverages maps athlete ID to points per game. A nil value means the feed
// carried the athlete but the average did not parse.
type ExternalSeasonAverages map[string]*float64

type ExternalScoringLeader struct {
	AthleteID        string  `json:"athleteId"`
	DisplayName      string  `json:"displayName"`
	TeamAbbreviation string  `json:"teamAbbreviation,omitempty"`
	AvgPoints        float64 `json:"avgPoints"`
}

// FeedClient is the sports data provider boundary.
type FeedClient interface {
	FetchSchedule(ctx context.Context, day gameday.Day) ([]game.Game, error)
	FetchRoster(ctx context.Context, teamID string) ([]ExternalAthlete, error)
	FetchSeasonAverages(ctx context.Context, teamID string) (ExternalSeasonAverages, error)
	FetchBoxScore(ctx context.Context, gameID string) (game.BoxScore, error)
	FetchScoringLeaders(ctx context.Context, limit int) ([]ExternalScoringLeader, error)
}
