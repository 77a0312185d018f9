package httpapi

import (
	"time"

	"github.com/riskibarqy/dirty-thirty/internal/domain/game"
	"github.com/riskibarqy/dirty-thirty/internal/domain/gameday"
	"github.com/riskibarqy/dirty-thirty/internal/domain/leaderboard"
	"github.com/riskibarqy/dirty-thirty/internal/domain/player"
	"github.com/riskibarqy/dirty-thirty/internal/domain/universe"
	"github.com/riskibarqy/dirty-thirty/internal/usecase"
)

const noGamesMessage = "No games today"

type healthDTO struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

type gamesDTO struct {
	Date  gameday.Day `json:"date"`
	Games []game.Game `json:"games"`
}

type todayPlayersDTO struct {
	Date        gameday.Day     `json:"date"`
	Games       []game.Game     `json:"games"`
	Players     []player.Player `json:"players"`
	TeamCount   int             `json:"teamCount"`
	LiveCount   int             `json:"liveCount"`
	GeneratedAt time.Time       `json:"generatedAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Message     string          `json:"message,omitempty"`
}

func snapshotToDTO(snap universe.Snapshot) todayPlayersDTO {
	out := todayPlayersDTO{
		Date:        snap.Day,
		Games:       snap.Games,
		Players:     snap.Players,
		TeamCount:   snap.TeamCount,
		LiveCount:   snap.LiveCount,
		GeneratedAt: snap.GeneratedAt,
		UpdatedAt:   snap.UpdatedAt,
	}
	if out.Games == nil {
		out.Games = []game.Game{}
	}
	if out.Players == nil {
		out.Players = []player.Player{}
	}
	if snap.NoGames {
		out.Message = noGamesMessage
	}
	return out
}

type liveScoresDTO struct {
	Date   gameday.Day             `json:"date"`
	Scores []usecase.GameLiveScore `json:"scores"`
}

type boxScoreDTO struct {
	GameID     string            `json:"gameId"`
	Status     string            `json:"status"`
	Clock      string            `json:"clock"`
	Period     int               `json:"period"`
	TeamScores map[string]int    `json:"teamScores"`
	Players    []game.PlayerLine `json:"players"`
}

func boxScoreToDTO(box game.BoxScore) boxScoreDTO {
	out := boxScoreDTO{
		GameID:     box.GameID,
		Status:     box.StatusName,
		Clock:      box.Clock,
		Period:     box.Period,
		TeamScores: box.TeamScores,
		Players:    box.Lines,
	}
	if out.TeamScores == nil {
		out.TeamScores = map[string]int{}
	}
	if out.Players == nil {
		out.Players = []game.PlayerLine{}
	}
	return out
}

type teamAveragesDTO struct {
	TeamID   string              `json:"teamId"`
	Averages map[string]*float64 `json:"averages"`
}

type scoringLeaderDTO struct {
	AvgPoints   float64 `json:"avgPoints"`
	DisplayName string  `json:"displayName,omitempty"`
	Team        string  `json:"team,omitempty"`
}

func leadersToDTO(items []usecase.ExternalScoringLeader) map[string]scoringLeaderDTO {
	out := make(map[string]scoringLeaderDTO, len(items))
	for _, item := range items {
		out[item.AthleteID] = scoringLeaderDTO{
			AvgPoints:   item.AvgPoints,
			DisplayName: item.DisplayName,
			Team:        item.TeamAbbreviation,
		}
	}
	return out
}

type leaderboardDTO struct {
	Date      gameday.Day            `json:"date"`
	Target    int                    `json:"target"`
	Standings []leaderboard.Standing `json:"standings"`
}

type resultsDTO struct {
	Date      gameday.Day            `json:"date"`
	Target    int                    `json:"target"`
	Standings []leaderboard.Standing `json:"standings"`
	Winner    *leaderboard.Standing  `json:"winner"`
}

type registerUserRequest struct {
	Name  string `json:"name" validate:"required,max=60"`
	Email string `json:"email" validate:"required,email"`
}

type savePickRequest struct {
	Slot1PlayerID string `json:"slot1PlayerId" validate:"omitempty,max=64"`
	Slot2PlayerID string `json:"slot2PlayerId" validate:"omitempty,max=64"`
}

type togglePickRequest struct {
	PlayerID string `json:"playerId" validate:"required,max=64"`
}
