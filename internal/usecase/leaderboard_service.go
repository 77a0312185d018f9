package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/dirty-thirty/internal/domain/gameday"
	"github.com/riskibarqy/dirty-thirty/internal/domain/leaderboard"
)

type leaderboardEntrySource interface {
	LeaderboardEntries(ctx context.Context, day gameday.Day) ([]leaderboard.Entry, error)
}

// LeaderboardService ranks the day's picks. Ranking itself never fails; only loading entries can.
type LeaderboardService struct {
	entries leaderboardEntrySource
}

func NewLeaderboardService(entries leaderboardEntrySource) *LeaderboardService {
	return &LeaderboardService{entries: entries}
}

func (s *LeaderboardService) Standings(ctx context.Context, day gameday.Day) ([]leaderboard.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Standings")
	defer span.End()

	entries, err := s.entries.LeaderboardEntries(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard entries: %w", err)
	}
	return leaderboard.Rank(entries), nil
}

func (s *LeaderboardService) Results(ctx context.Context, day gameday.Day) (leaderboard.Results, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Results")
	defer span.End()

	entries, err := s.entries.LeaderboardEntries(ctx, day)
	if err != nil {
		return leaderboard.Results{}, fmt.Errorf("load leaderboard entries: %w", err)
	}
	return leaderboard.FinalResults(entries), nil
}
