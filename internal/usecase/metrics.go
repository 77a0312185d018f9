package usecase

import "time"

// ServiceMetrics receives aggregation and reconciliation outcomes.
type ServiceMetrics interface {
	ObserveAggregation(day string, teams, players, failedUnits int, elapsed time.Duration)
	ObserveReconcile(outcome string, applied, stale, failed int, elapsed time.Duration)
	SetLiveGames(count int)
}

type nopMetrics struct{}

func (nopMetrics) ObserveAggregation(string, int, int, int, time.Duration) {}
func (nopMetrics) ObserveReconcile(string, int, int, int, time.Duration)   {}
func (nopMetrics) SetLiveGames(int)                                        {}
