package espn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/dirty-thirty/internal/platform/resilience"
	"github.com/riskibarqy/dirty-thirty/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*ClientConfig)) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := ClientConfig{
		HTTPClient:   server.Client(),
		BaseURL:      server.URL + "/site",
		StatsBaseURL: server.URL + "/stats",
		Timeout:      2 * time.Second,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg)
}

func TestFetchScheduleSendsQueryAndHeaders(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/site/scoreboard" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("dates") != "20260320" || q.Get("groups") != "100" || q.Get("limit") != "50" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("User-Agent") != DefaultUserAgent || r.Header.Get("Accept") != "application/json" {
			t.Errorf("unexpected headers %v", r.Header)
		}
		_, _ = w.Write([]byte(`{"events":[{"id":"401","date":"2026-03-20T18:00Z","competitions":[{"status":{"type":{"name":"STATUS_SCHEDULED"}},"competitors":[{"team":{"id":"150"}}]}]}]}`))
	}, nil)

	games, err := client.FetchSchedule(context.Background(), "2026-03-20")
	if err != nil {
		t.Fatalf("fetch schedule: %v", err)
	}
	if len(games) != 1 || games[0].ID != "401" || len(games[0].Teams) != 1 {
		t.Fatalf("unexpected games %+v", games)
	}
}

func TestFetchScheduleEmptyDay(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}, nil)

	games, err := client.FetchSchedule(context.Background(), "2026-03-21")
	if err != nil {
		t.Fatalf("fetch schedule: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("expected no games, got %d", len(games))
	}
}

func TestBadStatusMapsToKind(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}, nil)

	_, err := client.FetchRoster(context.Background(), "150")
	if !errors.Is(err, usecase.ErrUpstreamBadStatus) {
		t.Fatalf("expected ErrUpstreamBadStatus, got %v", err)
	}
}

func TestMalformedBodyMapsToKind(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"athletes":`))
	}, nil)

	_, err := client.FetchSeasonAverages(context.Background(), "150")
	if !errors.Is(err, usecase.ErrUpstreamMalformed) {
		t.Fatalf("expected ErrUpstreamMalformed, got %v", err)
	}
}

func TestTimeoutMapsToKind(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, func(cfg *ClientConfig) {
		cfg.Timeout = 50 * time.Millisecond
	})
	defer close(release)

	_, err := client.FetchBoxScore(context.Background(), "401")
	if !errors.Is(err, usecase.ErrUpstreamTimeout) {
		t.Fatalf("expected ErrUpstreamTimeout, got %v", err)
	}
}

func TestRetriesOnlyTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"athletes":[{"id":"1","displayName":"One"}]}`))
	}, func(cfg *ClientConfig) {
		cfg.MaxRetries = 1
	})

	athletes, err := client.FetchRoster(context.Background(), "150")
	if err != nil {
		t.Fatalf("fetch roster: %v", err)
	}
	if calls.Load() != 2 || len(athletes) != 1 {
		t.Fatalf("expected retry then success, calls=%d athletes=%d", calls.Load(), len(athletes))
	}
}

func TestNoRetryByDefault(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "busy", http.StatusBadGateway)
	}, nil)

	if _, err := client.FetchRoster(context.Background(), "150"); err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestCircuitBreakerOpensOnTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusInternalServerError)
	}, func(cfg *ClientConfig) {
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		}
	})

	for i := 0; i < 2; i++ {
		_, _ = client.FetchBoxScore(context.Background(), "401")
	}
	_, err := client.FetchBoxScore(context.Background(), "401")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("open breaker must not reach upstream, calls=%d", calls.Load())
	}
}

func TestFetchScoringLeaders(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stats/statistics/byathlete" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("limit") != "25" || q.Get("sort") != "offensive.avgPoints:desc" || q.Get("isqualified") != "true" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"athletes":[
			{"athlete":{"id":"9","displayName":"Nine"},"statistics":{"splits":{"categories":[{"name":"offensive","stats":[{"name":"avgPoints","displayValue":"24.1"}]}]}}},
			{"athlete":{"id":"10"},"statistics":{}}
		]}`))
	}, nil)

	leaders, err := client.FetchScoringLeaders(context.Background(), 25)
	if err != nil {
		t.Fatalf("fetch leaders: %v", err)
	}
	if len(leaders) != 1 || leaders[0].AthleteID != "9" || leaders[0].AvgPoints != 24.1 {
		t.Fatalf("unexpected leaders %+v", leaders)
	}
}
