package espn

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/riskibarqy/dirty-thirty/internal/domain/game"
	"github.com/riskibarqy/dirty-thirty/internal/domain/gameday"
	"github.com/riskibarqy/dirty-thirty/internal/platform/logging"
	"github.com/riskibarqy/dirty-thirty/internal/platform/resilience"
	"github.com/riskibarqy/dirty-thirty/internal/usecase"
)

const (
	DefaultBaseURL      = "https://site.api.espn.com/apis/site/v2/sports/basketball/mens-college-basketball"
	DefaultStatsBaseURL = "https://site.web.api.espn.com/apis/common/v3/sports/basketball/mens-college-basketball"
	DefaultUserAgent    = "Mozilla/5.0 (compatible; DirtyThirty/1.0)"
	DefaultTimeout      = 8 * time.Second

	defaultTournamentGroup = "100"
	defaultScheduleLimit   = 50
	defaultLeadersLimit    = 500
	maxBodyBytes           = 8 << 20
)

var errESPNTransient = crerr.New("espn transient failure")

// RequestObserver receives one call per upstream request attempt.
type RequestObserver interface {
	ObserveFeedRequest(endpoint, outcome string, elapsed time.Duration)
}

type ClientConfig struct {
	HTTPClient      *http.Client
	BaseURL         string
	StatsBaseURL    string
	UserAgent       string
	Timeout         time.Duration
	MaxRetries      int
	RateLimitRPS    float64
	RateLimitBurst  int
	TournamentGroup string
	ScheduleLimit   int
	Logger          *logging.Logger
	Observer        RequestObserver
	CircuitBreaker  resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient      *http.Client
	baseURL         string
	statsBaseURL    string
	userAgent       string
	timeout         time.Duration
	maxRetries      int
	tournamentGroup string
	scheduleLimit   int
	limiter         *rate.Limiter
	logger          *logging.Logger
	observer        RequestObserver
	breaker         *resilience.CircuitBreaker
	flight          resilience.SingleFlight
}

var _ usecase.FeedClient = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}

	scheduleLimit := cfg.ScheduleLimit
	if scheduleLimit <= 0 {
		scheduleLimit = defaultScheduleLimit
	}

	return &Client{
		httpClient:      httpClient,
		baseURL:         trimBaseURL(cfg.BaseURL, DefaultBaseURL),
		statsBaseURL:    trimBaseURL(cfg.StatsBaseURL, DefaultStatsBaseURL),
		userAgent:       firstNonEmpty(cfg.UserAgent, DefaultUserAgent),
		timeout:         timeout,
		maxRetries:      max(cfg.MaxRetries, 0),
		tournamentGroup: firstNonEmpty(cfg.TournamentGroup, defaultTournamentGroup),
		scheduleLimit:   scheduleLimit,
		limiter:         limiter,
		logger:          logger.Named("espn"),
		observer:        cfg.Observer,
		breaker:         resilience.NewCircuitBreaker(cfg.CircuitBreaker),
	}
}

func (c *Client) FetchSchedule(ctx context.Context, day gameday.Day) ([]game.Game, error) {
	if day.IsZero() {
		return nil, fmt.Errorf("%w: date is required", usecase.ErrInvalidInput)
	}

	query := url.Values{}
	query.Set("dates", day.Feed())
	query.Set("groups", c.tournamentGroup)
	query.Set("limit", strconv.Itoa(c.scheduleLimit))

	var envelope scoreboardEnvelope
	if err := c.doJSON(ctx, "scoreboard", c.baseURL+"/scoreboard", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch schedule date=%s: %w", day, err)
	}
	return toGames(envelope), nil
}

func (c *Client) FetchRoster(ctx context.Context, teamID string) ([]usecase.ExternalAthlete, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", usecase.ErrInvalidInput)
	}

	var envelope rosterEnvelope
	path := c.baseURL + "/teams/" + url.PathEscape(teamID) + "/roster"
	if err := c.doJSON(ctx, "roster", path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch roster team_id=%s: %w", teamID, err)
	}
	return toAthletes(envelope), nil
}

func (c *Client) FetchSeasonAverages(ctx context.Context, teamID string) (usecase.ExternalSeasonAverages, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", usecase.ErrInvalidInput)
	}

	var envelope athleteStatsEnvelope
	path := c.baseURL + "/teams/" + url.PathEscape(teamID) + "/athletes/statistics"
	if err := c.doJSON(ctx, "team_statistics", path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch season averages team_id=%s: %w", teamID, err)
	}
	return toSeasonAverages(envelope), nil
}

func (c *Client) FetchBoxScore(ctx context.Context, gameID string) (game.BoxScore, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return game.BoxScore{}, fmt.Errorf("%w: game id is required", usecase.ErrInvalidInput)
	}

	query := url.Values{}
	query.Set("event", gameID)

	var envelope summaryEnvelope
	if err := c.doJSON(ctx, "summary", c.baseURL+"/summary", query, &envelope); err != nil {
		return game.BoxScore{}, fmt.Errorf("fetch box score game_id=%s: %w", gameID, err)
	}
	return toBoxScore(gameID, envelope), nil
}

func (c *Client) FetchScoringLeaders(ctx context.Context, limit int) ([]usecase.ExternalScoringLeader, error) {
	if limit <= 0 {
		limit = defaultLeadersLimit
	}

	query := url.Values{}
	query.Set("isqualified", "true")
	query.Set("page", "1")
	query.Set("limit", strconv.Itoa(limit))
	query.Set("sort", "offensive.avgPoints:desc")

	var envelope athleteStatsEnvelope
	if err := c.doJSON(ctx, "leaders", c.statsBaseURL+"/statistics/byathlete", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch scoring leaders limit=%d: %w", limit, err)
	}
	return toScoringLeaders(envelope), nil
}

func (c *Client) doJSON(ctx context.Context, endpoint, baseURL string, query url.Values, target any) error {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "endpoint", endpoint, "state", c.breaker.State())
		return crerr.Wrapf(usecase.ErrDependencyUnavailable, "sports data provider is temporarily unavailable")
	}

	fullURL := baseURL
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, endpoint, fullURL)
		c.breaker.Record(reqErr != nil && crerr.Is(reqErr, errESPNTransient))
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(usecase.ErrUpstreamMalformed, "decode %s payload: %v", endpoint, err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, endpoint, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, status, err := c.attempt(ctx, endpoint, fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !crerr.Is(err, errESPNTransient) || attempt == c.maxRetries {
			break
		}
		if status == 0 && ctx.Err() != nil {
			break
		}

		backoff := time.Duration(attempt+1) * 500 * time.Millisecond
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, crerr.Wrapf(usecase.ErrUpstreamTimeout, "%s: %v", endpoint, ctx.Err())
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "espn request failed", "endpoint", endpoint, "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// attempt issues one bounded request. status is 0 when no response arrived.
func (c *Client) attempt(ctx context.Context, endpoint, fullURL string) ([]byte, int, error) {
	started := time.Now()
	outcome := "ok"
	defer func() {
		if c.observer != nil {
			c.observer.ObserveFeedRequest(endpoint, outcome, time.Since(started))
		}
	}()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(reqCtx); err != nil {
		outcome = "timeout"
		return nil, 0, crerr.Mark(crerr.Wrapf(usecase.ErrUpstreamTimeout, "%s: rate limiter: %v", endpoint, err), errESPNTransient)
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, fullURL, nil)
	if err != nil {
		outcome = "error"
		return nil, 0, crerr.Wrapf(err, "build %s request", endpoint)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			outcome = "timeout"
			return nil, 0, crerr.Mark(crerr.Wrapf(usecase.ErrUpstreamTimeout, "%s: %v", endpoint, err), errESPNTransient)
		}
		outcome = "transport"
		return nil, 0, crerr.Mark(crerr.Wrapf(usecase.ErrUpstreamBadStatus, "%s: send request: %v", endpoint, err), errESPNTransient)
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		if isTimeout(err) {
			outcome = "timeout"
			return nil, resp.StatusCode, crerr.Mark(crerr.Wrapf(usecase.ErrUpstreamTimeout, "%s: read body: %v", endpoint, err), errESPNTransient)
		}
		outcome = "transport"
		return nil, resp.StatusCode, crerr.Mark(crerr.Wrapf(usecase.ErrUpstreamMalformed, "%s: read body: %v", endpoint, err), errESPNTransient)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = "status_" + strconv.Itoa(resp.StatusCode)
		statusErr := crerr.Wrapf(usecase.ErrUpstreamBadStatus, "%s: provider returned %d body=%s", endpoint, resp.StatusCode, abbreviateBody(buf.B))
		if isRetryableStatus(resp.StatusCode) {
			statusErr = crerr.Mark(statusErr, errESPNTransient)
		}
		return nil, resp.StatusCode, statusErr
	}

	raw := make([]byte, buf.Len())
	copy(raw, buf.B)
	return raw, resp.StatusCode, nil
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > 240 {
		return text[:240] + "..."
	}
	return text
}

func trimBaseURL(raw, fallback string) string {
	value := strings.TrimRight(strings.TrimSpace(raw), "/")
	if value == "" {
		return fallback
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
