package universe

import (
	"sync"
	"time"

	"github.com/riskibarqy/dirty-thirty/internal/domain/game"
	"github.com/riskibarqy/dirty-thirty/internal/domain/gameday"
	"github.com/riskibarqy/dirty-thirty/internal/domain/player"
)

// Universe owns the games and players of one game day.
// Mutation goes through LockStarted and ApplyBoxScore; readers take snapshots.
type Universe struct {
	mu sync.RWMutex

	day         gameday.Day
	gameOrder   []string
	games       map[string]*game.Game
	playerOrder []string
	players     map[string]*player.Player
	byGame      map[string][]string
	teamCount   int
	applied     map[string]uint64
	generatedAt time.Time
	updatedAt   time.Time
}

// Snapshot is an immutable copy of the universe at one instant.
type Snapshot struct {
	Day         gameday.Day     `json:"date"`
	Games       []game.Game     `json:"games"`
	Players     []player.Player `json:"players"`
	TeamCount   int             `json:"teamCount"`
	LiveCount   int             `json:"liveCount"`
	NoGames     bool            `json:"noGames"`
	GeneratedAt time.Time       `json:"generatedAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ApplyResult describes what one box score changed.
type ApplyResult struct {
	Applied bool
	Stale   bool
	// Changed lists player IDs whose points or flags moved.
	Changed []string
}

func New(day gameday.Day, games []game.Game, players []player.Player, teamCount int, generatedAt time.Time) *Universe {
	u := &Universe{
		day:         day,
		gameOrder:   make([]string, 0, len(games)),
		games:       make(map[string]*game.Game, len(games)),
		playerOrder: make([]string, 0, len(players)),
		players:     make(map[string]*player.Player, len(players)),
		byGame:      make(map[string][]string, len(games)),
		teamCount:   teamCount,
		applied:     make(map[string]uint64, len(games)),
		generatedAt: generatedAt,
		updatedAt:   generatedAt,
	}

	for _, item := range games {
		if _, exists := u.games[item.ID]; exists {
			continue
		}
		g := item.Clone()
		u.games[g.ID] = &g
		u.gameOrder = append(u.gameOrder, g.ID)
	}
	for _, item := range players {
		if _, exists := u.players[item.ID]; exists {
			continue
		}
		if _, known := u.games[item.GameID]; !known {
			continue
		}
		p := item.Clone()
		u.players[p.ID] = &p
		u.playerOrder = append(u.playerOrder, p.ID)
		u.byGame[p.GameID] = append(u.byGame[p.GameID], p.ID)
	}

	return u
}

func (u *Universe) Day() gameday.Day {
	return u.day
}

func (u *Universe) GameIDs() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append([]string(nil), u.gameOrder...)
}

func (u *Universe) IsEmpty() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.gameOrder) == 0
}

func (u *Universe) Player(id string) (player.Player, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	p, ok := u.players[id]
	if !ok {
		return player.Player{}, false
	}
	return p.Clone(), true
}

func (u *Universe) Game(id string) (game.Game, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	g, ok := u.games[id]
	if !ok {
		return game.Game{}, false
	}
	return g.Clone(), true
}

func (u *Universe) LiveCount() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.liveCountLocked()
}

func (u *Universe) liveCountLocked() int {
	count := 0
	for _, id := range u.gameOrder {
		if u.games[id].IsLive() {
			count++
		}
	}
	return count
}

// HasTrackableGame reports whether any game can still change.
func (u *Universe) HasTrackableGame() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	for _, id := range u.gameOrder {
		if !u.games[id].IsOver() {
			return true
		}
	}
	return false
}

func (u *Universe) Snapshot() Snapshot {
	u.mu.RLock()
	defer u.mu.RUnlock()

	out := Snapshot{
		Day:         u.day,
		Games:       make([]game.Game, 0, len(u.gameOrder)),
		Players:     make([]player.Player, 0, len(u.playerOrder)),
		TeamCount:   u.teamCount,
		LiveCount:   u.liveCountLocked(),
		NoGames:     len(u.gameOrder) == 0,
		GeneratedAt: u.generatedAt,
		UpdatedAt:   u.updatedAt,
	}
	for _, id := range u.gameOrder {
		out.Games = append(out.Games, u.games[id].Clone())
	}
	for _, id := range u.playerOrder {
		out.Players = append(out.Players, u.players[id].Clone())
	}
	return out
}

// LockStarted locks every player whose game has tipped off by now. Returns the number newly locked.
func (u *Universe) LockStarted(now time.Time) int {
	u.mu.Lock()
	defer u.mu.Unlock()

	locked := 0
	for _, gameID := range u.gameOrder {
		if !u.games[gameID].StartedBy(now) {
			continue
		}
		for _, playerID := range u.byGame[gameID] {
			p := u.players[playerID]
			if !p.IsLocked {
				p.IsLocked = true
				locked++
			}
		}
	}
	if locked > 0 {
		u.updatedAt = now
	}
	return locked
}

// ApplyBoxScore merges one game's live state. A box score whose sequence is not newer
// than the last one applied to the same game is discarded as stale.
// Players missing from the box score keep their previous points.
func (u *Universe) ApplyBoxScore(seq uint64, box game.BoxScore, now time.Time) ApplyResult {
	u.mu.Lock()
	defer u.mu.Unlock()

	g, ok := u.games[box.GameID]
	if !ok {
		return ApplyResult{}
	}
	if last, seen := u.applied[box.GameID]; seen && seq <= last {
		return ApplyResult{Stale: true}
	}
	u.applied[box.GameID] = seq

	if box.StatusName != "" {
		g.StatusName = box.StatusName
		g.Status = box.Status()
	}
	if box.Clock != "" {
		g.ClockDisplay = box.Clock
	}
	if box.Period > 0 {
		g.Period = box.Period
	}
	for i := range g.Teams {
		if score, has := box.TeamScores[g.Teams[i].ID]; has {
			v := score
			g.Teams[i].LiveScore = &v
		}
	}

	lockGame := game.IsLockedStatus(g.StatusName) || g.StartedBy(now)
	changed := make([]string, 0, len(u.byGame[g.ID]))
	for _, playerID := range u.byGame[g.ID] {
		p := u.players[playerID]
		before := *p
		beforePoints := p.Points

		p.IsLive = g.IsLive()
		p.IsOver = g.IsOver()
		p.IsLocked = p.IsLocked || lockGame
		if pts, has := box.Points[p.AthleteID]; has {
			v := pts
			p.Points = &v
		}

		if before.IsLive != p.IsLive || before.IsOver != p.IsOver || before.IsLocked != p.IsLocked ||
			!samePoints(beforePoints, p.Points) {
			changed = append(changed, playerID)
		}
	}

	u.updatedAt = now
	return ApplyResult{Applied: true, Changed: changed}
}

func samePoints(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
