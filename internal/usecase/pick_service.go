package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/dirty-thirty/internal/domain/gameday"
	"github.com/riskibarqy/dirty-thirty/internal/domain/leaderboard"
	"github.com/riskibarqy/dirty-thirty/internal/domain/pick"
	"github.com/riskibarqy/dirty-thirty/internal/domain/player"
	"github.com/riskibarqy/dirty-thirty/internal/domain/universe"
	"github.com/riskibarqy/dirty-thirty/internal/domain/user"
	"github.com/riskibarqy/dirty-thirty/internal/platform/logging"
	"github.com/riskibarqy/dirty-thirty/internal/platform/resilience"
)

// UniverseProvider returns the player universe of a game day, aggregating it when needed.
type UniverseProvider interface {
	UniverseFor(ctx context.Context, day gameday.Day) (*universe.Universe, error)
}

type SavePickInput struct {
	UserID        string
	Date          gameday.Day
	Slot1PlayerID string
	Slot2PlayerID string
}

// ResolvedSlot is a saved slot joined with its live player, when the universe still knows it.
type ResolvedSlot struct {
	PlayerID   string         `json:"playerId"`
	PlayerName string         `json:"playerName"`
	Points     *int           `json:"points"`
	Player     *player.Player `json:"player,omitempty"`
}

type PickView struct {
	UserID    string              `json:"userId"`
	UserName  string              `json:"userName"`
	Date      gameday.Day         `json:"date"`
	Slot1     *ResolvedSlot       `json:"slot1"`
	Slot2     *ResolvedSlot       `json:"slot2"`
	Total     *int                `json:"total"`
	Outcome   leaderboard.Outcome `json:"outcome"`
	UpdatedAt time.Time           `json:"updatedAt,omitempty"`
	Exists    bool                `json:"exists"`
}

type PickService struct {
	picks     pick.Repository
	users     user.Repository
	universes UniverseProvider
	logger    *logging.Logger
	now       func() time.Time
	// locks serializes read-modify-write of one user's pick for one day.
	locks resilience.KeyedMutex
}

func NewPickService(picks pick.Repository, users user.Repository, universes UniverseProvider, logger *logging.Logger) *PickService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PickService{
		picks:     picks,
		users:     users,
		universes: universes,
		logger:    logger.Named("picks"),
		now:       time.Now,
	}
}

func (s *PickService) Get(ctx context.Context, userID string, day gameday.Day) (PickView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.Get")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" || day.IsZero() {
		return PickView{}, fmt.Errorf("%w: user id and date are required", ErrInvalidInput)
	}

	item, exists, err := s.picks.Get(ctx, userID, day)
	if err != nil {
		return PickView{}, fmt.Errorf("get pick: %w", err)
	}
	if !exists {
		item = pick.Pick{UserID: userID, Date: day}
	}

	view := s.resolve(item, s.lookupUniverse(ctx, day))
	view.Exists = exists
	return view, nil
}

// Save upserts both slots at once. Slots whose player did not change are kept even if the player locked since.
func (s *PickService) Save(ctx context.Context, input SavePickInput) (PickView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.Save")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.Slot1PlayerID = strings.TrimSpace(input.Slot1PlayerID)
	input.Slot2PlayerID = strings.TrimSpace(input.Slot2PlayerID)
	if input.UserID == "" || input.Date.IsZero() {
		return PickView{}, fmt.Errorf("%w: user id and date are required", ErrInvalidInput)
	}
	if input.Slot1PlayerID != "" && input.Slot1PlayerID == input.Slot2PlayerID {
		return PickView{}, fmt.Errorf("%w: the same player cannot fill both slots", ErrInvalidInput)
	}

	owner, err := s.loadUser(ctx, input.UserID)
	if err != nil {
		return PickView{}, err
	}
	unlock := s.locks.Lock(pick.Key(owner.ID, input.Date))
	defer unlock()

	current, err := s.currentPick(ctx, owner, input.Date)
	if err != nil {
		return PickView{}, err
	}
	u, err := s.universes.UniverseFor(ctx, input.Date)
	if err != nil {
		return PickView{}, fmt.Errorf("load players for date=%s: %w", input.Date, err)
	}

	now := s.now()
	next := current
	for i, playerID := range [pick.MaxSlots]string{input.Slot1PlayerID, input.Slot2PlayerID} {
		existing := current.Slots()[i]
		if existing != nil && existing.PlayerID == playerID {
			continue
		}
		if playerID == "" {
			next.SetSlot(i, nil)
			continue
		}
		slot, err := selectableSlot(u, playerID, now)
		if err != nil {
			return PickView{}, err
		}
		next.SetSlot(i, slot)
	}

	return s.store(ctx, next, u)
}

// Toggle removes playerID from its slot, or adds it to the first free slot.
func (s *PickService) Toggle(ctx context.Context, userID string, day gameday.Day, playerID string) (PickView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.Toggle")
	defer span.End()

	userID = strings.TrimSpace(userID)
	playerID = strings.TrimSpace(playerID)
	if userID == "" || day.IsZero() || playerID == "" {
		return PickView{}, fmt.Errorf("%w: user id, date and player id are required", ErrInvalidInput)
	}

	owner, err := s.loadUser(ctx, userID)
	if err != nil {
		return PickView{}, err
	}
	unlock := s.locks.Lock(pick.Key(owner.ID, day))
	defer unlock()

	current, err := s.currentPick(ctx, owner, day)
	if err != nil {
		return PickView{}, err
	}
	u, err := s.universes.UniverseFor(ctx, day)
	if err != nil {
		return PickView{}, fmt.Errorf("load players for date=%s: %w", day, err)
	}

	if idx := current.SlotOf(playerID); idx >= 0 {
		current.SetSlot(idx, nil)
		return s.store(ctx, current, u)
	}

	idx := current.FirstFree()
	if idx < 0 {
		return PickView{}, fmt.Errorf("%w: both slots are already filled", ErrInvalidInput)
	}
	slot, err := selectableSlot(u, playerID, s.now())
	if err != nil {
		return PickView{}, err
	}
	current.SetSlot(idx, slot)
	return s.store(ctx, current, u)
}

// RefreshPoints copies live points into every saved pick of the day. Only picks with a changed slot are written.
// Each pick is re-read under its lock so a selection saved after the listing is never overwritten.
func (s *PickService) RefreshPoints(ctx context.Context, day gameday.Day, snap universe.Snapshot) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.RefreshPoints")
	defer span.End()

	items, err := s.picks.ListByDay(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("list picks for refresh: %w", err)
	}
	if len(items) == 0 {
		return 0, nil
	}

	byID := make(map[string]player.Player, len(snap.Players))
	for _, p := range snap.Players {
		byID[p.ID] = p
	}

	written := 0
	for _, listed := range items {
		ok, err := s.refreshOne(ctx, listed.UserID, day, byID)
		if err != nil {
			s.logger.WarnContext(ctx, "refresh pick points failed", "user_id", listed.UserID, "date", day.String(), "error", err)
			continue
		}
		if ok {
			written++
		}
	}
	return written, nil
}

func (s *PickService) refreshOne(ctx context.Context, userID string, day gameday.Day, live map[string]player.Player) (bool, error) {
	unlock := s.locks.Lock(pick.Key(userID, day))
	defer unlock()

	item, exists, err := s.picks.Get(ctx, userID, day)
	if err != nil {
		return false, fmt.Errorf("reload pick: %w", err)
	}
	if !exists {
		return false, nil
	}

	changed := false
	for _, slot := range item.Slots() {
		if slot == nil {
			continue
		}
		p, ok := live[slot.PlayerID]
		if !ok || p.Points == nil {
			continue
		}
		if slot.Points == nil || *slot.Points != *p.Points {
			v := *p.Points
			slot.Points = &v
			changed = true
		}
	}
	if !changed {
		return false, nil
	}
	if err := s.picks.Save(ctx, item); err != nil {
		return false, err
	}
	return true, nil
}

// LeaderboardEntries lists the day's non-empty picks in store order. Points come from the live player, else the saved slot.
func (s *PickService) LeaderboardEntries(ctx context.Context, day gameday.Day) ([]leaderboard.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.LeaderboardEntries")
	defer span.End()

	if day.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	items, err := s.picks.ListByDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("list picks for leaderboard: %w", err)
	}

	u := s.lookupUniverse(ctx, day)
	out := make([]leaderboard.Entry, 0, len(items))
	for _, item := range items {
		if item.IsEmpty() {
			continue
		}
		view := s.resolve(item, u)
		out = append(out, leaderboard.NewEntry(
			view.UserID,
			view.UserName,
			slotName(view.Slot1), slotPoints(view.Slot1),
			slotName(view.Slot2), slotPoints(view.Slot2),
		))
	}
	return out, nil
}

func (s *PickService) store(ctx context.Context, item pick.Pick, u *universe.Universe) (PickView, error) {
	item.UpdatedAt = s.now().UTC()
	if err := s.picks.Save(ctx, item); err != nil {
		return PickView{}, fmt.Errorf("save pick: %w", err)
	}
	view := s.resolve(item, u)
	view.Exists = true
	return view, nil
}

func (s *PickService) loadUser(ctx context.Context, userID string) (user.User, error) {
	owner, exists, err := s.users.Get(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user %s is not registered", ErrNotFound, userID)
	}
	return owner, nil
}

func (s *PickService) currentPick(ctx context.Context, owner user.User, day gameday.Day) (pick.Pick, error) {
	item, exists, err := s.picks.Get(ctx, owner.ID, day)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("get pick: %w", err)
	}
	if !exists {
		item = pick.Pick{UserID: owner.ID, Date: day}
	}
	item.UserName = owner.Name
	return item, nil
}

// lookupUniverse is best effort: reads fall back to saved slot data without a universe.
func (s *PickService) lookupUniverse(ctx context.Context, day gameday.Day) *universe.Universe {
	if s.universes == nil {
		return nil
	}
	u, err := s.universes.UniverseFor(ctx, day)
	if err != nil {
		s.logger.WarnContext(ctx, "player universe unavailable, using saved pick data", "date", day.String(), "error", err)
		return nil
	}
	return u
}

func (s *PickService) resolve(item pick.Pick, u *universe.Universe) PickView {
	view := PickView{
		UserID:    item.UserID,
		UserName:  item.UserName,
		Date:      item.Date,
		Slot1:     resolveSlot(item.Slot1, u),
		Slot2:     resolveSlot(item.Slot2, u),
		UpdatedAt: item.UpdatedAt,
	}
	entry := leaderboard.NewEntry(item.UserID, item.UserName, "", slotPoints(view.Slot1), "", slotPoints(view.Slot2))
	view.Total = entry.Total
	view.Outcome = leaderboard.Classify(entry.Total)
	return view
}

func resolveSlot(slot *pick.Slot, u *universe.Universe) *ResolvedSlot {
	if slot == nil {
		return nil
	}
	out := &ResolvedSlot{
		PlayerID:   slot.PlayerID,
		PlayerName: slot.PlayerName,
		Points:     slot.Points,
	}
	if u == nil {
		return out
	}
	live, ok := u.Player(slot.PlayerID)
	if !ok {
		return out
	}
	out.Player = &live
	if live.DisplayName != "" {
		out.PlayerName = live.DisplayName
	}
	if live.Points != nil {
		out.Points = live.Points
	}
	return out
}

// selectableSlot rejects players whose game has locked, including a tip-off the reconciler has not flagged yet.
func selectableSlot(u *universe.Universe, playerID string, now time.Time) (*pick.Slot, error) {
	p, ok := u.Player(playerID)
	if !ok {
		return nil, fmt.Errorf("%w: player %s is not playing on %s", ErrNotFound, playerID, u.Day())
	}
	if p.IsLocked || (!p.GameStart.IsZero() && !now.Before(p.GameStart)) {
		return nil, fmt.Errorf("%w: %s already tipped off", ErrPlayerLocked, p.DisplayName)
	}
	return &pick.Slot{PlayerID: p.ID, PlayerName: p.DisplayName, Points: p.Points}, nil
}

func slotName(slot *ResolvedSlot) string {
	if slot == nil {
		return ""
	}
	return slot.PlayerName
}

func slotPoints(slot *ResolvedSlot) *int {
	if slot == nil {
		return nil
	}
	return slot.Points
}
