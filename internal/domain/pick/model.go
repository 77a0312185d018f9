package pick

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/dirty-thirty/internal/domain/gameday"
)

// MaxSlots is the number of players one user may pick per day.
const MaxSlots = 2

const keyPrefix = "picks:"

type Slot struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Points     *int   `json:"points"`
}

// Pick is one user's selection for one game day.
type Pick struct {
	UserID    string      `json:"userId"`
	UserName  string      `json:"userName"`
	Date      gameday.Day `json:"date"`
	Slot1     *Slot       `json:"slot1"`
	Slot2     *Slot       `json:"slot2"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Slots returns the two slots in order, nil for empty ones.
func (p Pick) Slots() [MaxSlots]*Slot {
	return [MaxSlots]*Slot{p.Slot1, p.Slot2}
}

func (p *Pick) SetSlot(index int, slot *Slot) {
	switch index {
	case 0:
		p.Slot1 = slot
	case 1:
		p.Slot2 = slot
	}
}

// SlotOf returns the slot index holding playerID, or -1.
func (p Pick) SlotOf(playerID string) int {
	for i, slot := range p.Slots() {
		if slot != nil && slot.PlayerID == playerID {
			return i
		}
	}
	return -1
}

// FirstFree returns the first empty slot index, or -1 when both are filled.
func (p Pick) FirstFree() int {
	for i, slot := range p.Slots() {
		if slot == nil {
			return i
		}
	}
	return -1
}

func (p Pick) IsEmpty() bool {
	return p.Slot1 == nil && p.Slot2 == nil
}

// Record is the flat persisted form.
type Record struct {
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Date      string    `json:"date"`
	P1ID      string    `json:"p1Id,omitempty"`
	P1Name    string    `json:"p1Name,omitempty"`
	P1Pts     *int      `json:"p1pts"`
	P2ID      string    `json:"p2Id,omitempty"`
	P2Name    string    `json:"p2Name,omitempty"`
	P2Pts     *int      `json:"p2pts"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p Pick) ToRecord() Record {
	rec := Record{
		UserID:    p.UserID,
		UserName:  p.UserName,
		Date:      p.Date.String(),
		UpdatedAt: p.UpdatedAt,
	}
	if p.Slot1 != nil {
		rec.P1ID, rec.P1Name, rec.P1Pts = p.Slot1.PlayerID, p.Slot1.PlayerName, copyInt(p.Slot1.Points)
	}
	if p.Slot2 != nil {
		rec.P2ID, rec.P2Name, rec.P2Pts = p.Slot2.PlayerID, p.Slot2.PlayerName, copyInt(p.Slot2.Points)
	}
	return rec
}

func FromRecord(rec Record) Pick {
	out := Pick{
		UserID:    rec.UserID,
		UserName:  rec.UserName,
		Date:      gameday.Day(rec.Date),
		UpdatedAt: rec.UpdatedAt,
	}
	if rec.P1ID != "" {
		out.Slot1 = &Slot{PlayerID: rec.P1ID, PlayerName: rec.P1Name, Points: copyInt(rec.P1Pts)}
	}
	if rec.P2ID != "" {
		out.Slot2 = &Slot{PlayerID: rec.P2ID, PlayerName: rec.P2Name, Points: copyInt(rec.P2Pts)}
	}
	return out
}

// Key is the store key for one user's pick on one day.
func Key(userID string, day gameday.Day) string {
	return keyPrefix + userID + ":" + day.String()
}

// KeyPrefix is the prefix shared by every pick key.
func KeyPrefix() string {
	return keyPrefix
}

// MatchesDay reports whether a listed key belongs to the given day.
func MatchesDay(key string, day gameday.Day) bool {
	return strings.HasPrefix(key, keyPrefix) && strings.HasSuffix(key, ":"+day.String())
}

type Repository interface {
	Get(ctx context.Context, userID string, day gameday.Day) (Pick, bool, error)
	Save(ctx context.Context, p Pick) error
	ListByDay(ctx context.Context, day gameday.Day) ([]Pick, error)
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
