package user

import (
	"context"
	"strings"
	"time"
	"unicode"
)

const idPrefix = "user_"

type User struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joinedAt"`
}

// IDFromEmail derives a stable user id: every non-alphanumeric rune becomes "_" and the result is lowercased.
func IDFromEmail(email string) string {
	var b strings.Builder
	b.Grow(len(idPrefix) + len(email))
	b.WriteString(idPrefix)
	for _, r := range strings.TrimSpace(email) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}

// Key is the store key for one user.
func Key(userID string) string {
	return "users:" + userID
}

type Repository interface {
	Get(ctx context.Context, userID string) (User, bool, error)
	Save(ctx context.Context, u User) error
}
