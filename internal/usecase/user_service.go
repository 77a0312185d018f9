package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/riskibarqy/dirty-thirty/internal/domain/user"
)

const maxUserNameLength = 60

type UserService struct {
	users user.Repository
	now   func() time.Time
}

func NewUserService(users user.Repository) *UserService {
	return &UserService{users: users, now: time.Now}
}

// Register creates the user or refreshes the display name of an existing one. Registration is idempotent per email.
func (s *UserService) Register(ctx context.Context, name, email string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Register")
	defer span.End()

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || len([]rune(name)) > maxUserNameLength {
		return user.User{}, fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidInput, maxUserNameLength)
	}
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return user.User{}, fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}

	id := user.IDFromEmail(email)
	existing, exists, err := s.users.Get(ctx, id)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}

	item := user.User{
		ID:       id,
		Name:     name,
		Email:    strings.ToLower(email),
		JoinedAt: s.now().UTC(),
	}
	if exists {
		item.JoinedAt = existing.JoinedAt
	}
	if err := s.users.Save(ctx, item); err != nil {
		return user.User{}, fmt.Errorf("save user: %w", err)
	}
	return item, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Get")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	item, exists, err := s.users.Get(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user %s is not registered", ErrNotFound, userID)
	}
	return item, nil
}
