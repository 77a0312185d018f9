package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/riskibarqy/dirty-thirty/internal/infrastructure/repository/kvrepo"
	"github.com/riskibarqy/dirty-thirty/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/dirty-thirty/internal/usecase"
)

func TestUserService_RegisterIsIdempotentPerEmail(t *testing.T) {
	t.Parallel()

	svc := usecase.NewUserService(kvrepo.NewUserRepository(memory.NewKVStore()))
	ctx := context.Background()

	first, err := svc.Register(ctx, "Jane", "Jane.Doe@Example.com")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if first.ID != "user_jane_doe_example_com" || first.Email != "jane.doe@example.com" {
		t.Fatalf("unexpected user %+v", first)
	}

	second, err := svc.Register(ctx, "Jane D", "jane.doe@example.com")
	if err != nil {
		t.Fatalf("register again: %v", err)
	}
	if second.ID != first.ID || second.Name != "Jane D" || !second.JoinedAt.Equal(first.JoinedAt) {
		t.Fatalf("re-register must keep id and join time, got %+v", second)
	}

	got, err := svc.Get(ctx, first.ID)
	if err != nil || got.Name != "Jane D" {
		t.Fatalf("get: %+v err=%v", got, err)
	}
}

func TestUserService_RegisterValidation(t *testing.T) {
	t.Parallel()

	svc := usecase.NewUserService(kvrepo.NewUserRepository(memory.NewKVStore()))
	cases := []struct {
		name, userName, email string
	}{
		{name: "empty name", userName: "  ", email: "a@example.com"},
		{name: "long name", userName: strings.Repeat("x", 61), email: "a@example.com"},
		{name: "bad email", userName: "A", email: "not-an-email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.userName, tc.email); !errors.Is(err, usecase.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestUserService_GetErrors(t *testing.T) {
	t.Parallel()

	svc := usecase.NewUserService(kvrepo.NewUserRepository(memory.NewKVStore()))
	if _, err := svc.Get(context.Background(), ""); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "user_nobody"); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
