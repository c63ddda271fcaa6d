package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweetconnect/messaging-system/internal/core/domain"
	"github.com/sweetconnect/messaging-system/internal/core/ports"
	"github.com/sweetconnect/messaging-system/internal/infrastructure/db/sqlite"
)

func newSQLiteAuthService(t *testing.T) (*AuthService, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	resolver := NewIdentityResolver(store, nil, zerolog.Nop())
	svc := NewAuthService(store, store, resolver, &recordingNotifier{}, AuthOptions{
		JWTSecret:         "secret",
		TokenTTL:          time.Hour,
		SharedDisplayName: "Tharun",
	}, zerolog.Nop())
	return svc, store
}

func TestAuthService_Register_ConcurrentCorrespondents(t *testing.T) {
	svc, store := newSQLiteAuthService(t)
	ctx := context.Background()

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
		other     []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Register(ctx, ports.RegisterInput{
				Email:    fmt.Sprintf("s%d@example.com", i),
				Password: "pass123",
				Role:     string(domain.RoleCorrespondent),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrRoleTaken):
				rejected++
			default:
				other = append(other, err)
			}
		}(i)
	}
	wg.Wait()

	if len(other) > 0 {
		t.Fatalf("unexpected errors: %v", other)
	}
	if succeeded != 1 || rejected != n-1 {
		t.Fatalf("expected 1 registration and %d ErrRoleTaken, got %d and %d", n-1, succeeded, rejected)
	}
	holders, err := store.FindByRole(ctx, domain.RoleCorrespondent)
	if err != nil {
		t.Fatalf("find by role: %v", err)
	}
	if len(holders) != 1 {
		t.Fatalf("expected 1 correspondent stored, got %d", len(holders))
	}
}

func TestAuthService_EnsureSeedUsers_KeepsSingleCorrespondent(t *testing.T) {
	svc, store := newSQLiteAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, ports.RegisterInput{Email: "first@example.com", Password: "pass123", Role: "correspondent"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	seeds := []ports.SeedUser{
		{Email: "other@example.com", Password: "seed123", Name: "Shrreya", Role: domain.RoleCorrespondent},
	}
	if err := svc.EnsureSeedUsers(ctx, seeds); err != nil {
		t.Fatalf("seed: %v", err)
	}

	holders, err := store.FindByRole(ctx, domain.RoleCorrespondent)
	if err != nil {
		t.Fatalf("find by role: %v", err)
	}
	if len(holders) != 1 || holders[0].Email != "first@example.com" {
		t.Fatalf("expected only the registered correspondent, got %+v", holders)
	}
}
