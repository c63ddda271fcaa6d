package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/sweetconnect/messaging-system/internal/core/domain"
	"github.com/sweetconnect/messaging-system/internal/core/ports"
)

var (
	_ ports.UserRepository     = (*UserRepository)(nil)
	_ ports.MessageRepository  = (*MessageRepository)(nil)
	_ ports.ActivityRepository = (*ActivityRepository)(nil)
)

// Requires a reachable MongoDB; set MONGO_TEST_URI to run.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()
	dbName := fmt.Sprintf("sweetconnect_test_%d", time.Now().UnixNano())
	s, err := Open(ctx, Config{URI: uri, Database: dbName})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		_ = s.client.Database(dbName).Drop(ctx)
		_ = s.Close(ctx)
	})
	return s
}

func TestUserRepository_SingleCorrespondent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Users.Create(ctx, &domain.User{ID: "S1", Email: "s1@example.com", Role: domain.RoleCorrespondent, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("create correspondent: %v", err)
	}
	_, err := s.Users.Create(ctx, &domain.User{ID: "S2", Email: "s2@example.com", Role: domain.RoleCorrespondent, CreatedAt: time.Now()})
	if !errors.Is(err, domain.ErrRoleTaken) {
		t.Fatalf("expected ErrRoleTaken, got %v", err)
	}
	_, err = s.Users.Create(ctx, &domain.User{ID: "U1", Email: "s1@example.com", Role: domain.RoleShared, CreatedAt: time.Now()})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	for i := 0; i < 2; i++ {
		u := &domain.User{ID: fmt.Sprintf("U%d", i+2), Email: fmt.Sprintf("u%d@example.com", i), Role: domain.RoleShared, CreatedAt: time.Now()}
		if _, err := s.Users.Create(ctx, u); err != nil {
			t.Fatalf("create shared %d: %v", i, err)
		}
	}
}

func TestMessageRepository_HistoryAppliesCap(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < domain.HistoryCap+5; i++ {
		err := s.Messages.Append(ctx, &domain.Message{
			ID:         fmt.Sprintf("m%03d", i),
			SenderID:   "U1",
			ReceiverID: "S1",
			Content:    "hi",
			Kind:       domain.DefaultMessageKind,
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got, err := s.Messages.History(ctx, "S1", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(got) != domain.HistoryCap {
		t.Fatalf("expected %d messages, got %d", domain.HistoryCap, len(got))
	}
	if got[0].ID != fmt.Sprintf("m%03d", domain.HistoryCap+4) {
		t.Errorf("expected newest first, got %s", got[0].ID)
	}
}
