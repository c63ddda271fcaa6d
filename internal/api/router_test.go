package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/sweetconnect/messaging-system/internal/api/handler"
	"github.com/sweetconnect/messaging-system/internal/core/domain"
	"github.com/sweetconnect/messaging-system/internal/core/ports"
	"github.com/sweetconnect/messaging-system/internal/infrastructure/realtime"
)

type stubAuth struct{}

func (stubAuth) Register(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
	return nil, domain.ErrRoleTaken
}
func (stubAuth) Login(context.Context, string, string) (*ports.AuthResult, error) {
	return nil, domain.ErrInvalidCredentials
}
func (stubAuth) Profile(_ context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id}, nil
}
func (stubAuth) ListUsers(context.Context) ([]*domain.User, error) {
	return []*domain.User{{ID: "A1", Role: domain.RoleAdmin}}, nil
}

type stubMessages struct{}

func (stubMessages) Submit(context.Context, ports.SubmitMessageInput) (*ports.SubmitMessageResult, error) {
	return nil, domain.ErrNoCounterparty
}
func (stubMessages) History(context.Context, string, int) ([]ports.MessageView, error) {
	return nil, nil
}

type stubActivities struct{}

func (stubActivities) Log(context.Context, ports.LogActivityInput) (*domain.Activity, error) {
	return &domain.Activity{ID: "act-1"}, nil
}

func newTestRouter() http.Handler {
	return NewRouter(Deps{
		Auth:           stubAuth{},
		Messages:       stubMessages{},
		Activities:     stubActivities{},
		Hub:            realtime.NewHub(nil, realtime.ClientConfig{}, zerolog.Nop()),
		Readiness:      map[string]handler.Pinger{},
		JWTSecret:      "secret",
		AllowedOrigins: []string{"http://localhost:3000"},
		CheckOrigin:    func(*http.Request) bool { return true },
		Log:            zerolog.Nop(),
	})
}

func bearer(t *testing.T, sub string, role domain.Role) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub, "role": string(role), "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + tok
}

func serve(r http.Handler, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter()
	admin := bearer(t, "A1", domain.RoleAdmin)
	shared := bearer(t, "U1", domain.RoleShared)

	cases := []struct {
		name   string
		method string
		path   string
		auth   string
		body   string
		want   int
	}{
		{"liveness", http.MethodGet, "/health", "", "", http.StatusOK},
		{"readiness", http.MethodGet, "/health/ready", "", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK},
		{"profile requires auth", http.MethodGet, "/api/profile", "", "", http.StatusUnauthorized},
		{"profile", http.MethodGet, "/api/profile", shared, "", http.StatusOK},
		{"users admin only", http.MethodGet, "/api/users", shared, "", http.StatusForbidden},
		{"users as admin", http.MethodGet, "/api/users", admin, "", http.StatusOK},
		{"no counterparty", http.MethodPost, "/api/messages", shared, `{"content":"hi"}`, http.StatusUnprocessableEntity},
		{"history", http.MethodGet, "/api/messages", shared, "", http.StatusOK},
		{"activity", http.MethodPost, "/api/activities", shared, `{"activity_type":"x"}`, http.StatusCreated},
		{"role taken", http.MethodPost, "/api/register", "", `{"email":"s@example.com","password":"secret1","role":"correspondent"}`, http.StatusConflict},
		{"bad login", http.MethodPost, "/api/login", "", `{"email":"s@example.com","password":"nope"}`, http.StatusUnauthorized},
		{"ws without token", http.MethodGet, "/ws", "", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		rec := serve(r, tc.method, tc.path, tc.auth, tc.body)
		if rec.Code != tc.want {
			t.Errorf("%s: expected %d, got %d (%s)", tc.name, tc.want, rec.Code, rec.Body.String())
		}
	}
}
