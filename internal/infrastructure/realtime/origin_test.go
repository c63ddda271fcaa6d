package realtime

import (
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestOriginChecker(t *testing.T) {
	checker := NewOriginChecker([]string{"http://LOCALHOST:3000", "not-a-url", ""}, zerolog.Nop())

	cases := map[string]bool{
		"http://localhost:3000":  true,
		"https://localhost:3000": false,
		"http://evil.example":    false,
		"":                       false,
	}
	for origin, want := range cases {
		r := httptest.NewRequest("GET", "/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		if got := checker.Check(r); got != want {
			t.Errorf("origin %q: expected %v, got %v", origin, want, got)
		}
	}
}

func TestOriginChecker_Wildcard(t *testing.T) {
	checker := NewOriginChecker([]string{"*"}, zerolog.Nop())

	r := httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Origin", "https://anywhere.example")
	if !checker.Check(r) {
		t.Fatal("expected wildcard to allow any origin")
	}
}
