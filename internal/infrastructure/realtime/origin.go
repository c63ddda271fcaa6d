package realtime

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// OriginChecker decides which browser origins may open a push connection.
type OriginChecker struct {
	allowed  map[string]struct{}
	allowAll bool
	log      zerolog.Logger
}

// NewOriginChecker accepts scheme://host entries; "*" allows every origin.
// Invalid entries are logged and ignored.
func NewOriginChecker(origins []string, log zerolog.Logger) *OriginChecker {
	c := &OriginChecker{allowed: make(map[string]struct{}), log: log}
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		if trimmed == "*" {
			c.allowAll = true
			continue
		}
		normalized, ok := normalizeOrigin(trimmed)
		if !ok {
			log.Warn().Str("origin", origin).Msg("ignoring invalid origin in configuration")
			continue
		}
		c.allowed[normalized] = struct{}{}
	}
	return c
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil {
		return "", false
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}

// Check is suitable for websocket.Upgrader.CheckOrigin.
func (c *OriginChecker) Check(r *http.Request) bool {
	header := r.Header.Get("Origin")
	if header != "" {
		if c.allowAll {
			return true
		}
		if normalized, ok := normalizeOrigin(header); ok {
			if _, exists := c.allowed[normalized]; exists {
				return true
			}
		}
	}
	c.log.Warn().Str("origin", header).Msg("blocked push connection from disallowed origin")
	return false
}
