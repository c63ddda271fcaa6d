package domain

import "time"

const (
	// DefaultMessageKind is applied when the sender leaves the kind empty.
	DefaultMessageKind = "message"
	// HistoryCap bounds every history read; older messages are not reachable.
	HistoryCap = 50
)

// Message is an immutable record of one routed message. ReceiverID is fixed
// at creation and never re-resolved.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	Kind       string    `json:"type"`
	CreatedAt  time.Time `json:"created_at"`
}

// ClampHistoryLimit maps a requested limit onto [1, HistoryCap].
func ClampHistoryLimit(limit int) int {
	if limit <= 0 || limit > HistoryCap {
		return HistoryCap
	}
	return limit
}
