package domain

import "time"

// ActivityLogin is recorded on every successful login.
const ActivityLogin = "login"

// Activity is a logged side-channel event. It triggers notifications but is
// never pushed over the live channel.
type Activity struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"activity_type"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}
