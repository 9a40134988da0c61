package domain

import "time"

// ActivityEntry is an advisory audit record of a user-visible action
// (sign-up, sign-in, payment recorded). Entries are written asynchronously
// and may be lost under pressure; nothing correctness-critical reads them.
type ActivityEntry struct {
	UserID    string            `bson:"user_id"`
	Action    string            `bson:"action"`
	Metadata  map[string]string `bson:"metadata,omitempty"`
	CreatedAt time.Time         `bson:"created_at"`
}
