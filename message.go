package apsara

import "time"

// Message is a single conversation turn within a session.
// IDs are immutable and never reused within a session, even after an
// edit truncates later messages.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
}
