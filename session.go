package apsara

import "time"

// Session represents a durable conversation addressed by an opaque id.
// Model and SystemInstruction are empty until bound by the first message
// that supplies them. ToolsEnabled is monotonic: once a turn enables
// tools, the session keeps them enabled.
type Session struct {
	ID                string
	CreatedAt         time.Time
	Model             string
	SystemInstruction string
	ToolsEnabled      bool
	Messages          []Message
}

// SessionSummary is the listing projection of a session.
type SessionSummary struct {
	ID           string
	CreatedAt    time.Time
	Model        string
	MessageCount int
}

// Summary returns the listing projection of s.
func (s *Session) Summary() SessionSummary {
	return SessionSummary{
		ID:           s.ID,
		CreatedAt:    s.CreatedAt,
		Model:        s.Model,
		MessageCount: len(s.Messages),
	}
}
