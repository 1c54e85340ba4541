package history

import (
	"encoding/json"
	"fmt"
	"time"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
)

// record is the persisted wire format for a session, one record per
// session id. Readers ignore unknown fields; absent optional fields take
// their zero defaults, so the format stays backward-readable.
type record struct {
	SessionID         string       `json:"session_id"`
	CreatedAt         time.Time    `json:"created_at"`
	Model             *string      `json:"model"`
	SystemInstruction *string      `json:"system_instruction"`
	ToolsEnabled      bool         `json:"tools_enabled"`
	Messages          []messageDTO `json:"messages"`
}

type messageDTO struct {
	MessageID string    `json:"message_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// MarshalRecord serializes a session to its persisted JSON form.
func MarshalRecord(s *apsara.Session) ([]byte, error) {
	rec := record{
		SessionID:    s.ID,
		CreatedAt:    s.CreatedAt,
		ToolsEnabled: s.ToolsEnabled,
		Messages:     make([]messageDTO, len(s.Messages)),
	}
	if s.Model != "" {
		rec.Model = &s.Model
	}
	if s.SystemInstruction != "" {
		rec.SystemInstruction = &s.SystemInstruction
	}
	for i, m := range s.Messages {
		rec.Messages[i] = messageDTO{
			MessageID: m.ID,
			Role:      string(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		}
	}
	return json.MarshalIndent(rec, "", "  ")
}

// UnmarshalRecord deserializes a session from its persisted JSON form.
func UnmarshalRecord(data []byte) (*apsara.Session, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	s := &apsara.Session{
		ID:           rec.SessionID,
		CreatedAt:    rec.CreatedAt,
		ToolsEnabled: rec.ToolsEnabled,
		Messages:     make([]apsara.Message, len(rec.Messages)),
	}
	if rec.Model != nil {
		s.Model = *rec.Model
	}
	if rec.SystemInstruction != nil {
		s.SystemInstruction = *rec.SystemInstruction
	}
	for i, m := range rec.Messages {
		s.Messages[i] = apsara.Message{
			ID:        m.MessageID,
			Role:      apsara.Role(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		}
	}
	return s, nil
}
