package httpapi

import (
	"encoding/base64"
	"net/http"
	"time"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
	"github.com/shubharthaksangharsha/apsara2.5/engine"
)

// Wire representations. Binary media crosses the wire base64-encoded.

type messageJSON struct {
	ID        string    `json:"message_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type sessionJSON struct {
	ID                string        `json:"session_id"`
	CreatedAt         time.Time     `json:"created_at"`
	Model             *string       `json:"model"`
	SystemInstruction *string       `json:"system_instruction"`
	ToolsEnabled      bool          `json:"tools_enabled"`
	Messages          []messageJSON `json:"messages"`
}

type summaryJSON struct {
	ID           string    `json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
	Model        *string   `json:"model"`
	MessageCount int       `json:"message_count"`
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toMessageJSON(m apsara.Message) messageJSON {
	return messageJSON{
		ID:        m.ID,
		Role:      string(m.Role),
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
}

func toSessionJSON(sess *apsara.Session) sessionJSON {
	out := sessionJSON{
		ID:                sess.ID,
		CreatedAt:         sess.CreatedAt,
		Model:             optString(sess.Model),
		SystemInstruction: optString(sess.SystemInstruction),
		ToolsEnabled:      sess.ToolsEnabled,
		Messages:          []messageJSON{},
	}
	for _, m := range sess.Messages {
		out.Messages = append(out.Messages, toMessageJSON(m))
	}
	return out
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if id := r.URL.Query().Get("session_id"); id != "" {
		req.SessionID = id
	} else if r.Body != nil && r.ContentLength > 0 {
		if !s.decode(w, r, &req) {
			return
		}
	}

	id, err := s.engine.CreateSession(r.Context(), req.SessionID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{
		"session_id": id,
		"message":    "Session created successfully",
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.engine.Sessions(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	out := make([]summaryJSON, 0, len(summaries))
	for _, sum := range summaries {
		out = append(out, summaryJSON{
			ID:           sum.ID,
			CreatedAt:    sum.CreatedAt,
			Model:        optString(sum.Model),
			MessageCount: sum.MessageCount,
		})
	}
	s.respond(w, http.StatusOK, map[string]any{"sessions": out})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.engine.Session(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, toSessionJSON(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existed, err := s.engine.DeleteSession(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if !existed {
		s.respond(w, http.StatusNotFound, map[string]string{
			"detail": "Session " + id + " not found",
		})
		return
	}
	s.respond(w, http.StatusOK, map[string]string{
		"message": "Session " + id + " deleted successfully",
	})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID         string `json:"session_id"`
		Message           string `json:"message"`
		Model             string `json:"model"`
		SystemInstruction string `json:"system_instruction"`
		ToolsEnabled      bool   `json:"tools_enabled"`
		ImageData         string `json:"image_data"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	var image []byte
	if req.ImageData != "" {
		var err error
		image, err = base64.StdEncoding.DecodeString(req.ImageData)
		if err != nil {
			s.respond(w, http.StatusBadRequest, map[string]string{"detail": "invalid image_data: " + err.Error()})
			return
		}
	}

	result, err := s.engine.SendMessage(r.Context(), engine.TurnRequest{
		SessionID:         req.SessionID,
		Message:           req.Message,
		Model:             req.Model,
		SystemInstruction: req.SystemInstruction,
		ToolsEnabled:      req.ToolsEnabled,
		Image:             image,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	var mediaOut []string
	for _, m := range result.Media {
		mediaOut = append(mediaOut, base64.StdEncoding.EncodeToString(m.Data))
	}
	s.respond(w, http.StatusOK, map[string]any{
		"session_id": result.SessionID,
		"response":   result.Response,
		"model":      result.Model,
		"image_data": mediaOut,
	})
}

func (s *Server) handleEditMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID  string `json:"session_id"`
		MessageID  string `json:"message_id"`
		NewContent string `json:"new_content"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	sess, err := s.engine.EditMessage(r.Context(), req.SessionID, req.MessageID, req.NewContent)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{
		"message": "Message edited successfully",
		"session": toSessionJSON(sess),
	})
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.engine.Messages(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	out := make([]messageJSON, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageJSON(m))
	}
	s.respond(w, http.StatusOK, map[string]any{"messages": out})
}
