package httpapi

import (
	"encoding/json"
	"net/http"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
)

type toolJSON struct {
	Name        string          `json:"name"`
	DisplayName string          `json:"display_name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

func toToolJSON(t apsara.Tool) toolJSON {
	return toolJSON{
		Name:        t.Name,
		DisplayName: t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
	}
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	decls := s.registry.Declarations()
	out := make([]toolJSON, 0, len(decls))
	for _, t := range decls {
		out = append(out, toToolJSON(t))
	}
	s.respond(w, http.StatusOK, map[string]any{"tools": out})
}

func (s *Server) handleGetTool(w http.ResponseWriter, r *http.Request) {
	tool, err := s.registry.Lookup(r.PathValue("name"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, toToolJSON(tool))
}

func (s *Server) handleExecuteTool(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ToolName string         `json:"tool_name"`
		Args     map[string]any `json:"args"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	result := s.registry.Execute(r.Context(), req.ToolName, req.Args)
	if detail, ok := result["error"].(string); ok {
		s.respond(w, http.StatusBadRequest, map[string]string{"detail": detail})
		return
	}
	s.respond(w, http.StatusOK, map[string]any{
		"tool":   req.ToolName,
		"result": result,
	})
}
