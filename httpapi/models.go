package httpapi

import (
	"net/http"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
)

type capabilitiesJSON struct {
	StructuredOutputs bool `json:"structured_outputs"`
	Caching           bool `json:"caching"`
	Tuning            bool `json:"tuning"`
	FunctionCalling   bool `json:"function_calling"`
	CodeExecution     bool `json:"code_execution"`
	Search            bool `json:"search"`
	ImageGeneration   bool `json:"image_generation"`
	NativeToolUse     bool `json:"native_tool_use"`
	LiveAPI           bool `json:"live_api"`
	Thinking          bool `json:"thinking"`
}

type modelJSON struct {
	ID                  string           `json:"id"`
	DisplayName         string           `json:"display_name"`
	Description         string           `json:"description"`
	InputTokenLimit     int              `json:"input_token_limit"`
	OutputTokenLimit    int              `json:"output_token_limit"`
	SupportsImage       bool             `json:"supports_image"`
	SupportsAudio       bool             `json:"supports_audio"`
	SupportsVideo       bool             `json:"supports_video"`
	SupportsImageOutput bool             `json:"supports_image_output"`
	Capabilities        capabilitiesJSON `json:"capabilities"`
}

func toModelJSON(m apsara.ModelInfo) modelJSON {
	return modelJSON{
		ID:                  m.ID,
		DisplayName:         m.DisplayName,
		Description:         m.Description,
		InputTokenLimit:     m.InputTokenLimit,
		OutputTokenLimit:    m.OutputTokenLimit,
		SupportsImage:       m.SupportsImage,
		SupportsAudio:       m.SupportsAudio,
		SupportsVideo:       m.SupportsVideo,
		SupportsImageOutput: m.SupportsImageOutput,
		Capabilities: capabilitiesJSON{
			StructuredOutputs: m.Capabilities.StructuredOutputs,
			Caching:           m.Capabilities.Caching,
			Tuning:            m.Capabilities.Tuning,
			FunctionCalling:   m.Capabilities.FunctionCalling,
			CodeExecution:     m.Capabilities.CodeExecution,
			Search:            m.Capabilities.Search,
			ImageGeneration:   m.Capabilities.ImageGeneration,
			NativeToolUse:     m.Capabilities.NativeToolUse,
			LiveAPI:           m.Capabilities.LiveAPI,
			Thinking:          m.Capabilities.Thinking,
		},
	}
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	models := s.engine.Catalog().Models()
	out := make([]modelJSON, 0, len(models))
	for _, m := range models {
		out = append(out, toModelJSON(m))
	}
	s.respond(w, http.StatusOK, map[string]any{"models": out})
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	m, err := s.engine.Catalog().Lookup(r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, toModelJSON(m))
}
