package httpapi

import (
	"encoding/base64"
	"net/http"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
)

func (s *Server) handleGenerateImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt         string `json:"prompt"`
		Model          string `json:"model"`
		NumberOfImages int    `json:"number_of_images"`
		AspectRatio    string `json:"aspect_ratio"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	media, err := s.engine.GenerateImages(r.Context(), apsara.ImageRequest{
		Model:          req.Model,
		Prompt:         req.Prompt,
		NumberOfImages: req.NumberOfImages,
		AspectRatio:    req.AspectRatio,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	images := make([]string, 0, len(media))
	for _, m := range media {
		images = append(images, base64.StdEncoding.EncodeToString(m.Data))
	}
	model := req.Model
	if model == "" {
		model = apsara.ModelGeminiImageGen
	}
	s.respond(w, http.StatusOK, map[string]any{
		"images": images,
		"model":  model,
	})
}
