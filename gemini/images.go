package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
)

// Interface compliance check.
var _ apsara.ImageGenerator = (*Client)(nil)

// GenerateImages generates images from a text prompt. Imagen models use
// the dedicated images API; Gemini image-generation models go through
// GenerateContent with image output enabled.
func (c *Client) GenerateImages(ctx context.Context, req apsara.ImageRequest) ([]apsara.Media, error) {
	count := req.NumberOfImages
	if count == 0 {
		count = 1
	}
	aspectRatio := req.AspectRatio
	if aspectRatio == "" {
		aspectRatio = "1:1"
	}

	if strings.HasPrefix(req.Model, "imagen") {
		resp, err := c.client.Models.GenerateImages(ctx, req.Model, req.Prompt, &genai.GenerateImagesConfig{
			NumberOfImages: int32(count),
			AspectRatio:    aspectRatio,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		var media []apsara.Media
		for _, img := range resp.GeneratedImages {
			if img == nil || img.Image == nil {
				continue
			}
			media = append(media, apsara.Media{
				Data:     img.Image.ImageBytes,
				MIMEType: img.Image.MIMEType,
			})
		}
		return media, nil
	}

	resp, err := c.client.Models.GenerateContent(ctx, req.Model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: req.Prompt}}}},
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return ParseResponse(resp).Media, nil
}
