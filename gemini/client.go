package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
)

// Interface compliance check.
var _ apsara.Provider = (*Client)(nil)

// Client implements [apsara.Provider] for the Google Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// Option configures a [Client].
type Option func(*clientConfig)

type clientConfig struct {
	model      string
	httpClient *http.Client
}

// WithModel sets the model used when a request does not name one.
// Default is gemini-2.0-flash.
func WithModel(model string) Option {
	return func(c *clientConfig) { c.model = model }
}

// WithHTTPClient sets the HTTP client used by the SDK.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = hc }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	cfg := clientConfig{model: defaultModel}
	for _, o := range opts {
		o(&cfg)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &Client{client: gc, model: cfg.model}, nil
}

// Generate sends a single request to the Gemini API and returns the
// parsed response.
func (c *Client) Generate(ctx context.Context, req apsara.Request) (*apsara.Response, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	contents := ConvertTurns(req.History)
	contents = append(contents, userContent(req.Message, req.Image))
	config := buildConfig(req)

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return ParseResponse(resp), nil
}

func buildConfig(req apsara.Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Tools: ConvertTools(req.Tools),
	}
	if req.SystemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		}
	}
	return config
}

// userContent builds the final user content of a request: the submitted
// text plus an optional inline image.
func userContent(message string, image []byte) *genai.Content {
	parts := []*genai.Part{{Text: message}}
	if len(image) > 0 {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: http.DetectContentType(image),
				Data:     image,
			},
		})
	}
	return &genai.Content{Role: "user", Parts: parts}
}

// ConvertTurns converts apsara Turns to genai Contents.
// Exported for testing.
func ConvertTurns(turns []apsara.Turn) []*genai.Content {
	var result []*genai.Content
	for _, t := range turns {
		result = append(result, &genai.Content{
			Role:  string(t.Role),
			Parts: []*genai.Part{{Text: t.Content}},
		})
	}
	return result
}

// ConvertTools converts apsara Tools to genai Tools.
// Exported for testing.
func ConvertTools(tools []apsara.Tool) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, len(tools))
	for i, t := range tools {
		// Parameters is json.RawMessage — always valid JSON from domain types.
		var schema map[string]any
		_ = json.Unmarshal(t.Parameters, &schema)
		decls[i] = &genai.FunctionDeclaration{
			Name:                 t.Name,
			Description:          t.Description,
			ParametersJsonSchema: schema,
		}
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// ParseResponse converts a genai response into an [apsara.Response],
// collecting text, function call directives, and inline media from the
// first candidate. Exported for testing.
func ParseResponse(resp *genai.GenerateContentResponse) *apsara.Response {
	out := &apsara.Response{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return out
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		switch {
		case part.FunctionCall != nil:
			out.ToolCalls = append(out.ToolCalls, apsara.ToolCall{
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			})
		case part.InlineData != nil:
			out.Media = append(out.Media, apsara.Media{
				Data:     part.InlineData.Data,
				MIMEType: part.InlineData.MIMEType,
			})
		case part.Text != "" && !part.Thought:
			text.WriteString(part.Text)
		}
	}
	out.Text = text.String()
	return out
}
