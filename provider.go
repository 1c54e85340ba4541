package apsara

import "context"

// Provider is a strategy pattern interface for generation providers.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Request carries one provider call: the conversation so far plus the new
// message parts. The provider uses its own defaults when fields are empty.
type Request struct {
	Model             string
	SystemInstruction string
	History           []Turn
	Tools             []Tool
	Message           string
	Image             []byte // optional inline image, raw bytes
}

// Response is the provider's reply: generated text, zero or more tool
// invocation directives, and zero or more inline media attachments.
type Response struct {
	Text      string
	ToolCalls []ToolCall
	Media     []Media
}

// Media is a generated binary attachment returned to the caller alongside
// the textual answer. It is not persisted in the message log.
type Media struct {
	Data     []byte
	MIMEType string
}

// ImageRequest carries one standalone image generation call, outside any
// conversation. The provider uses its own defaults when optional fields
// are zero.
type ImageRequest struct {
	Model          string
	Prompt         string
	NumberOfImages int    // default 1
	AspectRatio    string // e.g. "1:1", "16:9"
}

// ImageGenerator is implemented by providers that can generate images
// from a text prompt.
type ImageGenerator interface {
	GenerateImages(ctx context.Context, req ImageRequest) ([]Media, error)
}
