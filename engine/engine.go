// Package engine drives one conversational turn: it persists the user's
// message, formats history for the provider, runs the tool-calling round
// trip when the provider requests one, and persists the final answer.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
	"github.com/shubharthaksangharsha/apsara2.5/history"
	"github.com/shubharthaksangharsha/apsara2.5/registry"
)

// Engine orchestrates turns across the store, the tool registry, and the
// generation provider. All collaborators are injected at construction.
type Engine struct {
	store        history.Store
	registry     *registry.Registry
	provider     apsara.Provider
	catalog      *apsara.Catalog
	defaultModel string
	logger       *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. Default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithDefaultModel sets the model used when a turn does not name one.
func WithDefaultModel(model string) Option {
	return func(e *Engine) { e.defaultModel = model }
}

// New creates an Engine.
func New(store history.Store, reg *registry.Registry, provider apsara.Provider, catalog *apsara.Catalog, opts ...Option) *Engine {
	e := &Engine{
		store:        store,
		registry:     reg,
		provider:     provider,
		catalog:      catalog,
		defaultModel: apsara.ModelGemini20Flash,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TurnRequest is one user message submission.
type TurnRequest struct {
	SessionID         string
	Message           string
	Model             string
	SystemInstruction string
	ToolsEnabled      bool
	Image             []byte
}

// TurnResult is the turn's outcome: the final answer text, the model that
// produced it, and any generated media. Media is returned to the caller
// but is not persisted in the message log.
type TurnResult struct {
	SessionID string
	Response  string
	Model     string
	Media     []apsara.Media
}

// SendMessage executes one turn. An unknown session id materializes a new
// session rather than failing: unlike explicit creation, a message
// submission is an upsert by design. An empty or whitespace-only message
// is still appended and sent.
func (e *Engine) SendMessage(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	model := req.Model
	if model == "" {
		model = e.defaultModel
	}
	if _, err := e.catalog.Lookup(model); err != nil {
		return nil, err
	}

	sessionID, err := e.store.Create(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	if _, err := e.store.Append(ctx, sessionID, apsara.RoleUser, req.Message, history.AppendOptions{
		Model:             model,
		SystemInstruction: req.SystemInstruction,
		ToolsEnabled:      req.ToolsEnabled,
	}); err != nil {
		return nil, err
	}

	msgs, err := e.store.Messages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	turns := apsara.FormatHistory(msgs)

	var toolCfg []apsara.Tool
	if req.ToolsEnabled {
		toolCfg = e.registry.SchemasFor(e.registry.Names())
	}

	e.logger.Info("turn started",
		zap.String("session_id", sessionID),
		zap.String("model", model),
		zap.Bool("tools_enabled", req.ToolsEnabled))

	resp, err := e.provider.Generate(ctx, apsara.Request{
		Model:             model,
		SystemInstruction: req.SystemInstruction,
		History:           turns,
		Tools:             toolCfg,
		Message:           req.Message,
		Image:             req.Image,
	})
	if err != nil {
		e.logger.Error("provider call failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, fmt.Errorf("provider: %w", err)
	}

	final := resp.Text
	if len(resp.ToolCalls) > 0 {
		// Only the first directive is honored, and the follow-up response
		// is taken as final without further directive detection.
		call := resp.ToolCalls[0]
		final, err = e.runToolRoundTrip(ctx, req, model, turns, toolCfg, resp, call)
		if err != nil {
			return nil, err
		}
	}

	if _, err := e.store.Append(ctx, sessionID, apsara.RoleAssistant, final, history.AppendOptions{}); err != nil {
		return nil, err
	}

	e.logger.Info("turn completed",
		zap.String("session_id", sessionID),
		zap.Int("media_items", len(resp.Media)))

	return &TurnResult{
		SessionID: sessionID,
		Response:  final,
		Model:     model,
		Media:     resp.Media,
	}, nil
}

// runToolRoundTrip executes the directive and feeds its result back to the
// same provider conversation, returning the follow-up's text.
func (e *Engine) runToolRoundTrip(ctx context.Context, req TurnRequest, model string, turns []apsara.Turn, toolCfg []apsara.Tool, first *apsara.Response, call apsara.ToolCall) (string, error) {
	e.logger.Info("tool directive",
		zap.String("tool", call.Name))

	result := e.registry.Execute(ctx, call.Name, call.Args)

	followUp := fmt.Sprintf("Function %s returned: %s", call.Name, encodePayload(result))

	// The follow-up continues the conversation the provider already saw:
	// the submitted message and the assistant's pre-tool text become part
	// of the history.
	followTurns := make([]apsara.Turn, 0, len(turns)+2)
	followTurns = append(followTurns, turns...)
	followTurns = append(followTurns,
		apsara.Turn{Role: apsara.RoleUser, Content: req.Message},
		apsara.Turn{Role: apsara.RoleModel, Content: first.Text},
	)

	resp, err := e.provider.Generate(ctx, apsara.Request{
		Model:             model,
		SystemInstruction: req.SystemInstruction,
		History:           followTurns,
		Tools:             toolCfg,
		Message:           followUp,
	})
	if err != nil {
		return "", fmt.Errorf("provider: %w", err)
	}
	return resp.Text, nil
}

// encodePayload renders a tool result for the follow-up message. Keys are
// sorted by the JSON encoder, so the rendering is deterministic.
func encodePayload(payload map[string]any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		// Payloads come from tool handlers; non-encodable values degrade
		// to fmt rendering rather than failing the turn.
		return strings.TrimSpace(fmt.Sprint(payload))
	}
	return string(data)
}

// GenerateImages produces images from a text prompt, outside any session.
// Only the dedicated image-generation models are accepted; nothing is
// persisted.
func (e *Engine) GenerateImages(ctx context.Context, req apsara.ImageRequest) ([]apsara.Media, error) {
	model := req.Model
	if model == "" {
		model = apsara.ModelGeminiImageGen
	}
	if _, err := e.catalog.Lookup(model); err != nil {
		return nil, err
	}
	switch model {
	case apsara.ModelGeminiImageGen, apsara.ModelImagen:
	default:
		return nil, fmt.Errorf("model %s does not support image generation: %w", model, apsara.ErrValidation)
	}

	gen, ok := e.provider.(apsara.ImageGenerator)
	if !ok {
		return nil, fmt.Errorf("provider does not support image generation")
	}

	e.logger.Info("image generation",
		zap.String("model", model),
		zap.Int("count", req.NumberOfImages))

	req.Model = model
	media, err := gen.GenerateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("provider: %w", err)
	}
	return media, nil
}

// EditMessage overwrites a message's content and discards everything after
// it. Regenerating a response for the truncated conversation is the
// caller's next move, not the store's.
func (e *Engine) EditMessage(ctx context.Context, sessionID, messageID, content string) (*apsara.Session, error) {
	return e.store.Edit(ctx, sessionID, messageID, content)
}

// CreateSession materializes a session explicitly.
func (e *Engine) CreateSession(ctx context.Context, id string) (string, error) {
	return e.store.Create(ctx, id)
}

// Session returns a full session record.
func (e *Engine) Session(ctx context.Context, id string) (*apsara.Session, error) {
	return e.store.Get(ctx, id)
}

// Sessions lists all sessions, newest first.
func (e *Engine) Sessions(ctx context.Context) ([]apsara.SessionSummary, error) {
	return e.store.List(ctx)
}

// Messages returns a session's ordered message log.
func (e *Engine) Messages(ctx context.Context, id string) ([]apsara.Message, error) {
	return e.store.Messages(ctx, id)
}

// DeleteSession removes a session and its history, reporting whether it
// existed.
func (e *Engine) DeleteSession(ctx context.Context, id string) (bool, error) {
	return e.store.Delete(ctx, id)
}

// Catalog returns the engine's model catalog.
func (e *Engine) Catalog() *apsara.Catalog {
	return e.catalog
}
