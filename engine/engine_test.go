package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
	"github.com/shubharthaksangharsha/apsara2.5/engine"
	"github.com/shubharthaksangharsha/apsara2.5/history"
	"github.com/shubharthaksangharsha/apsara2.5/mock"
	"github.com/shubharthaksangharsha/apsara2.5/registry"
	"github.com/shubharthaksangharsha/apsara2.5/tools"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testCatalog() *apsara.Catalog {
	return apsara.NewCatalog(
		apsara.ModelInfo{ID: apsara.ModelGemini20Flash, DisplayName: "Gemini 2.0 Flash"},
	)
}

func newEngine(t *testing.T, provider apsara.Provider) (*engine.Engine, history.Store) {
	t.Helper()
	store, err := history.New(history.DriverMemory)
	require.NoError(t, err)

	reg := registry.New(nil)
	require.NoError(t, tools.RegisterAll(reg))

	return engine.New(store, reg, provider, testCatalog()), store
}

func TestSendMessage_ToolRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var calls []apsara.Request
	provider := &mock.Provider{
		GenerateFn: func(_ context.Context, req apsara.Request) (*apsara.Response, error) {
			calls = append(calls, req)
			if len(calls) == 1 {
				return &apsara.Response{
					ToolCalls: []apsara.ToolCall{{
						Name: "calculator",
						Args: map[string]any{"expression": "2+2"},
					}},
				}, nil
			}
			return &apsara.Response{Text: "The answer is 4."}, nil
		},
	}
	eng, store := newEngine(t, provider)

	id, err := eng.CreateSession(ctx, "")
	require.NoError(t, err)

	result, err := eng.SendMessage(ctx, engine.TurnRequest{
		SessionID:    id,
		Message:      "2+2",
		Model:        apsara.ModelGemini20Flash,
		ToolsEnabled: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "The answer is 4.", result.Response)
	assert.Equal(t, apsara.ModelGemini20Flash, result.Model)

	// The tool result was fed back to the same conversation.
	require.Len(t, calls, 2)
	assert.NotEmpty(t, calls[0].Tools, "first call advertises the tool configuration")
	assert.Contains(t, calls[1].Message, "Function calculator returned:")
	assert.Contains(t, calls[1].Message, `"result":4`)

	// The log keeps only the user turn and the final answer.
	msgs, err := store.Messages(ctx, id)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, apsara.RoleUser, msgs[0].Role)
	assert.Equal(t, "2+2", msgs[0].Content)
	assert.Equal(t, apsara.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "The answer is 4.", msgs[1].Content)
}

func TestSendMessage_UnknownSessionIsUpsert(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	provider := &mock.Provider{
		GenerateFn: func(_ context.Context, _ apsara.Request) (*apsara.Response, error) {
			return &apsara.Response{Text: "hello!"}, nil
		},
	}
	eng, _ := newEngine(t, provider)

	result, err := eng.SendMessage(ctx, engine.TurnRequest{
		SessionID: "abc",
		Message:   "hi",
		Model:     apsara.ModelGemini20Flash,
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", result.SessionID)

	sess, err := eng.Session(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, sess.Messages, 2)
	assert.Equal(t, "hi", sess.Messages[0].Content)
}

func TestEditMessage_TruncatesHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	provider := &mock.Provider{
		GenerateFn: func(_ context.Context, _ apsara.Request) (*apsara.Response, error) {
			return &apsara.Response{Text: "reply"}, nil
		},
	}
	eng, store := newEngine(t, provider)

	id, err := eng.CreateSession(ctx, "")
	require.NoError(t, err)
	var first string
	for i, content := range []string{"one", "two", "three"} {
		mid, err := store.Append(ctx, id, apsara.RoleUser, content, history.AppendOptions{})
		require.NoError(t, err)
		if i == 0 {
			first = mid
		}
	}

	_, err = eng.EditMessage(ctx, id, first, "changed")
	require.NoError(t, err)

	msgs, err := eng.Messages(ctx, id)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "changed", msgs[0].Content)
}

func TestSendMessage_UnknownModel(t *testing.T) {
	t.Parallel()
	provider := &mock.Provider{
		GenerateFn: func(_ context.Context, _ apsara.Request) (*apsara.Response, error) {
			t.Fatal("provider must not be called for an unknown model")
			return nil, nil
		},
	}
	eng, _ := newEngine(t, provider)

	_, err := eng.SendMessage(context.Background(), engine.TurnRequest{
		Message: "hi",
		Model:   "gpt-99",
	})
	assert.ErrorIs(t, err, apsara.ErrModelNotFound)
}

func TestSendMessage_DefaultModel(t *testing.T) {
	t.Parallel()
	var gotModel string
	provider := &mock.Provider{
		GenerateFn: func(_ context.Context, req apsara.Request) (*apsara.Response, error) {
			gotModel = req.Model
			return &apsara.Response{Text: "ok"}, nil
		},
	}
	eng, _ := newEngine(t, provider)

	result, err := eng.SendMessage(context.Background(), engine.TurnRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, apsara.ModelGemini20Flash, gotModel)
	assert.Equal(t, apsara.ModelGemini20Flash, result.Model)
}

func TestSendMessage_EmptyMessageStillAppended(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	provider := &mock.Provider{
		GenerateFn: func(_ context.Context, _ apsara.Request) (*apsara.Response, error) {
			return &apsara.Response{Text: "something"}, nil
		},
	}
	eng, store := newEngine(t, provider)

	result, err := eng.SendMessage(ctx, engine.TurnRequest{Message: "   "})
	require.NoError(t, err)

	msgs, err := store.Messages(ctx, result.SessionID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "   ", msgs[0].Content)
}

func TestSendMessage_EmptyProviderResponse(t *testing.T) {
	t.Parallel()
	provider := &mock.Provider{
		GenerateFn: func(_ context.Context, _ apsara.Request) (*apsara.Response, error) {
			return &apsara.Response{}, nil
		},
	}
	eng, _ := newEngine(t, provider)

	result, err := eng.SendMessage(context.Background(), engine.TurnRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "", result.Response, "no text and no directive yields an empty answer, not an error")
}

func TestSendMessage_ProviderFailureIsFatal(t *testing.T) {
	t.Parallel()
	provider := &mock.Provider{
		GenerateFn: func(_ context.Context, _ apsara.Request) (*apsara.Response, error) {
			return nil, errors.New("upstream unavailable")
		},
	}
	eng, _ := newEngine(t, provider)

	_, err := eng.SendMessage(context.Background(), engine.TurnRequest{Message: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider")
}

func TestSendMessage_FailedToolStillAnswers(t *testing.T) {
	t.Parallel()
	var followUp string
	provider := &mock.Provider{
		GenerateFn: func(_ context.Context, req apsara.Request) (*apsara.Response, error) {
			if followUp == "" && len(req.Tools) > 0 && req.Message != "" && req.Message[0] != 'F' {
				return &apsara.Response{
					ToolCalls: []apsara.ToolCall{{
						Name: "no_such_tool",
						Args: map[string]any{},
					}},
				}, nil
			}
			followUp = req.Message
			return &apsara.Response{Text: "That tool is unavailable."}, nil
		},
	}
	eng, _ := newEngine(t, provider)

	result, err := eng.SendMessage(context.Background(), engine.TurnRequest{
		Message:      "use the gadget",
		ToolsEnabled: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "That tool is unavailable.", result.Response)
	assert.Contains(t, followUp, "Tool no_such_tool not found")
}

func TestSendMessage_OnlyFirstDirectiveHonored(t *testing.T) {
	t.Parallel()
	var second apsara.Request
	callCount := 0
	provider := &mock.Provider{
		GenerateFn: func(_ context.Context, req apsara.Request) (*apsara.Response, error) {
			callCount++
			if callCount == 1 {
				return &apsara.Response{
					ToolCalls: []apsara.ToolCall{
						{Name: "calculator", Args: map[string]any{"expression": "1+1"}},
						{Name: "calculator", Args: map[string]any{"expression": "2+2"}},
					},
				}, nil
			}
			second = req
			// A directive on the follow-up must be ignored.
			return &apsara.Response{
				Text:      "done",
				ToolCalls: []apsara.ToolCall{{Name: "calculator", Args: map[string]any{"expression": "3+3"}}},
			}, nil
		},
	}
	eng, _ := newEngine(t, provider)

	result, err := eng.SendMessage(context.Background(), engine.TurnRequest{
		Message:      "add things",
		ToolsEnabled: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, callCount, "exactly one tool round trip")
	assert.Equal(t, "done", result.Response)
	assert.Contains(t, second.Message, `"result":2`, "only the first directive executes")
}

func TestSendMessage_MediaReturnedNotPersisted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	media := apsara.Media{Data: []byte{0x89, 0x50, 0x4e, 0x47}, MIMEType: "image/png"}
	provider := &mock.Provider{
		GenerateFn: func(_ context.Context, _ apsara.Request) (*apsara.Response, error) {
			return &apsara.Response{Text: "here is your image", Media: []apsara.Media{media}}, nil
		},
	}
	eng, store := newEngine(t, provider)

	result, err := eng.SendMessage(ctx, engine.TurnRequest{Message: "draw a gopher"})
	require.NoError(t, err)
	require.Len(t, result.Media, 1)
	assert.Equal(t, media, result.Media[0])

	msgs, err := store.Messages(ctx, result.SessionID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "here is your image", msgs[1].Content)
}

func TestSendMessage_ToolsFlagIsMonotonic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	provider := &mock.Provider{
		GenerateFn: func(_ context.Context, _ apsara.Request) (*apsara.Response, error) {
			return &apsara.Response{Text: "reply"}, nil
		},
	}
	eng, _ := newEngine(t, provider)

	first, err := eng.SendMessage(ctx, engine.TurnRequest{Message: "hi", ToolsEnabled: true})
	require.NoError(t, err)
	_, err = eng.SendMessage(ctx, engine.TurnRequest{
		SessionID:    first.SessionID,
		Message:      "again",
		ToolsEnabled: false,
	})
	require.NoError(t, err)

	sess, err := eng.Session(ctx, first.SessionID)
	require.NoError(t, err)
	assert.True(t, sess.ToolsEnabled, "a later turn never downgrades the flag")
}

func TestSendMessage_HistorySentToProvider(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	var lastHistory []apsara.Turn
	provider := &mock.Provider{
		GenerateFn: func(_ context.Context, req apsara.Request) (*apsara.Response, error) {
			lastHistory = req.History
			return &apsara.Response{Text: "reply"}, nil
		},
	}
	eng, _ := newEngine(t, provider)

	first, err := eng.SendMessage(ctx, engine.TurnRequest{Message: "first"})
	require.NoError(t, err)
	_, err = eng.SendMessage(ctx, engine.TurnRequest{SessionID: first.SessionID, Message: "second"})
	require.NoError(t, err)

	// The second turn's history covers the whole log with the assistant
	// role rewritten for the provider.
	require.Len(t, lastHistory, 3)
	assert.Equal(t, apsara.RoleUser, lastHistory[0].Role)
	assert.Equal(t, apsara.RoleModel, lastHistory[1].Role)
	assert.Equal(t, "reply", lastHistory[1].Content)
	assert.Equal(t, "second", lastHistory[2].Content)
}

// imageEngine builds an engine with the full catalog so the image models
// resolve.
func imageEngine(t *testing.T, provider apsara.Provider) *engine.Engine {
	t.Helper()
	store, err := history.New(history.DriverMemory)
	require.NoError(t, err)

	reg := registry.New(nil)
	require.NoError(t, tools.RegisterAll(reg))

	return engine.New(store, reg, provider, apsara.DefaultCatalog())
}

func TestGenerateImages(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var got apsara.ImageRequest
	provider := &mock.Provider{
		GenerateImagesFn: func(_ context.Context, req apsara.ImageRequest) ([]apsara.Media, error) {
			got = req
			return []apsara.Media{{Data: []byte{0x89, 0x50}, MIMEType: "image/png"}}, nil
		},
	}
	eng := imageEngine(t, provider)

	media, err := eng.GenerateImages(ctx, apsara.ImageRequest{
		Model:  apsara.ModelImagen,
		Prompt: "a red bicycle",
	})
	require.NoError(t, err)
	require.Len(t, media, 1)
	assert.Equal(t, "image/png", media[0].MIMEType)
	assert.Equal(t, apsara.ModelImagen, got.Model)
	assert.Equal(t, "a red bicycle", got.Prompt)
}

func TestGenerateImages_DefaultModel(t *testing.T) {
	t.Parallel()
	var got apsara.ImageRequest
	provider := &mock.Provider{
		GenerateImagesFn: func(_ context.Context, req apsara.ImageRequest) ([]apsara.Media, error) {
			got = req
			return nil, nil
		},
	}
	eng := imageEngine(t, provider)

	_, err := eng.GenerateImages(context.Background(), apsara.ImageRequest{Prompt: "dunes"})
	require.NoError(t, err)
	assert.Equal(t, apsara.ModelGeminiImageGen, got.Model)
}

func TestGenerateImages_RejectsChatModel(t *testing.T) {
	t.Parallel()
	provider := &mock.Provider{
		GenerateImagesFn: func(_ context.Context, _ apsara.ImageRequest) ([]apsara.Media, error) {
			t.Fatal("provider must not be reached")
			return nil, nil
		},
	}
	eng := imageEngine(t, provider)

	_, err := eng.GenerateImages(context.Background(), apsara.ImageRequest{
		Model:  apsara.ModelGemini20Flash,
		Prompt: "dunes",
	})
	assert.ErrorIs(t, err, apsara.ErrValidation)

	_, err = eng.GenerateImages(context.Background(), apsara.ImageRequest{
		Model:  "dall-e-3",
		Prompt: "dunes",
	})
	assert.ErrorIs(t, err, apsara.ErrModelNotFound)
}

func TestGenerateImages_ProviderFailure(t *testing.T) {
	t.Parallel()
	provider := &mock.Provider{
		GenerateImagesFn: func(_ context.Context, _ apsara.ImageRequest) ([]apsara.Media, error) {
			return nil, errors.New("quota exhausted")
		},
	}
	eng := imageEngine(t, provider)

	_, err := eng.GenerateImages(context.Background(), apsara.ImageRequest{Prompt: "dunes"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exhausted")
}
