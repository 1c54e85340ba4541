package gemini_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
	"github.com/shubharthaksangharsha/apsara2.5/gemini"
)

func TestConvertTurns(t *testing.T) {
	t.Parallel()
	turns := []apsara.Turn{
		{Role: apsara.RoleUser, Content: "Hello"},
		{Role: apsara.RoleModel, Content: "Hi there."},
	}
	got := gemini.ConvertTurns(turns)
	require.Len(t, got, 2)
	assert.Equal(t, "user", got[0].Role)
	require.Len(t, got[0].Parts, 1)
	assert.Equal(t, "Hello", got[0].Parts[0].Text)
	assert.Equal(t, "model", got[1].Role)
	assert.Equal(t, "Hi there.", got[1].Parts[0].Text)
}

func TestConvertTurns_Empty(t *testing.T) {
	t.Parallel()
	assert.Nil(t, gemini.ConvertTurns(nil))
}

func TestConvertTools(t *testing.T) {
	t.Parallel()
	tools := []apsara.Tool{
		{Name: "calculator", Description: "Evaluate an expression", Parameters: json.RawMessage(`{"type":"object","properties":{"expression":{"type":"string"}},"required":["expression"]}`)},
		{Name: "get_current_weather", Description: "Current weather", Parameters: json.RawMessage(`{"type":"object","properties":{"location":{"type":"string"}}}`)},
	}
	got := gemini.ConvertTools(tools)
	require.Len(t, got, 1) // single genai.Tool with multiple declarations
	require.Len(t, got[0].FunctionDeclarations, 2)
	assert.Equal(t, "calculator", got[0].FunctionDeclarations[0].Name)
	assert.Equal(t, "Evaluate an expression", got[0].FunctionDeclarations[0].Description)
	assert.Equal(t, "get_current_weather", got[0].FunctionDeclarations[1].Name)
}

func TestConvertTools_Empty(t *testing.T) {
	t.Parallel()
	assert.Nil(t, gemini.ConvertTools(nil))
}

func TestParseResponse_Text(t *testing.T) {
	t.Parallel()
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "Hello, "},
				{Text: "world."},
			}},
		}},
	}
	got := gemini.ParseResponse(resp)
	assert.Equal(t, "Hello, world.", got.Text)
	assert.Empty(t, got.ToolCalls)
	assert.Empty(t, got.Media)
}

func TestParseResponse_FunctionCall(t *testing.T) {
	t.Parallel()
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{FunctionCall: &genai.FunctionCall{
					Name: "calculator",
					Args: map[string]any{"expression": "2+2"},
				}},
			}},
		}},
	}
	got := gemini.ParseResponse(resp)
	require.Len(t, got.ToolCalls, 1)
	assert.Equal(t, "calculator", got.ToolCalls[0].Name)
	assert.Equal(t, "2+2", got.ToolCalls[0].Args["expression"])
}

func TestParseResponse_InlineMedia(t *testing.T) {
	t.Parallel()
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "Here is your image."},
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("PNG")}},
			}},
		}},
	}
	got := gemini.ParseResponse(resp)
	assert.Equal(t, "Here is your image.", got.Text)
	require.Len(t, got.Media, 1)
	assert.Equal(t, "image/png", got.Media[0].MIMEType)
	assert.Equal(t, []byte("PNG"), got.Media[0].Data)
}

func TestParseResponse_ThoughtPartsSkipped(t *testing.T) {
	t.Parallel()
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "internal reasoning", Thought: true},
				{Text: "Answer"},
			}},
		}},
	}
	got := gemini.ParseResponse(resp)
	assert.Equal(t, "Answer", got.Text)
}

func TestParseResponse_NoCandidates(t *testing.T) {
	t.Parallel()
	got := gemini.ParseResponse(&genai.GenerateContentResponse{})
	assert.Equal(t, "", got.Text)
	assert.Empty(t, got.ToolCalls)
}
