package history_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
	"github.com/shubharthaksangharsha/apsara2.5/history"
)

func TestRecord_RoundTrip(t *testing.T) {
	t.Parallel()
	created := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	sess := &apsara.Session{
		ID:                "sess-1",
		CreatedAt:         created,
		Model:             "gemini-2.0-flash",
		SystemInstruction: "be helpful",
		ToolsEnabled:      true,
		Messages: []apsara.Message{
			{ID: "m1", Role: apsara.RoleUser, Content: "2+2", Timestamp: created.Add(time.Second)},
			{ID: "m2", Role: apsara.RoleAssistant, Content: "4", Timestamp: created.Add(2 * time.Second)},
		},
	}

	data, err := history.MarshalRecord(sess)
	require.NoError(t, err)

	got, err := history.UnmarshalRecord(data)
	require.NoError(t, err)
	if diff := cmp.Diff(sess, got); diff != "" {
		t.Errorf("record round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_UnboundFieldsAreNull(t *testing.T) {
	t.Parallel()
	data, err := history.MarshalRecord(&apsara.Session{ID: "fresh", CreatedAt: time.Now()})
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "null", string(raw["model"]))
	assert.Equal(t, "null", string(raw["system_instruction"]))
	assert.Equal(t, "false", string(raw["tools_enabled"]))
	assert.Equal(t, "[]", string(raw["messages"]))
}

func TestRecord_RejectsMalformedJSON(t *testing.T) {
	t.Parallel()
	_, err := history.UnmarshalRecord([]byte("{oops"))
	assert.Error(t, err)
}
