package apsara

import "encoding/json"

// Tool is the schema sent to the provider describing a tool's capabilities.
// Parameters holds a JSON schema for the tool's named arguments.
type Tool struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// ToolCall is a structured directive from the provider naming a function
// to invoke and its arguments. It originates from the model, not from the
// end user, and is never persisted as a first-class record.
type ToolCall struct {
	Name string
	Args map[string]any
}
