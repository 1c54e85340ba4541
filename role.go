package apsara

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"

	// RoleModel is the provider-facing synonym for assistant-authored
	// content. It never appears in stored history; FormatHistory rewrites
	// RoleAssistant to RoleModel before each provider call.
	RoleModel Role = "model"
)
