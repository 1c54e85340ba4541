package apsara

// Turn is the provider-facing projection of a stored message.
type Turn struct {
	Role    Role
	Content string
}

// FormatHistory projects stored messages into the role/content shape the
// provider expects. The assistant role is rewritten to the provider's
// "model" synonym; the user role passes through unchanged. Order is
// preserved exactly and no message is dropped, including ones with empty
// content.
func FormatHistory(msgs []Message) []Turn {
	turns := make([]Turn, len(msgs))
	for i, m := range msgs {
		role := m.Role
		if role == RoleAssistant {
			role = RoleModel
		}
		turns[i] = Turn{Role: role, Content: m.Content}
	}
	return turns
}
