// Package gemini implements [apsara.Provider] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating between apsara's
// domain types and the Gemini API types. Calls are non-streaming: a turn
// is a single GenerateContent request and its parsed response.
package gemini

const defaultModel = "gemini-2.0-flash"
