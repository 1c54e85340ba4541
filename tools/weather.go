package tools

import (
	"context"
	"encoding/json"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
)

type weatherEntry struct {
	temperature float64 // celsius
	condition   string
	humidity    int
}

// Canned observations; a production build would call a weather API here.
var weatherTable = map[string]weatherEntry{
	"New York, NY":      {temperature: 22, condition: "Sunny", humidity: 60},
	"San Francisco, CA": {temperature: 18, condition: "Foggy", humidity: 75},
	"London":            {temperature: 15, condition: "Rainy", humidity: 80},
	"Tokyo":             {temperature: 28, condition: "Clear", humidity: 65},
}

// Weather reports current conditions for a location.
func Weather() Registration {
	return Registration{
		Tool: apsara.Tool{
			Name:        "get_current_weather",
			Description: "Get the current weather in a given location.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"location": {
						"type": "string",
						"description": "The city and state, e.g. San Francisco, CA or a zip code e.g. 95616."
					},
					"unit": {
						"type": "string",
						"enum": ["celsius", "fahrenheit"],
						"description": "The temperature unit to use. Infer this from the user's location."
					}
				},
				"required": ["location"]
			}`),
		},
		Handler: executeWeather,
	}
}

func executeWeather(_ context.Context, args map[string]any) map[string]any {
	location, ok := stringArg(args, "location")
	if !ok {
		return errPayload("missing required argument: location")
	}
	unit, ok := stringArg(args, "unit")
	if !ok || unit == "" {
		unit = "celsius"
	}

	entry, ok := weatherTable[location]
	if !ok {
		entry = weatherEntry{temperature: 20, condition: "Unknown", humidity: 70}
	}

	temperature := entry.temperature
	if unit == "fahrenheit" {
		temperature = temperature*9/5 + 32
	}

	return map[string]any{
		"location":    location,
		"temperature": temperature,
		"unit":        unit,
		"condition":   entry.condition,
		"humidity":    entry.humidity,
	}
}
