package tools

import (
	"context"
	"encoding/json"
	"time"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
)

// DateTime reports the current date and time in a timezone.
func DateTime() Registration {
	return Registration{
		Tool: apsara.Tool{
			Name:        "get_current_datetime",
			Description: "Get the current date and time for a specific timezone.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"timezone": {
						"type": "string",
						"description": "The timezone to get the current date and time for, e.g. 'America/New_York', 'Europe/London', 'Asia/Tokyo'."
					}
				},
				"required": ["timezone"]
			}`),
		},
		Handler: executeDateTime,
	}
}

func executeDateTime(_ context.Context, args map[string]any) map[string]any {
	tz, ok := stringArg(args, "timezone")
	if !ok {
		return errPayload("missing required argument: timezone")
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return errPayload("unknown timezone %q", tz)
	}

	now := time.Now().In(loc)
	return map[string]any{
		"timezone":    tz,
		"datetime":    now.Format("2006-01-02 15:04:05 MST-0700"),
		"date":        now.Format("2006-01-02"),
		"time":        now.Format("15:04:05"),
		"day_of_week": now.Weekday().String(),
	}
}
