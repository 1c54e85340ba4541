package tools

import (
	"context"
	"encoding/json"
	"fmt"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
)

const (
	defaultSearchResults = 3
	maxSearchResults     = 5
)

// Search looks up information on a topic. Canned results stand in for a
// real search API.
func Search() Registration {
	return Registration{
		Tool: apsara.Tool{
			Name:        "search_information",
			Description: "Search for information on a specific topic.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {
						"type": "string",
						"description": "The search query."
					},
					"num_results": {
						"type": "integer",
						"description": "The number of results to return."
					}
				},
				"required": ["query"]
			}`),
		},
		Handler: executeSearch,
	}
}

func executeSearch(_ context.Context, args map[string]any) map[string]any {
	query, ok := stringArg(args, "query")
	if !ok {
		return errPayload("missing required argument: query")
	}
	n, ok := intArg(args, "num_results")
	if !ok {
		n = defaultSearchResults
	}
	if n < 0 {
		n = 0
	}
	if n > maxSearchResults {
		n = maxSearchResults
	}

	results := make([]map[string]any, 0, n)
	for i := 1; i <= n; i++ {
		results = append(results, map[string]any{
			"title":   fmt.Sprintf("Result %d for %s", i, query),
			"snippet": fmt.Sprintf("Information about %s, part %d.", query, i),
		})
	}

	return map[string]any{
		"query":   query,
		"results": results,
	}
}
