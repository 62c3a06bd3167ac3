package agent

// Tool names the router can select.
const (
	ToolFilms = "analyze_highest_grossing_films"
	ToolCourt = "query_indian_high_court_data"
)

// Decision is the router's parsed tool selection.
type Decision struct {
	Tool      string   `json:"tool"`
	URL       string   `json:"url,omitempty"`
	Questions []string `json:"questions,omitempty"`
	Query     string   `json:"query,omitempty"`
}

// decisionSchema constrains the LLM's tool-selection payload before it is
// trusted for dispatch.
var decisionSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"tool"},
	"properties": map[string]interface{}{
		"tool": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{ToolFilms, ToolCourt},
		},
		"url": map[string]interface{}{
			"type": "string",
		},
		"questions": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "string",
			},
		},
		"query": map[string]interface{}{
			"type": "string",
		},
	},
}

const systemPrompt = `You are a data analyst agent. Select the single best tool for the user's request and respond with JSON only, no prose.

Tools:
1. "analyze_highest_grossing_films" - for analyzing Wikipedia film data. Extract "url" and the list of "questions" from the request.
2. "query_indian_high_court_data" - for querying the Indian High Court dataset. Extract the SQL into "query".

Respond with: {"tool": "...", "url": "...", "questions": ["..."], "query": "..."}`
