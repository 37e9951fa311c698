package v1

import (
	"encoding/json"
	"strings"
)

// knownTools are the tool names the agent is allowed to request. A block
// naming anything else is treated as plain text, not a tool call.
var knownTools = map[string]bool{
	"get_weather":    true,
	"create_booking": true,
	"cancel_booking": true,
}

// toolCall is a structured tool request recognized inside a model reply.
type toolCall struct {
	Tool string `json:"tool"`

	// raw is the full JSON block as it appeared in the reply. Handlers parse
	// their own payload fields from it.
	raw string
}

// extractToolCall scans free-form model text for an embedded tool request:
// the outermost brace-delimited block (first '{' to last '}'), which must
// parse as JSON and carry a known tool name. Anything else (no braces,
// malformed JSON, an unknown or missing tool field) means the text is the
// final reply, so the second return is false.
//
// The greedy outermost match follows the wire protocol the system
// instruction imposes on the model: a tool call must be emitted as a single
// JSON object, possibly wrapped in prose. The model's output format is not
// under our control, so this stays a best-effort heuristic; once a block is
// recognized, surrounding prose is discarded.
func extractToolCall(text string) (*toolCall, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	raw := text[start : end+1]

	var tc toolCall
	if err := json.Unmarshal([]byte(raw), &tc); err != nil {
		return nil, false
	}
	if !knownTools[tc.Tool] {
		return nil, false
	}
	tc.raw = raw
	return &tc, true
}
