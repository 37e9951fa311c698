package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractToolCall(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantTool string
		wantRaw  string
		wantOK   bool
	}{
		{
			name:   "plain text without braces",
			text:   "Sure! What name should I put the booking under?",
			wantOK: false,
		},
		{
			name:   "empty text",
			text:   "",
			wantOK: false,
		},
		{
			name:     "bare tool block",
			text:     `{"tool":"get_weather","date":"2025-06-01"}`,
			wantTool: "get_weather",
			wantRaw:  `{"tool":"get_weather","date":"2025-06-01"}`,
			wantOK:   true,
		},
		{
			name:     "block wrapped in prose",
			text:     `Let me check that for you. {"tool":"get_weather","date":"2025-06-01"} One moment!`,
			wantTool: "get_weather",
			wantRaw:  `{"tool":"get_weather","date":"2025-06-01"}`,
			wantOK:   true,
		},
		{
			name:     "nested braces in payload",
			text:     `{"tool":"create_booking","data":{"customerName":"John","weatherInfo":{"condition":"Rain"}}}`,
			wantTool: "create_booking",
			wantRaw:  `{"tool":"create_booking","data":{"customerName":"John","weatherInfo":{"condition":"Rain"}}}`,
			wantOK:   true,
		},
		{
			name:   "malformed json",
			text:   `{"tool":"get_weather","date":`,
			wantOK: false,
		},
		{
			name:   "json without tool field",
			text:   `{"date":"2025-06-01"}`,
			wantOK: false,
		},
		{
			name:   "empty tool field",
			text:   `{"tool":"","date":"2025-06-01"}`,
			wantOK: false,
		},
		{
			name:   "unknown tool name",
			text:   `{"tool":"book_flight","destination":"Goa"}`,
			wantOK: false,
		},
		{
			name: "multiple blocks greedy outermost match fails to parse",
			// The greedy first-{ to last-} span covers both blocks; that is
			// not valid JSON, so the whole text is the final reply.
			text:   `{"tool":"get_weather","date":"2025-06-01"} and also {"tool":"cancel_booking","customerName":"Jo"}`,
			wantOK: false,
		},
		{
			name:   "closing brace before opening brace",
			text:   `} nothing here {`,
			wantOK: false,
		},
		{
			name:     "whitespace and newlines inside block",
			text:     "{\n  \"tool\": \"cancel_booking\",\n  \"customerName\": \"John Doe\"\n}",
			wantTool: "cancel_booking",
			wantOK:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, ok := extractToolCall(tt.text)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Nil(t, call)
				return
			}
			assert.Equal(t, tt.wantTool, call.Tool)
			if tt.wantRaw != "" {
				assert.Equal(t, tt.wantRaw, call.raw)
			}
		})
	}
}
