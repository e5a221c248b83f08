package llm

import (
	"testing"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n[{\"name\": \"Revenue\"}]\n```",
			expected: `[{"name": "Revenue"}]`,
		},
		{
			name:     "generic code block",
			input:    "```\n[{\"name\": \"Revenue\"}]\n```",
			expected: `[{"name": "Revenue"}]`,
		},
		{
			name:     "code block with language identifier",
			input:    "```javascript\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "array on first line of generic block",
			input:    "```[1, 2, 3]\n```",
			expected: `[1, 2, 3]`,
		},
		{
			name:     "plain JSON untouched",
			input:    `[{"name": "Revenue"}]`,
			expected: `[{"name": "Revenue"}]`,
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  \n[1]\n  ",
			expected: `[1]`,
		},
		{
			name:     "unterminated fence",
			input:    "```json\n[1]",
			expected: `[1]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}
