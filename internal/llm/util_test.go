package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare object untouched",
			raw:  `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "json code fence stripped",
			raw:  "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "plain code fence stripped",
			raw:  "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "surrounding prose trimmed",
			raw:  "Here is the result:\n{\"a\": 1}\nLet me know if you need more.",
			want: `{"a": 1}`,
		},
		{
			name: "nested braces kept intact",
			raw:  `prefix {"a": {"b": 2}} suffix`,
			want: `{"a": {"b": 2}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.raw))
		})
	}
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		def  int
		want int
	}{
		{"float", 12.0, 0, 12},
		{"float rounds", 12.6, 0, 13},
		{"quoted number", "7", 0, 7},
		{"negative to default", -3.0, 5, 5},
		{"garbage to default", "lots", 4, 4},
		{"nil to default", nil, 2, 2},
		{"bool to default", true, 9, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceInt(tt.in, tt.def))
		})
	}
}

func TestCoerceString(t *testing.T) {
	assert.Equal(t, "hello", CoerceString("  hello  ", "x"))
	assert.Equal(t, "x", CoerceString("", "x"))
	assert.Equal(t, "x", CoerceString(nil, "x"))
	assert.Equal(t, "3.5", CoerceString(3.5, "x"))
}

func TestCoerceStringList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, CoerceStringList([]any{"a", " b ", "", 7}))
	assert.Empty(t, CoerceStringList(nil))
	assert.Empty(t, CoerceStringList("not a list"))
	assert.NotNil(t, CoerceStringList(nil))
}
