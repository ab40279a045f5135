package cli

import (
	"bytes"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"YAML", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"json", FormatJSON, false},
		{"csv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			format, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestRender(t *testing.T) {
	value := struct {
		Name  string          `json:"name" yaml:"name"`
		Hours decimal.Decimal `json:"hours" yaml:"hours"`
	}{"Website Redesign", decimal.RequireFromString("12.5")}

	text := func(w io.Writer) { _, _ = io.WriteString(w, "Website Redesign: 12.5h\n") }

	tests := []struct {
		format   Format
		expected string
	}{
		{FormatText, "Website Redesign: 12.5h\n"},
		{FormatJSON, "{\n  \"name\": \"Website Redesign\",\n  \"hours\": \"12.5\"\n}\n"},
		{FormatYAML, "name: Website Redesign\nhours: \"12.5\"\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, tt.format, value, text))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}
