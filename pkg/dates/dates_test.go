package dates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *string
	}{
		{
			name:     "ISO passes through canonical",
			input:    "2023-12-31",
			expected: strPtr("2023-12-31"),
		},
		{
			name:     "day first slashes",
			input:    "31/12/2023",
			expected: strPtr("2023-12-31"),
		},
		{
			name:     "month first slashes when day-first impossible",
			input:    "12/31/2023",
			expected: strPtr("2023-12-31"),
		},
		{
			name:     "ambiguous resolves day first",
			input:    "03/04/2023",
			expected: strPtr("2023-04-03"),
		},
		{
			name:     "day first dashes",
			input:    "31-12-2023",
			expected: strPtr("2023-12-31"),
		},
		{
			name:     "year first slashes",
			input:    "2023/12/31",
			expected: strPtr("2023-12-31"),
		},
		{
			name:     "day month-name year",
			input:    "31 Dec 2023",
			expected: strPtr("2023-12-31"),
		},
		{
			name:     "month-name day comma year",
			input:    "Dec 31, 2023",
			expected: strPtr("2023-12-31"),
		},
		{
			name:     "unpadded day first slashes",
			input:    "3/4/2023",
			expected: strPtr("2023-04-03"),
		},
		{
			name:     "unpadded day first dashes",
			input:    "3-4-2023",
			expected: strPtr("2023-04-03"),
		},
		{
			name:     "unpadded year first slashes",
			input:    "2023/4/3",
			expected: strPtr("2023-04-03"),
		},
		{
			name:     "unpadded ISO dashes",
			input:    "2023-4-3",
			expected: strPtr("2023-04-03"),
		},
		{
			name:     "unpadded month first when day-first impossible",
			input:    "1/31/2023",
			expected: strPtr("2023-01-31"),
		},
		{
			name:     "empty yields nil",
			input:    "",
			expected: nil,
		},
		{
			name:     "whitespace yields nil",
			input:    "   ",
			expected: nil,
		},
		{
			name:     "unknown format passes through verbatim",
			input:    "not-a-date",
			expected: strPtr("not-a-date"),
		},
		{
			name:     "surrounding whitespace trimmed before parse",
			input:    "  31/12/2023  ",
			expected: strPtr("2023-12-31"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := Normalize(tt.input)
			if tt.expected == nil {
				assert.Nil(t, actual)
				return
			}
			if assert.NotNil(t, actual) {
				assert.Equal(t, *tt.expected, *actual)
			}
		})
	}
}

func strPtr(s string) *string {
	return &s
}
