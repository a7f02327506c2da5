package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// Dictionary words chosen to avoid partial collisions ("he" inside "The").
func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	dictionary := []string{"badger", "snake", "mushroom"}
	mod, err := NewModerator(dictionary, replacementChar)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple word, spacing preserved",
			input:    "The badger is here",
			expected: "The ****** is here",
		},
		{
			name:     "multiple occurrences",
			input:    "badger badger badger",
			expected: "****** ****** ******",
		},
		{
			name:     "leet speak variant",
			input:    "that b4dger again",
			expected: "that ****** again",
		},
		{
			name:     "punctuation inside the word",
			input:    "sn.ake alert",
			expected: "****** alert",
		},
		{
			name:     "mixed case",
			input:    "MUSHROOM soup",
			expected: "******** soup",
		},
		{
			name:     "clean text untouched",
			input:    "nothing to censor here",
			expected: "nothing to censor here",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, mod.Censor(tt.input))
		})
	}
}

func TestModerator_Empty_Dictionary_Censors_Nothing(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator(nil, replacementChar)
	req.NoError(err)
	req.Equal("badger badger", mod.Censor("badger badger"))
}

func BenchmarkModerator_Censor(b *testing.B) {
	mod, err := NewModerator([]string{"badger", "snake", "mushroom"}, replacementChar)
	require.NoError(b, err)
	input := "The b4dger and the sn.ake were talking about MUSHROOM soup all night"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = mod.Censor(input)
	}
}
