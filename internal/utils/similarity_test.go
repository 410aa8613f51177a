package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNameSimilarity_IdenticalNames(t *testing.T) {
	require.Equal(t, 1.0, NameSimilarity("Nguyen Van An", "Nguyen Van An"))
	require.Equal(t, 1.0, NameSimilarity("Nguyen Van An", "  nguyen  VAN an  "))
}

func TestNameSimilarity_EmptyInput(t *testing.T) {
	require.Equal(t, 0.0, NameSimilarity("", "Nguyen Van An"))
	require.Equal(t, 0.0, NameSimilarity("Nguyen Van An", "   "))
	require.Equal(t, 0.0, NameSimilarity("", ""))
}

func TestNameSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"Nguyen Van An", "Nguyen Van Binh"},
		{"Tran Thi Cuc", "Nguyen Van An"},
		{"Le Hoang", "Le Hoang Long"},
	}
	for _, p := range pairs {
		require.Equal(t, NameSimilarity(p[0], p[1]), NameSimilarity(p[1], p[0]))
	}
}

func TestNameSimilarity_SubstringWordsMatch(t *testing.T) {
	// "an" is contained in "van", so every word of the shorter name matches
	require.Equal(t, 1.0, NameSimilarity("Nguyen Van An", "Nguyen Van Binh"))
	// shorter name fully contained, denominator is the longer word count
	require.InDelta(t, 2.0/3.0, NameSimilarity("Le Hoang", "Le Hoang Long"), 1e-9)
}

func TestNameSimilarity_UnrelatedNames(t *testing.T) {
	score := NameSimilarity("Tran Thi Cuc", "Nguyen Van An")
	require.Less(t, score, 0.5)
}
