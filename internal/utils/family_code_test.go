package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateFamilyCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateFamilyCode()
		require.NoError(t, err)
		require.Len(t, code, 4)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9')
		}
		seen[code] = true
	}
	// 50 draws from 10000 codes should not all collapse to one value
	require.Greater(t, len(seen), 1)
}
