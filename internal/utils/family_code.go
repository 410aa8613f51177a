package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateFamilyCode draws a random 4-digit numeric code ("0000"-"9999").
// Callers must check for collisions against existing families and redraw.
func GenerateFamilyCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random code: %w", err)
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
