package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateWorkCode returns a uniform-random 6-digit numeric code used to gate
// the work-start transition. Codes are single-use and scoped to one booking,
// so collisions across bookings are acceptable.
func GenerateWorkCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate work code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
