package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// DefaultIDAttempts bounds collision retries for generated identifiers
const DefaultIDAttempts = 10

const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ExistsFunc reports whether a candidate identifier is already taken
type ExistsFunc func(ctx context.Context, id string) (bool, error)

// IDGenerator produces a candidate identifier
type IDGenerator func() (string, error)

// GenerateUnique draws candidates from gen until exists reports a free one.
// It returns ErrIDGenerationFailed after attempts collisions.
func GenerateUnique(ctx context.Context, gen IDGenerator, exists ExistsFunc, attempts int) (string, error) {
	if attempts <= 0 {
		attempts = DefaultIDAttempts
	}
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate, err := gen()
		if err != nil {
			return "", fmt.Errorf("generate identifier: %w", err)
		}
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check identifier %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrIDGenerationFailed
}

// RandomHex returns the hex encoding of n random bytes
func RandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// RandomIntInRange returns a uniformly random integer in [min, max]
func RandomIntInRange(min, max int64) (int64, error) {
	if max < min {
		return 0, fmt.Errorf("invalid range [%d, %d]", min, max)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return 0, err
	}
	return min + n.Int64(), nil
}

// RandomDigits returns n decimal digits with a non-zero leading digit
func RandomDigits(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("invalid digit count %d", n)
	}
	lo := int64(1)
	for i := 1; i < n; i++ {
		lo *= 10
	}
	v, err := RandomIntInRange(lo, lo*10-1)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", v), nil
}

// RandomBase36 returns n upper-case base36 characters
func RandomBase36(n int) (string, error) {
	var sb strings.Builder
	sb.Grow(n)
	max := big.NewInt(int64(len(base36Alphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(base36Alphabet[idx.Int64()])
	}
	return sb.String(), nil
}
