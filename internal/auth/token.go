package auth

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// Issuer hands out confirmation tokens. Implementations keep no state and
// never check a new token against previously issued ones.
type Issuer interface {
	Issue() (int64, error)
}

// RandomIssuer draws tokens uniformly from the whole int64 range.
type RandomIssuer struct{}

func NewRandomIssuer() RandomIssuer {
	return RandomIssuer{}
}

func (RandomIssuer) Issue() (int64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("failed to read random token: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}
