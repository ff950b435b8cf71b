// Package crypto provides the bcrypt-backed password encoder. Hashing
// lives here so the core can treat credential material as opaque text.
package crypto

import "golang.org/x/crypto/bcrypt"

type BcryptEncoder struct {
	cost int
}

// NewBcryptEncoder returns an encoder using the given cost, or the bcrypt
// default when cost is zero or negative.
func NewBcryptEncoder(cost int) *BcryptEncoder {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptEncoder{cost: cost}
}

func (e *BcryptEncoder) Encode(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), e.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (e *BcryptEncoder) Matches(encoded, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(raw)) == nil
}
