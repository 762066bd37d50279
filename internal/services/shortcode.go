package services

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/speps/go-hashids/v2"
)

// ShortCodeGenerator produces compact, shareable codes from random input.
// Uniqueness is ultimately enforced by the store's unique index; the caller
// retries on the rare collision.
type ShortCodeGenerator struct {
	hashID *hashids.HashID
}

func NewShortCodeGenerator(salt string, minLength int) (*ShortCodeGenerator, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = minLength
	hashID, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("failed to init short code generator: %w", err)
	}
	return &ShortCodeGenerator{hashID: hashID}, nil
}

func (g *ShortCodeGenerator) Generate() (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	n := int64(binary.BigEndian.Uint64(buf[:]) >> 1)
	code, err := g.hashID.EncodeInt64([]int64{n})
	if err != nil {
		return "", fmt.Errorf("failed to encode short code: %w", err)
	}
	return code, nil
}
