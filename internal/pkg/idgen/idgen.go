// Package idgen provides ID and join-code generation
package idgen

import (
	"crypto/rand"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator generates unique identifiers
type Generator interface {
	Generate() string
}

// SequentialGenerator generates sequential IDs for testing
type SequentialGenerator struct {
	prefix  string
	counter uint64
}

// NewSequential creates a new sequential generator
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate creates a new sequential ID
func (g *SequentialGenerator) Generate() string {
	n := atomic.AddUint64(&g.counter, 1)
	if g.prefix != "" {
		return fmt.Sprintf("%s_%d", g.prefix, n)
	}
	return fmt.Sprintf("%d", n)
}

// UUIDGenerator generates UUIDs with optional prefix
type UUIDGenerator struct {
	prefix string
}

// NewUUID creates a new UUID generator with optional prefix
func NewUUID(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

// Generate creates a new UUID-based ID
func (g *UUIDGenerator) Generate() string {
	id := uuid.New().String()
	if g.prefix != "" {
		return fmt.Sprintf("%s_%s", g.prefix, id)
	}
	return id
}

// codeAlphabet leaves out 0/O and 1/I so codes survive being read aloud
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// DefaultCodeLength is the length of a match join code
const DefaultCodeLength = 6

// CodeGenerator generates short human-typeable join codes
type CodeGenerator struct {
	length int
}

// NewCode creates a join-code generator. Non-positive lengths use
// DefaultCodeLength.
func NewCode(length int) *CodeGenerator {
	if length <= 0 {
		length = DefaultCodeLength
	}
	return &CodeGenerator{length: length}
}

// Generate returns a random code drawn from codeAlphabet
func (g *CodeGenerator) Generate() string {
	buf := make([]byte, g.length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read does not fail on supported platforms
		panic(fmt.Sprintf("crypto/rand.Read failed: %v", err))
	}
	for i, b := range buf {
		// 256 is a multiple of len(codeAlphabet), so this is unbiased
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}
