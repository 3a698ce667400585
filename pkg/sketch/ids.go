package sketch

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces fresh, collision-free identifiers for joints and
// shapes. Identifiers are never reused within a session.
type IDGenerator interface {
	NextID() string
}

// IDFunc adapts a plain function to IDGenerator.
type IDFunc func() string

// NextID calls f.
func (f IDFunc) NextID() string { return f() }

// UUIDGenerator issues random UUIDs with an optional prefix.
type UUIDGenerator struct {
	Prefix string
}

// NextID returns a new prefixed UUID.
func (g UUIDGenerator) NextID() string {
	return g.Prefix + uuid.NewString()
}

// SequenceGenerator issues prefix1, prefix2, ... It is deterministic, which
// makes it the generator of choice for scripts and tests.
type SequenceGenerator struct {
	Prefix string
	n      atomic.Uint64
}

// NewSequenceGenerator returns a generator starting at 1.
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{Prefix: prefix}
}

// NextID returns the next id in the sequence.
func (g *SequenceGenerator) NextID() string {
	return fmt.Sprintf("%s%d", g.Prefix, g.n.Add(1))
}
