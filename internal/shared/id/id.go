// Package id provides ID generation for tabs, pipelines and bridge
// connections.
//
// IDs are prefixed ULIDs ("tab_01J...", "pipe_01J..."):
//   - Lexicographic sortability: pipelines of a tab list in start order
//   - Prefixed types: the prefix tells log readers what an ID refers to
//   - Type safety: separate types prevent passing a pipeline ID as a tab ID
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// TabID identifies a browser tab and its gaze coordinator
type TabID string

// PipelineID identifies one pipeline instance
type PipelineID string

// ConnID identifies a bridge WebSocket connection
type ConnID string

const (
	TabPrefix      = "tab"
	PipelinePrefix = "pipe"
	ConnPrefix     = "conn"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator whose IDs increase monotonically within
// the same millisecond
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source
// Useful for testing with deterministic entropy
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewTabID generates a new tab ID
func NewTabID() TabID {
	return TabID(Default().GenerateWithPrefix(TabPrefix))
}

// NewPipelineID generates a new pipeline ID
func NewPipelineID() PipelineID {
	return PipelineID(Default().GenerateWithPrefix(PipelinePrefix))
}

// NewConnID generates a new connection ID
func NewConnID() ConnID {
	return ConnID(Default().GenerateWithPrefix(ConnPrefix))
}

func (id TabID) String() string      { return string(id) }
func (id PipelineID) String() string { return string(id) }
func (id ConnID) String() string     { return string(id) }

// Split separates a prefixed ID into prefix and ULID part. Unprefixed IDs
// return an empty prefix.
func Split(id string) (prefix, rest string) {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		return id[:i], id[i+1:]
	}
	return "", id
}

// IsValid checks if an ID string, prefixed or not, holds a valid ULID
func IsValid(id string) bool {
	_, err := Parse(id)
	return err == nil
}

// Parse parses the ULID part of an ID
func Parse(id string) (ulid.ULID, error) {
	_, rest := Split(id)
	return ulid.Parse(rest)
}

// Timestamp extracts the creation time from an ID
func Timestamp(id string) (time.Time, error) {
	parsed, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
