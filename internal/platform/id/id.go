package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"pairrank/internal/platform/clock"
	"pairrank/internal/platform/slug"
)

// Generator creates identifiers from a human-readable hint. Strategies
// may ignore the hint entirely.
type Generator interface {
	New(hint string) string
}

type RandomHex struct{}

func (RandomHex) New(string) string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

type UUID struct{}

func (UUID) New(string) string {
	return uuid.NewString()
}

// SlugStamp builds readable ids: a shortened slug of the hint, a base36
// millisecond timestamp, and a random tail.
type SlugStamp struct {
	Clock clock.Clock
}

func (g SlugStamp) New(hint string) string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	stamp := strconv.FormatInt(g.Clock.Now().UnixMilli(), 36)
	return fmt.Sprintf("%s-%s%s", slug.Shorten(hint, 24), stamp, hex.EncodeToString(buf))
}

const (
	StrategySlug = "slug"
	StrategyHex  = "hex"
	StrategyUUID = "uuid"
)

func NewGenerator(strategy string, clk clock.Clock) (Generator, error) {
	switch strategy {
	case StrategySlug, "":
		return SlugStamp{Clock: clk}, nil
	case StrategyHex:
		return RandomHex{}, nil
	case StrategyUUID:
		return UUID{}, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}
