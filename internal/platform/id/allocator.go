package id

import (
	"errors"
	"fmt"
)

// DefaultAttempts bounds the collision retry loop when the caller does
// not configure one.
const DefaultAttempts = 100

var ErrAttemptsExhausted = errors.New("id generation attempts exhausted")

// Allocator draws ids from a Generator until one is not taken or the
// attempt budget runs out. On exhaustion it still returns the last id
// drawn alongside the error so the caller can choose to proceed.
type Allocator struct {
	gen      Generator
	attempts int
}

func NewAllocator(gen Generator, attempts int) Allocator {
	if attempts < 1 {
		attempts = DefaultAttempts
	}
	return Allocator{gen: gen, attempts: attempts}
}

func (a Allocator) Attempts() int {
	return a.attempts
}

func (a Allocator) Allocate(hint string, taken func(string) bool) (string, error) {
	last := ""
	for i := 0; i < a.attempts; i++ {
		last = a.gen.New(hint)
		if !taken(last) {
			return last, nil
		}
	}
	return last, fmt.Errorf("%w after %d attempts", ErrAttemptsExhausted, a.attempts)
}
