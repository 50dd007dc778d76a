// Package joincode produces the short random codes used to join rooms.
package joincode

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"guest-chat/errors"
)

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// CodeLength is fixed by the wire contract: every join code is exactly
	// six characters.
	CodeLength = 6

	defaultMaxAttempts = 10
)

// ExistsFunc reports whether a candidate code is already held by an
// existing room. It is supplied by the caller so collision checks run
// against whatever snapshot the caller is operating in.
type ExistsFunc func(code string) (bool, error)

// Allocator draws collision-free join codes.
type Allocator interface {
	Allocate(exists ExistsFunc) (string, error)
}

// Generator draws codes uniformly at random, one independent symbol at a
// time, so the scheme depends only on collision probability and never on
// a counter.
type Generator struct {
	maxAttempts int
}

func NewGenerator(maxAttempts int) Generator {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return Generator{maxAttempts: maxAttempts}
}

// Allocate draws fresh candidates until one passes the existence check.
// Exhausting the attempt budget is reported as ErrCodeSpaceExhausted
// rather than looping forever; at realistic room counts (62^6 codes)
// this is practically unreachable.
func (g Generator) Allocate(exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		code, err := g.draw()
		if err != nil {
			return "", err
		}
		taken, err := exists(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: %d attempts", errors.ErrCodeSpaceExhausted, g.maxAttempts)
}

func (g Generator) draw() (string, error) {
	symbols := make([]byte, CodeLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := range symbols {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("drawing join code symbol: %w", err)
		}
		symbols[i] = alphabet[n.Int64()]
	}
	return string(symbols), nil
}
