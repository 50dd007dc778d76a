package joincode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"guest-chat/errors"
)

func never(string) (bool, error) { return false, nil }

func TestGenerator_Allocate_Length_And_Alphabet(t *testing.T) {
	req := require.New(t)
	gen := NewGenerator(0)

	for i := 0; i < 200; i++ {
		code, err := gen.Allocate(never)
		req.NoError(err)
		req.Len(code, CodeLength)
		for _, r := range code {
			req.True(strings.ContainsRune(alphabet, r), "unexpected symbol %q in %q", r, code)
		}
	}
}

func TestGenerator_Allocate_Draws_Distinct_Codes(t *testing.T) {
	req := require.New(t)
	gen := NewGenerator(0)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code, err := gen.Allocate(never)
		req.NoError(err)
		seen[code] = struct{}{}
	}
	// 100 draws from 62^6 candidates colliding would be astronomically
	// unlucky; treat it as a broken generator.
	req.Len(seen, 100)
}

func TestGenerator_Allocate_Retries_Taken_Codes(t *testing.T) {
	req := require.New(t)
	gen := NewGenerator(5)

	calls := 0
	code, err := gen.Allocate(func(string) (bool, error) {
		calls++
		return calls < 3, nil
	})

	req.NoError(err)
	req.Len(code, CodeLength)
	req.Equal(3, calls)
}

func TestGenerator_Allocate_Reports_Exhaustion(t *testing.T) {
	req := require.New(t)
	gen := NewGenerator(4)

	calls := 0
	_, err := gen.Allocate(func(string) (bool, error) {
		calls++
		return true, nil
	})

	req.ErrorIs(err, errors.ErrCodeSpaceExhausted)
	req.Equal(4, calls)
}
