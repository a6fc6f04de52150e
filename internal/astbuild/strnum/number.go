// Package strnum decodes the literal text of NUMBER and STRING tokens
// into Constant values: spec.md §4.6's number()/string() leaf builders,
// and §9's number_token int→float→complex fallback chain restated
// without CPython's C-level object machinery.
package strnum

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Number decodes a NUMBER token's literal text. It tries, in order:
// an arbitrary-precision integer (honoring 0x/0o/0b prefixes and `_`
// digit separators), then a float, then — if the literal ends in `j`
// or `J` — a complex number with that imaginary part and a zero real
// part. This mirrors original_source/pegen/pegen.c's number_token:
// PyLong_FromString first, PyFloat_FromString on failure, promoted to
// PyComplex_FromDoubles when the trailing j/J marks an imaginary
// literal.
func Number(literal string) (any, error) {
	if literal == "" {
		return nil, fmt.Errorf("empty number literal")
	}

	last := literal[len(literal)-1]
	if last == 'j' || last == 'J' {
		imag, err := parseFloatLike(literal[:len(literal)-1])
		if err != nil {
			return nil, fmt.Errorf("invalid complex literal %q: %w", literal, err)
		}
		return complex(0, imag), nil
	}

	if i, ok := tryInt(literal); ok {
		return i, nil
	}

	f, err := parseFloatLike(literal)
	if err != nil {
		return nil, fmt.Errorf("invalid number literal %q: %w", literal, err)
	}
	return f, nil
}

func tryInt(literal string) (*big.Int, bool) {
	clean := strings.ReplaceAll(literal, "_", "")
	lower := strings.ToLower(clean)

	base := 10
	switch {
	case strings.HasPrefix(lower, "0x"):
		base, clean = 16, clean[2:]
	case strings.HasPrefix(lower, "0o"):
		base, clean = 8, clean[2:]
	case strings.HasPrefix(lower, "0b"):
		base, clean = 2, clean[2:]
	default:
		if strings.ContainsAny(clean, ".eE") {
			return nil, false
		}
	}

	i := new(big.Int)
	if _, ok := i.SetString(clean, base); !ok {
		return nil, false
	}
	return i, true
}

func parseFloatLike(literal string) (float64, error) {
	clean := strings.ReplaceAll(literal, "_", "")
	return strconv.ParseFloat(clean, 64)
}
