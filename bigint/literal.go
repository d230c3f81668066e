// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package bigint

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/luxfi/hecore/bitspan"
)

// ParseLiteral parses a user-facing integer literal: hex
// (0x...), binary (0b...), octal (0o...), or decimal, with underscores
// allowed as digit separators and leading zeros ignored. The result is
// folded into the narrowest unsigned Int that holds it (at least 1 bit).
func ParseLiteral(s string) (Int, error) {
	v, err := parseLiteralBig(s)
	if err != nil {
		return Int{}, err
	}
	bits := v.BitLen()
	if bits == 0 {
		bits = 1
	}
	return FromBig(bits, bitspan.Unsigned, v), nil
}

func parseLiteralBig(s string) (*big.Int, error) {
	orig := s
	s = strings.ReplaceAll(s, "_", "")
	if s == "" {
		return nil, fmt.Errorf("bigint: empty literal %q", orig)
	}

	base := 10
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		base, s = 2, s[2:]
	case strings.HasPrefix(s, "0o") || strings.HasPrefix(s, "0O"):
		base, s = 8, s[2:]
	}

	s = strings.TrimLeft(s, "0")
	if s == "" {
		return big.NewInt(0), nil
	}

	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("bigint: invalid literal %q", orig)
	}
	return v, nil
}
