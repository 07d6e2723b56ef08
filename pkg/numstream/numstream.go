// SPDX-License-Identifier: Apache-2.0

// Package numstream extracts a flat sequence of numeric tokens from an
// input stream, ignoring any enclosing structural characters (JSON
// brackets, commas, colons, quoted keys) and YAML-style "#" comments.
//
// Both the task-system input file and the checkpoint file are, at heart, an
// ordered list of numbers; this package implements the minimal tokenizer
// the reference implementation's JSON helper provides to its callers, so
// that the surrounding structure (or lack of it) never matters to the core.
package numstream

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Extract reads all numeric tokens (signed integers or floating point
// literals) from r, in order, skipping everything else: brackets, commas,
// colons, quoted strings (numeric content included), and "#"-prefixed line
// comments.
func Extract(r io.Reader) ([]float64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	scanner.Split(bufio.ScanRunes)

	var (
		nums    []float64
		tok     strings.Builder
		inToken bool
		inQuote bool
		inCmt   bool
	)

	flush := func() error {
		if !inToken {
			return nil
		}
		inToken = false
		s := tok.String()
		tok.Reset()
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// Not a numeric token (e.g. stray word); ignore per the
			// "structural tokens are ignored" contract.
			return nil
		}
		nums = append(nums, v)
		return nil
	}

	for scanner.Scan() {
		ch := scanner.Text()
		r := []rune(ch)[0]

		if inCmt {
			if r == '\n' {
				inCmt = false
			}
			continue
		}
		if inQuote {
			if r == '"' {
				inQuote = false
			}
			continue
		}
		switch {
		case r == '#':
			if err := flush(); err != nil {
				return nil, err
			}
			inCmt = true
		case r == '"':
			if err := flush(); err != nil {
				return nil, err
			}
			inQuote = true
		case isNumberRune(r):
			tok.WriteRune(r)
			inToken = true
		default:
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return nums, nil
}

func isNumberRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r == '-' || r == '+' || r == '.' || r == 'e' || r == 'E':
		return true
	default:
		return false
	}
}
