// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const utf8BOM = "\ufeff"

// maxLineBytes bounds a single address line.
const maxLineBytes = 64 * 1024

// Address is one non-blank input line.
type Address struct {
	Text string
	Line int // 1-based line number in the source
}

// ParseAddresses reads one address per line. A leading byte order mark,
// trailing carriage returns and surrounding whitespace are removed and blank
// lines are skipped. A positive limit caps the number of addresses.
func ParseAddresses(r io.Reader, limit int) ([]Address, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	var out []Address
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if line == 1 {
			text = strings.TrimPrefix(text, utf8BOM)
		}
		text = strings.TrimSpace(strings.TrimRight(text, "\r"))
		if text == "" {
			continue
		}
		if limit > 0 && len(out) == limit {
			return nil, fmt.Errorf("%w: more than %d", ErrTooManyAddresses, limit)
		}
		out = append(out, Address{Text: text, Line: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read addresses: %w", err)
	}
	return out, nil
}

func fromLines(lines []string) []Address {
	out := make([]Address, 0, len(lines))
	for i, l := range lines {
		if i == 0 {
			l = strings.TrimPrefix(l, utf8BOM)
		}
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		out = append(out, Address{Text: l, Line: i + 1})
	}
	return out
}
