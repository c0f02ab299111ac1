// Engine Result Parsing
//
// Copyright (c) 2026  The go-hlt authors
//
// This file is part of go-hlt.
//
// go-hlt is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// go-hlt is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with go-hlt. If not, see
// <http://www.gnu.org/licenses/>

package match

import (
	"fmt"
	"strconv"
	"strings"

	"go-hlt"
)

// A ParseError signals that the engine output violated the result
// protocol.  The round is a write-off, no partial outcome is ever
// produced.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "malformed engine output: " + e.Reason
}

func parseErrorf(format string, args ...interface{}) error {
	return &ParseError{Reason: fmt.Sprintf(format, args...)}
}

// Parse interprets the engine's standard output for a match with N
// participants.  The protocol is line-oriented and positional:
//
//	line 0 .. n-1    player headers (ignored)
//	line n           replay file, first token is the file name
//	line n+1 .. 2n   "<rank> <index>", index is 1-based invocation order
//	line 2n+1        whitespace-delimited timeout markers
//
// Every structural violation is a ParseError.
func Parse(raw []byte, n int) (*hlt.Outcome, error) {
	lines := strings.Split(string(raw), "\n")
	if want := 2*n + 2; len(lines) < want {
		return nil, parseErrorf("%d lines of output, need at least %d",
			len(lines), want)
	}

	out := &hlt.Outcome{Ranks: make([]int, n)}

	fields := strings.Fields(lines[n])
	if len(fields) == 0 {
		return nil, parseErrorf("line %d: missing replay file name", n)
	}
	out.Replay = fields[0]

	seen := make([]bool, n)
	for i := 0; i < n; i++ {
		line := lines[n+1+i]
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, parseErrorf("line %d: expected rank and index, got %q",
				n+1+i, line)
		}
		rank, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, parseErrorf("line %d: bad rank %q", n+1+i, fields[0])
		}
		idx, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, parseErrorf("line %d: bad index %q", n+1+i, fields[1])
		}
		if idx < 1 || idx > n {
			return nil, parseErrorf("line %d: index %d out of range 1..%d",
				n+1+i, idx, n)
		}
		if seen[idx-1] {
			return nil, parseErrorf("line %d: duplicate index %d", n+1+i, idx)
		}
		seen[idx-1] = true
		out.Ranks[idx-1] = rank
	}

	out.Timeouts = strings.Fields(lines[2*n+1])

	return out, nil
}
