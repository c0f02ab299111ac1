// Match Construction
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
	"errors"
	"math"
	"strconv"
	"time"

	"go-hlt"
)

// ErrTimeout indicates the engine exceeded the match time budget and
// was killed.
var ErrTimeout = errors.New("engine exceeded the time budget")

// Rounds estimates the number of turns the engine will allow on a
// board, proportional to the square root of its area.
func Rounds(width, height uint) float64 {
	return math.Sqrt(float64(width*height)) * 10
}

// Budget is the wall-clock limit for a match: the expected turn count
// times the participant count, doubled as safety margin, in seconds.
func Budget(players int, width, height uint) time.Duration {
	return time.Duration(2*float64(players)*Rounds(width, height)) * time.Second
}

// Make builds a match for the given participants.  The slice order is
// preserved, it defines the participant indices of the result
// protocol.
func Make(players []*hlt.Player, width, height uint, seed int64) *hlt.Match {
	return &hlt.Match{
		Players: players,
		Width:   width,
		Height:  height,
		Seed:    seed,
		Budget:  Budget(len(players), width, height),
	}
}

// Argv constructs the engine invocation:
//
//	<engine> -d <width> <height> -q -s <seed> <path>...
func Argv(engine string, m *hlt.Match) []string {
	argv := []string{
		engine,
		"-d",
		strconv.FormatUint(uint64(m.Width), 10),
		strconv.FormatUint(uint64(m.Height), 10),
		"-q",
		"-s",
		strconv.FormatInt(m.Seed, 10),
	}
	for _, p := range m.Players {
		argv = append(argv, p.Path)
	}
	return argv
}
