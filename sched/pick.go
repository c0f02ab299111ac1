// Participant Selection
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

package sched

import (
	"math/rand"

	"go-hlt"
)

// Seeds are drawn from this range, the one the engine accepts.
const (
	seedMin = 10000
	seedMax = 2073741824
)

// A matchmaker draws a round's participants and map parameters.
// Selection is memoryless on purpose: uniform draws give round-robin
// coverage in the long run without tracking pairing history.
type matchmaker struct {
	rng *rand.Rand
}

// pick selects between MIN and min(MAX, |pool|) distinct players,
// each subset of a given size equally likely.
func (mm *matchmaker) pick(pool []*hlt.Player, min, max uint) ([]*hlt.Player, error) {
	if uint(len(pool)) < min {
		return nil, hlt.ErrInsufficientPlayers
	}

	hi := max
	if uint(len(pool)) < hi {
		hi = uint(len(pool))
	}
	k := min + uint(mm.rng.Intn(int(hi-min)+1))

	players := make([]*hlt.Player, k)
	for i, j := range mm.rng.Perm(len(pool))[:k] {
		players[i] = pool[j]
	}
	return players, nil
}

// mapSize draws a square board with sides quantized to multiples of
// five, the only sizes the engine accepts.
func (mm *matchmaker) mapSize(min, max uint) (width, height uint) {
	lo, hi := min/5, max/5
	width = 5 * (lo + uint(mm.rng.Intn(int(hi-lo)+1)))
	return width, width
}

// seed picks the map seed for one round.  Reproducibility holds
// within a round only, the seed is logged for manual replays.
func (mm *matchmaker) seed() int64 {
	return seedMin + mm.rng.Int63n(seedMax-seedMin+1)
}
