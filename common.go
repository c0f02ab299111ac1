// Common Types and Constants
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

package hlt

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// Rating values assigned to a freshly registered player
	DefaultMu    = 50.0
	DefaultSigma = DefaultMu / 3
	DefaultRank  = 1000
)

var (
	ErrDuplicateName       = errors.New("player name already in use")
	ErrNotFound            = errors.New("no such player")
	ErrInsufficientPlayers = errors.New("not enough active players")
)

// A Rating is a Gaussian skill estimate.
type Rating struct {
	Mu    float64
	Sigma float64
}

// Skill is the conservative lower bound used for ranking: three
// standard deviations below the mean, i.e. what a player is almost
// certainly at least as good as.
func (r Rating) Skill() float64 {
	return r.Mu - 3*r.Sigma
}

// A Player is one competing program.
type Player struct {
	Name     string
	Path     string
	Mu       float64
	Sigma    float64
	Skill    float64
	Rank     int
	Games    uint
	LastSeen time.Time
	Active   bool
}

func (p *Player) Rating() Rating {
	return Rating{Mu: p.Mu, Sigma: p.Sigma}
}

func (p *Player) String() string {
	return fmt.Sprintf("%s (%.2f)", p.Name, p.Skill)
}

// A Match is one engine invocation: the participants in invocation
// order, the board parameters and the wall-clock budget.  The
// participant order is load-bearing, it is the index mapping the
// engine reports results against.
type Match struct {
	Players []*Player
	Width   uint
	Height  uint
	Seed    int64
	Budget  time.Duration
}

func (m *Match) String() string {
	names := make([]string, len(m.Players))
	for i, p := range m.Players {
		names[i] = p.Name
	}
	return fmt.Sprintf("%s on %dx%d (seed %d)",
		strings.Join(names, ", "), m.Width, m.Height, m.Seed)
}

// An Outcome is the parsed result of one match.  Ranks is indexed by
// invocation order, 1 is best and ties are permitted.
type Outcome struct {
	Ranks    []int
	Replay   string
	Timeouts []string
}

// A Result pairs a match with its outcome, for history bookkeeping
// and the live feed.
type Result struct {
	Match   *Match
	Outcome *Outcome
	When    time.Time
}

// A RoundRecord is one persisted row of round history.  It is
// bookkeeping only, the rating pipeline never reads it back.
type RoundRecord struct {
	ID      int64
	Players string
	Seed    int64
	Width   uint
	Height  uint
	Replay  string
	Played  time.Time
}
