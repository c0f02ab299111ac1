// Round Orchestration
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
	"context"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"go-hlt"
	"go-hlt/cmd"
	"go-hlt/match"
	"go-hlt/rating"
	"go-hlt/sched/isol"

	"github.com/pkg/errors"
)

// rounds drives the tournament: select, execute, rate, persist.
// Rounds run strictly sequentially, the player store is not built
// for concurrent writers.
type rounds struct {
	mm     matchmaker
	engine isol.Engine
	rate   rating.Engine
	count  int
	done   chan struct{}
}

// MakeRounds returns a manager playing COUNT rounds, or indefinitely
// when COUNT is negative.
func MakeRounds(engine isol.Engine, rate rating.Engine, count int) cmd.Manager {
	return &rounds{
		mm:     matchmaker{rng: rand.New(rand.NewSource(time.Now().UnixNano()))},
		engine: engine,
		rate:   rate,
		count:  count,
		done:   make(chan struct{}),
	}
}

func (r *rounds) String() string { return "Round Loop" }

func (r *rounds) Start(st *cmd.State, conf *cmd.Conf) {
	defer close(r.done)
	defer st.Kill()

	for i := 0; r.count < 0 || i < r.count; i++ {
		// Interruption takes effect between rounds; an in-flight
		// engine run is only ever stopped by its own budget.
		select {
		case <-st.Context.Done():
			return
		default:
		}

		err := r.runOne(st, conf)
		switch {
		case errors.Is(err, hlt.ErrInsufficientPlayers):
			log.Printf("Not enough active players for a game, need at least %d",
				conf.Game.PlayersMin)
			return
		case err != nil:
			// Ratings must never silently diverge from disk
			log.Fatal(err)
		}
	}
}

// Shutdown blocks until the loop has wound down; the wait is bounded
// by the current match's time budget.
func (r *rounds) Shutdown() { <-r.done }

// runOne plays a single round.  Engine failures are recovered by
// skipping the rating update; store failures are returned and fatal.
func (r *rounds) runOne(st *cmd.State, conf *cmd.Conf) error {
	bg := context.Background()

	pool, err := st.Database.ListActive(bg)
	if err != nil {
		return err
	}
	players, err := r.mm.pick(pool, conf.Game.PlayersMin, conf.Game.PlayersMax)
	if err != nil {
		return err
	}
	width, height := r.mm.mapSize(conf.Game.SizeMin, conf.Game.SizeMax)
	m := match.Make(players, width, height, r.mm.seed())

	log.Printf("Running %s within %s", m, m.Budget)
	argv := match.Argv(conf.Engine.Binary, m)
	hlt.Debug.Println("Invoking", argv)

	ctx, cancel := context.WithTimeout(bg, m.Budget)
	raw, err := r.engine.Run(ctx, argv)
	cancel()
	switch {
	case errors.Is(err, match.ErrTimeout):
		log.Printf("Match timed out: %s", m)
		return nil
	case err != nil:
		log.Printf("Match failed: %s: %s", m, err)
		return nil
	}

	out, err := match.Parse(raw, len(players))
	if err != nil {
		log.Printf("Match discarded: %s: %s", m, err)
		return nil
	}

	// The result is structurally valid, rate and persist.  From
	// here on the update is all-or-nothing.
	priors := make(map[string]hlt.Rating, len(players))
	ranks := make(map[string]int, len(players))
	for i, p := range players {
		priors[p.Name] = p.Rating()
		ranks[p.Name] = out.Ranks[i]
	}
	post, err := r.rate.Rate(priors, ranks)
	if err != nil {
		return errors.Wrap(err, "rating update failed")
	}

	for _, p := range players {
		err := st.Database.ApplyRating(bg, p.Name, post[p.Name])
		if errors.Is(err, hlt.ErrNotFound) {
			log.Printf("Dropping rating for %s, removed mid-round", p.Name)
			continue
		}
		if err != nil {
			return err
		}
		n := post[p.Name]
		log.Printf("skill = %4f  mu = %3f  sigma = %3f  name = %s",
			n.Skill(), n.Mu, n.Sigma, p.Name)
	}
	if err := st.Database.RecomputeRanks(bg); err != nil {
		return err
	}

	res := &hlt.Result{Match: m, Outcome: out, When: time.Now()}
	st.Database.RecordRound(bg, res)
	r.dispose(conf, out.Replay)
	st.Announce(res)
	return nil
}

// dispose archives or deletes the replay the engine left behind.
func (r *rounds) dispose(conf *cmd.Conf, replay string) {
	if replay == "" {
		return
	}
	if !conf.Game.KeepReplays {
		hlt.Debug.Println("Deleting replay", replay)
		if err := os.Remove(replay); err != nil {
			log.Print(err)
		}
		return
	}

	if err := os.MkdirAll(conf.Game.ReplayDir, 0755); err != nil {
		log.Print(err)
		return
	}
	dst := filepath.Join(conf.Game.ReplayDir, filepath.Base(replay))
	hlt.Debug.Println("Archiving replay to", dst)
	if err := os.Rename(replay, dst); err != nil {
		log.Print(err)
	}
}
