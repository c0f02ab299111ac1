// Shared State
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

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"go-hlt"
)

type Manager interface {
	fmt.Stringer
	Start(*State, *Conf)
	Shutdown()
}

// Database is the player store every other component goes through.
// All mutations are durable as soon as the call returns.
type Database interface {
	Manager

	// Player bookkeeping
	AddPlayer(ctx context.Context, name, path string) error
	RemovePlayer(ctx context.Context, name string) error
	SetActive(ctx context.Context, name string, active bool) error
	ListActive(ctx context.Context) ([]*hlt.Player, error)
	ListAll(ctx context.Context) ([]*hlt.Player, error)

	// Rating cycle
	ApplyRating(ctx context.Context, name string, r hlt.Rating) error
	RecomputeRanks(ctx context.Context) error

	// Round history
	RecordRound(ctx context.Context, res *hlt.Result)
	ListRounds(ctx context.Context, limit int) ([]*hlt.RoundRecord, error)
}

type State struct {
	Context context.Context
	Kill    context.CancelFunc

	// Completed rounds, announced for the live feed.  Senders must
	// not block on this channel.
	Rounds chan *hlt.Result

	Database Database
	Managers []Manager
	Running  bool
}

func MakeState() *State {
	ctx, kill := context.WithCancel(context.Background())
	return &State{
		Context: ctx,
		Kill:    kill,
		Rounds:  make(chan *hlt.Result, 8),
	}
}

func (st *State) Register(m Manager) {
	if st.Running {
		panic(fmt.Sprintf("Late register: %#v", m))
	}

	if d, ok := m.(Database); ok {
		st.Database = d
	}
	st.Managers = append(st.Managers, m)
}

// Announce a completed round without ever blocking the round loop.
func (st *State) Announce(res *hlt.Result) {
	select {
	case st.Rounds <- res:
	default:
		hlt.Debug.Println("Dropping round announcement")
	}
}

func (st *State) Start(c *Conf) {
	for _, m := range st.Managers {
		hlt.Debug.Printf("Starting %s", m)
		go m.Start(st, c)
	}
	st.Running = true

	// Catch an interrupt request...
	intr := make(chan os.Signal, 1)
	signal.Notify(intr, os.Interrupt)
	select {
	case <-intr:
		log.Println("Caught interrupt")
		st.Kill()
	case <-st.Context.Done():
		log.Println("Requested shutdown")
	}

	done := make(chan struct{})
	go func() {
		// ...and request all managers to shut down.
		hlt.Debug.Println("Waiting for managers to shutdown...")
		for i := len(st.Managers) - 1; i >= 0; i-- {
			m := st.Managers[i]
			hlt.Debug.Printf("Shutting %s down", m)
			m.Shutdown()
		}
		done <- struct{}{}
	}()

	select {
	case <-intr:
		log.Println("Forced shutdown")
	case <-done:
		log.Println("Shutting down regularly")
	}
}
