// Websocket round feed
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

package web

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"go-hlt"
	"go-hlt/cmd"

	"github.com/gorilla/websocket"
)

// A feed pushes every completed round to all connected spectators.
// The direction is one-way, client messages are discarded.
type feed struct {
	lock    sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// The wire format of one feed event
type event struct {
	Players []string  `json:"players"`
	Ranks   []int     `json:"ranks"`
	Width   uint      `json:"width"`
	Height  uint      `json:"height"`
	Seed    int64     `json:"seed"`
	Replay  string    `json:"replay,omitempty"`
	When    time.Time `json:"when"`
}

func makeFeed() *feed {
	return &feed{clients: make(map[*websocket.Conn]struct{})}
}

func (f *feed) relay(st *cmd.State) {
	for {
		var res *hlt.Result
		select {
		case <-st.Context.Done():
			return
		case res = <-st.Rounds:
		}

		ev := event{
			Ranks:  res.Outcome.Ranks,
			Width:  res.Match.Width,
			Height: res.Match.Height,
			Seed:   res.Match.Seed,
			Replay: res.Outcome.Replay,
			When:   res.When,
		}
		for _, p := range res.Match.Players {
			ev.Players = append(ev.Players, p.Name)
		}
		data, err := json.Marshal(ev)
		if err != nil {
			log.Print(err)
			continue
		}

		f.lock.Lock()
		for conn := range f.clients {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				hlt.Debug.Printf("Dropping %s: %s", conn.RemoteAddr(), err)
				conn.Close()
				delete(f.clients, conn)
			}
		}
		f.lock.Unlock()
	}
}

// Upgrade a HTTP connection to a WebSocket and subscribe it
func (f *feed) upgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := (&websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}).Upgrade(w, r, nil)
	if err != nil {
		hlt.Debug.Printf("Unable to upgrade connection: %s", err)
		return
	}
	log.Printf("New spectator from %s", conn.RemoteAddr())

	f.lock.Lock()
	f.clients[conn] = struct{}{}
	f.lock.Unlock()

	// Drain the connection so pings and close frames are handled
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				f.lock.Lock()
				delete(f.clients, conn)
				f.lock.Unlock()
				conn.Close()
				return
			}
		}
	}()
}
