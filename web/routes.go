// Web request handlers
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
	"context"
	"log"
	"net/http"
	"time"
)

const DB_TIMEOUT = 20 * time.Second // arbitrary choice

const historyLen = 50

// Generate the leaderboard page
func (s *web) index(w http.ResponseWriter, r *http.Request) {
	bg := context.Background()
	ctx, cancel := context.WithTimeout(bg, DB_TIMEOUT)
	defer cancel()

	players, err := s.st.Database.ListAll(ctx)
	if err != nil {
		log.Print(err)
		http.Error(w, "Leaderboard unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "text/html")
	w.Header().Add("Cache-Control", "max-age=60")
	err = tmpl.ExecuteTemplate(w, "index.tmpl", players)
	if err != nil {
		log.Print(err)
	}
}

// Generate the round history page
func (s *web) showGames(w http.ResponseWriter, r *http.Request) {
	bg := context.Background()
	ctx, cancel := context.WithTimeout(bg, DB_TIMEOUT)
	defer cancel()

	rounds, err := s.st.Database.ListRounds(ctx, historyLen)
	if err != nil {
		log.Print(err)
		http.Error(w, "History unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "text/html")
	err = tmpl.ExecuteTemplate(w, "games.tmpl", rounds)
	if err != nil {
		log.Print(err)
	}
}

// Generate the about page
func (s *web) about(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "text/html")
	tmpl.ExecuteTemplate(w, "header.tmpl", nil)
	tmpl.ExecuteTemplate(w, "about-body", nil)
	tmpl.ExecuteTemplate(w, "footer.tmpl", nil)
}
