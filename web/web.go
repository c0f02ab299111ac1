// Web interface manager
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
	"embed"
	"fmt"
	"html/template"
	"log"
	"math"
	"net/http"
	"os"
	"time"

	"go-hlt/cmd"
)

const about = `<p>This is an unattended Halite tournament.  Bots play
continuous matches against each other; the ranking estimates each
bot's skill as a conservative lower bound.</p>`

//go:embed static
var static embed.FS

//go:embed *.tmpl
var html embed.FS

var (
	// Template manager
	tmpl *template.Template

	// Custom template functions
	funcs = template.FuncMap{
		"timefmt": func(t time.Time) string {
			s := time.Since(t).Round(time.Second)
			switch {
			case s < time.Second*5:
				return "now"
			case s < time.Minute:
				return fmt.Sprintf("%.0fs ago", s.Seconds())
			case s < time.Hour:
				return fmt.Sprintf("%.0fm ago", math.Floor(s.Minutes()))
			default:
				return t.Format(time.Stamp)
			}
		},
		"now": func() string {
			return time.Now().Format(time.RFC3339)
		},
	}
)

type web struct {
	st   *cmd.State
	conf *cmd.Conf
	mux  *http.ServeMux
	srv  *http.Server
	feed *feed
}

func (s *web) Start(st *cmd.State, conf *cmd.Conf) {
	s.st, s.conf = st, conf

	// Prepare HTTP Multiplexer
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/about", s.about)
	s.mux.HandleFunc("/games", s.showGames)
	s.mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow: /")
	})
	s.mux.Handle("/static/", http.FileServer(http.FS(static)))
	s.mux.HandleFunc("/", s.index)

	// Install the WebSocket feed
	if conf.Web.WebSocket {
		log.Print("Accepting websocket connections on /socket")
		s.feed = makeFeed()
		go s.feed.relay(st)
		s.mux.HandleFunc("/socket", s.feed.upgrade)
	}

	// Parse templates
	tmpl = template.Must(template.New("").Funcs(funcs).ParseFS(html, "*.tmpl"))
	aboutpage := about
	if conf.Web.About != "" {
		contents, err := os.ReadFile(conf.Web.About)
		if err != nil {
			log.Fatal(err)
		}
		aboutpage = string(contents)
	}
	if _, err := tmpl.New("about-body").Parse(aboutpage); err != nil {
		log.Fatal(err)
	}

	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", conf.Web.Port),
		Handler: s.mux,
	}
	log.Printf("Listening via HTTP on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Print(err)
	}
}

func (s *web) Shutdown() {
	if s.srv != nil {
		s.srv.Close()
	}
}

func (*web) String() string { return "Web Server" }

func Register(st *cmd.State, conf *cmd.Conf) {
	if !conf.Web.Enabled {
		return
	}
	st.Register(&web{})
}
