// Entry point
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

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"go-hlt"
	"go-hlt/cmd"
	"go-hlt/db"
	"go-hlt/rating"
	"go-hlt/sched"
	"go-hlt/sched/isol"
	"go-hlt/web"

	"github.com/pkg/errors"
)

func main() {
	var (
		cfile = flag.String("conf", "go-hlt.toml", "Path to configuration file")
		debug = flag.Bool("debug", false, "Enable debug output")
		dump  = flag.Bool("dump-config", false, "Dump configuration to standard output")

		add        = flag.String("add", "", "Register a new player under this name")
		path       = flag.String("path", "", "Executable path for a new player")
		remove     = flag.String("remove", "", "Remove the named player")
		activate   = flag.String("activate", "", "Activate the named player")
		deactivate = flag.String("deactivate", "", "Deactivate the named player")
		ranks      = flag.Bool("ranks", false, "List all players ordered by skill")
		tsv        = flag.Bool("tsv", false, "List all players in TSV format")
		single     = flag.Bool("match", false, "Run a single match")
		forever    = flag.Bool("forever", false, "Run matches until interrupted")
		nrounds    = flag.Int("rounds", 0, "Run this many matches")
		noreplays  = flag.Bool("no-replays", false, "Do not retain replays")
	)
	flag.Parse()
	if flag.NArg() != 0 {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Too many arguments passed to %s.\nUsage:\n",
			os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	conf := cmd.Load(*cfile, *debug)
	if *dump {
		if err := conf.Dump(os.Stdout); err != nil {
			log.Fatalln("Failed to dump configuration:", err)
		}
		return
	}
	if *noreplays {
		conf.Game.KeepReplays = false
	}

	st := cmd.MakeState()
	db.Register(st, conf)
	store := st.Database

	ctx := context.Background()
	switch {
	case *add != "":
		if *path == "" {
			log.Fatal("You must specify the path for the new player")
		}
		err := store.AddPlayer(ctx, *add, *path)
		if errors.Is(err, hlt.ErrDuplicateName) {
			log.Fatalf("Player name %q already used, nothing added", *add)
		} else if err != nil {
			log.Fatal(err)
		}
		log.Printf("Registered %s (%s)", *add, *path)

	case *remove != "":
		if err := store.RemovePlayer(ctx, *remove); err != nil {
			log.Fatal(err)
		}
		log.Printf("Removed %s", *remove)

	case *activate != "":
		toggle(store, *activate, true)

	case *deactivate != "":
		toggle(store, *deactivate, false)

	case *ranks || *tsv:
		list(store, *tsv)

	case *single || *forever || *nrounds != 0:
		count := *nrounds
		if *single {
			count = 1
		}
		if *forever {
			count = -1
			log.Print("Running matches until interrupted.  Press Ctrl+C to stop.")
		}

		engine, err := isol.Make(conf)
		if err != nil {
			log.Fatal(err)
		}
		st.Register(sched.MakeRounds(engine, rating.MakeTrueSkill(), count))
		web.Register(st, conf)
		st.Start(conf)
		return

	default:
		flag.Usage()
	}

	store.Shutdown()
}

func toggle(store cmd.Database, name string, active bool) {
	err := store.SetActive(context.Background(), name, active)
	if errors.Is(err, hlt.ErrNotFound) {
		log.Fatalf("No player named %q", name)
	} else if err != nil {
		log.Fatal(err)
	}
	if active {
		log.Printf("Activated %s", name)
	} else {
		log.Printf("Deactivated %s", name)
	}
}

func list(store cmd.Database, tsv bool) {
	players, err := store.ListAll(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	var out *tabwriter.Writer
	if tsv {
		out = tabwriter.NewWriter(os.Stdout, 0, 0, 0, ' ', 0)
	} else {
		out = tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	}
	fmt.Fprintln(out, "name\tlast_seen\trank\tskill\tmu\tsigma\tngames\tactive")
	for _, p := range players {
		fmt.Fprintf(out, "%s\t%s\t%d\t%.3f\t%.3f\t%.3f\t%d\t%t\n",
			p.Name, p.LastSeen.Format("02.01.2006 15:04:05"),
			p.Rank, p.Skill, p.Mu, p.Sigma, p.Games, p.Active)
	}
	out.Flush()
}
