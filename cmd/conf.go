// Configuration
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
	"io"
	"log"
	"os"

	"go-hlt"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const defconf = "go-hlt.toml"

type DatabaseConf struct {
	File string `toml:"file"`
}

type EngineConf struct {
	// Path of the game engine binary
	Binary string `toml:"binary"`
	// How the engine process is run ("process" or "docker")
	Isolation string `toml:"isolation"`
	// Image used by the docker isolation
	Image string `toml:"image"`
}

type GameConf struct {
	SizeMin     uint   `toml:"size-min"`
	SizeMax     uint   `toml:"size-max"`
	PlayersMin  uint   `toml:"players-min"`
	PlayersMax  uint   `toml:"players-max"`
	KeepReplays bool   `toml:"keep-replays"`
	ReplayDir   string `toml:"replay-dir"`
}

type WebConf struct {
	Enabled   bool   `toml:"enabled"`
	Port      uint   `toml:"port"`
	WebSocket bool   `toml:"websocket"`
	About     string `toml:"about,omitempty"`
}

// Internal representation
type Conf struct {
	Database DatabaseConf `toml:"database"`
	Engine   EngineConf   `toml:"engine"`
	Game     GameConf     `toml:"game"`
	Web      WebConf      `toml:"web"`
}

// Configuration object used by default
var defaultConfig = Conf{
	Database: DatabaseConf{
		File: "db.sqlite3",
	},
	Engine: EngineConf{
		Binary:    "./halite",
		Isolation: "process",
	},
	Game: GameConf{
		SizeMin:     20,
		SizeMax:     50,
		PlayersMin:  2,
		PlayersMax:  6,
		KeepReplays: true,
		ReplayDir:   "replays",
	},
	Web: WebConf{
		Enabled:   true,
		WebSocket: true,
		Port:      8080,
	},
}

// Load a configuration file, if one exists, over the defaults, then
// apply environment overrides.  A .env file in the working directory
// is honoured before the environment is consulted.
func Load(name string, debug bool) *Conf {
	c := defaultConfig

	file, err := os.Open(name)
	if err != nil {
		if !os.IsNotExist(err) || name != defconf {
			log.Fatal(err)
		}
	} else {
		_, err := toml.NewDecoder(file).Decode(&c)
		file.Close()
		if err != nil {
			log.Fatal(name, ": ", err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Print(err)
	}
	if v := os.Getenv("HLT_ENGINE"); v != "" {
		c.Engine.Binary = v
	}
	if v := os.Getenv("HLT_DATABASE"); v != "" {
		c.Database.File = v
	}
	if v := os.Getenv("HLT_REPLAY_DIR"); v != "" {
		c.Game.ReplayDir = v
	}

	if debug {
		hlt.Debug.SetOutput(os.Stderr)
		log.Default().SetFlags(log.LstdFlags | log.Lshortfile)
		hlt.Debug.Println("Debug logging has been enabled")
	}

	return &c
}

// Serialise the configuration into a writer
func (c *Conf) Dump(wr io.Writer) error {
	return toml.NewEncoder(wr).Encode(c)
}
