package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestLoad(t *testing.T) {
	name := filepath.Join(t.TempDir(), "conf.toml")
	err := os.WriteFile(name, []byte(`
[database]
file = "other.db"

[game]
players-max = 4
keep-replays = false
`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	c := Load(name, false)
	if c.Database.File != "other.db" {
		t.Errorf("database file %q, want %q", c.Database.File, "other.db")
	}
	if c.Game.PlayersMax != 4 {
		t.Errorf("players-max %d, want 4", c.Game.PlayersMax)
	}
	if c.Game.KeepReplays {
		t.Error("keep-replays was not disabled")
	}

	// Unmentioned keys keep their defaults.
	if c.Game.SizeMin != 20 || c.Game.SizeMax != 50 {
		t.Errorf("board sizes %d..%d, want 20..50", c.Game.SizeMin, c.Game.SizeMax)
	}
	if c.Engine.Binary != "./halite" {
		t.Errorf("engine %q, want default", c.Engine.Binary)
	}
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	if err := defaultConfig.Dump(&buf); err != nil {
		t.Fatal(err)
	}

	var c Conf
	if _, err := toml.NewDecoder(&buf).Decode(&c); err != nil {
		t.Fatal(err)
	}
	if c != defaultConfig {
		t.Errorf("dump did not round-trip: %v", c)
	}
}
