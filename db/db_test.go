package db

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"go-hlt"

	"github.com/pkg/errors"
)

func testStore(t *testing.T) *store {
	t.Helper()
	s, err := open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Shutdown)
	return s
}

func find(t *testing.T, players []*hlt.Player, name string) *hlt.Player {
	t.Helper()
	for _, p := range players {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("no player named %q", name)
	return nil
}

func TestAddPlayer(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.AddPlayer(ctx, "alpha", "./bots/alpha"); err != nil {
		t.Fatal(err)
	}

	players, err := s.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(players) != 1 {
		t.Fatalf("listed %d players, want 1", len(players))
	}
	p := players[0]
	if p.Path != "./bots/alpha" {
		t.Errorf("path %q, want %q", p.Path, "./bots/alpha")
	}
	if p.Mu != hlt.DefaultMu || p.Sigma != hlt.DefaultSigma {
		t.Errorf("rating (%f, %f), want defaults", p.Mu, p.Sigma)
	}
	if p.Rank != hlt.DefaultRank {
		t.Errorf("rank %d, want %d", p.Rank, hlt.DefaultRank)
	}
	if p.Games != 0 {
		t.Errorf("new player has %d games", p.Games)
	}
	if !p.Active {
		t.Error("new player is not active")
	}
}

func TestAddPlayerDuplicate(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.AddPlayer(ctx, "alpha", "./one"); err != nil {
		t.Fatal(err)
	}
	err := s.AddPlayer(ctx, "alpha", "./two")
	if !errors.Is(err, hlt.ErrDuplicateName) {
		t.Fatalf("got %v, want ErrDuplicateName", err)
	}

	// The existing registration must not be touched.
	players, err := s.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(players) != 1 {
		t.Fatalf("listed %d players, want 1", len(players))
	}
	if players[0].Path != "./one" {
		t.Errorf("path %q, want %q", players[0].Path, "./one")
	}
}

func TestRemovePlayer(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.AddPlayer(ctx, "alpha", "./a"); err != nil {
		t.Fatal(err)
	}
	if err := s.RemovePlayer(ctx, "alpha"); err != nil {
		t.Fatal(err)
	}
	if err := s.RemovePlayer(ctx, "alpha"); err != nil {
		t.Errorf("removing twice failed: %v", err)
	}

	players, err := s.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(players) != 0 {
		t.Errorf("listed %d players after removal", len(players))
	}
}

func TestSetActive(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, name := range []string{"alpha", "beta"} {
		if err := s.AddPlayer(ctx, name, "./"+name); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.SetActive(ctx, "beta", false); err != nil {
		t.Fatal(err)
	}

	active, err := s.ListActive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].Name != "alpha" {
		t.Errorf("active players %v, want just alpha", active)
	}

	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("listed %d players, want 2", len(all))
	}
	if find(t, all, "beta").Active {
		t.Error("beta is still marked active")
	}

	if err := s.SetActive(ctx, "beta", true); err != nil {
		t.Fatal(err)
	}
	active, err = s.ListActive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 2 {
		t.Errorf("active players %v, want both", active)
	}

	err = s.SetActive(ctx, "nobody", true)
	if !errors.Is(err, hlt.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestApplyRating(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.AddPlayer(ctx, "alpha", "./a"); err != nil {
		t.Fatal(err)
	}

	r := hlt.Rating{Mu: 55, Sigma: 8}
	if err := s.ApplyRating(ctx, "alpha", r); err != nil {
		t.Fatal(err)
	}

	players, err := s.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	p := players[0]
	if p.Mu != 55 || p.Sigma != 8 {
		t.Errorf("rating (%f, %f), want (55, 8)", p.Mu, p.Sigma)
	}
	if math.Abs(p.Skill-r.Skill()) > 1e-9 {
		t.Errorf("skill %f, want %f", p.Skill, r.Skill())
	}
	if p.Games != 1 {
		t.Errorf("game counter %d, want 1", p.Games)
	}

	err = s.ApplyRating(ctx, "nobody", r)
	if !errors.Is(err, hlt.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestRecomputeRanks(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	ratings := map[string]hlt.Rating{
		"strong": {Mu: 60, Sigma: 2},
		"middle": {Mu: 50, Sigma: 2},
		"weak":   {Mu: 40, Sigma: 2},
	}
	for name, r := range ratings {
		if err := s.AddPlayer(ctx, name, "./"+name); err != nil {
			t.Fatal(err)
		}
		if err := s.ApplyRating(ctx, name, r); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.RecomputeRanks(ctx); err != nil {
		t.Fatal(err)
	}

	players, err := s.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int{"strong": 1, "middle": 2, "weak": 3}
	for name, rank := range want {
		if got := find(t, players, name).Rank; got != rank {
			t.Errorf("%s has rank %d, want %d", name, got, rank)
		}
	}
}

func TestRecordRound(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	res := &hlt.Result{
		Match: &hlt.Match{
			Players: []*hlt.Player{{Name: "alpha"}, {Name: "beta"}},
			Width:   30, Height: 30,
			Seed: 123456,
		},
		Outcome: &hlt.Outcome{Replay: "game.hlt"},
		When:    time.Now(),
	}
	s.RecordRound(ctx, res)

	records, err := s.ListRounds(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("listed %d rounds, want 1", len(records))
	}
	r := records[0]
	if r.Players != "alpha, beta" {
		t.Errorf("players %q, want %q", r.Players, "alpha, beta")
	}
	if r.Seed != 123456 || r.Width != 30 || r.Height != 30 {
		t.Errorf("round metadata %v does not match", r)
	}
	if r.Replay != "game.hlt" {
		t.Errorf("replay %q, want %q", r.Replay, "game.hlt")
	}
}
