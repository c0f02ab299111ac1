package match

import (
	"strings"
	"testing"

	"go-hlt"

	"github.com/pkg/errors"
)

func TestParse(t *testing.T) {
	out, err := Parse([]byte(strings.Join([]string{
		"player one header",
		"player two header",
		"replay123.hlt extra tokens",
		"1 1",
		"2 2",
		"0 0",
	}, "\n")), 2)
	if err != nil {
		t.Fatal(err)
	}
	if out.Replay != "replay123.hlt" {
		t.Errorf("replay %q, want %q", out.Replay, "replay123.hlt")
	}
	if len(out.Ranks) != 2 || out.Ranks[0] != 1 || out.Ranks[1] != 2 {
		t.Errorf("ranks %v, want [1 2]", out.Ranks)
	}
	if len(out.Timeouts) != 2 {
		t.Errorf("timeouts %v, want two markers", out.Timeouts)
	}
}

func TestParseOrder(t *testing.T) {
	// Rank lines may arrive in any order, the second field maps each
	// line back to the invocation order.
	out, err := Parse([]byte(strings.Join([]string{
		"a", "b", "c",
		"game.hlt",
		"1 3",
		"3 1",
		"2 2",
		"",
	}, "\n")), 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{3, 2, 1}
	for i, r := range out.Ranks {
		if r != want[i] {
			t.Errorf("rank[%d] = %d, want %d", i, r, want[i])
		}
	}
	if len(out.Timeouts) != 0 {
		t.Errorf("timeouts %v, want none", out.Timeouts)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, test := range []struct {
		name string
		raw  string
		n    int
	}{
		{
			name: "truncated",
			raw:  "header\nheader\ngame.hlt",
			n:    2,
		}, {
			name: "empty",
			raw:  "",
			n:    2,
		}, {
			name: "missing replay",
			raw:  "h\nh\n\n1 1\n2 2\n\n",
			n:    2,
		}, {
			name: "bad rank",
			raw:  "h\nh\ngame.hlt\nfirst 1\n2 2\n\n",
			n:    2,
		}, {
			name: "bad index",
			raw:  "h\nh\ngame.hlt\n1 one\n2 2\n\n",
			n:    2,
		}, {
			name: "index out of range",
			raw:  "h\nh\ngame.hlt\n1 1\n2 3\n\n",
			n:    2,
		}, {
			name: "zero index",
			raw:  "h\nh\ngame.hlt\n1 0\n2 2\n\n",
			n:    2,
		}, {
			name: "duplicate index",
			raw:  "h\nh\ngame.hlt\n1 1\n2 1\n\n",
			n:    2,
		}, {
			name: "rank line too short",
			raw:  "h\nh\ngame.hlt\n1\n2 2\n\n",
			n:    2,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			out, err := Parse([]byte(test.raw), test.n)
			if out != nil {
				t.Errorf("got partial outcome %v", out)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Errorf("got %v, want a parse error", err)
			}
		})
	}
}

func TestArgv(t *testing.T) {
	m := Make([]*hlt.Player{
		{Name: "alpha", Path: "./bots/alpha"},
		{Name: "beta", Path: "./bots/beta"},
	}, 30, 30, 123456)

	argv := Argv("./halite", m)
	want := []string{
		"./halite", "-d", "30", "30", "-q", "-s", "123456",
		"./bots/alpha", "./bots/beta",
	}
	if len(argv) != len(want) {
		t.Fatalf("argv %v, want %v", argv, want)
	}
	for i := range want {
		if argv[i] != want[i] {
			t.Errorf("argv[%d] = %q, want %q", i, argv[i], want[i])
		}
	}
}

func TestBudget(t *testing.T) {
	for _, test := range []struct {
		players       int
		width, height uint
		seconds       float64
	}{
		{2, 30, 30, 2 * 2 * 300},
		{6, 20, 20, 2 * 6 * 200},
		{3, 25, 25, 2 * 3 * 250},
	} {
		got := Budget(test.players, test.width, test.height).Seconds()
		if got != test.seconds {
			t.Errorf("Budget(%d, %d, %d) = %vs, want %vs",
				test.players, test.width, test.height, got, test.seconds)
		}
	}
}
