// Player Store
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

package db

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"go-hlt"
	"go-hlt/cmd"
)

//go:embed *.sql
var sql_dir embed.FS

type store struct {
	// The database connections.  WRITE is capped to a single open
	// connection, giving the single-writer discipline the rating
	// cycle relies on.
	read  *sql.DB
	write *sql.DB

	// The SQL statements are stored under ./, and they are loaded
	// when the store is opened.  QUERIES are the statements handled
	// by READ, COMMANDS are the statements handled by WRITE.
	queries  map[string]*sql.Stmt
	commands map[string]*sql.Stmt
}

func open(file string) (*store, error) {
	read, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	read.SetConnMaxLifetime(0)
	read.SetMaxIdleConns(1)

	write, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	write.SetConnMaxLifetime(0)
	write.SetMaxIdleConns(1)
	write.SetMaxOpenConns(1)

	s := &store{
		queries:  make(map[string]*sql.Stmt),
		commands: make(map[string]*sql.Stmt),
		write:    write,
		read:     read,
	}

	for _, pragma := range []string{
		// https://www.sqlite.org/pragma.html#pragma_journal_mode
		"journal_mode = WAL",
		// https://www.sqlite.org/pragma.html#pragma_synchronous
		"synchronous = normal",
		// https://www.sqlite.org/pragma.html#pragma_temp_store
		"temp_store = memory",
	} {
		hlt.Debug.Printf("Run PRAGMA %v", pragma)
		if _, err = s.write.Exec("PRAGMA " + pragma + ";"); err != nil {
			return nil, err
		}
	}

	entries, err := sql_dir.ReadDir(".")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		base := path.Base(entry.Name())
		data, err := fs.ReadFile(sql_dir, entry.Name())
		if err != nil {
			return nil, err
		}

		if strings.HasPrefix(base, "create-") {
			_, err = s.write.Exec(string(data))
			hlt.Debug.Printf("Executed %v", base)
		} else {
			stmt := strings.TrimSuffix(base, ".sql")
			if strings.HasPrefix(stmt, "select-") {
				s.queries[stmt], err = s.read.Prepare(string(data))
				hlt.Debug.Printf("Registered query %v", stmt)
			} else {
				s.commands[stmt], err = s.write.Prepare(string(data))
				hlt.Debug.Printf("Registered command %v", stmt)
			}
		}
		if err != nil {
			return nil, errors.Wrap(err, entry.Name())
		}
	}

	if len(s.queries) == 0 {
		panic("No queries loaded")
	}

	return s, nil
}

func (s *store) AddPlayer(ctx context.Context, name, path string) error {
	_, err := s.commands["insert-player"].ExecContext(ctx,
		name, path, time.Now(),
		hlt.DefaultRank, 0.0, hlt.DefaultMu, hlt.DefaultSigma)
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return hlt.ErrDuplicateName
	}
	return errors.Wrapf(err, "failed to add %q", name)
}

// RemovePlayer deletes a player permanently.  Removing a player that
// does not exist is not an error.
func (s *store) RemovePlayer(ctx context.Context, name string) error {
	_, err := s.commands["delete-player"].ExecContext(ctx, name)
	return errors.Wrapf(err, "failed to remove %q", name)
}

func (s *store) SetActive(ctx context.Context, name string, active bool) error {
	res, err := s.commands["update-active"].ExecContext(ctx, active, name)
	if err != nil {
		return errors.Wrapf(err, "failed to toggle %q", name)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return hlt.ErrNotFound
	}
	return nil
}

func (s *store) scanPlayers(rows *sql.Rows) ([]*hlt.Player, error) {
	defer rows.Close()

	var players []*hlt.Player
	for rows.Next() {
		var p hlt.Player
		err := rows.Scan(
			&p.Name, &p.Path, &p.LastSeen,
			&p.Rank, &p.Skill, &p.Mu, &p.Sigma,
			&p.Games, &p.Active)
		if err != nil {
			return nil, err
		}
		players = append(players, &p)
	}
	return players, rows.Err()
}

// ListActive returns every player eligible for selection, in no
// particular order.
func (s *store) ListActive(ctx context.Context) ([]*hlt.Player, error) {
	rows, err := s.queries["select-active"].QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.scanPlayers(rows)
}

// ListAll returns every player, best skill first.
func (s *store) ListAll(ctx context.Context) ([]*hlt.Player, error) {
	rows, err := s.queries["select-all"].QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.scanPlayers(rows)
}

// ApplyRating stores a posterior rating: the skill bound is
// recomputed, the game counter incremented and the player marked as
// seen.  A player removed mid-round surfaces as ErrNotFound.
func (s *store) ApplyRating(ctx context.Context, name string, r hlt.Rating) error {
	res, err := s.commands["update-rating"].ExecContext(ctx,
		time.Now(), r.Skill(), r.Mu, r.Sigma, name)
	if err != nil {
		return errors.Wrapf(err, "failed to rate %q", name)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return hlt.ErrNotFound
	}
	return nil
}

// RecomputeRanks rewrites the rank column as a dense 1..N sequence
// ordered by skill.  The rewrite is a single transaction on the
// write connection, readers never observe a partial permutation.
func (s *store) RecomputeRanks(ctx context.Context) error {
	rows, err := s.queries["select-ranking"].QueryContext(ctx)
	if err != nil {
		return err
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		names = append(names, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	tx, err := s.write.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for i, name := range names {
		_, err := tx.Stmt(s.commands["update-rank"]).ExecContext(ctx, i+1, name)
		if err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "failed to rank %q", name)
		}
	}
	return errors.Wrap(tx.Commit(), "failed to commit ranks")
}

// RecordRound archives round metadata.  This is bookkeeping, a
// failure is logged but does not abort the round.
func (s *store) RecordRound(ctx context.Context, res *hlt.Result) {
	names := make([]string, len(res.Match.Players))
	for i, p := range res.Match.Players {
		names[i] = p.Name
	}
	_, err := s.commands["insert-game"].ExecContext(ctx,
		strings.Join(names, ", "), res.Match.Seed,
		res.Match.Width, res.Match.Height,
		res.Outcome.Replay, res.When)
	if err != nil {
		log.Print(err)
	}
}

func (s *store) ListRounds(ctx context.Context, limit int) ([]*hlt.RoundRecord, error) {
	rows, err := s.queries["select-games"].QueryContext(ctx, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*hlt.RoundRecord
	for rows.Next() {
		var r hlt.RoundRecord
		err := rows.Scan(&r.ID, &r.Players, &r.Seed,
			&r.Width, &r.Height, &r.Replay, &r.Played)
		if err != nil {
			return nil, err
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

func (s *store) Start(st *cmd.State, conf *cmd.Conf) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGUSR1)
	tick := time.NewTicker(24 * time.Hour)
	defer tick.Stop()
	for {
		var err error
		select {
		case <-c:
			// https://www.sqlite.org/lang_vacuum.html
			_, err = s.write.Exec("VACUUM;")
		case <-tick.C:
			// https://www.sqlite.org/pragma.html#pragma_optimize
			_, err = s.write.Exec("PRAGMA optimize;")
		case <-st.Context.Done():
			return
		}
		if err != nil {
			log.Print(err)
		}
	}
}

func (s *store) Shutdown() {
	if _, err := s.write.Exec("PRAGMA optimize;"); err != nil {
		log.Print(err)
	}
	if err := s.write.Close(); err != nil {
		log.Print(err)
	}
	if err := s.read.Close(); err != nil {
		log.Print(err)
	}
}

func (*store) String() string { return "Player Store" }

// Initialise the player store and register it on the state
func Register(st *cmd.State, conf *cmd.Conf) {
	s, err := open(conf.Database.File)
	if err != nil {
		log.Fatal(err)
	}
	st.Register(cmd.Database(s))
}
