// Engine Execution via Processes
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

package isol

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"go-hlt/match"

	"github.com/pkg/errors"
)

type process struct{}

func MakeProcess() Engine { return &process{} }

func (*process) String() string { return "Process Runner" }

func (*process) Run(ctx context.Context, argv []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	// Standard error stays unredirected so engine diagnostics reach
	// the operator directly.
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, match.ErrTimeout
	}
	// A nonzero exit that still produced output is left for the
	// parser to judge.
	if err != nil && out.Len() == 0 {
		return nil, errors.Wrapf(err, "engine %s produced no output", argv[0])
	}
	return out.Bytes(), nil
}
