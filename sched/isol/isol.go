// Engine Isolation
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
	"context"
	"fmt"

	"go-hlt/cmd"

	"github.com/pkg/errors"
)

// An Engine runs one game engine invocation to completion and
// returns its captured standard output.  Run blocks until the
// process exits or CTX expires; on expiry the process is killed and
// match.ErrTimeout returned.
type Engine interface {
	fmt.Stringer
	Run(ctx context.Context, argv []string) ([]byte, error)
}

// Make picks the isolation backend the configuration asks for.
func Make(conf *cmd.Conf) (Engine, error) {
	switch conf.Engine.Isolation {
	case "", "none", "process":
		return MakeProcess(), nil
	case "docker":
		if conf.Engine.Image == "" {
			return nil, errors.New("docker isolation requires an image")
		}
		return MakeDocker(conf.Engine.Image), nil
	default:
		return nil, errors.Errorf("unknown isolation system %q",
			conf.Engine.Isolation)
	}
}
