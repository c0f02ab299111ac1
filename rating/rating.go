// Rating Engine Boundary
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

package rating

import "go-hlt"

// An Engine turns a match outcome into posterior ratings.  Priors and
// ranks are keyed by player name; ranks are 1-based, lower is better,
// and equal ranks are ties.  Any algorithm honouring this contract can
// replace the default one without touching the orchestrator.
type Engine interface {
	Rate(priors map[string]hlt.Rating, ranks map[string]int) (map[string]hlt.Rating, error)
}
