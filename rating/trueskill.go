// TrueSkill Rating Updates
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

import (
	"math"
	"sort"

	"go-hlt"

	"github.com/pkg/errors"
)

const tiny = 1e-10

// TrueSkill computes Gaussian skill updates from ranked free-for-all
// outcomes.  A match of n players is decomposed into its n*(n-1)/2
// pairings; each pairing contributes a two-player win/loss/draw
// update weighted by 1/(n-1), so a player's total evidence is
// independent of the field size.
type TrueSkill struct {
	// Skill distance giving an 80% win chance to the better player
	Beta float64
	// Additive dynamics, keeps ratings from freezing over time
	Tau float64
	// Probability mass reserved for draws
	DrawProb float64
	// Lower bound on posterior sigma
	SigmaMin float64
}

func MakeTrueSkill() *TrueSkill {
	return &TrueSkill{
		Beta:     hlt.DefaultMu / 6,
		Tau:      hlt.DefaultMu / 300,
		DrawProb: 0.10,
		SigmaMin: 1e-3,
	}
}

func (ts *TrueSkill) Rate(priors map[string]hlt.Rating, ranks map[string]int) (map[string]hlt.Rating, error) {
	if len(ranks) < 2 {
		return nil, errors.Errorf("cannot rate %d players", len(ranks))
	}
	if len(ranks) != len(priors) {
		return nil, errors.Errorf("rank vector for %d players, priors for %d",
			len(ranks), len(priors))
	}

	names := make([]string, 0, len(ranks))
	for name := range ranks {
		if _, ok := priors[name]; !ok {
			return nil, errors.Errorf("no prior rating for %q", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	// Apply the dynamics before the match evidence, as the factor
	// graph formulation does.
	var (
		mu  = make(map[string]float64, len(names))
		va  = make(map[string]float64, len(names))
		dmu = make(map[string]float64, len(names))
		fv  = make(map[string]float64, len(names))
	)
	for _, name := range names {
		r := priors[name]
		mu[name] = r.Mu
		va[name] = r.Sigma*r.Sigma + ts.Tau*ts.Tau
		fv[name] = 1
	}

	var (
		weight = 1 / float64(len(names)-1)
		eps    = ts.drawMargin()
	)
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := names[i], names[j]
			c2 := 2*ts.Beta*ts.Beta + va[a] + va[b]
			c := math.Sqrt(c2)
			t := (mu[a] - mu[b]) / c
			e := eps / c

			var vA, wA, vB, wB float64
			switch {
			case ranks[a] < ranks[b]: // a beat b
				vA, wA = vWin(t, e), wWin(t, e)
				vB, wB = -vA, wA
			case ranks[b] < ranks[a]: // b beat a
				vB, wB = vWin(-t, e), wWin(-t, e)
				vA, wA = -vB, wB
			default: // tie
				vA, wA = vDraw(t, e), wDraw(t, e)
				vB, wB = vDraw(-t, e), wDraw(-t, e)
			}

			dmu[a] += weight * va[a] / c * vA
			dmu[b] += weight * va[b] / c * vB
			fv[a] *= 1 - weight*va[a]/c2*wA
			fv[b] *= 1 - weight*va[b]/c2*wB
		}
	}

	post := make(map[string]hlt.Rating, len(names))
	for _, name := range names {
		sigma := math.Sqrt(va[name] * fv[name])
		if sigma < ts.SigmaMin {
			sigma = ts.SigmaMin
		}
		post[name] = hlt.Rating{
			Mu:    mu[name] + dmu[name],
			Sigma: sigma,
		}
	}
	return post, nil
}

// drawMargin is the epsilon within which two performances count as a
// draw, derived from the configured draw probability.
func (ts *TrueSkill) drawMargin() float64 {
	return invCDF((ts.DrawProb+1)/2) * math.Sqrt2 * ts.Beta
}

// Truncated Gaussian correction terms, in the normalized t = diff/c,
// e = margin/c domain.  The small-denominator branches are the
// analytic limits for hopeless upsets.

func vWin(t, e float64) float64 {
	denom := cdf(t - e)
	if denom < tiny {
		return e - t
	}
	return pdf(t-e) / denom
}

func wWin(t, e float64) float64 {
	denom := cdf(t - e)
	if denom < tiny {
		if t-e < 0 {
			return 1
		}
		return 0
	}
	v := pdf(t-e) / denom
	return v * (v + t - e)
}

func vDraw(t, e float64) float64 {
	abs := math.Abs(t)
	a, b := e-abs, -e-abs
	denom := cdf(a) - cdf(b)
	var v float64
	if denom < tiny {
		v = a
	} else {
		v = (pdf(b) - pdf(a)) / denom
	}
	if t < 0 {
		return -v
	}
	return v
}

func wDraw(t, e float64) float64 {
	abs := math.Abs(t)
	a, b := e-abs, -e-abs
	denom := cdf(a) - cdf(b)
	if denom < tiny {
		return 1
	}
	v := vDraw(abs, e)
	return v*v + (a*pdf(a)-b*pdf(b))/denom
}
