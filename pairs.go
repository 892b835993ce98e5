/*
 * pairs.go, part of peptidelab.
 *
 * Copyright 2024 The PeptideLab developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package mol

import (
	"fmt"
	"math"
	"sort"
)

//Atoms closer than this are considered parsing artifacts (duplicated
//or near-coincident positions) and are never paired.
const minPairDist = 0.4

//AtomPair is one hit of the pairwise finder: a canonical (A < B) pair
//of atom indexes and the distance between them.
type AtomPair struct {
	A    int
	B    int
	Dist float64
}

//PairMode selects the distance criterion of the pairwise finder:
//either the sum of the two covalent radii plus a tolerance, or an
//explicit cutoff.
type PairMode struct {
	covalent bool
	tol      float64
	cutoff   float64
}

//CovalentMode matches pairs whose distance is below the sum of their
//covalent radii plus tol (in Angstroms).
func CovalentMode(tol float64) PairMode {
	return PairMode{covalent: true, tol: tol}
}

//CutoffMode matches pairs whose distance is below or equal to cutoff
//(in Angstroms).
func CutoffMode(cutoff float64) PairMode {
	return PairMode{cutoff: cutoff}
}

//cellKey is a cell of the uniform grid.
type cellKey [3]int

//spatialHash indexes a list of atoms on a uniform grid with cells of
//side = the search radius, so any pair within the radius lives in
//adjacent cells.
type spatialHash struct {
	side  float64
	cells map[cellKey][]int
}

func newSpatialHash(M *Molecule, list []int, side float64) *spatialHash {
	h := &spatialHash{side: side, cells: make(map[cellKey][]int)}
	c := M.Coords()
	for _, i := range list {
		k := h.key(c.At(i, 0), c.At(i, 1), c.At(i, 2))
		h.cells[k] = append(h.cells[k], i)
	}
	return h
}

func (h *spatialHash) key(x, y, z float64) cellKey {
	return cellKey{
		int(math.Floor(x / h.side)),
		int(math.Floor(y / h.side)),
		int(math.Floor(z / h.side)),
	}
}

//neighbors calls f for every indexed atom in the 27 cells around the
//given position.
func (h *spatialHash) neighbors(x, y, z float64, f func(j int)) {
	k := h.key(x, y, z)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				for _, j := range h.cells[cellKey{k[0] + dx, k[1] + dy, k[2] + dz}] {
					f(j)
				}
			}
		}
	}
}

//FindPairs returns every pair (a, b), a from listA and b from listB,
//that satisfies the mode's distance criterion. Pairs are canonical
//(A < B), deduplicated, and exclude self pairs and near-coincident
//atoms (closer than 0.4 A). The search uses a uniform spatial hash
//keyed by the search radius, so cost is close to linear in the list
//sizes at typical atom densities.
func FindPairs(M *Molecule, listA, listB []int, mode PairMode) ([]AtomPair, error) {
	for _, l := range [][]int{listA, listB} {
		for _, i := range l {
			if i < 0 || i >= M.Len() {
				return nil, &CError{fmt.Sprintf("atom index %d out of range [0, %d)", i, M.Len()), []string{"FindPairs"}}
			}
		}
	}
	radius := mode.cutoff
	if mode.covalent {
		maxA, err := maxCovrad(M, listA)
		if err != nil {
			return nil, errDecorate(err, "FindPairs")
		}
		maxB, err := maxCovrad(M, listB)
		if err != nil {
			return nil, errDecorate(err, "FindPairs")
		}
		radius = maxA + maxB + mode.tol
	}
	if radius <= 0 {
		radius = minPairDist //degenerate but legal: "within 0" style searches
	}
	hash := newSpatialHash(M, listB, radius)
	c := M.Coords()
	seen := make(map[[2]int]bool)
	var pairs []AtomPair
	for _, i := range listA {
		x, y, z := c.At(i, 0), c.At(i, 1), c.At(i, 2)
		hash.neighbors(x, y, z, func(j int) {
			if i == j {
				return
			}
			key := [2]int{i, j}
			if j < i {
				key = [2]int{j, i}
			}
			if seen[key] {
				return
			}
			dx, dy, dz := c.At(j, 0)-x, c.At(j, 1)-y, c.At(j, 2)-z
			d := math.Sqrt(dx*dx + dy*dy + dz*dz)
			if d < minPairDist {
				return
			}
			var limit float64
			if mode.covalent {
				r1, _ := CovalentRadius(M.Atom(i).Symbol)
				r2, _ := CovalentRadius(M.Atom(j).Symbol)
				limit = r1 + r2 + mode.tol
			} else {
				limit = mode.cutoff
			}
			if d <= limit {
				seen[key] = true
				pairs = append(pairs, AtomPair{A: key[0], B: key[1], Dist: d})
			}
		})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs, nil
}

func maxCovrad(M *Molecule, list []int) (float64, error) {
	var max float64
	for _, i := range list {
		r, ok := CovalentRadius(M.Atom(i).Symbol)
		if !ok {
			return 0, &CError{fmt.Sprintf("couldn't find the covalent radius for %s (atom %d)", M.Atom(i).Symbol, i), []string{"maxCovrad"}}
		}
		if r > max {
			max = r
		}
	}
	return max, nil
}
