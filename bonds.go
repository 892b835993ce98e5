/*
 * bonds.go, part of peptidelab.
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
	"strings"
)

const (
	bondtol      = 0.4 //tolerance over the covalent radii sum
	peptideMaxCN = 2.0 //backbone C(i)-N(i+1) distance ceiling
	disulfideMax = 2.5 //SG-SG distance ceiling
)

//Bond is an unordered covalent bond between two atoms, canonicalized
//as A < B.
type Bond struct {
	A    int
	B    int
	Dist float64
}

//BondSet is the deduplicated covalent-bond graph of one molecule.
//Bonds are inferred once per model and thereafter only change through
//Add and Remove.
type BondSet struct {
	natoms int
	pairs  map[[2]int]float64
}

//NewBondSet returns an empty bond set for a model with natoms atoms.
func NewBondSet(natoms int) *BondSet {
	return &BondSet{natoms: natoms, pairs: make(map[[2]int]float64)}
}

func canonical(a, b int) [2]int {
	if a < b {
		return [2]int{a, b}
	}
	return [2]int{b, a}
}

//Add inserts the bond (a, b). Self bonds and out-of-range indexes are
//errors; duplicates are ignored.
func (s *BondSet) Add(a, b int, dist float64) error {
	if a == b {
		return &CError{fmt.Sprintf("self bond on atom %d", a), []string{"BondSet.Add"}}
	}
	if a < 0 || b < 0 || a >= s.natoms || b >= s.natoms {
		return &CError{fmt.Sprintf("bond (%d, %d) out of range [0, %d)", a, b, s.natoms), []string{"BondSet.Add"}}
	}
	k := canonical(a, b)
	if _, ok := s.pairs[k]; !ok {
		s.pairs[k] = dist
	}
	return nil
}

//Remove deletes the bond (a, b), reporting whether it was present.
func (s *BondSet) Remove(a, b int) bool {
	k := canonical(a, b)
	_, ok := s.pairs[k]
	delete(s.pairs, k)
	return ok
}

//Has reports whether the bond (a, b) is present.
func (s *BondSet) Has(a, b int) bool {
	_, ok := s.pairs[canonical(a, b)]
	return ok
}

//Len returns the number of bonds in the set.
func (s *BondSet) Len() int {
	return len(s.pairs)
}

//Pairs returns the bonds sorted by (A, B).
func (s *BondSet) Pairs() []Bond {
	ret := make([]Bond, 0, len(s.pairs))
	for k, d := range s.pairs {
		ret = append(ret, Bond{A: k[0], B: k[1], Dist: d})
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].A != ret[j].A {
			return ret[i].A < ret[j].A
		}
		return ret[i].B < ret[j].B
	})
	return ret
}

//Adjacency returns a fresh atom->bonded-atoms map. Callers that need
//it repeatedly (the selection evaluator, the interaction detector)
//cache it themselves, keyed to their model, so independent models
//never share state.
func (s *BondSet) Adjacency() map[int][]int {
	adj := make(map[int][]int)
	for k := range s.pairs {
		adj[k[0]] = append(adj[k[0]], k[1])
		adj[k[1]] = append(adj[k[1]], k[0])
	}
	for _, l := range adj {
		sort.Ints(l)
	}
	return adj
}

//InferBonds derives the covalent-bond graph of M. See InferBondsWith.
func InferBonds(M *Molecule) (*BondSet, error) {
	return InferBondsWith(M, nil)
}

//InferBondsWith derives the covalent-bond graph of M in ordered
//phases: residue templates for standard residues, a covalent-radii
//distance fallback for non-standard residues and for hydrogens
//anywhere, inter-residue peptide bonds, disulfide bridges, and finally
//the explicit bond records supplied by the upstream parser (e.g.
//ligand connectivity), all deduplicated into one canonical set.
func InferBondsWith(M *Molecule, explicit []Bond) (*BondSet, error) {
	s := NewBondSet(M.Len())
	//Phase 1: intra-residue bonds.
	for ri := 0; ri < M.NResidues(); ri++ {
		r := M.Residue(ri)
		if r.Standard {
			if err := templateBonds(M, r, s); err != nil {
				return nil, errDecorate(err, "InferBondsWith")
			}
		} else if err := distanceBonds(M, r, s); err != nil {
			return nil, errDecorate(err, "InferBondsWith")
		}
	}
	//Phase 2: hydrogens lacking a template bond get their single
	//nearest unbonded heavy atom in the same residue.
	if err := hydrogenBonds(M, s); err != nil {
		return nil, errDecorate(err, "InferBondsWith")
	}
	//Phase 3: peptide bonds, same chain only.
	peptideBonds(M, s)
	//Phase 4: disulfide bridges, chain-agnostic.
	disulfideBonds(M, s)
	//Phase 5: explicit records from the upstream parser.
	for _, b := range explicit {
		if err := s.Add(b.A, b.B, b.Dist); err != nil {
			return nil, errDecorate(err, "InferBondsWith")
		}
	}
	return s, nil
}

//PairsToBonds converts pairwise-finder output into bonds, for manual
//"bond selA, selB" commands in the host application.
func PairsToBonds(pairs []AtomPair) []Bond {
	ret := make([]Bond, len(pairs))
	for i, p := range pairs {
		ret[i] = Bond{A: p.A, B: p.B, Dist: p.Dist}
	}
	return ret
}

func dist(M *Molecule, i, j int) float64 {
	c := M.Coords()
	dx := c.At(j, 0) - c.At(i, 0)
	dy := c.At(j, 1) - c.At(i, 1)
	dz := c.At(j, 2) - c.At(i, 2)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

//templateBonds adds the fixed atom-name pairs of a standard residue,
//plus the terminal C-OXT bond when an OXT is present. Template entries
//whose atoms are missing from the model (truncated side chains) are
//skipped silently.
func templateBonds(M *Molecule, r *Residue, s *BondSet) error {
	tmpl, ok := residueTemplates[strings.ToUpper(r.Name)]
	if !ok {
		return &CError{fmt.Sprintf("no bond template for standard residue %s %d", r.Name, r.ID), []string{"templateBonds"}}
	}
	byName := make(map[string]int, r.Len())
	for i := r.AtomStart; i < r.AtomEnd; i++ {
		name := strings.ToUpper(M.Atom(i).Name)
		if _, taken := byName[name]; !taken { //altloc duplicates: keep the first
			byName[name] = i
		}
	}
	add := func(a, b int) {
		s.Add(a, b, dist(M, a, b)) //range-checked already, cannot fail
	}
	for _, p := range tmpl {
		a, oka := byName[p[0]]
		b, okb := byName[p[1]]
		if oka && okb {
			add(a, b)
		}
	}
	if c, okc := byName["C"]; okc {
		if oxt, okx := byName["OXT"]; okx {
			add(c, oxt)
		}
	}
	return nil
}

//distanceBonds runs the covalent-radii fallback over all atoms of a
//non-standard residue.
func distanceBonds(M *Molecule, r *Residue, s *BondSet) error {
	list := make([]int, 0, r.Len())
	for i := r.AtomStart; i < r.AtomEnd; i++ {
		if _, ok := CovalentRadius(M.Atom(i).Symbol); ok {
			list = append(list, i)
		}
	}
	pairs, err := FindPairs(M, list, list, CovalentMode(bondtol))
	if err != nil {
		return errDecorate(err, "distanceBonds")
	}
	for _, p := range pairs {
		s.Add(p.A, p.B, p.Dist)
	}
	return nil
}

func isHydrogen(a *Atom) bool {
	return normalizeSymbol(a.Symbol) == "H"
}

//hydrogenBonds matches every still-unbonded hydrogen to its single
//nearest heavy atom in the same residue, subject to the radius-sum
//threshold. Hydrogens with no heavy atom in reach stay unbonded.
func hydrogenBonds(M *Molecule, s *BondSet) error {
	adj := s.Adjacency()
	for i := 0; i < M.Len(); i++ {
		a := M.Atom(i)
		if !isHydrogen(a) || len(adj[i]) > 0 {
			continue
		}
		r := M.Residue(M.ResidueOfAtom(i))
		best := -1
		bestD := math.Inf(1)
		rh, _ := CovalentRadius(a.Symbol)
		for j := r.AtomStart; j < r.AtomEnd; j++ {
			if j == i || isHydrogen(M.Atom(j)) {
				continue
			}
			rj, ok := CovalentRadius(M.Atom(j).Symbol)
			if !ok {
				continue
			}
			d := dist(M, i, j)
			if d < minPairDist || d > rh+rj+bondtol {
				continue
			}
			if d < bestD {
				bestD = d
				best = j
			}
		}
		if best >= 0 {
			s.Add(i, best, bestD)
		}
	}
	return nil
}

//peptideBonds links backbone C of residue i to backbone N of residue
//i+1 within the same chain.
func peptideBonds(M *Molecule, s *BondSet) {
	for ci := 0; ci < M.NChains(); ci++ {
		ch := M.Chain(ci)
		for ri := ch.ResStart; ri < ch.ResEnd-1; ri++ {
			c := M.Residue(ri).C
			n := M.Residue(ri + 1).N
			if c == -1 || n == -1 {
				continue
			}
			if d := dist(M, c, n); d < peptideMaxCN && d >= minPairDist {
				s.Add(c, n, d)
			}
		}
	}
}

//disulfideBonds links SG atoms of any two cysteines, regardless of
//chain.
func disulfideBonds(M *Molecule, s *BondSet) {
	var sgs []int
	for ri := 0; ri < M.NResidues(); ri++ {
		r := M.Residue(ri)
		if strings.ToUpper(r.Name) != "CYS" {
			continue
		}
		for i := r.AtomStart; i < r.AtomEnd; i++ {
			if strings.ToUpper(M.Atom(i).Name) == "SG" {
				sgs = append(sgs, i)
				break
			}
		}
	}
	for i := 0; i < len(sgs); i++ {
		for j := i + 1; j < len(sgs); j++ {
			if d := dist(M, sgs[i], sgs[j]); d < disulfideMax && d >= minPairDist {
				s.Add(sgs[i], sgs[j], d)
			}
		}
	}
}
