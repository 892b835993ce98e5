/*
 * interaction.go, part of peptidelab.
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

//Package interaction finds non-covalent contacts between two atom
//selections of one molecule: hydrogen bonds, salt bridges, and plain
//covalent or distance contacts.
package interaction

import (
	"fmt"
	"sort"
	"strings"

	mol "github.com/mark-alence/PeptideLab-sub000"
)

//Kind names a contact type to detect.
type Kind int

const (
	HBonds Kind = iota
	SaltBridges
	Covalent
	Distance
)

func (k Kind) String() string {
	switch k {
	case HBonds:
		return "hbonds"
	case SaltBridges:
		return "salt_bridges"
	case Covalent:
		return "covalent"
	case Distance:
		return "distance"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

//Contact is one detected pair, canonicalized as A < B.
type Contact struct {
	A    int
	B    int
	Dist float64
}

//Options are the geometric cutoffs of the detector, in Å.
type Options struct {
	HBondCutoff      float64
	SaltBridgeCutoff float64
	DistanceCutoff   float64 //for Kind Distance
	CovalentTol      float64 //tolerance over covalent-radii sums, for Kind Covalent
}

//DefaultOptions returns the standard cutoffs.
func DefaultOptions() *Options {
	return &Options{
		HBondCutoff:      3.5,
		SaltBridgeCutoff: 4.0,
		DistanceCutoff:   4.0,
		CovalentTol:      0.4,
	}
}

//Sidechain atoms that carry charge at physiological pH. Basic residues
//pair against acidic ones for salt-bridge detection.
var basicAtoms = map[string]map[string]bool{
	"ARG": {"NH1": true, "NH2": true, "NE": true},
	"LYS": {"NZ": true},
	"HIS": {"ND1": true, "NE2": true},
}

var acidicAtoms = map[string]map[string]bool{
	"ASP": {"OD1": true, "OD2": true},
	"GLU": {"OE1": true, "OE2": true},
}

//Detect finds contacts of the given kind between selA and selB, two
//atom-index sets over M. The bond set provides the donor context for
//hydrogen bonds; it may be nil for the other kinds. Results are
//deduplicated and sorted by (A, B).
func Detect(M *mol.Molecule, bonds *mol.BondSet, selA, selB []int, kind Kind, opts *Options) ([]Contact, error) {
	if M == nil {
		return nil, Error{message: "no molecule loaded"}
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	switch kind {
	case HBonds:
		return hbonds(M, bonds, selA, selB, opts.HBondCutoff)
	case SaltBridges:
		return saltBridges(M, selA, selB, opts.SaltBridgeCutoff)
	case Covalent:
		return pairContacts(M, selA, selB, mol.CovalentMode(opts.CovalentTol))
	case Distance:
		return pairContacts(M, selA, selB, mol.CutoffMode(opts.DistanceCutoff))
	}
	return nil, Error{message: fmt.Sprintf("unknown interaction kind %d", int(kind))}
}

func pairContacts(M *mol.Molecule, selA, selB []int, mode mol.PairMode) ([]Contact, error) {
	pairs, err := mol.FindPairs(M, selA, selB, mode)
	if err != nil {
		return nil, err
	}
	ret := make([]Contact, len(pairs))
	for i, p := range pairs {
		ret[i] = Contact{A: p.A, B: p.B, Dist: p.Dist}
	}
	return ret, nil
}

//hbonds restricts both sides to N/O atoms within the cutoff. When the
//model carries hydrogens, a pair additionally needs a bonded hydrogen
//on at least one side; on hydrogen-free models (the common case for
//X-ray structures) that requirement is dropped globally.
func hbonds(M *mol.Molecule, bonds *mol.BondSet, selA, selB []int, cutoff float64) ([]Contact, error) {
	needH := M.HasHydrogens()
	if needH && bonds == nil {
		return nil, Error{message: "hydrogen-bond detection on a hydrogenated model needs a bond graph"}
	}
	fa := filterNO(M, selA)
	fb := filterNO(M, selB)
	pairs, err := mol.FindPairs(M, fa, fb, mol.CutoffMode(cutoff))
	if err != nil {
		return nil, err
	}
	var adj map[int][]int
	if needH {
		adj = bonds.Adjacency()
	}
	var ret []Contact
	for _, p := range pairs {
		if needH && !hasBondedHydrogen(M, adj, p.A) && !hasBondedHydrogen(M, adj, p.B) {
			continue
		}
		ret = append(ret, Contact{A: p.A, B: p.B, Dist: p.Dist})
	}
	return ret, nil
}

func filterNO(M *mol.Molecule, sel []int) []int {
	var ret []int
	for _, i := range sel {
		switch strings.ToUpper(M.Atom(i).Symbol) {
		case "N", "O":
			ret = append(ret, i)
		}
	}
	return ret
}

func hasBondedHydrogen(M *mol.Molecule, adj map[int][]int, i int) bool {
	for _, j := range adj[i] {
		if strings.ToUpper(M.Atom(j).Symbol) == "H" {
			return true
		}
	}
	return false
}

//saltBridges pairs charged basic sidechain atoms against charged
//acidic ones within the cutoff, in both selection directions.
func saltBridges(M *mol.Molecule, selA, selB []int, cutoff float64) ([]Contact, error) {
	basicA, acidicA := filterCharged(M, selA)
	basicB, acidicB := filterCharged(M, selB)
	p1, err := mol.FindPairs(M, basicA, acidicB, mol.CutoffMode(cutoff))
	if err != nil {
		return nil, err
	}
	p2, err := mol.FindPairs(M, basicB, acidicA, mol.CutoffMode(cutoff))
	if err != nil {
		return nil, err
	}
	seen := make(map[[2]int]bool)
	var ret []Contact
	for _, p := range append(p1, p2...) {
		k := [2]int{p.A, p.B}
		if seen[k] {
			continue
		}
		seen[k] = true
		ret = append(ret, Contact{A: p.A, B: p.B, Dist: p.Dist})
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].A != ret[j].A {
			return ret[i].A < ret[j].A
		}
		return ret[i].B < ret[j].B
	})
	return ret, nil
}

func filterCharged(M *mol.Molecule, sel []int) (basic, acidic []int) {
	for _, i := range sel {
		a := M.Atom(i)
		resn := strings.ToUpper(a.Molname)
		name := strings.ToUpper(a.Name)
		if t, ok := basicAtoms[resn]; ok && t[name] {
			basic = append(basic, i)
		}
		if t, ok := acidicAtoms[resn]; ok && t[name] {
			acidic = append(acidic, i)
		}
	}
	return basic, acidic
}

//Error is a detection failure.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string { return err.message }

//Decorate adds the name of the calling function to the error and
//returns the navigation stack so far.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}
