/*
 * selection_test.go, part of peptidelab.
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

package selection

import (
	"strings"
	"testing"

	mol "github.com/mark-alence/PeptideLab-sub000"
	v3 "github.com/mark-alence/PeptideLab-sub000/v3"
)

//The shared test structure:
//
//	chain A: ALA 1 (atoms 0-4: N CA C O CB), CYS 2 (atoms 5-10: N CA C O CB SG)
//	chain B: 5CM 5 (atom 11: C1), HOH 100 (atom 12: O, 2.0 A from SG), ZN 101 (atom 13)
//
//B-factors are 10*index.
func testMol(Te *testing.T) *mol.Molecule {
	Te.Helper()
	type row struct {
		name, symbol, resn string
		resid              int
		chain              string
		het                bool
		x, y, z            float64
	}
	rows := []row{
		{"N", "N", "ALA", 1, "A", false, 0.00, 0.00, 0},
		{"CA", "C", "ALA", 1, "A", false, 1.46, 0.00, 0},
		{"C", "C", "ALA", 1, "A", false, 2.00, 1.40, 0},
		{"O", "O", "ALA", 1, "A", false, 1.30, 2.40, 0},
		{"CB", "C", "ALA", 1, "A", false, 2.00, -0.80, 1.2},
		{"N", "N", "CYS", 2, "A", false, 3.33, 1.40, 0},
		{"CA", "C", "CYS", 2, "A", false, 4.79, 1.40, 0},
		{"C", "C", "CYS", 2, "A", false, 5.33, 2.80, 0},
		{"O", "O", "CYS", 2, "A", false, 4.63, 3.80, 0},
		{"CB", "C", "CYS", 2, "A", false, 5.33, 0.60, 1.2},
		{"SG", "S", "CYS", 2, "A", false, 6.83, 0.60, 1.2},
		{"C1", "C", "5CM", 5, "B", true, 20.00, 0.00, 0},
		{"O", "O", "HOH", 100, "B", true, 8.83, 0.60, 1.2},
		{"ZN", "Zn", "ZN", 101, "B", true, 25.00, 0.00, 0},
	}
	var atoms []*mol.Atom
	var residues []*mol.Residue
	var chains []*mol.ChainSpan
	var coords []float64
	for i, r := range rows {
		atoms = append(atoms, &mol.Atom{
			Name: r.name, Symbol: r.symbol, Molname: r.resn,
			MolID: r.resid, Chain: r.chain, Het: r.het,
			Bfactor: float64(i) * 10,
		})
		coords = append(coords, r.x, r.y, r.z)
		last := len(residues) - 1
		if last < 0 || residues[last].ID != r.resid || residues[last].Chain != r.chain {
			residues = append(residues, &mol.Residue{
				Name: r.resn, ID: r.resid, Chain: r.chain,
				AtomStart: i, AtomEnd: i + 1,
				Standard: mol.IsStandardResidueName(r.resn),
				N:        -1, CA: -1, C: -1,
			})
			last++
		} else {
			residues[last].AtomEnd = i + 1
		}
		switch r.name {
		case "N":
			residues[last].N = i
		case "CA":
			residues[last].CA = i
		case "C":
			residues[last].C = i
		}
	}
	for ri, r := range residues {
		last := len(chains) - 1
		if last < 0 || chains[last].ID != r.Chain {
			chains = append(chains, &mol.ChainSpan{ID: r.Chain, ResStart: ri, ResEnd: ri + 1})
		} else {
			chains[last].ResEnd = ri + 1
		}
	}
	m, err := v3.NewMatrix(coords)
	if err != nil {
		Te.Fatal(err)
	}
	M, err := mol.NewMolecule(atoms, residues, chains, m)
	if err != nil {
		Te.Fatal(err)
	}
	return M
}

func sel(Te *testing.T, ev *Evaluator, src string) *Selection {
	Te.Helper()
	s, err := ev.Select(src)
	if err != nil {
		Te.Fatalf("%q: %v", src, err)
	}
	return s
}

func wantAtoms(Te *testing.T, s *Selection, src string, want ...int) {
	Te.Helper()
	exp, err := NewSelection(s.Model(), want)
	if err != nil {
		Te.Fatal(err)
	}
	if !s.Equal(exp) {
		Te.Errorf("%q selected %v, want %v", src, s.Indices(), want)
	}
}

func TestAllNone(Te *testing.T) {
	ev := NewEvaluator(testMol(Te))
	if got := sel(Te, ev, "all").Len(); got != 14 {
		Te.Errorf("all selected %d of 14 atoms", got)
	}
	if got := sel(Te, ev, "none").Len(); got != 0 {
		Te.Errorf("none selected %d atoms", got)
	}
}

func TestBoolean(Te *testing.T) {
	ev := NewEvaluator(testMol(Te))
	x := sel(Te, ev, "chain A")
	if !sel(Te, ev, "not not chain A").Equal(x) {
		Te.Error("double negation should be the identity")
	}
	union := sel(Te, ev, "chain A or water")
	wantAtoms(Te, union, "chain A or water", 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 12)
	//implicit intersection between adjacent terms
	implicit := sel(Te, ev, "chain A name CA")
	explicit := sel(Te, ev, "chain A and name CA")
	if !implicit.Equal(explicit) {
		Te.Error("implicit and explicit intersection disagree")
	}
	wantAtoms(Te, implicit, "chain A name CA", 1, 6)
}

func TestRanges(Te *testing.T) {
	ev := NewEvaluator(testMol(Te))
	wantAtoms(Te, sel(Te, ev, "resi 1-2"), "resi 1-2", 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	wantAtoms(Te, sel(Te, ev, "resi 1+5"), "resi 1+5", 0, 1, 2, 3, 4, 11)
	wantAtoms(Te, sel(Te, ev, "index 0-2"), "index 0-2", 0, 1, 2)
	//id is the 1-based rank
	wantAtoms(Te, sel(Te, ev, "id 1-3"), "id 1-3", 0, 1, 2)
}

func TestListSelectors(Te *testing.T) {
	ev := NewEvaluator(testMol(Te))
	//a ligand code starting with a digit is an identifier, not a number
	wantAtoms(Te, sel(Te, ev, "resn 5CM"), "resn 5CM", 11)
	wantAtoms(Te, sel(Te, ev, "elem S"), "elem S", 10)
	wantAtoms(Te, sel(Te, ev, "name SG+CB"), "name SG+CB", 4, 9, 10)
	wantAtoms(Te, sel(Te, ev, "chain B"), "chain B", 11, 12, 13)
}

func TestClassFlags(Te *testing.T) {
	ev := NewEvaluator(testMol(Te))
	wantAtoms(Te, sel(Te, ev, "hetatm"), "hetatm", 11, 12, 13)
	wantAtoms(Te, sel(Te, ev, "polymer"), "polymer", 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	wantAtoms(Te, sel(Te, ev, "water"), "water", 12)
	wantAtoms(Te, sel(Te, ev, "organic"), "organic", 11)
	wantAtoms(Te, sel(Te, ev, "inorganic"), "inorganic", 13)
	wantAtoms(Te, sel(Te, ev, "metals"), "metals", 13)
	wantAtoms(Te, sel(Te, ev, "backbone and resi 1"), "backbone and resi 1", 0, 1, 2, 3)
	wantAtoms(Te, sel(Te, ev, "sidechain and resi 1"), "sidechain and resi 1", 4)
}

func TestSecondaryStructure(Te *testing.T) {
	M := testMol(Te)
	M.Residue(0).SS = mol.Helix
	M.Residue(1).SS = mol.Sheet
	ev := NewEvaluator(M)
	wantAtoms(Te, sel(Te, ev, "ss H"), "ss H", 0, 1, 2, 3, 4)
	wantAtoms(Te, sel(Te, ev, "ss S"), "ss S", 5, 6, 7, 8, 9, 10)
	//any other letter means coil
	wantAtoms(Te, sel(Te, ev, "ss L"), "ss L", 11, 12, 13)
}

func TestByres(Te *testing.T) {
	ev := NewEvaluator(testMol(Te))
	x := sel(Te, ev, "byres name SG")
	wantAtoms(Te, x, "byres name SG", 5, 6, 7, 8, 9, 10)
	if !sel(Te, ev, "byres byres name SG").Equal(x) {
		Te.Error("byres should be idempotent")
	}
}

func TestWithinAround(Te *testing.T) {
	ev := NewEvaluator(testMol(Te))
	//SG is 1.5 A from CB and 2.0 A from the water oxygen
	wantAtoms(Te, sel(Te, ev, "within 2.2 of name SG"), "within 2.2 of name SG", 9, 10, 12)
	wantAtoms(Te, sel(Te, ev, "around 2.2 of name SG"), "around 2.2 of name SG", 9, 12)
	//"of" is optional
	if !sel(Te, ev, "within 2.2 name SG").Equal(sel(Te, ev, "within 2.2 of name SG")) {
		Te.Error("omitting \"of\" changed the result")
	}
	x := sel(Te, ev, "name SG")
	if !sel(Te, ev, "within 0 of name SG").Equal(x) {
		Te.Error("within 0 of X should be X")
	}
	if sel(Te, ev, "around 0 of name SG").Len() != 0 {
		Te.Error("around 0 of X should be empty")
	}
}

func TestNeighbor(Te *testing.T) {
	M := testMol(Te)
	bonds, err := mol.InferBonds(M)
	if err != nil {
		Te.Fatal(err)
	}
	ev := NewEvaluator(M, WithBonds(bonds))
	wantAtoms(Te, sel(Te, ev, "neighbor name SG"), "neighbor name SG", 9)
	if !sel(Te, ev, "bound_to name SG").Equal(sel(Te, ev, "neighbor name SG")) {
		Te.Error("bound_to should alias neighbor")
	}
	//without a bond graph the query must fail, not return empty
	bare := NewEvaluator(M)
	if _, err := bare.Select("neighbor name SG"); err == nil {
		Te.Error("neighbor without bonds should be an error")
	}
}

func TestPepseq(Te *testing.T) {
	ev := NewEvaluator(testMol(Te))
	wantAtoms(Te, sel(Te, ev, "pepseq AC"), "pepseq AC", 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	if got := sel(Te, ev, "pepseq CA").Len(); got != 0 {
		Te.Errorf("pepseq CA matched %d atoms in sequence AC", got)
	}
}

func TestBfactor(Te *testing.T) {
	ev := NewEvaluator(testMol(Te))
	wantAtoms(Te, sel(Te, ev, "b > 110"), "b > 110", 12, 13)
	wantAtoms(Te, sel(Te, ev, "b >= 110"), "b >= 110", 11, 12, 13)
	wantAtoms(Te, sel(Te, ev, "b = 0"), "b = 0", 0)
	wantAtoms(Te, sel(Te, ev, "b < 15 and b > 5"), "b < 15 and b > 5", 1)
}

func TestModelSelector(Te *testing.T) {
	M := testMol(Te)
	ev := NewEvaluator(M)
	if _, err := ev.Select("model prot"); err == nil {
		Te.Error("model selection without a model table should fail")
	}
	M.SetModelTable(map[string]mol.ModelRange{"prot": {AtomOffset: 0, AtomCount: 11}})
	wantAtoms(Te, sel(Te, ev, "model PROT"), "model PROT", 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	if _, err := ev.Select("model nosuch"); err == nil {
		Te.Error("an unknown model name should fail")
	}
}

func TestNamedSelections(Te *testing.T) {
	M := testMol(Te)
	st := NewStore()
	ev := NewEvaluator(M, WithStore(st))
	st.Set("MySel", sel(Te, ev, "chain A"))
	//names are case-insensitive
	wantAtoms(Te, sel(Te, ev, "mysel and name CA"), "mysel and name CA", 1, 6)
	st.Delete("mysel")
	if _, err := ev.Select("mysel"); err == nil {
		Te.Error("a deleted named selection should no longer resolve")
	}
}

func TestParseErrors(Te *testing.T) {
	ev := NewEvaluator(testMol(Te))
	bad := []string{
		"blah",              //unknown keyword
		"resi 10-",          //malformed range
		"resi 20-10",        //inverted range
		"within of chain A", //missing distance
		"within 5",          //missing target
		"chain A )",         //trailing token
		"(chain A",          //unclosed parenthesis
		"chain A or",        //dangling operator
		"",                  //empty expression
	}
	for _, src := range bad {
		if _, err := ev.Select(src); err == nil {
			Te.Errorf("%q should not parse", src)
		} else if _, ok := err.(*ParseError); !ok && !strings.Contains(err.Error(), "selection") {
			Te.Errorf("%q gave a non-parse error: %v", src, err)
		}
	}
}
