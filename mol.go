/*
 * mol.go, part of peptidelab.
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

	v3 "github.com/mark-alence/PeptideLab-sub000/v3"
)

/*Note: several accessors here panic instead of returning errors. They
are fundamental functions, and being called with an out-of-range index
on a validated model means the program is wrong and should crash.*/

//SecStructure is the per-residue secondary structure classification.
type SecStructure int

const (
	Coil SecStructure = iota
	Helix
	Sheet
)

//Atom contains the static data of one atom. The position lives in the
//molecule's coordinate matrix, indexed by the atom's Index. Everything
//except the position is immutable after parsing.
type Atom struct {
	Name    string  //PDB-style atom name, e.g. "CA"
	Index   int     //dense, zero-based, stable for the model's lifetime
	Symbol  string  //element symbol
	Molname string  //name of the residue the atom belongs to
	MolID   int     //residue sequence number
	Chain   string  //chain identifier
	ICode   string  //residue insertion code
	Bfactor float64 //temperature factor
	Het     bool    //is hetatm in the source file?
	AltLoc  string  //alternate-location tag
}

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	N := *A
	return &N
}

//Residue is one monomer unit, owning the contiguous atom index range
//[AtomStart, AtomEnd).
type Residue struct {
	Name      string
	ID        int //sequence number
	Chain     string
	ICode     string
	AtomStart int
	AtomEnd   int
	Standard  bool         //is this a standard amino acid?
	Code1     byte         //1-letter code, 'X' when unknown
	SS        SecStructure //secondary structure tag
	//Backbone anchor atom indexes, -1 when the atom is absent.
	N  int
	CA int
	C  int
}

//Len returns the number of atoms in the residue.
func (R *Residue) Len() int {
	return R.AtomEnd - R.AtomStart
}

//ChainSpan is a chain identifier plus the contiguous residue index
//range [ResStart, ResEnd) it owns.
type ChainSpan struct {
	ID       string
	ResStart int
	ResEnd   int
}

//ModelRange locates a named sub-structure in the shared atom buffer,
//for "model NAME" selections in multi-structure scenes.
type ModelRange struct {
	AtomOffset int
	AtomCount  int
}

//Molecule is the immutable structural model the engine queries. Only
//atom positions may change after construction.
type Molecule struct {
	atoms    []*Atom
	residues []*Residue
	chains   []*ChainSpan
	coords   *v3.Matrix
	res4atom []int //atom index -> residue index
	models   map[string]ModelRange
}

//NewMolecule validates the partition invariants of the model and
//returns it. The residue ranges must cover [0, len(atoms)) contiguously
//and in order, and the chain ranges must do the same over the residues.
//Anchor indexes must be -1 or inside the owning residue's range. The
//coords matrix must have exactly one vector per atom. Atom.Index and
//Residue.Code1 are filled in here; any preexisting values are
//overwritten.
func NewMolecule(atoms []*Atom, residues []*Residue, chains []*ChainSpan, coords *v3.Matrix) (*Molecule, error) {
	if atoms == nil || coords == nil {
		return nil, &CError{"nil atoms or coordinates", []string{"NewMolecule"}}
	}
	if coords.Len() != len(atoms) {
		return nil, &CError{fmt.Sprintf("inconsistent coordinates/atoms: %d vs %d", coords.Len(), len(atoms)), []string{"NewMolecule"}}
	}
	wanted := 0
	for i, r := range residues {
		if r.AtomStart != wanted || r.AtomEnd < r.AtomStart || r.AtomEnd > len(atoms) {
			return nil, &CError{fmt.Sprintf("residue %d (%s%d) breaks the atom partition: [%d, %d)", i, r.Name, r.ID, r.AtomStart, r.AtomEnd), []string{"NewMolecule"}}
		}
		wanted = r.AtomEnd
		for _, anchor := range []int{r.N, r.CA, r.C} {
			if anchor != -1 && (anchor < r.AtomStart || anchor >= r.AtomEnd) {
				return nil, &CError{fmt.Sprintf("residue %d (%s%d) has an anchor outside its range: %d", i, r.Name, r.ID, anchor), []string{"NewMolecule"}}
			}
		}
		if r.Code1 == 0 {
			r.Code1 = OneLetterCode(r.Name)
		}
	}
	if wanted != len(atoms) {
		return nil, &CError{fmt.Sprintf("residues cover %d of %d atoms", wanted, len(atoms)), []string{"NewMolecule"}}
	}
	wanted = 0
	for i, c := range chains {
		if c.ResStart != wanted || c.ResEnd < c.ResStart || c.ResEnd > len(residues) {
			return nil, &CError{fmt.Sprintf("chain %d (%s) breaks the residue partition: [%d, %d)", i, c.ID, c.ResStart, c.ResEnd), []string{"NewMolecule"}}
		}
		wanted = c.ResEnd
	}
	if wanted != len(residues) {
		return nil, &CError{fmt.Sprintf("chains cover %d of %d residues", wanted, len(residues)), []string{"NewMolecule"}}
	}
	M := &Molecule{atoms: atoms, residues: residues, chains: chains, coords: coords}
	M.res4atom = make([]int, len(atoms))
	for ri, r := range residues {
		for i := r.AtomStart; i < r.AtomEnd; i++ {
			M.res4atom[i] = ri
		}
	}
	for i, a := range atoms {
		a.Index = i
	}
	return M, nil
}

//Atom returns the atom with index i. Panics if out of range.
func (M *Molecule) Atom(i int) *Atom {
	if i >= M.Len() || i < 0 {
		panic("Molecule: requested Atom out of bounds")
	}
	return M.atoms[i]
}

//Len returns the number of atoms in the molecule.
func (M *Molecule) Len() int {
	return len(M.atoms)
}

//Residue returns the residue with index i. Panics if out of range.
func (M *Molecule) Residue(i int) *Residue {
	if i >= len(M.residues) || i < 0 {
		panic("Molecule: requested Residue out of bounds")
	}
	return M.residues[i]
}

//NResidues returns the number of residues in the molecule.
func (M *Molecule) NResidues() int {
	return len(M.residues)
}

//Chain returns the ith chain. Panics if out of range.
func (M *Molecule) Chain(i int) *ChainSpan {
	if i >= len(M.chains) || i < 0 {
		panic("Molecule: requested Chain out of bounds")
	}
	return M.chains[i]
}

//NChains returns the number of chains in the molecule.
func (M *Molecule) NChains() int {
	return len(M.chains)
}

//Coords returns the position matrix of the molecule. The matrix is
//shared, not copied: writing to it moves the atoms.
func (M *Molecule) Coords() *v3.Matrix {
	return M.coords
}

//ResidueOfAtom returns the index of the residue owning atom i.
func (M *Molecule) ResidueOfAtom(i int) int {
	if i >= M.Len() || i < 0 {
		panic("Molecule: requested Atom out of bounds")
	}
	return M.res4atom[i]
}

//SetModelTable installs the name->range table used by the "model NAME"
//selector in multi-structure scenes. A nil table removes it.
func (M *Molecule) SetModelTable(t map[string]ModelRange) {
	M.models = t
}

//ModelTable returns the installed sub-structure table, or nil.
func (M *Molecule) ModelTable() map[string]ModelRange {
	return M.models
}

//Masses returns a slice with the mass of each atom, and an error if
//any element is unknown.
func (M *Molecule) Masses() ([]float64, error) {
	masses := make([]float64, M.Len())
	for i, a := range M.atoms {
		m, ok := symbolMass[normalizeSymbol(a.Symbol)]
		if !ok {
			return nil, &CError{fmt.Sprintf("no mass for element %s (atom %d)", a.Symbol, i), []string{"Masses"}}
		}
		masses[i] = m
	}
	return masses, nil
}

//HasHydrogens reports whether any atom in the model is a hydrogen.
func (M *Molecule) HasHydrogens() bool {
	for _, a := range M.atoms {
		if normalizeSymbol(a.Symbol) == "H" {
			return true
		}
	}
	return false
}
