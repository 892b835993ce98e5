/*
 * session.go, part of peptidelab.
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

//Package session saves and restores a working state, i.e. a molecule
//plus its inferred bonds and the user's named selections, as a
//zstd-compressed JSON archive. Loading revalidates everything through
//the regular constructors, so a corrupt archive cannot produce a
//molecule that violates the model invariants.
package session

import (
	"encoding/json"
	"fmt"
	"io"

	mol "github.com/mark-alence/PeptideLab-sub000"
	"github.com/mark-alence/PeptideLab-sub000/selection"
	v3 "github.com/mark-alence/PeptideLab-sub000/v3"

	"github.com/klauspost/compress/zstd"
)

const formatVersion = 1

//Session is the state that survives a save/load round trip. Bonds and
//Selections may be nil.
type Session struct {
	Mol        *mol.Molecule
	Bonds      *mol.BondSet
	Selections *selection.Store
}

//The on-disk layout. Atom and residue records mirror the model types
//field by field; coordinates travel as one flat row-major buffer.
type archive struct {
	Version    int                 `json:"version"`
	Atoms      []atomRec           `json:"atoms"`
	Residues   []resRec            `json:"residues"`
	Chains     []chainRec          `json:"chains"`
	Coords     []float64           `json:"coords"`
	Models     map[string]modelRec `json:"models,omitempty"`
	Bonds      []bondRec           `json:"bonds,omitempty"`
	Selections map[string][]int    `json:"selections,omitempty"`
}

type atomRec struct {
	Name    string  `json:"name"`
	Symbol  string  `json:"symbol"`
	Molname string  `json:"molname"`
	MolID   int     `json:"molid"`
	Chain   string  `json:"chain"`
	ICode   string  `json:"icode,omitempty"`
	Bfactor float64 `json:"bfactor"`
	Het     bool    `json:"het,omitempty"`
	AltLoc  string  `json:"altloc,omitempty"`
}

type resRec struct {
	Name      string `json:"name"`
	ID        int    `json:"id"`
	Chain     string `json:"chain"`
	ICode     string `json:"icode,omitempty"`
	AtomStart int    `json:"start"`
	AtomEnd   int    `json:"end"`
	Standard  bool   `json:"standard,omitempty"`
	SS        int    `json:"ss,omitempty"`
	N         int    `json:"n"`
	CA        int    `json:"ca"`
	C         int    `json:"c"`
}

type chainRec struct {
	ID       string `json:"id"`
	ResStart int    `json:"start"`
	ResEnd   int    `json:"end"`
}

type modelRec struct {
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

type bondRec struct {
	A    int     `json:"a"`
	B    int     `json:"b"`
	Dist float64 `json:"dist"`
}

type config struct {
	level zstd.EncoderLevel
}

//Option configures Save.
type Option func(*config)

//WithLevel sets the zstd compression level. The default is
//SpeedDefault.
func WithLevel(l zstd.EncoderLevel) Option {
	return func(c *config) { c.level = l }
}

//Save writes s to w as a compressed archive.
func Save(w io.Writer, s *Session, opts ...Option) error {
	if s == nil || s.Mol == nil {
		return fmt.Errorf("session: nothing to save")
	}
	cfg := &config{level: zstd.SpeedDefault}
	for _, o := range opts {
		o(cfg)
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(cfg.level))
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(pack(s)); err != nil {
		enc.Close()
		return fmt.Errorf("session: %w", err)
	}
	return enc.Close()
}

//Load reads an archive and rebuilds the session through the model
//constructors, validating every invariant on the way.
func Load(r io.Reader) (*Session, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	defer dec.Close()
	var a archive
	if err := json.NewDecoder(dec).Decode(&a); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if a.Version != formatVersion {
		return nil, fmt.Errorf("session: unsupported archive version %d", a.Version)
	}
	return unpack(&a)
}

func pack(s *Session) *archive {
	M := s.Mol
	a := &archive{Version: formatVersion}
	a.Atoms = make([]atomRec, M.Len())
	for i := 0; i < M.Len(); i++ {
		at := M.Atom(i)
		a.Atoms[i] = atomRec{
			Name: at.Name, Symbol: at.Symbol, Molname: at.Molname,
			MolID: at.MolID, Chain: at.Chain, ICode: at.ICode,
			Bfactor: at.Bfactor, Het: at.Het, AltLoc: at.AltLoc,
		}
	}
	a.Residues = make([]resRec, M.NResidues())
	for i := 0; i < M.NResidues(); i++ {
		r := M.Residue(i)
		a.Residues[i] = resRec{
			Name: r.Name, ID: r.ID, Chain: r.Chain, ICode: r.ICode,
			AtomStart: r.AtomStart, AtomEnd: r.AtomEnd,
			Standard: r.Standard, SS: int(r.SS),
			N: r.N, CA: r.CA, C: r.C,
		}
	}
	a.Chains = make([]chainRec, M.NChains())
	for i := 0; i < M.NChains(); i++ {
		c := M.Chain(i)
		a.Chains[i] = chainRec{ID: c.ID, ResStart: c.ResStart, ResEnd: c.ResEnd}
	}
	c := M.Coords()
	a.Coords = make([]float64, 0, M.Len()*3)
	for i := 0; i < M.Len(); i++ {
		a.Coords = append(a.Coords, c.At(i, 0), c.At(i, 1), c.At(i, 2))
	}
	if t := M.ModelTable(); t != nil {
		a.Models = make(map[string]modelRec, len(t))
		for name, rng := range t {
			a.Models[name] = modelRec{Offset: rng.AtomOffset, Count: rng.AtomCount}
		}
	}
	if s.Bonds != nil {
		for _, b := range s.Bonds.Pairs() {
			a.Bonds = append(a.Bonds, bondRec{A: b.A, B: b.B, Dist: b.Dist})
		}
	}
	if s.Selections != nil {
		a.Selections = make(map[string][]int)
		for _, name := range s.Selections.Names() {
			sel, _ := s.Selections.Get(name)
			a.Selections[name] = sel.Indices()
		}
	}
	return a
}

func unpack(a *archive) (*Session, error) {
	if len(a.Atoms) == 0 {
		return nil, fmt.Errorf("session: archive holds no atoms")
	}
	atoms := make([]*mol.Atom, len(a.Atoms))
	for i, r := range a.Atoms {
		atoms[i] = &mol.Atom{
			Name: r.Name, Symbol: r.Symbol, Molname: r.Molname,
			MolID: r.MolID, Chain: r.Chain, ICode: r.ICode,
			Bfactor: r.Bfactor, Het: r.Het, AltLoc: r.AltLoc,
		}
	}
	residues := make([]*mol.Residue, len(a.Residues))
	for i, r := range a.Residues {
		residues[i] = &mol.Residue{
			Name: r.Name, ID: r.ID, Chain: r.Chain, ICode: r.ICode,
			AtomStart: r.AtomStart, AtomEnd: r.AtomEnd,
			Standard: r.Standard, SS: mol.SecStructure(r.SS),
			N: r.N, CA: r.CA, C: r.C,
		}
	}
	chains := make([]*mol.ChainSpan, len(a.Chains))
	for i, c := range a.Chains {
		chains[i] = &mol.ChainSpan{ID: c.ID, ResStart: c.ResStart, ResEnd: c.ResEnd}
	}
	if len(a.Coords) != len(a.Atoms)*3 {
		return nil, fmt.Errorf("session: coordinate buffer holds %d values for %d atoms", len(a.Coords), len(a.Atoms))
	}
	coords, err := v3.NewMatrix(a.Coords)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	M, err := mol.NewMolecule(atoms, residues, chains, coords)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if a.Models != nil {
		t := make(map[string]mol.ModelRange, len(a.Models))
		for name, r := range a.Models {
			t[name] = mol.ModelRange{AtomOffset: r.Offset, AtomCount: r.Count}
		}
		M.SetModelTable(t)
	}
	s := &Session{Mol: M}
	if a.Bonds != nil {
		s.Bonds = mol.NewBondSet(M.Len())
		for _, b := range a.Bonds {
			if err := s.Bonds.Add(b.A, b.B, b.Dist); err != nil {
				return nil, fmt.Errorf("session: %w", err)
			}
		}
	}
	if a.Selections != nil {
		s.Selections = selection.NewStore()
		for name, idx := range a.Selections {
			sel, err := selection.NewSelection(M.Len(), idx)
			if err != nil {
				return nil, fmt.Errorf("session: selection %q: %w", name, err)
			}
			s.Selections.Set(name, sel)
		}
	}
	return s, nil
}
