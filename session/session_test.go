/*
 * session_test.go, part of peptidelab.
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

package session

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	mol "github.com/mark-alence/PeptideLab-sub000"
	"github.com/mark-alence/PeptideLab-sub000/selection"
	v3 "github.com/mark-alence/PeptideLab-sub000/v3"

	"github.com/klauspost/compress/zstd"
)

func sampleSession(Te *testing.T) *Session {
	Te.Helper()
	atoms := []*mol.Atom{
		{Name: "N", Symbol: "N", Molname: "ALA", MolID: 1, Chain: "A", Bfactor: 10},
		{Name: "CA", Symbol: "C", Molname: "ALA", MolID: 1, Chain: "A", Bfactor: 12},
		{Name: "C", Symbol: "C", Molname: "ALA", MolID: 1, Chain: "A", Bfactor: 14},
		{Name: "O", Symbol: "O", Molname: "HOH", MolID: 50, Chain: "B", Het: true, Bfactor: 30},
	}
	residues := []*mol.Residue{
		{Name: "ALA", ID: 1, Chain: "A", AtomStart: 0, AtomEnd: 3, Standard: true, SS: mol.Helix, N: 0, CA: 1, C: 2},
		{Name: "HOH", ID: 50, Chain: "B", AtomStart: 3, AtomEnd: 4, N: -1, CA: -1, C: -1},
	}
	chains := []*mol.ChainSpan{
		{ID: "A", ResStart: 0, ResEnd: 1},
		{ID: "B", ResStart: 1, ResEnd: 2},
	}
	coords, err := v3.NewMatrix([]float64{0, 0, 0, 1.46, 0, 0, 2.0, 1.4, 0, 8, 8, 8})
	if err != nil {
		Te.Fatal(err)
	}
	M, err := mol.NewMolecule(atoms, residues, chains, coords)
	if err != nil {
		Te.Fatal(err)
	}
	M.SetModelTable(map[string]mol.ModelRange{"prot": {AtomOffset: 0, AtomCount: 3}})
	bonds, err := mol.InferBonds(M)
	if err != nil {
		Te.Fatal(err)
	}
	st := selection.NewStore()
	bbsel, err := selection.NewSelection(M.Len(), []int{0, 1, 2})
	if err != nil {
		Te.Fatal(err)
	}
	st.Set("prot", bbsel)
	return &Session{Mol: M, Bonds: bonds, Selections: st}
}

func TestRoundTrip(Te *testing.T) {
	s := sampleSession(Te)
	var buf bytes.Buffer
	if err := Save(&buf, s, WithLevel(zstd.SpeedBestCompression)); err != nil {
		Te.Fatal(err)
	}
	got, err := Load(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	M, N := s.Mol, got.Mol
	if N.Len() != M.Len() || N.NResidues() != M.NResidues() || N.NChains() != M.NChains() {
		Te.Fatalf("model shape changed: %d/%d/%d vs %d/%d/%d",
			N.Len(), N.NResidues(), N.NChains(), M.Len(), M.NResidues(), M.NChains())
	}
	for i := 0; i < M.Len(); i++ {
		a, b := M.Atom(i), N.Atom(i)
		if a.Name != b.Name || a.Symbol != b.Symbol || a.Molname != b.Molname ||
			a.Chain != b.Chain || a.Het != b.Het || a.Bfactor != b.Bfactor {
			Te.Errorf("atom %d changed: %+v vs %+v", i, a, b)
		}
		for k := 0; k < 3; k++ {
			if math.Abs(M.Coords().At(i, k)-N.Coords().At(i, k)) > 1e-12 {
				Te.Errorf("coordinates of atom %d changed", i)
			}
		}
	}
	if N.Residue(0).SS != mol.Helix || !N.Residue(0).Standard {
		Te.Error("residue flags changed")
	}
	if got.Bonds == nil || got.Bonds.Len() != s.Bonds.Len() {
		Te.Fatal("bond set changed across the round trip")
	}
	for _, b := range s.Bonds.Pairs() {
		if !got.Bonds.Has(b.A, b.B) {
			Te.Errorf("bond (%d, %d) lost", b.A, b.B)
		}
	}
	sel, ok := got.Selections.Get("PROT") //names stay case-insensitive
	if !ok {
		Te.Fatal("named selection lost")
	}
	if sel.Len() != 3 || !sel.Contains(0) || !sel.Contains(2) {
		Te.Errorf("named selection changed: %v", sel.Indices())
	}
	if _, ok := N.ModelTable()["prot"]; !ok {
		Te.Error("model table lost")
	}
}

func TestLoadRejectsBrokenArchive(Te *testing.T) {
	s := sampleSession(Te)
	var buf bytes.Buffer
	if err := Save(&buf, s); err != nil {
		Te.Fatal(err)
	}
	//truncate the archive
	raw := buf.Bytes()
	if _, err := Load(bytes.NewReader(raw[:len(raw)/2])); err == nil {
		Te.Error("a truncated archive should not load")
	}
	if _, err := Load(bytes.NewReader([]byte("not a session"))); err == nil {
		Te.Error("garbage should not load")
	}
	if err := Save(&buf, nil); err == nil {
		Te.Error("saving a nil session should fail")
	}
}

func TestLoadRejectsEmptyArchive(Te *testing.T) {
	//a well-formed archive with no atoms must be turned away, not
	//handed to the molecule constructor
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	if err := json.NewEncoder(enc).Encode(&archive{Version: formatVersion}); err != nil {
		Te.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		Te.Fatal(err)
	}
	if _, err := Load(&buf); err == nil {
		Te.Error("an archive without atoms should not load")
	}
}
