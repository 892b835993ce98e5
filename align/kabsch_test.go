/*
 * kabsch_test.go, part of peptidelab.
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

package align

import (
	"math"
	"testing"

	mol "github.com/mark-alence/PeptideLab-sub000"
	v3 "github.com/mark-alence/PeptideLab-sub000/v3"
)

//rotZX composes rotations about z and x, a convenient definitely-proper
//rotation for round-trip tests.
func rotZX(alpha, beta float64) [3][3]float64 {
	ca, sa := math.Cos(alpha), math.Sin(alpha)
	cb, sb := math.Cos(beta), math.Sin(beta)
	rz := [3][3]float64{{ca, -sa, 0}, {sa, ca, 0}, {0, 0, 1}}
	rx := [3][3]float64{{1, 0, 0}, {0, cb, -sb}, {0, sb, cb}}
	return matmul3(rx, rz)
}

//tripeptide builds a three-residue chain with backbone anchors,
//transformed by x' = R*x + t.
func tripeptide(Te *testing.T, chain string, R [3][3]float64, t [3]float64) *mol.Molecule {
	Te.Helper()
	raw := [][3]float64{
		{0.0, 0.0, 0.0}, {1.46, 0.0, 0.0}, {2.0, 1.4, 0.0},
		{3.33, 1.4, 0.0}, {4.79, 1.45, 0.1}, {5.33, 2.8, 0.1},
		{6.66, 2.8, 0.1}, {8.12, 2.9, 0.3}, {8.66, 4.2, 0.3},
	}
	names := []string{"N", "CA", "C"}
	var atoms []*mol.Atom
	var residues []*mol.Residue
	var coords []float64
	for i, p := range raw {
		res := i / 3
		name := names[i%3]
		sym := "C"
		if name == "N" {
			sym = "N"
		}
		atoms = append(atoms, &mol.Atom{
			Name: name, Symbol: sym, Molname: "GLY", MolID: res + 1, Chain: chain,
		})
		x := R[0][0]*p[0] + R[0][1]*p[1] + R[0][2]*p[2] + t[0]
		y := R[1][0]*p[0] + R[1][1]*p[1] + R[1][2]*p[2] + t[1]
		z := R[2][0]*p[0] + R[2][1]*p[1] + R[2][2]*p[2] + t[2]
		coords = append(coords, x, y, z)
	}
	for res := 0; res < 3; res++ {
		residues = append(residues, &mol.Residue{
			Name: "GLY", ID: res + 1, Chain: chain,
			AtomStart: res * 3, AtomEnd: res*3 + 3,
			Standard: true,
			N:        res * 3, CA: res*3 + 1, C: res*3 + 2,
		})
	}
	chains := []*mol.ChainSpan{{ID: chain, ResStart: 0, ResEnd: 3}}
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

func identityish(R [3][3]float64, tol float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(R[i][j]-want) > tol {
				return false
			}
		}
	}
	return true
}

func TestSuperRoundTrip(Te *testing.T) {
	R0 := rotZX(math.Pi/6, math.Pi/9)
	t0 := [3]float64{5, -3, 2}
	moving := tripeptide(Te, "A", [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, [3]float64{})
	target := tripeptide(Te, "A", R0, t0)
	res, err := Super(moving, target)
	if err != nil {
		Te.Fatal(err)
	}
	if res.RMSD > 1e-6 {
		Te.Errorf("aligning a rotated copy should give RMSD ~0, got %g", res.RMSD)
	}
	if res.Pairs != 9 {
		Te.Errorf("expected 9 anchor pairs, got %d", res.Pairs)
	}
	//the fitted rotation must recover R0: R*R0t = I
	var d [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				d[i][j] += res.Rotation[i][k] * R0[j][k]
			}
		}
	}
	if !identityish(d, 1e-6) {
		Te.Errorf("fitted rotation does not match the applied one: %v", res.Rotation)
	}
	//applying the transform moves every atom onto the target
	res.Apply(moving)
	cm, ct := moving.Coords(), target.Coords()
	for i := 0; i < moving.Len(); i++ {
		for k := 0; k < 3; k++ {
			if math.Abs(cm.At(i, k)-ct.At(i, k)) > 1e-6 {
				Te.Fatalf("atom %d off target after Apply: %v vs %v", i, cm.At(i, k), ct.At(i, k))
			}
		}
	}
}

func TestSuperWeighted(Te *testing.T) {
	R0 := rotZX(math.Pi/7, math.Pi/5)
	moving := tripeptide(Te, "A", [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, [3]float64{})
	target := tripeptide(Te, "A", R0, [3]float64{-1, 2, 3})
	res, err := SuperWeighted(moving, target)
	if err != nil {
		Te.Fatal(err)
	}
	if res.RMSD > 1e-6 || res.Pairs != 9 {
		Te.Errorf("mass weighting should not spoil an exact fit: RMSD %g, %d pairs", res.RMSD, res.Pairs)
	}
	var d [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				d[i][j] += res.Rotation[i][k] * R0[j][k]
			}
		}
	}
	if !identityish(d, 1e-6) {
		Te.Errorf("weighted fit missed the applied rotation: %v", res.Rotation)
	}
	//an element without a tabulated mass sinks the whole fit
	moving.Atom(0).Symbol = "Xx"
	if _, err := SuperWeighted(moving, target); err == nil {
		Te.Error("an unknown element should make the weighted fit fail")
	}
}

func TestApplySome(Te *testing.T) {
	R0 := rotZX(math.Pi/5, -math.Pi/8)
	moving := tripeptide(Te, "A", [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, [3]float64{})
	target := tripeptide(Te, "A", R0, [3]float64{-2, 4, 0})
	res, err := Super(moving, target)
	if err != nil {
		Te.Fatal(err)
	}
	cm, ct := moving.Coords(), target.Coords()
	last := [3]float64{cm.At(8, 0), cm.At(8, 1), cm.At(8, 2)}
	first := []int{0, 1, 2}
	if err := res.ApplySome(moving, first); err != nil {
		Te.Fatal(err)
	}
	for _, i := range first {
		for k := 0; k < 3; k++ {
			if math.Abs(cm.At(i, k)-ct.At(i, k)) > 1e-6 {
				Te.Fatalf("atom %d off target after the partial transform", i)
			}
		}
	}
	for k := 0; k < 3; k++ {
		if cm.At(8, k) != last[k] {
			Te.Fatal("an atom outside the list moved")
		}
	}
	if err := res.ApplySome(moving, []int{99}); err == nil {
		Te.Error("an out-of-range index should be refused")
	}
	if err := res.ApplySome(moving, nil); err != nil {
		Te.Errorf("an empty list is a no-op, got %v", err)
	}
}

func TestSequentialFallback(Te *testing.T) {
	//different chain ids: no key overlap, anchors pair by order
	R0 := rotZX(-math.Pi/4, math.Pi/7)
	moving := tripeptide(Te, "A", [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, [3]float64{})
	target := tripeptide(Te, "B", R0, [3]float64{1, 1, 1})
	res, err := Super(moving, target)
	if err != nil {
		Te.Fatal(err)
	}
	if res.RMSD > 1e-6 {
		Te.Errorf("sequential pairing should still align exactly, RMSD %g", res.RMSD)
	}
}

func TestTooFewCorrespondences(Te *testing.T) {
	P, _ := v3.NewMatrix([]float64{0, 0, 0, 1, 0, 0})
	Q, _ := v3.NewMatrix([]float64{0, 0, 0, 0, 1, 0})
	if _, err := SuperPoints(P, Q); err == nil {
		Te.Error("two points cannot define a rigid fit")
	}
	P2, _ := v3.NewMatrix([]float64{0, 0, 0, 1, 0, 0, 0, 1, 0})
	if _, err := SuperPoints(P2, Q); err == nil {
		Te.Error("mismatched point counts should fail")
	}
}

func TestJacobiEigen(Te *testing.T) {
	a := [3][3]float64{{2, 1, 0}, {1, 3, 1}, {0, 1, 2}}
	vals, vecs := jacobiEigen(a)
	//A*v == lambda*v for every eigenpair
	for c := 0; c < 3; c++ {
		for i := 0; i < 3; i++ {
			av := a[i][0]*vecs[0][c] + a[i][1]*vecs[1][c] + a[i][2]*vecs[2][c]
			if math.Abs(av-vals[c]*vecs[i][c]) > 1e-9 {
				Te.Fatalf("eigenpair %d does not satisfy A*v = l*v", c)
			}
		}
	}
	//eigenvalues of a symmetric matrix sum to the trace
	if math.Abs(vals[0]+vals[1]+vals[2]-7) > 1e-9 {
		Te.Errorf("eigenvalues %v should sum to the trace 7", vals)
	}
}
