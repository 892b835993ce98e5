/*
 * kabsch.go, part of peptidelab.
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

//Package align superimposes one structure onto another with the
//Kabsch algorithm: backbone anchor atoms are paired between the two
//models, and the least-squares rotation comes from an SVD of their
//cross-covariance, computed here by cyclic Jacobi eigen-iteration.
package align

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	mol "github.com/mark-alence/PeptideLab-sub000"
	v3 "github.com/mark-alence/PeptideLab-sub000/v3"
)

const (
	minCorrespondences = 3
	jacobiMaxSweeps    = 64
	jacobiEps          = 1e-12
	singularEps        = 1e-8
)

//Result is a rigid transform fitted by Super, SuperWeighted or
//SuperPoints: the moving structure maps onto the target as
//
//	x' = Rotation*(x - CenterMoving) + CenterTarget
type Result struct {
	Rotation     [3][3]float64
	CenterMoving [3]float64
	CenterTarget [3]float64
	RMSD         float64
	Pairs        int
}

//Super fits the rigid transform taking moving onto target. Atom pairs
//come from backbone anchors (N, CA, C) matched by chain and residue
//sequence number; when fewer than 3 such matches exist the anchors are
//paired sequentially instead. Neither molecule is modified; call
//Result.Apply to move one.
func Super(moving, target *mol.Molecule) (*Result, error) {
	ia, ib, err := correspondences(moving, target)
	if err != nil {
		return nil, err
	}
	return superPoints(gather(moving, ia), gather(target, ib), nil)
}

//SuperWeighted is Super with every correspondence weighted by its
//atomic mass, so heavy atoms pull harder on the fit. It fails when the
//moving model contains an element with no tabulated mass.
func SuperWeighted(moving, target *mol.Molecule) (*Result, error) {
	ia, ib, err := correspondences(moving, target)
	if err != nil {
		return nil, err
	}
	masses, err := moving.Masses()
	if err != nil {
		return nil, err
	}
	w := make([]float64, len(ia))
	for k, i := range ia {
		w[k] = masses[i]
	}
	return superPoints(gather(moving, ia), gather(target, ib), w)
}

//SuperPoints fits the rigid transform taking the point set P onto Q.
//Both are Nx3 with equal N >= 3, corresponding row by row.
func SuperPoints(P, Q *v3.Matrix) (*Result, error) {
	return superPoints(P, Q, nil)
}

//superPoints does the actual fit. A nil w means unit weights.
func superPoints(P, Q *v3.Matrix, w []float64) (*Result, error) {
	n := P.NVecs()
	if n != Q.NVecs() {
		return nil, Error{message: fmt.Sprintf("point sets differ in size: %d vs %d", n, Q.NVecs())}
	}
	if n < minCorrespondences {
		return nil, Error{message: fmt.Sprintf("only %d atom correspondences, need at least %d", n, minCorrespondences)}
	}
	cm := centroid(P, w)
	ct := centroid(Q, w)
	cP := v3.Zeros(n)
	cP.SubVec(P, rowVec(cm))
	cQ := v3.Zeros(n)
	cQ.SubVec(Q, rowVec(ct))
	//cross-covariance H = Pt*W*Q of the centered sets
	var H [3][3]float64
	wsum := 0.0
	for k := 0; k < n; k++ {
		wk := weightAt(w, k)
		wsum += wk
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				H[i][j] += wk * cP.At(k, i) * cQ.At(k, j)
			}
		}
	}
	if wsum <= 0 {
		return nil, Error{message: "point weights add up to nothing"}
	}
	U, V := svd3(H)
	//reflection guard: flip the smallest singular direction
	d := 1.0
	if det3(U)*det3(V) < 0 {
		d = -1.0
	}
	var R [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			R[i][j] = V[i][0]*U[j][0] + V[i][1]*U[j][1] + d*V[i][2]*U[j][2]
		}
	}
	//residuals: rotate the centered moving set onto the centered target
	cP.Mul(cP, rotTranspose(R))
	cP.Sub(cP, cQ)
	sum := 0.0
	for k := 0; k < n; k++ {
		wk := weightAt(w, k)
		for i := 0; i < 3; i++ {
			r := cP.At(k, i)
			sum += wk * r * r
		}
	}
	return &Result{
		Rotation:     R,
		CenterMoving: cm,
		CenterTarget: ct,
		RMSD:         math.Sqrt(sum / wsum),
		Pairs:        n,
	}, nil
}

//Apply moves every atom of M by the fitted transform, mutating the
//coordinates in place. Bond topology and all other fields are
//untouched.
func (res *Result) Apply(M *mol.Molecule) {
	c := M.Coords()
	c.SubVec(c, rowVec(res.CenterMoving))
	c.Mul(c, rotTranspose(res.Rotation))
	c.AddVec(c, rowVec(res.CenterTarget))
}

//ApplySome moves only the atoms of M listed in indexes, leaving the
//rest in place, e.g. to dock one chain or ligand while the receptor
//stays put.
func (res *Result) ApplySome(M *mol.Molecule, indexes []int) error {
	if len(indexes) == 0 {
		return nil
	}
	c := M.Coords()
	for _, i := range indexes {
		if i < 0 || i >= M.Len() {
			return Error{message: fmt.Sprintf("atom index %d out of range for a %d-atom model", i, M.Len())}
		}
	}
	sub := v3.Zeros(len(indexes))
	if err := sub.SomeVecsSafe(c, indexes); err != nil {
		return err
	}
	sub.SubVec(sub, rowVec(res.CenterMoving))
	sub.Mul(sub, rotTranspose(res.Rotation))
	sub.AddVec(sub, rowVec(res.CenterTarget))
	c.SetVecs(sub, indexes)
	return nil
}

//correspondences pairs backbone anchor atoms of the two models,
//returning parallel index slices. Residues are matched by
//chain:sequence-number key; if that yields fewer than 3 pairs, the
//anchors are paired by structural order instead, truncated to the
//shorter model.
func correspondences(a, b *mol.Molecule) ([]int, []int, error) {
	ka := anchorsByKey(a)
	kb := anchorsByKey(b)
	keys := make([]string, 0, len(ka))
	for k := range ka {
		if _, ok := kb[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	var ia, ib []int
	for _, k := range keys {
		aa, bb := ka[k], kb[k]
		for d := 0; d < 3; d++ {
			if aa[d] >= 0 && bb[d] >= 0 {
				ia = append(ia, aa[d])
				ib = append(ib, bb[d])
			}
		}
	}
	if len(ia) < minCorrespondences {
		ia = anchorList(a)
		ib = anchorList(b)
		if len(ib) < len(ia) {
			ia = ia[:len(ib)]
		} else {
			ib = ib[:len(ia)]
		}
	}
	if len(ia) < minCorrespondences {
		return nil, nil, Error{message: fmt.Sprintf("only %d atom correspondences between the two models, need at least %d", len(ia), minCorrespondences)}
	}
	return ia, ib, nil
}

func anchorsByKey(M *mol.Molecule) map[string][3]int {
	ret := make(map[string][3]int)
	for ri := 0; ri < M.NResidues(); ri++ {
		r := M.Residue(ri)
		if r.N < 0 && r.CA < 0 && r.C < 0 {
			continue
		}
		key := r.Chain + ":" + strconv.Itoa(r.ID) + r.ICode
		ret[key] = [3]int{r.N, r.CA, r.C}
	}
	return ret
}

func anchorList(M *mol.Molecule) []int {
	var ret []int
	for ri := 0; ri < M.NResidues(); ri++ {
		r := M.Residue(ri)
		for _, i := range []int{r.N, r.CA, r.C} {
			if i >= 0 {
				ret = append(ret, i)
			}
		}
	}
	return ret
}

func gather(M *mol.Molecule, list []int) *v3.Matrix {
	ret := v3.Zeros(len(list))
	ret.SomeVecs(M.Coords(), list)
	return ret
}

//centroid returns the (weighted) mean position of the vectors of A.
//A nil w means unit weights.
func centroid(A *v3.Matrix, w []float64) [3]float64 {
	var c [3]float64
	wsum := 0.0
	for k := 0; k < A.NVecs(); k++ {
		wk := weightAt(w, k)
		wsum += wk
		for d := 0; d < 3; d++ {
			c[d] += wk * A.At(k, d)
		}
	}
	for d := 0; d < 3; d++ {
		c[d] /= wsum
	}
	return c
}

func weightAt(w []float64, k int) float64 {
	if w == nil {
		return 1.0
	}
	return w[k]
}

//rowVec lifts a cartesian point into a 1x3 matrix.
func rowVec(x [3]float64) *v3.Matrix {
	v := v3.Zeros(1)
	for d := 0; d < 3; d++ {
		v.Set(0, d, x[d])
	}
	return v
}

//rotTranspose returns the transpose of R as a 3x3 matrix: row vectors
//rotate by right-multiplication with it.
func rotTranspose(R [3][3]float64) *v3.Matrix {
	t := v3.Zeros(3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t.Set(i, j, R[j][i])
		}
	}
	return t
}

//svd3 decomposes H = U*S*Vt. V comes from a Jacobi eigendecomposition
//of Ht*H, the singular values are the square roots of its eigenvalues
//in descending order, and U = H*V*diag(1/S), re-orthonormalized by
//Gram-Schmidt so near-zero singular values cannot poison it. Both
//returned matrices hold the vectors as columns.
func svd3(H [3][3]float64) (U, V [3][3]float64) {
	var HtH [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				HtH[i][j] += H[k][i] * H[k][j]
			}
		}
	}
	vals, vecs := jacobiEigen(HtH)
	order := [3]int{0, 1, 2}
	sort.Slice(order[:], func(i, j int) bool { return vals[order[i]] > vals[order[j]] })
	var s [3]float64
	for c := 0; c < 3; c++ {
		src := order[c]
		if vals[src] > 0 {
			s[c] = math.Sqrt(vals[src])
		}
		for r := 0; r < 3; r++ {
			V[r][c] = vecs[r][src]
		}
	}
	scale := math.Max(s[0], 1.0)
	for c := 0; c < 3; c++ {
		var u [3]float64
		for r := 0; r < 3; r++ {
			u[r] = H[r][0]*V[0][c] + H[r][1]*V[1][c] + H[r][2]*V[2][c]
		}
		if s[c] > singularEps*scale {
			for r := 0; r < 3; r++ {
				U[r][c] = u[r] / s[c]
			}
		} else if c == 2 {
			//degenerate direction: complete a right-handed basis
			U[0][2] = U[1][0]*U[2][1] - U[2][0]*U[1][1]
			U[1][2] = U[2][0]*U[0][1] - U[0][0]*U[2][1]
			U[2][2] = U[0][0]*U[1][1] - U[1][0]*U[0][1]
		} else {
			for r := 0; r < 3; r++ {
				U[r][c] = u[r]
			}
		}
	}
	gramSchmidt(&U)
	return U, V
}

//gramSchmidt re-orthonormalizes the columns of A in place. A column
//that collapses to zero is replaced by a unit vector orthogonal to
//the earlier ones.
func gramSchmidt(A *[3][3]float64) {
	for c := 0; c < 3; c++ {
		var u [3]float64
		for r := 0; r < 3; r++ {
			u[r] = A[r][c]
		}
		for p := 0; p < c; p++ {
			dot := u[0]*A[0][p] + u[1]*A[1][p] + u[2]*A[2][p]
			for r := 0; r < 3; r++ {
				u[r] -= dot * A[r][p]
			}
		}
		norm := math.Sqrt(u[0]*u[0] + u[1]*u[1] + u[2]*u[2])
		if norm < singularEps {
			u = fallbackAxis(A, c)
			norm = 1.0
		}
		for r := 0; r < 3; r++ {
			A[r][c] = u[r] / norm
		}
	}
}

func fallbackAxis(A *[3][3]float64, c int) [3]float64 {
	for axis := 0; axis < 3; axis++ {
		u := [3]float64{}
		u[axis] = 1.0
		for p := 0; p < c; p++ {
			dot := u[0]*A[0][p] + u[1]*A[1][p] + u[2]*A[2][p]
			for r := 0; r < 3; r++ {
				u[r] -= dot * A[r][p]
			}
		}
		norm := math.Sqrt(u[0]*u[0] + u[1]*u[1] + u[2]*u[2])
		if norm > singularEps {
			for r := 0; r < 3; r++ {
				u[r] /= norm
			}
			return u
		}
	}
	return [3]float64{1, 0, 0}
}

//jacobiEigen diagonalizes the symmetric matrix a by cyclic Jacobi
//rotations, repeatedly zeroing the largest off-diagonal element until
//convergence or the sweep cap. It returns the eigenvalues and the
//eigenvectors as the columns of vecs.
func jacobiEigen(a [3][3]float64) (vals [3]float64, vecs [3][3]float64) {
	for i := 0; i < 3; i++ {
		vecs[i][i] = 1.0
	}
	for sweep := 0; sweep < jacobiMaxSweeps; sweep++ {
		p, q := 0, 1
		if math.Abs(a[0][2]) > math.Abs(a[p][q]) {
			p, q = 0, 2
		}
		if math.Abs(a[1][2]) > math.Abs(a[p][q]) {
			p, q = 1, 2
		}
		if math.Abs(a[p][q]) < jacobiEps {
			break
		}
		//rotation angle zeroing a[p][q]
		theta := 0.5 * (a[q][q] - a[p][p]) / a[p][q]
		t := 1.0 / (math.Abs(theta) + math.Sqrt(theta*theta+1.0))
		if theta < 0 {
			t = -t
		}
		cos := 1.0 / math.Sqrt(t*t+1.0)
		sin := t * cos
		var rot [3][3]float64
		for i := 0; i < 3; i++ {
			rot[i][i] = 1.0
		}
		rot[p][p], rot[q][q] = cos, cos
		rot[p][q], rot[q][p] = sin, -sin
		a = matmul3(matmul3(transpose3(rot), a), rot)
		vecs = matmul3(vecs, rot)
	}
	for i := 0; i < 3; i++ {
		vals[i] = a[i][i]
	}
	return vals, vecs
}

func matmul3(a, b [3][3]float64) [3][3]float64 {
	var c [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				c[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return c
}

func transpose3(a [3][3]float64) [3][3]float64 {
	var t [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t[i][j] = a[j][i]
		}
	}
	return t
}

func det3(a [3][3]float64) float64 {
	return a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
}

//Error is an alignment failure, most often too few correspondences.
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
