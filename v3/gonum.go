/*
 * gonum.go, part of peptidelab.
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

package v3

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

//The main container. Matrix is a set of row vectors in 3D space,
//backed by a gonum Dense. Within the package it is understood that
//a "vector" is a row vector, i.e. the cartesian coordinates of a
//point in 3D space.
type Matrix struct {
	*mat.Dense
}

func Matrix2Dense(A *Matrix) *mat.Dense {
	return A.Dense
}

func Dense2Matrix(A *mat.Dense) *Matrix {
	return &Matrix{A}
}

//NewMatrix generates and returns a Matrix with 3 columns from data.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	if l == 0 {
		return nil, Error{"Can't build a Matrix from an empty slice", []string{"NewMatrix"}, true}
	}
	if l%cols != 0 {
		return nil, Error{fmt.Sprintf("Input slice length %d not divisible by %d", l, cols), []string{"NewMatrix"}, true}
	}
	r := mat.NewDense(l/cols, cols, data)
	return &Matrix{r}, nil
}

//Zeros returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

//VecView returns a view of the ith vector of the matrix in the receiver.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)
	return &Matrix{r}
}

//View returns a view of F starting from i,j and spanning r rows and
//c columns. Changes in the view are reflected in F and vice-versa.
func (F *Matrix) View(i, j, r, c int) *Matrix {
	ret := F.Dense.Slice(i, i+r, j, j+c).(*mat.Dense)
	return &Matrix{ret}
}

//Len returns the number of vectors in F.
func (F *Matrix) Len() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

//NVecs is kept as a synonym of Len.
func (F *Matrix) NVecs() int {
	return F.Len()
}

//Mul wraps Dense.Mul to take care of the case when one of the
//arguments is also the receiver. The gonum function checks aliasing
//against the Dense, which it cannot see through the embedding,
//hence this wrapper.
func (F *Matrix) Mul(A, B mat.Matrix) {
	F.Dense.Mul(unwrap(A), unwrap(B))
}

//Sub wraps Dense.Sub, unwrapping Matrix arguments.
func (F *Matrix) Sub(A, B mat.Matrix) {
	F.Dense.Sub(unwrap(A), unwrap(B))
}

//Add wraps Dense.Add, unwrapping Matrix arguments.
func (F *Matrix) Add(A, B mat.Matrix) {
	F.Dense.Add(unwrap(A), unwrap(B))
}

//Copy wraps Dense.Copy, unwrapping a Matrix argument.
func (F *Matrix) Copy(A mat.Matrix) {
	F.Dense.Copy(unwrap(A))
}

//Scale wraps Dense.Scale, unwrapping a Matrix argument.
func (F *Matrix) Scale(v float64, A mat.Matrix) {
	F.Dense.Scale(v, unwrap(A))
}

func unwrap(A mat.Matrix) mat.Matrix {
	if A, ok := A.(*Matrix); ok {
		return A.Dense
	}
	return A
}

//Norm returns the i-norm of the matrix. For a single vector and i=2,
//that is its cartesian length.
func (F *Matrix) Norm(i float64) float64 {
	return mat.Norm(F.Dense, i)
}

//Dot returns the dot product of the first vectors of F and B.
func (F *Matrix) Dot(B *Matrix) float64 {
	if F.Len() < 1 || B.Len() < 1 {
		panic(ErrNotEnoughElements)
	}
	var d float64
	for i := 0; i < 3; i++ {
		d += F.At(0, i) * B.At(0, i)
	}
	return d
}

//SetMatrix puts the matrix A in the receiver starting from the ith row
//and jth col of the receiver.
func (F *Matrix) SetMatrix(i, j int, A *Matrix) {
	b := F.RawMatrix()
	ar, ac := A.Dims()
	fc := 3
	if ar+i > F.Len() || ac+j > fc {
		panic(ErrShape)
	}
	r := make([]float64, ac)
	for k := 0; k < ar; k++ {
		mat.Row(r, k, A.Dense)
		startpoint := fc*(k+i) + j
		copy(b.Data[startpoint:startpoint+ac], r)
	}
}

//Det returns the determinant of a 3x3 matrix. Panics if the matrix is not 3x3.
func Det(A mat.Matrix) float64 {
	r, c := A.Dims()
	if r != 3 || c != 3 {
		panic(ErrDeterminant)
	}
	return A.At(0, 0)*(A.At(1, 1)*A.At(2, 2)-A.At(2, 1)*A.At(1, 2)) -
		A.At(1, 0)*(A.At(0, 1)*A.At(2, 2)-A.At(2, 1)*A.At(0, 2)) +
		A.At(2, 0)*(A.At(0, 1)*A.At(1, 2)-A.At(1, 1)*A.At(0, 2))
}

//Errors

//Error is the error type for the v3 package. The Decorate method allows
//the caller to add function names to the error as it is passed up.
type Error struct {
	message  string
	deco     []string
	critical bool
}

//Error returns a string with an error message.
func (err Error) Error() string {
	return err.message
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error is critical or can be ignored.
func (err Error) Critical() bool { return err.critical }

//PanicMsg is a message used for panics. For errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix      = PanicMsg("peptidelab/v3: A Matrix should have 3 columns")
	ErrNoCrossProduct    = PanicMsg("peptidelab/v3: Invalid matrix for cross product")
	ErrNotEnoughElements = PanicMsg("peptidelab/v3: not enough elements in Matrix")
	ErrDeterminant       = PanicMsg("peptidelab/v3: Determinants are only available for 3x3 matrices")
	ErrShape             = PanicMsg("peptidelab/v3: Dimension mismatch")
)
