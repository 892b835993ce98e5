/*
 * selection.go, part of peptidelab.
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

import "fmt"

//Selection is a set of atom indexes over a model with a fixed number
//of atoms. The zero value is not usable; obtain Selections from an
//Evaluator or from NewSelection.
type Selection struct {
	n    int
	mask []bool
}

//NewSelection builds a selection over a model of natoms atoms
//containing exactly the given indexes. Out-of-range indexes are an
//error; duplicates are tolerated.
func NewSelection(natoms int, indexes []int) (*Selection, error) {
	if natoms < 0 {
		return nil, Error{message: fmt.Sprintf("negative atom count %d", natoms)}
	}
	s := &Selection{n: natoms, mask: make([]bool, natoms)}
	for _, i := range indexes {
		if i < 0 || i >= natoms {
			return nil, Error{message: fmt.Sprintf("atom index %d out of range [0, %d)", i, natoms)}
		}
		s.mask[i] = true
	}
	return s, nil
}

func fromMask(mask []bool) *Selection {
	return &Selection{n: len(mask), mask: mask}
}

//Model returns the atom count of the model the selection spans.
func (s *Selection) Model() int {
	return s.n
}

//Len returns the number of selected atoms.
func (s *Selection) Len() int {
	n := 0
	for _, b := range s.mask {
		if b {
			n++
		}
	}
	return n
}

//Contains reports whether atom i is in the selection.
func (s *Selection) Contains(i int) bool {
	return i >= 0 && i < s.n && s.mask[i]
}

//Indices returns the selected atom indexes in ascending order.
func (s *Selection) Indices() []int {
	ret := make([]int, 0, s.Len())
	for i, b := range s.mask {
		if b {
			ret = append(ret, i)
		}
	}
	return ret
}

//Equal reports whether two selections span the same model size and
//contain the same atoms.
func (s *Selection) Equal(o *Selection) bool {
	if o == nil || s.n != o.n {
		return false
	}
	for i := range s.mask {
		if s.mask[i] != o.mask[i] {
			return false
		}
	}
	return true
}
