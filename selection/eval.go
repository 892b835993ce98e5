/*
 * eval.go, part of peptidelab.
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
	"fmt"
	"strings"

	mol "github.com/mark-alence/PeptideLab-sub000"
)

//Evaluator compiles and evaluates selection expressions against one
//molecule. It caches the bond adjacency map for neighbor queries, so
//two evaluators on distinct molecules never share state. It is not
//safe for concurrent use while the molecule's coordinates mutate.
type Evaluator struct {
	mol   *mol.Molecule
	bonds *mol.BondSet
	store *Store
	adj   map[int][]int
}

//Option configures an Evaluator.
type Option func(*Evaluator)

//WithBonds supplies the covalent-bond graph, enabling the
//neighbor/bound_to selectors.
func WithBonds(b *mol.BondSet) Option {
	return func(ev *Evaluator) { ev.bonds = b }
}

//WithStore supplies a store of user-named selections, which then
//resolve as primaries inside expressions.
func WithStore(st *Store) Option {
	return func(ev *Evaluator) { ev.store = st }
}

//NewEvaluator wraps m for selection queries.
func NewEvaluator(m *mol.Molecule, opts ...Option) *Evaluator {
	ev := &Evaluator{mol: m}
	for _, o := range opts {
		o(ev)
	}
	return ev
}

//Store returns the evaluator's named-selection store, or nil.
func (ev *Evaluator) Store() *Store {
	return ev.store
}

//Select compiles src and evaluates it, returning the selected atom
//set. A failed parse or evaluation returns no selection at all.
func (ev *Evaluator) Select(src string) (*Selection, error) {
	if ev.mol == nil {
		return nil, Error{message: "no molecule loaded"}
	}
	root, err := parse(src, ev.store)
	if err != nil {
		return nil, err
	}
	mask, err := root.eval(ev)
	if err != nil {
		return nil, err
	}
	return fromMask(mask), nil
}

//adjacency returns the memoized bond adjacency map, or an error when
//no bond graph was supplied.
func (ev *Evaluator) adjacency() (map[int][]int, error) {
	if ev.bonds == nil {
		return nil, Error{message: "neighbor selection needs a bond graph and none is available"}
	}
	if ev.adj == nil {
		ev.adj = ev.bonds.Adjacency()
	}
	return ev.adj, nil
}

func (n *orNode) eval(ev *Evaluator) ([]bool, error) {
	l, err := n.left.eval(ev)
	if err != nil {
		return nil, err
	}
	r, err := n.right.eval(ev)
	if err != nil {
		return nil, err
	}
	for i := range l {
		l[i] = l[i] || r[i]
	}
	return l, nil
}

func (n *andNode) eval(ev *Evaluator) ([]bool, error) {
	l, err := n.left.eval(ev)
	if err != nil {
		return nil, err
	}
	r, err := n.right.eval(ev)
	if err != nil {
		return nil, err
	}
	for i := range l {
		l[i] = l[i] && r[i]
	}
	return l, nil
}

func (n *notNode) eval(ev *Evaluator) ([]bool, error) {
	m, err := n.arg.eval(ev)
	if err != nil {
		return nil, err
	}
	for i := range m {
		m[i] = !m[i]
	}
	return m, nil
}

func (n *byresNode) eval(ev *Evaluator) ([]bool, error) {
	m, err := n.arg.eval(ev)
	if err != nil {
		return nil, err
	}
	M := ev.mol
	for ri := 0; ri < M.NResidues(); ri++ {
		r := M.Residue(ri)
		hit := false
		for i := r.AtomStart; i < r.AtomEnd; i++ {
			if m[i] {
				hit = true
				break
			}
		}
		if hit {
			for i := r.AtomStart; i < r.AtomEnd; i++ {
				m[i] = true
			}
		}
	}
	return m, nil
}

func (n *withinNode) eval(ev *Evaluator) ([]bool, error) {
	arg, err := n.arg.eval(ev)
	if err != nil {
		return nil, err
	}
	M := ev.mol
	c := M.Coords()
	//flatten the argument's positions once, then brute-force scan
	//every atom against them.
	var ref [][3]float64
	for i, in := range arg {
		if in {
			ref = append(ref, [3]float64{c.At(i, 0), c.At(i, 1), c.At(i, 2)})
		}
	}
	d2 := n.dist * n.dist
	out := make([]bool, M.Len())
	for i := 0; i < M.Len(); i++ {
		x, y, z := c.At(i, 0), c.At(i, 1), c.At(i, 2)
		for _, r := range ref {
			dx, dy, dz := x-r[0], y-r[1], z-r[2]
			if dx*dx+dy*dy+dz*dz <= d2 {
				out[i] = true
				break
			}
		}
	}
	if n.exclude {
		for i, in := range arg {
			if in {
				out[i] = false
			}
		}
	}
	return out, nil
}

func (n *neighborNode) eval(ev *Evaluator) ([]bool, error) {
	arg, err := n.arg.eval(ev)
	if err != nil {
		return nil, err
	}
	adj, err := ev.adjacency()
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(arg))
	for i, in := range arg {
		if !in {
			continue
		}
		for _, j := range adj[i] {
			out[j] = true
		}
	}
	//bonded partners of the argument, not the argument itself
	for i, in := range arg {
		if in {
			out[i] = false
		}
	}
	return out, nil
}

func (n *namedNode) eval(ev *Evaluator) ([]bool, error) {
	if n.sel.Model() != ev.mol.Len() {
		return nil, Error{message: fmt.Sprintf("named selection %q spans %d atoms, molecule has %d", n.name, n.sel.Model(), ev.mol.Len())}
	}
	m := make([]bool, ev.mol.Len())
	for i := range m {
		m[i] = n.sel.Contains(i)
	}
	return m, nil
}

func (n *listNode) eval(ev *Evaluator) ([]bool, error) {
	M := ev.mol
	if n.kw == kwSS {
		return evalSS(M, n.ids), nil
	}
	want := make(map[string]bool, len(n.ids))
	for _, id := range n.ids {
		want[id] = true
	}
	m := make([]bool, M.Len())
	for i := 0; i < M.Len(); i++ {
		a := M.Atom(i)
		var field string
		switch n.kw {
		case kwChain:
			field = a.Chain
		case kwResn:
			field = a.Molname
		case kwName:
			field = a.Name
		case kwElem:
			field = a.Symbol
		}
		m[i] = want[strings.ToUpper(field)]
	}
	return m, nil
}

//evalSS selects by secondary structure: H is helix, S is sheet, and
//any other letter falls through to coil.
func evalSS(M *mol.Molecule, ids []string) []bool {
	var helix, sheet, coil bool
	for _, id := range ids {
		switch id {
		case "H":
			helix = true
		case "S":
			sheet = true
		default:
			coil = true
		}
	}
	m := make([]bool, M.Len())
	for i := 0; i < M.Len(); i++ {
		switch M.Residue(M.ResidueOfAtom(i)).SS {
		case mol.Helix:
			m[i] = helix
		case mol.Sheet:
			m[i] = sheet
		default:
			m[i] = coil
		}
	}
	return m
}

func (n *rangeNode) eval(ev *Evaluator) ([]bool, error) {
	M := ev.mol
	m := make([]bool, M.Len())
	for i := 0; i < M.Len(); i++ {
		var v int
		switch n.kw {
		case kwResi:
			v = M.Atom(i).MolID
		case kwIndex:
			v = i
		case kwID:
			v = i + 1 //id is the 1-based rank of the atom
		}
		for _, r := range n.ranges {
			if v >= r[0] && v <= r[1] {
				m[i] = true
				break
			}
		}
	}
	return m, nil
}

func (n *flagNode) eval(ev *Evaluator) ([]bool, error) {
	M := ev.mol
	m := make([]bool, M.Len())
	switch n.kw {
	case kwAll:
		for i := range m {
			m[i] = true
		}
	case kwNone:
		//the empty set
	case kwBackbone, kwSidechain:
		for i := range m {
			r := M.Residue(M.ResidueOfAtom(i))
			if !r.Standard {
				continue
			}
			bb := mol.IsBackboneName(M.Atom(i).Name)
			m[i] = bb == (n.kw == kwBackbone)
		}
	case kwHetatm:
		for i := range m {
			m[i] = M.Atom(i).Het
		}
	case kwPolymer:
		for i := range m {
			m[i] = M.Residue(M.ResidueOfAtom(i)).Standard
		}
	case kwOrganic, kwInorganic:
		evalOrganic(M, n.kw == kwOrganic, m)
	case kwSolvent:
		for i := range m {
			m[i] = mol.IsWaterName(M.Atom(i).Molname)
		}
	case kwHydrogens:
		for i := range m {
			m[i] = strings.ToUpper(M.Atom(i).Symbol) == "H"
		}
	case kwMetals:
		for i := range m {
			m[i] = mol.IsMetal(M.Atom(i).Symbol)
		}
	}
	return m, nil
}

//evalOrganic classifies non-standard, non-water residues by whether
//they contain carbon, residue by residue.
func evalOrganic(M *mol.Molecule, wantCarbon bool, m []bool) {
	for ri := 0; ri < M.NResidues(); ri++ {
		r := M.Residue(ri)
		if r.Standard || mol.IsWaterName(r.Name) {
			continue
		}
		carbon := false
		for i := r.AtomStart; i < r.AtomEnd; i++ {
			if strings.ToUpper(M.Atom(i).Symbol) == "C" {
				carbon = true
				break
			}
		}
		if carbon == wantCarbon {
			for i := r.AtomStart; i < r.AtomEnd; i++ {
				m[i] = true
			}
		}
	}
}

func (n *pepseqNode) eval(ev *Evaluator) ([]bool, error) {
	M := ev.mol
	m := make([]bool, M.Len())
	for ci := 0; ci < M.NChains(); ci++ {
		ch := M.Chain(ci)
		seq := make([]byte, 0, ch.ResEnd-ch.ResStart)
		for ri := ch.ResStart; ri < ch.ResEnd; ri++ {
			seq = append(seq, M.Residue(ri).Code1)
		}
		//overlapping matches all count
		for off := 0; off+len(n.seq) <= len(seq); off++ {
			if string(seq[off:off+len(n.seq)]) != n.seq {
				continue
			}
			for ri := ch.ResStart + off; ri < ch.ResStart+off+len(n.seq); ri++ {
				r := M.Residue(ri)
				for i := r.AtomStart; i < r.AtomEnd; i++ {
					m[i] = true
				}
			}
		}
	}
	return m, nil
}

func (n *bfactorNode) eval(ev *Evaluator) ([]bool, error) {
	M := ev.mol
	m := make([]bool, M.Len())
	for i := 0; i < M.Len(); i++ {
		b := M.Atom(i).Bfactor
		switch n.op {
		case ">":
			m[i] = b > n.val
		case "<":
			m[i] = b < n.val
		case ">=":
			m[i] = b >= n.val
		case "<=":
			m[i] = b <= n.val
		case "=":
			m[i] = b == n.val
		}
	}
	return m, nil
}

func (n *modelNode) eval(ev *Evaluator) ([]bool, error) {
	M := ev.mol
	table := M.ModelTable()
	if table == nil {
		return nil, Error{message: "model selection on a molecule with no model table"}
	}
	for name, rng := range table {
		if !strings.EqualFold(name, n.name) {
			continue
		}
		m := make([]bool, M.Len())
		for i := rng.AtomOffset; i < rng.AtomOffset+rng.AtomCount && i < M.Len(); i++ {
			m[i] = true
		}
		return m, nil
	}
	return nil, Error{message: fmt.Sprintf("unknown model %q", n.name)}
}
