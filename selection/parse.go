/*
 * parse.go, part of peptidelab.
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
	"strconv"
	"strings"
)

//keyword enumerates every word the grammar knows. Both the dispatch in
//parsePrimary and the implicit-intersection lookahead are driven by
//this one enumeration, so the two can never disagree about which
//words begin a primary.
type keyword int

const (
	kwUnknown keyword = iota
	kwAll
	kwNone
	kwChain
	kwResi
	kwResn
	kwName
	kwElem
	kwSS
	kwBackbone
	kwSidechain
	kwHetatm
	kwPolymer
	kwOrganic
	kwInorganic
	kwSolvent
	kwHydrogens
	kwMetals
	kwPepseq
	kwBfactor
	kwIndex
	kwID
	kwModel
	kwByres
	kwWithin
	kwAround
	kwNeighbor
	kwOf
	kwNot
	kwAnd
	kwOr
)

var keywords = map[string]keyword{
	"all":       kwAll,
	"none":      kwNone,
	"chain":     kwChain,
	"resi":      kwResi,
	"resn":      kwResn,
	"name":      kwName,
	"elem":      kwElem,
	"ss":        kwSS,
	"backbone":  kwBackbone,
	"bb":        kwBackbone,
	"sidechain": kwSidechain,
	"sc":        kwSidechain,
	"hetatm":    kwHetatm,
	"polymer":   kwPolymer,
	"organic":   kwOrganic,
	"inorganic": kwInorganic,
	"solvent":   kwSolvent,
	"water":     kwSolvent,
	"hydrogens": kwHydrogens,
	"h":         kwHydrogens,
	"metals":    kwMetals,
	"pepseq":    kwPepseq,
	"b":         kwBfactor,
	"index":     kwIndex,
	"id":        kwID,
	"model":     kwModel,
	"byres":     kwByres,
	"within":    kwWithin,
	"around":    kwAround,
	"neighbor":  kwNeighbor,
	"bound_to":  kwNeighbor,
	"of":        kwOf,
	"not":       kwNot,
	"and":       kwAnd,
	"or":        kwOr,
}

func keywordOf(text string) keyword {
	return keywords[strings.ToLower(text)]
}

//startsPrimary reports whether a word mapping to k can begin a
//primary. The switch is exhaustive over the enumeration above.
func (k keyword) startsPrimary() bool {
	switch k {
	case kwAll, kwNone, kwChain, kwResi, kwResn, kwName, kwElem, kwSS,
		kwBackbone, kwSidechain, kwHetatm, kwPolymer, kwOrganic,
		kwInorganic, kwSolvent, kwHydrogens, kwMetals, kwPepseq,
		kwBfactor, kwIndex, kwID, kwModel, kwByres, kwWithin, kwAround,
		kwNeighbor:
		return true
	case kwUnknown, kwOf, kwNot, kwAnd, kwOr:
		return false
	}
	return false
}

//The abstract syntax tree. Each node evaluates to an atom mask; the
//eval methods live in eval.go.
type node interface {
	eval(ev *Evaluator) ([]bool, error)
}

type orNode struct{ left, right node }

type andNode struct{ left, right node }

type notNode struct{ arg node }

type byresNode struct{ arg node }

//withinNode is both "within" (exclude == false) and "around"
//(exclude == true, the argument's own atoms are removed).
type withinNode struct {
	dist    float64
	exclude bool
	arg     node
}

type neighborNode struct{ arg node }

//listNode matches a +-joined identifier list against one per-atom
//field; kw is one of chain/resn/name/elem/ss.
type listNode struct {
	kw  keyword
	ids []string //uppercased
}

//rangeNode matches numeric ranges; kw is one of resi/index/id.
type rangeNode struct {
	kw     keyword
	ranges [][2]int //inclusive
}

//flagNode is an argumentless class selector: hetatm, polymer, water
//and friends, plus all/none.
type flagNode struct{ kw keyword }

type pepseqNode struct{ seq string }

type bfactorNode struct {
	op  string //one of > < >= <= =
	val float64
}

type modelNode struct{ name string }

//namedNode is a reference to a stored selection, resolved against the
//store at parse time.
type namedNode struct {
	name string
	sel  *Selection
}

type parser struct {
	toks  []token
	i     int
	store *Store
}

//parse compiles src into a syntax tree, resolving named-selection
//references against store (which may be nil).
func parse(src string, store *Store) (node, error) {
	p := &parser{toks: lex(src), store: store}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if t := p.cur(); t.kind != tokEOF {
		return nil, &ParseError{Msg: "unexpected trailing token", Tok: t.text, Pos: t.pos}
	}
	return n, nil
}

func (p *parser) cur() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

//startsTerm reports whether the current token can begin a term at the
//"not" level, for implicit intersection. The keyword part of the
//answer comes from keyword.startsPrimary.
func (p *parser) startsTerm() bool {
	t := p.cur()
	switch t.kind {
	case tokLParen:
		return true
	case tokWord:
		k := keywordOf(t.text)
		if k == kwNot || k.startsPrimary() {
			return true
		}
		if k == kwUnknown && p.store != nil {
			_, ok := p.store.Get(t.text)
			return ok
		}
	}
	return false
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokWord && keywordOf(p.cur().text) == kwOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &orNode{left, right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		if p.cur().kind == tokWord && keywordOf(p.cur().text) == kwAnd {
			p.next()
		} else if !p.startsTerm() {
			return left, nil
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &andNode{left, right}
	}
}

func (p *parser) parseNot() (node, error) {
	if p.cur().kind == tokWord && keywordOf(p.cur().text) == kwNot {
		p.next()
		arg, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &notNode{arg}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	t := p.cur()
	switch t.kind {
	case tokLParen:
		p.next()
		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if c := p.cur(); c.kind != tokRParen {
			return nil, &ParseError{Msg: "missing closing parenthesis", Tok: c.text, Pos: c.pos}
		}
		p.next()
		return n, nil
	case tokWord:
		return p.parseKeyword()
	case tokEOF:
		return nil, &ParseError{Msg: "unexpected end of selection", Pos: t.pos}
	default:
		return nil, &ParseError{Msg: "unexpected token", Tok: t.text, Pos: t.pos}
	}
}

func (p *parser) parseKeyword() (node, error) {
	t := p.next()
	k := keywordOf(t.text)
	switch k {
	case kwByres:
		arg, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &byresNode{arg}, nil
	case kwWithin, kwAround:
		d := p.cur()
		if d.kind != tokNumber {
			return nil, &ParseError{Msg: fmt.Sprintf("%s needs a distance", strings.ToLower(t.text)), Tok: d.text, Pos: d.pos}
		}
		p.next()
		dist, err := strconv.ParseFloat(d.text, 64)
		if err != nil || dist < 0 {
			return nil, &ParseError{Msg: "bad distance", Tok: d.text, Pos: d.pos}
		}
		//"of" is optional: "within 5 of chain A" and
		//"within 5 chain A" both parse.
		if c := p.cur(); c.kind == tokWord && keywordOf(c.text) == kwOf {
			p.next()
		}
		arg, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &withinNode{dist: dist, exclude: k == kwAround, arg: arg}, nil
	case kwNeighbor:
		arg, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &neighborNode{arg}, nil
	case kwChain, kwResn, kwName, kwElem, kwSS:
		ids, err := p.parseIDList(t.text)
		if err != nil {
			return nil, err
		}
		return &listNode{kw: k, ids: ids}, nil
	case kwResi, kwIndex, kwID:
		a := p.cur()
		if a.kind != tokNumber && a.kind != tokWord {
			return nil, &ParseError{Msg: fmt.Sprintf("%s needs ranges", strings.ToLower(t.text)), Tok: a.text, Pos: a.pos}
		}
		p.next()
		ranges, err := parseRanges(a)
		if err != nil {
			return nil, err
		}
		return &rangeNode{kw: k, ranges: ranges}, nil
	case kwPepseq:
		a := p.cur()
		if a.kind != tokWord {
			return nil, &ParseError{Msg: "pepseq needs a sequence", Tok: a.text, Pos: a.pos}
		}
		p.next()
		return &pepseqNode{seq: strings.ToUpper(a.text)}, nil
	case kwBfactor:
		op := p.cur()
		if op.kind != tokComparator {
			return nil, &ParseError{Msg: "b needs a comparator", Tok: op.text, Pos: op.pos}
		}
		p.next()
		v := p.cur()
		if v.kind != tokNumber {
			return nil, &ParseError{Msg: "b needs a number", Tok: v.text, Pos: v.pos}
		}
		p.next()
		val, err := strconv.ParseFloat(v.text, 64)
		if err != nil {
			return nil, &ParseError{Msg: "bad number", Tok: v.text, Pos: v.pos}
		}
		return &bfactorNode{op: op.text, val: val}, nil
	case kwModel:
		a := p.cur()
		if a.kind != tokWord && a.kind != tokNumber {
			return nil, &ParseError{Msg: "model needs a name", Tok: a.text, Pos: a.pos}
		}
		p.next()
		return &modelNode{name: a.text}, nil
	case kwAll, kwNone, kwBackbone, kwSidechain, kwHetatm, kwPolymer,
		kwOrganic, kwInorganic, kwSolvent, kwHydrogens, kwMetals:
		return &flagNode{kw: k}, nil
	case kwUnknown:
		if p.store != nil {
			if sel, ok := p.store.Get(t.text); ok {
				return &namedNode{name: t.text, sel: sel}, nil
			}
		}
		return nil, &ParseError{Msg: "unknown keyword or undefined selection", Tok: t.text, Pos: t.pos}
	default: //of, not, and, or: operators cannot start a primary
		return nil, &ParseError{Msg: "misplaced keyword", Tok: t.text, Pos: t.pos}
	}
}

//parseIDList reads one +-joined identifier list, e.g. "A+B" or
//"NH1+NH2+NE", and uppercases the entries.
func (p *parser) parseIDList(kwtext string) ([]string, error) {
	a := p.cur()
	if a.kind != tokWord && a.kind != tokNumber {
		return nil, &ParseError{Msg: fmt.Sprintf("%s needs identifiers", strings.ToLower(kwtext)), Tok: a.text, Pos: a.pos}
	}
	p.next()
	var ids []string
	for _, id := range strings.Split(a.text, "+") {
		if id == "" {
			return nil, &ParseError{Msg: "empty identifier in list", Tok: a.text, Pos: a.pos}
		}
		ids = append(ids, strings.ToUpper(id))
	}
	return ids, nil
}

//parseRanges reads a +-joined list of numbers and start-end ranges,
//e.g. "10-20+25+40-45". Ranges are inclusive at both ends.
func parseRanges(t token) ([][2]int, error) {
	var ret [][2]int
	for _, part := range strings.Split(t.text, "+") {
		if part == "" {
			return nil, &ParseError{Msg: "empty range in list", Tok: t.text, Pos: t.pos}
		}
		if v, err := strconv.Atoi(part); err == nil {
			ret = append(ret, [2]int{v, v})
			continue
		}
		dash := strings.Index(part, "-")
		if dash <= 0 || dash == len(part)-1 {
			return nil, &ParseError{Msg: "malformed range", Tok: part, Pos: t.pos}
		}
		lo, err1 := strconv.Atoi(part[:dash])
		hi, err2 := strconv.Atoi(part[dash+1:])
		if err1 != nil || err2 != nil {
			return nil, &ParseError{Msg: "malformed range", Tok: part, Pos: t.pos}
		}
		if lo > hi {
			return nil, &ParseError{Msg: "inverted range", Tok: part, Pos: t.pos}
		}
		ret = append(ret, [2]int{lo, hi})
	}
	return ret, nil
}
