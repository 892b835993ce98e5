/*
 * lex.go, part of peptidelab.
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

import "strings"

type tokKind int

const (
	tokEOF tokKind = iota
	tokLParen
	tokRParen
	tokComparator //one of > < >= <= =
	tokNumber
	tokWord
)

type token struct {
	kind tokKind
	text string
	pos  int //byte offset in the source string
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

//delimiters end a word token without being part of it.
func isDelim(c byte) bool {
	return c == '(' || c == ')' || c == '>' || c == '<' || c == '='
}

//isNumber reports whether a token is a pure number: an optional sign,
//digits and at most one decimal point, nothing else. A digit sequence
//followed by letters, such as the ligand code "5CM", or a range like
//"10-20", is an identifier, not a number.
func isNumber(s string) bool {
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	digits, dots := 0, 0
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			digits++
		case s[i] == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

//lex splits a selection expression into tokens. It cannot fail: every
//non-delimiter run becomes a word or a number, and bad tokens are
//reported by the parser with position information.
func lex(src string) []token {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case isSpace(c):
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "(", i})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")", i})
			i++
		case c == '>' || c == '<':
			start := i
			i++
			if i < len(src) && src[i] == '=' {
				i++
			}
			toks = append(toks, token{tokComparator, src[start:i], start})
		case c == '=':
			toks = append(toks, token{tokComparator, "=", i})
			i++
		default:
			start := i
			for i < len(src) && !isSpace(src[i]) && !isDelim(src[i]) {
				i++
			}
			text := src[start:i]
			k := tokWord
			if isNumber(text) {
				k = tokNumber
			}
			toks = append(toks, token{k, text, start})
		}
	}
	toks = append(toks, token{tokEOF, "", len(src)})
	return toks
}
