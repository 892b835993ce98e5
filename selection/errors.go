/*
 * errors.go, part of peptidelab.
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
)

//Error is an evaluation-time failure: a missing model, a neighbor
//query without a bond graph, a selection spanning the wrong model.
//Syntax problems are reported as *ParseError instead.
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

//ParseError reports a syntax problem in a selection expression, with
//the offending token and its byte offset in the source string.
type ParseError struct {
	Msg string
	Tok string
	Pos int
}

func (err *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "selection: %s", err.Msg)
	if err.Tok != "" {
		fmt.Fprintf(&b, " at %q", err.Tok)
	}
	fmt.Fprintf(&b, " (position %d)", err.Pos)
	return b.String()
}
