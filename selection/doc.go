/*
 * doc.go, part of peptidelab.
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

/*
Package selection compiles PyMOL-style selection expressions into sets
of atom indexes over one molecule. An Evaluator wraps a molecule (and,
optionally, its bond graph and a store of user-named selections) and
turns strings like

	chain A and resi 10-20 and not water
	byres (around 4.5 of resn HEM)
	name CA within 6 of chain B

into Selection values. Boolean "and" may be left implicit: two
adjacent terms intersect, as in "chain A name CA".

Evaluation is strict. Unknown keywords, malformed ranges and trailing
tokens are parse errors; a failed parse yields no selection.
*/
package selection
