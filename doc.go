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

/*Package mol is the core of the PeptideLab structural engine. It provides
the atom/residue/chain model queried by the rest of the library, covalent
bond inference from templates and geometry, and a pairwise distance
search over a uniform spatial hash.

The model is produced upstream by a structure-file parser and is
immutable after construction except for atom positions, which the
alignment engine rewrites in place. Bonds are computed once per model
and only change through explicit add/remove operations.

Subpackages:

	v3         cartesian coordinate matrices (gonum-backed)
	selection  the PyMOL-style selection language
	interaction  non-covalent contact detection
	align      rigid-body (Kabsch) superposition
	chemplot   2D plots of analysis results
	session    compressed session persistence

All operations are synchronous and reentrant across independent models.
Calls that mutate a model (applying an alignment transform, editing
bonds) must not race with queries on the same model; the embedding
application serializes them.
*/
package mol
