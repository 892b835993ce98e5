/*
 * plot.go, part of peptidelab.
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

//Package chemplot renders quick-look figures from analysis results: a
//histogram of contact distances and a per-atom B-factor profile. The
//output format follows the file extension (png, svg, pdf...).
package chemplot

import (
	"fmt"

	mol "github.com/mark-alence/PeptideLab-sub000"
	"github.com/mark-alence/PeptideLab-sub000/interaction"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//ContactHistogram plots the distance distribution of a set of
//detected contacts and saves it to path.
func ContactHistogram(contacts []interaction.Contact, nbins int, path string) error {
	if len(contacts) == 0 {
		return fmt.Errorf("chemplot: no contacts to plot")
	}
	if nbins <= 0 {
		nbins = 10
	}
	vals := make(plotter.Values, len(contacts))
	for i, c := range contacts {
		vals[i] = c.Dist
	}
	p := plot.New()
	p.Title.Text = "Contact distances"
	p.X.Label.Text = "distance (Å)"
	p.Y.Label.Text = "count"
	h, err := plotter.NewHist(vals, nbins)
	if err != nil {
		return fmt.Errorf("chemplot: %w", err)
	}
	p.Add(h)
	if err := p.Save(4*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("chemplot: %w", err)
	}
	return nil
}

//BFactorProfile plots the B-factor of each atom in sel, in index
//order, and saves it to path. An empty sel plots the whole molecule.
func BFactorProfile(M *mol.Molecule, sel []int, path string) error {
	if M == nil {
		return fmt.Errorf("chemplot: no molecule loaded")
	}
	if len(sel) == 0 {
		sel = make([]int, M.Len())
		for i := range sel {
			sel[i] = i
		}
	}
	pts := make(plotter.XYs, len(sel))
	for k, i := range sel {
		if i < 0 || i >= M.Len() {
			return fmt.Errorf("chemplot: atom index %d out of range [0, %d)", i, M.Len())
		}
		pts[k].X = float64(i)
		pts[k].Y = M.Atom(i).Bfactor
	}
	p := plot.New()
	p.Title.Text = "B-factor profile"
	p.X.Label.Text = "atom index"
	p.Y.Label.Text = "B-factor (Å²)"
	p.Add(plotter.NewGrid())
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("chemplot: %w", err)
	}
	p.Add(line)
	if err := p.Save(6*vg.Inch, 3*vg.Inch, path); err != nil {
		return fmt.Errorf("chemplot: %w", err)
	}
	return nil
}
