/*
 * report.go, part of mindless.
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
 */

//Package report produces small summaries of a finished batch.
package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//EnergyHistogram plots the distribution of final energies of an
//accepted batch and saves it under name; the format follows the
//extension (png, pdf, svg...).
func EnergyHistogram(energies []float64, name string) error {
	if len(energies) == 0 {
		return fmt.Errorf("report: nothing to plot")
	}
	p := plot.New()
	p.Title.Text = "Accepted molecules"
	p.X.Label.Text = "energy (Eh)"
	p.Y.Label.Text = "count"
	bins := 16
	if len(energies) < bins {
		bins = len(energies)
	}
	h, err := plotter.NewHist(plotter.Values(energies), bins)
	if err != nil {
		return err
	}
	p.Add(h)
	return p.Save(14*vg.Centimeter, 9*vg.Centimeter, name)
}

//GapHistogram is the same thing for HOMO-LUMO gaps, in eV.
func GapHistogram(gaps []float64, name string) error {
	if len(gaps) == 0 {
		return fmt.Errorf("report: nothing to plot")
	}
	p := plot.New()
	p.Title.Text = "Accepted molecules"
	p.X.Label.Text = "HOMO-LUMO gap (eV)"
	p.Y.Label.Text = "count"
	bins := 16
	if len(gaps) < bins {
		bins = len(gaps)
	}
	h, err := plotter.NewHist(plotter.Values(gaps), bins)
	if err != nil {
		return err
	}
	p.Add(h)
	return p.Save(14*vg.Centimeter, 9*vg.Centimeter, name)
}
