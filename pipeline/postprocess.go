/*
 * postprocess.go, part of mindless.
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

package pipeline

import "github.com/goqm/mindless"

//Screen decides whether a refined candidate survives post-processing:
//a single-point calculation, then acceptance iff the HOMO-LUMO gap is
//at least MinGap. The candidate's energy and gap are updated from the
//single point either way. An engine error is returned as such, for the
//caller to retry; it is never turned into a rejection.
func (E *Engine) Screen(mol *mindless.Molecule) (bool, error) {
	res, err := E.opt.SinglePoint(mol)
	if err != nil {
		return false, err
	}
	mol.Energy = res.Energy
	mol.Gap = res.Gap
	if res.Gap < E.cfg.MinGap {
		E.log.Infow("candidate rejected by gap screen",
			"formula", mol.Formula(), "gap", res.Gap, "min_gap", E.cfg.MinGap)
		return false, nil
	}
	return true, nil
}
