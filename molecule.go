/*
 * molecule.go, part of mindless.
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

//Package mindless holds the data model for randomly generated molecules:
//elements, composition constraints, candidate molecules and their lifecycle,
//plus XYZ reading and writing.
package mindless

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//Status is the position of a candidate molecule in the
//generate-check-refine lifecycle.
type Status int

const (
	StatusGenerating Status = iota
	StatusDistanceFailed
	StatusRefining
	StatusRefinementFailed
	StatusPostProcessing
	StatusAccepted
	StatusRejected
	StatusExhausted
)

var statusNames = map[Status]string{
	StatusGenerating:       "generating",
	StatusDistanceFailed:   "distance-failed",
	StatusRefining:         "refining",
	StatusRefinementFailed: "refinement-failed",
	StatusPostProcessing:   "postprocessing",
	StatusAccepted:         "accepted",
	StatusRejected:         "rejected",
	StatusExhausted:        "exhausted",
}

func (s Status) String() string {
	n, ok := statusNames[s]
	if !ok {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return n
}

//Terminal reports whether no further stage will touch a candidate
//with this status.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusExhausted
}

//Molecule is one candidate structure. Coordinates are kept in a Nx3
//gonum matrix, ordered as Numbers.
type Molecule struct {
	Numbers []int      //atomic numbers, one per atom
	Coords  *mat.Dense //Nx3, Angstrom
	Charge  int
	Energy  float64 //last energy reported by the engine, Hartree
	Gap     float64 //last HOMO-LUMO gap reported by the engine, eV
	Status  Status
	Scaling float64 //coordinate-spread multiplier the geometry was built with
	Cycle   int     //generation attempts consumed so far
}

//Len returns the number of atoms.
func (M *Molecule) Len() int {
	return len(M.Numbers)
}

//Symbol returns the element symbol of atom i. Panics if out of range.
func (M *Molecule) Symbol(i int) string {
	if i < 0 || i >= M.Len() {
		panic("mindless: requested atom out of bounds")
	}
	return SymbolOf(M.Numbers[i])
}

//Counts returns the per-element atom counts, keyed by atomic number.
func (M *Molecule) Counts() map[int]int {
	c := make(map[int]int)
	for _, z := range M.Numbers {
		c[z]++
	}
	return c
}

//Electrons returns the total electron count, charge included.
func (M *Molecule) Electrons() int {
	n := 0
	for _, z := range M.Numbers {
		n += z
	}
	return n - M.Charge
}

//Formula returns the molecular formula in Hill order: C first, then H,
//then everything else alphabetically.
func (M *Molecule) Formula() string {
	counts := M.Counts()
	type ec struct {
		sym string
		n   int
	}
	var rest []ec
	for z, n := range counts {
		if z == 1 || z == 6 {
			continue
		}
		rest = append(rest, ec{SymbolOf(z), n})
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].sym < rest[j].sym })
	var b strings.Builder
	app := func(sym string, n int) {
		if n <= 0 {
			return
		}
		b.WriteString(sym)
		if n > 1 {
			fmt.Fprintf(&b, "%d", n)
		}
	}
	app("C", counts[6])
	app("H", counts[1])
	for _, e := range rest {
		app(e.sym, e.n)
	}
	return b.String()
}

//Copy returns a deep copy of the molecule.
func (M *Molecule) Copy() *Molecule {
	if M == nil {
		panic("mindless: attempted to copy a nil molecule")
	}
	N := new(Molecule)
	*N = *M
	N.Numbers = make([]int, len(M.Numbers))
	copy(N.Numbers, M.Numbers)
	if M.Coords != nil {
		N.Coords = mat.DenseCopyOf(M.Coords)
	}
	return N
}

//SetCoords replaces the coordinate block. The number of rows must
//match the atom count.
func (M *Molecule) SetCoords(c *mat.Dense) error {
	r, cols := c.Dims()
	if r != M.Len() || cols != 3 {
		return fmt.Errorf("mindless: coordinate block is %dx%d, want %dx3", r, cols, M.Len())
	}
	M.Coords = c
	return nil
}
