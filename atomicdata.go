/*
 * atomicdata.go, part of mindless.
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

package mindless

import "fmt"

//MaxElement is the heaviest element the generator will ever place.
//Everything past Rn is excluded from random fill.
const MaxElement = 86

//symbols, indexed by atomic number. Index 0 is unused.
var symbols = [MaxElement + 1]string{"",
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba",
	"La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu",
	"Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn",
}

var numbers = func() map[string]int {
	m := make(map[string]int, MaxElement)
	for z := 1; z <= MaxElement; z++ {
		m[symbols[z]] = z
	}
	return m
}()

//Covalent radii in Angstrom, indexed by atomic number.
//Values from Cordero et al., 2008 (DOI:10.1039/B801115J). For Mn, Fe and Co
//the high-spin radius is used. C is the sp3 radius.
var covRadii = [MaxElement + 1]float64{0,
	0.31, 0.28,
	1.28, 0.96, 0.84, 0.76, 0.71, 0.66, 0.57, 0.58,
	1.66, 1.41, 1.21, 1.11, 1.07, 1.05, 1.02, 1.06,
	2.03, 1.76, 1.70, 1.60, 1.53, 1.39, 1.61, 1.52, 1.50, 1.24, 1.32, 1.22,
	1.22, 1.20, 1.19, 1.20, 1.20, 1.16,
	2.20, 1.95, 1.90, 1.75, 1.64, 1.54, 1.47, 1.46, 1.42, 1.39, 1.45, 1.44,
	1.42, 1.39, 1.39, 1.38, 1.39, 1.40,
	2.44, 2.15,
	2.07, 2.04, 2.03, 2.01, 1.99, 1.98, 1.98, 1.96, 1.94, 1.92, 1.92, 1.89, 1.90, 1.87, 1.87,
	1.75, 1.70, 1.62, 1.51, 1.44, 1.41, 1.36, 1.36, 1.32,
	1.45, 1.46, 1.48, 1.40, 1.50, 1.50,
}

//SymbolOf returns the symbol for the element with atomic number z.
//It panics on numbers outside [1,MaxElement], as asking for those
//means the program is already wrong.
func SymbolOf(z int) string {
	if z < 1 || z > MaxElement {
		panic(fmt.Sprintf("mindless: no element with atomic number %d", z))
	}
	return symbols[z]
}

//AtomicNumber returns the atomic number for an element symbol,
//or an error if the symbol is not recognized.
func AtomicNumber(symbol string) (int, error) {
	z, ok := numbers[symbol]
	if !ok {
		return 0, fmt.Errorf("mindless: unknown element symbol %q", symbol)
	}
	return z, nil
}

//CovalentRadius returns the covalent radius, in A, for the element
//with atomic number z. Panics on out of range input.
func CovalentRadius(z int) float64 {
	if z < 1 || z > MaxElement {
		panic(fmt.Sprintf("mindless: no element with atomic number %d", z))
	}
	return covRadii[z]
}

//Group 1 and 2 metals. Too many of these per molecule make the
//optimization hopeless, so the generator caps them.
var groupOneTwo = []int{3, 4, 11, 12, 19, 20, 37, 38, 55, 56}

//d- and f-block metals, capped for the same reason.
var dfBlock = func() []int {
	var m []int
	for z := 21; z <= 30; z++ { //3d
		m = append(m, z)
	}
	for z := 39; z <= 48; z++ { //4d
		m = append(m, z)
	}
	for z := 57; z <= 71; z++ { //lanthanides
		m = append(m, z)
	}
	for z := 72; z <= 80; z++ { //5d
		m = append(m, z)
	}
	return m
}()

//IsGroupOneTwo returns whether z is an alkali or alkaline-earth metal.
func IsGroupOneTwo(z int) bool {
	for _, i := range groupOneTwo {
		if i == z {
			return true
		}
	}
	return false
}

//IsDFBlock returns whether z is a d-block metal or a lanthanide.
func IsDFBlock(z int) bool {
	for _, i := range dfBlock {
		if i == z {
			return true
		}
	}
	return false
}
