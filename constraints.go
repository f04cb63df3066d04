/*
 * constraints.go, part of mindless.
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

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

//ConfigError marks malformed or contradictory run settings. It is fatal:
//nothing is generated after one of these.
type ConfigError string

func (e ConfigError) Error() string {
	return "mindless: bad configuration: " + string(e)
}

//Unbounded marks a bound with no upper limit.
const Unbounded = -1

//Bound is a per-element occurrence range. Max==Unbounded means the
//element can appear any number of times.
type Bound struct {
	Min, Max int
}

//Composition maps atomic numbers to occurrence bounds. Elements absent
//from the map are only limited by the forbidden set.
type Composition map[int]Bound

//ForbiddenSet is the set of atomic numbers excluded from random fill.
type ForbiddenSet map[int]bool

//ParseComposition parses a per-element bound string such as
//"C:2-4, H:4-8, N:1-*". A single number means an exact count, and
//"*" as upper limit means unbounded. Unknown symbols and inverted
//bounds are ConfigErrors.
func ParseComposition(s string) (Composition, error) {
	comp := make(Composition)
	s = strings.TrimSpace(s)
	if s == "" {
		return comp, nil
	}
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		sym, rng, found := strings.Cut(entry, ":")
		if !found {
			return nil, ConfigError(fmt.Sprintf("composition entry %q lacks a ':'", entry))
		}
		z, err := AtomicNumber(strings.TrimSpace(sym))
		if err != nil {
			return nil, ConfigError(fmt.Sprintf("composition entry %q: unknown element", entry))
		}
		b, err := parseBound(strings.TrimSpace(rng))
		if err != nil {
			return nil, ConfigError(fmt.Sprintf("composition entry %q: %v", entry, err))
		}
		comp[z] = b
	}
	return comp, nil
}

func parseBound(s string) (Bound, error) {
	lo, hi, found := strings.Cut(s, "-")
	if !found {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return Bound{}, fmt.Errorf("bad count %q", s)
		}
		return Bound{n, n}, nil
	}
	min, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil || min < 0 {
		return Bound{}, fmt.Errorf("bad lower bound %q", lo)
	}
	hi = strings.TrimSpace(hi)
	if hi == "*" {
		return Bound{min, Unbounded}, nil
	}
	max, err := strconv.Atoi(hi)
	if err != nil || max < 0 {
		return Bound{}, fmt.Errorf("bad upper bound %q", hi)
	}
	if min > max {
		return Bound{}, fmt.Errorf("inverted bound %d-%d", min, max)
	}
	return Bound{min, max}, nil
}

//String formats the composition back into its parseable form, elements
//sorted by atomic number. Parsing the result yields an equal Composition.
func (c Composition) String() string {
	zs := make([]int, 0, len(c))
	for z := range c {
		zs = append(zs, z)
	}
	sort.Ints(zs)
	parts := make([]string, 0, len(zs))
	for _, z := range zs {
		b := c[z]
		switch {
		case b.Max == Unbounded:
			parts = append(parts, fmt.Sprintf("%s:%d-*", SymbolOf(z), b.Min))
		case b.Min == b.Max:
			parts = append(parts, fmt.Sprintf("%s:%d", SymbolOf(z), b.Min))
		default:
			parts = append(parts, fmt.Sprintf("%s:%d-%d", SymbolOf(z), b.Min, b.Max))
		}
	}
	return strings.Join(parts, ", ")
}

//MinTotal returns the sum of all mandatory minimum counts.
func (c Composition) MinTotal() int {
	n := 0
	for _, b := range c {
		n += b.Min
	}
	return n
}

//ParseForbidden parses an excluded-element string. Entries are element
//symbols, atomic numbers, or inclusive atomic-number ranges: "Na, 57-71,
//84-*". The "*" upper end extends the range to the heaviest supported
//element.
func ParseForbidden(s string) (ForbiddenSet, error) {
	set := make(ForbiddenSet)
	s = strings.TrimSpace(s)
	if s == "" {
		return set, nil
	}
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(entry, "-")
		if !isRange {
			z, err := atomFromToken(entry)
			if err != nil {
				return nil, err
			}
			set[z] = true
			continue
		}
		from, err := atomFromToken(strings.TrimSpace(lo))
		if err != nil {
			return nil, err
		}
		hi = strings.TrimSpace(hi)
		to := MaxElement
		if hi != "*" {
			to, err = atomFromToken(hi)
			if err != nil {
				return nil, err
			}
		}
		if from > to {
			return nil, ConfigError(fmt.Sprintf("inverted forbidden range %q", entry))
		}
		for z := from; z <= to; z++ {
			set[z] = true
		}
	}
	return set, nil
}

//atomFromToken accepts either an element symbol or a plain atomic number.
func atomFromToken(tok string) (int, error) {
	if n, err := strconv.Atoi(tok); err == nil {
		if n < 1 || n > MaxElement {
			return 0, ConfigError(fmt.Sprintf("atomic number %d out of range", n))
		}
		return n, nil
	}
	z, err := AtomicNumber(tok)
	if err != nil {
		return 0, ConfigError(fmt.Sprintf("unknown element %q in forbidden set", tok))
	}
	return z, nil
}

//Allowed reports whether element z may be placed by the random fill.
//A forbidden element is allowed anyway when the composition explicitly
//gives it a non-zero (or unbounded) upper limit.
func (f ForbiddenSet) Allowed(z int, comp Composition) bool {
	if !f[z] {
		return true
	}
	b, ok := comp[z]
	return ok && (b.Max == Unbounded || b.Max > 0)
}
