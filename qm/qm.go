/*
 * qm.go, part of mindless.
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

//Package qm runs external quantum-chemistry engines on candidate
//molecules. The rest of the program only sees the Optimizer interface;
//which engine actually runs is a configuration detail. Every call gets
//its own scratch directory, so any number of workers can run engines
//concurrently from the same working directory.
package qm

import (
	"fmt"
	"os"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/goqm/mindless"
)

//Engine names accepted by NewOptimizer.
const (
	XTB  = "xtb"
	Orca = "orca"
)

//Result is what an engine reports back for one calculation.
type Result struct {
	Coords    *mat.Dense //optimized geometry, nil for single points or failed optimizations
	Energy    float64    //Hartree
	Gap       float64    //HOMO-LUMO gap, eV
	Converged bool       //geometry optimization reached a stable structure
}

//Optimizer is the capability contract every engine satisfies.
type Optimizer interface {
	//Optimize runs a geometry optimization and blocks until the
	//engine returns.
	Optimize(mol *mindless.Molecule) (*Result, error)
	//SinglePoint computes energy and gap for the geometry as given.
	SinglePoint(mol *mindless.Molecule) (*Result, error)
}

//NewOptimizer returns a handle for the named engine with its defaults
//set. The name match is case-insensitive.
func NewOptimizer(name string) (Optimizer, error) {
	switch strings.ToLower(name) {
	case XTB:
		return NewXTBHandle(), nil
	case Orca:
		return NewOrcaHandle(), nil
	}
	return nil, fmt.Errorf("qm: unknown engine %q", name)
}

//Error is an external-engine failure: missing executable, crash, or
//output the parser could not make sense of. It is retryable from the
//pipeline's point of view.
type Error struct {
	Message string //what went wrong
	Program string //which engine
	Job     string //scratch directory of the failed call
	Err     error  //underlying cause, may be nil
}

func (e *Error) Error() string {
	s := fmt.Sprintf("qm/%s: %s", e.Program, e.Message)
	if e.Job != "" {
		s += " (" + e.Job + ")"
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}

//searchBackwards scans a file from the end and returns the last line
//containing str, or an empty string. Engine outputs put the interesting
//lines near the end, after a lot of text.
func searchBackwards(str, filename string) string {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return ""
	}
	lines := strings.Split(string(buf), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.Contains(lines[i], str) {
			return lines[i]
		}
	}
	return ""
}

//fieldAfter returns the n-th whitespace-separated field of line, or an
//error when the line is too short. Small helper for output parsing.
func fieldAfter(line string, n int) (string, error) {
	fields := strings.Fields(line)
	if len(fields) <= n {
		return "", fmt.Errorf("qm: expected at least %d fields in %q", n+1, line)
	}
	return fields[n], nil
}
