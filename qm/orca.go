/*
 * orca.go, part of mindless.
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

package qm

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/goqm/mindless"
)

//OrcaHandle drives the ORCA program.
type OrcaHandle struct {
	command string
	scratch string
	method  string
	basis   string
	nCPU    int
	keep    bool
}

//NewOrcaHandle returns a handle with the defaults set: the "orca"
//binary from PATH, PBE/def2-SVP, one process.
func NewOrcaHandle() *OrcaHandle {
	O := new(OrcaHandle)
	O.SetDefaults()
	return O
}

func (O *OrcaHandle) SetDefaults() {
	O.command = "orca"
	O.scratch = os.TempDir()
	O.method = "PBE"
	O.basis = "def2-SVP"
	O.nCPU = 1
}

//SetCommand sets the orca executable. ORCA wants its full path when
//run with more than one process.
func (O *OrcaHandle) SetCommand(name string) {
	O.command = name
}

//SetScratchDir sets the directory under which per-call scratch
//directories are created.
func (O *OrcaHandle) SetScratchDir(dir string) {
	O.scratch = dir
}

//SetMethod sets the method keyword for the input's "!" line.
func (O *OrcaHandle) SetMethod(m string) {
	O.method = m
}

//SetBasis sets the basis set keyword.
func (O *OrcaHandle) SetBasis(b string) {
	O.basis = b
}

//SetnCPU sets the number of parallel processes.
func (O *OrcaHandle) SetnCPU(cpu int) {
	O.nCPU = cpu
}

//SetKeepFiles disables scratch-directory cleanup.
func (O *OrcaHandle) SetKeepFiles(keep bool) {
	O.keep = keep
}

//Optimize runs a geometry optimization and blocks until ORCA returns.
func (O *OrcaHandle) Optimize(mol *mindless.Molecule) (*Result, error) {
	return O.run(mol, true)
}

//SinglePoint computes energy and HOMO-LUMO gap at the given geometry.
func (O *OrcaHandle) SinglePoint(mol *mindless.Molecule) (*Result, error) {
	return O.run(mol, false)
}

func (O *OrcaHandle) run(mol *mindless.Molecule, optimize bool) (*Result, error) {
	dir := filepath.Join(O.scratch, "orca-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &Error{"cannot create scratch directory", Orca, dir, err}
	}
	if !O.keep {
		defer os.RemoveAll(dir)
	}
	if err := O.buildInput(filepath.Join(dir, "mol.inp"), mol, optimize); err != nil {
		return nil, &Error{"cannot write input", Orca, dir, err}
	}
	out, err := os.Create(filepath.Join(dir, "mol.out"))
	if err != nil {
		return nil, &Error{"cannot create output file", Orca, dir, err}
	}
	command := exec.Command(O.command, "mol.inp")
	command.Dir = dir
	command.Stdout = out
	command.Stderr = out
	runErr := command.Run()
	out.Close()
	outname := filepath.Join(dir, "mol.out")
	if searchBackwards("ORCA TERMINATED NORMALLY", outname) == "" {
		return nil, &Error{"abnormal termination", Orca, dir, runErr}
	}
	res := new(Result)
	eline := searchBackwards("FINAL SINGLE POINT ENERGY", outname)
	if eline == "" {
		return nil, &Error{"no energy in output", Orca, dir, nil}
	}
	field, err := fieldAfter(eline, 4)
	if err != nil {
		return nil, &Error{"malformed energy line", Orca, dir, err}
	}
	if res.Energy, err = strconv.ParseFloat(field, 64); err != nil {
		return nil, &Error{"malformed energy line", Orca, dir, err}
	}
	if res.Gap, err = orcaGap(outname); err != nil {
		return nil, &Error{"no HOMO-LUMO gap in output", Orca, dir, err}
	}
	if !optimize {
		res.Converged = true
		return res, nil
	}
	if searchBackwards("THE OPTIMIZATION HAS CONVERGED", outname) == "" {
		return res, nil
	}
	opt, err := mindless.XYZRead(filepath.Join(dir, "mol.xyz"))
	if err != nil {
		return nil, &Error{"cannot read optimized geometry", Orca, dir, err}
	}
	res.Coords = opt.Coords
	res.Converged = true
	return res, nil
}

func (O *OrcaHandle) buildInput(name string, mol *mindless.Molecule, optimize bool) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	keys := []string{"!", O.method, O.basis}
	if optimize {
		keys = append(keys, "Opt")
	}
	fmt.Fprintln(f, strings.Join(keys, " "))
	if O.nCPU > 1 {
		fmt.Fprintf(f, "%%pal nprocs %d end\n", O.nCPU)
	}
	fmt.Fprintf(f, "* xyz %d 1\n", mol.Charge) //multiplicity 1: candidates are even-electron
	for i := 0; i < mol.Len(); i++ {
		fmt.Fprintf(f, "%-2s  %12.6f %12.6f %12.6f\n",
			mol.Symbol(i), mol.Coords.At(i, 0), mol.Coords.At(i, 1), mol.Coords.At(i, 2))
	}
	_, err = fmt.Fprintln(f, "*")
	return err
}

//orcaGap computes the HOMO-LUMO gap, in eV, from the last ORBITAL
//ENERGIES block of an ORCA output. Block lines read
//"  NO   OCC          E(Eh)            E(eV)".
func orcaGap(filename string) (float64, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return 0, err
	}
	lines := strings.Split(string(buf), "\n")
	start := -1
	for i, l := range lines {
		if strings.Contains(l, "ORBITAL ENERGIES") {
			start = i
		}
	}
	if start < 0 {
		return 0, fmt.Errorf("no orbital energies block")
	}
	return gapFromOrbitals(lines[start:])
}

func gapFromOrbitals(lines []string) (float64, error) {
	homo, lumo := 0.0, 0.0
	haveHomo, haveLumo := false, false
	for _, l := range lines {
		fields := strings.Fields(l)
		if len(fields) != 4 {
			continue
		}
		if _, err := strconv.Atoi(fields[0]); err != nil {
			continue //header or separator
		}
		occ, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		ev, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			continue
		}
		if occ > 0 {
			homo, haveHomo = ev, true
		} else {
			lumo, haveLumo = ev, true
			break //first virtual orbital ends the search
		}
	}
	if !haveHomo || !haveLumo {
		return 0, fmt.Errorf("incomplete orbital energies block")
	}
	return lumo - homo, nil
}
