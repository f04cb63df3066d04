/*
 * xtb.go, part of mindless.
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
//To use this backend you need the xtb program from Prof. Grimme's group.
//Please cite the xtb references if you use it.

package qm

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/goqm/mindless"
)

//XTBHandle drives the xtb semiempirical program. The zero value is not
//usable; get one from NewXTBHandle.
type XTBHandle struct {
	command string
	scratch string //parent of the per-call scratch directories
	gfn     int    //0, 1 or 2
	nCPU    int
	keep    bool //keep scratch directories, for debugging
}

//NewXTBHandle returns a handle with the defaults set: the "xtb" binary
//from PATH, GFN2, one thread, scratch under the system temp directory.
func NewXTBHandle() *XTBHandle {
	O := new(XTBHandle)
	O.SetDefaults()
	return O
}

func (O *XTBHandle) SetDefaults() {
	O.command = "xtb"
	O.scratch = os.TempDir()
	O.gfn = 2
	O.nCPU = 1
}

//SetCommand sets the xtb executable to run.
func (O *XTBHandle) SetCommand(name string) {
	O.command = name
}

//SetScratchDir sets the directory under which per-call scratch
//directories are created.
func (O *XTBHandle) SetScratchDir(dir string) {
	O.scratch = dir
}

//SetGFN selects the GFN-n Hamiltonian.
func (O *XTBHandle) SetGFN(n int) {
	O.gfn = n
}

//SetnCPU sets the number of threads xtb may use.
func (O *XTBHandle) SetnCPU(cpu int) {
	O.nCPU = cpu
}

//SetKeepFiles disables scratch-directory cleanup.
func (O *XTBHandle) SetKeepFiles(keep bool) {
	O.keep = keep
}

//Optimize runs a geometry optimization and blocks until xtb returns.
//A non-converged optimization is not an error: the Result just carries
//Converged=false.
func (O *XTBHandle) Optimize(mol *mindless.Molecule) (*Result, error) {
	return O.run(mol, true)
}

//SinglePoint computes energy and HOMO-LUMO gap at the given geometry.
func (O *XTBHandle) SinglePoint(mol *mindless.Molecule) (*Result, error) {
	return O.run(mol, false)
}

func (O *XTBHandle) run(mol *mindless.Molecule, optimize bool) (*Result, error) {
	//Each call gets its own directory: xtb always writes the same file
	//names, so parallel calls in a shared directory would trample each
	//other.
	dir := filepath.Join(O.scratch, "xtb-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &Error{"cannot create scratch directory", XTB, dir, err}
	}
	if !O.keep {
		defer os.RemoveAll(dir)
	}
	if err := mindless.XYZWrite(filepath.Join(dir, "mol.xyz"), mol); err != nil {
		return nil, &Error{"cannot write input geometry", XTB, dir, err}
	}
	args := []string{"mol.xyz",
		"--gfn", strconv.Itoa(O.gfn),
		"-c", strconv.Itoa(mol.Charge),
		"-u", "0", //even-electron candidates only
	}
	if optimize {
		args = append(args, "-o", "normal")
	}
	if O.nCPU > 1 {
		args = append(args, "-P", strconv.Itoa(O.nCPU))
	}
	out, err := os.Create(filepath.Join(dir, "mol.out"))
	if err != nil {
		return nil, &Error{"cannot create output file", XTB, dir, err}
	}
	command := exec.Command(O.command, args...)
	command.Dir = dir
	command.Stdout = out
	command.Stderr = out
	runErr := command.Run()
	out.Close()
	outname := filepath.Join(dir, "mol.out")
	if searchBackwards("normal termination of xtb", outname) == "" {
		return nil, &Error{"abnormal termination", XTB, dir, runErr}
	}
	res := new(Result)
	if res.Energy, err = parseXTBValue("TOTAL ENERGY", outname); err != nil {
		return nil, &Error{"no energy in output", XTB, dir, err}
	}
	if res.Gap, err = parseXTBValue("HOMO-LUMO GAP", outname); err != nil {
		return nil, &Error{"no HOMO-LUMO gap in output", XTB, dir, err}
	}
	if !optimize {
		res.Converged = true
		return res, nil
	}
	if searchBackwards("GEOMETRY OPTIMIZATION CONVERGED", outname) == "" {
		return res, nil //not converged, let the caller rescale and retry
	}
	opt, err := mindless.XYZRead(filepath.Join(dir, "xtbopt.xyz"))
	if err != nil {
		return nil, &Error{"cannot read optimized geometry", XTB, dir, err}
	}
	res.Coords = opt.Coords
	res.Converged = true
	return res, nil
}

//parseXTBValue pulls the numeric field out of an xtb summary line, e.g.
//"| TOTAL ENERGY               -5.070544440612 Eh   |".
func parseXTBValue(key, filename string) (float64, error) {
	line := searchBackwards(key, filename)
	if line == "" {
		return 0, fmt.Errorf("no %q line", key)
	}
	field, err := fieldAfter(line, 3)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(field, 64)
}
