/*
 * xyz.go, part of mindless.
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
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
)

//XYZWrite writes mol as an XYZ file with the given name. An existing
//file is overwritten. The comment line carries the formula, charge and
//last energy.
func XYZWrite(name string, mol *Molecule) error {
	out, err := os.Create(name)
	if err != nil {
		return err
	}
	defer out.Close()
	return writeXYZFrame(out, mol)
}

func writeXYZFrame(w io.Writer, mol *Molecule) error {
	if mol.Coords == nil {
		return fmt.Errorf("mindless: molecule has no coordinates")
	}
	fmt.Fprintf(w, "%d\n", mol.Len())
	fmt.Fprintf(w, "%s charge=%d energy=%.8f\n", mol.Formula(), mol.Charge, mol.Energy)
	for i := 0; i < mol.Len(); i++ {
		_, err := fmt.Fprintf(w, "%-2s  %12.6f %12.6f %12.6f\n",
			mol.Symbol(i), mol.Coords.At(i, 0), mol.Coords.At(i, 1), mol.Coords.At(i, 2))
		if err != nil {
			return err
		}
	}
	return nil
}

//XYZRead reads the first frame of an XYZ file into a Molecule. Only
//symbols and coordinates are recovered; charge and energy stay zero.
func XYZRead(name string) (*Molecule, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readXYZFrame(bufio.NewReader(f))
}

func readXYZFrame(r *bufio.Reader) (*Molecule, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || natoms < 1 {
		return nil, fmt.Errorf("mindless: bad XYZ atom count line %q", strings.TrimSpace(line))
	}
	if _, err = r.ReadString('\n'); err != nil { //comment line
		return nil, err
	}
	mol := &Molecule{
		Numbers: make([]int, natoms),
		Coords:  mat.NewDense(natoms, 3, nil),
	}
	for i := 0; i < natoms; i++ {
		line, err = r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, fmt.Errorf("mindless: truncated XYZ line %d: %q", i+3, strings.TrimSpace(line))
		}
		z, err2 := AtomicNumber(fields[0])
		if err2 != nil {
			return nil, err2
		}
		mol.Numbers[i] = z
		for j := 0; j < 3; j++ {
			v, err2 := strconv.ParseFloat(fields[j+1], 64)
			if err2 != nil {
				return nil, fmt.Errorf("mindless: bad coordinate on XYZ line %d: %q", i+3, fields[j+1])
			}
			mol.Coords.Set(i, j, v)
		}
	}
	return mol, nil
}

//TrajWriter writes a multi-frame XYZ trajectory, compressed or not
//depending on the file name: ".zst" selects zstd, ".gz" gzip, anything
//else plain text.
type TrajWriter struct {
	f         *os.File
	h         io.WriteCloser
	filename  string
	writeable bool
	frames    int
}

//NewTrajWriter creates the trajectory file, truncating any previous one.
func NewTrajWriter(name string) (*TrajWriter, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	T := &TrajWriter{f: f, filename: name, writeable: true}
	switch {
	case strings.HasSuffix(name, ".zst"):
		T.h, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	case strings.HasSuffix(name, ".gz"):
		T.h, err = gzip.NewWriterLevel(f, gzip.BestCompression)
	default:
		T.h = nopWriteCloser{f}
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	return T, nil
}

//WNext appends one molecule as the next frame.
func (T *TrajWriter) WNext(mol *Molecule) error {
	if !T.writeable {
		return fmt.Errorf("mindless: write to closed trajectory %s", T.filename)
	}
	if err := writeXYZFrame(T.h, mol); err != nil {
		return err
	}
	T.frames++
	return nil
}

//Len returns the number of frames written so far.
func (T *TrajWriter) Len() int {
	return T.frames
}

//Close flushes the compressor and closes the file. Calling it twice
//is harmless.
func (T *TrajWriter) Close() error {
	if T == nil || !T.writeable {
		return nil
	}
	T.writeable = false
	if err := T.h.Close(); err != nil {
		T.f.Close()
		return err
	}
	return T.f.Close()
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
