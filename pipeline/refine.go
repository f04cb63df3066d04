/*
 * refine.go, part of mindless.
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

//Package pipeline turns constraints into accepted molecules: it drives
//the generate-check-refine state machine for one candidate, screens the
//result if asked to, and runs a pool of workers until the target count
//of accepted molecules is reached.
package pipeline

import (
	"go.uber.org/zap"

	"github.com/goqm/mindless"
	"github.com/goqm/mindless/generate"
	"github.com/goqm/mindless/qm"
)

//generator is what the engine needs from the structure generator.
//*generate.Generator satisfies it; tests substitute their own.
type generator interface {
	Generate(scaling float64) (*mindless.Molecule, error)
	Recoordinate(mol *mindless.Molecule, scaling float64)
}

//Engine drives one candidate molecule to a terminal status. It holds
//no per-candidate state and can be reused across slots by one worker.
type Engine struct {
	cfg *mindless.RunConfig
	opt qm.Optimizer
	log *zap.SugaredLogger
}

//NewEngine returns an Engine over the given configuration, engine
//handle and logger.
func NewEngine(cfg *mindless.RunConfig, opt qm.Optimizer, log *zap.SugaredLogger) *Engine {
	return &Engine{cfg: cfg, opt: opt, log: log}
}

//Refine runs the full retry loop for one slot and always returns a
//molecule in a terminal status: Accepted, Rejected or Exhausted.
//
//Every pass through the loop consumes one cycle of the MaxCycles
//budget, whatever went wrong in it: an unsatisfiable atom-count draw,
//a distance-check failure, an engine error, or an optimization that
//never converged. Distance failures and non-convergence also grow the
//scaling factor by exactly IncreaseScaling, so later attempts start
//from a wider cloud.
func (E *Engine) Refine(G generator) *mindless.Molecule {
	scaling := 1.0
	var mol *mindless.Molecule
	for cycle := 0; cycle < E.cfg.MaxCycles; cycle++ {
		fresh, err := G.Generate(scaling)
		if err != nil {
			//Unsatisfiable for this atom-count draw; the next cycle
			//re-draws count and composition.
			E.log.Debugw("generation failed", "cycle", cycle, "err", err)
			continue
		}
		mol = fresh
		mol.Cycle = cycle
		if !generate.CheckDistances(mol, E.cfg) {
			mol.Status = mindless.StatusDistanceFailed
			scaling *= E.cfg.IncreaseScaling
			E.log.Debugw("distance check failed", "cycle", cycle, "scaling", scaling)
			continue
		}
		mol.Status = mindless.StatusRefining
		switch E.optimize(mol, G, &scaling) {
		case refineEngineError, refineNotConverged:
			continue //cycle consumed
		case refineConverged:
		}
		if E.cfg.PostProcess {
			mol.Status = mindless.StatusPostProcessing
			ok, err := E.Screen(mol)
			if err != nil {
				//Engine trouble during the screen is retryable, like
				//any other engine error.
				E.log.Warnw("postprocessing failed", "cycle", cycle, "err", err)
				mol.Status = mindless.StatusRefinementFailed
				continue
			}
			if !ok {
				mol.Status = mindless.StatusRejected
				return mol
			}
		}
		mol.Status = mindless.StatusAccepted
		return mol
	}
	if mol == nil {
		mol = new(mindless.Molecule)
	}
	mol.Cycle = E.cfg.MaxCycles
	mol.Status = mindless.StatusExhausted
	return mol
}

type refineOutcome int

const (
	refineConverged refineOutcome = iota
	refineNotConverged
	refineEngineError
)

//optimize runs the external-engine sub-loop: up to MaxFragCycles
//attempts, re-drawing the coordinates at a larger scaling after each
//non-converged attempt. On convergence the candidate's geometry and
//energies are replaced with the engine's output.
func (E *Engine) optimize(mol *mindless.Molecule, G generator, scaling *float64) refineOutcome {
	for frag := 0; frag < E.cfg.MaxFragCycles; frag++ {
		res, err := E.opt.Optimize(mol)
		if err != nil {
			E.log.Warnw("engine error", "cycle", mol.Cycle, "frag", frag, "err", err)
			mol.Status = mindless.StatusRefinementFailed
			return refineEngineError
		}
		if res.Converged {
			if err := mol.SetCoords(res.Coords); err != nil {
				//An engine returning the wrong number of atoms is an
				//engine failure, not a program bug here.
				E.log.Warnw("engine returned mismatched geometry", "cycle", mol.Cycle, "err", err)
				mol.Status = mindless.StatusRefinementFailed
				return refineEngineError
			}
			mol.Energy = res.Energy
			mol.Gap = res.Gap
			return refineConverged
		}
		*scaling *= E.cfg.IncreaseScaling
		G.Recoordinate(mol, *scaling)
	}
	mol.Status = mindless.StatusRefinementFailed
	return refineNotConverged
}
