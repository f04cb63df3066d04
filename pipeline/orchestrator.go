/*
 * orchestrator.go, part of mindless.
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

import (
	"errors"
	"sort"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goqm/mindless"
	"github.com/goqm/mindless/generate"
	"github.com/goqm/mindless/qm"
)

//ErrNoAccepted is returned when every slot exhausted its budget and
//nothing was accepted. A partial batch is not an error.
var ErrNoAccepted = errors.New("pipeline: no molecule accepted")

//Job is one molecule slot with its result. Each Job is owned by
//exactly one worker for its whole lifetime.
type Job struct {
	TargetIndex int
	Mol         *mindless.Molecule
}

//Outcome is what a finished run hands to the reporting layer. Accepted
//comes in completion order, not target order; see SortByTarget.
type Outcome struct {
	Accepted []*Job
	Failed   []int //target indices that ended Exhausted or Rejected
}

//SortByTarget orders the accepted jobs and failed indices by target
//index, for callers that want a stable listing.
func (o *Outcome) SortByTarget() {
	sort.Slice(o.Accepted, func(i, j int) bool {
		return o.Accepted[i].TargetIndex < o.Accepted[j].TargetIndex
	})
	sort.Ints(o.Failed)
}

//Orchestrator runs the whole batch over a fixed-size worker pool.
type Orchestrator struct {
	cfg *mindless.RunConfig
	opt qm.Optimizer
	log *zap.SugaredLogger
}

//NewOrchestrator returns an Orchestrator over a validated
//configuration. The optimizer handle is shared by all workers; the
//handles in the qm package are safe for that since every call runs in
//its own scratch directory.
func NewOrchestrator(cfg *mindless.RunConfig, opt qm.Optimizer, log *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{cfg: cfg, opt: opt, log: log}
}

//Run dispatches target indices to Parallel workers and collects
//terminal candidates until all slots are done. No new slot is
//dispatched once the accepted count has met the target; jobs already
//in flight finish on their own and surplus acceptances are discarded,
//so the overshoot is bounded by Parallel-1. Workers never share
//candidate state: the dispatch channel and the results channel are the
//only points of contact.
//
//Each slot seeds its own random source with Seed+TargetIndex, so a
//batch is reproducible independently of which worker picks up which
//slot.
func (O *Orchestrator) Run() (*Outcome, error) {
	dispatch := make(chan int)
	results := make(chan *Job, O.cfg.Parallel)
	var accepted int64

	go func() {
		defer close(dispatch)
		for i := 0; i < O.cfg.NumMolecules; i++ {
			if atomic.LoadInt64(&accepted) >= int64(O.cfg.NumMolecules) {
				return //target met, nothing left to start
			}
			dispatch <- i
		}
	}()

	var g errgroup.Group
	for w := 0; w < O.cfg.Parallel; w++ {
		g.Go(func() error {
			eng := NewEngine(O.cfg, O.opt, O.log)
			for idx := range dispatch {
				gen := generate.New(O.cfg, O.cfg.Seed+int64(idx))
				mol := eng.Refine(gen)
				if mol.Status == mindless.StatusAccepted {
					atomic.AddInt64(&accepted, 1)
					O.log.Infow("molecule accepted", "target", idx,
						"formula", mol.Formula(), "cycles", mol.Cycle+1, "energy", mol.Energy)
				}
				results <- &Job{TargetIndex: idx, Mol: mol}
			}
			return nil
		})
	}
	go func() {
		g.Wait() //the workers return nil; errgroup is for the joint wait
		close(results)
	}()

	out := new(Outcome)
	for job := range results {
		if job.Mol.Status == mindless.StatusAccepted {
			if len(out.Accepted) < O.cfg.NumMolecules {
				out.Accepted = append(out.Accepted, job)
			}
			continue
		}
		O.log.Infow("slot failed", "target", job.TargetIndex, "status", job.Mol.Status.String())
		out.Failed = append(out.Failed, job.TargetIndex)
	}
	if len(out.Accepted) == 0 {
		return out, ErrNoAccepted
	}
	return out, nil
}
