/*
 * main.go, part of mindless.
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

//mindless generates batches of random molecules, refines them with an
//external quantum-chemistry engine and writes the accepted structures
//as XYZ files.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goqm/mindless"
	"github.com/goqm/mindless/pipeline"
	"github.com/goqm/mindless/qm"
	"github.com/goqm/mindless/report"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mindless:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	var verbosity int
	cmd := &cobra.Command{
		Use:           "mindless",
		Short:         "generate random molecules and refine them with an external QM engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfgFile, verbosity)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&cfgFile, "config", "c", "", "configuration file (TOML or YAML)")
	f.CountVarP(&verbosity, "verbose", "v", "increase log verbosity")

	f.Int("molecules", 1, "number of accepted molecules to produce")
	f.Int("parallel", 1, "worker pool size")
	f.Int("min-atoms", 2, "minimum atom count")
	f.Int("max-atoms", 15, "maximum atom count")
	f.Int("max-cycles", 10, "retry budget per molecule slot")
	f.Int("max-frag-cycles", 10, "optimizer sub-iteration budget")
	f.Float64("init-scaling", 3.0, "base coordinate spread")
	f.Float64("increase-scaling", 1.3, "spread growth per retry")
	f.String("composition", "", "per-element bounds, e.g. \"C:2-4, H:4-8, N:1-*\"")
	f.String("forbidden", "", "excluded elements, e.g. \"Na, 57-71, 84-*\"")
	f.String("dist-mode", mindless.DistFixed, "distance check: fixed or covalent")
	f.Float64("dist-threshold", 1.2, "minimum pair separation in fixed mode, A")
	f.Float64("dist-tolerance", 0.9, "scale on the covalent radius sum in covalent mode")
	f.Bool("postprocess", false, "screen accepted molecules by HOMO-LUMO gap")
	f.Float64("min-gap", 0.5, "gap acceptance threshold, eV")
	f.Int64("seed", 1, "random seed")
	f.String("engine", qm.XTB, "QM backend: xtb or orca")
	f.String("outdir", ".", "output directory")
	f.Bool("trajectory", false, "also write the batch as batch.xyz.zst")
	f.Bool("plots", false, "also write energy and gap histograms")

	//viper keys match the config-file names of the reference tool
	for flag, key := range map[string]string{
		"molecules":        "num_molecules",
		"parallel":         "parallel",
		"min-atoms":        "min_num_atoms",
		"max-atoms":        "max_num_atoms",
		"max-cycles":       "max_cycles",
		"max-frag-cycles":  "max_frag_cycles",
		"init-scaling":     "init_coord_scaling",
		"increase-scaling": "increase_scaling_factor",
		"composition":      "element_composition",
		"forbidden":        "forbidden_elements",
		"dist-mode":        "dist_mode",
		"dist-threshold":   "dist_threshold",
		"dist-tolerance":   "dist_tolerance",
		"postprocess":      "postprocess",
		"min-gap":          "min_gap",
		"seed":             "seed",
		"engine":           "engine",
		"outdir":           "outdir",
		"trajectory":       "trajectory",
		"plots":            "plots",
	} {
		viper.BindPFlag(key, f.Lookup(flag))
	}
	return cmd
}

func run(cfgFile string, verbosity int) error {
	logger := newLogger(verbosity)
	defer logger.Sync()
	log := logger.Sugar()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return err
		}
	} else {
		viper.SetConfigName("mindless")
		viper.AddConfigPath(".")
		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return err
			}
		}
	}

	cfg, err := configFromViper()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	opt, err := newOptimizer()
	if err != nil {
		return err
	}
	log.Infow("starting run", "molecules", cfg.NumMolecules, "parallel", cfg.Parallel,
		"engine", viper.GetString("engine"), "seed", cfg.Seed)

	out, runErr := pipeline.NewOrchestrator(cfg, opt, log).Run()
	out.SortByTarget()
	if err := writeOutputs(out, log); err != nil {
		return err
	}
	log.Infow("run finished", "accepted", len(out.Accepted), "failed", out.Failed)
	if runErr != nil {
		return runErr //all slots exhausted, nothing accepted
	}
	if len(out.Failed) > 0 {
		log.Warnw("partial batch", "missing", len(out.Failed))
	}
	return nil
}

func configFromViper() (*mindless.RunConfig, error) {
	cfg := mindless.DefaultConfig()
	cfg.NumMolecules = viper.GetInt("num_molecules")
	cfg.Parallel = viper.GetInt("parallel")
	cfg.MinAtoms = viper.GetInt("min_num_atoms")
	cfg.MaxAtoms = viper.GetInt("max_num_atoms")
	cfg.MaxCycles = viper.GetInt("max_cycles")
	cfg.MaxFragCycles = viper.GetInt("max_frag_cycles")
	cfg.InitScaling = viper.GetFloat64("init_coord_scaling")
	cfg.IncreaseScaling = viper.GetFloat64("increase_scaling_factor")
	cfg.DistMode = viper.GetString("dist_mode")
	cfg.DistThreshold = viper.GetFloat64("dist_threshold")
	cfg.DistTolerance = viper.GetFloat64("dist_tolerance")
	cfg.PostProcess = viper.GetBool("postprocess")
	cfg.MinGap = viper.GetFloat64("min_gap")
	cfg.Seed = viper.GetInt64("seed")
	var err error
	if cfg.Composition, err = mindless.ParseComposition(viper.GetString("element_composition")); err != nil {
		return nil, err
	}
	if cfg.Forbidden, err = mindless.ParseForbidden(viper.GetString("forbidden_elements")); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newOptimizer() (qm.Optimizer, error) {
	opt, err := qm.NewOptimizer(viper.GetString("engine"))
	if err != nil {
		return nil, err
	}
	scratch := viper.GetString("scratch_dir")
	switch h := opt.(type) {
	case *qm.XTBHandle:
		if cmd := viper.GetString("xtb_path"); cmd != "" {
			h.SetCommand(cmd)
		}
		if scratch != "" {
			h.SetScratchDir(scratch)
		}
		if gfn := viper.GetInt("gfn"); gfn != 0 {
			h.SetGFN(gfn)
		}
	case *qm.OrcaHandle:
		if cmd := viper.GetString("orca_path"); cmd != "" {
			h.SetCommand(cmd)
		}
		if scratch != "" {
			h.SetScratchDir(scratch)
		}
		if m := viper.GetString("orca_method"); m != "" {
			h.SetMethod(m)
		}
		if b := viper.GetString("orca_basis"); b != "" {
			h.SetBasis(b)
		}
	}
	return opt, nil
}

func writeOutputs(out *pipeline.Outcome, log *zap.SugaredLogger) error {
	if len(out.Accepted) == 0 {
		return nil
	}
	outdir := viper.GetString("outdir")
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return err
	}
	for _, job := range out.Accepted {
		name := filepath.Join(outdir, fmt.Sprintf("mol_%03d.xyz", job.TargetIndex))
		if err := mindless.XYZWrite(name, job.Mol); err != nil {
			return err
		}
		log.Debugw("wrote molecule", "file", name, "formula", job.Mol.Formula())
	}
	if viper.GetBool("trajectory") {
		traj, err := mindless.NewTrajWriter(filepath.Join(outdir, "batch.xyz.zst"))
		if err != nil {
			return err
		}
		for _, job := range out.Accepted {
			if err := traj.WNext(job.Mol); err != nil {
				traj.Close()
				return err
			}
		}
		if err := traj.Close(); err != nil {
			return err
		}
	}
	if viper.GetBool("plots") {
		energies := make([]float64, 0, len(out.Accepted))
		gaps := make([]float64, 0, len(out.Accepted))
		for _, job := range out.Accepted {
			energies = append(energies, job.Mol.Energy)
			gaps = append(gaps, job.Mol.Gap)
		}
		if err := report.EnergyHistogram(energies, filepath.Join(outdir, "energies.png")); err != nil {
			return err
		}
		if err := report.GapHistogram(gaps, filepath.Join(outdir, "gaps.png")); err != nil {
			return err
		}
	}
	return nil
}

func newLogger(verbosity int) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if verbosity > 0 {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
