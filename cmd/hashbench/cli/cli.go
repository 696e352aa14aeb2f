// Package cli wires the hashbench command tree: one subcommand per
// driver phase (grow, probe, churn) plus an all command that drives the
// full sweep described by a suite config file.
package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rphmeier/hashset-bench/bench"
	"github.com/rphmeier/hashset-bench/config"
)

var engineNames = []string{"robinhood", "cuckoo", "cuckoo3", "blockedcuckoo", "triaprob"}

type flags struct {
	engine    string
	capacity  uint64
	metaBits  uint
	outDir    string
	suitePath string
}

// Execute builds the root command and runs it against os.Args.
func Execute(log *zap.SugaredLogger) error {
	root := newRootCmd(log)
	return root.Execute()
}

func newRootCmd(log *zap.SugaredLogger) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "hashbench",
		Short: "Hash-set engine benchmarking workbench",
	}
	root.PersistentFlags().StringVar(&f.engine, "engine", "robinhood",
		"engine to benchmark: one of "+joinNames(engineNames))
	root.PersistentFlags().Uint64Var(&f.capacity, "capacity", bench.DefaultCapacity,
		"fixed bucket capacity (blockedcuckoo requires a multiple of its 107-slot block size)")
	root.PersistentFlags().UintVar(&f.metaBits, "meta-bits", 4, "MetaMap bits per bucket (0, 1, 2, 4, or 8)")
	root.PersistentFlags().StringVar(&f.outDir, "out", "out", "output directory for CSV files")

	root.AddCommand(newGrowCmd(log, f))
	root.AddCommand(newProbeCmd(log, f))
	root.AddCommand(newChurnCmd(log, f))
	root.AddCommand(newAllCmd(log, f))

	return root
}

func joinNames(names []string) string {
	s := ""
	for i, n := range names {
		if i > 0 {
			s += ", "
		}
		s += n
	}
	return s
}

func resolveEngine(f *flags) (bench.EngineKind, error) {
	e := config.Engine{Name: f.engine}
	return e.EngineKind()
}

func newGrowCmd(log *zap.SugaredLogger, f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "grow",
		Short: "Sweep load factor from empty to near-full, recording insert telemetry",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := resolveEngine(f)
			if err != nil {
				return err
			}
			w, err := bench.NewWriters(f.outDir, kind.String())
			if err != nil {
				return errors.Wrap(err, "opening output writers")
			}
			defer w.Close()

			spec := bench.Spec{Engine: kind, Capacity: f.capacity, MetaBits: f.metaBits}
			return bench.RunGrowSweep(log, w, spec)
		},
	}
}

func newProbeCmd(log *zap.SugaredLogger, f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Measure lookup telemetry across a range of load factors",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := resolveEngine(f)
			if err != nil {
				return err
			}
			w, err := bench.NewWriters(f.outDir, kind.String())
			if err != nil {
				return errors.Wrap(err, "opening output writers")
			}
			defer w.Close()

			spec := bench.Spec{Engine: kind, Capacity: f.capacity, MetaBits: f.metaBits}
			return bench.RunProbeSweep(log, w, spec)
		},
	}
}

func newChurnCmd(log *zap.SugaredLogger, f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "churn",
		Short: "Measure remove+insert churn telemetry across a range of load factors",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := resolveEngine(f)
			if err != nil {
				return err
			}
			w, err := bench.NewWriters(f.outDir, kind.String())
			if err != nil {
				return errors.Wrap(err, "opening output writers")
			}
			defer w.Close()

			spec := bench.Spec{Engine: kind, Capacity: f.capacity, MetaBits: f.metaBits}
			return bench.RunChurnSweep(log, w, spec)
		},
	}
}

func newAllCmd(log *zap.SugaredLogger, f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Run the full grow+probe+churn+overwrite sweep for every engine in a suite config",
		RunE: func(cmd *cobra.Command, args []string) error {
			suite := config.Default()
			if f.suitePath != "" {
				loaded, err := config.Load(f.suitePath)
				if err != nil {
					return err
				}
				suite = loaded
			}

			for _, e := range suite.Engines {
				kind, err := e.EngineKind()
				if err != nil {
					return err
				}
				capacity := e.CapacityOr(suite.DefaultCapacity)

				var widths []uint
				if len(e.MetaBits) > 0 {
					widths = e.MetaBits
				}

				log.Infow("running suite entry", "engine", kind, "capacity", capacity)
				if err := bench.RunAll(log, suite.OutDir, kind, capacity, widths); err != nil {
					return errors.Wrapf(err, "running suite entry %q", e.Name)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&f.suitePath, "config", "", "path to a suite TOML file (defaults to the built-in five-engine sweep)")
	return cmd
}
