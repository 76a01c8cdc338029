package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/copyleftdev/BOREAL/internal/bridge"
	"github.com/copyleftdev/BOREAL/internal/problem"
	"github.com/copyleftdev/BOREAL/internal/solver/native"
)

var runFlags struct {
	problem   string
	dimension int
	popSize   int
	seed      int64
	verbosity uint
	useNative bool
	selection string
	replace   string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one optimization over a benchmark problem",
	RunE: func(cmd *cobra.Command, args []string) error {
		prob, err := problem.ByName(runFlags.problem, runFlags.dimension)
		if err != nil {
			return err
		}

		rng := rand.New(rand.NewSource(runFlags.seed))
		pop, err := problem.NewPopulation(prob, runFlags.popSize, rng)
		if err != nil {
			return err
		}

		opts := []bridge.Option{
			bridge.WithLibraryPath(cfg.Solver.LibraryPath),
			bridge.WithParamFile(cfg.Solver.ParamFile),
			bridge.WithScreenOutput(cfg.Solver.ScreenOutput),
			bridge.WithLogger(logger),
			bridge.WithSeed(runFlags.seed),
		}
		if runFlags.useNative || cfg.Solver.Native {
			var out io.Writer
			if cfg.Solver.ScreenOutput {
				out = os.Stdout
			}
			opts = append(opts, bridge.WithCapability(native.Factory(out)))
		}

		opt := bridge.New(opts...)
		if err := opt.SetVerbosity(runFlags.verbosity); err != nil {
			return err
		}
		opt.SetSelection(bridge.ByPolicy(runFlags.selection))
		opt.SetReplacement(bridge.ByPolicy(runFlags.replace))

		pop, err = opt.Evolve(pop)
		if err != nil {
			return err
		}

		best := pop.Get(pop.BestIndex())
		fmt.Printf("solver status: %v\n", opt.LastStatus())
		fmt.Printf("best objective: %g\n", best.F[0])
		fmt.Printf("best point: %v\n", best.X)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runFlags.problem, "problem", "sphere", "benchmark problem (sphere, hs71)")
	runCmd.Flags().IntVar(&runFlags.dimension, "dim", 2, "problem dimension (sphere only)")
	runCmd.Flags().IntVar(&runFlags.popSize, "pop", 20, "population size")
	runCmd.Flags().Int64Var(&runFlags.seed, "seed", 42, "random seed")
	runCmd.Flags().UintVar(&runFlags.verbosity, "verbosity", 0, "record progress every N objective evaluations")
	runCmd.Flags().BoolVar(&runFlags.useNative, "native", false, "use the built-in stand-in solver instead of the shared library")
	runCmd.Flags().StringVar(&runFlags.selection, "selection", bridge.PolicyBest, "individual selection policy (best, worst, random)")
	runCmd.Flags().StringVar(&runFlags.replace, "replacement", bridge.PolicyWorst, "individual replacement policy (best, worst, random)")
	rootCmd.AddCommand(runCmd)
}
