package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/velachev/barrage/internal/config"
	"github.com/velachev/barrage/internal/content"
	"github.com/velachev/barrage/internal/core"
	"github.com/velachev/barrage/internal/runner"
	"github.com/velachev/barrage/internal/storage"
)

var (
	flagRuns    int
	flagVerbose bool
	flagNoSave  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run headless fights and record the results",
	Long: `Run one or more fights without a display and record each result.

Fights are deterministic: the same content, config, and seed replay tick
for tick. With --runs N the seed advances by one per run, so a whole
batch is reproducible from its starting seed.

Examples:
  barrage simulate
  barrage simulate --runs 50
  barrage simulate --content boss.yaml --seed 42
  barrage simulate --verbose`,
	Run: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagRuns, "runs", 1, "Number of fights to simulate")
	simulateCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Log pattern sampling and field clears too")
	simulateCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Skip recording results")
}

func runSimulate(cmd *cobra.Command, args []string) {
	flagRuns = max(1, flagRuns)

	cfg, err := config.LoadSim(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	enc, err := content.Load(flagContent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading content: %v\n", err)
		os.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "barrage",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	var store *storage.Store
	if !flagNoSave {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("could not open fight database", "error", err)
			// Continue without storage - fights still run
			store = nil
		}
	}

	seed := flagSeed
	if seed == 0 {
		seed = cfg.Sim.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	r := runner.New(cfg, logger, store)

	var (
		clears int
		best   float64
		shots  int
	)
	for i := 0; i < flagRuns; i++ {
		stats, runErr := r.Run(context.Background(), enc, seed+int64(i))
		if runErr != nil {
			if store != nil {
				store.Close()
			}
			fmt.Fprintf(os.Stderr, "Error running fight: %v\n", runErr)
			os.Exit(1)
		}

		if stats.Outcome == core.OutcomeCleared {
			clears++
			if best == 0 || stats.Duration < best {
				best = stats.Duration
			}
		}
		shots += stats.ShotsFired
	}

	if store != nil {
		store.Close()
	}

	// Batch summary
	fmt.Println()
	fmt.Printf("Encounter: %s\n", enc.Name)
	fmt.Printf("Fights:    %d (seed %d", flagRuns, seed)
	if flagRuns > 1 {
		fmt.Printf("..%d", seed+int64(flagRuns-1))
	}
	fmt.Println(")")
	fmt.Printf("Clears:    %d/%d\n", clears, flagRuns)
	if clears > 0 {
		fmt.Printf("Best:      %.1fs\n", best)
	}
	fmt.Printf("Avg shots: %.0f\n", float64(shots)/float64(flagRuns))
}
