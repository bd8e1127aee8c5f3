package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/velachev/barrage/internal/config"
	"github.com/velachev/barrage/internal/content"
	"github.com/velachev/barrage/internal/platform/tui"
	"github.com/velachev/barrage/internal/storage"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a fight live in the terminal",
	Long: `Run one fight with a live view of the bullet field.

Controls:
  P/Esc      - Pause
  R          - Rerun with a new seed (after the fight ends)
  Q/Ctrl+C   - Quit

The finished fight is recorded the same way 'simulate' records one.

Examples:
  barrage watch
  barrage watch --content boss.yaml --seed 42`,
	Run: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) {
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

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Open fight storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open fight database: %v\n", err)
		// Continue without storage - the fight still runs
		store = nil
	}

	seed := flagSeed
	if seed == 0 {
		seed = cfg.Sim.Seed
	}

	runErr := tui.RunViewer(enc, cfg, store, seed, width, height)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", runErr)
		os.Exit(1)
	}
}
