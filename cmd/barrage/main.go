// barrage is a bullet-hell combat simulator for the terminal.
//
// Usage:
//
//	barrage simulate         - Run headless fights and record the results
//	barrage watch            - Watch a fight live in the terminal
//	barrage validate <file>  - Validate an encounter document
//	barrage list             - Describe the active encounter's content
//	barrage history          - Show recorded fight results
//
// Global flags:
//
//	--content <path>  - Encounter document (default: built-in encounter)
//	--config <path>   - Simulation config YAML
//	--seed <value>    - RNG seed for reproducible fights
//	--db <path>       - Fight database path (default: ~/.barrage/fights.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagContent string
	flagConfig  string
	flagSeed    int64
	flagDBPath  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "barrage",
	Short: "Barrage - bullet-hell combat simulator",
	Long: `Barrage simulates bullet-hell boss fights: enemies walk through attack
phases, sample timed patterns from per-phase pools, and fill the field
with projectiles while a modeled player chips away at their health.

Available commands:
  simulate - Run headless fights and record the results
  watch    - Watch a fight live in the terminal
  validate - Validate an encounter document
  list     - Describe the active encounter's content
  history  - Show recorded fight results

Examples:
  barrage simulate
  barrage simulate --runs 50 --content boss.yaml
  barrage watch --seed 42
  barrage validate boss.yaml --watch
  barrage history --interactive`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagContent, "content", "", "Path to encounter YAML (empty = built-in encounter)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to simulation config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.barrage/fights.db", "Path to fight database")

	// Add subcommands
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(historyCmd)
}
