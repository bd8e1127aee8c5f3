package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/velachev/barrage/internal/platform/tui"
	"github.com/velachev/barrage/internal/storage"
)

var (
	flagLimit       int
	flagFastest     bool
	flagInteractive bool
)

var historyCmd = &cobra.Command{
	Use:   "history [encounter]",
	Short: "Show recorded fight results",
	Long: `Display recorded fights, newest first. Without an encounter argument
fights from every encounter are shown.

Examples:
  barrage history
  barrage history proving-grounds
  barrage history proving-grounds --fastest
  barrage history --interactive`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "Maximum rows to show")
	historyCmd.Flags().BoolVar(&flagFastest, "fastest", false, "Order cleared fights by duration, quickest first")
	historyCmd.Flags().BoolVar(&flagInteractive, "interactive", false, "Browse history in a TUI")
}

func runHistory(cmd *cobra.Command, args []string) {
	encounterID := ""
	if len(args) > 0 {
		encounterID = args[0]
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening fight database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagInteractive {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if _, tuiErr := tui.RunHistory(store, width, height); tuiErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", tuiErr)
			os.Exit(1)
		}
		return
	}

	var records []storage.FightRecord
	if flagFastest {
		if encounterID == "" {
			fmt.Fprintln(os.Stderr, "Error: --fastest needs an encounter argument")
			os.Exit(1)
		}
		records, err = store.FastestClears(encounterID, flagLimit)
	} else {
		records, err = store.RecentFights(encounterID, flagLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving fights: %v\n", err)
		os.Exit(1)
	}

	if len(records) == 0 {
		fmt.Println("No fights recorded yet.")
		fmt.Println()
		fmt.Println("Run 'barrage simulate' to record the first one.")
		return
	}

	// Print header
	fmt.Printf("  %-16s  %-16s  %-8s  %8s  %6s  %6s  %s\n", "Date", "Encounter", "Outcome", "Time", "Shots", "Phases", "Seed")
	fmt.Printf("  %-16s  %-16s  %-8s  %8s  %6s  %6s  %s\n", "----", "---------", "-------", "----", "-----", "------", "----")

	// Print fights
	for _, r := range records {
		fmt.Printf("  %-16s  %-16s  %-8s  %7.1fs  %6d  %6d  %d\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.EncounterID, r.Outcome,
			r.Duration, r.ShotsFired, r.Phases, r.Seed)
	}

	// Aggregate footer for a single encounter
	if encounterID != "" {
		stats, statsErr := store.GetEncounterStats(encounterID)
		if statsErr == nil && stats.Fights > 0 {
			fmt.Println()
			fmt.Printf("Clears: %d/%d", stats.Clears, stats.Fights)
			if stats.Clears > 0 {
				fmt.Printf("   Best: %.1fs", stats.BestClear)
			}
			fmt.Println()
		}
	}
}
