package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/velachev/barrage/internal/content"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Describe the active encounter's content",
	Long:  `Shows the bullet types, attack patterns, and enemies of the active encounter.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	enc, err := content.Load(flagContent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading content: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Encounter: %s (%s)\n", enc.Name, enc.ID)
	fmt.Println()

	fmt.Println("Bullet types:")
	for i := 0; i < enc.Registry.Len(); i++ {
		typ, typErr := enc.Registry.Type(i)
		if typErr != nil {
			continue
		}
		fmt.Printf("  %-2d %-14s grace %.2fs\n", i, typ.Name, typ.DeathGrace)
	}
	fmt.Println()

	// Calculate column width
	maxNameLen := 4 // "Name" header
	for _, name := range enc.PatternOrder {
		if len(name) > maxNameLen {
			maxNameLen = len(name)
		}
	}

	fmt.Println("Patterns:")
	for _, name := range enc.PatternOrder {
		p := enc.Patterns[name]
		fmt.Printf("  %-*s  %2d shots over %.2fs\n", maxNameLen, name, p.ShotCount(), p.Duration())
	}
	fmt.Println()

	fmt.Println("Enemies:")
	for _, e := range enc.Enemies {
		fmt.Printf("  %s (%d spawn points)\n", e.Name, len(e.SpawnPoints))
		for i, ph := range e.Phases {
			fmt.Printf("    phase %d: %d damage or %.0fs, pool of %d\n", i+1, ph.Damage, ph.Time, len(ph.Patterns))
		}
	}
	fmt.Println()
	fmt.Println("Run 'barrage simulate' to fight it.")
}
