package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/velachev/barrage/internal/content"
)

var flagWatchValidate bool

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate an encounter document",
	Long: `Load an encounter document, resolving every bullet type, pattern, and
enemy, and report the first problem found.

With --watch the document is re-validated whenever it or a referenced
script file changes, which makes a tight loop for content authoring.

Examples:
  barrage validate boss.yaml
  barrage validate boss.yaml --watch`,
	Args: cobra.ExactArgs(1),
	Run:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&flagWatchValidate, "watch", false, "Re-validate when the document changes")
}

func runValidate(cmd *cobra.Command, args []string) {
	path := args[0]

	ok := validateFile(path)

	if !flagWatchValidate {
		if !ok {
			os.Exit(1)
		}
		return
	}

	w, err := content.WatchEncounter(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error watching %s: %v\n", path, err)
		os.Exit(1)
	}
	defer w.Close()

	fmt.Println("Watching for changes, Ctrl+C to stop.")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	for {
		select {
		case changed, chOk := <-w.Events:
			if !chOk {
				return
			}
			fmt.Printf("\n%s changed\n", changed)
			validateFile(path)

		case werr, chOk := <-w.Errors:
			if !chOk {
				return
			}
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", werr)

		case <-sig:
			fmt.Println()
			return
		}
	}
}

// validateFile loads one document and prints the verdict.
func validateFile(path string) bool {
	enc, err := content.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "INVALID: %v\n", err)
		return false
	}

	fmt.Printf("OK: %s (%d bullet types, %d patterns, %d enemies)\n",
		enc.ID, enc.Registry.Len(), len(enc.Patterns), len(enc.Enemies))
	return true
}
