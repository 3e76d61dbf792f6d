// Command web runs the Moodify service. The default command serves the HTTP
// API; `recommend` resolves a single mood from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "moodify",
		Short:         "Mood-based music recommendations backed by the Spotify catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	serve := newServeCmd()
	root.RunE = serve.RunE
	root.AddCommand(serve, newRecommendCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
