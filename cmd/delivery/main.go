// delivery is the command-line front end of the speech delivery analyzer.
//
// Usage:
//
//	delivery analyze --signals request.json [--transcript pitch.txt] [--audio pitch.wav] [--personas personas.yaml] [--format json|table|markdown]
//	delivery personas [--personas personas.yaml] [--format json|table|markdown]
//
// Provider settings come from the same environment variables as the server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "delivery",
		Short: "Assess the delivery of a recorded pitch",
		Long: "delivery turns acoustic measurements and a transcript into pace, pitch, volume,\n" +
			"pause and filler metrics, a confidence verdict and a four-persona critique.",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newPersonasCmd())
	root.Version = version
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
