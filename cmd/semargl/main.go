package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "semargl",
		Short: "Streaming RDFa, JSON-LD and RDF/XML processor",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbosity, nil)
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "log verbosity (repeat for more)")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newLoadCmd())
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newVocabCmd())

	return rootCmd
}
