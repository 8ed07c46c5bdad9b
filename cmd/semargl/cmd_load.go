package main

import (
	"fmt"

	"github.com/semarglproject/semargl-sub000/rdf"
	"github.com/semarglproject/semargl-sub000/store"
	"github.com/spf13/cobra"
)

func newLoadCmd() *cobra.Command {
	var (
		flags processingFlags
		reset bool
	)

	cmd := &cobra.Command{
		Use:   "load <store> <file|url|->...",
		Short: "Load documents into a store",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			s, err := store.Open(args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if reset {
				if err := s.Clear(); err != nil {
					return err
				}
			}
			p := rdf.NewProcessor(opts...)
			for _, source := range args[1:] {
				if err := process(cmd.Context(), p, source, &flags, s); err != nil {
					return fmt.Errorf("load %s: %w", source, err)
				}
			}

			n, err := s.Len()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d statements in %s\n", n, args[0])
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&reset, "clear", false, "remove existing statements first")

	return cmd
}
