package main

import (
	"fmt"
	"io"

	"github.com/semarglproject/semargl-sub000/rdf"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var (
		flags     processingFlags
		output    string
		prefixes  []string
		canonical bool
	)

	cmd := &cobra.Command{
		Use:   "parse <file|url|->",
		Short: "Parse a document and print its statements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			p := rdf.NewProcessor(opts...)
			out := cmd.OutOrStdout()

			if canonical {
				c := rdf.NewCollector()
				if err := process(cmd.Context(), p, args[0], &flags, c); err != nil {
					return err
				}
				text, err := rdf.Canonicalize(c.Quads())
				if err != nil {
					return err
				}
				_, err = io.WriteString(out, text)
				return err
			}

			format, err := outputFormat(output)
			if err != nil {
				return err
			}
			table, err := parsePrefixes(prefixes)
			if err != nil {
				return err
			}
			sink, err := rdf.NewSerializer(format, out, flags.base, table)
			if err != nil {
				return err
			}
			if err := process(cmd.Context(), p, args[0], &flags, sink); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "nquads", "output format (ntriples, nquads, turtle, bson)")
	cmd.Flags().StringArrayVar(&prefixes, "prefix", nil, "turtle prefix as prefix=namespace (repeatable)")
	cmd.Flags().BoolVar(&canonical, "canonical", false, "print canonical N-Quads with normalized blank node labels")

	return cmd
}
