package main

import (
	"fmt"

	"github.com/semarglproject/semargl-sub000/rdf"
	"github.com/semarglproject/semargl-sub000/store"
	"github.com/spf13/cobra"
)

func newDumpCmd() *cobra.Command {
	var (
		output   string
		graph    string
		prefixes []string
		graphs   bool
	)

	cmd := &cobra.Command{
		Use:   "dump <store>",
		Short: "Print the statements of a store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(args[0])
			if err != nil {
				return err
			}
			defer s.Close()
			out := cmd.OutOrStdout()

			if graphs {
				names, err := s.Graphs()
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			format, err := outputFormat(output)
			if err != nil {
				return err
			}
			table, err := parsePrefixes(prefixes)
			if err != nil {
				return err
			}
			sink, err := rdf.NewSerializer(format, out, "", table)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("graph") {
				return s.Dump(cmd.Context(), sink)
			}

			qs := rdf.AsQuadSink(sink)
			if err := qs.StartStream(); err != nil {
				return err
			}
			err = s.ScanGraph(cmd.Context(), graph, func(q rdf.Quad) error {
				return rdf.WriteQuad(qs, q)
			})
			if endErr := qs.EndStream(); err == nil {
				err = endErr
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "nquads", "output format (ntriples, nquads, turtle, bson)")
	cmd.Flags().StringVar(&graph, "graph", "", "only dump one graph (empty for the default graph)")
	cmd.Flags().StringArrayVar(&prefixes, "prefix", nil, "turtle prefix as prefix=namespace (repeatable)")
	cmd.Flags().BoolVar(&graphs, "graphs", false, "list named graphs instead of statements")

	return cmd
}
