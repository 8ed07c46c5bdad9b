package main

import (
	"fmt"
	"sort"

	"github.com/semarglproject/semargl-sub000/rdf"
	"github.com/spf13/cobra"
)

func newVocabCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vocab <url>",
		Short: "Load an RDFa vocabulary and show its terms and expansions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := rdf.NewVocabularyCache().Find(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !v.Loaded() {
				fmt.Fprintf(out, "%s: no terms found\n", v.URL)
				return nil
			}

			expansions := v.Expansions()
			for _, term := range v.Terms() {
				targets := expansions[term]
				sort.Strings(targets)
				if len(targets) == 0 {
					fmt.Fprintln(out, term)
					continue
				}
				for _, target := range targets {
					fmt.Fprintf(out, "%s -> %s\n", term, target)
				}
			}
			return nil
		},
	}
}
