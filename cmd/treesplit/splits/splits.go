// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package splits implements a command to print
// the splits of a set of trees.
package splits

import (
	"encoding/csv"
	"fmt"
	"slices"
	"strconv"

	"github.com/js-arias/command"
	"github.com/js-arias/treesplit/cmd/treesplit/internal/treefile"
	"github.com/js-arias/treesplit/split"
	"github.com/js-arias/treesplit/taxa"
	"github.com/js-arias/treesplit/tree"
)

var Command = &command.Command{
	Usage: `splits [--rooted] [--all] [--newick <name>]
	[<tree-file>...]`,
	Short: "print the splits of the trees",
	Long: `
Command splits reads one or more tree files and prints the splits (the
bipartitions of the taxa defined by each branch) of each tree.

One or more tree files can be given as arguments. If no file is given the
trees will be read from the standard input. By default, the input is expected
to be in the form of tab-delimited tree files, either time calibrated trees,
or treesplit tree files (see 'treesplit help tree-files'). To read newick
trees (i.e., trees in parenthetical format), use the flag --newick with a name
to be defined for the trees found in the input files.

By default, trees are considered unrooted, and the splits are normalized so
they always include the first taxon. Use the flag --rooted to print the splits
of rooted trees.

By default, only non-trivial splits are printed. Use the flag --all to print
all the splits, including terminal branches.

The output is a tab-delimited table (see 'treesplit help split-tables')
printed in the standard output.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var rooted bool
var allSplits bool
var newickName string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&rooted, "rooted", false, "")
	c.Flags().BoolVar(&allSplits, "all", false, "")
	c.Flags().StringVar(&newickName, "newick", "", "")
}

func run(c *command.Command, args []string) error {
	ns := taxa.New()
	trees, err := treefile.ReadAll(c.Stdin(), args, newickName, ns)
	if err != nil {
		return err
	}

	tsv := csv.NewWriter(c.Stdout())
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	fmt.Fprintf(c.Stdout(), "# taxa: %d\n", ns.Len())
	if err := tsv.Write([]string{"tree", "split", "group", "length"}); err != nil {
		return err
	}

	for _, t := range trees {
		splits, err := tree.Encode(t, rooted)
		if err != nil {
			return err
		}
		ls := make([]split.Split, 0, len(splits))
		for s, id := range splits {
			// the root is not an edge
			if id == t.Root() {
				continue
			}
			if ok, _ := split.IsTrivial(s, t.Mask()); ok && !allSplits {
				continue
			}
			ls = append(ls, s)
		}
		slices.SortFunc(ls, split.Split.Compare)

		for _, s := range ls {
			var l string
			if v, ok := t.Length(splits[s]); ok {
				l = strconv.FormatFloat(v, 'f', 6, 64)
			}
			row := []string{
				t.Name(),
				s.String(),
				ns.Label(s),
				l,
			}
			if err := tsv.Write(row); err != nil {
				return err
			}
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return nil
}
