// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mergecmd implements a command to merge
// trees with overlapping sets of taxa.
package mergecmd

import (
	"fmt"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/treesplit/cmd/treesplit/internal/draw"
	"github.com/js-arias/treesplit/cmd/treesplit/internal/treefile"
	"github.com/js-arias/treesplit/scm"
	"github.com/js-arias/treesplit/taxa"
)

var Command = &command.Command{
	Usage: `merge [--supertree] [--name <tree-name>]
	[--newick <name>]
	[-o|--output <file>] [--svg <file>]
	[<tree-file>...]`,
	Short: "merge trees with overlapping taxa",
	Long: `
Command merge reads two or more trees, with overlapping, but not necessarily
identical, sets of taxa, and merges them using the strict consensus merge.

One or more tree files can be given as arguments. If no file is given the
trees will be read from the standard input. By default, the input is expected
to be in the form of tab-delimited tree files, either time calibrated trees,
or treesplit tree files (see 'treesplit help tree-files'). To read newick
trees (i.e., trees in parenthetical format), use the flag --newick with a name
to be defined for the trees found in the input files.

Trees are merged in the order in which they are read: the first tree is
merged with the second one, then the result is merged with the third tree, and
so on. The order of the trees might change the result. Every pair of merged
trees must share at least two taxa. Trees are always considered unrooted.

In the merged tree, only the groups of the shared taxa found in both trees are
kept, and the taxa found only in one of the trees are added in their position
in their source tree. If both trees have unshared taxa in the same position,
the taxa are added to a single polytomy. If the flag --supertree is set, the
groups of the unshared taxa of the second tree will be kept.

The merged tree will be written in the standard output as a treesplit tree
file. Use the flag --name to set the name of the merged tree (default
"merge"). Use the flag -o, or --output, to write the tree in a file. Use the
flag --svg to draw the merged tree as an SVG file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var supertree bool
var treeName string
var newickName string
var output string
var svgFile string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&supertree, "supertree", false, "")
	c.Flags().StringVar(&treeName, "name", "merge", "")
	c.Flags().StringVar(&newickName, "newick", "", "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
	c.Flags().StringVar(&svgFile, "svg", "", "")
}

func run(c *command.Command, args []string) error {
	ns := taxa.New()
	trees, err := treefile.ReadAll(c.Stdin(), args, newickName, ns)
	if err != nil {
		return err
	}
	if len(trees) < 2 {
		return c.UsageError("expecting two or more trees")
	}

	policy := scm.Strict
	if supertree {
		policy = scm.Supertree
	}
	m, err := scm.Merge(trees, policy)
	if err != nil {
		return err
	}
	m.SetName(strings.ToLower(strings.Join(strings.Fields(treeName), " ")))

	fmt.Fprintf(c.Stderr(), "# trees: %d, taxa: %d, policy: %s\n", len(trees), len(m.Terms()), policy)

	if err := treefile.Write(c.Stdout(), output, m); err != nil {
		return err
	}
	if svgFile != "" {
		if err := draw.WriteFile(svgFile, m, 10); err != nil {
			return err
		}
	}
	return nil
}
