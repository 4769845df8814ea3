// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package conscmd implements a command to build
// the consensus tree of a sample of trees.
package conscmd

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/treesplit/cmd/treesplit/internal/draw"
	"github.com/js-arias/treesplit/cmd/treesplit/internal/treefile"
	"github.com/js-arias/treesplit/consensus"
	"github.com/js-arias/treesplit/splitdist"
	"github.com/js-arias/treesplit/taxa"
	"github.com/js-arias/treesplit/tree"
)

var Command = &command.Command{
	Usage: `consensus [--min <value>] [--greedy]
	[--lengths] [--rooted] [--burnin <number>]
	[--newick <name>]
	[-o|--output <file>] [--svg <file>]
	[<tree-file>...]`,
	Short: "build a majority-rule consensus tree",
	Long: `
Command consensus reads one or more tree files and builds the extended
majority-rule consensus tree of the trees.

One or more tree files can be given as arguments. If no file is given the
trees will be read from the standard input. By default, the input is expected
to be in the form of tab-delimited tree files, either time calibrated trees,
or treesplit tree files (see 'treesplit help tree-files'). To read newick
trees (i.e., trees in parenthetical format), use the flag --newick with a name
to be defined for the trees found in the input files.

By default, only groups found in more than half of the trees are included in
the consensus. Use the flag --min to define a different frequency threshold.
If the flag --greedy is set, all the groups compatible with the groups already
in the consensus will be added, in order of decreasing frequency (groups with
the same frequency are added in order of their bit value).

By default, trees are considered unrooted. Use the flag --rooted to build the
consensus of rooted trees.

Use the flag --burnin to discard the first trees of each input file, for
example the burn-in trees of an MCMC sample.

By default, branch lengths are not included in the consensus. If the flag
--lengths is set, the length of each branch will be the mean of the lengths of
the branch in the input trees.

The consensus tree will be written in the standard output as a treesplit tree
file. The support of each branch is the frequency of the branch in the input
trees. Use the flag -o, or --output, to write the tree in a file. Use the flag
--svg to draw the consensus tree as an SVG file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var greedy bool
var lengths bool
var rooted bool
var burnin int
var minFreq float64
var newickName string
var output string
var svgFile string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&greedy, "greedy", false, "")
	c.Flags().BoolVar(&lengths, "lengths", false, "")
	c.Flags().BoolVar(&rooted, "rooted", false, "")
	c.Flags().IntVar(&burnin, "burnin", 0, "")
	c.Flags().Float64Var(&minFreq, "min", 0.5, "")
	c.Flags().StringVar(&newickName, "newick", "", "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
	c.Flags().StringVar(&svgFile, "svg", "", "")
}

func run(c *command.Command, args []string) error {
	if minFreq < 0 || minFreq >= 1 {
		return c.UsageError(fmt.Sprintf("invalid --min value: %.3f", minFreq))
	}
	if burnin < 0 {
		return c.UsageError(fmt.Sprintf("invalid --burnin value: %d", burnin))
	}
	if greedy {
		minFreq = consensus.Greedy
	}
	if len(args) == 0 {
		args = append(args, "-")
	}

	ns := taxa.New()
	var trees []*tree.Tree
	for i, a := range args {
		tn := newickName
		if tn != "" && i > 0 {
			tn = fmt.Sprintf("%s.%d", newickName, i)
		}
		ts, err := treefile.Read(c.Stdin(), a, tn, ns)
		if err != nil {
			return err
		}
		if burnin >= len(ts) {
			fmt.Fprintf(c.Stderr(), "warning: file %q: all %d trees discarded as burn-in\n", a, len(ts))
			continue
		}
		trees = append(trees, ts[burnin:]...)
	}

	// encode after reading all the trees
	// so all the taxa are in the namespace
	d := splitdist.New(ns)
	for _, t := range trees {
		if _, err := tree.Encode(t, rooted); err != nil {
			return err
		}
		if err := d.Add(t); err != nil {
			return err
		}
	}

	total, unique, nonTrivial, nonTrivialUnique := d.Considered()
	fmt.Fprintf(c.Stderr(), "# trees: %d, taxa: %d\n", d.Trees(), ns.Len())
	fmt.Fprintf(c.Stderr(), "# splits: %d (%d unique), non-trivial: %d (%d unique)\n", total, unique, nonTrivial, nonTrivialUnique)

	ct, err := consensus.Tree(d, minFreq, lengths)
	if err != nil {
		return err
	}

	if err := treefile.Write(c.Stdout(), output, ct); err != nil {
		return err
	}
	if svgFile != "" {
		if err := draw.WriteFile(svgFile, ct, 10); err != nil {
			return err
		}
	}
	return nil
}
