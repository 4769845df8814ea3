// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package freq implements a command to print
// the frequencies of the splits
// in a sample of trees.
package freq

import (
	"encoding/csv"
	"fmt"
	"image/color"
	"strconv"

	"github.com/js-arias/command"
	"github.com/js-arias/treesplit/cmd/treesplit/internal/treefile"
	"github.com/js-arias/treesplit/splitdist"
	"github.com/js-arias/treesplit/taxa"
	"github.com/js-arias/treesplit/tree"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var Command = &command.Command{
	Usage: `freq [--rooted] [--all] [--min <value>]
	[--burnin <number>] [--newick <name>]
	[--plot <file>]
	[<tree-file>...]`,
	Short: "print the frequencies of the splits",
	Long: `
Command freq reads one or more tree files and prints the frequency of each
split (the bipartition of the taxa defined by a branch) in the trees, as well
as a summary of the branch lengths and node ages of the split.

One or more tree files can be given as arguments. If no file is given the
trees will be read from the standard input. By default, the input is expected
to be in the form of tab-delimited tree files, either time calibrated trees,
or treesplit tree files (see 'treesplit help tree-files'). To read newick
trees (i.e., trees in parenthetical format), use the flag --newick with a name
to be defined for the trees found in the input files. Use the flag --burnin to
discard the first trees of each input file.

By default, trees are considered unrooted. Use the flag --rooted to use rooted
trees.

By default, only non-trivial splits are printed. Use the flag --all to print
all the splits. Use the flag --min to print only the splits with a frequency
greater than or equal to the given value.

The output is a tab-delimited table (see 'treesplit help split-tables')
printed in the standard output, with splits sorted by decreasing frequency.

If the flag --plot is defined, a bar plot with the number of non-trivial
splits in each frequency class will be written into the indicated file. The
format of the plot is defined by the file extension (for example .png or
.svg).
	`,
	SetFlags: setFlags,
	Run:      run,
}

var rooted bool
var allSplits bool
var burnin int
var minFreq float64
var newickName string
var plotFile string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&rooted, "rooted", false, "")
	c.Flags().BoolVar(&allSplits, "all", false, "")
	c.Flags().IntVar(&burnin, "burnin", 0, "")
	c.Flags().Float64Var(&minFreq, "min", 0, "")
	c.Flags().StringVar(&newickName, "newick", "", "")
	c.Flags().StringVar(&plotFile, "plot", "", "")
}

func run(c *command.Command, args []string) error {
	if burnin < 0 {
		return c.UsageError(fmt.Sprintf("invalid --burnin value: %d", burnin))
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
		if burnin < len(ts) {
			trees = append(trees, ts[burnin:]...)
		}
	}

	d := splitdist.New(ns)
	for _, t := range trees {
		if _, err := tree.Encode(t, rooted); err != nil {
			return err
		}
		if err := d.Add(t); err != nil {
			return err
		}
	}

	if err := writeTable(c, d); err != nil {
		return err
	}

	if plotFile != "" {
		if err := makePlot(d); err != nil {
			return err
		}
	}
	return nil
}

var headerFields = []string{
	"split",
	"group",
	"count",
	"freq",
	"length",
	"length-sd",
	"age",
	"age-median",
	"age-025",
	"age-975",
}

func writeTable(c *command.Command, d *splitdist.Distribution) error {
	ns := d.Namespace()
	total, unique, nonTrivial, nonTrivialUnique := d.Considered()
	fmt.Fprintf(c.Stdout(), "# trees: %d, taxa: %d\n", d.Trees(), ns.Len())
	fmt.Fprintf(c.Stdout(), "# splits: %d (%d unique), non-trivial: %d (%d unique)\n", total, unique, nonTrivial, nonTrivialUnique)

	tsv := csv.NewWriter(c.Stdout())
	tsv.Comma = '\t'
	tsv.UseCRLF = true
	if err := tsv.Write(headerFields); err != nil {
		return err
	}

	for _, s := range d.Splits() {
		if !allSplits && d.IsTrivial(s) {
			continue
		}
		sum, _ := d.Summary(s)
		if sum.Frequency < minFreq {
			continue
		}

		row := []string{
			s.String(),
			ns.Label(s),
			strconv.Itoa(sum.Count),
			strconv.FormatFloat(sum.Frequency, 'f', 6, 64),
			"", "", "", "", "", "",
		}
		if sum.Lengths > 0 {
			row[4] = strconv.FormatFloat(sum.Length, 'f', 6, 64)
			row[5] = strconv.FormatFloat(sum.LengthSD, 'f', 6, 64)
		}
		if sum.Ages > 0 {
			row[6] = strconv.FormatFloat(sum.Age, 'f', 6, 64)
			row[7] = strconv.FormatFloat(sum.AgeMedian, 'f', 6, 64)
			row[8] = strconv.FormatFloat(sum.Age025, 'f', 6, 64)
			row[9] = strconv.FormatFloat(sum.Age975, 'f', 6, 64)
		}
		if err := tsv.Write(row); err != nil {
			return err
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return nil
}

// numClasses is the number of frequency classes
// in the plot.
const numClasses = 10

func makePlot(d *splitdist.Distribution) error {
	p := plot.New()
	p.X.Label.Text = "frequency"
	p.Y.Label.Text = "splits"

	vals := make(plotter.Values, numClasses)
	for _, s := range d.Splits() {
		if d.IsTrivial(s) {
			continue
		}
		i := int(d.Frequency(s) * numClasses)
		if i >= numClasses {
			i = numClasses - 1
		}
		vals[i]++
	}

	bars, err := plotter.NewBarChart(vals, vg.Points(15))
	if err != nil {
		return fmt.Errorf("while building chart: %v", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = color.Gray{120}
	p.Add(bars)

	names := make([]string, numClasses)
	for i := range names {
		names[i] = fmt.Sprintf("%.1f", float64(i+1)/numClasses)
	}
	p.NominalX(names...)

	if err := p.Save(5*vg.Inch, 3*vg.Inch, plotFile); err != nil {
		return err
	}
	return nil
}
