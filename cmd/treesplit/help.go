// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(splitTablesGuide)
	app.Add(treeFilesGuide)
}

var treeFilesGuide = &command.Command{
	Usage: "tree-files",
	Short: "about tree files",
	Long: `
TreeSplit reads phylogenetic trees stored in tab-delimited files. The
advantage of using a tab-delimited file is that it would be easier to
manipulate trees than in traditional newick files; for example, it would be
easier for third-party applications to understand the node IDs. Newick files
can be read with the flag --newick.

Two kinds of tab-delimited files are accepted. The first one is a time
calibrated tree file, with the following columns:

	-tree    for the name of the tree.
	-node    for the ID of the node.
	-parent  for of ID of the parent node (-1 is used for the root).
	-age     the age of the node (in years).
	-taxon   the taxonomic name of the node.

Here is an example file:

	# time calibrated phylogenetic tree
	tree	node	parent	age	taxon
	dinosaurs	0	-1	235000000
	dinosaurs	1	0	230000000	Eoraptor lunensis
	dinosaurs	2	0	170000000
	dinosaurs	3	2	145000000	Ceratosaurus nasicornis
	dinosaurs	4	2	71000000	Carnotaurus sastrei

When a time calibrated tree is read, the ages of the nodes, and the lengths of
the branches, are set in million years.

The second kind is the tree file produced by the consensus and merge commands,
with the following columns:

	-tree     for the name of the tree.
	-node     for the ID of the node.
	-parent   for of ID of the parent node (-1 is used for the root).
	-length   the length of the branch that ends in the node.
	-age      the age of the node.
	-support  the support of the branch that ends in the node.
	-taxon    the taxonomic name of the node.

The length, age, and support columns can be empty, if the value is undefined.
Here is an example file:

	# treesplit trees
	tree	node	parent	length	age	support	taxon
	consensus	0	-1
	consensus	1	0	1.5		1	Eoraptor lunensis
	consensus	2	0	0.5		0.75
	consensus	3	2	1		1	Ceratosaurus nasicornis
	consensus	4	2	1		1	Carnotaurus sastrei

In both kinds of files, a parent node must be defined before any of its
descendants.
	`,
}

var splitTablesGuide = &command.Command{
	Usage: "split-tables",
	Short: "about split tables",
	Long: `
A split is the bipartition of the taxa produced by removing a branch of a
tree. In TreeSplit, a split is stored as a set of bits, in which each bit is a
taxon, indexed in the order in which taxa were found in the input files.

In unrooted trees, the two sides of a bipartition are equivalent, so splits
are normalized so the first taxon is always in the marked side of the split.
In rooted trees, the marked side is the set of taxa descendant from the
branch. A split is trivial if one of its sides has less than two taxa (i.e.,
the split of a terminal branch).

The commands splits and freq print tab-delimited tables with the following
columns:

	-split  the split, as a hexadecimal number.
	-group  the split as a string, with a '*' for each taxon in the marked
	        side of the split, and a '.' for each taxon in the other side.

The command splits also prints the name of the tree, and the length of the
branch. The command freq prints the number of trees with the split, its
frequency, the mean and the standard deviation of the branch lengths, and the
mean, the median, and the 95% interval of the node ages.

Here is an example of a splits table:

	# taxa: 5
	tree	split	group	length
	dinosaurs	3	**...	0.500000
	dinosaurs	7	***..	1.000000
	`,
}
