// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// TreeSplit is a tool for consensus and merge
// of phylogenetic trees.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/treesplit/cmd/treesplit/conscmd"
	"github.com/js-arias/treesplit/cmd/treesplit/freq"
	"github.com/js-arias/treesplit/cmd/treesplit/mergecmd"
	"github.com/js-arias/treesplit/cmd/treesplit/splits"
)

var app = &command.Command{
	Usage: "treesplit <command> [<argument>...]",
	Short: "a tool for consensus and merge of phylogenetic trees",
}

func init() {
	app.Add(conscmd.Command)
	app.Add(freq.Command)
	app.Add(mergecmd.Command)
	app.Add(splits.Command)
}

func main() {
	app.Main()
}
