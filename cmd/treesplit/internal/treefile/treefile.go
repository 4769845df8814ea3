// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package treefile reads the tree files
// used as input of treesplit commands.
package treefile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/js-arias/timetree"
	"github.com/js-arias/treesplit/taxa"
	"github.com/js-arias/treesplit/tree"
)

// Read reads the trees from a file.
// If name is empty or "-",
// the trees will be read from r.
//
// If newick is not empty,
// the input is read as parenthetical trees
// and newick is used as the tree name.
// Otherwise the input is a tab-delimited file,
// either a treesplit tree file,
// or a time calibrated tree file.
//
// Trees are returned unrooted and without encoding.
func Read(r io.Reader, name, newick string, ns *taxa.Namespace) ([]*tree.Tree, error) {
	if name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		name = "stdin"
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}

	var trees []*tree.Tree
	switch {
	case newick != "":
		trees, err = tree.ReadNewick(bytes.NewReader(data), newick, ns)
		if err != nil {
			return nil, fmt.Errorf("while reading file %q: %v", name, err)
		}
	case isSplitFile(data):
		trees, err = tree.ReadTSV(bytes.NewReader(data), ns)
		if err != nil {
			return nil, fmt.Errorf("while reading file %q: %v", name, err)
		}
	default:
		c, err := timetree.ReadTSV(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("while reading file %q: %v", name, err)
		}
		trees = tree.FromCollection(c, ns, false)
	}
	return trees, nil
}

// ReadAll reads the trees from a set of files.
// If no file is given,
// the trees will be read from r.
// If newick is defined,
// the trees of each file are named
// with newick and the index of the file.
func ReadAll(r io.Reader, files []string, newick string, ns *taxa.Namespace) ([]*tree.Tree, error) {
	if len(files) == 0 {
		files = []string{"-"}
	}

	var trees []*tree.Tree
	for i, fn := range files {
		tn := newick
		if tn != "" && i > 0 {
			tn = fmt.Sprintf("%s.%d", newick, i)
		}
		ts, err := Read(r, fn, tn, ns)
		if err != nil {
			return nil, err
		}
		trees = append(trees, ts...)
	}
	return trees, nil
}

// isSplitFile returns true if the header of a tab-delimited file
// has the fields of a treesplit tree file.
func isSplitFile(data []byte) bool {
	s := bufio.NewScanner(bytes.NewReader(data))
	for s.Scan() {
		ln := strings.TrimSpace(s.Text())
		if ln == "" || ln[0] == '#' {
			continue
		}
		var length, support bool
		for _, f := range strings.Split(ln, "\t") {
			switch strings.ToLower(strings.TrimSpace(f)) {
			case "length":
				length = true
			case "support":
				support = true
			}
		}
		return length && support
	}
	return false
}

// Write writes trees into a treesplit tree file.
// If name is empty or "-",
// the trees will be written to w.
func Write(w io.Writer, name string, trees ...*tree.Tree) (err error) {
	if name != "" && name != "-" {
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		defer func() {
			e := f.Close()
			if e != nil && err == nil {
				err = e
			}
		}()
		w = f
	} else {
		name = "stdout"
	}

	if err := tree.TSV(w, trees...); err != nil {
		return fmt.Errorf("while writing to %q: %v", name, err)
	}
	return nil
}
