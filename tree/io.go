// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/js-arias/treesplit/taxa"
)

var headerFields = []string{
	"tree",
	"node",
	"parent",
	"length",
	"age",
	"support",
	"taxon",
}

// ReadTSV reads one or more trees
// from a tab-delimited file.
//
// The TSV must contain the following fields:
//
//   - tree, the name of the tree
//   - node, the ID of the node
//   - parent, the ID of the parent node
//     (-1 for the root)
//   - length, the length of the edge
//     that ends in the node
//     (empty if undefined)
//   - age, the age of the node
//     (empty if undefined)
//   - support, the support of the edge
//     (empty if undefined)
//   - taxon, the taxon name
//     (empty for internal nodes)
//
// A parent node must be defined
// before its descendants.
//
// Here is an example file:
//
//	# treesplit trees
//	tree	node	parent	length	age	support	taxon
//	consensus	0	-1				
//	consensus	1	0	1.5		1	Eoraptor lunensis
//	consensus	2	0	0.5		0.75	
//	consensus	3	2	1		1	Ceratosaurus nasicornis
//	consensus	4	2	1		1	Carnotaurus sastrei
//
// Taxa are added to the given namespace.
// Trees are returned in the order
// in which they are found in the file.
func ReadTSV(r io.Reader, ns *taxa.Namespace) ([]*Tree, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range headerFields {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}

	var trees []*Tree
	byName := make(map[string]*Tree)
	ids := make(map[string]map[int]int)
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		f := "tree"
		tn := strings.ToLower(strings.Join(strings.Fields(row[fields[f]]), " "))
		if tn == "" {
			continue
		}

		f = "node"
		nID, err := strconv.Atoi(row[fields[f]])
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
		}

		f = "parent"
		pID, err := strconv.Atoi(row[fields[f]])
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
		}

		t, ok := byName[tn]
		var id int
		if pID < 0 {
			if ok {
				return nil, fmt.Errorf("on row %d: tree %q: root already defined", ln, tn)
			}
			t = New(tn, ns, false)
			byName[tn] = t
			ids[tn] = map[int]int{nID: t.root}
			trees = append(trees, t)
			id = t.root
		} else {
			if !ok {
				return nil, fmt.Errorf("on row %d: tree %q: undefined root", ln, tn)
			}
			p, ok := ids[tn][pID]
			if !ok {
				return nil, fmt.Errorf("on row %d: field %q: undefined node %d", ln, f, pID)
			}
			if _, dup := ids[tn][nID]; dup {
				return nil, fmt.Errorf("on row %d: field %q: repeated node %d", ln, "node", nID)
			}
			id, _ = t.Add(p, "")
			ids[tn][nID] = id
		}

		for _, f := range []string{"length", "age", "support"} {
			v := strings.TrimSpace(row[fields[f]])
			if v == "" {
				continue
			}
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
			}
			switch f {
			case "length":
				t.SetLength(id, x)
			case "age":
				t.SetAge(id, x)
			case "support":
				t.SetSupport(id, x)
			}
		}

		f = "taxon"
		if tax := strings.Join(strings.Fields(row[fields[f]]), " "); tax != "" {
			t.nodes[id].taxon = ns.Add(tax)
		}
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("while reading data: %v", io.EOF)
	}
	return trees, nil
}

// TSV writes one or more trees
// as a tab-delimited file.
// Node IDs are renumbered in pre-order.
func TSV(w io.Writer, trees ...*Tree) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# treesplit trees\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))

	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true
	if err := tsv.Write(headerFields); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}

	for _, t := range trees {
		nodes := t.Nodes()
		newID := make(map[int]int, len(nodes))
		for i, id := range nodes {
			newID[id] = i
		}
		for _, id := range nodes {
			n := t.nodes[id]
			p := -1
			if n.parent >= 0 {
				p = newID[n.parent]
			}
			row := []string{
				t.name,
				strconv.Itoa(newID[id]),
				strconv.Itoa(p),
				optFloat(n.length, n.hasLen),
				optFloat(n.age, n.hasAge),
				optFloat(n.support, n.hasSup),
				t.Taxon(id),
			}
			if err := tsv.Write(row); err != nil {
				return fmt.Errorf("tree %q: %v", t.name, err)
			}
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return nil
}

func optFloat(v float64, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Parenthetic returns the tree
// in parenthetical (Newick) notation.
// Internal nodes are labeled with their support,
// and edge lengths are added when defined.
func (t *Tree) Parenthetic() string {
	var sb strings.Builder
	t.parenthetic(&sb, t.root)
	sb.WriteByte(';')
	return sb.String()
}

func (t *Tree) parenthetic(sb *strings.Builder, id int) {
	n := t.nodes[id]
	if len(n.children) == 0 {
		sb.WriteString(quoteName(t.Taxon(id)))
	} else {
		sb.WriteByte('(')
		for i, c := range n.children {
			if i > 0 {
				sb.WriteByte(',')
			}
			t.parenthetic(sb, c)
		}
		sb.WriteByte(')')
		if n.hasSup && id != t.root {
			sb.WriteString(strconv.FormatFloat(n.support, 'f', 2, 64))
		}
	}
	if n.hasLen && id != t.root {
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatFloat(n.length, 'f', -1, 64))
	}
}

func quoteName(name string) string {
	if !strings.ContainsAny(name, " ()[]':;,") {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
