// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/js-arias/treesplit/taxa"
)

// ReadNewick reads one or more trees
// in parenthetical (Newick) format.
//
// The first tree is named with the given name,
// and the next trees with the name
// and the index of the tree
// (e.g. "name.1", "name.2", ...).
//
// Edge lengths are read as given;
// an edge without a length
// has an undefined length.
// Numeric labels of internal nodes
// are read as the support of the edge.
// Underscores in unquoted names are read as spaces,
// and comments in square brackets are ignored.
//
// Taxa are added to the given namespace.
// Trees are returned unrooted and without encoding.
func ReadNewick(r io.Reader, name string, ns *taxa.Namespace) ([]*Tree, error) {
	name = strings.ToLower(strings.Join(strings.Fields(name), " "))
	if name == "" {
		return nil, errors.New("newick: undefined tree name")
	}

	nr := &newickReader{r: bufio.NewReader(r)}
	var trees []*Tree
	for i := 0; ; i++ {
		ok, err := nr.start()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		tn := name
		if i > 0 {
			tn = fmt.Sprintf("%s.%d", name, i)
		}
		t := New(tn, ns, false)
		if err := nr.tree(t); err != nil {
			return nil, fmt.Errorf("newick: tree %q: %v: last read terminal: %q", tn, err, nr.last)
		}
		trees = append(trees, t)
	}
	if len(trees) == 0 {
		return nil, errors.New("newick: no trees found")
	}
	return trees, nil
}

type newickReader struct {
	r    *bufio.Reader
	last string
}

// start searches for the first parenthesis of a tree.
// It returns false at the end of the input.
func (nr *newickReader) start() (bool, error) {
	for {
		r1, _, err := nr.r.ReadRune()
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if r1 == '[' {
			if err := nr.comment(); err != nil {
				return false, err
			}
			continue
		}
		if r1 == '(' {
			return true, nil
		}
	}
}

func (nr *newickReader) tree(t *Tree) error {
	if err := nr.children(t, t.root); err != nil {
		return err
	}
	if _, err := nr.label(); err != nil {
		return err
	}
	// root length is ignored
	if _, _, err := nr.length(); err != nil {
		return err
	}

	r1, err := nr.next()
	if err != nil {
		return err
	}
	if r1 != ';' {
		return fmt.Errorf("unexpected %q, expecting ';'", r1)
	}
	return nil
}

// children reads the descendants of a node.
// The opening parenthesis was already read.
func (nr *newickReader) children(t *Tree, id int) error {
	for {
		r1, err := nr.next()
		if err != nil {
			return err
		}

		var c int
		if r1 == '(' {
			c, err = t.Add(id, "")
			if err != nil {
				return err
			}
			if err := nr.children(t, c); err != nil {
				return err
			}
			lb, err := nr.label()
			if err != nil {
				return err
			}
			if v, err := strconv.ParseFloat(lb, 64); err == nil {
				t.SetSupport(c, v)
			}
		} else {
			nr.r.UnreadRune()
			tax, err := nr.label()
			if err != nil {
				return err
			}
			if tax == "" {
				return fmt.Errorf("unexpected %q, expecting a terminal name", r1)
			}
			nr.last = tax
			c, err = t.Add(id, tax)
			if err != nil {
				return err
			}
		}

		v, ok, err := nr.length()
		if err != nil {
			return err
		}
		if ok {
			t.SetLength(c, v)
		}

		r1, err = nr.next()
		if err != nil {
			return err
		}
		switch r1 {
		case ',':
			continue
		case ')':
			return nil
		}
		return fmt.Errorf("unexpected %q", r1)
	}
}

// next returns the next rune
// that is not a space
// or part of a comment.
func (nr *newickReader) next() (rune, error) {
	for {
		r1, _, err := nr.r.ReadRune()
		if errors.Is(err, io.EOF) {
			return 0, io.ErrUnexpectedEOF
		}
		if err != nil {
			return 0, err
		}
		if unicode.IsSpace(r1) {
			continue
		}
		if r1 == '[' {
			if err := nr.comment(); err != nil {
				return 0, err
			}
			continue
		}
		return r1, nil
	}
}

func (nr *newickReader) comment() error {
	for {
		r1, _, err := nr.r.ReadRune()
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		if err != nil {
			return err
		}
		if r1 == ']' {
			return nil
		}
	}
}

// label reads the name of a terminal,
// or the label of an internal node.
// It returns an empty string
// if there is no label.
func (nr *newickReader) label() (string, error) {
	r1, err := nr.next()
	if err != nil {
		return "", err
	}
	if r1 == '\'' {
		return nr.quoted()
	}
	nr.r.UnreadRune()

	var b strings.Builder
	for {
		r1, _, err := nr.r.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if unicode.IsSpace(r1) {
			break
		}
		if strings.ContainsRune("(),:;[", r1) {
			nr.r.UnreadRune()
			break
		}
		if r1 == '_' {
			r1 = ' '
		}
		b.WriteRune(r1)
	}
	return strings.Join(strings.Fields(b.String()), " "), nil
}

// quoted reads a quoted name,
// in which a doubled quote is a single quote.
func (nr *newickReader) quoted() (string, error) {
	var b strings.Builder
	for {
		r1, _, err := nr.r.ReadRune()
		if errors.Is(err, io.EOF) {
			return "", io.ErrUnexpectedEOF
		}
		if err != nil {
			return "", err
		}
		if r1 == '\'' {
			r2, _, err := nr.r.ReadRune()
			if err == nil && r2 == '\'' {
				b.WriteRune('\'')
				continue
			}
			if err == nil {
				nr.r.UnreadRune()
			}
			break
		}
		b.WriteRune(r1)
	}
	return strings.Join(strings.Fields(b.String()), " "), nil
}

// length reads the length of an edge.
// The boolean is false
// if the edge has no length.
func (nr *newickReader) length() (float64, bool, error) {
	r1, err := nr.next()
	if err != nil {
		return 0, false, err
	}
	if r1 != ':' {
		nr.r.UnreadRune()
		return 0, false, nil
	}
	if _, err := nr.next(); err != nil {
		return 0, false, err
	}
	nr.r.UnreadRune()

	var b strings.Builder
	for {
		r1, _, err := nr.r.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, false, err
		}
		if unicode.IsSpace(r1) || strings.ContainsRune("(),:;[", r1) {
			nr.r.UnreadRune()
			break
		}
		b.WriteRune(r1)
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid edge length %q", b.String())
	}
	return v, true, nil
}
