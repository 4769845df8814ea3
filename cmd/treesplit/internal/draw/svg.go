// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package draw draws trees as SVG files.
package draw

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/js-arias/blind"
	"github.com/js-arias/treesplit/tree"
)

const yStep = 12

// default horizontal size of an edge
// in trees without lengths
const xDefault = 20.0

type node struct {
	x     float64
	y     int
	topY  int
	botY  int
	color color.Color

	tax     string
	support float64
	hasSup  bool

	anc  *node
	desc []*node
}

type svgTree struct {
	y     int
	x     float64
	taxSz int
	root  *node
}

// SVG writes a tree as an SVG image.
// If all the edges have a length,
// the tree is drawn as a phylogram
// scaled by xStep pixels per length unit,
// otherwise all the edges have the same length.
// Edges are colored by their support.
func SVG(w io.Writer, t *tree.Tree, xStep float64) error {
	s := copyTree(t, xStep)
	return s.draw(w)
}

// WriteFile writes a tree as an SVG file.
func WriteFile(name string, t *tree.Tree, xStep float64) (err error) {
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

	bw := bufio.NewWriter(f)
	if err := SVG(bw, t, xStep); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	return nil
}

func copyTree(t *tree.Tree, xStep float64) svgTree {
	phylogram := true
	for _, id := range t.Nodes() {
		if id == t.Root() {
			continue
		}
		if _, ok := t.Length(id); !ok {
			phylogram = false
			break
		}
	}

	maxSz := 0
	var root *node
	ids := make(map[int]*node)
	for _, id := range t.Nodes() {
		var anc *node
		if p := t.Parent(id); p >= 0 {
			anc = ids[p]
		}

		n := &node{
			tax: t.Taxon(id),
			anc: anc,
		}
		n.support, n.hasSup = t.Support(id)
		if anc == nil {
			root = n
			n.x = 10
		} else {
			l := xDefault
			if phylogram {
				l, _ = t.Length(id)
				l *= xStep
			}
			n.x = anc.x + l
			anc.desc = append(anc.desc, n)
		}
		ids[id] = n
		if len(n.tax) > maxSz {
			maxSz = len(n.tax)
		}
	}

	s := svgTree{root: root}
	s.prepare(root)
	s.y = s.y * yStep
	s.taxSz = maxSz
	root.setColor()

	return s
}

func (s *svgTree) prepare(n *node) {
	if s.x < n.x {
		s.x = n.x
	}

	if n.desc == nil {
		n.y = s.y*yStep + 5
		s.y += 1
		return
	}

	botY := 0
	topY := math.MaxInt
	for _, d := range n.desc {
		s.prepare(d)
		if d.y < topY {
			topY = d.y
		}
		if d.y > botY {
			botY = d.y
		}
	}
	n.topY = topY
	n.botY = botY
	n.y = topY + (botY-topY)/2
}

func (n *node) setColor() {
	n.color = color.RGBA{0, 0, 0, 255}
	if n.hasSup && n.desc != nil && n.anc != nil {
		n.color = blind.Gradient(n.support)
	}

	for _, d := range n.desc {
		d.setColor()
	}
}

func (s *svgTree) draw(w io.Writer) error {
	fmt.Fprintf(w, "%s", xml.Header)
	e := xml.NewEncoder(w)
	svg := xml.StartElement{
		Name: xml.Name{Local: "svg"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "height"}, Value: strconv.Itoa(s.y + 5)},
			// assume that each character has 6 pixels wide
			{Name: xml.Name{Local: "width"}, Value: strconv.Itoa(int(s.x) + s.taxSz*6 + 20)},
			{Name: xml.Name{Local: "xmlns"}, Value: "http://www.w3.org/2000/svg"},
		},
	}
	e.EncodeToken(svg)

	g := xml.StartElement{
		Name: xml.Name{Local: "g"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "stroke-width"}, Value: "2"},
			{Name: xml.Name{Local: "stroke"}, Value: "black"},
			{Name: xml.Name{Local: "stroke-linecap"}, Value: "round"},
			{Name: xml.Name{Local: "font-family"}, Value: "Verdana"},
			{Name: xml.Name{Local: "font-size"}, Value: "10"},
		},
	}
	e.EncodeToken(g)

	s.root.draw(e)
	s.root.label(e)

	e.EncodeToken(g.End())
	e.EncodeToken(svg.End())
	if err := e.Flush(); err != nil {
		return err
	}
	return nil
}

func (n node) draw(e *xml.Encoder) {
	r, g, b, _ := n.color.RGBA()
	rgb := fmt.Sprintf("rgb(%d,%d,%d)", r>>8, g>>8, b>>8)

	// horizontal line
	ln := xml.StartElement{
		Name: xml.Name{Local: "line"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "x1"}, Value: strconv.Itoa(int(n.x - 5))},
			{Name: xml.Name{Local: "y1"}, Value: strconv.Itoa(n.y)},
			{Name: xml.Name{Local: "x2"}, Value: strconv.Itoa(int(n.x))},
			{Name: xml.Name{Local: "y2"}, Value: strconv.Itoa(n.y)},
			{Name: xml.Name{Local: "stroke"}, Value: rgb},
		},
	}
	if n.anc != nil {
		ln.Attr[0].Value = strconv.Itoa(int(n.anc.x))
	}
	e.EncodeToken(ln)
	e.EncodeToken(ln.End())

	if n.desc == nil {
		return
	}

	// vertical line
	ln.Attr[0].Value = ln.Attr[2].Value
	ln.Attr[1].Value = strconv.Itoa(n.topY)
	ln.Attr[3].Value = strconv.Itoa(n.botY)
	ln.Attr[4].Value = "black"
	e.EncodeToken(ln)
	e.EncodeToken(ln.End())

	for _, d := range n.desc {
		d.draw(e)
	}
}

func (n node) label(e *xml.Encoder) {
	if n.desc == nil {
		tx := xml.StartElement{
			Name: xml.Name{Local: "text"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "x"}, Value: strconv.Itoa(int(n.x + 10))},
				{Name: xml.Name{Local: "y"}, Value: strconv.Itoa(n.y + 5)},
				{Name: xml.Name{Local: "stroke-width"}, Value: "0"},
				{Name: xml.Name{Local: "font-style"}, Value: "italic"},
			},
		}
		e.EncodeToken(tx)
		e.EncodeToken(xml.CharData(n.tax))
		e.EncodeToken(tx.End())
		return
	}

	// support of internal edges
	if n.anc != nil && n.hasSup {
		tx := xml.StartElement{
			Name: xml.Name{Local: "text"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "x"}, Value: strconv.Itoa(int(n.x - 3))},
				{Name: xml.Name{Local: "y"}, Value: strconv.Itoa(n.y - 3)},
				{Name: xml.Name{Local: "stroke-width"}, Value: "0"},
				{Name: xml.Name{Local: "font-size"}, Value: "8"},
				{Name: xml.Name{Local: "text-anchor"}, Value: "end"},
			},
		}
		e.EncodeToken(tx)
		e.EncodeToken(xml.CharData(strconv.Itoa(int(math.Round(n.support * 100)))))
		e.EncodeToken(tx.End())
	}

	for _, d := range n.desc {
		d.label(e)
	}
}
