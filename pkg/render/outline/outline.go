// Package outline renders stage prim trees as Graphviz diagrams.
//
// The prim hierarchy maps directly onto a tree diagram: every prim becomes
// a node labeled with its name and schema type, every parent/child relation
// an edge. Handy for checking what a materialization produced.
package outline

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/stagekit/imageseq/pkg/scene"
)

// Options configures outline rendering.
type Options struct {
	// Detailed includes attribute counts in node labels.
	// When false, only the prim name and type are shown.
	Detailed bool
}

// ToDOT converts a stage's prim tree to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Mesh prims are drawn with a grey fill, material and shader prims with a
// dashed outline, to make the structure of each image prim easy to scan.
func ToDOT(st *scene.Stage, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Stage {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, child := range st.Root().Children() {
		writeNode(&buf, child, opts)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, n *scene.Node, opts Options) {
	label := fmtLabel(n, opts.Detailed)
	attrs := fmtAttrs(n, label)
	fmt.Fprintf(buf, "  %q [%s];\n", n.Path(), strings.Join(attrs, ", "))

	for _, child := range n.Children() {
		fmt.Fprintf(buf, "  %q -> %q;\n", n.Path(), child.Path())
		writeNode(buf, child, opts)
	}
}

func fmtLabel(n *scene.Node, detailed bool) string {
	label := fmt.Sprintf("%s\n%s", n.Name(), n.Type())
	if detailed {
		label += fmt.Sprintf("\nattrs: %d", len(n.AttrNames()))
	}
	return label
}

func fmtAttrs(n *scene.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Type() {
	case scene.TypeMesh:
		attrs = append(attrs, "fillcolor=lightgrey")
	case scene.TypeMaterial, scene.TypeShader:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if format == graphviz.SVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
