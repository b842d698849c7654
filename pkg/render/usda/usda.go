// Package usda serializes stages to the USD text format (.usda).
//
// The output is plain usda 1.0 text: every prim in the stage becomes a def
// block, attributes are emitted with their USD schema types, and transform
// ops get a matching xformOpOrder. Stages written by this package open in
// any USD-aware tool.
package usda

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/stagekit/imageseq/pkg/layout"
	"github.com/stagekit/imageseq/pkg/scene"
)

const indentStep = "    "

// Option configures USDA rendering.
type Option func(*renderer)

type renderer struct {
	defaultPrim string
	comment     string
}

// WithDefaultPrim overrides the defaultPrim layer metadata.
// By default the first root-level prim is used.
func WithDefaultPrim(name string) Option {
	return func(r *renderer) { r.defaultPrim = name }
}

// WithComment adds a doc comment to the layer metadata.
func WithComment(comment string) Option {
	return func(r *renderer) { r.comment = comment }
}

// Render serializes the stage to USDA text.
//
// The stage is assumed to use centimeters (metersPerUnit 0.01) and Y-up,
// matching what the layout engine produces.
func Render(st *scene.Stage, opts ...Option) ([]byte, error) {
	r := renderer{}
	for _, opt := range opts {
		opt(&r)
	}

	root := st.Root()
	if r.defaultPrim == "" && len(root.Children()) > 0 {
		r.defaultPrim = root.Children()[0].Name()
	}

	var buf bytes.Buffer
	buf.WriteString("#usda 1.0\n(\n")
	if r.comment != "" {
		fmt.Fprintf(&buf, "    doc = %s\n", quote(r.comment))
	}
	if r.defaultPrim != "" {
		fmt.Fprintf(&buf, "    defaultPrim = %s\n", quote(r.defaultPrim))
	}
	buf.WriteString("    metersPerUnit = 0.01\n")
	buf.WriteString("    upAxis = \"Y\"\n")
	buf.WriteString(")\n")

	for _, child := range root.Children() {
		buf.WriteString("\n")
		if err := writePrim(&buf, child, ""); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// schemaName maps prim types to USD schema names.
func schemaName(typ string) (string, error) {
	switch typ {
	case scene.TypeXform:
		return "Xform", nil
	case scene.TypeMesh:
		return "Mesh", nil
	case scene.TypeMaterial:
		return "Material", nil
	case scene.TypeShader:
		return "Shader", nil
	default:
		return "", fmt.Errorf("no USD schema for prim type %q", typ)
	}
}

func writePrim(buf *bytes.Buffer, n *scene.Node, indent string) error {
	schema, err := schemaName(n.Type())
	if err != nil {
		return fmt.Errorf("prim %s: %w", n.Path(), err)
	}

	fmt.Fprintf(buf, "%sdef %s %s", indent, schema, quote(n.Name()))

	// kind is prim metadata, not an attribute.
	if attr, ok := n.Attr("kind"); ok {
		if kind, ok := attr.AsString(); ok {
			fmt.Fprintf(buf, " (\n%s    kind = %s\n%s)", indent, quote(kind), indent)
		}
	}

	fmt.Fprintf(buf, "\n%s{\n", indent)

	inner := indent + indentStep
	var xformOps []string
	for _, name := range n.AttrNames() {
		if name == "kind" {
			continue
		}
		attr, _ := n.Attr(name)
		if err := writeAttr(buf, inner, name, attr); err != nil {
			return fmt.Errorf("prim %s: %w", n.Path(), err)
		}
		if strings.HasPrefix(name, "xformOp:") {
			xformOps = append(xformOps, name)
		}
	}
	if len(xformOps) > 0 {
		fmt.Fprintf(buf, "%suniform token[] xformOpOrder = %s\n", inner, tokenList(orderOps(xformOps)))
	}

	for _, child := range n.Children() {
		buf.WriteString("\n")
		if err := writePrim(buf, child, inner); err != nil {
			return err
		}
	}

	fmt.Fprintf(buf, "%s}\n", indent)
	return nil
}

// orderOps sorts transform ops into the conventional translate, rotate,
// scale application order.
func orderOps(ops []string) []string {
	rank := func(op string) int {
		switch op {
		case "xformOp:translate":
			return 0
		case "xformOp:rotateXYZ":
			return 1
		case "xformOp:scale":
			return 2
		}
		return 3
	}
	sorted := make([]string, len(ops))
	copy(sorted, ops)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && rank(sorted[j]) < rank(sorted[j-1]); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return sorted
}

func writeAttr(buf *bytes.Buffer, indent, name string, attr scene.Attr) error {
	switch {
	case name == "material:binding":
		path, _ := attr.AsString()
		fmt.Fprintf(buf, "%srel material:binding = <%s>\n", indent, path)
		return nil
	case name == "info:id":
		id, _ := attr.AsString()
		fmt.Fprintf(buf, "%suniform token info:id = %s\n", indent, quote(id))
		return nil
	case name == "primvars:st":
		vals, _ := attr.AsVec2s()
		fmt.Fprintf(buf, "%stexCoord2f[] primvars:st = %s (\n%s    interpolation = \"vertex\"\n%s)\n",
			indent, vec2List(vals), indent, indent)
		return nil
	}

	custom := ""
	if strings.Contains(name, ":") && !strings.HasPrefix(name, "xformOp:") && !strings.HasPrefix(name, "inputs:") {
		custom = "custom "
	}

	switch attr.Type {
	case scene.AttrString:
		v, _ := attr.AsString()
		fmt.Fprintf(buf, "%s%sstring %s = %s\n", indent, custom, name, quote(v))
	case scene.AttrAsset:
		v, _ := attr.AsString()
		fmt.Fprintf(buf, "%s%sasset %s = @%s@\n", indent, custom, name, v)
	case scene.AttrInt:
		v, _ := attr.AsInt()
		fmt.Fprintf(buf, "%s%sint %s = %d\n", indent, custom, name, v)
	case scene.AttrFloat:
		v, _ := attr.AsFloat()
		fmt.Fprintf(buf, "%s%sfloat %s = %s\n", indent, custom, name, num(v))
	case scene.AttrBool:
		v, _ := attr.AsBool()
		b := "0"
		if v {
			b = "1"
		}
		fmt.Fprintf(buf, "%s%sbool %s = %s\n", indent, custom, name, b)
	case scene.AttrVec3:
		v, _ := attr.AsVec3()
		fmt.Fprintf(buf, "%s%sdouble3 %s = %s\n", indent, custom, name, vec3(v))
	case scene.AttrVec3Array:
		vals, _ := attr.AsVec3s()
		usdType := "float3[]"
		if name == "points" {
			usdType = "point3f[]"
		}
		fmt.Fprintf(buf, "%s%s%s %s = %s\n", indent, custom, usdType, name, vec3List(vals))
	case scene.AttrVec2Array:
		vals, _ := attr.AsVec2s()
		fmt.Fprintf(buf, "%s%sfloat2[] %s = %s\n", indent, custom, name, vec2List(vals))
	case scene.AttrIntArray:
		vals, _ := attr.AsInts()
		fmt.Fprintf(buf, "%s%sint[] %s = %s\n", indent, custom, name, intList(vals))
	case scene.AttrStringArray:
		vals, _ := attr.AsStrings()
		fmt.Fprintf(buf, "%s%sstring[] %s = %s\n", indent, custom, name, stringList(vals))
	default:
		return fmt.Errorf("attribute %q has unsupported type %q", name, attr.Type)
	}
	return nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func vec3(v layout.Vec3) string {
	return fmt.Sprintf("(%s, %s, %s)", num(v[0]), num(v[1]), num(v[2]))
}

func vec3List(vals []layout.Vec3) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = vec3(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func vec2List(vals []scene.Vec2) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("(%s, %s)", num(v[0]), num(v[1]))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func intList(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func stringList(vals []string) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = quote(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func tokenList(vals []string) string {
	return stringList(vals)
}

func quote(s string) string {
	return strconv.Quote(s)
}
