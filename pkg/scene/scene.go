package scene

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/stagekit/imageseq/pkg/errors"
)

// Prim types used by the materializer.
const (
	TypeXform    = "Xform"
	TypeMesh     = "Mesh"
	TypeMaterial = "Material"
	TypeShader   = "Shader"
)

// Node is a prim in the stage tree: a named, typed element carrying
// attributes and ordered children.
//
// Nodes are created through [Stage.Define]; the zero value is not usable.
// A stage is not safe for concurrent mutation without external
// synchronization.
type Node struct {
	name     string
	typ      string
	parent   *Node
	attrs    map[string]Attr
	children []*Node
	byName   map[string]*Node
}

// Name returns the prim's own name (the last path segment).
func (n *Node) Name() string { return n.name }

// Type returns the prim type (e.g. "Xform", "Mesh").
func (n *Node) Type() string { return n.typ }

// Path returns the absolute prim path, e.g. "/World/Wall/img_0001".
func (n *Node) Path() string {
	if n.parent == nil {
		return "/"
	}
	var segments []string
	for cur := n; cur.parent != nil; cur = cur.parent {
		segments = append(segments, cur.name)
	}
	var b strings.Builder
	for i := len(segments) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(segments[i])
	}
	return b.String()
}

// Children returns the node's children in definition order.
// The returned slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Child returns the named child, or nil.
func (n *Node) Child(name string) *Node {
	return n.byName[name]
}

// Set stores an attribute on the node, replacing any previous value.
func (n *Node) Set(name string, a Attr) {
	if n.attrs == nil {
		n.attrs = make(map[string]Attr)
	}
	n.attrs[name] = a
}

// Attr returns the named attribute.
func (n *Node) Attr(name string) (Attr, bool) {
	a, ok := n.attrs[name]
	return a, ok
}

// AttrNames returns the node's attribute names in sorted order.
func (n *Node) AttrNames() []string {
	names := make([]string, 0, len(n.attrs))
	for name := range n.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RemoveChild removes the named child and its subtree.
// It reports whether the child existed.
func (n *Node) RemoveChild(name string) bool {
	child, ok := n.byName[name]
	if !ok {
		return false
	}
	delete(n.byName, name)
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			break
		}
	}
	child.parent = nil
	return true
}

func (n *Node) defineChild(name, typ string) *Node {
	child := &Node{name: name, typ: typ, parent: n}
	if n.byName == nil {
		n.byName = make(map[string]*Node)
	}
	n.byName[name] = child
	n.children = append(n.children, child)
	return child
}

// Stage is an in-memory scene: a prim tree rooted at the pseudo-root "/".
type Stage struct {
	// ID uniquely identifies this stage instance, surviving serialization.
	ID string

	root *Node
}

// New creates an empty stage with a fresh unique ID.
func New() *Stage {
	return &Stage{
		ID:   uuid.NewString(),
		root: &Node{},
	}
}

// Root returns the pseudo-root node at "/".
func (s *Stage) Root() *Node { return s.root }

// At returns the node at the given absolute path, or nil if absent.
func (s *Stage) At(path string) *Node {
	if path == "/" {
		return s.root
	}
	if !strings.HasPrefix(path, "/") {
		return nil
	}
	cur := s.root
	for _, segment := range strings.Split(path[1:], "/") {
		cur = cur.Child(segment)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Define returns the node at path, creating it (and any missing ancestors,
// as Xforms) if necessary. Define is idempotent: re-defining an existing
// prim with the same type returns it unchanged; a conflicting type fails
// with an INVALID_STAGE error.
func (s *Stage) Define(path, typ string) (*Node, error) {
	if err := errors.ValidatePrimPath(path); err != nil {
		return nil, err
	}
	if path == "/" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "cannot define the pseudo-root")
	}

	segments := strings.Split(path[1:], "/")
	cur := s.root
	for i, segment := range segments {
		next := cur.Child(segment)
		if next == nil {
			segmentType := TypeXform
			if i == len(segments)-1 {
				segmentType = typ
			}
			next = cur.defineChild(segment, segmentType)
		}
		cur = next
	}

	if cur.typ != typ {
		return nil, errors.New(errors.ErrCodeInvalidStage,
			"prim %s already defined with type %q, cannot redefine as %q", path, cur.typ, typ)
	}
	return cur, nil
}

// DeleteChildren removes all children of the prim at path.
// Deleting children of a missing prim is a no-op.
func (s *Stage) DeleteChildren(path string) {
	n := s.At(path)
	if n == nil {
		return
	}
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	n.byName = nil
}
