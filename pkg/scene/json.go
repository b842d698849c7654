package scene

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/stagekit/imageseq/pkg/errors"
	"github.com/stagekit/imageseq/pkg/layout"
)

// stageJSON is the canonical serialization format for stages.
// Attributes are sorted by name and children keep definition order, so
// marshal → unmarshal → marshal is byte-for-byte stable.
type stageJSON struct {
	ID   string   `json:"id"`
	Root nodeJSON `json:"root"`
}

type nodeJSON struct {
	Name     string     `json:"name,omitempty"`
	Type     string     `json:"type,omitempty"`
	Attrs    []attrJSON `json:"attrs,omitempty"`
	Children []nodeJSON `json:"children,omitempty"`
}

type attrJSON struct {
	Name  string          `json:"name"`
	Type  AttrType        `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalStage encodes a stage as indented JSON.
func MarshalStage(st *Stage) ([]byte, error) {
	root, err := nodeToJSON(st.Root())
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(stageJSON{ID: st.ID, Root: root}, "", "  ")
}

// UnmarshalStage decodes a stage from its JSON form.
func UnmarshalStage(data []byte) (*Stage, error) {
	var sj stageJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidStage, err, "decode stage")
	}
	if sj.ID == "" {
		return nil, errors.New(errors.ErrCodeInvalidStage, "stage is missing an id")
	}

	st := &Stage{ID: sj.ID, root: &Node{}}
	if err := attachChildren(st.root, sj.Root.Children); err != nil {
		return nil, err
	}
	if err := setAttrs(st.root, sj.Root.Attrs); err != nil {
		return nil, err
	}
	return st, nil
}

// WriteStageFile writes a stage to path as JSON.
func WriteStageFile(st *Stage, path string) error {
	data, err := MarshalStage(st)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadStageFile reads a stage from a JSON file at path.
func ReadStageFile(path string) (*Stage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "stage %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	st, err := UnmarshalStage(data)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", path, err)
	}
	return st, nil
}

func nodeToJSON(n *Node) (nodeJSON, error) {
	nj := nodeJSON{Name: n.Name(), Type: n.Type()}

	for _, name := range n.AttrNames() {
		a, _ := n.Attr(name)
		raw, err := json.Marshal(a.Value)
		if err != nil {
			return nodeJSON{}, fmt.Errorf("encode attribute %s on %s: %w", name, n.Path(), err)
		}
		nj.Attrs = append(nj.Attrs, attrJSON{Name: name, Type: a.Type, Value: raw})
	}

	for _, child := range n.Children() {
		cj, err := nodeToJSON(child)
		if err != nil {
			return nodeJSON{}, err
		}
		nj.Children = append(nj.Children, cj)
	}
	return nj, nil
}

func attachChildren(parent *Node, children []nodeJSON) error {
	for _, cj := range children {
		if cj.Name == "" {
			return errors.New(errors.ErrCodeInvalidStage,
				"child of %s is missing a name", parent.Path())
		}
		if parent.Child(cj.Name) != nil {
			return errors.New(errors.ErrCodeInvalidStage,
				"duplicate prim %s under %s", cj.Name, parent.Path())
		}
		child := parent.defineChild(cj.Name, cj.Type)
		if err := setAttrs(child, cj.Attrs); err != nil {
			return err
		}
		if err := attachChildren(child, cj.Children); err != nil {
			return err
		}
	}
	return nil
}

func setAttrs(n *Node, attrs []attrJSON) error {
	for _, aj := range attrs {
		a, err := decodeAttr(aj)
		if err != nil {
			return fmt.Errorf("attribute %s on %s: %w", aj.Name, n.Path(), err)
		}
		n.Set(aj.Name, a)
	}
	return nil
}

// decodeAttr reconstructs a typed attribute from its JSON form.
func decodeAttr(aj attrJSON) (Attr, error) {
	switch aj.Type {
	case AttrString, AttrAsset:
		var v string
		if err := json.Unmarshal(aj.Value, &v); err != nil {
			return Attr{}, err
		}
		return Attr{Type: aj.Type, Value: v}, nil
	case AttrInt:
		var v int
		if err := json.Unmarshal(aj.Value, &v); err != nil {
			return Attr{}, err
		}
		return Int(v), nil
	case AttrFloat:
		var v float64
		if err := json.Unmarshal(aj.Value, &v); err != nil {
			return Attr{}, err
		}
		return Float(v), nil
	case AttrBool:
		var v bool
		if err := json.Unmarshal(aj.Value, &v); err != nil {
			return Attr{}, err
		}
		return Bool(v), nil
	case AttrVec3:
		var v layout.Vec3
		if err := json.Unmarshal(aj.Value, &v); err != nil {
			return Attr{}, err
		}
		return V3(v), nil
	case AttrVec3Array:
		var v []layout.Vec3
		if err := json.Unmarshal(aj.Value, &v); err != nil {
			return Attr{}, err
		}
		return Vec3s(v), nil
	case AttrVec2Array:
		var v []Vec2
		if err := json.Unmarshal(aj.Value, &v); err != nil {
			return Attr{}, err
		}
		return Vec2s(v), nil
	case AttrIntArray:
		var v []int
		if err := json.Unmarshal(aj.Value, &v); err != nil {
			return Attr{}, err
		}
		return Ints(v), nil
	case AttrStringArray:
		var v []string
		if err := json.Unmarshal(aj.Value, &v); err != nil {
			return Attr{}, err
		}
		return Strings(v), nil
	default:
		return Attr{}, errors.New(errors.ErrCodeUnsupported, "unknown attribute type %q", aj.Type)
	}
}
