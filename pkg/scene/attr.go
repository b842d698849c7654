package scene

import "github.com/stagekit/imageseq/pkg/layout"

// Vec2 is a 2-component vector, used for texture coordinates.
// It serializes to a JSON array [u, v].
type Vec2 [2]float64

// AttrType identifies the value type carried by an attribute.
type AttrType string

// Attribute value types the materializer needs.
const (
	AttrString      AttrType = "string"
	AttrAsset       AttrType = "asset" // file path to external content
	AttrInt         AttrType = "int"
	AttrFloat       AttrType = "float"
	AttrBool        AttrType = "bool"
	AttrVec3        AttrType = "vec3"
	AttrVec3Array   AttrType = "vec3[]"
	AttrVec2Array   AttrType = "vec2[]"
	AttrIntArray    AttrType = "int[]"
	AttrStringArray AttrType = "string[]"
)

// Attr is a typed attribute value attached to a prim.
type Attr struct {
	Type  AttrType
	Value any
}

// String creates a string attribute.
func String(v string) Attr { return Attr{Type: AttrString, Value: v} }

// Asset creates an asset-path attribute.
func Asset(path string) Attr { return Attr{Type: AttrAsset, Value: path} }

// Int creates an integer attribute.
func Int(v int) Attr { return Attr{Type: AttrInt, Value: v} }

// Float creates a float attribute.
func Float(v float64) Attr { return Attr{Type: AttrFloat, Value: v} }

// Bool creates a boolean attribute.
func Bool(v bool) Attr { return Attr{Type: AttrBool, Value: v} }

// V3 creates a vec3 attribute.
func V3(v layout.Vec3) Attr { return Attr{Type: AttrVec3, Value: v} }

// Vec3s creates a vec3-array attribute.
func Vec3s(v []layout.Vec3) Attr { return Attr{Type: AttrVec3Array, Value: v} }

// Vec2s creates a vec2-array attribute.
func Vec2s(v []Vec2) Attr { return Attr{Type: AttrVec2Array, Value: v} }

// Ints creates an integer-array attribute.
func Ints(v []int) Attr { return Attr{Type: AttrIntArray, Value: v} }

// Strings creates a string-array attribute.
func Strings(v []string) Attr { return Attr{Type: AttrStringArray, Value: v} }

// AsString returns the string value, if this is a string or asset attribute.
func (a Attr) AsString() (string, bool) {
	if a.Type != AttrString && a.Type != AttrAsset {
		return "", false
	}
	s, ok := a.Value.(string)
	return s, ok
}

// AsInt returns the integer value, if this is an int attribute.
func (a Attr) AsInt() (int, bool) {
	if a.Type != AttrInt {
		return 0, false
	}
	v, ok := a.Value.(int)
	return v, ok
}

// AsFloat returns the float value, if this is a float attribute.
func (a Attr) AsFloat() (float64, bool) {
	if a.Type != AttrFloat {
		return 0, false
	}
	v, ok := a.Value.(float64)
	return v, ok
}

// AsBool returns the boolean value, if this is a bool attribute.
func (a Attr) AsBool() (bool, bool) {
	if a.Type != AttrBool {
		return false, false
	}
	v, ok := a.Value.(bool)
	return v, ok
}

// AsVec3 returns the vec3 value, if this is a vec3 attribute.
func (a Attr) AsVec3() (layout.Vec3, bool) {
	if a.Type != AttrVec3 {
		return layout.Vec3{}, false
	}
	v, ok := a.Value.(layout.Vec3)
	return v, ok
}

// AsVec3s returns the vec3-array value, if this is a vec3[] attribute.
func (a Attr) AsVec3s() ([]layout.Vec3, bool) {
	if a.Type != AttrVec3Array {
		return nil, false
	}
	v, ok := a.Value.([]layout.Vec3)
	return v, ok
}

// AsVec2s returns the vec2-array value, if this is a vec2[] attribute.
func (a Attr) AsVec2s() ([]Vec2, bool) {
	if a.Type != AttrVec2Array {
		return nil, false
	}
	v, ok := a.Value.([]Vec2)
	return v, ok
}

// AsInts returns the integer-array value, if this is an int[] attribute.
func (a Attr) AsInts() ([]int, bool) {
	if a.Type != AttrIntArray {
		return nil, false
	}
	v, ok := a.Value.([]int)
	return v, ok
}

// AsStrings returns the string-array value, if this is a string[] attribute.
func (a Attr) AsStrings() ([]string, bool) {
	if a.Type != AttrStringArray {
		return nil, false
	}
	v, ok := a.Value.([]string)
	return v, ok
}
