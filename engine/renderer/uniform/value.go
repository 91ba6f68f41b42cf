// Package uniform defines the values that flow into render material uniforms: a closed
// tagged union (Value), the mutable per-uniform buffer a material owns (Slot), and the
// declarative schema used to validate updates.
package uniform

import (
	"fmt"
	"slices"

	"github.com/chewxy/math32"
)

// Kind identifies which variant of the Value union is populated.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindScalar
	KindVec2
	KindVec3
	KindColor
	KindBool
	KindString
	KindTexture
	KindArray
)

var kindNames = [...]string{"invalid", "scalar", "vec2", "vec3", "color", "bool", "string", "texture", "array"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Vector reports whether values of this kind are stored as float components
// that a Slot can overwrite in place.
func (k Kind) Vector() bool {
	return k == KindVec2 || k == KindVec3 || k == KindColor
}

// Vec2 is a plain 2D vector input.
type Vec2 struct {
	X, Y float32
}

// Vec3 is a plain 3D vector input.
type Vec3 struct {
	X, Y, Z float32
}

// RGB is a normalized (0-1) colour input.
type RGB struct {
	R, G, B float32
}

// Texture is a reference to an already-resident texture. The core never loads or
// frees texture data; it only compares references.
type Texture struct {
	Name   string
	Width  int
	Height int
}

// Value is the closed set of things a uniform can hold. The zero Value is KindInvalid.
type Value struct {
	kind  Kind
	comps [3]float32
	b     bool
	s     string
	tex   *Texture
	elems []Value
}

// Scalar creates a scalar value.
func Scalar(f float32) Value {
	return Value{kind: KindScalar, comps: [3]float32{f}}
}

// Vector2 creates a 2D vector value.
func Vector2(x, y float32) Value {
	return Value{kind: KindVec2, comps: [3]float32{x, y}}
}

// Vector3 creates a 3D vector value.
func Vector3(x, y, z float32) Value {
	return Value{kind: KindVec3, comps: [3]float32{x, y, z}}
}

// Color creates a colour value from normalized components.
func Color(r, g, b float32) Value {
	return Value{kind: KindColor, comps: [3]float32{r, g, b}}
}

// Bool creates a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// String creates a string value (blend modes and other enumerations).
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// TextureRef creates a texture reference value.
func TextureRef(t *Texture) Value {
	return Value{kind: KindTexture, tex: t}
}

// Array creates an array value. The elements are copied.
func Array(elems ...Value) Value {
	out := make([]Value, len(elems))
	for i, e := range elems {
		out[i] = e.Clone()
	}
	return Value{kind: KindArray, elems: out}
}

func (v Value) Kind() Kind { return v.kind }

// Float returns the scalar component. Valid for KindScalar.
func (v Value) Float() float32 { return v.comps[0] }

// Components returns the raw float components (x/y/z or r/g/b).
func (v Value) Components() [3]float32 { return v.comps }

func (v Value) Vec2() Vec2 { return Vec2{v.comps[0], v.comps[1]} }

func (v Value) Vec3() Vec3 { return Vec3{v.comps[0], v.comps[1], v.comps[2]} }

func (v Value) RGB() RGB { return RGB{v.comps[0], v.comps[1], v.comps[2]} }

func (v Value) BoolValue() bool { return v.b }

func (v Value) Str() string { return v.s }

func (v Value) Texture() *Texture { return v.tex }

// Elems returns a copy of the array elements.
func (v Value) Elems() []Value {
	if v.elems == nil {
		return nil
	}
	out := make([]Value, len(v.elems))
	for i, e := range v.elems {
		out[i] = e.Clone()
	}
	return out
}

// Len returns the element count of an array value, 0 otherwise.
func (v Value) Len() int { return len(v.elems) }

// Finite reports whether every float component the kind uses is a finite number.
func (v Value) Finite() bool {
	n := 0
	switch v.kind {
	case KindScalar:
		n = 1
	case KindVec2:
		n = 2
	case KindVec3, KindColor:
		n = 3
	}
	for i := 0; i < n; i++ {
		if math32.IsNaN(v.comps[i]) || math32.IsInf(v.comps[i], 0) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	if v.elems != nil {
		v.elems = slices.Clone(v.elems)
		for i := range v.elems {
			v.elems[i] = v.elems[i].Clone()
		}
	}
	return v
}

// Equal reports whether v and o hold the same uniform value: primitive equality for
// scalars, booleans and strings, reference identity for textures, component-wise
// equality for vectors and colours, element-wise recursive equality for arrays.
// Values of different kinds are never equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindScalar:
		return v.comps[0] == o.comps[0]
	case KindVec2:
		return v.comps[0] == o.comps[0] && v.comps[1] == o.comps[1]
	case KindVec3, KindColor:
		return v.comps == o.comps
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	case KindTexture:
		return v.tex == o.tex
	case KindArray:
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case KindScalar:
		return fmt.Sprintf("%g", v.comps[0])
	case KindVec2:
		return fmt.Sprintf("vec2(%g, %g)", v.comps[0], v.comps[1])
	case KindVec3:
		return fmt.Sprintf("vec3(%g, %g, %g)", v.comps[0], v.comps[1], v.comps[2])
	case KindColor:
		return fmt.Sprintf("rgb(%g, %g, %g)", v.comps[0], v.comps[1], v.comps[2])
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindTexture:
		if v.tex == nil {
			return "texture(nil)"
		}
		return fmt.Sprintf("texture(%s)", v.tex.Name)
	case KindArray:
		return fmt.Sprintf("array(%d)", len(v.elems))
	}
	return "invalid"
}
