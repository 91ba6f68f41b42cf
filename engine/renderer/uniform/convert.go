package uniform

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Carmen-Shannon/oxy-starfield/common/errors"
)

// FromAny converts a loosely typed Go value into a Value.
//
// Supported inputs: Value, numeric types, bool, string, Vec2, Vec3, RGB (and pointers to
// them), *Texture, numeric slices, []Value, []any, and map[string]any objects carrying
// x/y[/z] or r/g/b keys.
//
// Parameters:
//   - in: the value to convert
//
// Returns:
//   - Value: the converted value
//   - error: a validation error when in has no uniform representation
func FromAny(in any) (Value, error) {
	switch v := in.(type) {
	case Value:
		return v.Clone(), nil
	case *Value:
		if v == nil {
			break
		}
		return v.Clone(), nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case Vec2:
		return Vector2(v.X, v.Y), nil
	case *Vec2:
		if v == nil {
			break
		}
		return Vector2(v.X, v.Y), nil
	case Vec3:
		return Vector3(v.X, v.Y, v.Z), nil
	case *Vec3:
		if v == nil {
			break
		}
		return Vector3(v.X, v.Y, v.Z), nil
	case RGB:
		return Color(v.R, v.G, v.B), nil
	case *RGB:
		if v == nil {
			break
		}
		return Color(v.R, v.G, v.B), nil
	case *Texture:
		return TextureRef(v), nil
	case []Value:
		return Array(v...), nil
	case []float32:
		elems := make([]Value, len(v))
		for i, f := range v {
			elems[i] = Scalar(f)
		}
		return Value{kind: KindArray, elems: elems}, nil
	case []float64:
		elems := make([]Value, len(v))
		for i, f := range v {
			elems[i] = Scalar(float32(f))
		}
		return Value{kind: KindArray, elems: elems}, nil
	case []any:
		elems := make([]Value, len(v))
		for i, e := range v {
			ev, err := FromAny(e)
			if err != nil {
				return Value{}, errors.Validationf("array element %d: %v", i, err)
			}
			elems[i] = ev
		}
		return Value{kind: KindArray, elems: elems}, nil
	case map[string]any:
		return fromObject(v)
	}
	if f, ok := toFloat(in); ok {
		return Scalar(f), nil
	}
	return Value{}, errors.Validationf("unsupported uniform value of type %T", in)
}

// ColorFromAny coerces a colour-like input into a normalized (0-1) KindColor value.
//
// Accepted forms: hex strings ("#ff0000", "ff0000", "#f00"), RGB, Vec3, map[string]any with
// r/g/b or x/y/z keys, 3-element numeric sequences, and Values of kind Color or Vec3.
//
// Parameters:
//   - in: the colour-like value
//
// Returns:
//   - Value: the normalized colour
//   - error: a validation error when in cannot be read as a colour
func ColorFromAny(in any) (Value, error) {
	switch v := in.(type) {
	case string:
		return ParseHex(v)
	case RGB:
		return Color(v.R, v.G, v.B), nil
	case *RGB:
		if v != nil {
			return Color(v.R, v.G, v.B), nil
		}
	case Vec3:
		return Color(v.X, v.Y, v.Z), nil
	case *Vec3:
		if v != nil {
			return Color(v.X, v.Y, v.Z), nil
		}
	case [3]float32:
		return Color(v[0], v[1], v[2]), nil
	case Value:
		if v.kind == KindColor || v.kind == KindVec3 {
			return Color(v.comps[0], v.comps[1], v.comps[2]), nil
		}
		if v.kind == KindString {
			return ParseHex(v.s)
		}
		if v.kind == KindArray {
			return colorFromElems(v.elems)
		}
	case map[string]any:
		if c, ok := readComponents(v, "r", "g", "b"); ok {
			return Color(c[0], c[1], c[2]), nil
		}
		if c, ok := readComponents(v, "x", "y", "z"); ok {
			return Color(c[0], c[1], c[2]), nil
		}
	default:
		if seq, err := FromAny(in); err == nil && seq.kind == KindArray {
			return colorFromElems(seq.elems)
		}
	}
	return Value{}, errors.Validationf("cannot interpret %T as a colour", in)
}

// VectorFromAny coerces a vector-like input into a value of exactly the requested vector kind.
//
// Accepted forms: Vec2, Vec3, RGB, [2]float32, [3]float32, numeric sequences, map[string]any
// with x/y[/z] keys, and Values of any vector kind or of an array of scalars. A missing z
// component reads as 0 when a KindVec3 is requested. A KindVec2 needs exactly two components,
// although an object's z key is ignored.
//
// Parameters:
//   - in: the vector-like value
//   - kind: KindVec2 or KindVec3
//
// Returns:
//   - Value: the vector of the requested kind
//   - error: a validation error when in cannot be read as that vector
func VectorFromAny(in any, kind Kind) (Value, error) {
	if kind != KindVec2 && kind != KindVec3 {
		return Value{}, errors.Validationf("%s is not a vector kind", kind)
	}

	var comps []float32
	switch v := in.(type) {
	case Vec2:
		comps = []float32{v.X, v.Y}
	case *Vec2:
		if v != nil {
			comps = []float32{v.X, v.Y}
		}
	case Vec3:
		comps = []float32{v.X, v.Y, v.Z}
	case *Vec3:
		if v != nil {
			comps = []float32{v.X, v.Y, v.Z}
		}
	case RGB:
		comps = []float32{v.R, v.G, v.B}
	case [2]float32:
		comps = v[:]
	case [3]float32:
		comps = v[:]
	case Value:
		switch {
		case v.kind == KindVec2:
			comps = v.comps[:2]
		case v.kind.Vector():
			comps = v.comps[:]
		case v.kind == KindArray:
			return vectorFromElems(v.elems, kind)
		}
	case map[string]any:
		c, ok := readComponents(v, "x", "y")
		if !ok {
			return Value{}, errors.Validationf("vector object needs numeric x and y components")
		}
		comps = c[:2]
		if z, ok := v["z"]; ok && kind == KindVec3 {
			f, ok := toFloat(z)
			if !ok {
				return Value{}, errors.Validationf("vector component z is %T, want a number", z)
			}
			comps = append(comps, f)
		}
	default:
		if seq, err := FromAny(in); err == nil && seq.kind == KindArray {
			return vectorFromElems(seq.elems, kind)
		}
	}
	if comps == nil {
		return Value{}, errors.Validationf("cannot interpret %T as a %s", in, kind)
	}
	return vectorOf(comps, kind)
}

func vectorFromElems(elems []Value, kind Kind) (Value, error) {
	comps := make([]float32, len(elems))
	for i, e := range elems {
		if e.kind != KindScalar {
			return Value{}, errors.Validationf("vector element %d is %s, want scalar", i, e.kind)
		}
		comps[i] = e.comps[0]
	}
	return vectorOf(comps, kind)
}

func vectorOf(comps []float32, kind Kind) (Value, error) {
	switch {
	case kind == KindVec2 && len(comps) == 2:
		return Vector2(comps[0], comps[1]), nil
	case kind == KindVec3 && len(comps) == 2:
		return Vector3(comps[0], comps[1], 0), nil
	case kind == KindVec3 && len(comps) == 3:
		return Vector3(comps[0], comps[1], comps[2]), nil
	}
	return Value{}, errors.Validationf("%s needs %d components, got %d", kind, kindComponents(kind), len(comps))
}

func kindComponents(kind Kind) int {
	if kind == KindVec2 {
		return 2
	}
	return 3
}

// ParseHex parses a CSS-style hex colour into a normalized colour value.
//
// Parameters:
//   - hex: "#rrggbb" or "#rgb", the leading '#' is optional
//
// Returns:
//   - Value: the normalized colour
//   - error: a validation error for malformed input
func ParseHex(hex string) (Value, error) {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Value{}, errors.Validationf("invalid hex colour %q", hex)
	}
	return Color(float32(c.R), float32(c.G), float32(c.B)), nil
}

// Hex formats a colour value as "#rrggbb".
func Hex(v Value) string {
	c := colorful.Color{R: float64(v.comps[0]), G: float64(v.comps[1]), B: float64(v.comps[2])}
	return c.Clamped().Hex()
}

func colorFromElems(elems []Value) (Value, error) {
	if len(elems) != 3 {
		return Value{}, errors.Validationf("colour sequence needs 3 elements, got %d", len(elems))
	}
	var c [3]float32
	for i, e := range elems {
		if e.kind != KindScalar {
			return Value{}, errors.Validationf("colour element %d is %s, want scalar", i, e.kind)
		}
		c[i] = e.comps[0]
	}
	return Color(c[0], c[1], c[2]), nil
}

func fromObject(m map[string]any) (Value, error) {
	if c, ok := readComponents(m, "r", "g", "b"); ok {
		return Color(c[0], c[1], c[2]), nil
	}
	if c, ok := readComponents(m, "x", "y", "z"); ok {
		return Vector3(c[0], c[1], c[2]), nil
	}
	if c, ok := readComponents(m, "x", "y"); ok {
		return Vector2(c[0], c[1]), nil
	}
	return Value{}, errors.Validationf("object has neither x/y[/z] nor r/g/b components")
}

func readComponents(m map[string]any, keys ...string) ([3]float32, bool) {
	var out [3]float32
	for i, k := range keys {
		raw, ok := m[k]
		if !ok {
			return out, false
		}
		f, ok := toFloat(raw)
		if !ok {
			return out, false
		}
		out[i] = f
	}
	return out, true
}

func toFloat(in any) (float32, bool) {
	switch n := in.(type) {
	case float32:
		return n, true
	case float64:
		return float32(n), true
	case int:
		return float32(n), true
	case int8:
		return float32(n), true
	case int16:
		return float32(n), true
	case int32:
		return float32(n), true
	case int64:
		return float32(n), true
	case uint:
		return float32(n), true
	case uint8:
		return float32(n), true
	case uint16:
		return float32(n), true
	case uint32:
		return float32(n), true
	case uint64:
		return float32(n), true
	}
	return 0, false
}
