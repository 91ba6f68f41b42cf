package uniform

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-starfield/common/errors"
)

// FieldType is the declared type of a uniform in a material schema.
type FieldType string

const (
	FieldNumber    FieldType = "number"
	FieldVector2   FieldType = "vector2"
	FieldVector3   FieldType = "vector3"
	FieldBoolean   FieldType = "boolean"
	FieldTexture   FieldType = "texture"
	FieldBlendMode FieldType = "blendMode"
	FieldIntensity FieldType = "intensity"
	FieldColor     FieldType = "color"
)

// Field describes the validation rules for a single uniform.
type Field struct {
	Type FieldType
	Min  *float64
	Max  *float64
	Enum []any
}

// Schema maps uniform names to their declared fields. A nil or empty schema
// disables validation for every uniform of the material.
type Schema map[string]Field

// Bounds returns a pointer to f, for use in Field.Min and Field.Max literals.
func Bounds(f float64) *float64 {
	return &f
}

// Validate checks v against the field's type, range and enumeration.
//
// Parameters:
//   - v: the converted value to check
//
// Returns:
//   - error: a validation AppError describing the first failed rule, or nil
func (f Field) Validate(v Value) error {
	switch f.Type {
	case FieldNumber:
		if v.kind != KindScalar || !v.Finite() {
			return errors.Validationf("expected a finite number, got %s", v)
		}
	case FieldVector2:
		if v.kind != KindVec2 || !v.Finite() {
			return errors.Validationf("expected a 2D vector, got %s", v.kind)
		}
	case FieldVector3:
		if v.kind != KindVec3 || !v.Finite() {
			return errors.Validationf("expected a 3D vector, got %s", v.kind)
		}
	case FieldBoolean:
		if v.kind != KindBool {
			return errors.Validationf("expected a boolean, got %s", v.kind)
		}
	case FieldTexture:
		if v.kind != KindTexture || v.tex == nil {
			return errors.Validationf("expected a texture, got %s", v.kind)
		}
	case FieldBlendMode:
		if v.kind != KindString {
			return errors.Validationf("expected a blend mode string, got %s", v.kind)
		}
	case FieldIntensity:
		if v.kind != KindScalar || !v.Finite() || v.comps[0] < 0 || v.comps[0] > 1 {
			return errors.Validationf("expected an intensity in [0,1], got %s", v)
		}
	case FieldColor:
		if v.kind != KindColor || !v.Finite() {
			return errors.Validationf("expected a colour, got %s", v.kind)
		}
	case "":
	default:
		return errors.Validationf("unknown field type %q", f.Type)
	}

	if v.kind == KindScalar {
		n := float64(v.comps[0])
		if f.Min != nil && n < *f.Min {
			return errors.Validationf("%g is below minimum %g", n, *f.Min)
		}
		if f.Max != nil && n > *f.Max {
			return errors.Validationf("%g is above maximum %g", n, *f.Max)
		}
	}

	if len(f.Enum) > 0 {
		allowed := slices.ContainsFunc(f.Enum, func(e any) bool {
			ev, err := FromAny(e)
			return err == nil && ev.Equal(v)
		})
		if !allowed {
			return errors.Validationf("%s is not one of the allowed values", v)
		}
	}
	return nil
}
