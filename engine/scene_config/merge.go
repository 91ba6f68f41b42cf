package scene_config

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Carmen-Shannon/oxy-starfield/common/errors"
)

// Merge deep-merges patch over base. Nested maps merge key by key; arrays and scalars in the
// patch replace the base value wholesale, so no stale array element survives a merge.
// Unknown keys are ignored. A patch field whose value does not fit its target keeps the base
// value while the other fields still apply.
//
// Parameters:
//   - base: the configuration to merge onto, not modified
//   - patch: the partial override
//
// Returns:
//   - SceneConfiguration: the merged configuration
//   - error: a validation error naming every dropped field, or nil
func Merge(base SceneConfiguration, patch Patch) (SceneConfiguration, error) {
	if len(patch) == 0 {
		return base.Clone(), nil
	}
	baseMap, err := toMap(base)
	if err != nil {
		return base.Clone(), errors.WrapInternal("encode base configuration", err)
	}
	patchMap, err := toMap(map[string]any(patch))
	if err != nil {
		return base.Clone(), errors.Validationf("encode patch: %v", err)
	}
	mergeMaps(baseMap, patchMap)

	out := base.Clone()
	if err := decodeOnto(baseMap, &out); err != nil {
		return out, err
	}
	return out, nil
}

// mergeMaps merges src into dst. Only map values recurse; everything else is a leaf.
func mergeMaps(dst, src map[string]any) {
	for k, sv := range src {
		if sm, ok := sv.(map[string]any); ok {
			if dm, ok := dst[k].(map[string]any); ok {
				mergeMaps(dm, sm)
				continue
			}
		}
		dst[k] = sv
	}
}

// applyVariantPatch overlays patch on a copy of v field by field. Fields that do not fit keep
// the value from v.
func applyVariantPatch(v SceneVariant, patch Patch) (SceneVariant, error) {
	out := v.Clone()
	if len(patch) == 0 {
		return out, nil
	}
	if err := decodeOnto(map[string]any(patch), &out); err != nil {
		return out, err
	}
	return out, nil
}

// decodeOnto decodes src over the value dst points to. yaml.v3 keeps decoding past values of
// the wrong type and leaves their targets untouched, so dst only misses the fields reported in
// the returned error.
func decodeOnto(src map[string]any, dst any) error {
	data, err := yaml.Marshal(src)
	if err != nil {
		return errors.Validationf("encode patch: %v", err)
	}
	err = yaml.Unmarshal(data, dst)
	if terr, ok := err.(*yaml.TypeError); ok {
		return errors.Validationf("dropped patch fields: %s", strings.Join(terr.Errors, "; "))
	}
	if err != nil {
		return errors.Validationf("patch does not fit: %v", err)
	}
	return nil
}

func toMap(v any) (map[string]any, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any)
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
