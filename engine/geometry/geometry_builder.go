package geometry

import "github.com/Carmen-Shannon/oxy-starfield/common"

// GeometryBuilderOption is a functional option for configuring a Geometry via NewGeometry.
type GeometryBuilderOption func(*geometry)

// WithName is an option builder that sets the geometry name.
//
// Parameters:
//   - name: the geometry name
//
// Returns:
//   - GeometryBuilderOption: a function that applies the name option
func WithName(name string) GeometryBuilderOption {
	return func(g *geometry) {
		g.name = name
	}
}

// WithKind is an option builder that selects the primitive mesh.
//
// Parameters:
//   - kind: the primitive kind
//
// Returns:
//   - GeometryBuilderOption: a function that applies the kind option
func WithKind(kind Kind) GeometryBuilderOption {
	return func(g *geometry) {
		g.mesh = &meshData{kind: kind}
	}
}

// WithTracker is an option builder that counts the geometry's creation and release.
//
// Parameters:
//   - tracker: the resource tracker, may be nil
//
// Returns:
//   - GeometryBuilderOption: a function that applies the tracker option
func WithTracker(tracker *common.ResourceTracker) GeometryBuilderOption {
	return func(g *geometry) {
		g.tracker = tracker
	}
}
