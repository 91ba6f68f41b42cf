package common

import "github.com/chewxy/math32"

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   [3]float32
	Distance float32
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumFromMatrix extracts normalized frustum planes from a column-major view-projection
// matrix (Gribb/Hartmann). Each plane is row3 plus or minus row0..row2, except the near
// plane which is row2 alone for WebGPU's [0, 1] depth range.
//
// Parameters:
//   - viewProj: 16 float32 values, column-major
//
// Returns:
//   - Frustum: the extracted frustum
func FrustumFromMatrix(viewProj []float32) Frustum {
	var f Frustum
	row := func(r int) [4]float32 {
		return [4]float32{viewProj[r], viewProj[4+r], viewProj[8+r], viewProj[12+r]}
	}
	w := row(3)
	for axis := 0; axis < 3; axis++ {
		r := row(axis)
		for side := 0; side < 2; side++ {
			sign := float32(1)
			if side == 1 {
				sign = -1
			}
			p := &f.Planes[axis*2+side]
			base := w
			if axis == 2 && side == 0 {
				base = [4]float32{}
			}
			p.Normal = [3]float32{base[0] + sign*r[0], base[1] + sign*r[1], base[2] + sign*r[2]}
			p.Distance = base[3] + sign*r[3]
			length := math32.Sqrt(dot3(p.Normal, p.Normal))
			if length > 0 {
				p.Normal[0] /= length
				p.Normal[1] /= length
				p.Normal[2] /= length
				p.Distance /= length
			}
		}
	}
	return f
}

// IntersectsSphere reports whether a bounding sphere is at least partly inside the frustum.
//
// Parameters:
//   - center: sphere center in world space
//   - radius: sphere radius
//
// Returns:
//   - bool: false only when the sphere is fully outside one plane
func (f *Frustum) IntersectsSphere(center [3]float32, radius float32) bool {
	for _, p := range f.Planes {
		if dot3(p.Normal, center)+p.Distance < -radius {
			return false
		}
	}
	return true
}
