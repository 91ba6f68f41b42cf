package geometry

import "github.com/chewxy/math32"

const (
	radialSegments = 16
	sphereRings    = 12
	torusRadius    = 0.4
	torusTube      = 0.12
	torusTubeSegs  = 8
)

type meshBuilder struct {
	vertices []GPUVertex
	indices  []uint32
}

// tri appends a flat-shaded triangle with counter-clockwise winding.
func (b *meshBuilder) tri(p0, p1, p2 [3]float32) {
	n := normalize(cross(sub(p1, p0), sub(p2, p0)))
	base := uint32(len(b.vertices))
	b.vertices = append(b.vertices,
		GPUVertex{Position: p0, Normal: n},
		GPUVertex{Position: p1, Normal: n},
		GPUVertex{Position: p2, Normal: n},
	)
	b.indices = append(b.indices, base, base+1, base+2)
}

func (b *meshBuilder) quad(p0, p1, p2, p3 [3]float32) {
	b.tri(p0, p1, p2)
	b.tri(p0, p2, p3)
}

func buildMesh(kind Kind) ([]GPUVertex, []uint32) {
	b := &meshBuilder{}
	switch kind {
	case KindSphere:
		buildSphere(b)
	case KindOctahedron:
		buildOctahedron(b)
	case KindTetrahedron:
		buildTetrahedron(b)
	case KindCone:
		buildLathe(b, 0.5, 0)
	case KindCylinder:
		buildLathe(b, 0.5, 0.5)
	case KindTorus:
		buildTorus(b)
	default:
		buildBox(b)
	}
	return b.vertices, b.indices
}

func buildBox(b *meshBuilder) {
	const h = 0.5
	faces := [6][4][3]float32{
		{{h, -h, -h}, {h, h, -h}, {h, h, h}, {h, -h, h}},
		{{-h, -h, h}, {-h, h, h}, {-h, h, -h}, {-h, -h, -h}},
		{{-h, h, -h}, {-h, h, h}, {h, h, h}, {h, h, -h}},
		{{-h, -h, h}, {-h, -h, -h}, {h, -h, -h}, {h, -h, h}},
		{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}},
		{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}},
	}
	for _, f := range faces {
		b.quad(f[0], f[1], f[2], f[3])
	}
}

func buildSphere(b *meshBuilder) {
	const r = 0.5
	point := func(ring, seg int) [3]float32 {
		theta := math32.Pi * float32(ring) / sphereRings
		phi := 2 * math32.Pi * float32(seg) / radialSegments
		st, ct := math32.Sincos(theta)
		sp, cp := math32.Sincos(phi)
		return [3]float32{r * st * cp, r * ct, r * st * sp}
	}
	for ring := 0; ring < sphereRings; ring++ {
		for seg := 0; seg < radialSegments; seg++ {
			p00, p01 := point(ring, seg), point(ring, seg+1)
			p10, p11 := point(ring+1, seg), point(ring+1, seg+1)
			switch ring {
			case 0:
				b.tri(p00, p11, p10)
			case sphereRings - 1:
				b.tri(p00, p01, p10)
			default:
				b.quad(p00, p01, p11, p10)
			}
		}
	}
}

func buildOctahedron(b *meshBuilder) {
	const r = 0.5
	top, bottom := [3]float32{0, r, 0}, [3]float32{0, -r, 0}
	ring := [4][3]float32{{r, 0, 0}, {0, 0, r}, {-r, 0, 0}, {0, 0, -r}}
	for i := range ring {
		a, c := ring[i], ring[(i+1)%4]
		b.tri(top, c, a)
		b.tri(bottom, a, c)
	}
}

func buildTetrahedron(b *meshBuilder) {
	const s = 0.5 / 1.7320508
	v := [4][3]float32{{s, s, s}, {-s, -s, s}, {-s, s, -s}, {s, -s, -s}}
	b.tri(v[0], v[1], v[3])
	b.tri(v[0], v[2], v[1])
	b.tri(v[0], v[3], v[2])
	b.tri(v[1], v[2], v[3])
}

// buildLathe builds a capped surface of revolution between a bottom radius at y=-0.5 and
// a top radius at y=0.5. A top radius of 0 produces a cone.
func buildLathe(b *meshBuilder, bottomRadius, topRadius float32) {
	ringPoint := func(radius, y float32, seg int) [3]float32 {
		sp, cp := math32.Sincos(2 * math32.Pi * float32(seg) / radialSegments)
		return [3]float32{radius * cp, y, radius * sp}
	}
	bottomCenter, topCenter := [3]float32{0, -0.5, 0}, [3]float32{0, 0.5, 0}
	for seg := 0; seg < radialSegments; seg++ {
		b0, b1 := ringPoint(bottomRadius, -0.5, seg), ringPoint(bottomRadius, -0.5, seg+1)
		if topRadius == 0 {
			b.tri(b0, topCenter, b1)
		} else {
			t0, t1 := ringPoint(topRadius, 0.5, seg), ringPoint(topRadius, 0.5, seg+1)
			b.quad(b0, t0, t1, b1)
			b.tri(topCenter, t1, t0)
		}
		b.tri(bottomCenter, b0, b1)
	}
}

func buildTorus(b *meshBuilder) {
	point := func(seg, tube int) [3]float32 {
		su, cu := math32.Sincos(2 * math32.Pi * float32(seg) / radialSegments)
		sv, cv := math32.Sincos(2 * math32.Pi * float32(tube) / torusTubeSegs)
		rr := torusRadius + torusTube*cv
		return [3]float32{rr * cu, torusTube * sv, rr * su}
	}
	for seg := 0; seg < radialSegments; seg++ {
		for tube := 0; tube < torusTubeSegs; tube++ {
			b.quad(point(seg, tube), point(seg, tube+1), point(seg+1, tube+1), point(seg+1, tube))
		}
	}
}

func boundingRadius(vertices []GPUVertex) float32 {
	var maxSq float32
	for _, v := range vertices {
		maxSq = math32.Max(maxSq, dot(v.Position, v.Position))
	}
	return math32.Sqrt(maxSq)
}

func sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func dot(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(v [3]float32) [3]float32 {
	l := math32.Sqrt(dot(v, v))
	if l == 0 {
		return v
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
