// Package shape generates point clouds distributed over simple solids.
// Generators draw from the process-wide math/rand source and never fail.
package shape

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Kind selects the solid a burst is shaped like. The zero value is not a shape.
type Kind int

const (
	Sphere Kind = iota + 1
	Cube
)

// Kinds lists every generator in a stable order.
var Kinds = []Kind{Sphere, Cube}

func (k Kind) String() string {
	switch k {
	case Sphere:
		return "sphere"
	case Cube:
		return "cube"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) Valid() bool {
	return k == Sphere || k == Cube
}

// ParseKind accepts the lower-case names produced by String.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sphere":
		return Sphere, nil
	case "cube":
		return Cube, nil
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// RandomKind picks one of Kinds uniformly.
func RandomKind() Kind {
	return Kinds[rand.Intn(len(Kinds))]
}

// Generate returns count points for the given kind. Points are offsets from the
// burst origin. A non-positive count yields an empty slice.
func Generate(kind Kind, count int, extent float32) []mgl32.Vec3 {
	switch kind {
	case Sphere:
		return SpherePoints(count, extent)
	case Cube:
		return CubePoints(count, extent)
	}
	panic(fmt.Sprintf("shape: generator for %v not implemented", kind))
}

// SpherePoints scatters points through the outer quarter of a sphere of radius
// extent. Radius, polar and azimuth angles are sampled independently, which
// packs points toward the shell and the poles.
func SpherePoints(count int, extent float32) []mgl32.Vec3 {
	points := make([]mgl32.Vec3, 0, max(count, 0))
	for i := 0; i < count; i++ {
		radius := extent * (0.75 + rand.Float32()*0.25)
		theta := rand.Float64() * math.Pi   // polar
		phi := rand.Float64() * 2 * math.Pi // azimuth
		points = append(points, sphericalToCartesian(radius, theta, phi))
	}
	return points
}

// Same convention as three.js Spherical: theta from +Y, phi around Y from +Z.
func sphericalToCartesian(radius float32, theta, phi float64) mgl32.Vec3 {
	sinTheta := float32(math.Sin(theta))
	return mgl32.Vec3{
		radius * sinTheta * float32(math.Sin(phi)),
		radius * float32(math.Cos(theta)),
		radius * sinTheta * float32(math.Cos(phi)),
	}
}

// CubePoints places points on the faces of a cube with edge length extent.
// Every point of a call shares one random orientation.
func CubePoints(count int, extent float32) []mgl32.Vec3 {
	points := make([]mgl32.Vec3, 0, max(count, 0))
	if count <= 0 {
		return points
	}
	return appendCubePoints(points, RandomRotation(), count, extent)
}

func appendCubePoints(points []mgl32.Vec3, rot mgl32.Quat, count int, extent float32) []mgl32.Vec3 {
	for i := 0; i < count; i++ {
		points = append(points, rot.Rotate(cubeFacePoint(rand.Intn(6), extent)))
	}
	return points
}

// cubeFacePoint samples the face with the given index in [0,6). Faces come in
// pairs per axis: even indices are the positive side.
func cubeFacePoint(face int, extent float32) mgl32.Vec3 {
	half := extent / 2
	var p mgl32.Vec3
	for axis := 0; axis < 3; axis++ {
		p[axis] = (rand.Float32() - 0.5) * extent
	}
	axis := face / 2
	if face%2 == 0 {
		p[axis] = half
	} else {
		p[axis] = -half
	}
	return p
}

// RandomRotation returns a unit quaternion uniformly distributed over SO(3)
// (Shoemake's subgroup algorithm).
func RandomRotation() mgl32.Quat {
	u1 := rand.Float64()
	u2 := rand.Float64() * 2 * math.Pi
	u3 := rand.Float64() * 2 * math.Pi
	a := math.Sqrt(1 - u1)
	b := math.Sqrt(u1)
	return mgl32.Quat{
		W: float32(b * math.Cos(u3)),
		V: mgl32.Vec3{
			float32(a * math.Sin(u2)),
			float32(a * math.Cos(u2)),
			float32(b * math.Sin(u3)),
		},
	}.Normalize()
}
