package shape

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

func TestGenerate_Count(t *testing.T) {
	for _, kind := range Kinds {
		for _, count := range []int{0, 1, 7, 500} {
			points := Generate(kind, count, 1.5)
			require.NotNil(t, points, "%v count=%d", kind, count)
			assert.Len(t, points, count, "%v count=%d", kind, count)
		}
	}
}

func TestGenerate_NegativeCountIsEmpty(t *testing.T) {
	assert.Empty(t, SpherePoints(-3, 1))
	assert.Empty(t, CubePoints(-3, 1))
}

func TestGenerate_UnknownKindPanics(t *testing.T) {
	assert.Panics(t, func() { Generate(Kind(0), 10, 1) })
}

func TestSpherePoints_RadiusWithinShell(t *testing.T) {
	for _, extent := range []float32{0.1, 1, 3.7} {
		for i, p := range SpherePoints(2000, extent) {
			r := p.Len()
			if r < 0.75*extent-eps || r > extent+eps {
				t.Fatalf("point %d of extent %v has radius %v", i, extent, r)
			}
		}
	}
}

func TestSpherePoints_CoversAllOctants(t *testing.T) {
	seen := map[[3]bool]bool{}
	for _, p := range SpherePoints(4000, 1) {
		seen[[3]bool{p.X() > 0, p.Y() > 0, p.Z() > 0}] = true
	}
	assert.Len(t, seen, 8)
}

func TestCubeFacePoint_OneCoordinateOnFace(t *testing.T) {
	const extent = float32(2)
	half := extent / 2
	for face := 0; face < 6; face++ {
		for n := 0; n < 200; n++ {
			p := cubeFacePoint(face, extent)
			onFace := 0
			for axis := 0; axis < 3; axis++ {
				require.LessOrEqual(t, math.Abs(float64(p[axis])), float64(half)+eps)
				if math.Abs(math.Abs(float64(p[axis]))-float64(half)) < eps {
					onFace++
				}
			}
			require.GreaterOrEqual(t, onFace, 1, "face %d point %v", face, p)

			axis := face / 2
			if face%2 == 0 {
				assert.InDelta(t, half, p[axis], eps)
			} else {
				assert.InDelta(t, -half, p[axis], eps)
			}
		}
	}
}

func TestCubePoints_DistanceBounds(t *testing.T) {
	const extent = float32(1)
	half := float64(extent / 2)
	for _, p := range CubePoints(2000, extent) {
		r := float64(p.Len())
		assert.GreaterOrEqual(t, r, half-eps)
		assert.LessOrEqual(t, r, half*math.Sqrt(3)+eps)
	}
}

func TestAppendCubePoints_SharedRotation(t *testing.T) {
	const extent = float32(1)
	half := float64(extent / 2)
	rot := RandomRotation()
	inv := rot.Inverse()
	for _, p := range appendCubePoints(nil, rot, 500, extent) {
		local := inv.Rotate(p)
		maxAbs := math.Max(math.Abs(float64(local.X())), math.Max(math.Abs(float64(local.Y())), math.Abs(float64(local.Z()))))
		assert.InDelta(t, half, maxAbs, 1e-3)
	}
}

func TestRandomRotation_IsUnitAndPreservesLength(t *testing.T) {
	v := mgl32.Vec3{0.3, -1.2, 2}
	for i := 0; i < 100; i++ {
		q := RandomRotation()
		assert.InDelta(t, 1, q.Len(), eps)
		assert.InDelta(t, v.Len(), q.Rotate(v).Len(), 1e-3)
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Sphere")
	require.NoError(t, err)
	assert.Equal(t, Sphere, k)

	k, err = ParseKind(" cube ")
	require.NoError(t, err)
	assert.Equal(t, Cube, k)

	_, err = ParseKind("torus")
	assert.Error(t, err)

	for _, k := range Kinds {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
		assert.True(t, k.Valid())
	}
	assert.False(t, Kind(0).Valid())
}

func TestRandomKind_ReturnsEveryKind(t *testing.T) {
	seen := map[Kind]bool{}
	for i := 0; i < 200; i++ {
		seen[RandomKind()] = true
	}
	assert.Len(t, seen, len(Kinds))
}
