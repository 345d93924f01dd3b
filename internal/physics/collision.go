package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type BlockStore interface {
	IsSolid(x, y, z int) bool
}

// Shape is the collision box of a body. Position is the centre of the bottom face.
type Shape struct {
	Width  float64
	Depth  float64
	Height float64
}

func DefaultShape() Shape {
	return Shape{Width: DefaultBodyWidth, Depth: DefaultBodyDepth, Height: DefaultBodyHeight}
}

type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

func (s Shape) AABBAt(pos mgl64.Vec3) AABB {
	halfW := s.Width / 2.0
	halfD := s.Depth / 2.0
	return AABB{
		Min: mgl64.Vec3{pos[0] - halfW, pos[1], pos[2] - halfD},
		Max: mgl64.Vec3{pos[0] + halfW, pos[1] + s.Height, pos[2] + halfD},
	}
}

func CollidesWithBlock(aabb AABB, blockStore BlockStore) bool {
	if blockStore == nil {
		return false
	}

	minX, maxX := floorForMin(aabb.Min[0]), floorForMax(aabb.Max[0])
	minY, maxY := floorForMin(aabb.Min[1]), floorForMax(aabb.Max[1])
	minZ, maxZ := floorForMin(aabb.Min[2]), floorForMax(aabb.Max[2])

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			for z := minZ; z <= maxZ; z++ {
				if !blockStore.IsSolid(x, y, z) {
					continue
				}
				block := AABB{
					Min: mgl64.Vec3{float64(x), float64(y), float64(z)},
					Max: mgl64.Vec3{float64(x + 1), float64(y + 1), float64(z + 1)},
				}
				if intersects(aabb, block) {
					return true
				}
			}
		}
	}

	return false
}

// ResolveMovement sweeps the shape along delta one axis at a time (Y, X, Z) and
// returns the final position and the displacement that was actually applied.
func ResolveMovement(pos, delta mgl64.Vec3, shape Shape, blockStore BlockStore) (mgl64.Vec3, mgl64.Vec3) {
	newPos := pos
	for _, axis := range [3]int{1, 0, 2} {
		allowed := resolveAxis(newPos, delta[axis], axis, shape, blockStore)
		newPos[axis] += allowed
	}
	return newPos, newPos.Sub(pos)
}

func resolveAxis(pos mgl64.Vec3, delta float64, axis int, shape Shape, blockStore BlockStore) float64 {
	if blockStore == nil || nearlyZero(delta) {
		return delta
	}

	aabb := shape.AABBAt(pos)
	u, v := otherAxes(axis)
	minU, maxU := floorForMin(aabb.Min[u]), floorForMax(aabb.Max[u])
	minV, maxV := floorForMin(aabb.Min[v]), floorForMax(aabb.Max[v])

	solidSlice := func(cell int) bool {
		var coord [3]int
		coord[axis] = cell
		for a := minU; a <= maxU; a++ {
			for b := minV; b <= maxV; b++ {
				coord[u] = a
				coord[v] = b
				if blockStore.IsSolid(coord[0], coord[1], coord[2]) {
					return true
				}
			}
		}
		return false
	}

	allowed := delta
	if delta > 0 {
		start := int(math.Floor(aabb.Max[axis]))
		end := int(math.Floor(aabb.Max[axis] + delta))
		for cell := start; cell <= end; cell++ {
			if !solidSlice(cell) {
				continue
			}
			if candidate := float64(cell) - aabb.Max[axis]; candidate < allowed {
				allowed = candidate
			}
			break
		}
	} else {
		start := int(math.Floor(aabb.Min[axis] - CollisionAxisTolerance))
		end := int(math.Floor(aabb.Min[axis] + delta))
		for cell := start; cell >= end; cell-- {
			if !solidSlice(cell) {
				continue
			}
			if candidate := float64(cell+1) - aabb.Min[axis]; candidate > allowed {
				allowed = candidate
			}
			break
		}
	}

	if nearlyEqual(allowed, delta) {
		return delta
	}
	return allowed
}

func otherAxes(axis int) (int, int) {
	switch axis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}

func floorForMin(v float64) int {
	return int(math.Floor(v + CollisionAxisTolerance))
}

func floorForMax(v float64) int {
	return int(math.Floor(v - CollisionAxisTolerance))
}

func intersects(a, b AABB) bool {
	return a.Min[0] < b.Max[0] &&
		a.Max[0] > b.Min[0] &&
		a.Min[1] < b.Max[1] &&
		a.Max[1] > b.Min[1] &&
		a.Min[2] < b.Max[2] &&
		a.Max[2] > b.Min[2]
}

func nearlyZero(v float64) bool {
	return math.Abs(v) <= CollisionAxisTolerance
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= CollisionAxisTolerance
}
