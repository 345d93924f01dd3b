package world

import (
	"sync"
)

const (
	SectionSize      = 16
	BlocksPerSection = SectionSize * SectionSize * SectionSize

	DefaultMinY   = -16
	DefaultHeight = 64
)

type Bounds struct {
	MinY   int
	Height int
}

func DefaultBounds() Bounds {
	return Bounds{MinY: DefaultMinY, Height: DefaultHeight}
}

func (b Bounds) MaxY() int {
	return b.MinY + b.Height - 1
}

func (b Bounds) Contains(y int) bool {
	return y >= b.MinY && y <= b.MaxY()
}

type ChunkPos struct {
	X int32
	Z int32
}

type chunk struct {
	// sections are allocated on first write.
	sections [][]bool
}

// Box is an inclusive block range.
type Box struct {
	Min [3]int
	Max [3]int
}

// Grid is a sparse voxel store of solid blocks, laid out in 16×16 columns of
// 16-high sections. It satisfies physics.BlockStore.
type Grid struct {
	mu     sync.RWMutex
	bounds Bounds
	chunks map[ChunkPos]*chunk
	solid  int
}

func NewGrid(bounds Bounds) *Grid {
	if bounds.Height <= 0 {
		bounds = DefaultBounds()
	}
	// Round the height up to whole sections.
	if rem := bounds.Height % SectionSize; rem != 0 {
		bounds.Height += SectionSize - rem
	}
	return &Grid{
		bounds: bounds,
		chunks: make(map[ChunkPos]*chunk),
	}
}

func (g *Grid) Bounds() Bounds {
	return g.bounds
}

func (g *Grid) IsSolid(x, y, z int) bool {
	if g == nil || !g.bounds.Contains(y) {
		return false
	}
	pos, sectionIndex, blockIndex := g.locate(x, y, z)

	g.mu.RLock()
	defer g.mu.RUnlock()

	c, ok := g.chunks[pos]
	if !ok {
		return false
	}
	section := c.sections[sectionIndex]
	if section == nil {
		return false
	}
	return section[blockIndex]
}

// SetSolid reports false when y lies outside the grid bounds.
func (g *Grid) SetSolid(x, y, z int, solid bool) bool {
	if !g.bounds.Contains(y) {
		return false
	}
	pos, sectionIndex, blockIndex := g.locate(x, y, z)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.setLocked(pos, sectionIndex, blockIndex, solid)
	return true
}

// Fill sets every block in box, clipped vertically to the grid bounds, and
// returns how many blocks changed.
func (g *Grid) Fill(box Box, solid bool) int {
	lo, hi := box.Min, box.Max
	for i := 0; i < 3; i++ {
		if lo[i] > hi[i] {
			lo[i], hi[i] = hi[i], lo[i]
		}
	}
	lo[1] = max(lo[1], g.bounds.MinY)
	hi[1] = min(hi[1], g.bounds.MaxY())

	g.mu.Lock()
	defer g.mu.Unlock()

	changed := 0
	for x := lo[0]; x <= hi[0]; x++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				pos, sectionIndex, blockIndex := g.locate(x, y, z)
				if g.setLocked(pos, sectionIndex, blockIndex, solid) {
					changed++
				}
			}
		}
	}
	return changed
}

func (g *Grid) SolidCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.solid
}

func (g *Grid) LoadedChunkCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.chunks)
}

func (g *Grid) setLocked(pos ChunkPos, sectionIndex, blockIndex int, solid bool) bool {
	c, ok := g.chunks[pos]
	if !ok {
		if !solid {
			return false
		}
		c = &chunk{sections: make([][]bool, g.bounds.Height/SectionSize)}
		g.chunks[pos] = c
	}
	section := c.sections[sectionIndex]
	if section == nil {
		if !solid {
			return false
		}
		section = make([]bool, BlocksPerSection)
		c.sections[sectionIndex] = section
	}
	if section[blockIndex] == solid {
		return false
	}
	section[blockIndex] = solid
	if solid {
		g.solid++
	} else {
		g.solid--
	}
	return true
}

func (g *Grid) locate(x, y, z int) (ChunkPos, int, int) {
	localX := floorMod16(x)
	localZ := floorMod16(z)
	sectionIndex := (y - g.bounds.MinY) / SectionSize
	localY := (y - g.bounds.MinY) % SectionSize
	blockIndex := localY*SectionSize*SectionSize + localZ*SectionSize + localX
	return ChunkPos{X: int32(floorDiv16(x)), Z: int32(floorDiv16(z))}, sectionIndex, blockIndex
}

func floorDiv16(v int) int {
	q := v / 16
	if v < 0 && v%16 != 0 {
		q--
	}
	return q
}

func floorMod16(v int) int {
	m := v % 16
	if m < 0 {
		m += 16
	}
	return m
}
