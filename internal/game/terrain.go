package game

import "math"

const (
	// contactRefineIterations / contactRefineTolerance control the bisection
	// that pins down the terrain contact point along a sampled path.
	contactRefineIterations = 12
	contactRefineTolerance  = 1e-4

	// walkableMargin is the extra distance backed off from a refined contact
	// so the result lies strictly on the walkable side.
	walkableMargin = 0.01

	// raycastBackoff is the distance backed off from a raycast hit along the
	// direction of travel.
	raycastBackoff = 0.02
)

// TerrainMap is the authoritative per-cell terrain representation. Grid
// geometry (size, cell size, world-space origin) is fixed at construction;
// cell contents are mutable through SetTile.
type TerrainMap struct {
	cols     int
	rows     int
	cellSize float64
	origin   Vec           // world-space position of cell (0,0)'s min corner
	cells    []TerrainType // row-major: index = row*cols + col
}

// NewTerrainMap creates a map of all-grass cells.
func NewTerrainMap(cols, rows int, cellSize float64, origin Vec) *TerrainMap {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if cellSize <= 0 {
		cellSize = 1
	}
	return &TerrainMap{
		cols:     cols,
		rows:     rows,
		cellSize: cellSize,
		origin:   origin,
		cells:    make([]TerrainType, cols*rows),
	}
}

func (tm *TerrainMap) Cols() int         { return tm.cols }
func (tm *TerrainMap) Rows() int         { return tm.rows }
func (tm *TerrainMap) CellSize() float64 { return tm.cellSize }
func (tm *TerrainMap) Origin() Vec       { return tm.origin }

// Max returns the world-space max corner of the map.
func (tm *TerrainMap) Max() Vec {
	return Vec{
		X: tm.origin.X + float64(tm.cols)*tm.cellSize,
		Y: tm.origin.Y + float64(tm.rows)*tm.cellSize,
	}
}

func (tm *TerrainMap) inBounds(col, row int) bool {
	return col >= 0 && col < tm.cols && row >= 0 && row < tm.rows
}

// TileAt returns the terrain at (col, row); out of bounds reads TerrainVoid.
func (tm *TerrainMap) TileAt(col, row int) TerrainType {
	if !tm.inBounds(col, row) {
		return TerrainVoid
	}
	return tm.cells[row*tm.cols+col]
}

// SetTile writes the terrain at (col, row). Out of bounds writes are ignored.
func (tm *TerrainMap) SetTile(col, row int, t TerrainType) {
	if !tm.inBounds(col, row) {
		return
	}
	tm.cells[row*tm.cols+col] = t
}

// WorldToCell maps a world position to grid indices. The result may be out
// of bounds; pair with TileAt which handles that.
func (tm *TerrainMap) WorldToCell(p Vec) (col, row int) {
	col = int(math.Floor((p.X - tm.origin.X) / tm.cellSize))
	row = int(math.Floor((p.Y - tm.origin.Y) / tm.cellSize))
	return col, row
}

// cellBounds returns the world-space AABB of cell (col, row).
func (tm *TerrainMap) cellBounds(col, row int) (min, max Vec) {
	min = Vec{
		X: tm.origin.X + float64(col)*tm.cellSize,
		Y: tm.origin.Y + float64(row)*tm.cellSize,
	}
	max = Vec{X: min.X + tm.cellSize, Y: min.Y + tm.cellSize}
	return min, max
}

// TerrainAt is the point lookup. Positions outside the map read the
// impassable TerrainVoid sentinel.
func (tm *TerrainMap) TerrainAt(p Vec) TerrainType {
	col, row := tm.WorldToCell(p)
	return tm.TileAt(col, row)
}

// forEachOverlappedCell visits every cell whose square bounds intersect the
// circle of radius r at p, using a closest-point-on-AABB distance test.
// Returns the number of cells visited; fn returning false stops the walk.
func (tm *TerrainMap) forEachOverlappedCell(p Vec, r float64, fn func(col, row int) bool) int {
	colMin := int(math.Floor((p.X - r - tm.origin.X) / tm.cellSize))
	colMax := int(math.Floor((p.X + r - tm.origin.X) / tm.cellSize))
	rowMin := int(math.Floor((p.Y - r - tm.origin.Y) / tm.cellSize))
	rowMax := int(math.Floor((p.Y + r - tm.origin.Y) / tm.cellSize))

	visited := 0
	for row := rowMin; row <= rowMax; row++ {
		for col := colMin; col <= colMax; col++ {
			min, max := tm.cellBounds(col, row)
			cx := clamp(p.X, min.X, max.X)
			cy := clamp(p.Y, min.Y, max.Y)
			dx := p.X - cx
			dy := p.Y - cy
			if dx*dx+dy*dy > r*r {
				continue
			}
			visited++
			if !fn(col, row) {
				return visited
			}
		}
	}
	return visited
}

// IsWalkable reports whether a unit of the given radius can stand at p.
// Every cell under the unit's footprint must be walkable.
func (tm *TerrainMap) IsWalkable(p Vec, radius float64) bool {
	if radius < 1e-9 {
		return tm.TerrainAt(p).Walkable()
	}
	ok := true
	visited := tm.forEachOverlappedCell(p, radius, func(col, row int) bool {
		if !tm.TileAt(col, row).Walkable() {
			ok = false
			return false
		}
		return true
	})
	if visited == 0 {
		return tm.TerrainAt(p).Walkable()
	}
	return ok
}

// MovementMultiplier returns the speed factor for a unit of the given
// radius at p: 0 when any overlapped cell is impassable, otherwise the
// minimum multiplier under the footprint. The slowest terrain governs.
func (tm *TerrainMap) MovementMultiplier(p Vec, radius float64) float64 {
	if radius < 1e-9 {
		return tm.TerrainAt(p).SpeedMultiplier()
	}
	mult := math.MaxFloat64
	visited := tm.forEachOverlappedCell(p, radius, func(col, row int) bool {
		m := tm.TileAt(col, row).SpeedMultiplier()
		if m <= 0 {
			mult = 0
			return false
		}
		if m < mult {
			mult = m
		}
		return true
	})
	if visited == 0 {
		return tm.TerrainAt(p).SpeedMultiplier()
	}
	if mult == math.MaxFloat64 {
		return 0
	}
	return mult
}

// ClampIntoBounds pulls p inside the map rectangle shrunk by radius, so a
// unit's whole footprint stays on the grid.
func (tm *TerrainMap) ClampIntoBounds(p Vec, radius float64) Vec {
	max := tm.Max()
	minX, maxX := tm.origin.X+radius, max.X-radius
	minY, maxY := tm.origin.Y+radius, max.Y-radius
	if minX > maxX {
		c := (minX + maxX) / 2
		minX, maxX = c, c
	}
	if minY > maxY {
		c := (minY + maxY) / 2
		minY, maxY = c, c
	}
	return Vec{X: clamp(p.X, minX, maxX), Y: clamp(p.Y, minY, maxY)}
}

// ResolveMovementTarget clips desired against terrain by sampling the
// straight segment from start, then bisecting between the last walkable and
// first blocked sample. The result lies strictly on the walkable side of
// the contact. This is the general-purpose clip used when multiple cells
// might be grazed; ClipMovementRaycast is the tunneling-safe single-hop
// alternative.
func (tm *TerrainMap) ResolveMovementTarget(start, desired Vec, radius float64) Vec {
	desired = tm.ClampIntoBounds(desired, radius)
	if tm.IsWalkable(desired, radius) {
		return desired
	}
	delta := desired.Sub(start)
	length := delta.Len()
	if length < 1e-12 {
		return start
	}

	step := math.Min(tm.cellSize/4, math.Max(radius/2, 0.02))
	samples := int(math.Ceil(length / step))
	lastGood := 0.0
	blocked := -1.0
	for i := 1; i <= samples; i++ {
		d := math.Min(float64(i)*step, length)
		p := start.Add(delta.Scale(d / length))
		if tm.IsWalkable(p, radius) {
			lastGood = d
			continue
		}
		blocked = d
		break
	}
	if blocked < 0 {
		// Every sample was walkable; only the unsampled endpoint check above
		// failed, which the final d == length sample contradicts. Treat the
		// path as clear up to the last sample.
		return start.Add(delta.Scale(lastGood / length))
	}

	lo, hi := lastGood, blocked
	for i := 0; i < contactRefineIterations && hi-lo > contactRefineTolerance; i++ {
		mid := (lo + hi) / 2
		if tm.IsWalkable(start.Add(delta.Scale(mid/length)), radius) {
			lo = mid
		} else {
			hi = mid
		}
	}

	d := lo - walkableMargin
	if d < 0 {
		d = 0
	}
	return start.Add(delta.Scale(d / length))
}

// ClipMovementRaycast is the exact, non-sampled clip: every impassable
// cell's bounds are expanded by the unit radius and the segment's entry
// parameter into each expanded box is solved with the slab method. The
// earliest entry wins, with a small backoff along the direction of travel.
// Safe against tunneling regardless of step size.
func (tm *TerrainMap) ClipMovementRaycast(start, desired Vec, radius float64) Vec {
	desired = tm.ClampIntoBounds(desired, radius)
	delta := desired.Sub(start)
	length := delta.Len()
	if length < 1e-12 {
		return desired
	}

	// Expansion is shaved by an epsilon so a clamped position sliding
	// exactly along the boundary does not register grazing hits.
	expand := radius - 1e-9

	minX := math.Min(start.X, desired.X) - radius
	maxX := math.Max(start.X, desired.X) + radius
	minY := math.Min(start.Y, desired.Y) - radius
	maxY := math.Max(start.Y, desired.Y) + radius
	colMin := int(math.Floor((minX - tm.origin.X) / tm.cellSize))
	colMax := int(math.Floor((maxX - tm.origin.X) / tm.cellSize))
	rowMin := int(math.Floor((minY - tm.origin.Y) / tm.cellSize))
	rowMax := int(math.Floor((maxY - tm.origin.Y) / tm.cellSize))

	bestT := math.MaxFloat64
	for row := rowMin; row <= rowMax; row++ {
		for col := colMin; col <= colMax; col++ {
			t := tm.TileAt(col, row)
			if t.Walkable() && t.SpeedMultiplier() > 0 {
				continue
			}
			cMin, cMax := tm.cellBounds(col, row)
			hitT, hit := segmentAABBEntry(start, desired,
				cMin.X-expand, cMin.Y-expand, cMax.X+expand, cMax.Y+expand)
			if hit && hitT < bestT {
				bestT = hitT
			}
		}
	}
	if bestT > 1 {
		return desired
	}

	d := bestT*length - raycastBackoff
	if d < 0 {
		d = 0
	}
	return start.Add(delta.Scale(d / length))
}

// segmentAABBEntry returns the first parameter t in [0,1] at which the
// segment a→b enters the box (minX,minY)-(maxX,maxY). The bool is false
// when the segment misses the box entirely.
func segmentAABBEntry(a, b Vec, minX, minY, maxX, maxY float64) (float64, bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y

	tMin := 0.0
	tMax := 1.0

	if math.Abs(dx) < 1e-12 {
		if a.X < minX || a.X > maxX {
			return 0, false
		}
	} else {
		invD := 1.0 / dx
		t1 := (minX - a.X) * invD
		t2 := (maxX - a.X) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if math.Abs(dy) < 1e-12 {
		if a.Y < minY || a.Y > maxY {
			return 0, false
		}
	} else {
		invD := 1.0 / dy
		t1 := (minY - a.Y) * invD
		t2 := (maxY - a.Y) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	if tMin < 0 {
		tMin = 0
	}
	return tMin, true
}
