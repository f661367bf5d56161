package game

import "image/color"

// TerrainType identifies the surface of one map cell.
type TerrainType uint8

const (
	TerrainGrass    TerrainType = iota // default open ground
	TerrainRoad                        // packed surface, fastest going
	TerrainSand                        // loose ground
	TerrainMud                         // wet / churned ground
	TerrainForest                      // dense undergrowth
	TerrainWater                       // impassable on foot
	TerrainRock                        // impassable outcrop
	TerrainVoid                        // out-of-bounds sentinel, impassable
	terrainTypeCount                   // sentinel
)

func (t TerrainType) String() string {
	switch t {
	case TerrainGrass:
		return "grass"
	case TerrainRoad:
		return "road"
	case TerrainSand:
		return "sand"
	case TerrainMud:
		return "mud"
	case TerrainForest:
		return "forest"
	case TerrainWater:
		return "water"
	case TerrainRock:
		return "rock"
	case TerrainVoid:
		return "void"
	default:
		return "unknown"
	}
}

// Walkable reports whether units may stand on this terrain.
func (t TerrainType) Walkable() bool {
	switch t {
	case TerrainWater, TerrainRock, TerrainVoid:
		return false
	default:
		return true
	}
}

// SpeedMultiplier returns the movement speed factor for this terrain.
// Impassable terrain returns 0.
func (t TerrainType) SpeedMultiplier() float64 {
	switch t {
	case TerrainGrass:
		return 1.0
	case TerrainRoad:
		return 1.15
	case TerrainSand:
		return 0.8
	case TerrainMud:
		return 0.55
	case TerrainForest:
		return 0.7
	default:
		return 0
	}
}

// terrainPalette is the fixed colour coding used by terrain bitmaps:
// one pixel per cell, matched with tolerance in DecodeTerrainImage.
var terrainPalette = map[TerrainType]color.RGBA{
	TerrainGrass:  {R: 34, G: 139, B: 34, A: 255},
	TerrainRoad:   {R: 128, G: 128, B: 128, A: 255},
	TerrainSand:   {R: 210, G: 180, B: 140, A: 255},
	TerrainMud:    {R: 101, G: 67, B: 33, A: 255},
	TerrainForest: {R: 0, G: 80, B: 0, A: 255},
	TerrainWater:  {R: 30, G: 90, B: 200, A: 255},
	TerrainRock:   {R: 40, G: 40, B: 40, A: 255},
}

// drawColour returns the render colour for a terrain cell. Slightly muted
// versions of the palette so unit markers stay readable on top.
func (t TerrainType) drawColour() color.RGBA {
	if c, ok := terrainPalette[t]; ok {
		c.R = c.R / 4 * 3
		c.G = c.G / 4 * 3
		c.B = c.B / 4 * 3
		return c
	}
	return color.RGBA{R: 20, G: 20, B: 20, A: 255}
}
