package game

import (
	"fmt"
	"image"
	"io"
	"os"

	// Registered decoders for map bitmaps.
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// paletteTolerance is the maximum per-channel distance (squared and summed
// over R,G,B) at which a pixel still matches a palette entry. Pixels that
// match nothing decode as grass rather than failing the whole map.
const paletteTolerance = 3 * 64 * 64

// DecodeTerrainImage decodes a colour-coded bitmap into a terrain map, one
// pixel per cell. Colours are matched against the fixed terrain palette
// with tolerance, so slightly off-palette assets (palette drift from image
// editors, BMP rounding) still load.
func DecodeTerrainImage(r io.Reader, cellSize float64, origin Vec) (*TerrainMap, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding terrain bitmap: %w", err)
	}
	b := img.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return nil, fmt.Errorf("terrain bitmap is empty")
	}

	tm := NewTerrainMap(b.Dx(), b.Dy(), cellSize, origin)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			tm.SetTile(x-b.Min.X, y-b.Min.Y, matchTerrainColour(img.At(x, y)))
		}
	}
	return tm, nil
}

// LoadTerrainImage opens and decodes a terrain bitmap from disk.
func LoadTerrainImage(path string, cellSize float64, origin Vec) (*TerrainMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening terrain bitmap: %w", err)
	}
	defer f.Close()
	return DecodeTerrainImage(f, cellSize, origin)
}

// matchTerrainColour finds the closest palette entry within tolerance.
func matchTerrainColour(c interface{ RGBA() (r, g, b, a uint32) }) TerrainType {
	r16, g16, b16, _ := c.RGBA()
	r := int(r16 >> 8)
	g := int(g16 >> 8)
	b := int(b16 >> 8)

	best := TerrainGrass
	bestDist := paletteTolerance + 1
	for t, pc := range terrainPalette {
		dr := r - int(pc.R)
		dg := g - int(pc.G)
		db := b - int(pc.B)
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			bestDist = d
			best = t
		}
	}
	if bestDist > paletteTolerance {
		return TerrainGrass
	}
	return best
}
