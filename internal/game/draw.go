package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// factionColours maps faction id to the unit disc colour. Factions beyond
// the table wrap around.
var factionColours = []color.RGBA{
	{R: 220, G: 30, B: 30, A: 255},
	{R: 30, G: 80, B: 220, A: 255},
	{R: 230, G: 180, B: 30, A: 255},
	{R: 30, G: 180, B: 120, A: 255},
}

func factionColour(faction int) color.RGBA {
	if faction < 0 {
		faction = -faction
	}
	return factionColours[faction%len(factionColours)]
}

// worldToScreen maps a world position to window pixels.
func (a *App) worldToScreen(p Vec) (float32, float32) {
	scale := basePixelsPerUnit * a.camZoom
	x := (p.X-a.camX)*scale + float64(a.width)/2
	y := (p.Y-a.camY)*scale + float64(a.height)/2
	return float32(x), float32(y)
}

// screenToWorld maps window pixels back to a world position.
func (a *App) screenToWorld(mx, my int) Vec {
	scale := basePixelsPerUnit * a.camZoom
	return Vec{
		X: a.camX + (float64(mx)-float64(a.width)/2)/scale,
		Y: a.camY + (float64(my)-float64(a.height)/2)/scale,
	}
}

func (a *App) Draw(screen *ebiten.Image) {
	// Window background outside the map.
	screen.Fill(color.RGBA{R: 12, G: 14, B: 12, A: 255})

	a.drawTerrain(screen)
	a.drawUnits(screen)

	if a.showHUD {
		a.drawHUD(screen)
	}
}

func (a *App) drawTerrain(screen *ebiten.Image) {
	tm := a.world.Terrain()
	scale := basePixelsPerUnit * a.camZoom
	cs := float32(tm.CellSize() * scale)

	// Visible cell window, clamped to the map.
	topLeft := a.screenToWorld(0, 0)
	bottomRight := a.screenToWorld(a.width, a.height)
	c0, r0 := tm.WorldToCell(topLeft)
	c1, r1 := tm.WorldToCell(bottomRight)
	c0, r0 = maxInt(c0, 0), maxInt(r0, 0)
	c1, r1 = minInt(c1, tm.Cols()-1), minInt(r1, tm.Rows()-1)

	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			cellMin, _ := tm.cellBounds(col, row)
			x, y := a.worldToScreen(cellMin)
			vector.FillRect(screen, x, y, cs, cs, tm.TileAt(col, row).drawColour(), false)
		}
	}

	// Faint cell grid once zoomed in enough to resolve it.
	if cs >= 12 {
		gridCol := color.RGBA{R: 0, G: 0, B: 0, A: 28}
		for col := c0; col <= c1+1; col++ {
			cellMin, _ := tm.cellBounds(col, r0)
			x, _ := a.worldToScreen(cellMin)
			vector.StrokeLine(screen, x, 0, x, float32(a.height), 1, gridCol, false)
		}
		for row := r0; row <= r1+1; row++ {
			cellMin, _ := tm.cellBounds(c0, row)
			_, y := a.worldToScreen(cellMin)
			vector.StrokeLine(screen, 0, y, float32(a.width), y, 1, gridCol, false)
		}
	}

	// Map border.
	x0, y0 := a.worldToScreen(tm.Origin())
	x1, y1 := a.worldToScreen(tm.Max())
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 2, color.RGBA{R: 65, G: 90, B: 65, A: 255}, false)
}

func (a *App) drawUnits(screen *ebiten.Image) {
	scale := basePixelsPerUnit * a.camZoom

	for _, u := range a.world.Units() {
		x, y := a.worldToScreen(u.Pos())
		r := float32(u.CollisionRadius() * scale)
		if r < 3 {
			r = 3
		}

		if u.State() == UnitDead {
			// Grey cross until eviction sweeps the body.
			grey := color.RGBA{R: 100, G: 100, B: 100, A: 180}
			vector.StrokeLine(screen, x-r, y-r, x+r, y+r, 1.5, grey, false)
			vector.StrokeLine(screen, x+r, y-r, x-r, y+r, 1.5, grey, false)
			continue
		}

		// Movement intent line under the disc.
		if u.State() == UnitMoving {
			tx, ty := a.worldToScreen(u.Target())
			vector.StrokeLine(screen, x, y, tx, ty, 1, color.RGBA{R: 255, G: 255, B: 255, A: 60}, false)
			vector.DrawFilledCircle(screen, tx, ty, 2, color.RGBA{R: 255, G: 255, B: 255, A: 90}, false)
		}

		vector.DrawFilledCircle(screen, x, y, r, factionColour(u.Faction()), true)

		// Combat flash ring.
		if u.State() == UnitCombat {
			vector.StrokeCircle(screen, x, y, r+2, 1.5, color.RGBA{R: 255, G: 160, B: 40, A: 220}, true)
		}

		// Selection ring, dashed like a map marker.
		if u.ID() == a.selected {
			sr := r + 5
			ringCol := color.RGBA{R: 255, G: 240, B: 60, A: 220}
			for seg := 0; seg < 16; seg += 2 {
				a0 := float64(seg) / 16 * 2 * math.Pi
				a1 := float64(seg+1) / 16 * 2 * math.Pi
				vector.StrokeLine(screen,
					x+sr*float32(math.Cos(a0)), y+sr*float32(math.Sin(a0)),
					x+sr*float32(math.Cos(a1)), y+sr*float32(math.Sin(a1)),
					1.5, ringCol, false)
			}
		}

		// HP bar above the disc.
		s := u.Stats()
		if s.CurrentHP < s.MaxHP {
			frac := float32(clamp01(s.CurrentHP / s.MaxHP))
			bw := r * 2
			bx := x - r
			by := y - r - 6
			vector.FillRect(screen, bx, by, bw, 3, color.RGBA{R: 40, G: 40, B: 40, A: 200}, false)
			barCol := color.RGBA{R: 60, G: 200, B: 60, A: 230}
			if frac < 0.35 {
				barCol = color.RGBA{R: 220, G: 60, B: 40, A: 230}
			}
			vector.FillRect(screen, bx, by, bw*frac, 3, barCol, false)
		}
	}
}

func (a *App) drawHUD(screen *ebiten.Image) {
	speedStr := fmt.Sprintf("%gx", a.simSpeed)
	if a.simSpeed == 0 {
		speedStr = "PAUSED"
	}
	alive := 0
	for _, u := range a.world.Units() {
		if u.Alive() {
			alive++
		}
	}
	status := fmt.Sprintf("T=%d  speed=%s  zoom=%.2fx  units=%d", a.tick, speedStr, a.camZoom, alive)
	if !a.world.MovementEnabled() {
		status += "  [move orders gated]"
	}
	ebitenutil.DebugPrintAt(screen, status, borderWidth, a.height-52)

	if a.selected >= 0 {
		if u := a.world.Unit(a.selected); u != nil {
			s := u.Stats()
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
				"%s (u%d f%d)  hp=%.0f/%.0f  atk=%.0f-%.0f  rng=%.1f  %s",
				u.Name(), u.ID(), u.Faction(), s.CurrentHP, s.MaxHP,
				s.MinAttack, s.MaxAttack, s.AttackRange, u.State()),
				borderWidth, a.height-38)
		}
	}
	ebitenutil.DebugPrintAt(screen,
		"LMB select/order  RMB-drag pan  wheel zoom  P pause  ,/. speed  R reset  C copy report  H hud",
		borderWidth, a.height-24)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
