package game

import (
	"math"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
)

// borderWidth is the pixel gap between the window edge and the battlefield.
const borderWidth = 24

// basePixelsPerUnit is the render scale at zoom 1.0.
const basePixelsPerUnit = 32.0

// App is the interactive ebiten front end over a World. All simulation
// time comes from a manual clock advanced in fixed steps, so pausing and
// speed changes never distort attack cooldowns.
type App struct {
	world    *World
	clock    *ManualClock
	log      *SimLog
	logger   zerolog.Logger
	settings Settings

	width  int
	height int
	tick   int
	dt     float64

	// Simulation speed control.
	simSpeed  float64 // multiplier: 0=paused, 0.5, 1, 2, 4
	tickAccum float64 // fractional tick accumulator for sub-1x speeds

	// Camera pan + zoom.
	camX    float64 // world-space X of the viewport centre
	camY    float64
	camZoom float64 // multiplier over basePixelsPerUnit

	selected int // selected unit id, -1 for none
	showHUD  bool

	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool
	panning       bool
	panLastX      int
	panLastY      int
}

// NewApp builds the front end over a terrain map and roster.
func NewApp(settings Settings, terrain *TerrainMap, logger zerolog.Logger) *App {
	if settings.TickRate <= 0 {
		settings.TickRate = 60
	}
	a := &App{
		clock:    &ManualClock{},
		log:      NewSimLog(),
		logger:   logger,
		settings: settings,
		width:    1280,
		height:   800,
		dt:       1.0 / float64(settings.TickRate),
		simSpeed: 1.0,
		selected: -1,
		showHUD:  true,
		prevKeys: make(map[ebiten.Key]bool),
	}
	a.world = NewWorld(terrain,
		WithClock(a.clock.Now),
		WithLogger(logger),
		WithListener(NewLogListener(logger)),
		WithListener(&SimLogListener{Log: a.log, Tick: func() int { return a.tick }}),
	)
	for _, spec := range settings.Units {
		a.world.Spawn(spec)
	}
	// Default camera: centred on the map, zoomed to fit its height.
	mid := terrain.Origin().Add(terrain.Max()).Scale(0.5)
	a.camX, a.camY = mid.X, mid.Y
	fit := float64(a.height-2*borderWidth) / (terrain.Max().Y - terrain.Origin().Y) / basePixelsPerUnit
	a.camZoom = clamp(fit, 0.25, 4.0)
	return a
}

// World exposes the simulation for tests and the report overlay.
func (a *App) World() *World {
	return a.world
}

func (a *App) Update() error {
	a.handleInput()

	if a.simSpeed <= 0 {
		return nil
	}
	// For speeds > 1 run multiple sim ticks per frame.
	// For speeds < 1 accumulate fractions.
	a.tickAccum += a.simSpeed
	for a.tickAccum >= 1.0 {
		a.tickAccum -= 1.0
		a.simTick()
	}
	return nil
}

// simTick runs one fixed-step simulation tick.
func (a *App) simTick() {
	a.tick++
	a.clock.Advance(a.dt)
	a.world.Step(a.dt)
	if a.selected >= 0 && a.world.Unit(a.selected) == nil {
		a.selected = -1
	}
}

func (a *App) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !a.prevKeys[k]
	}

	// Camera pan: WASD or arrow keys.
	panSpeed := 0.2 / a.camZoom
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		a.camY -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		a.camY += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		a.camX -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		a.camX += panSpeed
	}

	// Zoom: mouse wheel or =/- keys.
	_, wy := ebiten.Wheel()
	if wy != 0 {
		a.camZoom *= math.Pow(1.12, wy)
	}
	if pressed(ebiten.KeyEqual) {
		a.camZoom *= 1.25
	}
	if pressed(ebiten.KeyMinus) {
		a.camZoom /= 1.25
	}
	a.camZoom = clamp(a.camZoom, 0.25, 4.0)

	// Right-drag pan. Move commands are gated off for the whole drag so a
	// mis-release over the battlefield cannot issue an accidental order.
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		mx, my := ebiten.CursorPosition()
		if !a.panning {
			a.panning = true
			a.world.SetMovementEnabled(false, "camera pan in progress")
		} else {
			scale := basePixelsPerUnit * a.camZoom
			a.camX -= float64(mx-a.panLastX) / scale
			a.camY -= float64(my-a.panLastY) / scale
		}
		a.panLastX, a.panLastY = mx, my
	} else if a.panning {
		a.panning = false
		a.world.SetMovementEnabled(true, "")
	}

	// Left click: select a unit, or order the selected unit to the click.
	mouseLeft := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if mouseLeft && !a.prevMouseLeft {
		mx, my := ebiten.CursorPosition()
		a.handleClick(mx, my)
	}
	a.prevMouseLeft = mouseLeft

	if pressed(ebiten.KeyEscape) {
		a.selected = -1
	}
	if pressed(ebiten.KeyH) {
		a.showHUD = !a.showHUD
	}
	if pressed(ebiten.KeyR) {
		a.world.Reset()
		a.selected = -1
	}
	if pressed(ebiten.KeyC) {
		rpt := CompileBattleReport(a.world, a.log, a.tick, a.clock.Now())
		if err := clipboard.WriteAll(rpt.Format()); err != nil {
			a.logger.Warn().Err(err).Msg("clipboard copy failed")
		} else {
			a.logger.Info().Msg("battle report copied to clipboard")
		}
	}

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	speeds := []float64{0, 0.5, 1, 2, 4}
	if pressed(ebiten.KeyP) {
		if a.simSpeed > 0 {
			a.simSpeed = 0
		} else {
			a.simSpeed = 1
		}
	}
	if pressed(ebiten.KeyComma) {
		for i, s := range speeds {
			if s >= a.simSpeed && i > 0 {
				a.simSpeed = speeds[i-1]
				break
			}
		}
	}
	if pressed(ebiten.KeyPeriod) {
		for i, s := range speeds {
			if s <= a.simSpeed && i < len(speeds)-1 && speeds[i+1] > a.simSpeed {
				a.simSpeed = speeds[i+1]
				break
			}
		}
	}

	a.prevKeys = currentKeys
}

// handleClick selects the unit under the cursor, or orders the current
// selection to the clicked world position.
func (a *App) handleClick(mx, my int) {
	wp := a.screenToWorld(mx, my)

	// Unit pick first: nearest live unit whose disc covers the click,
	// with a small pixel-space grace margin.
	grace := 6.0 / (basePixelsPerUnit * a.camZoom)
	bestID := -1
	bestD := math.MaxFloat64
	for _, u := range a.world.Units() {
		d := u.Pos().Dist(wp)
		if d <= u.CollisionRadius()+grace && d < bestD {
			bestID = u.ID()
			bestD = d
		}
	}
	if bestID >= 0 {
		a.selected = bestID
		return
	}

	if a.selected < 0 {
		return
	}
	outcome := a.world.MoveUnitTo(a.selected, wp)
	if !outcome.OK {
		a.logger.Debug().
			Int("unit", a.selected).
			Stringer("failure", outcome.Failure).
			Msg("move order refused")
	}
}

func (a *App) Layout(_, _ int) (int, int) {
	return a.width, a.height
}
