package main

import (
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/Garsondee/skirmish/internal/game"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	settings := game.LoadSettings(".", logger)

	terrain := game.DefaultTerrain(settings.CellSize)
	if settings.MapImage != "" {
		tm, err := game.LoadTerrainImage(settings.MapImage, settings.CellSize, game.Vec{})
		if err != nil {
			logger.Warn().Err(err).Str("path", settings.MapImage).
				Msg("terrain image load failed, using built-in map")
		} else {
			terrain = tm
		}
	}

	ebiten.SetWindowTitle("Skirmish")
	ebiten.SetWindowSize(1280, 800)
	if err := ebiten.RunGame(game.NewApp(settings, terrain, logger)); err != nil {
		logger.Fatal().Err(err).Msg("game exited")
	}
}
