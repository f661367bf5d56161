package game

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// configFileName is the JSON config consulted by both binaries. Absence of
// the file, or a file that fails to parse, falls back to built-in defaults
// rather than failing construction.
const configFileName = "skirmish.cfg.json"

// StatsSpec is the JSON shape of a unit's stats block.
type StatsSpec struct {
	MaxHP           float64 `json:"maxHp" mapstructure:"maxHp"`
	CurrentHP       float64 `json:"currentHp" mapstructure:"currentHp"`
	MinAttack       float64 `json:"minAttack" mapstructure:"minAttack"`
	MaxAttack       float64 `json:"maxAttack" mapstructure:"maxAttack"`
	MoveSpeed       float64 `json:"moveSpeed" mapstructure:"moveSpeed"`
	AttackSpeed     float64 `json:"attackSpeed" mapstructure:"attackSpeed"`
	AttackRange     float64 `json:"attackRange" mapstructure:"attackRange"`
	Defense         float64 `json:"defense" mapstructure:"defense"`
	CollisionRadius float64 `json:"collisionRadius" mapstructure:"collisionRadius"`
}

// defaultAttackRange backs rosters that omit the optional attackRange field.
const defaultAttackRange = 1.5

func (s StatsSpec) toStats() UnitStats {
	r := s.AttackRange
	if r <= 0 {
		r = defaultAttackRange
	}
	return UnitStats{
		MaxHP:           s.MaxHP,
		CurrentHP:       s.CurrentHP,
		MinAttack:       s.MinAttack,
		MaxAttack:       s.MaxAttack,
		MoveSpeed:       s.MoveSpeed,
		AttackRange:     r,
		AttackSpeed:     s.AttackSpeed,
		Defense:         s.Defense,
		CollisionRadius: s.CollisionRadius,
	}
}

// UnitSpec is one roster entry: spawn parameters for a unit.
type UnitSpec struct {
	ID      int       `json:"id" mapstructure:"id"`
	Name    string    `json:"name" mapstructure:"name"`
	X       float64   `json:"x" mapstructure:"x"`
	Y       float64   `json:"y" mapstructure:"y"`
	Faction int       `json:"faction" mapstructure:"faction"`
	Stats   StatsSpec `json:"stats" mapstructure:"stats"`
}

// Settings is the top-level configuration for a run.
type Settings struct {
	MapImage string     `mapstructure:"mapImage"` // terrain bitmap path; empty → generated default map
	CellSize float64    `mapstructure:"cellSize"`
	TickRate float64    `mapstructure:"tickRate"` // simulation ticks per second
	Units    []UnitSpec `mapstructure:"units"`
}

// LoadSettings reads the JSON config from configDir. Any failure (missing
// file, parse error, empty roster) degrades to defaults and logs why,
// never errors out.
func LoadSettings(configDir string, logger zerolog.Logger) Settings {
	v := viper.New()
	v.SetDefault("mapImage", "")
	v.SetDefault("cellSize", 1.0)
	v.SetDefault("tickRate", 60.0)

	v.SetConfigFile(filepath.Join(configDir, configFileName))
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		logger.Warn().Err(err).Msg("config unavailable, using defaults")
		return DefaultSettings()
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		logger.Warn().Err(err).Msg("config malformed, using defaults")
		return DefaultSettings()
	}
	if s.CellSize <= 0 {
		s.CellSize = 1.0
	}
	if s.TickRate <= 0 {
		s.TickRate = 60.0
	}
	if len(s.Units) == 0 {
		logger.Warn().Msg("config has no units, using default roster")
		s.Units = DefaultRoster()
	}
	return s
}

// DefaultSettings is the built-in fallback configuration.
func DefaultSettings() Settings {
	return Settings{
		CellSize: 1.0,
		TickRate: 60.0,
		Units:    DefaultRoster(),
	}
}

// DefaultRoster is the hardcoded two-faction layout used when no roster is
// configured: three units per side facing each other across the map.
func DefaultRoster() []UnitSpec {
	infantry := StatsSpec{
		MaxHP:           100,
		MinAttack:       8,
		MaxAttack:       14,
		MoveSpeed:       1.5,
		AttackSpeed:     1.0,
		AttackRange:     1.5,
		Defense:         2,
		CollisionRadius: standardCollisionRadius,
	}
	scout := StatsSpec{
		MaxHP:           70,
		MinAttack:       5,
		MaxAttack:       9,
		MoveSpeed:       2.2,
		AttackSpeed:     1.4,
		AttackRange:     1.2,
		Defense:         0,
		CollisionRadius: 0.2,
	}
	heavy := StatsSpec{
		MaxHP:           160,
		MinAttack:       12,
		MaxAttack:       20,
		MoveSpeed:       1.0,
		AttackSpeed:     0.6,
		AttackRange:     2.0,
		Defense:         5,
		CollisionRadius: 0.35,
	}
	return []UnitSpec{
		{ID: 1, Name: "R-Infantry", X: 4, Y: 10, Faction: 0, Stats: infantry},
		{ID: 2, Name: "R-Scout", X: 4, Y: 12, Faction: 0, Stats: scout},
		{ID: 3, Name: "R-Heavy", X: 4, Y: 14, Faction: 0, Stats: heavy},
		{ID: 4, Name: "B-Infantry", X: 28, Y: 10, Faction: 1, Stats: infantry},
		{ID: 5, Name: "B-Scout", X: 28, Y: 12, Faction: 1, Stats: scout},
		{ID: 6, Name: "B-Heavy", X: 28, Y: 14, Faction: 1, Stats: heavy},
	}
}

// DefaultTerrain generates the built-in 32x24 map used when no bitmap is
// configured: open grass with a road, a pond and rock outcrops, enough
// variety to exercise speed multipliers and blocking.
func DefaultTerrain(cellSize float64) *TerrainMap {
	tm := NewTerrainMap(32, 24, cellSize, Vec{})
	for col := 0; col < tm.Cols(); col++ {
		tm.SetTile(col, 11, TerrainRoad)
		tm.SetTile(col, 12, TerrainRoad)
	}
	for row := 2; row < 7; row++ {
		for col := 12; col < 18; col++ {
			tm.SetTile(col, row, TerrainWater)
		}
	}
	for row := 16; row < 20; row++ {
		for col := 14; col < 17; col++ {
			tm.SetTile(col, row, TerrainRock)
		}
	}
	for row := 8; row < 11; row++ {
		for col := 20; col < 26; col++ {
			tm.SetTile(col, row, TerrainMud)
		}
	}
	for row := 13; row < 16; row++ {
		for col := 5; col < 10; col++ {
			tm.SetTile(col, row, TerrainForest)
		}
	}
	return tm
}
