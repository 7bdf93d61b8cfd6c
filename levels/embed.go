package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed *.json
var LevelsFS embed.FS

// Tile values on physics layers.
const (
	TileEmpty    = 0
	TileSolid    = 1
	TilePlatform = 2
)

// Level is a tile map stored as JSON. Rows run top to bottom; one tile is
// one world unit.
type Level struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`

	// player spawn in tile coordinates
	SpawnX int `json:"spawn_x"`
	SpawnY int `json:"spawn_y"`
}

type LayerMeta struct {
	Physics bool   `json:"physics"`
	Color   string `json:"color,omitempty"`
}

type Entity struct {
	Type  string                 `json:"type"`
	X     int                    `json:"x"`
	Y     int                    `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

// Load reads a level from levels/ on disk when present, else from the
// embedded copy. The .json extension is optional.
func Load(name string) (*Level, error) {
	base := filepath.Base(name)
	if filepath.Ext(base) != ".json" {
		base += ".json"
	}
	data, err := os.ReadFile(filepath.Join("levels", base))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, base)
		if err != nil {
			return nil, fmt.Errorf("levels: read %s: %w", name, err)
		}
	}
	return Parse(data)
}

func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal: %w", err)
	}
	if err := lvl.validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

func (l *Level) validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("levels: invalid size %dx%d", l.Width, l.Height)
	}
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			return fmt.Errorf("levels: layer %d has %d tiles, want %d", i, len(layer), l.Width*l.Height)
		}
	}
	return nil
}

func (l *Level) hasPhysics(layer int) bool {
	if layer < len(l.LayerMeta) {
		return l.LayerMeta[layer].Physics
	}
	// Layers without metadata collide.
	return true
}

func (e Entity) Float(key string, fallback float64) float64 {
	if e.Props == nil {
		return fallback
	}
	switch v := e.Props[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return fallback
}
