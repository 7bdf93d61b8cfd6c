package levels

import (
	"fmt"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/movecore/ecs"
	"github.com/milk9111/movecore/physics"
)

// PlatformThickness is the height of a one-way platform inside its tile.
const PlatformThickness = 0.25

// BuildResult lists the colliders created for a level.
type BuildResult struct {
	Spawn     cp.Vector
	Solids    []ecs.Entity
	Platforms []ecs.Entity
	Movers    []ecs.Entity
}

// Build adds the level's colliders to w. Solid tiles are merged into as few
// rectangles as possible; platform tiles are merged per row.
func (l *Level) Build(w *physics.World) (*BuildResult, error) {
	if l == nil || w == nil {
		return nil, fmt.Errorf("levels: nil level or world")
	}
	res := &BuildResult{Spawn: l.TileCenter(l.SpawnX, l.SpawnY)}

	for i, layer := range l.Layers {
		if !l.hasPhysics(i) {
			continue
		}
		if err := l.buildSolids(w, layer, res); err != nil {
			return nil, err
		}
		if err := l.buildPlatforms(w, layer, res); err != nil {
			return nil, err
		}
	}

	for _, ent := range l.Entities {
		switch ent.Type {
		case "spawn":
			res.Spawn = l.TileCenter(ent.X, ent.Y)
		case "moving_platform":
			width := ent.Float("width", 2)
			top := float64(l.Height - ent.Y)
			bb := cp.BB{L: float64(ent.X), B: top - PlatformThickness, R: float64(ent.X) + width, T: top}
			delta := cp.Vector{X: ent.Float("dx", 0), Y: -ent.Float("dy", 0)}
			e, err := w.AddMovingPlatform(bb, delta, ent.Float("duration", 2))
			if err != nil {
				return nil, fmt.Errorf("levels: moving platform at %d,%d: %w", ent.X, ent.Y, err)
			}
			res.Movers = append(res.Movers, e)
		default:
			log.Printf("levels: skipping unknown entity type %q", ent.Type)
		}
	}
	return res, nil
}

// TileCenter converts a tile coordinate (row 0 at the top) to the world
// position of the tile centre.
func (l *Level) TileCenter(x, y int) cp.Vector {
	return cp.Vector{X: float64(x) + 0.5, Y: float64(l.Height-y) - 0.5}
}

// tileRect converts a w x h run of tiles whose top-left tile is (x, y).
func (l *Level) tileRect(x, y, w, h int) cp.BB {
	return cp.BB{
		L: float64(x),
		B: float64(l.Height - (y + h)),
		R: float64(x + w),
		T: float64(l.Height - y),
	}
}

func (l *Level) buildSolids(w *physics.World, layer []int, res *BuildResult) error {
	processed := make([]bool, l.Width*l.Height)
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			idx := y*l.Width + x
			if processed[idx] || layer[idx] != TileSolid {
				continue
			}

			w1 := 1
			for x+w1 < l.Width {
				idx2 := y*l.Width + (x + w1)
				if processed[idx2] || layer[idx2] != TileSolid {
					break
				}
				w1++
			}

			h := 1
		heightLoop:
			for y+h < l.Height {
				for xi := x; xi < x+w1; xi++ {
					idx2 := (y+h)*l.Width + xi
					if processed[idx2] || layer[idx2] != TileSolid {
						break heightLoop
					}
				}
				h++
			}

			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w1; xx++ {
					processed[yy*l.Width+xx] = true
				}
			}

			e, err := w.AddSolid(l.tileRect(x, y, w1, h))
			if err != nil {
				return fmt.Errorf("levels: solid at %d,%d: %w", x, y, err)
			}
			res.Solids = append(res.Solids, e)
		}
	}
	return nil
}

func (l *Level) buildPlatforms(w *physics.World, layer []int, res *BuildResult) error {
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; {
			if layer[y*l.Width+x] != TilePlatform {
				x++
				continue
			}
			run := 1
			for x+run < l.Width && layer[y*l.Width+x+run] == TilePlatform {
				run++
			}
			bb := l.tileRect(x, y, run, 1)
			bb.B = bb.T - PlatformThickness
			e, err := w.AddPlatform(bb)
			if err != nil {
				return fmt.Errorf("levels: platform at %d,%d: %w", x, y, err)
			}
			res.Platforms = append(res.Platforms, e)
			x += run
		}
	}
	return nil
}
