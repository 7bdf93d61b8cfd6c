package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/movecore/ecs"
	"github.com/milk9111/movecore/ecs/system"
	"github.com/milk9111/movecore/levels"
	"github.com/milk9111/movecore/physics"
	"github.com/milk9111/movecore/prefabs"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	tickRate   = 60
)

type Game struct {
	frames int
	debug  bool

	levelName  string
	configName string

	world  *physics.World
	body   *physics.CharacterBody
	ctrl   *system.Controller
	spawn  cp.Vector
	input  keyboardInput
	camera *camera

	watcher *prefabs.Watcher
}

func NewGame(levelName, configName string, debug, watch bool) (*Game, error) {
	g := &Game{levelName: levelName, configName: configName, debug: debug}
	if err := g.load(); err != nil {
		return nil, err
	}

	camSpec, err := prefabs.LoadCameraSpec()
	if err != nil {
		log.Printf("camera: %v, using defaults", err)
	}
	g.camera = newCamera(camSpec, g.spawn)

	if watch {
		w, err := prefabs.NewWatcher("prefabs", "levels")
		if err != nil {
			log.Printf("watch disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

// load builds a fresh world from the level and movement prefab.
func (g *Game) load() error {
	lvl, err := levels.Load(g.levelName)
	if err != nil {
		return err
	}
	cfg, err := prefabs.LoadMovementConfig(g.configName)
	if err != nil {
		return err
	}

	world := physics.NewWorld()
	world.Verbose = g.debug
	built, err := lvl.Build(world)
	if err != nil {
		world.Close()
		return err
	}
	body, err := world.AddCharacter(built.Spawn, cp.Vector{X: cfg.ColliderWidth, Y: cfg.ColliderHeight})
	if err != nil {
		world.Close()
		return err
	}
	ctrl, err := system.NewController(body, cfg)
	if err != nil {
		world.Close()
		return err
	}

	if g.world != nil {
		g.world.Close()
	}
	g.world, g.body, g.ctrl, g.spawn = world, body, ctrl, built.Spawn
	g.input.reset()
	log.Printf("loaded level %s: %d solids, %d platforms, %d movers", g.levelName, len(built.Solids), len(built.Platforms), len(built.Movers))
	return nil
}

func (g *Game) reloadConfig() {
	cfg, err := prefabs.LoadMovementConfig(g.configName)
	if err != nil {
		log.Printf("reload %s: %v", g.configName, err)
		return
	}
	if err := g.ctrl.SetConfig(cfg); err != nil {
		log.Printf("reload %s: %v", g.configName, err)
		return
	}
	log.Printf("reloaded %s", g.configName)
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			switch change.Kind {
			case prefabs.ReloadLevel:
				if err := g.load(); err != nil {
					log.Printf("reload level: %v", err)
				}
			case prefabs.ReloadMovement:
				g.reloadConfig()
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("watch: %v", err)
		default:
			return
		}
	}
}

func (g *Game) Update() error {
	g.frames++
	g.pollWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if err := g.ctrl.SetEnabled(!g.ctrl.Enabled()); err != nil {
			return err
		}
		g.input.reset()
	}

	const dt = 1.0 / tickRate
	g.ctrl.Push(g.input.commands()...)
	if err := g.ctrl.Tick(dt); err != nil {
		return err
	}
	g.world.Step(dt)

	pos := g.body.Position()
	if inpututil.IsKeyJustPressed(ebiten.KeyR) || pos.Y < -2 {
		if err := g.ctrl.Respawn(g.spawn); err != nil {
			return err
		}
		g.input.reset()
		g.camera.snap(g.spawn)
		return nil
	}
	g.camera.update(pos, dt)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	g.world.Each(func(_ ecs.Entity, layer physics.Layer, bb cp.BB) {
		g.drawBox(screen, bb, layerColor(layer))
	})

	snap := g.ctrl.Snapshot()
	body := colornames.Crimson
	switch {
	case snap.State.Dropping:
		body = colornames.Orange
	case snap.State.Grounded:
		body = colornames.Limegreen
	}
	g.drawBox(screen, g.body.Bounds(), body)

	if g.debug {
		g.drawProbes(screen)
	}

	st := snap.State
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"FPS: %.1f  tick: %d\npos: (%.2f, %.2f)  vel: (%.2f, %.2f)\ngrounded: %v  jump: %s  gravity: %s x%.2f\napex: %v  cut: %v  crouch: %v  platform: %s  suppressed: %s\n[A/D] move [Space] jump [S] crouch/fast-fall [C] drop [R] respawn [P] pause [F1] debug",
		ebiten.ActualFPS(), snap.Tick,
		st.Position.X, st.Position.Y, st.Velocity.X, st.Velocity.Y,
		st.Grounded, snap.Jump, snap.Gravity, snap.Multiplier,
		st.ReachedApex, st.JumpCut, st.Crouching, snap.Link.Platform, snap.Link.Suppressed,
	))
}

func (g *Game) drawBox(screen *ebiten.Image, bb cp.BB, clr color.Color) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	x0, y0 := g.camera.toScreen(cp.Vector{X: bb.L, Y: bb.T}, w, h)
	x1, y1 := g.camera.toScreen(cp.Vector{X: bb.R, Y: bb.B}, w, h)
	vector.FillRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), clr, false)
}

// drawProbes draws the correction rays from the character's bounds.
func (g *Game) drawProbes(screen *ebiten.Image) {
	cfg := g.ctrl.Config()
	bb := g.body.Bounds()
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	ray := func(from cp.Vector, dir cp.Vector, length float64, clr color.Color) {
		to := from.Add(dir.Mult(length))
		x0, y0 := g.camera.toScreen(from, w, h)
		x1, y1 := g.camera.toScreen(to, w, h)
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, clr, true)
	}

	for _, side := range []float64{-1, 1} {
		outer, inner := system.LedgeRays(bb, side, cfg)
		ray(outer, cp.Vector{Y: -1}, cfg.LedgeCheckDistance, colornames.Yellow)
		ray(inner, cp.Vector{Y: -1}, cfg.LedgeCheckDistance, colornames.Gold)

		bottom, top := system.EdgeRays(bb, side, cfg)
		ray(bottom, cp.Vector{X: side}, cfg.EdgeRayLength, colornames.Cyan)
		ray(top, cp.Vector{X: side}, cfg.EdgeRayLength, colornames.Deepskyblue)
	}
	for _, origin := range system.CeilingRays(bb, cfg) {
		ray(origin, cp.Vector{Y: 1}, cfg.CeilingCheckDistance, colornames.Magenta)
	}
}

func layerColor(layer physics.Layer) color.Color {
	if layer == physics.LayerPlatform {
		return colornames.Steelblue
	}
	return colornames.Slategray
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.world != nil {
		g.world.Close()
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
