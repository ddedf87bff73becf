package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/pawnctl/common"
	"github.com/milk9111/pawnctl/controller"
	"github.com/milk9111/pawnctl/input"
	"github.com/milk9111/pawnctl/pawn"
	"github.com/milk9111/pawnctl/prefabs"
)

const cameraFollow = 0.15

var (
	colorBackground = color.NRGBA{R: 0x1b, G: 0x1d, B: 0x23, A: 0xff}
	colorWall       = color.NRGBA{R: 0x9a, G: 0xa0, B: 0xa6, A: 0xff}
	colorTarget     = color.NRGBA{R: 0xd9, G: 0x5d, B: 0x39, A: 0xff}
	colorPawn       = color.NRGBA{R: 0x4f, G: 0xb4, B: 0x77, A: 0xff}
	colorShadow     = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0x80}
	colorShotHit    = color.NRGBA{R: 0xff, G: 0xe0, B: 0x66, A: 0xff}
	colorShotMiss   = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

type GameOptions struct {
	Script string
	Edge   bool
	Debug  bool
}

type Game struct {
	frames int
	debug  bool
	opts   GameOptions

	bus      *input.Bus
	keyboard *Keyboard
	script   *input.ScriptSource
	ctrl     *controller.Controller

	world *pawn.World
	body  *pawn.Body

	ui      *ebitenui.UI
	watcher *prefabs.Watcher

	camX, camY float64
	lastHit    string
}

func NewGame(opts GameOptions) (*Game, error) {
	arenaSpec, err := prefabs.LoadArenaSpec()
	if err != nil {
		return nil, err
	}
	pawnSpec, err := prefabs.LoadPawnSpec()
	if err != nil {
		return nil, err
	}
	ctrlSpec, err := prefabs.LoadControllerSpec()
	if err != nil {
		return nil, err
	}
	cfg, err := opts.controllerConfig(ctrlSpec)
	if err != nil {
		return nil, err
	}

	world := pawn.NewWorldFromSpec(arenaSpec)
	body, err := world.Spawn(*pawnSpec)
	if err != nil {
		return nil, err
	}

	bus := input.NewBus()
	g := &Game{
		debug:    opts.Debug,
		opts:     opts,
		bus:      bus,
		keyboard: NewKeyboard(bus),
		ctrl:     controller.New(body, bus, controller.WithConfig(cfg)),
		world:    world,
		body:     body,
	}
	g.ui = NewOverlayUI(g.ctrl)

	if opts.Script != "" {
		src, err := prefabs.LoadScript(opts.Script)
		if err != nil {
			return nil, fmt.Errorf("game: load script %s: %w", opts.Script, err)
		}
		g.script, err = input.NewScriptSource(opts.Script, src, bus)
		if err != nil {
			return nil, err
		}
	}

	if w, err := prefabs.NewWatcher("prefabs"); err != nil {
		log.Printf("game: prefab hot reload disabled: %v", err)
	} else {
		g.watcher = w
	}

	log.Printf("game: controller ready trigger=%s bindings=%d", cfg.Trigger, len(cfg.Bindings))
	return g, nil
}

// controllerConfig builds the controller config from a prefab. -edge wins
// over the prefab's trigger, including on hot reload.
func (o GameOptions) controllerConfig(spec *prefabs.ControllerSpec) (controller.Config, error) {
	cfg, err := controller.ConfigFromSpec(spec)
	if err != nil {
		return controller.Config{}, err
	}
	if o.Edge {
		cfg.Trigger = controller.TriggerEdge
	}
	return cfg, nil
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}

	g.reloadPrefabs()
	g.ui.Update()

	g.keyboard.Poll()
	if g.script != nil {
		if err := g.script.Poll(); err != nil {
			log.Printf("game: script stopped: %v", err)
			g.script = nil
		}
	}

	dt := 1.0 / float64(ebiten.TPS())
	g.ctrl.Update(dt)
	g.world.Step(dt)

	if shot := g.body.LastShot(); shot != nil && shot.Result.Hit {
		g.lastHit = shot.Result.Target
	}

	pos := g.body.Position()
	g.camX = common.Lerp(g.camX, pos.X, cameraFollow)
	g.camY = common.Lerp(g.camY, pos.Y, cameraFollow)
	return nil
}

func (g *Game) reloadPrefabs() {
	if g.watcher == nil {
		return
	}
	select {
	case err := <-g.watcher.Errors:
		log.Printf("game: prefab watcher: %v", err)
	default:
	}

	for _, name := range g.watcher.Drain() {
		switch name {
		case "pawn.yaml":
			spec, err := prefabs.LoadPawnSpec()
			if err == nil {
				err = g.body.Retune(*spec)
			}
			if err != nil {
				log.Printf("game: reload %s: %v", name, err)
				continue
			}
			log.Printf("game: reloaded %s move_speed=%.2f air_control=%.2f", name, spec.MoveSpeed, spec.AirControl)
		case "controller.yaml":
			spec, err := prefabs.LoadControllerSpec()
			if err != nil {
				log.Printf("game: reload %s: %v", name, err)
				continue
			}
			cfg, err := g.opts.controllerConfig(spec)
			if err != nil {
				log.Printf("game: reload %s: %v", name, err)
				continue
			}
			g.ctrl.Configure(cfg)
			log.Printf("game: reloaded %s trigger=%s", name, cfg.Trigger)
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	for _, wall := range g.world.Walls() {
		ax, ay := g.toScreen(wall.A)
		bx, by := g.toScreen(wall.B)
		vector.StrokeLine(screen, ax, ay, bx, by, float32(2*wall.Radius*common.PixelsPerUnit)+1, colorWall, true)
	}
	for _, t := range g.world.Targets() {
		x, y := g.toScreen(t.Pos)
		vector.DrawFilledCircle(screen, x, y, float32(t.Radius*common.PixelsPerUnit), colorTarget, true)
	}

	if shot := g.body.LastShot(); shot != nil {
		fx, fy := g.toScreen(shot.From)
		tx, ty := g.toScreen(shot.To)
		clr := colorShotMiss
		if shot.Result.Hit {
			clr = colorShotHit
		}
		vector.StrokeLine(screen, fx, fy, tx, ty, 1, clr, true)
	}

	px, py := g.toScreen(g.body.Position())
	r := float32(g.body.Radius() * common.PixelsPerUnit)
	lift := float32(g.body.Height() * common.PixelsPerUnit)
	vector.DrawFilledCircle(screen, px, py, r, colorShadow, true)
	vector.DrawFilledCircle(screen, px, py-lift, r, colorPawn, true)
	face := g.body.Facing()
	vector.StrokeLine(screen, px, py-lift, px+float32(face.X)*r*1.5, py-lift-float32(face.Y)*r*1.5, 2, colorPawn, true)

	g.ui.Draw(screen)

	msg := fmt.Sprintf("FPS: %.1f  last hit: %s", ebiten.ActualFPS(), g.lastHit)
	if g.debug {
		s := g.ctrl.State()
		msg += fmt.Sprintf("\nframe=%d trigger=%s grounded=%v height=%.2f\nF=%v B=%v L=%v R=%v jump=%v shoot=%v",
			g.frames, g.ctrl.Config().Trigger, g.body.IsOnGround(), g.body.Height(),
			s.Forward, s.Backward, s.Left, s.Right, s.Jump, s.Shoot)
	}
	ebitenutil.DebugPrint(screen, msg)
}

func (g *Game) toScreen(p cp.Vector) (float32, float32) {
	x := common.BaseWidth/2 + (p.X-g.camX)*common.PixelsPerUnit
	y := common.BaseHeight/2 - (p.Y-g.camY)*common.PixelsPerUnit
	return float32(x), float32(y)
}

// Close tears down the controller's input subscription and the watcher.
func (g *Game) Close() {
	g.ctrl.Destroy()
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			log.Printf("game: close watcher: %v", err)
		}
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
