package main

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"
	"gopkg.in/yaml.v3"

	"pandrop/levels"
	"pandrop/progress"
	"pandrop/sim"
)

type Game struct {
	session *sim.Session
	pointer Pointer
	store   *progress.Progress

	variant   string
	levelName string
	debug     bool

	paused  bool
	pauseUI *ebitenui.UI

	watcher     *levels.Watcher
	clipboardOK bool
	grazeFrames int
	draggingPan bool
	drawingRamp bool
}

func NewGame(variant, levelName string, dev, debug bool) (*Game, error) {
	g := &Game{
		variant:   variant,
		levelName: levelName,
		debug:     debug,
	}

	if err := g.loadLevel(); err != nil {
		return nil, err
	}

	if path, err := progress.DefaultPath(); err != nil {
		log.Printf("progress disabled: %v", err)
		g.store = progress.New("")
	} else {
		g.store = progress.Load(path)
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		g.clipboardOK = true
	}

	if dev {
		w, err := levels.NewWatcher(levels.Dir(), filepath.Join(levels.Dir(), "scripts"))
		if err != nil {
			log.Printf("level watcher disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	g.pauseUI = NewPauseUI(g)
	return g, nil
}

func (g *Game) loadLevel() error {
	var (
		spec *levels.LevelSpec
		err  error
	)
	if g.levelName != "" {
		spec, err = levels.LoadLevel(g.levelName)
	} else {
		spec, err = levels.ForVariant(g.variant)
	}
	if err != nil {
		return err
	}
	lv, err := spec.Build()
	if err != nil {
		return err
	}
	g.session = sim.NewSession(lv, time.Now())
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if err := g.store.Save(); err != nil {
		log.Printf("save progress: %v", err)
	}
}

func (g *Game) Update() error {
	g.pointer.Update()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.pollWatcher()
	g.handleKeys()
	g.routePointer()

	g.session.Advance(time.Now())
	g.handleEvents()

	if g.grazeFrames > 0 {
		g.grazeFrames--
	}
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	reload := false
	for {
		select {
		case change, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("level file changed: %s", change.Path)
			reload = true
		case err := <-g.watcher.Errors:
			log.Printf("level watcher: %v", err)
		default:
			if reload {
				if err := g.loadLevel(); err != nil {
					log.Printf("reload level: %v", err)
				}
			}
			return
		}
	}
}

func (g *Game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.session.Restart(time.Now())
		g.draggingPan = false
		g.drawingRamp = false
	}
	if g.session.Level.Drawable {
		if inpututil.IsKeyJustPressed(ebiten.KeyX) {
			g.session.ClearRamp()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyC) {
			g.copyRamp()
		}
	}
}

// routePointer decides which control the drag belongs to. Aiming wins while a
// piece is caught, then pan dragging, then the ramp pen.
func (g *Game) routePointer() {
	s := g.session
	p := &g.pointer

	aimable := s.Level.Aimable && (s.Phase == sim.PhaseCaught || s.Phase == sim.PhaseAiming)
	if aimable {
		switch {
		case p.JustPressed:
			s.StartAim(p.Pos)
		case p.Pressed:
			s.MoveAim(p.Pos)
		case p.JustReleased:
			s.ReleaseAim()
		}
		return
	}

	if s.Level.HasPlatform {
		if p.JustPressed && s.Platform.ContainsX(p.Pos.X, 40) {
			g.draggingPan = true
		}
		if g.draggingPan {
			if p.Pressed {
				s.DragPlatform(p.Pos)
			} else {
				s.ReleasePlatform()
				g.draggingPan = false
			}
			return
		}
	}

	if s.Level.Drawable {
		if p.JustPressed {
			g.drawingRamp = true
		}
		if g.drawingRamp {
			if p.Pressed {
				s.AddRampPoint(p.Pos)
			} else {
				g.drawingRamp = false
			}
		}
	}
}

// copyRamp puts the drawn ramp on the clipboard as level-file yaml so a good
// run can be pasted into a hazard or obstacle block.
func (g *Game) copyRamp() {
	if !g.clipboardOK || len(g.session.Ramp) == 0 {
		return
	}
	points := make([]levels.PointSpec, 0, len(g.session.Ramp))
	for _, p := range g.session.Ramp {
		points = append(points, levels.PointSpec{X: p.X, Y: p.Y})
	}
	data, err := yaml.Marshal(map[string][]levels.PointSpec{"points": points})
	if err != nil {
		log.Printf("encode ramp: %v", err)
		return
	}
	clipboard.Write(clipboard.FmtText, data)
}

func (g *Game) handleEvents() {
	for _, evt := range g.session.Events() {
		switch evt.Kind {
		case sim.EventWin:
			g.store.RecordAttempt(g.variant)
			g.store.RecordWin(g.variant, g.session.Level.Name)
		case sim.EventLoss:
			g.store.RecordAttempt(g.variant)
			g.store.RecordLoss(g.variant)
		case sim.EventLevelCleared:
			g.store.RecordScore(g.variant, g.session.Successes)
			if err := g.store.Save(); err != nil {
				log.Printf("save progress: %v", err)
			}
		case sim.EventGraze:
			g.grazeFrames = 20
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	snap := g.session.Snapshot()
	drawSnapshot(screen, snap)

	if g.grazeFrames > 0 {
		drawGrazeFlash(screen, snap)
	}
	if snap.Phase == sim.PhaseWon {
		ebitenutil.DebugPrintAt(screen,
			fmt.Sprintf("Level cleared! %d/%d  --  press R to replay", snap.Successes, snap.Required),
			int(g.session.Level.ScreenW)/2-110, int(g.session.Level.ScreenH)/2)
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
	if g.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"%s  %d/%d  attempts: %d  fps: %.1f",
			snap.Phase, snap.Successes, snap.Required, snap.Attempts, ebiten.ActualFPS()))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.session.Level.ScreenW), int(g.session.Level.ScreenH)
}
