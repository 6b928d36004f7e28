package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"pandrop/sim"
)

// Pointer merges mouse and single-finger touch into one drag source so the
// same code drives the pan, the aim, and the ramp pen on desktop and mobile.
type Pointer struct {
	Pos          sim.Vec
	Pressed      bool
	JustPressed  bool
	JustReleased bool

	touching bool
	touchID  ebiten.TouchID
	touches  []ebiten.TouchID
}

// Update polls the mouse and touches once per frame.
func (p *Pointer) Update() {
	p.JustPressed = false
	p.JustReleased = false

	if p.touching {
		if inpututil.IsTouchJustReleased(p.touchID) {
			p.touching = false
			p.Pressed = false
			p.JustReleased = true
			return
		}
		x, y := ebiten.TouchPosition(p.touchID)
		p.Pos = sim.V(float64(x), float64(y))
		p.Pressed = true
		return
	}

	p.touches = inpututil.AppendJustPressedTouchIDs(p.touches[:0])
	if len(p.touches) > 0 {
		p.touching = true
		p.touchID = p.touches[0]
		x, y := ebiten.TouchPosition(p.touchID)
		p.Pos = sim.V(float64(x), float64(y))
		p.Pressed = true
		p.JustPressed = true
		return
	}

	x, y := ebiten.CursorPosition()
	p.Pos = sim.V(float64(x), float64(y))
	p.JustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	p.JustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	p.Pressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}
