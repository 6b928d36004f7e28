package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"pandrop/common"
	"pandrop/sim"
)

// Draw order: zone, obstacles, ramp, hazards, stack, platform, body, preview,
// aim line, HUD bar. Everything reads from the snapshot only.
func drawSnapshot(screen *ebiten.Image, snap sim.Snapshot) {
	drawZone(screen, snap.Zone)

	for _, o := range snap.Obstacles {
		drawRect(screen, o, colornames.Dimgray)
	}

	if len(snap.Ramp) > 1 {
		drawPolyline(screen, snap.Ramp, 3, colornames.Burlywood)
	}

	for _, h := range snap.Hazards {
		col := colornames.Orangered
		if h.Kind == sim.HazardInstant {
			col = colornames.Crimson
		}
		if len(h.Segments) > 1 {
			drawPolyline(screen, h.Segments, 4, col)
		} else {
			drawRect(screen, h.Bounds, col)
		}
	}

	for _, b := range snap.Landed {
		drawBody(screen, b)
	}

	if snap.HasPlatform {
		drawPlatform(screen, snap.Platform, &snap.Tuning)
	}

	if snap.HasBody {
		drawBody(screen, snap.Body)
	}

	for _, p := range snap.Preview {
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), 2, colornames.Lightsteelblue, true)
	}

	if snap.Aiming && len(snap.Preview) == 0 && snap.HasBody {
		vector.StrokeCircle(screen, float32(snap.Body.Pos.X), float32(snap.Body.Pos.Y), float32(snap.Body.Radius)+4, 1, colornames.White, true)
	}

	if snap.DwellProgress > 0 {
		drawDwellBar(screen, snap)
	}
}

func drawZone(screen *ebiten.Image, z sim.Zone) {
	switch z.Kind {
	case sim.ZoneLanding, sim.ZoneStack:
		drawRect(screen, z.Landing, colornames.Seagreen)
	case sim.ZoneOpening:
		drawRect(screen, z.Outer, colornames.Slategray)
		drawRect(screen, z.Opening, colornames.Mediumseagreen)
	case sim.ZoneCircular:
		vector.StrokeCircle(screen, float32(z.Center.X), float32(z.Center.Y), float32(z.EdgeRadius), 2, colornames.Slategray, true)
		vector.DrawFilledCircle(screen, float32(z.Center.X), float32(z.Center.Y), float32(z.CenterRadius), colornames.Seagreen, true)
	case sim.ZoneDrain:
		vector.DrawFilledCircle(screen, float32(z.Center.X), float32(z.Center.Y), float32(z.DrainRadius), colornames.Midnightblue, true)
		vector.StrokeCircle(screen, float32(z.Center.X), float32(z.Center.Y), float32(z.DrainRadius), 2, colornames.Seagreen, true)
	}
}

func drawBody(screen *ebiten.Image, b sim.BodyView) {
	col := bodyColor(b)
	vector.DrawFilledCircle(screen, float32(b.Pos.X), float32(b.Pos.Y), float32(b.Radius), col, true)
	vector.StrokeCircle(screen, float32(b.Pos.X), float32(b.Pos.Y), float32(b.Radius), 1, colornames.White, true)
	// A short spoke makes the spin visible.
	tip := b.Pos.Add(sim.V(math.Cos(b.Rotation), math.Sin(b.Rotation)).Mult(b.Radius))
	vector.StrokeLine(screen, float32(b.Pos.X), float32(b.Pos.Y), float32(tip.X), float32(tip.Y), 1, colornames.White, true)
}

func bodyColor(b sim.BodyView) color.Color {
	switch b.State {
	case sim.BodyWon:
		return colornames.Gold
	case sim.BodyLost:
		return colornames.Gray
	}
	// Spoilage fades the piece from wheat toward char.
	t := common.Clamp01(float32(b.Spoilage))
	return color.NRGBA{
		R: uint8(common.Lerp(0xf5, 0x40, t)),
		G: uint8(common.Lerp(0xde, 0x30, t)),
		B: uint8(common.Lerp(0xb3, 0x28, t)),
		A: 0xff,
	}
}

func drawPlatform(screen *ebiten.Image, p sim.Platform, tn *sim.Tuning) {
	left := p.Pos.X - p.Width/2
	right := p.Pos.X + p.Width/2
	vector.StrokeLine(screen,
		float32(left), float32(p.SurfaceYAt(left, tn)),
		float32(right), float32(p.SurfaceYAt(right, tn)),
		float32(p.Height), colornames.Lightslategray, true)
}

func drawRect(screen *ebiten.Image, r sim.Rect, col color.Color) {
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), col, true)
}

func drawPolyline(screen *ebiten.Image, pts []sim.Vec, width float32, col color.Color) {
	for i := 1; i < len(pts); i++ {
		vector.StrokeLine(screen,
			float32(pts[i-1].X), float32(pts[i-1].Y),
			float32(pts[i].X), float32(pts[i].Y),
			width, col, true)
	}
}

// drawGrazeFlash rings the circular target for a few frames after an edge
// graze so the near miss reads on screen.
func drawGrazeFlash(screen *ebiten.Image, snap sim.Snapshot) {
	z := snap.Zone
	if z.Kind != sim.ZoneCircular {
		return
	}
	vector.StrokeCircle(screen, float32(z.Center.X), float32(z.Center.Y), float32(z.EdgeRadius)+3, 2, colornames.Yellow, true)
}

func drawDwellBar(screen *ebiten.Image, snap sim.Snapshot) {
	if !snap.HasBody {
		return
	}
	w := float32(snap.Body.Radius) * 2
	x := float32(snap.Body.Pos.X) - w/2
	y := float32(snap.Body.Pos.Y-snap.Body.Radius) - 10
	vector.DrawFilledRect(screen, x, y, w, 4, colornames.Dimgray, true)
	vector.DrawFilledRect(screen, x, y, w*common.Clamp01(float32(snap.DwellProgress)), 4, colornames.Gold, true)
}
