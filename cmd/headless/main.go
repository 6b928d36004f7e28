// Command headless runs a level without a window: it dispenses pieces, holds
// the pan still under the dispenser, and prints every simulation event. Useful
// for checking that an edited level is beatable at all and for timing tuning
// changes.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"pandrop/levels"
	"pandrop/sim"
)

const tick = 16 * time.Millisecond

func main() {
	variant := flag.String("variant", levels.VariantDrop, "game variant to run")
	levelName := flag.String("level", "", "level file in levels/ (basename, .yaml optional)")
	ticks := flag.Int("ticks", 4000, "number of 16ms simulation ticks to run")
	panX := flag.Float64("pan-x", -1, "fixed pan center x (default: under the dispenser)")
	throwDX := flag.Float64("throw-dx", 0, "aim drag x when a piece is caught (aimable variants)")
	throwDY := flag.Float64("throw-dy", 0, "aim drag y when a piece is caught (aimable variants)")
	flag.Parse()

	var (
		spec *levels.LevelSpec
		err  error
	)
	if *levelName != "" {
		spec, err = levels.LoadLevel(*levelName)
	} else {
		spec, err = levels.ForVariant(*variant)
	}
	if err != nil {
		log.Fatal(err)
	}
	lv, err := spec.Build()
	if err != nil {
		log.Fatal(err)
	}

	now := time.Now()
	s := sim.NewSession(lv, now)

	if lv.HasPlatform {
		x := lv.Spawn.X
		if *panX >= 0 {
			x = *panX
		}
		s.DragPlatform(sim.V(x, lv.PlatformStart.Y))
		s.ReleasePlatform()
	}

	wins, losses := 0, 0
	for i := 0; i < *ticks; i++ {
		// Scripted throw: drag the caught piece by the flag vector, release
		// the following tick.
		if lv.Aimable && (*throwDX != 0 || *throwDY != 0) {
			switch s.Phase {
			case sim.PhaseCaught:
				if s.Body != nil && !s.Aim.Active {
					s.StartAim(s.Body.Pos)
					s.MoveAim(s.Body.Pos.Add(sim.V(*throwDX, *throwDY)))
				}
			case sim.PhaseAiming:
				s.ReleaseAim()
			}
		}
		now = now.Add(tick)
		s.Advance(now)
		for _, evt := range s.Events() {
			fmt.Printf("t=%s %s", time.Duration(i)*tick, evt.Kind)
			if evt.Reason != "" {
				fmt.Printf(" (%s)", evt.Reason)
			}
			fmt.Println()
			switch evt.Kind {
			case sim.EventWin:
				wins++
			case sim.EventLoss:
				losses++
			}
		}
		if s.Phase == sim.PhaseWon {
			break
		}
	}

	fmt.Printf("level %s: %d wins, %d losses, %d attempts, phase %s\n",
		lv.Name, wins, losses, s.Attempts, s.Phase)
	if wins == 0 {
		os.Exit(1)
	}
}
