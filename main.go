package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"pandrop/levels"
)

func main() {
	variant := flag.String("variant", levels.VariantDrop, "game variant: drop, stack, flip, ramp, shot")
	levelName := flag.String("level", "", "level file in levels/ (basename, .yaml optional)")
	dev := flag.Bool("dev", false, "watch levels/ on disk and hot-reload edits")
	debug := flag.Bool("debug", false, "show phase and fps overlay")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	game, err := NewGame(*variant, *levelName, *dev, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(int(game.session.Level.ScreenW), int(game.session.Level.ScreenH))
	ebiten.SetWindowTitle("pandrop")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
