package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	script := flag.String("script", "", "tengo input script in prefabs/scripts (basename, .tengo optional)")
	edge := flag.Bool("edge", false, "fire jump/shoot once per press instead of every held frame")
	debug := flag.Bool("debug", false, "show controller state overlay")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("pawnctl")

	game, err := NewGame(GameOptions{Script: *script, Edge: *edge, Debug: *debug})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		log.Fatal(err)
	}
}
