package main

import (
	ebuiinput "github.com/ebitenui/ebitenui/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/pawnctl/input"
)

var ebitenKeys = map[ebiten.Key]input.Key{
	ebiten.KeyW:          input.KeyW,
	ebiten.KeyA:          input.KeyA,
	ebiten.KeyS:          input.KeyS,
	ebiten.KeyD:          input.KeyD,
	ebiten.KeyArrowUp:    input.KeyArrowUp,
	ebiten.KeyArrowDown:  input.KeyArrowDown,
	ebiten.KeyArrowLeft:  input.KeyArrowLeft,
	ebiten.KeyArrowRight: input.KeyArrowRight,
	ebiten.KeySpace:      input.KeySpace,
	ebiten.KeyEnter:      input.KeyEnter,
}

// Keyboard publishes ebiten key and mouse transitions onto a bus once per
// tick. Keys without a logical name are published under ebiten's own name
// so custom bindings can still pick them up.
type Keyboard struct {
	bus  *input.Bus
	keys []ebiten.Key
}

func NewKeyboard(bus *input.Bus) *Keyboard {
	return &Keyboard{bus: bus}
}

func (k *Keyboard) Poll() {
	k.keys = inpututil.AppendJustReleasedKeys(k.keys[:0])
	for _, key := range k.keys {
		k.bus.Publish(input.Event{Key: logicalKey(key), Down: false})
	}
	k.mouse(false, inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft), false)

	k.keys = inpututil.AppendJustPressedKeys(k.keys[:0])
	for _, key := range k.keys {
		k.bus.Publish(input.Event{Key: logicalKey(key), Down: true})
	}
	k.mouse(inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft), false, ebuiinput.UIHovered)
}

// mouse publishes left button transitions. A press over the overlay belongs
// to the overlay and is dropped; releases always go out so shoot can't stick.
func (k *Keyboard) mouse(pressed, released, overUI bool) {
	if released {
		k.bus.Publish(input.Event{Key: input.MouseLeft, Down: false})
	}
	if pressed && !overUI {
		k.bus.Publish(input.Event{Key: input.MouseLeft, Down: true})
	}
}

func logicalKey(key ebiten.Key) input.Key {
	if k, ok := ebitenKeys[key]; ok {
		return k
	}
	return input.Key("Key" + key.String())
}
