package assets

import (
	"image"
	"sync/atomic"
)

// Icon is a decoded image handle. It is built and released on the UI loop
// and never mutated in between.
type Icon struct {
	name       string
	img        image.Image
	generation uint64
	released   atomic.Bool
}

func (i *Icon) Name() string { return i.name }

// Image returns nil once the icon's generation has been replaced.
func (i *Icon) Image() image.Image {
	if i.released.Load() {
		return nil
	}
	return i.img
}

func (i *Icon) Bounds() image.Rectangle { return i.img.Bounds() }

func (i *Icon) Generation() uint64 { return i.generation }

func (i *Icon) Released() bool { return i.released.Load() }

func (i *Icon) release() { i.released.Store(true) }

// Entry pairs an icon name with its handle.
type Entry struct {
	Name string
	Icon *Icon
}

type generation struct {
	id    uint64
	icons map[string]*Icon
}

func (g *generation) release() {
	for _, icon := range g.icons {
		icon.release()
	}
}
