package spi

import (
	"fmt"
	"image"
	"io"

	"periph.io/x/conn/v3/display"

	"github.com/coreman2200/ledwalk/model"
)

// Renderer transmits frames by drawing them as a 1xN image on a
// display.Drawer.
type Renderer struct {
	drawer   display.Drawer
	closer   io.Closer
	capacity int
}

// NewRenderer wraps d. closer, if not nil, is closed by Close; it is usually
// the SPI port d was built on.
func NewRenderer(d display.Drawer, capacity int, closer io.Closer) *Renderer {
	return &Renderer{drawer: d, closer: closer, capacity: capacity}
}

func (r *Renderer) String() string {
	return r.drawer.String()
}

func (r *Renderer) Transmit(frame []model.Color) error {
	if len(frame) > r.capacity {
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLong, len(frame), r.capacity)
	}
	if err := r.drawer.Draw(r.drawer.Bounds(), model.Image(frame), image.Point{}); err != nil {
		return fmt.Errorf("spi: draw %s: %w", r.drawer, err)
	}
	return nil
}

func (r *Renderer) Halt() error {
	return r.drawer.Halt()
}

func (r *Renderer) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
