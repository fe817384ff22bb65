// Package spi pushes frames of model.Color to an addressable LED strip.
//
// Two transmitters are provided: Encoder drives ws2812 class LEDs directly
// from an SPI port, Renderer draws through any periph display.Drawer (the
// nrzled driver or the console screen1d simulator).
package spi

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/devices/v3/screen1d"

	"github.com/coreman2200/ledwalk/model"
)

// Transmitter sends one frame to the strip. On success the strip shows
// exactly frame, in order, until the next call.
type Transmitter interface {
	Transmit(frame []model.Color) error
}

// Device is a Transmitter bound to a bus that can be shut down.
type Device interface {
	Transmitter
	String() string
	// Halt turns every LED off.
	Halt() error
	Close() error
}

// ErrFrameTooLong is returned when a frame has more pixels than the device
// was opened for.
var ErrFrameTooLong = errors.New("spi: frame longer than strip capacity")

// Driver selects a Device implementation.
type Driver string

const (
	// WS2812 encodes bits directly on the SPI MOSI line.
	WS2812 Driver = "ws2812"
	// NRZ uses periph's nrzled driver.
	NRZ Driver = "nrzled"
	// Sim prints the strip on the console.
	Sim Driver = "sim"
)

// NRZFreq is the SPI clock handed to nrzled, 3 SPI bits per LED bit.
const NRZFreq = 2500 * physic.KiloHertz

// Drivers lists the accepted driver names.
func Drivers() []Driver {
	return []Driver{WS2812, NRZ, Sim}
}

func (d Driver) Valid() bool {
	for _, v := range Drivers() {
		if d == v {
			return true
		}
	}
	return false
}

// Open returns the device for driver. port is a spireg name, empty for the
// first registered SPI port; it is ignored by Sim. host.Init() must have been
// called before opening a hardware driver.
func Open(driver Driver, port string, capacity int) (Device, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("spi: invalid LED count: %d", capacity)
	}
	if driver == Sim {
		return NewRenderer(screen1d.New(&screen1d.Opts{X: capacity}), capacity, nil), nil
	}
	if !driver.Valid() {
		return nil, fmt.Errorf("spi: unknown driver %q", driver)
	}

	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("spi: open port %q: %w", port, err)
	}
	var d Device
	switch driver {
	case WS2812:
		d, err = NewEncoder(p, capacity)
	case NRZ:
		d, err = NewNRZ(p, capacity)
	}
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return d, nil
}

// NewNRZ drives the strip through periph's nrzled driver on p.
func NewNRZ(p spi.PortCloser, capacity int) (*Renderer, error) {
	o := nrzled.Opts{
		NumPixels: capacity,
		Channels:  3,
		Freq:      NRZFreq,
	}
	d, err := nrzled.NewSPI(p, &o)
	if err != nil {
		return nil, fmt.Errorf("spi: nrzled: %w", err)
	}
	return NewRenderer(d, capacity, p), nil
}
