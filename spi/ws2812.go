package spi

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/coreman2200/ledwalk/model"
)

const (
	// BusFreq gives 333ns SPI bits, four per ws2812 bit.
	BusFreq = 3 * physic.MegaHertz
	// BusMode is clock idle low, data sampled on the first edge.
	BusMode = spi.Mode0

	// bytesPerPixel is 3 channels of 8 bits at 4 SPI bits each.
	bytesPerPixel = 12

	// ResetBytes of low line after a frame latch it: 140 * 8 / 3MHz ≈ 373µs,
	// above the 280µs the ws2812b asks for.
	ResetBytes = 140
)

// patterns encodes two data bits, MSB first, as two 4-bit cells:
// 0 is high for one cell bit (1000), 1 is high for three (1110).
var patterns = [4]byte{0b1000_1000, 0b1000_1110, 0b1110_1000, 0b1110_1110}

// Encoder writes frames to ws2812 LEDs wired to the MOSI line of an SPI
// port. Channels are sent in the strip's native GRB order.
type Encoder struct {
	port     spi.Port
	conn     spi.Conn
	capacity int
	buf      []byte
}

// NewEncoder connects to p at BusFreq in BusMode.
func NewEncoder(p spi.Port, capacity int) (*Encoder, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("spi: invalid LED count: %d", capacity)
	}
	c, err := p.Connect(BusFreq, BusMode, 8)
	if err != nil {
		return nil, fmt.Errorf("spi: connect %s: %w", p, err)
	}
	return &Encoder{
		port:     p,
		conn:     c,
		capacity: capacity,
		buf:      make([]byte, capacity*bytesPerPixel+ResetBytes),
	}, nil
}

func (e *Encoder) String() string {
	return "ws2812{" + e.port.String() + "}"
}

// Transmit encodes frame followed by the reset tail and sends it in one
// transaction.
func (e *Encoder) Transmit(frame []model.Color) error {
	if len(frame) > e.capacity {
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLong, len(frame), e.capacity)
	}
	n := Encode(e.buf, frame)
	end := n + ResetBytes
	for i := n; i < end; i++ {
		e.buf[i] = 0
	}
	if err := e.conn.Tx(e.buf[:end], nil); err != nil {
		return fmt.Errorf("spi: write %s: %w", e, err)
	}
	return nil
}

// Halt sends an all off frame for the full capacity.
func (e *Encoder) Halt() error {
	return e.Transmit(make([]model.Color, e.capacity))
}

func (e *Encoder) Close() error {
	if c, ok := e.port.(spi.PortCloser); ok {
		return c.Close()
	}
	return nil
}

// Encode writes the bus bytes for frame into dst and returns how many were
// written. dst must hold 12 bytes per pixel.
func Encode(dst []byte, frame []model.Color) int {
	off := 0
	for _, c := range frame {
		off += encodeByte(dst[off:], c.G)
		off += encodeByte(dst[off:], c.R)
		off += encodeByte(dst[off:], c.B)
	}
	return off
}

func encodeByte(dst []byte, v byte) int {
	for i := 0; i < 4; i++ {
		dst[i] = patterns[(v>>6)&0b11]
		v <<= 2
	}
	return 4
}
