package model

import (
	"fmt"
	"image/color"
)

const (
	RED_OFFSET   uint8 = 0x10
	GREEN_OFFSET uint8 = 0x08
	BLUE_OFFSET  uint8 = 0x0
)

// Color is the value of one addressable LED. The zero value is off.
type Color struct {
	R, G, B uint8
}

// NewColor unpacks a 0xRRGGBB value.
func NewColor(c uint32) Color {
	return Color{
		R: getcolor(c, RED_OFFSET),
		G: getcolor(c, GREEN_OFFSET),
		B: getcolor(c, BLUE_OFFSET),
	}
}

// Packed returns the color as 0xRRGGBB.
func (c Color) Packed() uint32 {
	var v uint32
	v = setcolor(v, c.R, RED_OFFSET)
	v = setcolor(v, c.G, GREEN_OFFSET)
	v = setcolor(v, c.B, BLUE_OFFSET)
	return v
}

func setcolor(c uint32, n uint8, off uint8) uint32 {
	var val uint32 = uint32(n) << off
	var mask uint32 = 0xFF << off
	return (c & (^mask)) | val
}

func getcolor(c uint32, off uint8) uint8 {
	var mask uint32 = 0xFF << off
	return uint8((c & mask) >> off)
}

func (c Color) ToNRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Serialize returns the raw R, G, B bytes.
func (c Color) Serialize() []byte {
	return []byte{c.R, c.G, c.B}
}

// Max is the brightest channel.
func (c Color) Max() uint8 {
	m := c.R
	if c.G > m {
		m = c.G
	}
	if c.B > m {
		m = c.B
	}
	return m
}

func (c Color) Off() bool {
	return c == Color{}
}

func (c Color) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.R, c.G, c.B)
}

// Decay lowers every channel by one, stopping at zero.
func Decay(c Color) Color {
	return Color{R: decay(c.R), G: decay(c.G), B: decay(c.B)}
}

func decay(v uint8) uint8 {
	if v == 0 {
		return 0
	}
	return v - 1
}
