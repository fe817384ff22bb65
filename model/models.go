package model

import (
	"bytes"
	"image"
)

// MaxLeds is the number of pixels on the strip.
const MaxLeds = 50

// Brightness is the channel value of the seed palette.
const Brightness uint8 = 128

var (
	Red   = Color{R: Brightness}
	Green = Color{G: Brightness}
	Blue  = Color{B: Brightness}

	// Palette is repeated along the strip at startup.
	Palette = []Color{Red, Green, Blue}
)

// Strip is the pixel buffer, index 0 being the pixel nearest the data input.
type Strip [MaxLeds]Color

// Seed returns a strip filled by cycling through palette. Slots the palette
// never reaches are left off.
func Seed(palette []Color) Strip {
	var s Strip
	if len(palette) == 0 {
		return s
	}
	for i := range s {
		s[i] = palette[i%len(palette)]
	}
	return s
}

// Decay applies one decay step to every pixel, lit or not.
func (s *Strip) Decay() {
	for i := range s {
		s[i] = Decay(s[i])
	}
}

func (s *Strip) Leds() []Color {
	return s[:]
}

// Peak returns the highest channel value on the strip. It is also the number
// of decay steps left before the strip goes dark.
func (s *Strip) Peak() uint8 {
	var m uint8
	for _, c := range s {
		if v := c.Max(); v > m {
			m = v
		}
	}
	return m
}

func (s *Strip) Dark() bool {
	return s.Peak() == 0
}

// Image renders the strip as a one pixel high image for display.Drawer sinks.
func (s *Strip) Image() *image.NRGBA {
	return Image(s[:])
}

// Image renders leds as a 1xN image.
func Image(leds []Color) *image.NRGBA {
	im := image.NewNRGBA(image.Rect(0, 0, len(leds), 1))
	for x := 0; x < im.Rect.Max.X; x++ {
		im.SetNRGBA(x, 0, leds[x].ToNRGBA())
	}
	return im
}

// Bytes serializes leds as consecutive R, G, B triplets.
func Bytes(leds []Color) []byte {
	buf := new(bytes.Buffer)
	buf.Grow(len(leds) * 3)
	for _, v := range leds {
		buf.Write(v.Serialize())
	}
	return buf.Bytes()
}
