// This file is part of Gopherboy.
//
// Gopherboy is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopherboy is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopherboy.  If not, see <https://www.gnu.org/licenses/>.

package core

import (
	"hash/crc32"
	"image"
	"image/color"
	"time"

	"github.com/jetsetilly/gopherboy/hardware/bus"
	"github.com/jetsetilly/gopherboy/hardware/cartridge"
)

// the four shades of the original Game Boy LCD
var palette = [4]color.RGBA{
	{R: 0xe0, G: 0xf8, B: 0xd0, A: 0xff},
	{R: 0x88, G: 0xc0, B: 0x70, A: 0xff},
	{R: 0x34, G: 0x68, B: 0x56, A: 0xff},
	{R: 0x08, G: 0x18, B: 0x20, A: 0xff},
}

// number of stereo sample pairs in one frame
const samplesPerFrame = bus.SampleRate * 10000 / 597275

// Blank is a Core that does not execute the cartridge program. It draws a test
// pattern that is unique to the cartridge and plays a tone while any button
// is held down.
//
// Blank allows the devices and the battery save file to be exercised without
// a CPU.
type Blank struct {
	cart *cartridge.Cartridge

	// seed for the test pattern. taken from the cartridge title
	seed uint32

	frame   *image.RGBA
	samples []int16
	frameCt int
	phase   int

	// if RAMTicker is greater than zero then the first byte of external RAM
	// is incremented every RAMTicker frames. the write is bracketed by the
	// enabling and disabling of RAM in the way a cartridge program would
	RAMTicker int

	// source of the current time for the real-time-clock. defaults to
	// time.Now
	Now func() time.Time
}

// NewBlank is the preferred method of initialisation for the Blank type.
func NewBlank(cart *cartridge.Cartridge) *Blank {
	return &Blank{
		cart:    cart,
		seed:    crc32.ChecksumIEEE([]byte(cart.Header.Title)),
		frame:   image.NewRGBA(image.Rect(0, 0, bus.ScreenWidth, bus.ScreenHeight)),
		samples: make([]int16, samplesPerFrame*2),
		Now:     time.Now,
	}
}

// Reset implements the Core interface. Blank has no boot ROM.
func (b *Blank) Reset(_ bool) error {
	b.frameCt = 0
	b.phase = 0
	return nil
}

// Step implements the Core interface.
func (b *Blank) Step(buttons [bus.NumPorts]bus.Buttons) error {
	b.frameCt++

	var held bus.Buttons
	for _, btn := range buttons {
		held |= btn
	}

	b.draw(held)
	b.tone(held != 0)

	if clk := b.cart.RTC(); clk != nil {
		clk.Latch(b.Now())
	}

	if b.RAMTicker > 0 && b.frameCt%b.RAMTicker == 0 && b.cart.SavedRamSize() > 0 {
		if err := b.cart.EnableRAM(true); err != nil {
			return err
		}
		b.cart.WriteRAM(0, b.cart.ExternalRAM()[0]+1)
		if err := b.cart.EnableRAM(false); err != nil {
			return err
		}
	}

	return nil
}

// diagonal stripes scrolling at a speed and angle decided by the seed. held
// buttons invert the pattern
func (b *Blank) draw(held bus.Buttons) {
	dx := int(b.seed&0x03) + 1
	dy := int(b.seed>>2&0x03) + 1
	width := int(b.seed>>4&0x0f) + 4

	for y := range bus.ScreenHeight {
		for x := range bus.ScreenWidth {
			shade := ((x*dx + y*dy + b.frameCt) / width) % len(palette)
			if held != 0 {
				shade = len(palette) - 1 - shade
			}
			b.frame.SetRGBA(x, y, palette[shade])
		}
	}
}

// a quiet square wave at 440Hz
func (b *Blank) tone(on bool) {
	const halfPeriod = bus.SampleRate / 440 / 2
	const amplitude = 2048

	for i := 0; i < len(b.samples); i += 2 {
		var v int16
		if on {
			if (b.phase/halfPeriod)%2 == 0 {
				v = amplitude
			} else {
				v = -amplitude
			}
			b.phase++
		}
		b.samples[i] = v
		b.samples[i+1] = v
	}
}

// Frame implements the Core interface.
func (b *Blank) Frame() *image.RGBA {
	return b.frame
}

// Samples implements the Core interface.
func (b *Blank) Samples() []int16 {
	return b.samples
}
