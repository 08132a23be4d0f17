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
	"image"

	"github.com/jetsetilly/gopherboy/hardware/bus"
)

// Core is the CPU, PPU and APU of the Game Boy. The emulation package drives
// the Core one frame at a time.
type Core interface {
	// Reset the core to its power-on state. If bootROM is true and the core
	// has a boot ROM then the boot ROM is run before the cartridge.
	Reset(bootROM bool) error

	// Step the core forward by one frame. The buttons held down on each
	// joypad port are sampled once per frame.
	Step(buttons [bus.NumPorts]bus.Buttons) error

	// The most recently completed frame. The image is reused every frame.
	Frame() *image.RGBA

	// The audio samples produced during the most recent frame. Interleaved
	// stereo samples at bus.SampleRate. The slice is reused every frame.
	Samples() []int16
}
