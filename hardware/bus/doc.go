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

// Package bus connects the emulation to the devices that present its output
// and provide its input. There is one video renderer, one audio renderer and
// a joypad for each of NumPorts ports.
//
// Devices are attached and detached by the control side of the program. The
// emulation goroutine calls NewFrame(), SetAudio() and Buttons() without
// needing to know which devices are attached, if any.
package bus
