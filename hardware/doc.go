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

// Package hardware is the root of the emulated Game Boy.
//
// The cartridge package models the ROM header and the battery-backed RAM. The
// rtc package is the real-time-clock found in some MBC3 cartridges. The bus
// package connects the emulation to the video, audio and joypad devices. The
// core package defines the interface to the part of the emulation that
// produces each frame.
package hardware
