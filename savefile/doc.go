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

// Package savefile persists the battery-backed RAM of a cartridge, and the
// real-time-clock if the cartridge has one.
//
// The file has no header. It is the RAM image followed by the clock in the
// format described by the rtc package. The same format is used by other
// emulators so save files can be moved between them.
//
// A Store is opened when a ROM is loaded. It should be told whenever the RAM
// has been changed with NotifyRAMChanged() and closed when the ROM is
// unloaded.
package savefile
