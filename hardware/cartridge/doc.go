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

// Package cartridge models the parts of a Game Boy cartridge that are visible
// outside of the emulation core: the ROM header, the external RAM and the
// real-time-clock of MBC3 cartridges.
//
// Cartridges that have battery-backed RAM raise notifications.NotifyRAMUpdated
// when the cartridge program disables RAM after writing to it. The receiver
// of the notification will usually save the RAM to disk.
package cartridge
