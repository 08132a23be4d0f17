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

// Package notifications allow communication from a cartridge, or from the
// emulation goroutine more generally, to the control side of the program.
//
// Notifications are delivered synchronously through the Notify interface.
// There is only ever one receiver of notifications for a cartridge. The
// receiver is attached when a ROM is loaded and detached when the ROM is
// unloaded.
package notifications
