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

// Package rtc implements the real-time-clock found in MBC3 cartridges and the
// encoding of the clock in battery save files.
//
// The State type holds the live and latched registers along with the
// real-world time the registers are correct for. Encode() and Decode()
// convert the State to and from the BlockSize byte block that follows the
// cartridge RAM in a save file.
package rtc
