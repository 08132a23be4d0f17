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

// Package emulation runs a Core in its own goroutine and connects it to the
// devices on the bus.
//
// The emulation is controlled with Run(), Pause(), RunFrame(), Reset() and
// Stop(). Each of these is a request to the emulation goroutine and does not
// return until the request has been acted upon.
//
// While running, the measured speed of the emulation is posted to the mailbox
// returned by Speed(). The control side of the program can collect the speed
// at its own pace.
package emulation
