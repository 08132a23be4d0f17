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

package notifications

// Notice describes events that happen in the emulation that the control side
// of the program needs to know about.
type Notice string

// List of defined notifications.
const (
	// the cartridge program has finished writing to battery-backed RAM or to
	// the real-time-clock. the save file should be updated
	NotifyRAMUpdated Notice = "NotifyRAMUpdated"

	// the state of the emulation has changed between stopped, paused and
	// running
	NotifyEmulationState Notice = "NotifyEmulationState"
)

// Notify is used for direct communication from the emulation to the
// control side of the program.
//
// Notify() is called from the emulation goroutine. Implementations should
// return quickly.
type Notify interface {
	Notify(notice Notice) error
}
