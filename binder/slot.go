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

package binder

import (
	"fmt"

	"github.com/jetsetilly/gopherboy/hardware/bus"
	"github.com/jetsetilly/gopherboy/plugins"
)

// Slot is a place where a device can be bound. There is one slot for video,
// one for audio and one for each joypad port.
type Slot struct {
	Kind plugins.Kind

	// joypad port for input slots
	Port int
}

// The video and audio slots.
var (
	VideoSlot = Slot{Kind: plugins.Video}
	AudioSlot = Slot{Kind: plugins.Audio}
)

// InputSlot returns the slot for the joypad port.
func InputSlot(port int) Slot {
	return Slot{Kind: plugins.Input, Port: port}
}

// String returns the name of the slot. The name is used to identify the slot
// in the preferences.
func (s Slot) String() string {
	if s.Kind == plugins.Input {
		return fmt.Sprintf("input:%d", s.Port)
	}
	return s.Kind.String()
}

// ParseSlot is the inverse of Slot.String().
func ParseSlot(s string) (Slot, bool) {
	for _, slot := range AllSlots() {
		if slot.String() == s {
			return slot, true
		}
	}
	return Slot{}, false
}

// AllSlots returns every slot in the order they are bound at startup.
func AllSlots() []Slot {
	slots := []Slot{VideoSlot, AudioSlot}
	for i := range bus.NumPorts {
		slots = append(slots, InputSlot(i))
	}
	return slots
}
