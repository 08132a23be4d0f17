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

package terminal

import (
	"sync"
	"time"

	"github.com/jetsetilly/gopherboy/hardware/bus"
)

// a terminal does not report when a key is released. a key press is treated
// as the button being held for this long. the value is a little longer than
// the usual key repeat interval so that holding a key down looks like a
// continuous press
const holdDuration = 150 * time.Millisecond

const escape = 0x1b

// decode the bytes read from a terminal into the buttons they represent
func decode(p []byte) bus.Buttons {
	var b bus.Buttons
	for i := 0; i < len(p); i++ {
		// cursor keys are sent as the escape sequence ESC [ A and so on
		if p[i] == escape && i+2 < len(p) && (p[i+1] == '[' || p[i+1] == 'O') {
			switch p[i+2] {
			case 'A':
				b |= bus.ButtonUp
			case 'B':
				b |= bus.ButtonDown
			case 'C':
				b |= bus.ButtonRight
			case 'D':
				b |= bus.ButtonLeft
			}
			i += 2
			continue
		}

		switch p[i] {
		case 'w', 'W':
			b |= bus.ButtonUp
		case 's', 'S':
			b |= bus.ButtonDown
		case 'a', 'A':
			b |= bus.ButtonLeft
		case 'd', 'D':
			b |= bus.ButtonRight
		case 'z', 'Z', 'k', 'K':
			b |= bus.ButtonA
		case 'x', 'X', 'j', 'J':
			b |= bus.ButtonB
		case ' ':
			b |= bus.ButtonSelect
		case '\r', '\n':
			b |= bus.ButtonStart
		}
	}
	return b
}

// keys records when each button was last pressed
type keys struct {
	crit    sync.Mutex
	pressed [8]time.Time
}

func (k *keys) press(b bus.Buttons, now time.Time) {
	k.crit.Lock()
	defer k.crit.Unlock()
	for i := range k.pressed {
		if b&(1<<i) != 0 {
			k.pressed[i] = now
		}
	}
}

func (k *keys) buttons(now time.Time) bus.Buttons {
	k.crit.Lock()
	defer k.crit.Unlock()
	var b bus.Buttons
	for i, t := range k.pressed {
		if !t.IsZero() && now.Sub(t) < holdDuration {
			b |= 1 << i
		}
	}
	return b
}
