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

package bus

import (
	"fmt"
	"image"
	"sync"

	"github.com/jetsetilly/gopherboy/curated"
)

// Screen dimensions of the Game Boy LCD.
const (
	ScreenWidth  = 160
	ScreenHeight = 144
)

// SampleRate is the number of stereo sample pairs per second sent to an
// AudioRenderer.
const SampleRate = 44100

// NumPorts is the number of joypad ports. The Game Boy has one port but the
// Super Game Boy allows up to four players.
const NumPorts = 4

// InvalidPort is returned when a joypad port number is out of range.
const InvalidPort = "bus: invalid port: %d"

// Device is implemented by everything that can be attached to the bus.
type Device interface {
	// Close releases any resources held by the device. The device is always
	// detached from the bus before Close() is called.
	Close() error
}

// VideoRenderer is a device that displays or otherwise consumes completed
// frames.
type VideoRenderer interface {
	Device

	// Resize is called with the dimensions of the frames that will be sent
	// to NewFrame(). Called when the renderer is attached if the dimensions
	// are known at that point, and again whenever the dimensions change.
	Resize(width int, height int) error

	// NewFrame is called with every completed frame. The image is reused by
	// the emulation and should not be retained.
	NewFrame(frame *image.RGBA) error
}

// AudioRenderer is a device that plays or otherwise consumes audio.
type AudioRenderer interface {
	Device

	// SetAudio is called with interleaved stereo samples at SampleRate. The
	// slice is reused by the emulation and should not be retained.
	SetAudio(samples []int16) error
}

// Joypad is a device that provides button state for one port.
type Joypad interface {
	Device

	// Buttons returns the buttons currently held down.
	Buttons() Buttons
}

// Buttons is a bit field of the buttons on a Game Boy joypad.
type Buttons uint8

// List of buttons.
const (
	ButtonRight Buttons = 1 << iota
	ButtonLeft
	ButtonUp
	ButtonDown
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
)

var buttonNames = []string{"Right", "Left", "Up", "Down", "A", "B", "Select", "Start"}

func (b Buttons) String() string {
	s := ""
	for i, n := range buttonNames {
		if b&(1<<i) != 0 {
			if s != "" {
				s += "+"
			}
			s += n
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// Bus connects the emulation to the active devices. The devices can be
// replaced by the control side of the program while the emulation is
// running.
type Bus struct {
	crit sync.RWMutex

	video   VideoRenderer
	audio   AudioRenderer
	joypads [NumPorts]Joypad

	// most recent dimensions given to Resize(). zero until the first call
	width  int
	height int
}

// NewBus is the preferred method of initialisation for the Bus type.
func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) String() string {
	b.crit.RLock()
	defer b.crit.RUnlock()
	return fmt.Sprintf("video: %T audio: %T joypads: %T %T %T %T", b.video, b.audio,
		b.joypads[0], b.joypads[1], b.joypads[2], b.joypads[3])
}

// AttachVideo sets the video renderer, returning the previous renderer. A nil
// argument detaches the current renderer.
//
// If the frame dimensions are already known the renderer is resized before it
// is attached. The current renderer is left in place if the resize fails.
func (b *Bus) AttachVideo(v VideoRenderer) (VideoRenderer, error) {
	b.crit.Lock()
	defer b.crit.Unlock()
	if v != nil && b.width > 0 && b.height > 0 {
		if err := v.Resize(b.width, b.height); err != nil {
			return nil, err
		}
	}
	old := b.video
	b.video = v
	return old, nil
}

// AttachAudio sets the audio renderer, returning the previous renderer. A nil
// argument detaches the current renderer.
func (b *Bus) AttachAudio(a AudioRenderer) AudioRenderer {
	b.crit.Lock()
	defer b.crit.Unlock()
	old := b.audio
	b.audio = a
	return old
}

// AttachJoypad sets the joypad for a port, returning the previous joypad. A nil
// argument detaches the current joypad.
func (b *Bus) AttachJoypad(port int, j Joypad) (Joypad, error) {
	if port < 0 || port >= NumPorts {
		return nil, curated.Errorf(InvalidPort, port)
	}
	b.crit.Lock()
	defer b.crit.Unlock()
	old := b.joypads[port]
	b.joypads[port] = j
	return old, nil
}

// Video returns the attached video renderer. May be nil.
func (b *Bus) Video() VideoRenderer {
	b.crit.RLock()
	defer b.crit.RUnlock()
	return b.video
}

// Audio returns the attached audio renderer. May be nil.
func (b *Bus) Audio() AudioRenderer {
	b.crit.RLock()
	defer b.crit.RUnlock()
	return b.audio
}

// Joypad returns the joypad attached to the port. May be nil.
func (b *Bus) Joypad(port int) Joypad {
	if port < 0 || port >= NumPorts {
		return nil
	}
	b.crit.RLock()
	defer b.crit.RUnlock()
	return b.joypads[port]
}

// Resize forwards the frame dimensions to the video renderer. The dimensions
// are remembered and given to any renderer attached later.
func (b *Bus) Resize(width int, height int) error {
	b.crit.Lock()
	defer b.crit.Unlock()
	b.width = width
	b.height = height
	if b.video == nil {
		return nil
	}
	return b.video.Resize(width, height)
}

// NewFrame forwards the frame to the video renderer.
//
// The read lock is held for the duration of the call so a renderer will never
// be detached while it is rendering.
func (b *Bus) NewFrame(frame *image.RGBA) error {
	b.crit.RLock()
	defer b.crit.RUnlock()
	if b.video == nil {
		return nil
	}
	return b.video.NewFrame(frame)
}

// SetAudio forwards the samples to the audio renderer.
func (b *Bus) SetAudio(samples []int16) error {
	b.crit.RLock()
	defer b.crit.RUnlock()
	if b.audio == nil {
		return nil
	}
	return b.audio.SetAudio(samples)
}

// Buttons returns the buttons held down on each port. Ports without a joypad
// have no buttons held down.
func (b *Bus) Buttons() [NumPorts]Buttons {
	b.crit.RLock()
	defer b.crit.RUnlock()
	var btns [NumPorts]Buttons
	for i, j := range b.joypads {
		if j != nil {
			btns[i] = j.Buttons()
		}
	}
	return btns
}
