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

// Package null provides devices that do nothing. They are installed before
// any other plugin so that a slot is always bound to something sensible when
// the preferred plugin is unavailable.
package null

import (
	"image"

	"github.com/jetsetilly/gopherboy/hardware/bus"
	"github.com/jetsetilly/gopherboy/plugins"
)

// ID used for all the null plugins.
const ID = "none"

// Video implements the bus.VideoRenderer interface.
type Video struct{}

// Resize implements the bus.VideoRenderer interface.
func (Video) Resize(_, _ int) error { return nil }

// NewFrame implements the bus.VideoRenderer interface.
func (Video) NewFrame(_ *image.RGBA) error { return nil }

// Close implements the bus.Device interface.
func (Video) Close() error { return nil }

// Audio implements the bus.AudioRenderer interface.
type Audio struct{}

// SetAudio implements the bus.AudioRenderer interface.
func (Audio) SetAudio(_ []int16) error { return nil }

// Close implements the bus.Device interface.
func (Audio) Close() error { return nil }

// Joypad implements the bus.Joypad interface. No buttons are ever pressed.
type Joypad struct{}

// Buttons implements the bus.Joypad interface.
func (Joypad) Buttons() bus.Buttons { return 0 }

// Close implements the bus.Device interface.
func (Joypad) Close() error { return nil }

// Plugins returns the descriptors for the null video, audio and input
// devices.
func Plugins() []plugins.Descriptor {
	return []plugins.Descriptor{
		{
			Kind:        plugins.Video,
			ID:          ID,
			DisplayName: "None",
			Description: "discard all video",
			Factory:     func(_ plugins.Context) (bus.Device, error) { return Video{}, nil },
		},
		{
			Kind:        plugins.Audio,
			ID:          ID,
			DisplayName: "None",
			Description: "discard all audio",
			Factory:     func(_ plugins.Context) (bus.Device, error) { return Audio{}, nil },
		},
		{
			Kind:        plugins.Input,
			ID:          ID,
			DisplayName: "None",
			Description: "joypad with no buttons pressed",
			Factory:     func(_ plugins.Context) (bus.Device, error) { return Joypad{}, nil },
		},
	}
}
