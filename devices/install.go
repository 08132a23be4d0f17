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

package devices

import (
	"github.com/jetsetilly/gopherboy/devices/audio/otoaudio"
	"github.com/jetsetilly/gopherboy/devices/audio/sdlaudio"
	"github.com/jetsetilly/gopherboy/devices/audio/wavwriter"
	"github.com/jetsetilly/gopherboy/devices/input/terminal"
	"github.com/jetsetilly/gopherboy/devices/null"
	"github.com/jetsetilly/gopherboy/devices/video/digest"
	"github.com/jetsetilly/gopherboy/devices/video/pngsnap"
	"github.com/jetsetilly/gopherboy/devices/video/websocket"
	"github.com/jetsetilly/gopherboy/plugins"
)

// Install all device plugins into the registry.
func Install(reg *plugins.Registry) error {
	all := null.Plugins()
	all = append(all,
		digest.Plugin,
		pngsnap.Plugin,
		websocket.Plugin,
		wavwriter.Plugin,
		otoaudio.Plugin,
		sdlaudio.Plugin,
		terminal.Plugin,
	)

	for _, d := range all {
		if err := reg.Install(d); err != nil {
			return err
		}
	}

	return nil
}
