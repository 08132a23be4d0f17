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

package preferences

import (
	"fmt"

	"github.com/jetsetilly/gopherboy/curated"
	"github.com/jetsetilly/gopherboy/hardware/bus"
	"github.com/jetsetilly/gopherboy/paths"
	"github.com/jetsetilly/gopherboy/prefs"
)

// Preferences defines and collates all the preference values used by the
// emulator.
type Preferences struct {
	dsk *prefs.Disk

	// identities of the selected device plugins. the selection for each
	// input port is held separately
	Video prefs.String
	Audio prefs.String
	Input [bus.NumPorts]prefs.String

	// run the emulation no faster than the speed of the real hardware
	LimitSpeed prefs.Bool

	// attempt to run the boot ROM before the cartridge
	UseBootROM prefs.Bool

	// scale factor for renderers that produce images
	Scale prefs.Int

	// directory for renderers that produce files. the empty string means
	// the current working directory
	OutputDir prefs.String

	// listen address for the websocket renderer
	WebsocketAddr prefs.String
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the Preferences
// type. Preferences are stored in the default preferences file.
func NewPreferences() (*Preferences, error) {
	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return NewPreferencesFromFile(pth)
}

// NewPreferencesFromFile creates a new Preferences instance backed by the
// named file.
func NewPreferencesFromFile(pth string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	var err error

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("plugins.video", &p.Video)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("plugins.audio", &p.Audio)
	if err != nil {
		return nil, err
	}
	for i := range p.Input {
		err = p.dsk.Add(fmt.Sprintf("plugins.input:%d", i), &p.Input[i])
		if err != nil {
			return nil, err
		}
	}
	err = p.dsk.Add("emulation.limitspeed", &p.LimitSpeed)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("emulation.bootrom", &p.UseBootROM)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("devices.scale", &p.Scale)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("devices.outputdir", &p.OutputDir)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("devices.websocket.addr", &p.WebsocketAddr)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Load(true)
	if err != nil {
		// ignore missing prefs file errors
		if !curated.Is(err, prefs.NoPrefsFile) {
			return nil, err
		}
	}

	return p, nil
}

// SetDefaults sets the default values for all preferences.
func (p *Preferences) SetDefaults() {
	_ = p.Video.Set("")
	_ = p.Audio.Set("")
	for i := range p.Input {
		_ = p.Input[i].Set("")
	}
	_ = p.LimitSpeed.Set(true)
	_ = p.UseBootROM.Set(false)
	_ = p.Scale.Set(2)
	_ = p.OutputDir.Set("")
	_ = p.WebsocketAddr.Set("localhost:12601")
}

// Selection returns the preference value that holds the plugin identity for
// the named slot. Slot names are "video", "audio" and "input:n" where n is the
// port number.
func (p *Preferences) Selection(slot string) (*prefs.String, bool) {
	switch slot {
	case "video":
		return &p.Video, true
	case "audio":
		return &p.Audio, true
	}

	var port int
	if n, err := fmt.Sscanf(slot, "input:%d", &port); err == nil && n == 1 {
		if port >= 0 && port < len(p.Input) {
			return &p.Input[port], true
		}
	}

	return nil, false
}

// Path returns the filename of the preferences file.
func (p *Preferences) Path() string {
	return p.dsk.Path()
}

// Reset all preferences to the default values.
func (p *Preferences) Reset() error {
	err := p.dsk.Reset()
	if err != nil {
		return err
	}
	p.SetDefaults()
	return nil
}

// Load current preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load(false)
}

// Save current preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
