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

package session_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jetsetilly/gopherboy/binder"
	"github.com/jetsetilly/gopherboy/cartridgeloader"
	"github.com/jetsetilly/gopherboy/curated"
	"github.com/jetsetilly/gopherboy/emulation"
	"github.com/jetsetilly/gopherboy/environment"
	"github.com/jetsetilly/gopherboy/hardware/bus"
	"github.com/jetsetilly/gopherboy/hardware/cartridge"
	"github.com/jetsetilly/gopherboy/hardware/core"
	"github.com/jetsetilly/gopherboy/hardware/rtc"
	"github.com/jetsetilly/gopherboy/plugins"
	"github.com/jetsetilly/gopherboy/preferences"
	"github.com/jetsetilly/gopherboy/savefile"
	"github.com/jetsetilly/gopherboy/session"
	"github.com/jetsetilly/gopherboy/test"
)

type nullAudio struct{}

func (nullAudio) SetAudio(_ []int16) error { return nil }
func (nullAudio) Close() error             { return nil }

type pad struct{}

func (pad) Buttons() bus.Buttons { return 0 }
func (pad) Close() error         { return nil }

func writeROM(t *testing.T, dir string, cartType uint8, ramSize uint8) string {
	t.Helper()
	data := make([]byte, 32*1024)
	copy(data[0x134:], "SESSION")
	data[0x147] = cartType
	data[0x149] = ramSize
	pth := filepath.Join(dir, "session.gb")
	test.DemandSuccess(t, os.WriteFile(pth, data, 0o644))
	return pth
}

func newSession(t *testing.T) (*session.Session, *preferences.Preferences) {
	t.Helper()

	p, err := preferences.NewPreferencesFromFile(filepath.Join(t.TempDir(), "preferences"))
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, p.LimitSpeed.Set(false))
	env, err := environment.NewEnvironment(environment.MainEmulation, p)
	test.DemandSuccess(t, err)

	reg := plugins.NewRegistry()
	for _, d := range []plugins.Descriptor{
		{Kind: plugins.Audio, ID: "null", Factory: func(_ plugins.Context) (bus.Device, error) { return nullAudio{}, nil }},
		{Kind: plugins.Audio, ID: "other", Factory: func(_ plugins.Context) (bus.Device, error) { return nullAudio{}, nil }},
		{Kind: plugins.Input, ID: "pad", Factory: func(_ plugins.Context) (bus.Device, error) { return pad{}, nil }},
	} {
		test.DemandSuccess(t, reg.Install(d))
	}

	b := bus.NewBus()
	s := session.NewSession(env, reg, b, emulation.NewEmulation(env, b))
	s.NewCore = func(cart *cartridge.Cartridge) core.Core {
		blank := core.NewBlank(cart)
		blank.RAMTicker = 2
		return blank
	}

	return s, p
}

func TestStartupAndSwitch(t *testing.T) {
	s, p := newSession(t)

	test.DemandSuccess(t, p.Audio.Set("removed"))
	test.ExpectSuccess(t, s.Startup())

	id, ok := s.Binder().Active(binder.AudioSlot)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, id, "null")

	// no video plugins
	_, ok = s.Binder().Active(binder.VideoSlot)
	test.ExpectFailure(t, ok)

	test.ExpectSuccess(t, s.Switch(binder.AudioSlot, "other"))
	test.ExpectEquality(t, p.Audio.String(), "other")

	// the selection has been saved
	q, err := preferences.NewPreferencesFromFile(p.Path())
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, q.Audio.String(), "other")

	// unknown plugins are an error and do not change the binding
	err = s.Switch(binder.AudioSlot, "missing")
	test.ExpectSuccess(t, curated.Is(err, plugins.NotFound))
	id, _ = s.Binder().Active(binder.AudioSlot)
	test.ExpectEquality(t, id, "other")
	test.ExpectEquality(t, p.Audio.String(), "other")

	test.ExpectSuccess(t, s.Close())
}

func TestLoadErrors(t *testing.T) {
	s, _ := newSession(t)
	dir := t.TempDir()

	err := s.LoadROM(filepath.Join(dir, "missing.gb"))
	test.ExpectSuccess(t, curated.Is(err, session.LoadFailed))
	test.ExpectSuccess(t, curated.Has(err, cartridgeloader.NotFound))

	small := filepath.Join(dir, "small.gb")
	test.DemandSuccess(t, os.WriteFile(small, make([]byte, 100), 0o644))
	err = s.LoadROM(small)
	test.ExpectSuccess(t, curated.Has(err, cartridgeloader.InvalidFormat))

	// no save file is created for a ROM that fails to load
	_, err = os.Stat(filepath.Join(dir, "small.sav"))
	test.ExpectSuccess(t, os.IsNotExist(err))

	test.ExpectSuccess(t, s.Cartridge() == nil)
	test.ExpectEquality(t, s.Emulation().State(), emulation.Stopped)
}

func TestNoBattery(t *testing.T) {
	s, _ := newSession(t)
	dir := t.TempDir()

	// MBC1+RAM without a battery
	test.DemandSuccess(t, s.LoadROM(writeROM(t, dir, 0x02, 0x02)))
	test.ExpectSuccess(t, s.SaveFile() == nil)
	test.ExpectSuccess(t, s.UnloadROM())

	_, err := os.Stat(filepath.Join(dir, "session.sav"))
	test.ExpectSuccess(t, os.IsNotExist(err))
}

func TestBatterySave(t *testing.T) {
	s, _ := newSession(t)
	dir := t.TempDir()
	rom := writeROM(t, dir, 0x10, 0x02)

	test.DemandSuccess(t, s.LoadROM(rom))
	test.ExpectEquality(t, s.Emulation().State(), emulation.Running)

	st := s.SaveFile()
	test.DemandSuccess(t, st != nil)
	test.ExpectEquality(t, st.Path(), filepath.Join(dir, "session.sav"))
	test.ExpectEquality(t, st.Size(), 8192+rtc.BlockSize)

	// the emulation writes to RAM and the session flushes the save file
	deadline := time.Now().Add(5 * time.Second)
	for st.Flushes() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	test.ExpectSuccess(t, st.Flushes() >= 3)

	test.ExpectSuccess(t, s.UnloadROM())
	test.ExpectEquality(t, s.Emulation().State(), emulation.Stopped)
	test.ExpectSuccess(t, s.SaveFile() == nil)

	data, err := os.ReadFile(filepath.Join(dir, "session.sav"))
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(data), 8192+rtc.BlockSize)
	saved := data[0]
	test.ExpectSuccess(t, saved >= 3)

	// reloading restores the RAM from the save file
	s.NewCore = func(cart *cartridge.Cartridge) core.Core {
		return core.NewBlank(cart)
	}
	test.DemandSuccess(t, s.LoadROM(rom))
	test.ExpectEquality(t, s.Cartridge().ExternalRAM()[0], saved)
	test.ExpectSuccess(t, s.Close())
}

func TestFailedSave(t *testing.T) {
	s, _ := newSession(t)
	dir := t.TempDir()

	test.DemandSuccess(t, s.LoadROM(writeROM(t, dir, 0x10, 0x02)))
	st := s.SaveFile()
	test.DemandSuccess(t, st != nil)

	// closing the store from under the session makes every later write fail
	test.DemandSuccess(t, st.Close())
	flushes := st.Flushes()

	// the emulation pauses at the first write that fails
	deadline := time.Now().Add(5 * time.Second)
	for s.Emulation().State() != emulation.Paused && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	test.DemandEquality(t, s.Emulation().State(), emulation.Paused)
	test.ExpectEquality(t, st.Flushes(), flushes)

	// the write that could not be saved is still in the cartridge RAM
	data, err := os.ReadFile(filepath.Join(dir, "session.sav"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, s.Cartridge().ExternalRAM()[0], data[0]+1)

	// the failure is reported again when the ROM is unloaded
	err = s.UnloadROM()
	test.ExpectSuccess(t, curated.Is(err, session.UnloadFailed))
	test.ExpectSuccess(t, curated.Has(err, savefile.InvalidState))
	test.ExpectSuccess(t, s.Cartridge() == nil)
	test.ExpectEquality(t, s.Emulation().State(), emulation.Stopped)
}

func TestSpeedText(t *testing.T) {
	s, _ := newSession(t)
	test.ExpectEquality(t, s.SpeedText(), "Speed: -")
}
