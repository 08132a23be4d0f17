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

package session

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/gopherboy/binder"
	"github.com/jetsetilly/gopherboy/cartridgeloader"
	"github.com/jetsetilly/gopherboy/curated"
	"github.com/jetsetilly/gopherboy/emulation"
	"github.com/jetsetilly/gopherboy/environment"
	"github.com/jetsetilly/gopherboy/hardware/bus"
	"github.com/jetsetilly/gopherboy/hardware/cartridge"
	"github.com/jetsetilly/gopherboy/hardware/core"
	"github.com/jetsetilly/gopherboy/logger"
	"github.com/jetsetilly/gopherboy/notifications"
	"github.com/jetsetilly/gopherboy/plugins"
	"github.com/jetsetilly/gopherboy/savefile"
)

// Sentinal error patterns.
const (
	LoadFailed   = "session: cannot load %s: %v"
	UnknownSlot  = "session: unknown slot: %s"
	UnloadFailed = "session: cannot unload %s: %v"
)

// Session is the control side of the program. It owns the loaded cartridge
// and its save file, and the binding of devices to the bus.
//
// The functions of the Session type should be called from a single
// goroutine. Notify() is the exception and is called from the emulation
// goroutine.
type Session struct {
	env      *environment.Environment
	registry *plugins.Registry
	bus      *bus.Bus
	binder   *binder.Binder
	emu      *emulation.Emulation

	// creates the core for a loaded cartridge. defaults to core.NewBlank
	NewCore func(cart *cartridge.Cartridge) core.Core

	// guards the loaded cartridge. never held while waiting for the
	// emulation goroutine
	crit   sync.Mutex
	loader cartridgeloader.Loader
	cart   *cartridge.Cartridge

	// the save file is accessed by Notify() from the emulation goroutine
	store atomic.Pointer[savefile.Store]

	// most recent speed collected from the emulation
	speed float64
}

// NewSession is the preferred method of initialisation for the Session type.
func NewSession(env *environment.Environment, registry *plugins.Registry, b *bus.Bus, emu *emulation.Emulation) *Session {
	s := &Session{
		env:      env,
		registry: registry,
		bus:      b,
		binder:   binder.NewBinder(env, b),
		emu:      emu,
		speed:    emulation.NoSpeed,
	}
	s.NewCore = func(cart *cartridge.Cartridge) core.Core {
		return core.NewBlank(cart)
	}
	emu.SetNotifier(s)
	return s
}

// Binder returns the device binder used by the session.
func (s *Session) Binder() *binder.Binder {
	return s.binder
}

// Emulation returns the emulation controlled by the session.
func (s *Session) Emulation() *emulation.Emulation {
	return s.emu
}

// Startup binds every slot to the plugin named in the preferences. Plugins
// that cannot be found are replaced by the first plugin of the same kind.
func (s *Session) Startup() error {
	selections := make(map[binder.Slot]string)
	for _, slot := range s.binder.Slots() {
		if sel, ok := s.env.Prefs.Selection(slot.String()); ok {
			selections[slot] = sel.String()
		}
	}
	return s.binder.Startup(s.registry, selections)
}

// Switch the slot to the plugin with the ID. The choice of plugin is saved
// to the preferences file if the switch is successful.
func (s *Session) Switch(slot binder.Slot, id string) error {
	desc, err := s.registry.Lookup(slot.Kind, id)
	if err != nil {
		return err
	}

	err = s.binder.Switch(slot, desc)
	if err != nil {
		return err
	}

	sel, ok := s.env.Prefs.Selection(slot.String())
	if !ok {
		return curated.Errorf(UnknownSlot, slot)
	}
	if err := sel.Set(id); err != nil {
		return err
	}
	return s.env.Prefs.Save()
}

// Cartridge returns the loaded cartridge. Returns nil if no cartridge is
// loaded.
func (s *Session) Cartridge() *cartridge.Cartridge {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.cart
}

// SaveFile returns the save file of the loaded cartridge. Returns nil if no
// cartridge is loaded or if the cartridge has no battery.
func (s *Session) SaveFile() *savefile.Store {
	return s.store.Load()
}

// LoadROM unloads the current ROM and loads the ROM in the file. The
// emulation is started once the ROM has loaded.
//
// The ROM is checked before anything else happens. If the cartridge has
// battery-backed RAM then the save file is opened and the RAM is filled from
// it. Failure to open the save file prevents the ROM from loading.
func (s *Session) LoadROM(filename string) error {
	if err := s.UnloadROM(); err != nil {
		return err
	}

	cl := cartridgeloader.NewLoader(filename)
	if err := cl.Load(); err != nil {
		return curated.Errorf(LoadFailed, filename, err)
	}

	cart, err := cartridge.NewCartridge(cl.Data)
	if err != nil {
		return curated.Errorf(LoadFailed, filename, err)
	}

	var store *savefile.Store
	if cart.Persistent() {
		store, err = savefile.Open(cl.SavePath(), cart.ExternalRAM(), cart.RTC())
		if err != nil {
			return curated.Errorf(LoadFailed, filename, err)
		}
		cart.SetRAMGuard(store)
	}

	s.crit.Lock()
	s.loader = cl
	s.cart = cart
	s.crit.Unlock()
	s.store.Store(store)

	cart.AttachNotifier(s)

	logger.Logf(s.env, "session", "loaded %s: %s", cl.ShortName(), cart)

	if err := s.emu.Start(s.NewCore(cart)); err != nil {
		_ = s.UnloadROM()
		return curated.Errorf(LoadFailed, filename, err)
	}

	return s.emu.Run()
}

// UnloadROM pauses the emulation, writes the save file one final time and
// closes it, before stopping the emulation. Unloading when there is no ROM
// loaded is not an error.
func (s *Session) UnloadROM() error {
	s.crit.Lock()
	cart := s.cart
	name := s.loader.ShortName()
	s.crit.Unlock()

	if cart == nil {
		return nil
	}

	if err := s.emu.Pause(); err != nil && !curated.Is(err, emulation.NotStarted) {
		return curated.Errorf(UnloadFailed, name, err)
	}

	var storeErr error
	if store := s.store.Swap(nil); store != nil {
		storeErr = store.Close()
	}

	cart.AttachNotifier(nil)
	cart.SetRAMGuard(nil)

	s.crit.Lock()
	s.cart = nil
	s.loader = cartridgeloader.Loader{}
	s.crit.Unlock()

	if err := s.emu.Stop(); err != nil {
		return curated.Errorf(UnloadFailed, name, err)
	}

	logger.Logf(s.env, "session", "unloaded %s", name)

	if storeErr != nil {
		return curated.Errorf(UnloadFailed, name, storeErr)
	}
	return nil
}

// Notify implements the notifications.Notify interface.
func (s *Session) Notify(notice notifications.Notice) error {
	switch notice {
	case notifications.NotifyRAMUpdated:
		store := s.store.Load()
		if store == nil {
			return nil
		}
		err := store.NotifyRAMChanged()
		if err != nil {
			// the in-memory RAM is unaffected. the next successful write will
			// save the correct data
			logger.Log(s.env, "session", err)
		}
		return err
	case notifications.NotifyEmulationState:
		logger.Logf(s.env, "session", "emulation is %s", s.emu.State())
	}
	return nil
}

// SpeedText returns the most recent speed of the emulation in a form suitable
// for a status bar.
func (s *Session) SpeedText() string {
	if v, ok := s.emu.Speed().Drain(); ok {
		s.speed = v
	}
	if s.speed < 0 {
		return "Speed: -"
	}
	return fmt.Sprintf("Speed: %.0f%%", s.speed*100)
}

// Close unloads the current ROM and unbinds every device.
func (s *Session) Close() error {
	err := s.UnloadROM()
	if e := s.binder.Close(); e != nil && err == nil {
		err = e
	}
	return err
}
