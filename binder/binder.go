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
	"errors"
	"fmt"
	"sync"

	"github.com/jetsetilly/gopherboy/curated"
	"github.com/jetsetilly/gopherboy/environment"
	"github.com/jetsetilly/gopherboy/hardware/bus"
	"github.com/jetsetilly/gopherboy/logger"
	"github.com/jetsetilly/gopherboy/plugins"
)

// Sentinal error patterns.
const (
	PluginConstructionFailed = "binder: plugin construction failed: %s slot: %s: %v"
	Busy                     = "binder: busy: %s slot is already switching"
	InvalidSlot              = "binder: invalid slot: %v"
)

// Sink is where devices are attached. Each method returns the device that was
// previously attached. Attaching a nil device detaches the current device.
//
// Implemented by bus.Bus.
type Sink interface {
	AttachVideo(v bus.VideoRenderer) (bus.VideoRenderer, error)
	AttachAudio(a bus.AudioRenderer) bus.AudioRenderer
	AttachJoypad(port int, j bus.Joypad) (bus.Joypad, error)
}

// SelectionMonitor is notified whenever a slot is successfully bound.
type SelectionMonitor interface {
	SelectionChanged(slot Slot, id string)
}

type binding struct {
	// held for the entire switch sequence
	switching sync.Mutex

	// protects the fields below
	crit sync.Mutex
	dev  bus.Device
	id   string
}

// Binder binds devices created by plugins to the slots of a Sink.
//
// A slot holds at most one device. When a slot is switched to a new plugin
// the current device is detached from the Sink and closed before the new
// device is created. If the new device cannot be created the slot is left
// empty.
type Binder struct {
	env  *environment.Environment
	sink Sink

	slots map[Slot]*binding

	monitorsCrit sync.Mutex
	monitors     []SelectionMonitor
}

// NewBinder is the preferred method of initialisation for the Binder type.
func NewBinder(env *environment.Environment, sink Sink) *Binder {
	b := &Binder{
		env:   env,
		sink:  sink,
		slots: make(map[Slot]*binding),
	}
	for _, s := range AllSlots() {
		b.slots[s] = &binding{}
	}
	return b
}

// AddMonitor adds a SelectionMonitor to the list of monitors.
func (b *Binder) AddMonitor(m SelectionMonitor) {
	b.monitorsCrit.Lock()
	defer b.monitorsCrit.Unlock()
	b.monitors = append(b.monitors, m)
}

func (b *Binder) notifyMonitors(slot Slot, id string) {
	b.monitorsCrit.Lock()
	monitors := make([]SelectionMonitor, len(b.monitors))
	copy(monitors, b.monitors)
	b.monitorsCrit.Unlock()

	for _, m := range monitors {
		m.SelectionChanged(slot, id)
	}
}

// Slots returns every slot in the binder.
func (b *Binder) Slots() []Slot {
	return AllSlots()
}

// Active returns the ID of the plugin bound to the slot. The boolean value
// is false if the slot is empty.
func (b *Binder) Active(slot Slot) (string, bool) {
	bnd, ok := b.slots[slot]
	if !ok {
		return "", false
	}
	bnd.crit.Lock()
	defer bnd.crit.Unlock()
	return bnd.id, bnd.dev != nil
}

func (b *Binder) surface() plugins.Surface {
	return plugins.Surface{
		Scale:     b.env.Prefs.Scale.Get().(int),
		OutputDir: b.env.Prefs.OutputDir.String(),
		Addr:      b.env.Prefs.WebsocketAddr.String(),
	}
}

// Switch binds a new device to the slot. The device is created by the plugin
// described by desc.
//
// Only one switch can happen on a slot at once. A switch on a slot that is
// already switching will fail with the Busy error. Different slots can be
// switched at the same time.
func (b *Binder) Switch(slot Slot, desc plugins.Descriptor) error {
	bnd, ok := b.slots[slot]
	if !ok {
		return curated.Errorf(InvalidSlot, slot)
	}
	if desc.Kind != slot.Kind {
		return curated.Errorf(InvalidSlot, fmt.Sprintf("%s plugin %q cannot be bound to %s slot", desc.Kind, desc.ID, slot))
	}

	if !bnd.switching.TryLock() {
		return curated.Errorf(Busy, slot)
	}
	defer bnd.switching.Unlock()

	b.retire(slot, bnd)

	ctx := plugins.Context{
		Env:     b.env,
		Surface: b.surface(),
	}
	if slot.Kind == plugins.Input {
		ctx.Port = slot.Port
	}

	dev, err := desc.Factory(ctx)
	if err != nil {
		return curated.Errorf(PluginConstructionFailed, slot, desc.ID, err)
	}
	if dev == nil {
		return curated.Errorf(PluginConstructionFailed, slot, desc.ID, "no device created")
	}

	err = b.attach(slot, dev)
	if err != nil {
		if err := dev.Close(); err != nil {
			logger.Logf(b.env, "binder", "%s: %v", slot, err)
		}
		return curated.Errorf(PluginConstructionFailed, slot, desc.ID, err)
	}

	bnd.crit.Lock()
	bnd.dev = dev
	bnd.id = desc.ID
	bnd.crit.Unlock()

	logger.Logf(b.env, "binder", "%s slot bound to %s", slot, desc.ID)

	b.notifyMonitors(slot, desc.ID)

	return nil
}

// attach device to the sink. the device must implement the interface
// required by the slot
func (b *Binder) attach(slot Slot, dev bus.Device) error {
	switch slot.Kind {
	case plugins.Video:
		v, ok := dev.(bus.VideoRenderer)
		if !ok {
			return fmt.Errorf("%T is not a video renderer", dev)
		}
		if _, err := b.sink.AttachVideo(v); err != nil {
			return err
		}
	case plugins.Audio:
		a, ok := dev.(bus.AudioRenderer)
		if !ok {
			return fmt.Errorf("%T is not an audio renderer", dev)
		}
		b.sink.AttachAudio(a)
	case plugins.Input:
		j, ok := dev.(bus.Joypad)
		if !ok {
			return fmt.Errorf("%T is not a joypad", dev)
		}
		if _, err := b.sink.AttachJoypad(slot.Port, j); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown plugin kind")
	}
	return nil
}

// retire detaches the current device from the sink and then closes it. the
// switching lock must be held
func (b *Binder) retire(slot Slot, bnd *binding) {
	bnd.crit.Lock()
	dev := bnd.dev
	bnd.dev = nil
	bnd.id = ""
	bnd.crit.Unlock()

	if dev == nil {
		return
	}

	switch slot.Kind {
	case plugins.Video:
		_, _ = b.sink.AttachVideo(nil)
	case plugins.Audio:
		b.sink.AttachAudio(nil)
	case plugins.Input:
		_, _ = b.sink.AttachJoypad(slot.Port, nil)
	}

	if err := dev.Close(); err != nil {
		logger.Logf(b.env, "binder", "%s: %v", slot, err)
	}
}

// Unbind detaches and closes the device in the slot, leaving the slot empty.
func (b *Binder) Unbind(slot Slot) error {
	bnd, ok := b.slots[slot]
	if !ok {
		return curated.Errorf(InvalidSlot, slot)
	}
	if !bnd.switching.TryLock() {
		return curated.Errorf(Busy, slot)
	}
	defer bnd.switching.Unlock()
	b.retire(slot, bnd)
	return nil
}

// Close unbinds every slot.
func (b *Binder) Close() error {
	var errs []error
	for _, s := range AllSlots() {
		if err := b.Unbind(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Startup binds every slot to a device. The selections map gives the ID of
// the plugin to use for each slot.
//
// If the ID for a slot cannot be found in the registry then the first plugin
// of the right kind is used instead. If there are no plugins of that kind
// the slot is left empty. Neither case is an error.
//
// Failure to create a device does not prevent other slots from being bound.
// Every error is returned.
func (b *Binder) Startup(reg *plugins.Registry, selections map[Slot]string) error {
	var errs []error
	for _, s := range AllSlots() {
		id := selections[s]
		desc, ok := reg.ResolveOrFirst(s.Kind, id)
		if !ok {
			continue
		}
		if id != "" && id != desc.ID {
			logger.Logf(b.env, "binder", "%s plugin %q not found: using %s", s, id, desc.ID)
		}
		if err := b.Switch(s, desc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
