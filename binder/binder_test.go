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

package binder_test

import (
	"errors"
	"image"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jetsetilly/gopherboy/binder"
	"github.com/jetsetilly/gopherboy/curated"
	"github.com/jetsetilly/gopherboy/environment"
	"github.com/jetsetilly/gopherboy/hardware/bus"
	"github.com/jetsetilly/gopherboy/plugins"
	"github.com/jetsetilly/gopherboy/preferences"
	"github.com/jetsetilly/gopherboy/test"
)

// records the lifecycle of every device
type lifecycle struct {
	crit   sync.Mutex
	alive  map[string]int
	events []string
}

func (l *lifecycle) event(s string) {
	l.crit.Lock()
	defer l.crit.Unlock()
	l.events = append(l.events, s)
}

func (l *lifecycle) live(id string, n int) {
	l.crit.Lock()
	defer l.crit.Unlock()
	l.alive[id] += n
}

func (l *lifecycle) count(id string) int {
	l.crit.Lock()
	defer l.crit.Unlock()
	return l.alive[id]
}

type video struct {
	id  string
	lc  *lifecycle
	bus *bus.Bus
}

func (v *video) Resize(_, _ int) error {
	return nil
}

func (v *video) NewFrame(_ *image.RGBA) error {
	return nil
}

func (v *video) Close() error {
	// the device must have been detached before it is closed
	if v.bus.Video() == bus.VideoRenderer(v) {
		v.lc.event("closed while attached " + v.id)
	}
	v.lc.event("close " + v.id)
	v.lc.live(v.id, -1)
	return nil
}

type joypad struct {
	port int
}

func (j *joypad) Buttons() bus.Buttons {
	return bus.Buttons(1 << j.port)
}

func (j *joypad) Close() error {
	return nil
}

type notJoypad struct {
	closed *bool
}

func (n notJoypad) Close() error {
	*n.closed = true
	return nil
}

type monitor struct {
	selections []string
}

func (m *monitor) SelectionChanged(slot binder.Slot, id string) {
	m.selections = append(m.selections, slot.String()+"="+id)
}

type fixture struct {
	env *environment.Environment
	bus *bus.Bus
	lc  *lifecycle
	reg *plugins.Registry
	bnd *binder.Binder
	mon *monitor
}

func (f *fixture) videoFactory(id string) plugins.Factory {
	return func(_ plugins.Context) (bus.Device, error) {
		f.lc.event("create " + id)
		f.lc.live(id, 1)
		return &video{id: id, lc: f.lc, bus: f.bus}, nil
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	p, err := preferences.NewPreferencesFromFile(filepath.Join(t.TempDir(), "preferences"))
	test.DemandSuccess(t, err)
	env, err := environment.NewEnvironment(environment.MainEmulation, p)
	test.DemandSuccess(t, err)

	f := &fixture{
		env: env,
		bus: bus.NewBus(),
		lc:  &lifecycle{alive: make(map[string]int)},
		reg: plugins.NewRegistry(),
		mon: &monitor{},
	}
	f.bnd = binder.NewBinder(env, f.bus)
	f.bnd.AddMonitor(f.mon)

	test.DemandSuccess(t, f.reg.Install(plugins.Descriptor{Kind: plugins.Video, ID: "A", Factory: f.videoFactory("A")}))
	test.DemandSuccess(t, f.reg.Install(plugins.Descriptor{Kind: plugins.Video, ID: "B", Factory: f.videoFactory("B")}))
	test.DemandSuccess(t, f.reg.Install(plugins.Descriptor{Kind: plugins.Input, ID: "pad",
		Factory: func(ctx plugins.Context) (bus.Device, error) {
			return &joypad{port: ctx.Port}, nil
		},
	}))

	return f
}

func TestSwitchOrdering(t *testing.T) {
	f := newFixture(t)

	a, _ := f.reg.Resolve(plugins.Video, "A")
	b, _ := f.reg.Resolve(plugins.Video, "B")

	test.DemandSuccess(t, f.bnd.Switch(binder.VideoSlot, a))
	test.DemandSuccess(t, f.bnd.Switch(binder.VideoSlot, b))

	// the old device is closed before the new device is created
	test.DemandEquality(t, len(f.lc.events), 3)
	test.ExpectEquality(t, f.lc.events[0], "create A")
	test.ExpectEquality(t, f.lc.events[1], "close A")
	test.ExpectEquality(t, f.lc.events[2], "create B")

	id, ok := f.bnd.Active(binder.VideoSlot)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, id, "B")
	test.ExpectEquality(t, f.bus.Video().(*video).id, "B")

	test.DemandEquality(t, len(f.mon.selections), 2)
	test.ExpectEquality(t, f.mon.selections[1], "video=B")
}

func TestRepeatedSwitch(t *testing.T) {
	f := newFixture(t)

	b, _ := f.reg.Resolve(plugins.Video, "B")
	test.DemandSuccess(t, f.bnd.Switch(binder.VideoSlot, b))
	test.DemandSuccess(t, f.bnd.Switch(binder.VideoSlot, b))
	test.DemandSuccess(t, f.bnd.Switch(binder.VideoSlot, b))

	// exactly one instance is alive
	test.ExpectEquality(t, f.lc.count("B"), 1)

	test.ExpectSuccess(t, f.bnd.Close())
	test.ExpectEquality(t, f.lc.count("B"), 0)
	test.ExpectSuccess(t, f.bus.Video() == nil)
	_, ok := f.bnd.Active(binder.VideoSlot)
	test.ExpectFailure(t, ok)

	for _, e := range f.lc.events {
		test.ExpectInequality(t, e, "closed while attached B")
	}
}

func TestConstructionFailure(t *testing.T) {
	f := newFixture(t)

	a, _ := f.reg.Resolve(plugins.Video, "A")
	test.DemandSuccess(t, f.bnd.Switch(binder.VideoSlot, a))

	failing := plugins.Descriptor{Kind: plugins.Video, ID: "broken",
		Factory: func(_ plugins.Context) (bus.Device, error) {
			return nil, errors.New("no display")
		},
	}
	err := f.bnd.Switch(binder.VideoSlot, failing)
	test.ExpectSuccess(t, curated.Is(err, binder.PluginConstructionFailed))
	test.ExpectEquality(t, err.Error(), "binder: plugin construction failed: video slot: broken: no display")

	// slot is left empty and is not reverted to the previous device
	_, ok := f.bnd.Active(binder.VideoSlot)
	test.ExpectFailure(t, ok)
	test.ExpectSuccess(t, f.bus.Video() == nil)
	test.ExpectEquality(t, f.lc.count("A"), 0)

	// devices of the wrong type are closed
	var closed bool
	wrong := plugins.Descriptor{Kind: plugins.Input, ID: "wrong",
		Factory: func(_ plugins.Context) (bus.Device, error) {
			return notJoypad{closed: &closed}, nil
		},
	}
	err = f.bnd.Switch(binder.InputSlot(1), wrong)
	test.ExpectSuccess(t, curated.Is(err, binder.PluginConstructionFailed))
	test.ExpectSuccess(t, closed)
	test.ExpectSuccess(t, f.bus.Joypad(1) == nil)
}

func TestInvalidSlot(t *testing.T) {
	f := newFixture(t)

	a, _ := f.reg.Resolve(plugins.Video, "A")
	err := f.bnd.Switch(binder.AudioSlot, a)
	test.ExpectSuccess(t, curated.Is(err, binder.InvalidSlot))

	err = f.bnd.Switch(binder.InputSlot(bus.NumPorts), a)
	test.ExpectSuccess(t, curated.Is(err, binder.InvalidSlot))
}

func TestBusy(t *testing.T) {
	f := newFixture(t)

	entered := make(chan bool)
	release := make(chan bool)
	slow := plugins.Descriptor{Kind: plugins.Video, ID: "slow",
		Factory: func(ctx plugins.Context) (bus.Device, error) {
			entered <- true
			<-release
			return f.videoFactory("slow")(ctx)
		},
	}

	done := make(chan error)
	go func() {
		done <- f.bnd.Switch(binder.VideoSlot, slow)
	}()
	<-entered

	// the same slot is busy
	a, _ := f.reg.Resolve(plugins.Video, "A")
	err := f.bnd.Switch(binder.VideoSlot, a)
	test.ExpectSuccess(t, curated.Is(err, binder.Busy))

	// other slots are not
	pad, _ := f.reg.Resolve(plugins.Input, "pad")
	test.ExpectSuccess(t, f.bnd.Switch(binder.InputSlot(2), pad))

	close(release)
	test.ExpectSuccess(t, <-done)

	id, _ := f.bnd.Active(binder.VideoSlot)
	test.ExpectEquality(t, id, "slow")
	test.ExpectEquality(t, f.bus.Buttons()[2], bus.Buttons(1<<2))
}

func TestStartup(t *testing.T) {
	f := newFixture(t)

	err := f.bnd.Startup(f.reg, map[binder.Slot]string{
		binder.VideoSlot:    "B",
		binder.InputSlot(0): "removed",
		binder.AudioSlot:    "wav",
		binder.InputSlot(3): "",
	})
	test.ExpectSuccess(t, err)

	id, ok := f.bnd.Active(binder.VideoSlot)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, id, "B")

	// unknown and missing selections fall back to the first plugin
	for i := range bus.NumPorts {
		id, ok = f.bnd.Active(binder.InputSlot(i))
		test.ExpectSuccess(t, ok, i)
		test.ExpectEquality(t, id, "pad", i)
	}

	// there are no audio plugins so the slot is empty
	_, ok = f.bnd.Active(binder.AudioSlot)
	test.ExpectFailure(t, ok)
	test.ExpectSuccess(t, f.bus.Audio() == nil)
}

func TestSlotNames(t *testing.T) {
	for _, s := range binder.AllSlots() {
		p, ok := binder.ParseSlot(s.String())
		test.ExpectSuccess(t, ok, s)
		test.ExpectEquality(t, p, s)
	}
	_, ok := binder.ParseSlot("input:9")
	test.ExpectFailure(t, ok)
}
