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

package emulation

import (
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/gopherboy/curated"
	"github.com/jetsetilly/gopherboy/emulation/limiter"
	"github.com/jetsetilly/gopherboy/environment"
	"github.com/jetsetilly/gopherboy/hardware/bus"
	"github.com/jetsetilly/gopherboy/hardware/core"
	"github.com/jetsetilly/gopherboy/logger"
	"github.com/jetsetilly/gopherboy/mailbox"
	"github.com/jetsetilly/gopherboy/notifications"
)

// NotStarted is returned by emulation requests when there is no core to run.
const NotStarted = "emulation: not started"

type requestType int

const (
	reqRun requestType = iota
	reqPause
	reqFrame
	reqReset
	reqStop
)

type request struct {
	req    requestType
	result chan error
}

// Emulation runs a Core in its own goroutine. Frames and audio produced by the
// core are sent to the devices attached to the bus, and the joypads attached
// to the bus are read once per frame.
//
// The functions of the Emulation type are called from the control side of the
// program. They wait for the emulation goroutine to act on the request.
type Emulation struct {
	env *environment.Environment
	bus *bus.Bus

	// measured speed of the emulation as a fraction of real hardware speed
	speed *mailbox.Mailbox[float64]

	// serialises requests from the control side of the program
	ctrl     sync.Mutex
	requests chan request

	// the notifier for changes of state. called from the emulation goroutine
	notifyCrit sync.Mutex
	notify     notifications.Notify

	state atomic.Int32
	lmtr  *limiter.Limiter
	core  core.Core
}

// NewEmulation is the preferred method of initialisation for the Emulation
// type. The emulation is in the Stopped state.
func NewEmulation(env *environment.Environment, b *bus.Bus) *Emulation {
	return &Emulation{
		env:   env,
		bus:   b,
		speed: mailbox.NewMailbox[float64](),
	}
}

// Speed returns the mailbox that the measured speed is posted to. A value of
// NoSpeed is posted when the emulation stops running.
func (e *Emulation) Speed() *mailbox.Mailbox[float64] {
	return e.speed
}

// SetNotifier sets the receiver of NotifyEmulationState notices.
func (e *Emulation) SetNotifier(n notifications.Notify) {
	e.notifyCrit.Lock()
	defer e.notifyCrit.Unlock()
	e.notify = n
}

// State returns the current state of the emulation.
func (e *Emulation) State() State {
	return State(e.state.Load())
}

func (e *Emulation) setState(s State) {
	if State(e.state.Swap(int32(s))) == s {
		return
	}

	logger.Logf(e.env, "emulation", "%s", s)

	if s != Running {
		e.speed.Post(NoSpeed)
	}

	e.notifyCrit.Lock()
	n := e.notify
	e.notifyCrit.Unlock()
	if n != nil {
		if err := n.Notify(notifications.NotifyEmulationState); err != nil {
			logger.Log(e.env, "emulation", err)
		}
	}
}

// Start the emulation goroutine with the Core. Any existing emulation is
// stopped first. The emulation is reset and left in the Paused state.
func (e *Emulation) Start(c core.Core) error {
	if err := e.Stop(); err != nil {
		return err
	}

	e.ctrl.Lock()
	defer e.ctrl.Unlock()

	e.core = c
	e.lmtr = limiter.NewLimiter(limiter.DefaultMeasurePeriod)

	if err := e.reset(); err != nil {
		e.lmtr.Stop()
		e.core = nil
		return err
	}
	if err := e.bus.Resize(c.Frame().Bounds().Dx(), c.Frame().Bounds().Dy()); err != nil {
		logger.Log(e.env, "emulation", err)
	}

	e.requests = make(chan request)
	e.setState(Paused)

	go e.loop(e.requests)

	return nil
}

func (e *Emulation) request(req requestType) error {
	e.ctrl.Lock()
	defer e.ctrl.Unlock()

	if e.requests == nil {
		return curated.Errorf(NotStarted)
	}

	r := request{req: req, result: make(chan error, 1)}
	e.requests <- r
	err := <-r.result

	if req == reqStop {
		e.requests = nil
	}

	return err
}

// Run the emulation.
func (e *Emulation) Run() error {
	return e.request(reqRun)
}

// Pause the emulation. When Pause() returns the emulation goroutine is not
// running the core and will not until Run() or RunFrame() is called.
func (e *Emulation) Pause() error {
	return e.request(reqPause)
}

// RunFrame runs the emulation for exactly one frame and then pauses.
func (e *Emulation) RunFrame() error {
	return e.request(reqFrame)
}

// Reset the core. The emulation stays in its current state.
func (e *Emulation) Reset() error {
	return e.request(reqReset)
}

// Stop the emulation goroutine. Stopping an emulation that has not been
// started is not an error.
func (e *Emulation) Stop() error {
	err := e.request(reqStop)
	if curated.Is(err, NotStarted) {
		return nil
	}
	return err
}

func (e *Emulation) reset() error {
	return e.core.Reset(e.env.Prefs.UseBootROM.Get().(bool))
}

// the emulation goroutine. the core is only ever accessed from here once the
// goroutine has started
func (e *Emulation) loop(requests chan request) {
	defer e.lmtr.Stop()

	for {
		var r request
		var ok bool

		if e.State() == Running {
			select {
			case r = <-requests:
				ok = true
			default:
			}
		} else {
			r = <-requests
			ok = true
		}

		if ok {
			if e.service(r) {
				return
			}
			continue
		}

		if err := e.frame(); err != nil {
			logger.Log(e.env, "emulation", err)
			e.setState(Paused)
		}
	}
}

// service a single request. returns true if the goroutine should end
func (e *Emulation) service(r request) bool {
	var err error

	switch r.req {
	case reqRun:
		e.lmtr.ResetMeasurement()
		e.setState(Running)
	case reqPause:
		e.setState(Paused)
	case reqFrame:
		e.setState(Paused)
		err = e.frame()
	case reqReset:
		err = e.reset()
	case reqStop:
		e.core = nil
		e.setState(Stopped)
		r.result <- nil
		return true
	}

	r.result <- err
	return false
}

// run the core for a single frame and send the results to the bus
func (e *Emulation) frame() error {
	err := e.core.Step(e.bus.Buttons())
	if err != nil {
		return err
	}

	if err := e.bus.NewFrame(e.core.Frame()); err != nil {
		logger.Log(e.env, "emulation", err)
	}
	if err := e.bus.SetAudio(e.core.Samples()); err != nil {
		logger.Log(e.env, "emulation", err)
	}

	if e.State() == Running {
		e.lmtr.Active.Store(e.env.Prefs.LimitSpeed.Get().(bool))
		e.lmtr.CheckFrame()
		if e.lmtr.MeasureActual() {
			e.speed.Post(e.lmtr.Speed())
		}
	}

	return nil
}
