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

// Package terminal is a joypad that reads key presses from a terminal. The
// terminal is put into cbreak mode for as long as the device is bound and is
// restored when the device is closed.
//
// The cursor keys or WASD are the direction pad. Z and X (or K and J) are the
// A and B buttons. Space is Select and Return is Start.
package terminal

import (
	"os"
	"time"

	"github.com/jetsetilly/gopherboy/curated"
	"github.com/jetsetilly/gopherboy/hardware/bus"
	"github.com/jetsetilly/gopherboy/logger"
	"github.com/jetsetilly/gopherboy/plugins"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// ID of the terminal plugin.
const ID = "terminal"

// Sentinal error patterns.
const (
	NotTerminal = "terminal: %s is not a terminal: %v"
	Terminal    = "terminal: %v"
)

// how long the input goroutine waits for input before checking for the quit
// signal
const pollTimeout = 50 * time.Millisecond

// Plugin describes the terminal joypad.
var Plugin = plugins.Descriptor{
	Kind:        plugins.Input,
	ID:          ID,
	DisplayName: "Terminal",
	Description: "joypad controlled by key presses in the terminal",
	Factory: func(ctx plugins.Context) (bus.Device, error) {
		var perm logger.Permission = logger.Allow
		if ctx.Env != nil {
			perm = ctx.Env
		}
		return NewTerminal(perm, os.Stdin)
	},
}

// Joypad implements the bus.Joypad interface.
type Joypad struct {
	perm logger.Permission

	input   *os.File
	canAttr unix.Termios

	keys keys

	// sig/ack channels to stop the input goroutine
	quitSig chan bool
	quitAck chan bool
}

// NewTerminal is the preferred method of initialisation for the Joypad type.
// The input file must be a terminal.
func NewTerminal(perm logger.Permission, input *os.File) (*Joypad, error) {
	jp := &Joypad{
		perm:    perm,
		input:   input,
		quitSig: make(chan bool),
		quitAck: make(chan bool),
	}

	err := termios.Tcgetattr(input.Fd(), &jp.canAttr)
	if err != nil {
		return nil, curated.Errorf(NotTerminal, input.Name(), err)
	}

	cbreakAttr := jp.canAttr
	termios.Cfmakecbreak(&cbreakAttr)
	err = termios.Tcsetattr(input.Fd(), termios.TCSANOW, &cbreakAttr)
	if err != nil {
		return nil, curated.Errorf(Terminal, err)
	}

	go jp.service()

	logger.Logf(jp.perm, "terminal", "reading joypad input from %s", input.Name())

	return jp, nil
}

func (jp *Joypad) service() {
	defer func() {
		jp.quitAck <- true
	}()

	fds := []unix.PollFd{{Fd: int32(jp.input.Fd()), Events: unix.POLLIN}}
	buf := make([]byte, 64)

	for {
		select {
		case <-jp.quitSig:
			return
		default:
		}

		n, err := unix.Poll(fds, int(pollTimeout.Milliseconds()))
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			logger.Log(jp.perm, "terminal", err)
			<-jp.quitSig
			return
		}
		if n == 0 || fds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err = unix.Read(int(jp.input.Fd()), buf)
		if err != nil || n == 0 {
			continue
		}

		jp.keys.press(decode(buf[:n]), time.Now())
	}
}

// Buttons implements the bus.Joypad interface.
func (jp *Joypad) Buttons() bus.Buttons {
	return jp.keys.buttons(time.Now())
}

// Close implements the bus.Device interface. The terminal is returned to the
// mode it was in before the device was created.
func (jp *Joypad) Close() error {
	jp.quitSig <- true
	<-jp.quitAck

	err := termios.Tcsetattr(jp.input.Fd(), termios.TCSANOW, &jp.canAttr)
	if err != nil {
		return curated.Errorf(Terminal, err)
	}
	return nil
}
