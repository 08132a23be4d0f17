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

package core_test

import (
	"testing"
	"time"

	"github.com/jetsetilly/gopherboy/hardware/bus"
	"github.com/jetsetilly/gopherboy/hardware/cartridge"
	"github.com/jetsetilly/gopherboy/hardware/core"
	"github.com/jetsetilly/gopherboy/hardware/rtc"
	"github.com/jetsetilly/gopherboy/notifications"
	"github.com/jetsetilly/gopherboy/test"
)

func makeROM(title string, cartType uint8, ramSize uint8) []byte {
	data := make([]byte, 32*1024)
	copy(data[0x134:], title)
	data[0x147] = cartType
	data[0x149] = ramSize
	return data
}

type counter int

func (c *counter) Notify(notice notifications.Notice) error {
	if notice == notifications.NotifyRAMUpdated {
		*c++
	}
	return nil
}

func TestBlankFrame(t *testing.T) {
	cart, err := cartridge.NewCartridge(makeROM("TEST", 0x00, 0x00))
	test.DemandSuccess(t, err)

	var c core.Core = core.NewBlank(cart)
	test.ExpectSuccess(t, c.Reset(false))
	test.ExpectEquality(t, c.Frame().Bounds().Dx(), bus.ScreenWidth)
	test.ExpectEquality(t, c.Frame().Bounds().Dy(), bus.ScreenHeight)

	var buttons [bus.NumPorts]bus.Buttons
	test.ExpectSuccess(t, c.Step(buttons))
	before := c.Frame().RGBAAt(0, 0)

	// no tone without a button
	for _, s := range c.Samples() {
		test.DemandEquality(t, s, 0)
	}

	// pattern inverts and tone plays when a button is held
	buttons[1] = bus.ButtonA
	test.ExpectSuccess(t, c.Step(buttons))
	test.ExpectInequality(t, c.Frame().RGBAAt(0, 0), before)
	test.ExpectEquality(t, c.Samples()[0], 2048)
	test.ExpectEquality(t, len(c.Samples())%2, 0)
}

func TestBlankRAMTicker(t *testing.T) {
	cart, err := cartridge.NewCartridge(makeROM("TEST", 0x10, 0x02))
	test.DemandSuccess(t, err)

	var n counter
	cart.AttachNotifier(&n)

	b := core.NewBlank(cart)
	b.RAMTicker = 10
	now := time.Unix(1000, 0)
	b.Now = func() time.Time { return now }
	cart.RTC().DateTime = now
	cart.RTC().Live = rtc.Registers{Minutes: 5}

	var buttons [bus.NumPorts]bus.Buttons
	for range 35 {
		test.DemandSuccess(t, b.Step(buttons))
	}
	test.ExpectEquality(t, int(n), 3)
	test.ExpectEquality(t, cart.ExternalRAM()[0], 3)

	// the clock is latched every frame
	test.ExpectEquality(t, cart.RTC().Latched.Minutes, 5)
}
