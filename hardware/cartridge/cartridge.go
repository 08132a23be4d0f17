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

package cartridge

import (
	"sync"
	"time"

	"github.com/jetsetilly/gopherboy/curated"
	"github.com/jetsetilly/gopherboy/hardware/rtc"
	"github.com/jetsetilly/gopherboy/notifications"
)

// NoTimer is returned by WriteRTC() if the cartridge has no real-time-clock.
const NoTimer = "cartridge: cartridge has no timer"

// Cartridge is the part of the cartridge mapper that the rest of the
// emulator needs to see. Bank switching is the job of the emulation core.
type Cartridge struct {
	Header Header

	data []byte
	ram  []byte
	rtc  *rtc.State

	// guards access to the external RAM. the default guard is local to the
	// cartridge but a save file store will replace it with its own lock so
	// that RAM is not changed while the store is writing it to disk
	guard     sync.Locker
	localCrit sync.Mutex

	ramEnabled bool
	dirty      bool

	notifier notifications.Notify
}

// NewCartridge is the preferred method of initialisation for the Cartridge
// type. The data is the entire ROM.
func NewCartridge(data []byte) (*Cartridge, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	cart := &Cartridge{
		Header: h,
		data:   data,
	}
	cart.guard = &cart.localCrit

	if h.HasRAM {
		cart.ram = make([]byte, h.RAMSize)
	}
	if h.HasTimer {
		cart.rtc = rtc.NewState()
	}

	return cart, nil
}

func (cart *Cartridge) String() string {
	return cart.Header.String()
}

// ROM returns the ROM data the cartridge was created with.
func (cart *Cartridge) ROM() []byte {
	return cart.data
}

// SavedRamSize is the number of bytes of external RAM that are saved to a
// battery save file.
func (cart *Cartridge) SavedRamSize() int {
	return len(cart.ram)
}

// ExternalRAM returns the external RAM buffer. The buffer is owned by the
// cartridge and its length is always SavedRamSize().
func (cart *Cartridge) ExternalRAM() []byte {
	return cart.ram
}

// RTC returns the real-time-clock. Returns nil if the cartridge has no timer.
func (cart *Cartridge) RTC() *rtc.State {
	return cart.rtc
}

// Persistent returns true if the cartridge contents survive being switched
// off and should therefore be saved to disk.
func (cart *Cartridge) Persistent() bool {
	return cart.Header.HasRAM && cart.Header.HasBattery
}

// SetRAMGuard replaces the lock that protects the external RAM. A nil value
// restores the cartridge's own lock.
func (cart *Cartridge) SetRAMGuard(l sync.Locker) {
	if l == nil {
		cart.guard = &cart.localCrit
		return
	}
	cart.guard = l
}

// AttachNotifier sets the single consumer of cartridge notices. A nil value
// removes the current consumer.
func (cart *Cartridge) AttachNotifier(n notifications.Notify) {
	cart.notifier = n
}

func (cart *Cartridge) notify(notice notifications.Notice) error {
	if cart.notifier == nil {
		return nil
	}
	return cart.notifier.Notify(notice)
}

// EnableRAM is called when the cartridge program enables or disables access
// to external RAM. Programs disable RAM once they have finished writing to
// it so disabling RAM after any writes raises NotifyRAMUpdated.
func (cart *Cartridge) EnableRAM(enable bool) error {
	if enable {
		cart.ramEnabled = true
		return nil
	}

	if !cart.ramEnabled {
		return nil
	}
	cart.ramEnabled = false

	if !cart.dirty {
		return nil
	}
	cart.dirty = false

	return cart.notify(notifications.NotifyRAMUpdated)
}

// RAMEnabled returns true if the cartridge program has enabled external RAM.
func (cart *Cartridge) RAMEnabled() bool {
	return cart.ramEnabled
}

// WriteRAM writes to external RAM. The address is relative to the start of
// RAM. Writes while RAM is disabled or outside of the RAM are ignored.
func (cart *Cartridge) WriteRAM(addr uint16, v uint8) {
	if !cart.ramEnabled || int(addr) >= len(cart.ram) {
		return
	}

	// MBC2 RAM is four bits wide
	if cart.Header.RAMSize == mbc2RAMSize {
		v = v&0x0f | 0xf0
	}

	cart.guard.Lock()
	cart.ram[addr] = v
	cart.guard.Unlock()

	cart.dirty = true
}

// ReadRAM reads from external RAM. The address is relative to the start of
// RAM. Reads while RAM is disabled or outside of the RAM return 0xff.
func (cart *Cartridge) ReadRAM(addr uint16) uint8 {
	if !cart.ramEnabled || int(addr) >= len(cart.ram) {
		return 0xff
	}

	cart.guard.Lock()
	defer cart.guard.Unlock()
	return cart.ram[addr]
}

// WriteRTC writes to one of the clock registers. Writes to the clock count
// as writes to RAM for the purposes of NotifyRAMUpdated.
func (cart *Cartridge) WriteRTC(reg uint8, v uint8, now time.Time) error {
	if cart.rtc == nil {
		return curated.Errorf(NoTimer)
	}
	if !cart.ramEnabled {
		return nil
	}
	cart.rtc.Write(reg, v, now)
	cart.dirty = true
	return nil
}
