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

package rtc

import (
	"fmt"
	"sync"
	"time"
)

// Registers is one set of clock registers. The cartridge has a live set and a
// latched set.
//
// Values are stored as they are written by the cartridge program or as they
// are read from a save file. They are not validated so Seconds can be greater
// than 59, etc. Days is nominally in the range 0 to 511 but any 16 bit value
// is accepted.
type Registers struct {
	Seconds uint8
	Minutes uint8
	Hours   uint8
	Days    uint16
}

func (r Registers) String() string {
	return fmt.Sprintf("%dd %02d:%02d:%02d", r.Days, r.Hours, r.Minutes, r.Seconds)
}

// the number of days the day counter can hold before it overflows
const dayCounterRange = 512

// State is the real-time-clock of an MBC3 cartridge.
//
// The fields can be accessed directly if the State is not shared between
// goroutines. Otherwise the methods of the type, which are protected by a
// critical section, should be used.
type State struct {
	crit sync.Mutex

	Live    Registers
	Latched Registers

	// the real-world instant that the Live registers were last normalised
	// from. the registers are correct for this instant
	DateTime time.Time

	// while Frozen is true the Live registers are not updated from the wall
	// clock. Frozen is set while the State is being bulk assigned
	Frozen bool

	// the halt and carry flags are held in the upper bits of the day-high
	// register. halted clocks do not advance and the carry flag is set when
	// the day counter overflows
	Halted bool
	Carry  bool
}

// NewState is the preferred method of initialisation for the State type. The
// reference time of the clock is set to the current time.
func NewState() *State {
	return &State{
		DateTime: time.Now().UTC().Truncate(time.Second),
	}
}

func (s *State) String() string {
	s.crit.Lock()
	defer s.crit.Unlock()
	return fmt.Sprintf("live: %s latched: %s at %s", s.Live, s.Latched, s.DateTime.UTC().Format(time.RFC3339))
}

// Advance normalises the Live registers to the now argument. Nothing happens
// if the clock is Frozen or Halted, or if now is not at least one second
// after DateTime.
func (s *State) Advance(now time.Time) {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.advance(now)
}

func (s *State) advance(now time.Time) {
	if s.Frozen || s.Halted {
		return
	}

	elapsed := int64(now.Sub(s.DateTime) / time.Second)
	if elapsed <= 0 {
		return
	}
	s.DateTime = s.DateTime.Add(time.Duration(elapsed) * time.Second)

	seconds := int64(s.Live.Seconds) + elapsed
	minutes := int64(s.Live.Minutes) + seconds/60
	hours := int64(s.Live.Hours) + minutes/60
	days := int64(s.Live.Days) + hours/24

	s.Live.Seconds = uint8(seconds % 60)
	s.Live.Minutes = uint8(minutes % 60)
	s.Live.Hours = uint8(hours % 24)
	if days >= dayCounterRange {
		s.Carry = true
		days %= dayCounterRange
	}
	s.Live.Days = uint16(days)
}

// Latch copies the Live registers to the Latched registers. The Live
// registers are advanced to the now argument first.
func (s *State) Latch(now time.Time) {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.advance(now)
	s.Latched = s.Live
}

// list of register numbers as selected by the cartridge program
const (
	RegSeconds = 0x08
	RegMinutes = 0x09
	RegHours   = 0x0a
	RegDaysLow = 0x0b
	RegDaysHi  = 0x0c
)

// bits in the day-high register
const (
	daysHiBit8  = 0x01
	daysHiHalt  = 0x40
	daysHiCarry = 0x80
)

// Read returns the value of a latched register. Reading an unknown register
// returns 0xff.
func (s *State) Read(reg uint8) uint8 {
	s.crit.Lock()
	defer s.crit.Unlock()

	switch reg {
	case RegSeconds:
		return s.Latched.Seconds
	case RegMinutes:
		return s.Latched.Minutes
	case RegHours:
		return s.Latched.Hours
	case RegDaysLow:
		return uint8(s.Latched.Days)
	case RegDaysHi:
		v := uint8(s.Latched.Days>>8) & daysHiBit8
		if s.Halted {
			v |= daysHiHalt
		}
		if s.Carry {
			v |= daysHiCarry
		}
		return v
	}

	return 0xff
}

// Write sets the value of a live register. The Live registers are advanced to
// the now argument before the write so that the elapsed time is not lost.
func (s *State) Write(reg uint8, v uint8, now time.Time) {
	s.crit.Lock()
	defer s.crit.Unlock()

	s.advance(now)

	switch reg {
	case RegSeconds:
		s.Live.Seconds = v & 0x3f
	case RegMinutes:
		s.Live.Minutes = v & 0x3f
	case RegHours:
		s.Live.Hours = v & 0x1f
	case RegDaysLow:
		s.Live.Days = s.Live.Days&0xff00 | uint16(v)
	case RegDaysHi:
		s.Live.Days = s.Live.Days&0x00ff | uint16(v&daysHiBit8)<<8
		s.Carry = v&daysHiCarry == daysHiCarry

		// a clock being un-halted starts counting from now
		halted := v&daysHiHalt == daysHiHalt
		if s.Halted && !halted {
			s.DateTime = now
		}
		s.Halted = halted
	}
}
