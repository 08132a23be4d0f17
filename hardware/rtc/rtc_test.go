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

package rtc_test

import (
	"encoding/binary"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/jetsetilly/gopherboy/curated"
	"github.com/jetsetilly/gopherboy/hardware/rtc"
	"github.com/jetsetilly/gopherboy/test"
)

func TestEncodeLayout(t *testing.T) {
	s := &rtc.State{
		Live:     rtc.Registers{Seconds: 30, Minutes: 15, Hours: 3, Days: 300},
		DateTime: time.Unix(10, 0).UTC(),
	}

	b := rtc.Encode(s)
	test.DemandEquality(t, len(b), rtc.BlockSize)

	field := func(i int) uint32 {
		return binary.LittleEndian.Uint32(b[i*4:])
	}
	test.ExpectEquality(t, field(0), 30)
	test.ExpectEquality(t, field(1), 15)
	test.ExpectEquality(t, field(2), 3)
	test.ExpectEquality(t, field(3), 44)
	test.ExpectEquality(t, field(4), 1)
	for i := 5; i < 10; i++ {
		test.ExpectEquality(t, field(i), 0, i)
	}
	test.ExpectEquality(t, binary.LittleEndian.Uint64(b[40:]), 10)
}

func TestRoundTrip(t *testing.T) {
	for i := range 1000 {
		s := &rtc.State{
			Live: rtc.Registers{
				Seconds: uint8(rand.IntN(256)),
				Minutes: uint8(rand.IntN(256)),
				Hours:   uint8(rand.IntN(256)),
				Days:    uint16(rand.IntN(65536)),
			},
			Latched: rtc.Registers{
				Seconds: uint8(rand.IntN(256)),
				Minutes: uint8(rand.IntN(256)),
				Hours:   uint8(rand.IntN(256)),
				Days:    uint16(rand.IntN(65536)),
			},
			DateTime: time.Unix(rand.Int64N(1<<40)-(1<<39), 0).UTC(),
		}

		var d rtc.State
		test.ExpectSuccess(t, rtc.Decode(rtc.Encode(s), &d), i)
		test.ExpectEquality(t, d.Live, s.Live, i)
		test.ExpectEquality(t, d.Latched, s.Latched, i)
		test.ExpectSuccess(t, d.DateTime.Equal(s.DateTime), i)
		test.ExpectFailure(t, d.Frozen, i)
	}
}

func TestDecodeIsPermissive(t *testing.T) {
	b := make([]byte, rtc.BlockSize)

	// values wider than a byte are taken modulo 256
	binary.LittleEndian.PutUint32(b[0:], 0x0123)
	binary.LittleEndian.PutUint32(b[12:], 0xffff)
	binary.LittleEndian.PutUint32(b[16:], 0x02ff)

	var s rtc.State
	test.ExpectSuccess(t, rtc.Decode(b, &s))
	test.ExpectEquality(t, s.Live.Seconds, 0x23)

	// days is not limited to the 0 to 511 range
	test.ExpectEquality(t, s.Live.Days, 0xffff)
}

func TestLegacyBlock(t *testing.T) {
	s := &rtc.State{
		Live:     rtc.Registers{Seconds: 1, Minutes: 2, Hours: 3, Days: 4},
		DateTime: time.Unix(1700000000, 0).UTC(),
	}
	b := rtc.Encode(s)

	var d rtc.State
	test.ExpectSuccess(t, rtc.Decode(b[:rtc.LegacyBlockSize], &d))
	test.ExpectEquality(t, d.Live, s.Live)
	test.ExpectSuccess(t, d.DateTime.Equal(s.DateTime))

	err := rtc.Decode(b[:rtc.LegacyBlockSize-1], &d)
	test.ExpectSuccess(t, curated.Is(err, rtc.InvalidFormat))
}

func TestAdvance(t *testing.T) {
	start := time.Unix(1000, 0).UTC()
	s := &rtc.State{
		Live:     rtc.Registers{Seconds: 50, Minutes: 59, Hours: 23, Days: 10},
		DateTime: start,
	}

	// less than a second makes no difference
	s.Advance(start.Add(500 * time.Millisecond))
	test.ExpectEquality(t, s.Live, rtc.Registers{Seconds: 50, Minutes: 59, Hours: 23, Days: 10})

	s.Advance(start.Add(15 * time.Second))
	test.ExpectEquality(t, s.Live, rtc.Registers{Seconds: 5, Minutes: 0, Hours: 0, Days: 11})
	test.ExpectSuccess(t, s.DateTime.Equal(start.Add(15*time.Second)))

	// frozen clocks do not advance
	s.Frozen = true
	s.Advance(start.Add(time.Hour))
	test.ExpectEquality(t, s.Live, rtc.Registers{Seconds: 5, Minutes: 0, Hours: 0, Days: 11})
	s.Frozen = false

	// day counter overflow sets the carry flag
	s.Live.Days = 511
	s.Advance(s.DateTime.Add(24 * time.Hour))
	test.ExpectEquality(t, s.Live.Days, 0)
	test.ExpectSuccess(t, s.Carry)
}

func TestRegisters(t *testing.T) {
	now := time.Unix(5000, 0).UTC()
	s := &rtc.State{DateTime: now}

	s.Write(rtc.RegSeconds, 0xff, now)
	s.Write(rtc.RegMinutes, 12, now)
	s.Write(rtc.RegHours, 6, now)
	s.Write(rtc.RegDaysLow, 0x2c, now)
	s.Write(rtc.RegDaysHi, 0x41, now)
	test.ExpectEquality(t, s.Live, rtc.Registers{Seconds: 0x3f, Minutes: 12, Hours: 6, Days: 300})
	test.ExpectSuccess(t, s.Halted)

	// registers are read from the latched set
	test.ExpectEquality(t, s.Read(rtc.RegMinutes), 0)

	// halted clocks do not advance when latched
	s.Latch(now.Add(time.Hour))
	test.ExpectEquality(t, s.Read(rtc.RegMinutes), 12)
	test.ExpectEquality(t, s.Read(rtc.RegDaysLow), 0x2c)
	test.ExpectEquality(t, s.Read(rtc.RegDaysHi), 0x41)
	test.ExpectEquality(t, s.Read(0x00), 0xff)

	// un-halting restarts the clock from the time of the write
	restart := now.Add(2 * time.Hour)
	s.Write(rtc.RegDaysHi, 0x01, restart)
	s.Write(rtc.RegSeconds, 0, restart)
	test.ExpectFailure(t, s.Halted)
	s.Latch(restart.Add(time.Minute))
	test.ExpectEquality(t, s.Read(rtc.RegMinutes), 13)
}
