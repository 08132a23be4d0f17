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

package savefile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jetsetilly/gopherboy/curated"
	"github.com/jetsetilly/gopherboy/hardware/rtc"
	"github.com/jetsetilly/gopherboy/test"
)

func TestFailedWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed.sav")

	ram := make([]byte, 2048)
	clock := &rtc.State{}

	st, err := Open(path, ram, clock)
	test.DemandSuccess(t, err)

	for i := range ram {
		ram[i] = uint8(i * 3)
	}
	clock.Live = rtc.Registers{Seconds: 12, Minutes: 34, Hours: 5, Days: 260}
	clock.DateTime = time.Unix(1000, 0).UTC()

	wantRAM := bytes.Clone(ram)
	wantClock := rtc.Encode(clock)

	// writes to a closed file fail
	test.DemandSuccess(t, st.f.Close())

	err = st.NotifyRAMChanged()
	test.ExpectSuccess(t, curated.Is(err, IoFailure))
	test.ExpectSuccess(t, errors.Is(err, os.ErrClosed))
	test.ExpectEquality(t, st.Flushes(), 0)

	// the failure leaves the RAM and the clock as they were
	test.ExpectSuccess(t, bytes.Equal(ram, wantRAM))
	test.ExpectSuccess(t, bytes.Equal(rtc.Encode(clock), wantClock))
	test.ExpectFailure(t, clock.Frozen)

	// nothing reached the file
	data, err := os.ReadFile(path)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, bytes.Equal(data, make([]byte, len(ram)+rtc.BlockSize)))

	// the next successful write saves the correct data
	st.f, err = os.OpenFile(path, os.O_RDWR, 0o644)
	test.DemandSuccess(t, err)

	test.ExpectSuccess(t, st.NotifyRAMChanged())
	test.ExpectEquality(t, st.Flushes(), 1)
	test.ExpectSuccess(t, st.Close())

	data, err = os.ReadFile(path)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(data), len(ram)+rtc.BlockSize)
	test.ExpectSuccess(t, bytes.Equal(data[:len(ram)], wantRAM))
	test.ExpectSuccess(t, bytes.Equal(data[len(ram):], wantClock))
}
