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

package savefile_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jetsetilly/gopherboy/curated"
	"github.com/jetsetilly/gopherboy/hardware/rtc"
	"github.com/jetsetilly/gopherboy/savefile"
	"github.com/jetsetilly/gopherboy/test"
)

func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	test.DemandSuccess(t, err)
	return info.Size()
}

func TestFreshFile(t *testing.T) {
	dir := t.TempDir()

	for _, ramSize := range []int{0, 512, 2048, 8192, 32768} {
		for _, hasTimer := range []bool{false, true} {
			path := filepath.Join(dir, "fresh.sav")
			_ = os.Remove(path)

			ram := make([]byte, ramSize)
			for i := range ram {
				ram[i] = 0xaa
			}

			var clock *rtc.State
			expected := ramSize
			if hasTimer {
				clock = &rtc.State{DateTime: time.Now()}
				expected += rtc.BlockSize
			}

			st, err := savefile.Open(path, ram, clock)
			test.DemandSuccess(t, err, ramSize, hasTimer)
			test.ExpectEquality(t, st.Size(), expected, ramSize, hasTimer)
			test.ExpectEquality(t, fileSize(t, path), int64(expected), ramSize, hasTimer)

			// the RAM buffer is cleared by the empty file
			test.ExpectSuccess(t, bytes.Equal(ram, make([]byte, ramSize)), ramSize, hasTimer)

			// and the clock epoch is zero
			if hasTimer {
				test.ExpectEquality(t, clock.DateTime.Unix(), 0, ramSize, hasTimer)
			}

			test.ExpectSuccess(t, st.Close(), ramSize, hasTimer)

			data, err := os.ReadFile(path)
			test.DemandSuccess(t, err)
			test.ExpectSuccess(t, bytes.Equal(data, make([]byte, expected)), ramSize, hasTimer)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.sav")

	ram := make([]byte, 8192)
	clock := &rtc.State{}

	st, err := savefile.Open(path, ram, clock)
	test.DemandSuccess(t, err)

	for i := range ram {
		ram[i] = uint8(i * 7)
	}
	clock.Live = rtc.Registers{Seconds: 30, Minutes: 15, Hours: 3, Days: 300}
	clock.DateTime = time.Unix(10, 0).UTC()

	test.ExpectSuccess(t, st.NotifyRAMChanged())
	test.ExpectEquality(t, st.Flushes(), 1)
	test.ExpectSuccess(t, st.Close())

	// the RTC block follows the RAM
	data, err := os.ReadFile(path)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(data), 8192+rtc.BlockSize)
	test.ExpectEquality(t, binary.LittleEndian.Uint32(data[8192+12:]), 44)
	test.ExpectEquality(t, binary.LittleEndian.Uint32(data[8192+16:]), 1)
	test.ExpectEquality(t, binary.LittleEndian.Uint64(data[8192+40:]), 10)

	reloadRAM := make([]byte, 8192)
	reloadClock := &rtc.State{}
	st, err = savefile.Open(path, reloadRAM, reloadClock)
	test.DemandSuccess(t, err)
	defer st.Close()

	test.ExpectSuccess(t, bytes.Equal(ram, reloadRAM))
	test.ExpectEquality(t, reloadClock.Live, clock.Live)
	test.ExpectEquality(t, reloadClock.Latched, rtc.Registers{})
	test.ExpectSuccess(t, reloadClock.DateTime.Equal(time.Unix(10, 0)))
	test.ExpectFailure(t, reloadClock.Frozen)
}

func TestResize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resize.sav")

	original := make([]byte, 100)
	for i := range original {
		original[i] = uint8(i + 1)
	}
	test.DemandSuccess(t, os.WriteFile(path, original, 0o644))

	// shorter RAM truncates the file
	ram := make([]byte, 64)
	st, err := savefile.Open(path, ram, nil)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, bytes.Equal(ram, original[:64]))
	test.ExpectSuccess(t, st.Close())
	test.ExpectEquality(t, fileSize(t, path), int64(64))

	// longer RAM pads the file with zeroes
	ram = make([]byte, 128)
	st, err = savefile.Open(path, ram, nil)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, bytes.Equal(ram[:64], original[:64]))
	test.ExpectSuccess(t, bytes.Equal(ram[64:], make([]byte, 64)))
	test.ExpectSuccess(t, st.Close())
	test.ExpectEquality(t, fileSize(t, path), int64(128))
}

func TestClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closed.sav")

	st, err := savefile.Open(path, make([]byte, 16), nil)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, st.Close())

	err = st.NotifyRAMChanged()
	test.ExpectSuccess(t, curated.Is(err, savefile.InvalidState))

	err = st.Close()
	test.ExpectSuccess(t, curated.Is(err, savefile.InvalidState))
}

func TestIoFailure(t *testing.T) {
	// a directory cannot be opened as a save file
	_, err := savefile.Open(t.TempDir(), make([]byte, 16), nil)
	test.ExpectSuccess(t, curated.Is(err, savefile.IoFailure))

	// nor can a file in a directory that does not exist
	_, err = savefile.Open(filepath.Join(t.TempDir(), "missing", "x.sav"), make([]byte, 16), nil)
	test.ExpectSuccess(t, curated.Is(err, savefile.IoFailure))
	test.ExpectSuccess(t, errors.Is(err, fs.ErrNotExist))
}

func TestStoreIsLocker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locker.sav")

	ram := make([]byte, 16)
	st, err := savefile.Open(path, ram, nil)
	test.DemandSuccess(t, err)
	defer st.Close()

	// RAM changed under the store's lock is picked up by the next flush
	done := make(chan bool)
	go func() {
		st.Lock()
		ram[0] = 0x42
		st.Unlock()
		done <- true
	}()
	<-done

	test.ExpectSuccess(t, st.NotifyRAMChanged())
	data, err := os.ReadFile(path)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, data[0], 0x42)
}
