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
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/jetsetilly/gopherboy/curated"
	"github.com/jetsetilly/gopherboy/hardware/rtc"
	"github.com/jetsetilly/gopherboy/logger"
)

// Sentinal error patterns.
const (
	IoFailure    = "savefile: io failure: %v"
	InvalidState = "savefile: invalid state: %v"
)

// Store is the battery save file for one cartridge. The file handle is owned
// exclusively by the Store.
//
// Store implements the sync.Locker interface. The lock is held for the
// duration of every write to disk and should also be held by anything that
// changes the RAM buffer from another goroutine.
type Store struct {
	crit sync.Mutex

	path string
	f    *os.File

	// the RAM buffer is owned by the cartridge. the clock is nil if the
	// cartridge has no timer
	ram   []byte
	clock *rtc.State

	// scratch buffer the size of the file. the contents of the RAM and clock
	// are copied to it before every write
	buf []byte

	flushes int
	closed  bool
}

// Open the save file at path, creating it if it does not exist. The file is
// resized to exactly the length of the RAM buffer plus rtc.BlockSize bytes if
// clock is not nil.
//
// The RAM buffer is filled from the file and if there is a clock it is set
// from the block that follows the RAM.
//
// Files of the wrong size are padded with zero bytes or truncated as required.
// Truncation loses data and a warning is logged when it happens.
func Open(path string, ram []byte, clock *rtc.State) (*Store, error) {
	st := &Store{
		path:  path,
		ram:   ram,
		clock: clock,
	}

	size := len(ram)
	if clock != nil {
		size += rtc.BlockSize
	}
	st.buf = make([]byte, size)

	var err error

	st.f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, curated.Errorf(IoFailure, err)
	}

	err = st.load()
	if err != nil {
		_ = st.f.Close()
		return nil, err
	}

	logger.Logf(logger.Allow, "savefile", "opened %s (%d bytes)", path, size)

	return st, nil
}

func (st *Store) load() error {
	info, err := st.f.Stat()
	if err != nil {
		return curated.Errorf(IoFailure, err)
	}

	if info.Size() != int64(len(st.buf)) {
		if info.Size() > int64(len(st.buf)) {
			logger.Logf(logger.Allow, "savefile", "truncating %s from %d to %d bytes", st.path, info.Size(), len(st.buf))
		} else if info.Size() > 0 {
			logger.Logf(logger.Allow, "savefile", "padding %s from %d to %d bytes", st.path, info.Size(), len(st.buf))
		}
		err = st.f.Truncate(int64(len(st.buf)))
		if err != nil {
			return curated.Errorf(IoFailure, err)
		}
	}

	_, err = st.f.ReadAt(st.buf, 0)
	if err != nil && err != io.EOF {
		return curated.Errorf(IoFailure, err)
	}

	copy(st.ram, st.buf)

	if st.clock != nil {
		err = rtc.Decode(st.buf[len(st.ram):], st.clock)
		if err != nil {
			return curated.Errorf(IoFailure, err)
		}
	}

	return nil
}

func (st *Store) String() string {
	return fmt.Sprintf("%s (%d bytes)", st.path, len(st.buf))
}

// Path returns the filename of the save file.
func (st *Store) Path() string {
	return st.path
}

// Size returns the size of the save file.
func (st *Store) Size() int {
	return len(st.buf)
}

// Flushes returns the number of times the file has been written to.
func (st *Store) Flushes() int {
	st.crit.Lock()
	defer st.crit.Unlock()
	return st.flushes
}

// Lock implements the sync.Locker interface.
func (st *Store) Lock() {
	st.crit.Lock()
}

// Unlock implements the sync.Locker interface.
func (st *Store) Unlock() {
	st.crit.Unlock()
}

// NotifyRAMChanged writes the RAM and the clock to the file.
//
// Neither the RAM buffer nor the clock are changed if the write fails. A
// later successful call will write the correct data.
func (st *Store) NotifyRAMChanged() error {
	st.crit.Lock()
	defer st.crit.Unlock()

	if st.closed {
		return curated.Errorf(InvalidState, "store is closed")
	}

	return st.flush()
}

// flush must be called with the critical section held.
func (st *Store) flush() error {
	copy(st.buf, st.ram)
	if st.clock != nil {
		rtc.EncodeInto(st.clock, st.buf[len(st.ram):])
	}

	_, err := st.f.WriteAt(st.buf, 0)
	if err != nil {
		return curated.Errorf(IoFailure, err)
	}

	st.flushes++
	logger.Logf(logger.Allow, "savefile", "written %s", st.path)

	return nil
}

// Close writes the RAM and clock to the file one final time and closes the
// file. The file is closed even if the final write fails.
//
// Any call to Close() or NotifyRAMChanged() after Close() will fail with
// InvalidState.
func (st *Store) Close() error {
	st.crit.Lock()
	defer st.crit.Unlock()

	if st.closed {
		return curated.Errorf(InvalidState, "store is already closed")
	}
	st.closed = true

	flushErr := st.flush()

	err := st.f.Close()
	if err != nil {
		return curated.Errorf(IoFailure, err)
	}

	logger.Logf(logger.Allow, "savefile", "closed %s", st.path)

	return flushErr
}
