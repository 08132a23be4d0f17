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
	"encoding/binary"
	"time"

	"github.com/jetsetilly/gopherboy/curated"
)

// BlockSize is the number of bytes in an encoded State. The layout is shared
// with other emulators and is:
//
//	offset  0 : int32 LE : Seconds
//	offset  4 : int32 LE : Minutes
//	offset  8 : int32 LE : Hours
//	offset 12 : int32 LE : Days (low byte)
//	offset 16 : int32 LE : Days (high byte)
//	offset 20 : int32 LE : Latched Seconds
//	offset 24 : int32 LE : Latched Minutes
//	offset 28 : int32 LE : Latched Hours
//	offset 32 : int32 LE : Latched Days (low byte)
//	offset 36 : int32 LE : Latched Days (high byte)
//	offset 40 : int64 LE : DateTime as seconds since the Unix epoch (UTC)
//
// Each of the int32 values holds a single byte value.
const BlockSize = 48

// LegacyBlockSize is the size of blocks written with a 32 bit timestamp.
// Decode() accepts blocks of this size.
const LegacyBlockSize = 44

// InvalidFormat is returned by Decode() if the data is too short.
const InvalidFormat = "rtc: invalid format: %v"

// the fields in encoding order
const numFields = 10

// Encode the State into a new slice of BlockSize bytes.
func Encode(s *State) []byte {
	b := make([]byte, BlockSize)
	EncodeInto(s, b)
	return b
}

// EncodeInto encodes the State into the byte slice, which must be at least
// BlockSize bytes long.
func EncodeInto(s *State, b []byte) {
	s.crit.Lock()
	defer s.crit.Unlock()

	fields := [numFields]uint16{
		uint16(s.Live.Seconds), uint16(s.Live.Minutes), uint16(s.Live.Hours),
		s.Live.Days, s.Live.Days >> 8,
		uint16(s.Latched.Seconds), uint16(s.Latched.Minutes), uint16(s.Latched.Hours),
		s.Latched.Days, s.Latched.Days >> 8,
	}

	for i, f := range fields {
		binary.LittleEndian.PutUint32(b[i*4:], uint32(f&0xff))
	}

	binary.LittleEndian.PutUint64(b[numFields*4:], uint64(s.DateTime.Unix()))
}

// Decode the data into the State. The data must be BlockSize or
// LegacyBlockSize bytes long. Any additional bytes are ignored.
//
// Values are not validated. Each field is taken modulo 256 and the days
// fields are reassembled from the low and high bytes.
//
// The State is Frozen while the fields are assigned.
func Decode(data []byte, s *State) error {
	if len(data) < LegacyBlockSize {
		return curated.Errorf(InvalidFormat, "block too short")
	}

	var fields [numFields]uint8
	for i := range fields {
		fields[i] = uint8(binary.LittleEndian.Uint32(data[i*4:]))
	}

	var epoch int64
	if len(data) >= BlockSize {
		epoch = int64(binary.LittleEndian.Uint64(data[numFields*4:]))
	} else {
		epoch = int64(binary.LittleEndian.Uint32(data[numFields*4:]))
	}

	s.crit.Lock()
	defer s.crit.Unlock()

	s.Frozen = true

	s.Live.Seconds = fields[0]
	s.Live.Minutes = fields[1]
	s.Live.Hours = fields[2]
	s.Live.Days = uint16(fields[3]) | uint16(fields[4])<<8

	s.Latched.Seconds = fields[5]
	s.Latched.Minutes = fields[6]
	s.Latched.Hours = fields[7]
	s.Latched.Days = uint16(fields[8]) | uint16(fields[9])<<8

	s.DateTime = time.Unix(epoch, 0).UTC()

	s.Frozen = false

	return nil
}
