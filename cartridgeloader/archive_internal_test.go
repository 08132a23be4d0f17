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

package cartridgeloader

import (
	"testing"

	"github.com/jetsetilly/gopherboy/test"
)

func TestDetectFormat(t *testing.T) {
	test.ExpectEquality(t, detectFormat([]byte{0x50, 0x4b, 0x03, 0x04, 0x00}), formatZIP)
	test.ExpectEquality(t, detectFormat([]byte{0x50, 0x4b, 0x05, 0x06}), formatZIP)
	test.ExpectEquality(t, detectFormat([]byte{0x37, 0x7a, 0xbc, 0xaf, 0x27, 0x1c, 0x00}), format7z)
	test.ExpectEquality(t, detectFormat([]byte("Rar!\x1a\x07\x01\x00")), formatRAR)
	test.ExpectEquality(t, detectFormat([]byte{0x1f, 0x8b, 0x08}), formatGzip)

	// partial magic is not enough
	test.ExpectEquality(t, detectFormat([]byte{0x37, 0x7a, 0xbc}), formatRaw)
	test.ExpectEquality(t, detectFormat([]byte{0x00, 0xc3, 0x50, 0x01}), formatRaw)
	test.ExpectEquality(t, detectFormat(nil), formatRaw)
}
