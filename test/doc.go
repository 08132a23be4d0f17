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

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The Expect*() functions report a test error and the test continues. The
// Demand*() functions report a fatal error and the test stops. Both families
// take optional tags which are prefixed to any failure message, which is
// useful when testing in a loop:
//
//	for i, c := range cases {
//		test.ExpectEquality(t, c.got, c.want, i)
//	}
//
// ExpectSuccess() and ExpectFailure() test for success and failure under
// generic conditions. The documentation for those functions describe the
// currently supported types.
//
// It is worth describing how these functions handle the nil type because it
// is not obvious. The nil type is considered a success and consequently will
// cause ExpectFailure() to fail and ExpectSuccess() to succeed. This is
// because of how errors usually work (nil to indicate no error).
//
// The CompareWriter type implements the io.Writer interface and should be used
// to capture output. The Compare() function can then be used to test for
// equality.
package test
