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

package test_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jetsetilly/gopherboy/test"
)

func TestSuccessAndFailure(t *testing.T) {
	test.ExpectSuccess(t, true)
	test.ExpectFailure(t, false)

	var err error
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, nil)

	err = errors.New("test")
	test.ExpectFailure(t, err)
}

func TestEquality(t *testing.T) {
	test.ExpectEquality(t, 10, 10)
	test.ExpectEquality(t, "foo", "foo")
	test.ExpectInequality(t, uint16(10), 11)
	test.ExpectApproximate(t, 0.99, 1.0, 0.02)
	test.DemandEquality(t, len("four"), 4)
}

func TestCompareWriter(t *testing.T) {
	tw := &test.CompareWriter{}
	test.ExpectSuccess(t, tw.Compare(""))

	fmt.Fprintf(tw, "hello %s", "world")
	test.ExpectSuccess(t, tw.Compare("hello world"))

	tw.Clear()
	test.ExpectSuccess(t, tw.Compare(""))
}

type stringer struct{}

func (stringer) String() string { return "stringer" }

func TestImplements(t *testing.T) {
	s := test.DemandImplements[fmt.Stringer](t, stringer{})
	test.ExpectEquality(t, s.String(), "stringer")
}
