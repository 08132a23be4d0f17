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

package mailbox_test

import (
	"sync"
	"testing"

	"github.com/jetsetilly/gopherboy/mailbox"
	"github.com/jetsetilly/gopherboy/test"
)

func TestLatestWins(t *testing.T) {
	m := mailbox.NewMailbox[float64]()

	_, ok := m.Drain()
	test.ExpectFailure(t, ok)

	m.Post(0.5)
	m.Post(0.75)
	m.Post(0.97)

	v, ok := m.Drain()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 0.97)

	_, ok = m.Drain()
	test.ExpectFailure(t, ok)
}

func TestChannel(t *testing.T) {
	m := mailbox.NewMailbox[int]()
	m.Post(1)
	m.Post(2)

	select {
	case v := <-m.C():
		test.ExpectEquality(t, v, 2)
	default:
		t.Errorf("expected value in mailbox")
	}
}

func TestConcurrentPost(t *testing.T) {
	m := mailbox.NewMailbox[int]()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 1000 {
				m.Post(i*1000 + j)
			}
		}()
	}
	wg.Wait()

	// posting never blocks and exactly one value remains
	_, ok := m.Drain()
	test.ExpectSuccess(t, ok)
	_, ok = m.Drain()
	test.ExpectFailure(t, ok)
}
