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

package mailbox

import "sync"

// Mailbox holds at most one value. Posting a value replaces any value that
// has not yet been collected.
//
// The zero value is not usable. Use NewMailbox().
type Mailbox[T any] struct {
	crit sync.Mutex
	ch   chan T
}

// NewMailbox is the preferred method of initialisation for the Mailbox type.
func NewMailbox[T any]() *Mailbox[T] {
	return &Mailbox[T]{
		ch: make(chan T, 1),
	}
}

// Post a value to the mailbox. Post never blocks.
func (m *Mailbox[T]) Post(v T) {
	m.crit.Lock()
	defer m.crit.Unlock()

	// drain any unread value before sending the new one. the critical
	// section ensures that there is room in the channel for the send
	select {
	case <-m.ch:
	default:
	}
	m.ch <- v
}

// C returns the channel that values are delivered on. Suitable for use in a
// select statement.
func (m *Mailbox[T]) C() <-chan T {
	return m.ch
}

// Drain returns the value in the mailbox. The boolean value is false if the
// mailbox is empty.
func (m *Mailbox[T]) Drain() (T, bool) {
	select {
	case v := <-m.ch:
		return v, true
	default:
	}
	var zero T
	return zero, false
}
