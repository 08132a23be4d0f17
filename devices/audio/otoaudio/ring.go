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

package otoaudio

import "sync"

// ring is a fixed size byte buffer that is written to by the emulation and
// read by the oto player. reading never blocks and never returns io.EOF
// because the oto player stops playing if it sees the end of the stream.
type ring struct {
	crit sync.Mutex
	data []byte
	r    int
	n    int

	// number of bytes discarded because the buffer was full
	dropped int
}

func newRing(size int) *ring {
	return &ring{data: make([]byte, size)}
}

// write to the buffer. if there is not enough room then the oldest data is
// discarded
func (rb *ring) Write(p []byte) (int, error) {
	rb.crit.Lock()
	defer rb.crit.Unlock()

	l := len(p)

	// only the most recent data fits
	if len(p) > len(rb.data) {
		rb.dropped += len(p) - len(rb.data)
		p = p[len(p)-len(rb.data):]
	}

	if over := rb.n + len(p) - len(rb.data); over > 0 {
		rb.r = (rb.r + over) % len(rb.data)
		rb.n -= over
		rb.dropped += over
	}

	w := (rb.r + rb.n) % len(rb.data)
	c := copy(rb.data[w:], p)
	copy(rb.data, p[c:])
	rb.n += len(p)

	return l, nil
}

// read from the buffer. silence is returned when the buffer has been emptied
func (rb *ring) Read(p []byte) (int, error) {
	rb.crit.Lock()
	defer rb.crit.Unlock()

	c := min(len(p), rb.n)
	for i := 0; i < c; i++ {
		p[i] = rb.data[(rb.r+i)%len(rb.data)]
	}
	rb.r = (rb.r + c) % len(rb.data)
	rb.n -= c

	clear(p[c:])

	return len(p), nil
}

func (rb *ring) buffered() int {
	rb.crit.Lock()
	defer rb.crit.Unlock()
	return rb.n
}

func (rb *ring) reset() {
	rb.crit.Lock()
	defer rb.crit.Unlock()
	rb.r = 0
	rb.n = 0
}
