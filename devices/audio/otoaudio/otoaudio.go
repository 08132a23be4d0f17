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

// Package otoaudio plays the emulated audio with the oto library. Unlike the
// SDL audio plugin, oto does not require any libraries other than those
// provided by the operating system.
package otoaudio

import (
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/jetsetilly/gopherboy/curated"
	"github.com/jetsetilly/gopherboy/hardware/bus"
	"github.com/jetsetilly/gopherboy/logger"
	"github.com/jetsetilly/gopherboy/plugins"
)

// ID of the oto audio plugin.
const ID = "oto"

// Sentinal error patterns.
const (
	OtoAudio = "otoaudio: %v"
)

// about a fifth of a second of 16bit stereo audio
const ringCapacity = bus.SampleRate / 5 * 4

// Plugin describes the oto audio renderer.
var Plugin = plugins.Descriptor{
	Kind:        plugins.Audio,
	ID:          ID,
	DisplayName: "Oto",
	Description: "play audio through the operating system",
	Factory: func(ctx plugins.Context) (bus.Device, error) {
		var perm logger.Permission = logger.Allow
		if ctx.Env != nil {
			perm = ctx.Env
		}
		return NewAudio(perm)
	},
}

// an oto context can be created only once for the lifetime of the program. it
// is shared by every instance of Audio
var (
	otoCtx      *oto.Context
	otoInitOnce sync.Once
	otoInitErr  error
)

func otoContext() (*oto.Context, error) {
	otoInitOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   bus.SampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		}
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr != nil {
			return
		}
		<-ready
	})
	return otoCtx, otoInitErr
}

// Audio implements the bus.AudioRenderer interface.
type Audio struct {
	crit sync.Mutex
	perm logger.Permission

	player *oto.Player
	ring   *ring
	bytes  []byte
	closed bool
}

// NewAudio is the preferred method of initialisation for the Audio type.
func NewAudio(perm logger.Permission) (*Audio, error) {
	ctx, err := otoContext()
	if err != nil {
		return nil, curated.Errorf(OtoAudio, err)
	}

	aud := &Audio{
		perm: perm,
		ring: newRing(ringCapacity),
	}
	aud.player = ctx.NewPlayer(aud.ring)
	aud.player.Play()

	logger.Logf(aud.perm, "otoaudio", "playing at %d samples/sec", bus.SampleRate)

	return aud, nil
}

// SetAudio implements the bus.AudioRenderer interface.
func (aud *Audio) SetAudio(samples []int16) error {
	aud.crit.Lock()
	defer aud.crit.Unlock()

	if aud.closed {
		return nil
	}

	aud.bytes = aud.bytes[:0]
	for _, s := range samples {
		aud.bytes = append(aud.bytes, byte(s), byte(s>>8))
	}
	_, _ = aud.ring.Write(aud.bytes)

	return nil
}

// Close implements the bus.Device interface.
func (aud *Audio) Close() error {
	aud.crit.Lock()
	defer aud.crit.Unlock()

	if aud.closed {
		return nil
	}
	aud.closed = true

	aud.ring.reset()
	err := aud.player.Close()
	if err != nil {
		return curated.Errorf(OtoAudio, err)
	}

	if aud.ring.dropped > 0 {
		logger.Logf(aud.perm, "otoaudio", "%d bytes of audio dropped", aud.ring.dropped)
	}

	return nil
}
