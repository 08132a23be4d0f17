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

// Package sdlaudio plays the emulated audio through SDL.
package sdlaudio

import (
	"sync"

	"github.com/jetsetilly/gopherboy/curated"
	"github.com/jetsetilly/gopherboy/hardware/bus"
	"github.com/jetsetilly/gopherboy/logger"
	"github.com/jetsetilly/gopherboy/plugins"
	"github.com/veandco/go-sdl2/sdl"
)

// ID of the SDL audio plugin.
const ID = "sdl"

// Sentinal error patterns.
const (
	SDLAudio = "sdlaudio: %v"
)

// the buffer length is important to get right. unfortunately, there's no
// special way (that I know of) that can tells us what the ideal value is. we
// don't want it to be long because we can introduce unnecessary lag between
// the audio and video signal; by the same token we don't want it too short
// because the device will underflow.
//
// the following value has been discovered through trial and error. the
// precise value is not critical.
const bufferLength = 1024

// if the amount of queued audio grows beyond this many bytes then the queue
// is cleared. this happens when the emulation is running faster than the real
// hardware
const maxQueued = bus.SampleRate / 5 * 4

// Plugin describes the SDL audio renderer.
var Plugin = plugins.Descriptor{
	Kind:        plugins.Audio,
	ID:          ID,
	DisplayName: "SDL",
	Description: "play audio through SDL",
	Factory: func(ctx plugins.Context) (bus.Device, error) {
		var perm logger.Permission = logger.Allow
		if ctx.Env != nil {
			perm = ctx.Env
		}
		return NewAudio(perm)
	},
}

// Audio outputs sound using SDL.
type Audio struct {
	crit sync.Mutex
	perm logger.Permission

	id   sdl.AudioDeviceID
	spec sdl.AudioSpec

	// conversion buffer from int16 samples to the bytes expected by QueueAudio
	buffer []uint8

	// number of times the queue was cleared because it grew too long
	overruns int

	closed bool
}

// NewAudio is the preferred method of initialisation for the Audio type.
func NewAudio(perm logger.Permission) (*Audio, error) {
	err := sdl.InitSubSystem(sdl.INIT_AUDIO)
	if err != nil {
		return nil, curated.Errorf(SDLAudio, err)
	}

	aud := &Audio{perm: perm}

	spec := &sdl.AudioSpec{
		Freq:     bus.SampleRate,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  bufferLength,
	}

	aud.id, err = sdl.OpenAudioDevice("", false, spec, &aud.spec, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, curated.Errorf(SDLAudio, err)
	}

	logger.Logf(aud.perm, "sdlaudio", "frequency: %d samples/sec", aud.spec.Freq)
	logger.Logf(aud.perm, "sdlaudio", "buffer size: %d samples", aud.spec.Samples)

	sdl.PauseAudioDevice(aud.id, false)

	return aud, nil
}

// SetAudio implements the bus.AudioRenderer interface.
func (aud *Audio) SetAudio(samples []int16) error {
	aud.crit.Lock()
	defer aud.crit.Unlock()

	if aud.closed {
		return nil
	}

	if sdl.GetQueuedAudioSize(aud.id) > maxQueued {
		sdl.ClearQueuedAudio(aud.id)
		aud.overruns++
	}

	aud.buffer = aud.buffer[:0]
	for _, s := range samples {
		aud.buffer = append(aud.buffer, uint8(s), uint8(s>>8))
	}

	err := sdl.QueueAudio(aud.id, aud.buffer)
	if err != nil {
		return curated.Errorf(SDLAudio, err)
	}

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

	sdl.CloseAudioDevice(aud.id)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)

	if aud.overruns > 0 {
		logger.Logf(aud.perm, "sdlaudio", "audio queue cleared %d times", aud.overruns)
	}

	return nil
}
