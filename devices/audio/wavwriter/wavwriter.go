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

// Package wavwriter allows writing of audio data to disk as a WAV file. The
// file is written as the audio arrives and is completed when the device is
// closed.
package wavwriter

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jetsetilly/gopherboy/curated"
	"github.com/jetsetilly/gopherboy/hardware/bus"
	"github.com/jetsetilly/gopherboy/logger"
	"github.com/jetsetilly/gopherboy/paths"
	"github.com/jetsetilly/gopherboy/plugins"
)

// ID of the WAV plugin.
const ID = "wav"

// Sentinal error patterns.
const (
	WavWriter = "wavwriter: %v"
)

const (
	numChannels = 2
	bitDepth    = 16

	// audio format value for PCM in the WAV header
	pcmFormat = 1
)

// Plugin describes the WAV writer.
var Plugin = plugins.Descriptor{
	Kind:        plugins.Audio,
	ID:          ID,
	DisplayName: "WAV file",
	Description: "record audio to a WAV file",
	Factory: func(ctx plugins.Context) (bus.Device, error) {
		var perm logger.Permission = logger.Allow
		if ctx.Env != nil {
			perm = ctx.Env
		}
		filename := filepath.Join(ctx.Surface.OutputDir, paths.UniqueFilename("audio", "")+".wav")
		return New(perm, filename)
	},
}

// WavWriter implements the bus.AudioRenderer interface.
type WavWriter struct {
	crit sync.Mutex
	perm logger.Permission

	filename string
	f        *os.File
	enc      *wav.Encoder
	buf      *audio.IntBuffer
	frames   int
}

// New is the preferred method of initialisation for the WavWriter type.
func New(perm logger.Permission, filename string) (*WavWriter, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, curated.Errorf(WavWriter, err)
	}

	aw := &WavWriter{
		perm:     perm,
		filename: filename,
		f:        f,
		enc:      wav.NewEncoder(f, bus.SampleRate, bitDepth, numChannels, pcmFormat),
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: numChannels,
				SampleRate:  bus.SampleRate,
			},
			SourceBitDepth: bitDepth,
		},
	}

	logger.Logf(aw.perm, "wavwriter", "writing audio to %s", aw.filename)

	return aw, nil
}

// Filename returns the name of the file being written to.
func (aw *WavWriter) Filename() string {
	return aw.filename
}

// SetAudio implements the bus.AudioRenderer interface.
func (aw *WavWriter) SetAudio(samples []int16) error {
	aw.crit.Lock()
	defer aw.crit.Unlock()

	if aw.enc == nil {
		return nil
	}

	aw.buf.Data = aw.buf.Data[:0]
	for _, s := range samples {
		aw.buf.Data = append(aw.buf.Data, int(s))
	}

	err := aw.enc.Write(aw.buf)
	if err != nil {
		return curated.Errorf(WavWriter, err)
	}
	aw.frames += len(samples) / numChannels

	return nil
}

// Close implements the bus.Device interface. The WAV header is updated with
// the final length of the audio data.
func (aw *WavWriter) Close() (rerr error) {
	aw.crit.Lock()
	defer aw.crit.Unlock()

	if aw.enc == nil {
		return nil
	}

	defer func() {
		err := aw.f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf(WavWriter, err)
		}
	}()

	// the encoder only writes the header with the first samples
	if aw.frames == 0 {
		aw.buf.Data = aw.buf.Data[:0]
		if err := aw.enc.Write(aw.buf); err != nil {
			return curated.Errorf(WavWriter, err)
		}
	}

	err := aw.enc.Close()
	aw.enc = nil
	if err != nil {
		return curated.Errorf(WavWriter, err)
	}

	logger.Logf(aw.perm, "wavwriter", "%d sample frames written to %s", aw.frames, aw.filename)

	return nil
}
