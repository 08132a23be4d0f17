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

package wavwriter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/jetsetilly/gopherboy/devices/audio/wavwriter"
	"github.com/jetsetilly/gopherboy/hardware/bus"
	"github.com/jetsetilly/gopherboy/logger"
	"github.com/jetsetilly/gopherboy/plugins"
	"github.com/jetsetilly/gopherboy/test"
)

func TestWrite(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "test.wav")

	aw, err := wavwriter.New(logger.Allow, filename)
	test.DemandSuccess(t, err)

	samples := []int16{100, -100, 200, -200, 300, -300}
	test.ExpectSuccess(t, aw.SetAudio(samples))
	test.ExpectSuccess(t, aw.SetAudio(samples))
	test.ExpectSuccess(t, aw.Close())

	// closing twice is not an error and writing after closing is ignored
	test.ExpectSuccess(t, aw.Close())
	test.ExpectSuccess(t, aw.SetAudio(samples))

	f, err := os.Open(filename)
	test.DemandSuccess(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	test.DemandSuccess(t, dec.IsValidFile())
	test.ExpectEquality(t, dec.SampleRate, uint32(bus.SampleRate))
	test.ExpectEquality(t, dec.NumChans, uint16(2))
	test.ExpectEquality(t, dec.BitDepth, uint16(16))

	buf, err := dec.FullPCMBuffer()
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(buf.Data), 12)
	test.ExpectEquality(t, buf.Data[0], 100)
	test.ExpectEquality(t, buf.Data[1], -100)
	test.ExpectEquality(t, buf.Data[11], -300)
}

func TestPlugin(t *testing.T) {
	dir := t.TempDir()

	dev, err := wavwriter.Plugin.Factory(plugins.Context{Surface: plugins.Surface{OutputDir: dir}})
	test.DemandSuccess(t, err)
	aud := test.DemandImplements[bus.AudioRenderer](t, dev)
	test.ExpectSuccess(t, aud.SetAudio([]int16{1, 1}))
	test.ExpectSuccess(t, dev.Close())

	entries, err := os.ReadDir(dir)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(entries), 1)
	test.ExpectEquality(t, filepath.Ext(entries[0].Name()), ".wav")
}
