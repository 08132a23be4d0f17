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

package digest_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/jetsetilly/gopherboy/devices/video/digest"
	"github.com/jetsetilly/gopherboy/hardware/bus"
	"github.com/jetsetilly/gopherboy/plugins"
	"github.com/jetsetilly/gopherboy/test"
)

func frame(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, bus.ScreenWidth, bus.ScreenHeight))
	for y := 0; y < bus.ScreenHeight; y++ {
		for x := 0; x < bus.ScreenWidth; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestChaining(t *testing.T) {
	red := frame(color.RGBA{R: 0xff, A: 0xff})

	dig := digest.NewVideo()
	test.ExpectEquality(t, dig.Hash(), "0000000000000000")

	test.ExpectSuccess(t, dig.NewFrame(red))
	first := dig.Hash()
	test.ExpectInequality(t, first, "0000000000000000")

	// the same image produces a different digest because the previous digest
	// is part of the hashed data
	test.ExpectSuccess(t, dig.NewFrame(red))
	test.ExpectInequality(t, dig.Hash(), first)
	test.ExpectEquality(t, dig.Frames(), 2)

	// the sequence is reproducible
	dig.ResetDigest()
	test.ExpectSuccess(t, dig.NewFrame(red))
	test.ExpectEquality(t, dig.Hash(), first)

	// alpha channel is not part of the digest
	dig.ResetDigest()
	test.ExpectSuccess(t, dig.NewFrame(frame(color.RGBA{R: 0xff})))
	test.ExpectEquality(t, dig.Hash(), first)

	test.ExpectSuccess(t, dig.Close())
}

func TestDifferentImages(t *testing.T) {
	a := digest.NewVideo()
	b := digest.NewVideo()
	test.ExpectSuccess(t, a.NewFrame(frame(color.RGBA{R: 0xff, A: 0xff})))
	test.ExpectSuccess(t, b.NewFrame(frame(color.RGBA{G: 0xff, A: 0xff})))
	test.ExpectInequality(t, a.Hash(), b.Hash())
}

func TestPlugin(t *testing.T) {
	dev, err := digest.Plugin.Factory(plugins.Context{})
	test.DemandSuccess(t, err)
	test.DemandImplements[bus.VideoRenderer](t, dev)
	test.ExpectSuccess(t, dev.Close())
}
