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

// Package digest is a video renderer that produces a fingerprint of the
// video output. It does not display the image anywhere. It is useful for
// checking that a change to the emulation has not altered the output.
package digest

import (
	"encoding/binary"
	"fmt"
	"image"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/jetsetilly/gopherboy/hardware/bus"
	"github.com/jetsetilly/gopherboy/logger"
	"github.com/jetsetilly/gopherboy/plugins"
)

// ID of the digest plugin.
const ID = "digest"

// Plugin describes the digest renderer.
var Plugin = plugins.Descriptor{
	Kind:        plugins.Video,
	ID:          ID,
	DisplayName: "Digest",
	Description: "chained xxhash fingerprint of every frame",
	Factory: func(ctx plugins.Context) (bus.Device, error) {
		dig := NewVideo()
		if ctx.Env != nil {
			dig.perm = ctx.Env
		}
		return dig, nil
	},
}

// number of bytes reserved at the head of the pixel buffer for the previous
// digest value
const chainLen = 8

const pixelDepth = 3

// Video implements the bus.VideoRenderer interface. It generates a hash of the
// image every frame. The hash of each frame includes the hash of the previous
// frame so the final hash is a fingerprint of the entire sequence.
type Video struct {
	crit sync.Mutex

	perm     logger.Permission
	digest   uint64
	pixels   []byte
	width    int
	height   int
	frameNum int
}

// NewVideo is the preferred method of initialisation for the Video type.
func NewVideo() *Video {
	dig := &Video{perm: logger.Allow}
	_ = dig.Resize(bus.ScreenWidth, bus.ScreenHeight)
	return dig
}

// Hash returns the current digest value as a string.
func (dig *Video) Hash() string {
	dig.crit.Lock()
	defer dig.crit.Unlock()
	return fmt.Sprintf("%016x", dig.digest)
}

// Frames returns the number of frames that have contributed to the digest.
func (dig *Video) Frames() int {
	dig.crit.Lock()
	defer dig.crit.Unlock()
	return dig.frameNum
}

// ResetDigest sets the digest value to zero.
func (dig *Video) ResetDigest() {
	dig.crit.Lock()
	defer dig.crit.Unlock()
	dig.digest = 0
	dig.frameNum = 0
}

// Resize implements the bus.VideoRenderer interface.
func (dig *Video) Resize(width, height int) error {
	dig.crit.Lock()
	defer dig.crit.Unlock()
	dig.width = width
	dig.height = height
	dig.pixels = make([]byte, chainLen+width*height*pixelDepth)
	return nil
}

// NewFrame implements the bus.VideoRenderer interface.
func (dig *Video) NewFrame(img *image.RGBA) error {
	dig.crit.Lock()
	defer dig.crit.Unlock()

	// chain fingerprints by copying the value of the last fingerprint to the
	// head of the video data
	binary.LittleEndian.PutUint64(dig.pixels, dig.digest)

	b := img.Bounds()
	i := chainLen
	for y := 0; y < dig.height; y++ {
		for x := 0; x < dig.width; x++ {
			// pixels outside of the image are left as they were
			if x < b.Dx() && y < b.Dy() {
				o := img.PixOffset(b.Min.X+x, b.Min.Y+y)
				copy(dig.pixels[i:i+pixelDepth], img.Pix[o:o+pixelDepth])
			}
			i += pixelDepth
		}
	}

	dig.digest = xxhash.Sum64(dig.pixels)
	dig.frameNum++

	return nil
}

// Close implements the bus.Device interface. The final digest is logged.
func (dig *Video) Close() error {
	dig.crit.Lock()
	defer dig.crit.Unlock()
	logger.Logf(dig.perm, "digest", "%016x after %d frames", dig.digest, dig.frameNum)
	return nil
}
