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

// Package pngsnap is a video renderer that saves the emulated screen as a PNG
// file. A snapshot is taken on request and when the device is closed.
//
// The image is scaled with nearest neighbour scaling so that the pixels of the
// original screen remain sharp.
package pngsnap

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/jetsetilly/gopherboy/curated"
	"github.com/jetsetilly/gopherboy/hardware/bus"
	"github.com/jetsetilly/gopherboy/logger"
	"github.com/jetsetilly/gopherboy/paths"
	"github.com/jetsetilly/gopherboy/plugins"
	"golang.org/x/image/draw"
)

// ID of the PNG plugin.
const ID = "png"

// Sentinal error patterns.
const (
	SnapshotFailed = "pngsnap: %v"
	NoFrame        = "pngsnap: no frame to save"
)

// Plugin describes the PNG renderer.
var Plugin = plugins.Descriptor{
	Kind:        plugins.Video,
	ID:          ID,
	DisplayName: "PNG snapshot",
	Description: "save the screen as a PNG file when closed",
	Factory: func(ctx plugins.Context) (bus.Device, error) {
		snp, err := NewSnapshot(ctx.Surface.OutputDir, ctx.Surface.Scale)
		if err != nil {
			return nil, err
		}
		if ctx.Env != nil {
			snp.perm = ctx.Env
		}
		return snp, nil
	},
}

// Snapshot implements the bus.VideoRenderer interface.
type Snapshot struct {
	crit sync.Mutex
	perm logger.Permission

	dir   string
	scale int

	// copy of the most recent frame. nil if no frame has been seen since the
	// last resize
	frame *image.RGBA
}

// NewSnapshot is the preferred method of initialisation for the Snapshot type.
// Files are written to dir, or the current directory if dir is empty. Scale
// values less than one are treated as one.
func NewSnapshot(dir string, scale int) (*Snapshot, error) {
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, curated.Errorf(SnapshotFailed, err)
		}
		if !info.IsDir() {
			return nil, curated.Errorf(SnapshotFailed, fmt.Sprintf("%s is not a directory", dir))
		}
	}
	return &Snapshot{
		perm:  logger.Allow,
		dir:   dir,
		scale: max(scale, 1),
	}, nil
}

// Resize implements the bus.VideoRenderer interface.
func (snp *Snapshot) Resize(width, height int) error {
	snp.crit.Lock()
	defer snp.crit.Unlock()
	snp.frame = nil
	return nil
}

// NewFrame implements the bus.VideoRenderer interface.
func (snp *Snapshot) NewFrame(img *image.RGBA) error {
	snp.crit.Lock()
	defer snp.crit.Unlock()

	b := img.Bounds()
	if snp.frame == nil || snp.frame.Bounds().Size() != b.Size() {
		snp.frame = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	draw.Draw(snp.frame, snp.frame.Bounds(), img, b.Min, draw.Src)

	return nil
}

// Save the most recent frame to a new file. Returns the name of the file.
func (snp *Snapshot) Save() (string, error) {
	snp.crit.Lock()
	defer snp.crit.Unlock()
	return snp.save()
}

func (snp *Snapshot) save() (string, error) {
	if snp.frame == nil {
		return "", curated.Errorf(NoFrame)
	}

	src := snp.frame.Bounds()
	scaled := image.NewRGBA(image.Rect(0, 0, src.Dx()*snp.scale, src.Dy()*snp.scale))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), snp.frame, src, draw.Src, nil)

	name := snp.filename()
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", curated.Errorf(SnapshotFailed, err)
	}

	err = png.Encode(f, scaled)
	if err != nil {
		_ = f.Close()
		return "", curated.Errorf(SnapshotFailed, err)
	}

	err = f.Close()
	if err != nil {
		return "", curated.Errorf(SnapshotFailed, err)
	}

	logger.Logf(snp.perm, "pngsnap", "saved to %s", name)

	return name, nil
}

// unique filenames have a resolution of one second. a sequence number is
// added if a file already exists with the same name
func (snp *Snapshot) filename() string {
	base := filepath.Join(snp.dir, paths.UniqueFilename("snapshot", ""))
	name := base + ".png"
	for n := 1; ; n++ {
		if _, err := os.Stat(name); os.IsNotExist(err) {
			return name
		}
		name = fmt.Sprintf("%s_%d.png", base, n)
	}
}

// Close implements the bus.Device interface. The most recent frame is saved
// if there is one.
func (snp *Snapshot) Close() error {
	snp.crit.Lock()
	defer snp.crit.Unlock()
	if snp.frame == nil {
		return nil
	}
	_, err := snp.save()
	snp.frame = nil
	return err
}
