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

package cartridgeloader

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jetsetilly/gopherboy/curated"
)

// Sentinal error patterns.
const (
	NotFound      = "cartridgeloader: not found: %v"
	InvalidFormat = "cartridgeloader: invalid format: %v"
	LoadFailure   = "cartridgeloader: %v"
)

// The size limits of a ROM.
const (
	MinROMSize = 512
	MaxROMSize = 8 * 1024 * 1024
)

// SaveExtension is the file extension of battery save files.
const SaveExtension = ".sav"

// Loader is used to specify the cartridge to insert into the emulation.
type Loader struct {
	// filename of cartridge to load. this can be an archive
	Filename string

	// name of the ROM inside an archive. for plain files this is the
	// basename of Filename
	Entry string

	// expected hash of the loaded cartridge. empty string indicates that the
	// hash is unknown and need not be validated. after a load operation the
	// value will be the hash of the loaded data
	Hash string

	// copy of the loaded data
	Data []byte
}

// NewLoader is the preferred method of initialisation for the Loader type.
func NewLoader(filename string) Loader {
	return Loader{
		Filename: filename,
	}
}

// ShortName returns a shortened version of the CartridgeLoader filename.
func (cl Loader) ShortName() string {
	shortCartName := filepath.Base(cl.Filename)
	shortCartName = strings.TrimSuffix(shortCartName, filepath.Ext(cl.Filename))
	return shortCartName
}

// SavePath returns the path of the battery save file for the cartridge. The
// save file is in the same directory as the ROM.
func (cl Loader) SavePath() string {
	return filepath.Join(filepath.Dir(cl.Filename), cl.ShortName()+SaveExtension)
}

// HasLoaded returns true if Load() has been successfully called.
func (cl Loader) HasLoaded() bool {
	return len(cl.Data) > 0
}

// Load the cartridge data. The Data field will be filled and the Hash field
// set.
//
// Returns NotFound if the file does not exist and InvalidFormat if the ROM is
// outside of the allowable size range.
func (cl *Loader) Load() error {
	if len(cl.Data) > 0 {
		return nil
	}

	f, err := os.Open(cl.Filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return curated.Errorf(NotFound, cl.Filename)
		}
		return curated.Errorf(LoadFailure, err)
	}
	defer f.Close()

	// get file info. not using Stat() on the file handle because the
	// windows version (when running under wine) does not handle that
	cfi, err := os.Stat(cl.Filename)
	if err != nil {
		return curated.Errorf(LoadFailure, err)
	}
	if cfi.IsDir() {
		return curated.Errorf(InvalidFormat, fmt.Sprintf("%s is a directory", cl.Filename))
	}

	header := make([]byte, 16)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return curated.Errorf(LoadFailure, err)
	}
	header = header[:n]

	var data []byte
	var entry string

	format := detectFormat(header)
	switch format {
	case formatRaw:
		// plain files are checked before reading so that very large files
		// are not read into memory unnecessarily
		if err := checkSize(cfi.Size()); err != nil {
			return err
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return curated.Errorf(LoadFailure, err)
		}
		data, err = limitedRead(f)
		entry = filepath.Base(cl.Filename)
	default:
		data, entry, err = extract(format, cl.Filename)
	}
	if err != nil {
		return err
	}

	if err := checkSize(int64(len(data))); err != nil {
		return err
	}

	// generate hash
	hash := fmt.Sprintf("%x", sha1.Sum(data))

	// check for hash consistency
	if cl.Hash != "" && cl.Hash != hash {
		return curated.Errorf(LoadFailure, "unexpected hash value")
	}

	cl.Hash = hash
	cl.Data = data
	cl.Entry = entry

	return nil
}

func checkSize(size int64) error {
	if size < MinROMSize || size > MaxROMSize {
		return curated.Errorf(InvalidFormat, fmt.Sprintf("ROM size of %d bytes is outside the range %d to %d", size, MinROMSize, MaxROMSize))
	}
	return nil
}
