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
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/jetsetilly/gopherboy/curated"
	"github.com/nwaples/rardecode/v2"
)

// magic bytes at the start of each archive format
var (
	magicZIP      = []byte{0x50, 0x4b, 0x03, 0x04}
	magicZIPEmpty = []byte{0x50, 0x4b, 0x05, 0x06}
	magic7z       = []byte{0x37, 0x7a, 0xbc, 0xaf, 0x27, 0x1c}
	magicGzip     = []byte{0x1f, 0x8b}
	magicRAR      = []byte("Rar!")
)

type format int

const (
	formatRaw format = iota
	formatZIP
	format7z
	formatGzip
	formatRAR
)

func (f format) String() string {
	switch f {
	case formatZIP:
		return "zip"
	case format7z:
		return "7z"
	case formatGzip:
		return "gzip"
	case formatRAR:
		return "rar"
	}
	return "raw"
}

// detectFormat uses the magic bytes at the start of the file. anything that
// is not a recognised archive is a raw ROM
func detectFormat(header []byte) format {
	switch {
	case bytes.HasPrefix(header, magicZIP) || bytes.HasPrefix(header, magicZIPEmpty):
		return formatZIP
	case bytes.HasPrefix(header, magic7z):
		return format7z
	case bytes.HasPrefix(header, magicRAR):
		return formatRAR
	case bytes.HasPrefix(header, magicGzip):
		return formatGzip
	}
	return formatRaw
}

// limitedRead reads no more than one byte past MaxROMSize. the size check
// that follows will reject the data if it is too long
func limitedRead(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxROMSize+1))
	if err != nil {
		return nil, curated.Errorf(LoadFailure, err)
	}
	return data, nil
}

// extract the first ROM file from the archive. returns the data and the name
// of the archive entry
func extract(f format, filename string) ([]byte, string, error) {
	var data []byte
	var entry string
	var err error

	switch f {
	case formatZIP:
		data, entry, err = extractZIP(filename)
	case format7z:
		data, entry, err = extract7z(filename)
	case formatGzip:
		data, entry, err = extractGzip(filename)
	case formatRAR:
		data, entry, err = extractRAR(filename)
	default:
		return nil, "", curated.Errorf(InvalidFormat, fmt.Sprintf("unsupported archive (%s)", f))
	}

	if err != nil {
		if curated.IsAny(err) {
			return nil, "", err
		}
		return nil, "", curated.Errorf(InvalidFormat, fmt.Sprintf("%s archive: %v", f, err))
	}
	if entry == "" {
		return nil, "", curated.Errorf(NotFound, fmt.Sprintf("no ROM in %s archive %s", f, filename))
	}

	return data, entry, nil
}

func extractZIP(filename string) ([]byte, string, error) {
	r, err := zip.OpenReader(filename)
	if err != nil {
		return nil, "", err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !IsROMFile(f.Name) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, "", err
		}
		defer rc.Close()

		data, err := limitedRead(rc)
		return data, filepath.Base(f.Name), err
	}

	return nil, "", nil
}

func extract7z(filename string) ([]byte, string, error) {
	r, err := sevenzip.OpenReader(filename)
	if err != nil {
		return nil, "", err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !IsROMFile(f.Name) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, "", err
		}
		defer rc.Close()

		data, err := limitedRead(rc)
		return data, filepath.Base(f.Name), err
	}

	return nil, "", nil
}

func extractRAR(filename string) ([]byte, string, error) {
	r, err := rardecode.OpenReader(filename)
	if err != nil {
		return nil, "", err
	}
	defer r.Close()

	for {
		hdr, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", err
		}
		if hdr.IsDir || !IsROMFile(hdr.Name) {
			continue
		}

		data, err := limitedRead(r)
		return data, filepath.Base(hdr.Name), err
	}

	return nil, "", nil
}

// a gzip file holds a single file. the name of the ROM is taken from the
// gzip header if it is present, otherwise from the archive filename
func extractGzip(filename string) ([]byte, string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, "", err
	}
	defer gr.Close()

	data, err := limitedRead(gr)
	if err != nil {
		return nil, "", err
	}

	entry := gr.Name
	if entry == "" {
		entry = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}

	return data, filepath.Base(entry), nil
}
