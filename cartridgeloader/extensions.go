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
	"path/filepath"
	"slices"
	"strings"
)

// FileExtensions is the list of ROM file extensions that are recognised by the
// cartridgeloader package. ROM files inside archives must have one of these
// extensions.
var FileExtensions = [...]string{".GB", ".GBC", ".SGB"}

// ArchiveExtensions is the list of archive file extensions.
var ArchiveExtensions = [...]string{".ZIP", ".GZ", ".7Z", ".RAR"}

// IsROMFile returns true if the filename has one of the FileExtensions.
func IsROMFile(filename string) bool {
	return slices.Contains(FileExtensions[:], strings.ToUpper(filepath.Ext(filename)))
}

// IsArchiveFile returns true if the filename has one of the ArchiveExtensions.
func IsArchiveFile(filename string) bool {
	return slices.Contains(ArchiveExtensions[:], strings.ToUpper(filepath.Ext(filename)))
}
