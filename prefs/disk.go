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

package prefs

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/jetsetilly/gopherboy/curated"
)

// DefaultPrefsFile is the default filename of the global preferences file.
const DefaultPrefsFile = "preferences"

// WarningBoilerPlate is written as the first line of every preferences file.
// Files without this line are not loaded.
const WarningBoilerPlate = "*** do not edit this file by hand ***"

// separator between key and value in the preferences file
const separator = " :: "

// Sentinel error patterns.
const (
	NoPrefsFile    = "prefs: no prefs file (%s)"
	NotAPrefsFile  = "prefs: not a prefs file (%s)"
	DuplicateKey   = "prefs: duplicate key (%s)"
	InvalidKey     = "prefs: invalid key (%s)"
	DiskFailure    = "prefs: %v"
	InvalidPrefVal = "prefs: %s: %v"
)

// Disk represents preference values as stored on disk. Any number of
// Disk instances can share the same file. Values in the file that are not
// part of the Disk instance are preserved when the instance is saved.
type Disk struct {
	crit    sync.Mutex
	path    string
	entries map[string]pref
}

// NewDisk is the preferred method of initialisation for the Disk type. The
// file is not touched until Load() or Save() is called.
func NewDisk(path string) (*Disk, error) {
	if path == "" {
		return nil, curated.Errorf(DiskFailure, "empty path for prefs file")
	}
	return &Disk{
		path:    path,
		entries: make(map[string]pref),
	}, nil
}

// Path returns the filename of the preferences file.
func (dsk *Disk) Path() string {
	return dsk.path
}

// Add preference value to list of values to store/load from Disk. The key
// value is used to identify the value in the file and must not contain the
// separator or any white space.
func (dsk *Disk) Add(key string, p pref) error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	if key == "" || strings.ContainsAny(key, " \t\n") || strings.Contains(key, strings.TrimSpace(separator)) {
		return curated.Errorf(InvalidKey, key)
	}
	if _, ok := dsk.entries[key]; ok {
		return curated.Errorf(DuplicateKey, key)
	}
	dsk.entries[key] = p

	return nil
}

// Reset all preference values to their zero value.
func (dsk *Disk) Reset() error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	for k, p := range dsk.entries {
		if err := p.Reset(); err != nil {
			return curated.Errorf(InvalidPrefVal, k, err)
		}
	}

	return nil
}

func (dsk *Disk) String() string {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	s := strings.Builder{}
	for _, k := range dsk.keys() {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, separator, dsk.entries[k].String()))
	}
	return s.String()
}

// sorted list of keys. must be called from inside the critical section
func (dsk *Disk) keys() []string {
	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Save current preference values to disk. Values in the file that do not
// belong to this Disk are preserved.
func (dsk *Disk) Save() error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	values, err := load(dsk.path)
	if err != nil && !curated.Is(err, NoPrefsFile) {
		return err
	}
	if values == nil {
		values = make(map[string]string)
	}

	for k, p := range dsk.entries {
		values[k] = p.String()
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	s.WriteString(WarningBoilerPlate)
	s.WriteString("\n")
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, separator, values[k]))
	}

	// write to a temporary file in the same directory and then rename. a
	// crash during the write will not destroy the existing preferences
	if err := os.MkdirAll(filepath.Dir(dsk.path), 0o700); err != nil {
		return curated.Errorf(DiskFailure, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dsk.path), filepath.Base(dsk.path)+".*")
	if err != nil {
		return curated.Errorf(DiskFailure, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(s.String()); err != nil {
		tmp.Close()
		return curated.Errorf(DiskFailure, err)
	}
	if err := tmp.Close(); err != nil {
		return curated.Errorf(DiskFailure, err)
	}
	if err := os.Rename(tmp.Name(), dsk.path); err != nil {
		return curated.Errorf(DiskFailure, err)
	}

	return nil
}

// Load preference values from disk. If saveOnFirstUse is true and the file
// does not exist then the current values are saved, creating the file.
//
// Values on the top of the command line stack (see PushCommandLineStack())
// override values from the file, whether the file exists or not. The
// NoPrefsFile error is still returned if the file did not exist.
func (dsk *Disk) Load(saveOnFirstUse bool) error {
	values, loadErr := load(dsk.path)
	if loadErr != nil && !curated.Is(loadErr, NoPrefsFile) {
		return loadErr
	}

	dsk.crit.Lock()
	for k, v := range values {
		if p, ok := dsk.entries[k]; ok {
			if err := p.Set(v); err != nil {
				dsk.crit.Unlock()
				return curated.Errorf(InvalidPrefVal, k, err)
			}
		}
	}
	dsk.crit.Unlock()

	if loadErr != nil && saveOnFirstUse {
		if err := dsk.Save(); err != nil {
			return err
		}
	}

	dsk.crit.Lock()
	defer dsk.crit.Unlock()
	for _, k := range dsk.keys() {
		if ok, v := GetCommandLinePref(k); ok {
			if err := dsk.entries[k].Set(v); err != nil {
				return curated.Errorf(InvalidPrefVal, k, err)
			}
		}
	}

	return loadErr
}

// load reads every key/value pair in the file
func load(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, curated.Errorf(NoPrefsFile, path)
		}
		return nil, curated.Errorf(DiskFailure, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	// check validity of file by checking the first line
	if !scanner.Scan() || scanner.Text() != WarningBoilerPlate {
		return nil, curated.Errorf(NotAPrefsFile, path)
	}

	values := make(map[string]string)
	for scanner.Scan() {
		k, v, ok := strings.Cut(scanner.Text(), separator)
		if !ok {
			continue
		}
		values[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	if err := scanner.Err(); err != nil {
		return nil, curated.Errorf(DiskFailure, err)
	}

	return values, nil
}
