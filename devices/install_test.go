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

package devices_test

import (
	"testing"

	"github.com/jetsetilly/gopherboy/curated"
	"github.com/jetsetilly/gopherboy/devices"
	"github.com/jetsetilly/gopherboy/devices/null"
	"github.com/jetsetilly/gopherboy/plugins"
	"github.com/jetsetilly/gopherboy/test"
)

func TestInstall(t *testing.T) {
	reg := plugins.NewRegistry()
	test.DemandSuccess(t, devices.Install(reg))

	for _, k := range []plugins.Kind{plugins.Video, plugins.Audio, plugins.Input} {
		d, ok := reg.FirstOf(k)
		test.DemandSuccess(t, ok, k)
		test.ExpectEquality(t, d.ID, null.ID, k)
	}

	expected := map[plugins.Kind][]string{
		plugins.Video: {"none", "digest", "png", "websocket"},
		plugins.Audio: {"none", "wav", "oto", "sdl"},
		plugins.Input: {"none", "terminal"},
	}
	for k, ids := range expected {
		var got []string
		for _, d := range reg.OfKind(k) {
			got = append(got, d.ID)
		}
		test.ExpectEquality(t, len(got), len(ids), k)
		for i := range min(len(got), len(ids)) {
			test.ExpectEquality(t, got[i], ids[i], k)
		}
	}

	// installing a second time fails because the IDs are already in use
	err := devices.Install(reg)
	test.ExpectSuccess(t, curated.Is(err, plugins.InvalidDescriptor))
}

func TestNullDevices(t *testing.T) {
	reg := plugins.NewRegistry()
	test.DemandSuccess(t, devices.Install(reg))

	for _, k := range []plugins.Kind{plugins.Video, plugins.Audio, plugins.Input} {
		d, err := reg.Lookup(k, null.ID)
		test.DemandSuccess(t, err)
		dev, err := d.Factory(plugins.Context{})
		test.DemandSuccess(t, err)
		test.ExpectSuccess(t, dev.Close())
	}
}
