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

package prefs_test

import (
	"testing"

	"github.com/jetsetilly/gopherboy/prefs"
	"github.com/jetsetilly/gopherboy/test"
)

func TestCommandLineStackValues(t *testing.T) {
	// empty on start
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")

	// single value
	prefs.PushCommandLineStack("plugins.video::png")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "plugins.video::png")

	// single value but with additional space
	prefs.PushCommandLineStack("   plugins.video:: png ")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "plugins.video::png")

	// more than one key/value in the prefs string. the remaining string will
	// be sorted
	prefs.PushCommandLineStack("plugins.video::png; plugins.audio::wav")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "plugins.audio::wav; plugins.video::png")

	// invalid prefs string
	prefs.PushCommandLineStack("plugins.video_png")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")

	// partially invalid prefs string
	prefs.PushCommandLineStack("plugins.video_png;plugins.audio::wav")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "plugins.audio::wav")

	// get value that doesn't exist after pushing a partially invalid string
	prefs.PushCommandLineStack("plugins.video::png;plugins.audio_wav")
	ok, _ := prefs.GetCommandLinePref("plugins.audio")
	test.ExpectFailure(t, ok)

	// getting a value removes it from the group
	ok, v := prefs.GetCommandLinePref("plugins.video")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, prefs.Value("png"))
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")
}

func TestCommandLineStack(t *testing.T) {
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 0)

	prefs.PushCommandLineStack("foo::bar")
	prefs.PushCommandLineStack("baz::qux")
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 2)

	// only the top group is consulted
	ok, _ := prefs.GetCommandLinePref("foo")
	test.ExpectFailure(t, ok)

	test.ExpectEquality(t, prefs.PopCommandLineStack(), "baz::qux")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "foo::bar")
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 0)
}
