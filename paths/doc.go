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

// Package paths contains functions to prepare paths to gopherboy resources.
//
// The ResourcePath() function returns the path to a resource file in the
// configuration directory. The configuration directory is created as required
// but the resource file itself is not touched. For example, the path to the
// preferences file:
//
//	p, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
//
// For builds with the "release" build tag the configuration directory is in
// the user's configuration directory, as returned by os.UserConfigDir(). On a
// modern Linux system the path returned in the example would be:
//
//	/home/user/.config/gopherboy/preferences
//
// For other builds the configuration directory is in the current working
// directory, which is more convenient during development:
//
//	.gopherboy/preferences
package paths
