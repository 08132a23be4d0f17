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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a convenient method of handling program modes (and
// sub-modes) and allows different flags for each mode.
//
// At it's simplest it can be used as a replacement for the flag package, with
// some differences. Instead of defining flags globally, flags are added to a
// Modes value with the Add*() functions:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	log := md.AddBool("log", false, "echo log to stdout")
//
//	p, err := md.Parse()
//	switch p {
//	case modalflag.ParseHelp:
//		return
//	case modalflag.ParseError:
//		fmt.Printf("* error: %v\n", err)
//		os.Exit(10)
//	}
//
// Modes are added with AddSubModes(). The first mode in the list is the
// default mode and is selected if the first non-flag argument is not a listed
// mode:
//
//	md.NewMode()
//	md.AddSubModes("RUN", "INFO")
//	p, _ = md.Parse()
//
//	switch md.Mode() {
//	case "RUN":
//		...
//	}
//
// Flags for the selected mode are then added after a call to NewMode() and a
// further call to Parse(). Parsing continues from where the previous call to
// Parse() stopped.
//
// Mode names are case insensitive. The value returned by Mode() is always
// upper case.
//
// The help flag (-help or -h) is handled automatically for each mode. The
// help message lists the flags and the available sub-modes.
package modalflag
