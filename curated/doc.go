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

// Package curated is a helper package for the plain Go language error type.
//
// Curated errors are created with Errorf(), which takes a formatting pattern
// and placeholder values in the same way as fmt.Errorf(). The pattern is
// remembered and can be tested for with Is() and Has():
//
//	e := curated.Errorf("savefile: io failure: %v", err)
//	if curated.Is(e, "savefile: io failure: %v") {
//		fmt.Println("true")
//	}
//
// Is() only matches the outermost error. Has() matches the pattern anywhere
// in the chain:
//
//	f := curated.Errorf("session: %v", e)
//	curated.Is(f, "savefile: io failure: %v")  // false
//	curated.Has(f, "savefile: io failure: %v") // true
//
// IsAny() answers whether an error was created by Errorf() at all. A curated
// error is an expected error; any other error is unexpected.
//
// The Error() function removes duplicate adjacent parts from the message,
// parts being separated by ": ". This means that a package can prefix its
// errors with its own name without worrying about whether the error it is
// wrapping already carries the same prefix:
//
//	savefile: savefile: io failure: disk full
//
// becomes
//
//	savefile: io failure: disk full
//
// Sentinel patterns are stored as const strings in the package that raises
// them. For example:
//
//	const IoFailure = "savefile: io failure: %v"
//
// Errors passed as values to Errorf() are returned by Unwrap(), so the
// standard library errors.Is() and errors.As() functions see through curated
// errors. For example, errors.Is(err, fs.ErrNotExist) is true for a curated
// error wrapping the result of a failed os.Open().
package curated
