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

// Package plugins is the registry of device implementations. Each plugin is
// described by a Descriptor which carries a Factory function that creates
// the device.
//
// Plugins are installed once, when the program starts, and the registry is
// read-only after that. The order of installation is significant: the first
// plugin of a Kind is the default when the preferred plugin cannot be found.
package plugins
