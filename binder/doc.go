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

// Package binder attaches devices created by plugins to the device bus.
//
// Each slot (video, audio and each joypad port) holds at most one device.
// Switching a slot is a single sequence: the current device is detached and
// then closed, the new device is created, attached and recorded. The sink
// never holds a device that has been closed.
//
// The Binder does not write to the preferences file. The caller should store
// the ID of the new plugin once Switch() has succeeded.
package binder
