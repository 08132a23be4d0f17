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

// Package cartridgeloader is used to specify the ROM that is to be inserted
// into the emulated Game Boy.
//
// When the cartridge is ready to be loaded into the emulator, the Load()
// function should be used. ROMs can be loaded from a plain file or from the
// first ROM found in a zip, gzip, 7z or RAR archive. Archives are recognised
// by the first bytes of the file rather than the file extension.
//
// The simplest instance of the Loader type:
//
//	cl := cartridgeloader.Loader{
//		Filename: "roms/Tetris.gb",
//	}
//
// It is preferred however that the NewLoader() function is used.
//
// ROMs must be between MinROMSize and MaxROMSize bytes long. ROMs outside of
// that range are rejected with the InvalidFormat error. Files that do not
// exist are rejected with the NotFound error.
package cartridgeloader
