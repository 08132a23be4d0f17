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

package cartridge

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/gopherboy/curated"
)

// InvalidHeader is returned by NewCartridge() if the ROM header cannot be
// parsed.
const InvalidHeader = "cartridge: invalid header: %v"

// header addresses
const (
	addrTitle          = 0x0134
	addrTitleEnd       = 0x0144
	addrCGBFlag        = 0x0143
	addrSGBFlag        = 0x0146
	addrType           = 0x0147
	addrROMSize        = 0x0148
	addrRAMSize        = 0x0149
	addrHeaderChecksum = 0x014d
	headerEnd          = 0x0150
)

// the built-in RAM of MBC2 cartridges. each byte holds only four bits but the
// save file stores one byte per location
const mbc2RAMSize = 512

// Header is the information in the ROM header that describes the cartridge
// hardware.
type Header struct {
	Title    string
	Type     uint8
	TypeName string

	ROMSize int
	RAMSize int

	HasRAM     bool
	HasBattery bool
	HasTimer   bool

	CGB bool
	SGB bool

	HeaderChecksum uint8
	ChecksumOK     bool
}

func (h Header) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s [%s]", h.Title, h.TypeName))
	s.WriteString(fmt.Sprintf(" ROM %dk", h.ROMSize/1024))
	if h.HasRAM {
		if h.RAMSize < 1024 {
			s.WriteString(fmt.Sprintf(" RAM %d", h.RAMSize))
		} else {
			s.WriteString(fmt.Sprintf(" RAM %dk", h.RAMSize/1024))
		}
	}
	if h.HasBattery {
		s.WriteString(" battery")
	}
	if h.HasTimer {
		s.WriteString(" timer")
	}
	if !h.ChecksumOK {
		s.WriteString(" (bad header checksum)")
	}
	return s.String()
}

// features of each cartridge type
type cartType struct {
	name    string
	ram     bool
	battery bool
	timer   bool
}

var cartTypes = map[uint8]cartType{
	0x00: {name: "ROM ONLY"},
	0x01: {name: "MBC1"},
	0x02: {name: "MBC1+RAM", ram: true},
	0x03: {name: "MBC1+RAM+BATTERY", ram: true, battery: true},
	0x05: {name: "MBC2", ram: true},
	0x06: {name: "MBC2+BATTERY", ram: true, battery: true},
	0x08: {name: "ROM+RAM", ram: true},
	0x09: {name: "ROM+RAM+BATTERY", ram: true, battery: true},
	0x0b: {name: "MMM01"},
	0x0c: {name: "MMM01+RAM", ram: true},
	0x0d: {name: "MMM01+RAM+BATTERY", ram: true, battery: true},
	0x0f: {name: "MBC3+TIMER+BATTERY", battery: true, timer: true},
	0x10: {name: "MBC3+TIMER+RAM+BATTERY", ram: true, battery: true, timer: true},
	0x11: {name: "MBC3"},
	0x12: {name: "MBC3+RAM", ram: true},
	0x13: {name: "MBC3+RAM+BATTERY", ram: true, battery: true},
	0x19: {name: "MBC5"},
	0x1a: {name: "MBC5+RAM", ram: true},
	0x1b: {name: "MBC5+RAM+BATTERY", ram: true, battery: true},
	0x1c: {name: "MBC5+RUMBLE"},
	0x1d: {name: "MBC5+RUMBLE+RAM", ram: true},
	0x1e: {name: "MBC5+RUMBLE+RAM+BATTERY", ram: true, battery: true},
	0x20: {name: "MBC6", ram: true, battery: true},
	0x22: {name: "MBC7+SENSOR+RUMBLE+RAM+BATTERY", ram: true, battery: true},
	0xfc: {name: "POCKET CAMERA", ram: true, battery: true},
	0xfd: {name: "BANDAI TAMA5", ram: true, battery: true},
	0xfe: {name: "HuC3", ram: true, battery: true, timer: true},
	0xff: {name: "HuC1+RAM+BATTERY", ram: true, battery: true},
}

// external RAM size codes
var ramSizes = map[uint8]int{
	0x00: 0,
	0x01: 2 * 1024,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// ParseHeader reads the cartridge header from the ROM data.
func ParseHeader(data []byte) (Header, error) {
	var h Header

	if len(data) < headerEnd {
		return h, curated.Errorf(InvalidHeader, fmt.Sprintf("ROM too short (%d bytes)", len(data)))
	}

	h.CGB = data[addrCGBFlag]&0x80 == 0x80
	h.SGB = data[addrSGBFlag] == 0x03

	// the last byte of the title area is the CGB flag on colour cartridges
	end := addrTitleEnd
	if h.CGB {
		end = addrCGBFlag
	}
	h.Title = strings.TrimSpace(strings.TrimRight(string(data[addrTitle:end]), "\x00"))

	h.Type = data[addrType]
	ct, ok := cartTypes[h.Type]
	if !ok {
		return h, curated.Errorf(InvalidHeader, fmt.Sprintf("unknown cartridge type (%#02x)", h.Type))
	}
	h.TypeName = ct.name
	h.HasBattery = ct.battery
	h.HasTimer = ct.timer

	if data[addrROMSize] > 0x08 {
		return h, curated.Errorf(InvalidHeader, fmt.Sprintf("unknown ROM size (%#02x)", data[addrROMSize]))
	}
	h.ROMSize = (32 * 1024) << data[addrROMSize]

	switch {
	case h.Type == 0x05 || h.Type == 0x06:
		h.RAMSize = mbc2RAMSize
	case ct.ram:
		sz, ok := ramSizes[data[addrRAMSize]]
		if !ok {
			return h, curated.Errorf(InvalidHeader, fmt.Sprintf("unknown RAM size (%#02x)", data[addrRAMSize]))
		}
		h.RAMSize = sz
	}
	h.HasRAM = h.RAMSize > 0

	var sum uint8
	for _, b := range data[addrTitle:addrHeaderChecksum] {
		sum = sum - b - 1
	}
	h.HeaderChecksum = data[addrHeaderChecksum]
	h.ChecksumOK = sum == h.HeaderChecksum

	return h, nil
}
