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

package plugins

import (
	"fmt"
	"sync"

	"github.com/jetsetilly/gopherboy/curated"
	"github.com/jetsetilly/gopherboy/environment"
	"github.com/jetsetilly/gopherboy/hardware/bus"
)

// Sentinal error patterns.
const (
	NotFound          = "plugins: not found: %s plugin %q"
	InvalidDescriptor = "plugins: invalid descriptor: %v"
)

// Kind is the type of device a plugin creates.
type Kind int

// List of valid Kind values.
const (
	Input Kind = iota
	Video
	Audio
)

func (k Kind) String() string {
	switch k {
	case Input:
		return "input"
	case Video:
		return "video"
	case Audio:
		return "audio"
	}
	return "unknown"
}

// Surface is the information shared by all output devices.
type Surface struct {
	// scale factor for devices that produce images
	Scale int

	// directory for devices that produce files
	OutputDir string

	// network address for devices that serve their output
	Addr string
}

// Context is passed to the Factory when a device is created.
type Context struct {
	Env *environment.Environment

	// the port number for input devices. always zero for output devices
	Port int

	Surface Surface
}

// Factory creates a new device instance. The type of the returned device
// should be appropriate for the Kind of the plugin.
type Factory func(ctx Context) (bus.Device, error)

// Descriptor describes a plugin. Descriptors are immutable once installed.
type Descriptor struct {
	Kind Kind

	// stable identifier for the plugin. it is used to store the choice of
	// plugin in the preferences file
	ID string

	DisplayName string
	Description string

	Factory Factory
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s:%s", d.Kind, d.ID)
}

// Registry is the list of available plugins. Plugins are listed in the order
// they were installed.
type Registry struct {
	crit        sync.RWMutex
	descriptors []Descriptor
}

// NewRegistry is the preferred method of initialisation for the Registry type.
func NewRegistry() *Registry {
	return &Registry{}
}

// Install adds a plugin to the registry. An ID must be unique for the Kind.
func (reg *Registry) Install(d Descriptor) error {
	if d.ID == "" {
		return curated.Errorf(InvalidDescriptor, "empty ID")
	}
	if d.Factory == nil {
		return curated.Errorf(InvalidDescriptor, fmt.Sprintf("%s has no factory", d))
	}
	if d.DisplayName == "" {
		d.DisplayName = d.ID
	}

	reg.crit.Lock()
	defer reg.crit.Unlock()

	for _, e := range reg.descriptors {
		if e.Kind == d.Kind && e.ID == d.ID {
			return curated.Errorf(InvalidDescriptor, fmt.Sprintf("%s is already installed", d))
		}
	}

	reg.descriptors = append(reg.descriptors, d)

	return nil
}

// Enumerate returns every installed plugin in the order of installation. The
// returned slice is a copy and can be modified by the caller.
func (reg *Registry) Enumerate() []Descriptor {
	reg.crit.RLock()
	defer reg.crit.RUnlock()
	d := make([]Descriptor, len(reg.descriptors))
	copy(d, reg.descriptors)
	return d
}

// OfKind returns every installed plugin of the Kind in the order of
// installation.
func (reg *Registry) OfKind(kind Kind) []Descriptor {
	reg.crit.RLock()
	defer reg.crit.RUnlock()
	var d []Descriptor
	for _, e := range reg.descriptors {
		if e.Kind == kind {
			d = append(d, e)
		}
	}
	return d
}

// Resolve returns the first plugin of the Kind with the ID.
func (reg *Registry) Resolve(kind Kind, id string) (Descriptor, bool) {
	reg.crit.RLock()
	defer reg.crit.RUnlock()
	for _, e := range reg.descriptors {
		if e.Kind == kind && e.ID == id {
			return e, true
		}
	}
	return Descriptor{}, false
}

// Lookup is the same as Resolve() except that it returns the NotFound error if
// there is no plugin with the ID.
func (reg *Registry) Lookup(kind Kind, id string) (Descriptor, error) {
	d, ok := reg.Resolve(kind, id)
	if !ok {
		return d, curated.Errorf(NotFound, kind, id)
	}
	return d, nil
}

// FirstOf returns the first installed plugin of the Kind.
func (reg *Registry) FirstOf(kind Kind) (Descriptor, bool) {
	reg.crit.RLock()
	defer reg.crit.RUnlock()
	for _, e := range reg.descriptors {
		if e.Kind == kind {
			return e, true
		}
	}
	return Descriptor{}, false
}

// ResolveOrFirst returns the plugin of the Kind with the ID. If there is no
// such plugin then the first plugin of the Kind is returned instead.
//
// An ID that does not resolve is not an error. IDs are stored in the
// preferences file and may refer to a plugin that no longer exists.
func (reg *Registry) ResolveOrFirst(kind Kind, id string) (Descriptor, bool) {
	if d, ok := reg.Resolve(kind, id); ok {
		return d, true
	}
	return reg.FirstOf(kind)
}
