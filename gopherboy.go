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

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/gopherboy/binder"
	"github.com/jetsetilly/gopherboy/cartridgeloader"
	"github.com/jetsetilly/gopherboy/devices"
	"github.com/jetsetilly/gopherboy/emulation"
	"github.com/jetsetilly/gopherboy/environment"
	"github.com/jetsetilly/gopherboy/hardware/bus"
	"github.com/jetsetilly/gopherboy/hardware/cartridge"
	"github.com/jetsetilly/gopherboy/hardware/rtc"
	"github.com/jetsetilly/gopherboy/logger"
	"github.com/jetsetilly/gopherboy/modalflag"
	"github.com/jetsetilly/gopherboy/plugins"
	"github.com/jetsetilly/gopherboy/preferences"
	"github.com/jetsetilly/gopherboy/prefs"
	"github.com/jetsetilly/gopherboy/session"
	"github.com/jetsetilly/gopherboy/statsview"
	"github.com/jetsetilly/gopherboy/version"
)

// exit values
const (
	exitOK         = 0
	exitParseError = 10
	exitModeError  = 20
)

func main() {
	os.Exit(launch(os.Stdout, os.Args[1:]))
}

// launch is separate from main() so that the deferred functions in the mode
// functions run before the program exits
func launch(output io.Writer, args []string) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("RUN", "INFO", "PLUGINS", "SAVE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitOK
	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitParseError
	}

	switch md.Mode() {
	case "RUN":
		err = run(output, md)
	case "INFO":
		err = info(output, md)
	case "PLUGINS":
		err = listPlugins(output, md)
	case "SAVE":
		err = saveInfo(output, md)
	case "VERSION":
		err = showVersion(output, md)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md, err)
		return exitModeError
	}

	return exitOK
}

// create the preferences, the environment and the plugin registry. the prefs
// argument is pushed onto the command line stack before the preferences are
// loaded
func setup(prefsOverride string) (*environment.Environment, *plugins.Registry, error) {
	if prefsOverride != "" {
		prefs.PushCommandLineStack(prefsOverride)
	}

	p, err := preferences.NewPreferences()
	if err != nil {
		return nil, nil, err
	}

	env, err := environment.NewEnvironment(environment.MainEmulation, p)
	if err != nil {
		return nil, nil, err
	}

	reg := plugins.NewRegistry()
	err = devices.Install(reg)
	if err != nil {
		return nil, nil, err
	}

	return env, reg, nil
}

func run(output io.Writer, md *modalflag.Modes) error {
	md.NewMode()

	log := md.AddBool("log", false, "echo debugging log to stdout")
	prefsOverride := md.AddString("prefs", "", "override preferences for this run (eg. \"plugins.audio::wav; devices.scale::3\")")
	duration := md.AddDuration("duration", 0, "run for a fixed length of time")
	speed := md.AddBool("speed", false, "print emulation speed every second")
	memvizFile := md.AddString("memviz", "", "write a graph of the session to the named file on exit")
	var stats *bool
	if statsview.Available() {
		stats = md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	}

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("ROM file required for %s mode", md)
	case 1:
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	if *log {
		logger.SetEcho(output, false)
	} else {
		logger.SetEcho(nil, false)
	}

	if stats != nil && *stats {
		statsview.Launch(output)
	}

	env, reg, err := setup(*prefsOverride)
	if err != nil {
		return err
	}

	b := bus.NewBus()
	s := session.NewSession(env, reg, b, emulation.NewEmulation(env, b))

	// failure to bind a device is not fatal. the slot is left empty
	err = s.Startup()
	if err != nil {
		fmt.Fprintf(output, "* %v\n", err)
	}

	err = s.LoadROM(md.GetArg(0))
	if err != nil {
		_ = s.Close()
		return err
	}

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	defer signal.Stop(intChan)

	var timeout <-chan time.Time
	if *duration > 0 {
		timeout = time.After(*duration)
	}

	var tick <-chan time.Time
	if *speed {
		t := time.NewTicker(time.Second)
		defer t.Stop()
		tick = t.C
	}

	done := false
	for !done {
		select {
		case <-intChan:
			fmt.Fprint(output, "\r")
			done = true
		case <-timeout:
			done = true
		case <-tick:
			fmt.Fprintf(output, "%s\n", s.SpeedText())
		}
	}

	if *memvizFile != "" {
		f, err := os.Create(*memvizFile)
		if err != nil {
			_ = s.Close()
			return err
		}
		memviz.Map(f, s)
		if err := f.Close(); err != nil {
			_ = s.Close()
			return err
		}
	}

	return s.Close()
}

func info(output io.Writer, md *modalflag.Modes) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) == 0 {
		return fmt.Errorf("ROM file required for %s mode", md)
	}

	for _, filename := range md.RemainingArgs() {
		cl := cartridgeloader.NewLoader(filename)
		if err := cl.Load(); err != nil {
			return err
		}

		h, err := cartridge.ParseHeader(cl.Data)
		if err != nil {
			return err
		}

		fmt.Fprintf(output, "%s\n", cl.Filename)
		if cl.Entry != "" {
			fmt.Fprintf(output, "  entry: %s\n", cl.Entry)
		}
		fmt.Fprintf(output, "  %s\n", h)
		fmt.Fprintf(output, "  sha1: %s\n", cl.Hash)
		if h.HasRAM && h.HasBattery {
			fmt.Fprintf(output, "  save file: %s\n", cl.SavePath())
		}
	}

	return nil
}

func listPlugins(output io.Writer, md *modalflag.Modes) error {
	md.NewMode()
	md.AdditionalHelp("With no arguments the available plugins are listed. With two arguments the\n" +
		"first is the slot (video, audio or input:n) and the second is the ID of the\n" +
		"plugin to select for that slot.")

	prefsOverride := md.AddString("prefs", "", "override preferences")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	env, reg, err := setup(*prefsOverride)
	if err != nil {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		for _, slot := range binder.AllSlots() {
			// mark the plugin that will actually be bound, which is not
			// always the stored selection
			sel, _ := env.Prefs.Selection(slot.String())
			active, _ := reg.ResolveOrFirst(slot.Kind, sel.String())
			fmt.Fprintf(output, "%s\n", slot)
			for _, d := range reg.OfKind(slot.Kind) {
				mark := " "
				if d.ID == active.ID {
					mark = "*"
				}
				fmt.Fprintf(output, " %s %-10s %s\n", mark, d.ID, d.Description)
			}
		}
		return nil

	case 2:
		slot, ok := binder.ParseSlot(md.GetArg(0))
		if !ok {
			return fmt.Errorf("unknown slot: %s", md.GetArg(0))
		}
		d, err := reg.Lookup(slot.Kind, md.GetArg(1))
		if err != nil {
			return err
		}
		sel, ok := env.Prefs.Selection(slot.String())
		if !ok {
			return fmt.Errorf("no preference for %s slot", slot)
		}
		if err := sel.Set(d.ID); err != nil {
			return err
		}
		if err := env.Prefs.Save(); err != nil {
			return err
		}
		fmt.Fprintf(output, "%s slot will use %s\n", slot, d.DisplayName)
		return nil
	}

	return fmt.Errorf("wrong number of arguments for %s mode", md)
}

func saveInfo(output io.Writer, md *modalflag.Modes) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("one ROM file required for %s mode", md)
	}

	cl := cartridgeloader.NewLoader(md.GetArg(0))
	if err := cl.Load(); err != nil {
		return err
	}

	h, err := cartridge.ParseHeader(cl.Data)
	if err != nil {
		return err
	}

	if !h.HasRAM || !h.HasBattery {
		fmt.Fprintf(output, "%s does not have battery backed RAM\n", cl.ShortName())
		return nil
	}

	expected := h.RAMSize
	if h.HasTimer {
		expected += rtc.BlockSize
	}

	pth := cl.SavePath()
	data, err := os.ReadFile(pth)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(output, "%s has not been created yet\n", pth)
			return nil
		}
		return err
	}

	fmt.Fprintf(output, "%s\n", pth)
	fmt.Fprintf(output, "  size: %d bytes (expected %d)\n", len(data), expected)

	if h.HasTimer && len(data) >= h.RAMSize+rtc.LegacyBlockSize {
		var st rtc.State
		if err := rtc.Decode(data[h.RAMSize:], &st); err != nil {
			return err
		}
		fmt.Fprintf(output, "  clock: %s\n", &st)
	}

	var used int
	for _, v := range data[:min(len(data), h.RAMSize)] {
		if v != 0x00 && v != 0xff {
			used++
		}
	}
	fmt.Fprintf(output, "  %d bytes of RAM in use\n", used)

	return nil
}

func showVersion(output io.Writer, md *modalflag.Modes) error {
	md.NewMode()

	revision := md.AddBool("revision", false, "display revision information from version control")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	v, r, _ := version.Version()
	fmt.Fprintf(output, "%s %s\n", version.ApplicationName, v)
	if *revision {
		fmt.Fprintf(output, "%s\n", r)
	}

	// build tags that change the features of the program
	var tags []string
	if statsview.Available() {
		tags = append(tags, "statsview")
	}
	if len(tags) > 0 {
		fmt.Fprintf(output, "built with: %s\n", strings.Join(tags, ", "))
	}

	return nil
}
