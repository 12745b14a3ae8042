// Copyright (C) 2024 The lc3vm Authors

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/brennareid/lc3vm/internal/term"
	"github.com/brennareid/lc3vm/pkg/loader"
	"github.com/brennareid/lc3vm/pkg/machine"
	"github.com/brennareid/lc3vm/pkg/trap"
)

var helpvar bool

const usage = "lc3vm image-file ..."

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
}

func lc3vm() int {
	if helpvar {
		fmt.Println(usage)
		return 0
	}

	paths := flag.Args()

	if len(paths) == 0 {
		log.Println(usage)
		return 2
	}

	var mc machine.Machine
	mc.Reset()
	mc.Traps = trap.Handler{Notices: func(s string) { fmt.Print(s) }}

	for _, path := range paths {
		if err := loadImage(&mc, path); err != nil {
			log.Println(err)
			return 1
		}
	}

	raw := term.New(term.StdinFd())
	display := bufio.NewWriter(os.Stdout)
	mc.Devices = &machine.DeviceHandler{
		Keyboard: term.NewKeyboard(raw, os.Stdin),
		Display:  display,
	}

	if err := raw.EnableRaw(); err != nil {
		log.Println(err)
		return 1
	}
	defer raw.Restore()
	defer display.Flush()

	drainPendingInput(raw, os.Stdin)

	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt)
	defer signal.Stop(interrupted)

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-interrupted:
			raw.Restore()
			fmt.Println()
			os.Exit(1)
		case <-done:
		}
	}()

	for !mc.Halted() {
		if err := mc.Step(); err != nil {
			log.Println(err)
			return 1
		}
	}

	return 0
}

func loadImage(mc *machine.Machine, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	if err := loader.Load(mc, file); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	return nil
}

// drainPendingInput discards bytes that arrived before raw mode took
// effect, so a keypress during loading doesn't surface as a stray
// GETC later. Input that is not a terminal is left untouched.
func drainPendingInput(raw term.Raw, r *os.File) {
	if fi, err := r.Stat(); err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		return
	}

	buf := make([]byte, 64)
	for raw.PollInput() {
		n, err := r.Read(buf)
		if n == 0 || err != nil {
			return
		}
	}
}

func main() {
	flag.Parse()
	os.Exit(lc3vm())
}
