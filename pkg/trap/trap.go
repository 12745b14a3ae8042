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

// Package trap implements the six LC-3 system calls: console
// character and string I/O, and the HALT that stops the fetch loop.
// A Handler is stateless; it reads and writes through the Machine
// passed to Dispatch, except for the halt notice, which goes to
// Handler.Notices.
package trap

import (
	"fmt"

	"github.com/brennareid/lc3vm/pkg/machine"
)

// Handler dispatches TRAP vectors for a Machine.
type Handler struct {
	// Notices receives the halt message on TRAP_HALT. A nil Notices
	// suppresses the message entirely.
	Notices func(string)
}

type flusher interface {
	Flush() error
}

func (h Handler) Dispatch(mc *machine.Machine, vector uint16) error {
	switch vector {
	case machine.TRAP_GETC:
		return h.getc(mc)
	case machine.TRAP_OUT:
		return h.out(mc)
	case machine.TRAP_PUTS:
		return h.puts(mc)
	case machine.TRAP_IN:
		return h.in(mc)
	case machine.TRAP_PUTSP:
		return h.putsp(mc)
	case machine.TRAP_HALT:
		return h.halt(mc)
	}

	pc := mc.State.Registers[7] - 1
	return &machine.FatalError{
		PC:          pc,
		Instruction: mc.Read(pc),
		Reason:      fmt.Sprintf("unrecognized trap vector %#02x", vector),
	}
}

// getc reads one byte from the keyboard device, unechoed, into R0.
func (h Handler) getc(mc *machine.Machine) error {
	b, err := h.readByte(mc)
	if err != nil {
		return fmt.Errorf("GETC: %w", err)
	}

	mc.State.Registers[0] = uint16(b)
	mc.UpdateFlags(0)
	return nil
}

// out writes the low byte of R0 to the display.
func (h Handler) out(mc *machine.Machine) error {
	return h.write(mc, []byte{byte(mc.State.Registers[0] & 0xFF)})
}

// puts emits the low byte of each word starting at the address in R0
// until a zero word.
func (h Handler) puts(mc *machine.Machine) error {
	var out []byte

	for addr := mc.State.Registers[0]; ; addr++ {
		value := mc.Read(addr)
		if value == 0 {
			break
		}

		out = append(out, byte(value&0xFF))
	}

	return h.write(mc, out)
}

// in prompts the user, reads and echoes one byte into R0.
func (h Handler) in(mc *machine.Machine) error {
	if err := h.write(mc, []byte("Enter a character: ")); err != nil {
		return err
	}

	b, err := h.readByte(mc)
	if err != nil {
		return fmt.Errorf("IN: %w", err)
	}

	if err := h.write(mc, []byte{b}); err != nil {
		return err
	}

	mc.State.Registers[0] = uint16(b)
	mc.UpdateFlags(0)
	return nil
}

// putsp emits two packed characters per word (low byte, then high byte
// if non-zero) starting at the address in R0 until a zero word.
func (h Handler) putsp(mc *machine.Machine) error {
	var out []byte

	for addr := mc.State.Registers[0]; ; addr++ {
		value := mc.Read(addr)
		if value == 0 {
			break
		}

		out = append(out, byte(value&0xFF))

		if high := byte(value >> 8); high != 0 {
			out = append(out, high)
		}
	}

	return h.write(mc, out)
}

// halt prints a notice; the caller (Machine.Step) stops the loop.
func (h Handler) halt(mc *machine.Machine) error {
	if h.Notices != nil {
		h.Notices("\n\n--- halting the LC-3 ---\n\n")
	}
	return nil
}

func (h Handler) readByte(mc *machine.Machine) (byte, error) {
	if mc.Devices == nil || mc.Devices.Keyboard == nil {
		return 0, fmt.Errorf("no keyboard device attached")
	}

	return mc.Devices.Keyboard.ReadByte()
}

func (h Handler) write(mc *machine.Machine, p []byte) error {
	if mc.Devices == nil || mc.Devices.Display == nil {
		return nil
	}

	if _, err := mc.Devices.Display.Write(p); err != nil {
		return err
	}

	if f, ok := mc.Devices.Display.(flusher); ok {
		return f.Flush()
	}

	return nil
}
