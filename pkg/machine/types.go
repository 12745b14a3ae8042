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

package machine

import (
	"fmt"
	"io"
)

// Keyboard is the non-blocking-pollable byte source behind the
// memory-mapped keyboard device and the GETC/IN traps. Available must
// not consume a byte; ReadByte does.
type Keyboard interface {
	Available() bool
	ReadByte() (byte, error)
}

// DeviceHandler wires the machine to the outside world. Keyboard may
// be nil, in which case the keyboard device always reports empty and
// GETC/IN fail. Display may be nil, in which case OUT/PUTS/PUTSP
// discard their output.
type DeviceHandler struct {
	Keyboard Keyboard
	Display  io.Writer
}

// Observer is the attachment point a step-debugger could use to watch
// execution; this repository implements only the hook, not a
// debugger. AfterStep runs once per completed instruction.
type Observer interface {
	AfterStep(mc *Machine)
}

// MachineState is the register file, PC, condition flags, and full
// memory image the Machine owns for its entire life.
type MachineState struct {
	Registers [8]uint16
	Program   uint16
	Cond      uint16
	Memory    [1 << 16]uint16
}

// TrapHandler services the six LC-3 system calls. pkg/trap implements
// this against a Machine's memory, registers, and DeviceHandler; the
// indirection keeps pkg/machine free of I/O concerns, the same shape
// Observer above uses to stay free of debugging concerns.
type TrapHandler interface {
	Dispatch(mc *Machine, vector uint16) error
}

type Machine struct {
	Devices  *DeviceHandler
	State    MachineState
	Traps    TrapHandler
	Observer Observer

	halted bool
}

// FatalError reports execution of RES, RTI, or an unrecognized TRAP
// vector: the conditions this machine treats as fatal guest errors.
type FatalError struct {
	PC          uint16
	Instruction uint16
	Reason      string
}

func (err *FatalError) Error() string {
	return fmt.Sprintf(
		"fatal: %s (pc=%#04x instruction=%#04x)",
		err.Reason, err.PC, err.Instruction,
	)
}

// Halted reports whether the HALT trap has run.
func (mc *Machine) Halted() bool {
	return mc.halted
}
