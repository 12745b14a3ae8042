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

// Reset zeroes registers and memory and sets the machine up for a
// fresh run: PC at the fixed entry address, COND at Z.
func (mc *Machine) Reset() {
	for i := range mc.State.Registers {
		mc.State.Registers[i] = 0
	}

	for i := range mc.State.Memory {
		mc.State.Memory[i] = 0
	}

	mc.State.Program = PC_START
	mc.State.Cond = FLAG_ZERO
	mc.halted = false
}

// Read returns the stored word at addr. Reading DEV_KBSR first polls
// the keyboard device: if a byte is available it is consumed into
// DEV_KBDR and DEV_KBSR's high bit is set; otherwise DEV_KBSR is
// cleared. This is the only side-effectful address.
func (mc *Machine) Read(addr uint16) uint16 {
	if addr == DEV_KBSR {
		available := mc.Devices != nil && mc.Devices.Keyboard != nil &&
			mc.Devices.Keyboard.Available()

		if available {
			b, err := mc.Devices.Keyboard.ReadByte()
			if err != nil {
				mc.State.Memory[DEV_KBSR] = 0
			} else {
				mc.State.Memory[DEV_KBDR] = uint16(b)
				mc.State.Memory[DEV_KBSR] = 1 << 15
			}
		} else {
			mc.State.Memory[DEV_KBSR] = 0
		}
	}

	return mc.State.Memory[addr]
}

// Write unconditionally stores value at addr.
func (mc *Machine) Write(addr uint16, value uint16) {
	mc.State.Memory[addr] = value
}

// UpdateFlags sets COND to exactly one of N, Z, P matching the sign of
// register r. Trap handlers that write a general register call this
// themselves, since trap dispatch lives outside this package.
func (mc *Machine) UpdateFlags(r uint16) {
	mc.setFlags(r)
}

func (mc *Machine) setFlags(r uint16) {
	value := mc.State.Registers[r]

	switch {
	case value == 0:
		mc.State.Cond = FLAG_ZERO
	case value>>15 == 1:
		mc.State.Cond = FLAG_NEG
	default:
		mc.State.Cond = FLAG_POS
	}
}

// Step fetches, decodes, and executes one instruction. It returns a
// *FatalError for RES, RTI, or an unrecognized TRAP vector, and any
// error a trap handler returns (e.g. a failed write to the display).
func (mc *Machine) Step() error {
	pc := mc.State.Program
	raw := mc.Read(pc)
	mc.State.Program = pc + 1

	inst := decode(raw)

	switch inst.Op {
	case OP_BR:
		if inst.NZP&mc.State.Cond != 0 {
			mc.State.Program += inst.Offset
		}

	case OP_ADD:
		var value uint16
		if inst.Imm {
			value = inst.Imm5
		} else {
			value = mc.State.Registers[inst.SR2]
		}

		mc.State.Registers[inst.DR] = mc.State.Registers[inst.SR1] + value
		mc.setFlags(inst.DR)

	case OP_AND:
		var value uint16
		if inst.Imm {
			value = inst.Imm5
		} else {
			value = mc.State.Registers[inst.SR2]
		}

		mc.State.Registers[inst.DR] = mc.State.Registers[inst.SR1] & value
		mc.setFlags(inst.DR)

	case OP_NOT:
		mc.State.Registers[inst.DR] = ^mc.State.Registers[inst.SR]
		mc.setFlags(inst.DR)

	case OP_LD:
		addr := mc.State.Program + inst.Offset
		mc.State.Registers[inst.DR] = mc.Read(addr)
		mc.setFlags(inst.DR)

	case OP_LDI:
		addr := mc.State.Program + inst.Offset
		mc.State.Registers[inst.DR] = mc.Read(mc.Read(addr))
		mc.setFlags(inst.DR)

	case OP_LDR:
		addr := mc.State.Registers[inst.BaseR] + inst.Offset
		mc.State.Registers[inst.DR] = mc.Read(addr)
		mc.setFlags(inst.DR)

	case OP_LEA:
		mc.State.Registers[inst.DR] = mc.State.Program + inst.Offset
		mc.setFlags(inst.DR)

	case OP_ST:
		addr := mc.State.Program + inst.Offset
		mc.Write(addr, mc.State.Registers[inst.SR])

	case OP_STI:
		addr := mc.State.Program + inst.Offset
		mc.Write(mc.Read(addr), mc.State.Registers[inst.SR])

	case OP_STR:
		addr := mc.State.Registers[inst.BaseR] + inst.Offset
		mc.Write(addr, mc.State.Registers[inst.SR])

	case OP_JMP:
		mc.State.Program = mc.State.Registers[inst.BaseR]

	case OP_JSR:
		mc.State.Registers[7] = mc.State.Program

		if inst.Imm {
			mc.State.Program += inst.Offset
		} else {
			mc.State.Program = mc.State.Registers[inst.BaseR]
		}

	case OP_TRAP:
		mc.State.Registers[7] = mc.State.Program

		if mc.Traps == nil {
			return &FatalError{PC: pc, Instruction: raw, Reason: "no trap handler installed"}
		}

		if err := mc.Traps.Dispatch(mc, inst.Vector); err != nil {
			return err
		}

		if inst.Vector == TRAP_HALT {
			mc.halted = true
		}

	case OP_RES:
		return &FatalError{PC: pc, Instruction: raw, Reason: "execution of reserved opcode RES"}

	case OP_RTI:
		return &FatalError{PC: pc, Instruction: raw, Reason: "RTI outside a privileged context"}
	}

	if mc.Observer != nil {
		mc.Observer.AfterStep(mc)
	}

	return nil
}
