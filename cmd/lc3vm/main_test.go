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
	"bytes"
	"testing"

	"github.com/brennareid/lc3vm/pkg/loader"
	"github.com/brennareid/lc3vm/pkg/machine"
	"github.com/brennareid/lc3vm/pkg/trap"
)

// byteKeyboard is a non-blocking fake: every byte is already queued,
// so tests never touch a real terminal.
type byteKeyboard struct {
	data []byte
}

func (k *byteKeyboard) Available() bool { return len(k.data) > 0 }

func (k *byteKeyboard) ReadByte() (byte, error) {
	b := k.data[0]
	k.data = k.data[1:]
	return b, nil
}

func image(words ...uint16) []byte {
	var buf bytes.Buffer
	for _, w := range words {
		buf.WriteByte(byte(w >> 8))
		buf.WriteByte(byte(w))
	}
	return buf.Bytes()
}

func newTestMachine(t *testing.T, keyboard []byte, payload []byte) (*machine.Machine, *bytes.Buffer) {
	t.Helper()

	var mc machine.Machine
	mc.Reset()

	if err := loader.Load(&mc, bytes.NewReader(payload)); err != nil {
		t.Fatalf("loading image: %v", err)
	}

	var display bytes.Buffer
	mc.Traps = trap.Handler{}
	mc.Devices = &machine.DeviceHandler{
		Keyboard: &byteKeyboard{data: keyboard},
		Display:  &display,
	}

	return &mc, &display
}

func runToHalt(t *testing.T, mc *machine.Machine, maxSteps int) {
	t.Helper()

	for i := 0; !mc.Halted(); i++ {
		if i >= maxSteps {
			t.Fatalf("machine did not halt within %d steps", maxSteps)
		}
		if err := mc.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

// Scenario 1: Hello.
func TestScenarioHello(t *testing.T) {
	payload := image(
		0x3000,
		0b1110_000_000000010, // LEA R0, +2 -> 0x3003 ('H')
		0b1111_0000_00100010, // PUTS
		0b1111_0000_00100101, // HALT
		uint16('H'), uint16('i'), uint16('!'), uint16('\n'), 0,
	)

	mc, display := newTestMachine(t, nil, payload)
	runToHalt(t, mc, 16)

	if have, want := display.String(), "Hi!\n"; have != want {
		t.Errorf("display = %q, want %q", have, want)
	}
}

// Scenario 2: Add immediate.
func TestScenarioAddImmediate(t *testing.T) {
	payload := image(
		0x3000,
		0b0101_000_000_1_00000, // AND R0, R0, #0
		0b0001_000_000_1_00111, // ADD R0, R0, #7
		0b0001_000_000_1_11110, // ADD R0, R0, #-2
		0b1111_0000_00100101,   // HALT
	)

	mc, _ := newTestMachine(t, nil, payload)
	runToHalt(t, mc, 16)

	if have, want := mc.State.Registers[0], uint16(5); have != want {
		t.Errorf("R0 = %d, want %d", have, want)
	}
	if have := mc.State.Cond; have != machine.FLAG_POS {
		t.Errorf("COND = %#03b, want FLAG_POS", have)
	}
}

// Scenario 3: Branch-zero.
func TestScenarioBranchZero(t *testing.T) {
	payload := image(
		0x3000,
		0b0101_000_000_1_00000, // AND R0, R0, #0
		0b0000_010_000000001,   // BRz +1
		0b0001_000_000_1_00001, // ADD R0, R0, #1 (skipped)
		0b1111_0000_00100101,   // HALT
	)

	mc, _ := newTestMachine(t, nil, payload)
	runToHalt(t, mc, 16)

	if have, want := mc.State.Registers[0], uint16(0); have != want {
		t.Errorf("R0 = %d, want %d", have, want)
	}
}

// Scenario 4: Indirect load.
func TestScenarioIndirectLoad(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(image(0x3000,
		0b1010_001_000001111, // LDI R1, +15 -> resolves to 0x3010
		0b1111_0000_00100101, // HALT
	))
	// pad up to 0x3010 then place the pointer, in a second image load.
	second := image(0x3010, 0x4000)

	mc, _ := newTestMachine(t, nil, buf.Bytes())
	if err := loader.Load(mc, bytes.NewReader(second)); err != nil {
		t.Fatalf("loading pointer image: %v", err)
	}
	mc.State.Memory[0x4000] = 0x1234

	runToHalt(t, mc, 16)

	if have, want := mc.State.Registers[1], uint16(0x1234); have != want {
		t.Errorf("R1 = %#04x, want %#04x", have, want)
	}
	if have := mc.State.Cond; have != machine.FLAG_POS {
		t.Errorf("COND = %#03b, want FLAG_POS", have)
	}
}

// Scenario 5: Subroutine.
func TestScenarioSubroutine(t *testing.T) {
	payload := image(
		0x3000,
		0b0100_1_00000000001,   // JSR +1 -> 0x3002
		0b1111_0000_00100101,  // HALT
		0b0001_010_010_1_00100, // ADD R2, R2, #4
		0b1100_000_111_000000, // JMP R7 -> back to 0x3001 (HALT)
	)

	mc, _ := newTestMachine(t, nil, payload)
	runToHalt(t, mc, 16)

	if have, want := mc.State.Registers[2], uint16(4); have != want {
		t.Errorf("R2 = %d, want %d", have, want)
	}
}

// Scenario 6: Echo.
func TestScenarioEcho(t *testing.T) {
	payload := image(
		0x3000,
		0b1111_0000_00100000, // GETC
		0b1111_0000_00100001, // OUT
		0b1111_0000_00100101, // HALT
	)

	mc, display := newTestMachine(t, []byte("A"), payload)
	runToHalt(t, mc, 16)

	if have, want := display.String(), "A"; have != want {
		t.Errorf("display = %q, want %q", have, want)
	}
}
