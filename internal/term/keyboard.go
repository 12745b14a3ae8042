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

package term

import "io"

// Keyboard adapts a raw-mode-controlled reader into the
// Available/ReadByte pair the memory-mapped keyboard device and the
// GETC/IN traps need. Available polls without consuming; ReadByte
// consumes one byte and, on a real terminal with EnableRaw already
// called, blocks until it arrives.
type Keyboard struct {
	raw    Raw
	reader io.Reader
}

// NewKeyboard wraps r, polled for availability through raw.
func NewKeyboard(raw Raw, r io.Reader) *Keyboard {
	return &Keyboard{raw: raw, reader: r}
}

func (k *Keyboard) Available() bool {
	return k.raw.PollInput()
}

func (k *Keyboard) ReadByte() (byte, error) {
	var b [1]byte

	if _, err := io.ReadFull(k.reader, b[:]); err != nil {
		return 0, err
	}

	return b[0], nil
}
