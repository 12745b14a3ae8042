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

// Package loader reads LC-3 object images — a big-endian load origin
// followed by contiguous word data — into a machine's memory.
package loader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/brennareid/lc3vm/pkg/machine"
)

// ErrTruncated is returned when a stream ends partway through a word,
// or before a complete origin word.
var ErrTruncated = errors.New("object image truncated mid-word")

// ErrTooLarge is returned when an image's data would run past the top
// of memory.
var ErrTooLarge = errors.New("object image exceeds available memory")

// Load reads one big-endian object image from r and places it into
// mc's memory starting at the image's origin word. Multiple images may
// be loaded into the same machine in sequence; later writes overwrite
// earlier ones where they overlap. Load does not reset the machine.
func Load(mc *machine.Machine, r io.Reader) error {
	var originBytes [2]byte
	if _, err := io.ReadFull(r, originBytes[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("reading origin: %w", ErrTruncated)
		}
		return fmt.Errorf("reading origin: %w", err)
	}

	origin := binary.BigEndian.Uint16(originBytes[:])
	limit := 0x10000 - int(origin)

	addr := origin
	for count := 0; ; count++ {
		var word [2]byte

		n, err := io.ReadFull(r, word[:])
		if err == io.EOF {
			return nil
		}
		if err == io.ErrUnexpectedEOF || (err == nil && n != 2) {
			return fmt.Errorf("reading word at %#04x: %w", addr, ErrTruncated)
		}
		if err != nil {
			return fmt.Errorf("reading word at %#04x: %w", addr, err)
		}

		if count == limit {
			return fmt.Errorf("%w: origin %#04x", ErrTooLarge, origin)
		}

		mc.Write(addr, binary.BigEndian.Uint16(word[:]))
		addr++
	}
}
