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

// Package term puts the controlling terminal into the non-canonical,
// no-echo mode the LC-3 console traps expect, and exposes a
// non-blocking "is a byte waiting?" predicate for the memory-mapped
// keyboard device. The raw-mode ioctls are platform-specific; this
// file holds the shared interface and the no-op controller used when
// stdin is not a terminal.
package term

import "os"

// Raw puts a terminal into raw mode and restores it again, and answers
// whether a byte can be read without blocking. Restore puts back the
// mode saved by EnableRaw. When fd is not a terminal (e.g. stdin
// redirected from a file), New returns a controller whose EnableRaw
// and Restore do nothing.
type Raw interface {
	EnableRaw() error
	Restore() error
	PollInput() bool
}

// New returns the platform raw-mode controller for fd, or a no-op
// controller if fd is not a terminal.
func New(fd int) Raw {
	if !isTerminal(fd) {
		return noop{}
	}
	return newPlatform(fd)
}

// noop is used when stdin isn't a terminal (piped input, tests, CI).
// PollInput always reports data as available, so a read of the
// keyboard status register goes straight to a (possibly blocking)
// read of the underlying reader.
type noop struct{}

func (noop) EnableRaw() error { return nil }
func (noop) Restore() error   { return nil }
func (noop) PollInput() bool  { return true }

// StdinFd is a convenience for callers that want the default console.
func StdinFd() int {
	return int(os.Stdin.Fd())
}
