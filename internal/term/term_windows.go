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

//go:build windows

package term

import (
	"golang.org/x/sys/windows"
	xterm "golang.org/x/term"
)

func isTerminal(fd int) bool {
	return xterm.IsTerminal(fd)
}

func newPlatform(fd int) Raw {
	return &winTerm{handle: windows.Handle(fd)}
}

type winTerm struct {
	handle  windows.Handle
	restore uint32
}

func (t *winTerm) EnableRaw() error {
	if err := windows.GetConsoleMode(t.handle, &t.restore); err != nil {
		return err
	}

	raw := t.restore
	raw &^= windows.ENABLE_ECHO_INPUT | windows.ENABLE_LINE_INPUT | windows.ENABLE_PROCESSED_INPUT

	return windows.SetConsoleMode(t.handle, raw)
}

func (t *winTerm) Restore() error {
	return windows.SetConsoleMode(t.handle, t.restore)
}

// PollInput reports whether an input record is waiting, via
// WaitForSingleObject with a zero timeout rather than a blocking
// PeekConsoleInput/ReadConsoleInput call.
func (t *winTerm) PollInput() bool {
	event, err := windows.WaitForSingleObject(t.handle, 0)
	return err == nil && event == windows.WAIT_OBJECT_0
}
