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

//go:build unix

package term

import (
	"golang.org/x/sys/unix"
	xterm "golang.org/x/term"
)

func isTerminal(fd int) bool {
	return xterm.IsTerminal(fd)
}

func newPlatform(fd int) Raw {
	return &posixTerm{fd: fd}
}

type posixTerm struct {
	fd      int
	restore unix.Termios
}

func (t *posixTerm) EnableRaw() error {
	termios, err := unix.IoctlGetTermios(t.fd, ioctlGetTermios)
	if err != nil {
		return err
	}

	t.restore = *termios
	raw := *termios

	raw.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR
	raw.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	raw.Cflag &^= unix.CSIZE | unix.PARENB
	raw.Cflag |= unix.CS8

	// One byte at a time, blocking, no inter-byte timeout: GETC/IN read
	// exactly one byte and are expected to block until it arrives.
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	return unix.IoctlSetTermios(t.fd, ioctlSetTermios, &raw)
}

func (t *posixTerm) Restore() error {
	return unix.IoctlSetTermios(t.fd, ioctlSetTermios, &t.restore)
}

// PollInput reports whether a byte is currently readable without
// consuming it, via a zero-timeout select on the fd — the POSIX
// equivalent of the Windows PeekConsoleInput/_kbhit idiom.
func (t *posixTerm) PollInput() bool {
	fds := &unix.FdSet{}
	fds.Set(t.fd)

	tv := unix.Timeval{}

	n, err := unix.Select(t.fd+1, fds, nil, nil, &tv)
	return err == nil && n > 0
}
