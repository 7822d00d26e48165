// Package hostkeys feeds a terminal.Terminal from a real host TTY. It
// is only used by cmd/webshd's fallback text-mode harness; a
// browser-resident build drives the terminal from DOM keyboard events
// instead. The raw-mode toggling uses golang.org/x/sys/unix termios
// ioctls directly.
package hostkeys

import (
	"bufio"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"

	"webshell/pkg/process"
)

// IsTTY reports whether f is a real terminal device, used by cmd/webshd
// to choose between interactive and piped modes.
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd())
}

// Raw puts fd into raw mode (no canonical line buffering, no local
// echo) and returns a restore function.
func Raw(fd int) (restore func(), err error) {
	orig, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, err
	}
	raw := *orig
	raw.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	raw.Cflag &^= unix.CSIZE | unix.PARENB
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &raw); err != nil {
		return nil, err
	}
	return func() { unix.IoctlSetTermios(fd, unix.TCSETS, orig) }, nil
}

// Reader decodes a byte stream from a raw-mode TTY into process.Key
// values, recognizing the handful of escape sequences the terminal's
// line discipline cares about.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps f for key decoding.
func NewReader(f *os.File) *Reader {
	return &Reader{r: bufio.NewReader(f)}
}

// ReadKey blocks for the next decoded key event.
func (d *Reader) ReadKey() (process.Key, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return process.Key{}, err
	}
	switch {
	case b == '\r' || b == '\n':
		return process.Key{Name: "Enter"}, nil
	case b == 3: // Ctrl-C
		return process.Key{Rune: 'c', Ctrl: true}, nil
	case b == 4: // Ctrl-D
		return process.Key{Rune: 'd', Ctrl: true}, nil
	case b == 12: // Ctrl-L
		return process.Key{Rune: 'l', Ctrl: true}, nil
	case b == 21: // Ctrl-U
		return process.Key{Rune: 'u', Ctrl: true}, nil
	case b == 9:
		return process.Key{Name: "Tab"}, nil
	case b == 127 || b == 8:
		return process.Key{Name: "Backspace"}, nil
	case b == 0x1b:
		return d.readEscape()
	default:
		return process.Key{Rune: rune(b)}, nil
	}
}

func (d *Reader) readEscape() (process.Key, error) {
	b1, err := d.r.ReadByte()
	if err != nil || b1 != '[' {
		return process.Key{Name: "Escape"}, nil
	}
	b2, err := d.r.ReadByte()
	if err != nil {
		return process.Key{}, err
	}
	switch b2 {
	case 'A':
		return process.Key{Name: "ArrowUp"}, nil
	case 'B':
		return process.Key{Name: "ArrowDown"}, nil
	case 'C':
		return process.Key{Name: "ArrowRight"}, nil
	case 'D':
		return process.Key{Name: "ArrowLeft"}, nil
	case '3':
		d.r.ReadByte() // trailing '~'
		return process.Key{Name: "Delete"}, nil
	default:
		return process.Key{Name: "Escape"}, nil
	}
}
