//go:build linux

// Package serial opens a raw serial port suitable for the framer: reads
// return whatever is buffered within roughly 100 ms instead of blocking
// indefinitely, so context cancellation stays responsive.
package serial

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// DefaultBaudRate matches the UM7 factory serial configuration.
const DefaultBaudRate = 115200

var baudFlags = map[int]uint32{
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
	230400: unix.B230400,
	460800: unix.B460800,
}

// Port is an open serial device. It satisfies io.ReadWriteCloser.
type Port struct {
	f *os.File
}

// Option configures Open.
type Option func(*config)

type config struct {
	baud int
}

// WithBaudRate overrides the default baud rate.
func WithBaudRate(baud int) Option {
	return func(c *config) {
		if baud > 0 {
			c.baud = baud
		}
	}
}

// Open configures device as a raw 8N1 serial port.
func Open(device string, opts ...Option) (*Port, error) {
	cfg := config{baud: DefaultBaudRate}
	for _, opt := range opts {
		opt(&cfg)
	}
	speed, ok := baudFlags[cfg.baud]
	if !ok {
		return nil, fmt.Errorf("unsupported baud rate %d", cfg.baud)
	}

	f, err := os.OpenFile(device, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}

	fd := int(f.Fd())
	tio, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("tcgetattr %s: %w", device, err)
	}

	// Raw mode, 8N1, no flow control.
	tio.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	tio.Oflag &^= unix.OPOST
	tio.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	tio.Cflag &^= unix.CSIZE | unix.PARENB | unix.CSTOPB | unix.CRTSCTS
	tio.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL
	tio.Cflag = tio.Cflag&^unix.CBAUD | speed
	tio.Ispeed = speed
	tio.Ospeed = speed

	// VMIN=0/VTIME=1: reads return available bytes, or nothing after 100 ms.
	tio.Cc[unix.VMIN] = 0
	tio.Cc[unix.VTIME] = 1

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, tio); err != nil {
		f.Close()
		return nil, fmt.Errorf("tcsetattr %s: %w", device, err)
	}
	if err := unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIOFLUSH); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush %s: %w", device, err)
	}

	return &Port{f: f}, nil
}

func (p *Port) Read(b []byte) (int, error) {
	return p.f.Read(b)
}

func (p *Port) Write(b []byte) (int, error) {
	return p.f.Write(b)
}

// Close releases the OS handle.
func (p *Port) Close() error {
	return p.f.Close()
}

// Name returns the device path.
func (p *Port) Name() string {
	return p.f.Name()
}
