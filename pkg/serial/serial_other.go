//go:build !linux

package serial

import (
	"errors"
	"fmt"
	"runtime"
)

// DefaultBaudRate matches the UM7 factory serial configuration.
const DefaultBaudRate = 115200

// Port is an open serial device.
type Port struct{}

type config struct {
	baud int
}

// Option configures Open.
type Option func(*config)

// WithBaudRate overrides the default baud rate.
func WithBaudRate(baud int) Option {
	return func(c *config) {
		if baud > 0 {
			c.baud = baud
		}
	}
}

// Open is only implemented for Linux hosts.
func Open(device string, opts ...Option) (*Port, error) {
	return nil, fmt.Errorf("serial: %s is not supported", runtime.GOOS)
}

func (p *Port) Read(b []byte) (int, error)  { return 0, errors.New("serial: not supported") }
func (p *Port) Write(b []byte) (int, error) { return 0, errors.New("serial: not supported") }
func (p *Port) Close() error                { return nil }
func (p *Port) Name() string                { return "" }
