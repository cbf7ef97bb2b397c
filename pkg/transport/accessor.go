package transport

import (
	"context"
	"errors"
	"fmt"

	"um7go/pkg/register"
)

var (
	// ErrUnknownRegister reports a name missing from the register table.
	ErrUnknownRegister = errors.New("unknown register")

	// ErrNotWritable reports a write to a read-only register.
	ErrNotWritable = errors.New("register is not writable")
)

// RegisterIO is the capability both transports provide: single register
// reads and writes keyed by register metadata. *Session and *SPISession
// satisfy it.
type RegisterIO interface {
	Read(ctx context.Context, reg register.Register) (register.Value, error)
	Write(ctx context.Context, reg register.Register, payload []byte) error
}

// Accessor provides name-keyed register access on top of any transport:
// one lookup table plus generic read/write paths instead of a hand-written
// accessor per register.
type Accessor struct {
	io RegisterIO
}

// NewAccessor wraps a transport.
func NewAccessor(io RegisterIO) *Accessor {
	return &Accessor{io: io}
}

func (a *Accessor) lookup(name string) (register.Register, error) {
	reg, ok := register.LookupByName(name)
	if !ok {
		return register.Register{}, fmt.Errorf("%w: %s", ErrUnknownRegister, name)
	}
	return reg, nil
}

// Read returns the current contents of a register by name.
func (a *Accessor) Read(ctx context.Context, name string) (register.Value, error) {
	reg, err := a.lookup(name)
	if err != nil {
		return register.Value{}, err
	}
	return a.io.Read(ctx, reg)
}

// ReadUint32 reads a register and interprets it as an unsigned integer.
func (a *Accessor) ReadUint32(ctx context.Context, name string) (uint32, error) {
	v, err := a.Read(ctx, name)
	if err != nil {
		return 0, err
	}
	return v.Uint32(), nil
}

// ReadFloat32 reads a register and interprets it as an IEEE-754 float.
func (a *Accessor) ReadFloat32(ctx context.Context, name string) (float32, error) {
	v, err := a.Read(ctx, name)
	if err != nil {
		return 0, err
	}
	return v.Float32(), nil
}

// ReadFields reads a register and extracts every declared bit field.
func (a *Accessor) ReadFields(ctx context.Context, name string) (map[string]uint32, error) {
	v, err := a.Read(ctx, name)
	if err != nil {
		return nil, err
	}
	out := make(map[string]uint32, len(v.Reg.Fields))
	for _, f := range v.Reg.Fields {
		val, err := v.Field(f.Name)
		if err != nil {
			return nil, err
		}
		out[f.Name] = val
	}
	return out, nil
}

func (a *Accessor) write(ctx context.Context, name string, payload []byte) error {
	reg, err := a.lookup(name)
	if err != nil {
		return err
	}
	if !reg.Writable() {
		return fmt.Errorf("%w: %s", ErrNotWritable, name)
	}
	return a.io.Write(ctx, reg, payload)
}

// WriteUint32 writes an integer register by name.
func (a *Accessor) WriteUint32(ctx context.Context, name string, v uint32) error {
	return a.write(ctx, name, register.EncodeUint32(v))
}

// WriteFloat32 writes a float register by name.
func (a *Accessor) WriteFloat32(ctx context.Context, name string, v float32) error {
	return a.write(ctx, name, register.EncodeFloat32(v))
}

// WriteFields assembles a register word from named bit-field values and
// writes it. Unmentioned fields are written as zero.
func (a *Accessor) WriteFields(ctx context.Context, name string, fields map[string]uint32) error {
	reg, err := a.lookup(name)
	if err != nil {
		return err
	}
	if !reg.Writable() {
		return fmt.Errorf("%w: %s", ErrNotWritable, name)
	}
	payload, err := register.PackFields(reg, fields)
	if err != nil {
		return err
	}
	return a.io.Write(ctx, reg, payload)
}

// Command triggers a command register (ZERO_GYROS, RESET_EKF, ...) by
// reading it and returns the response payload; GET_FW_REVISION answers with
// the firmware revision bytes.
func (a *Accessor) Command(ctx context.Context, name string) (register.Value, error) {
	return a.Read(ctx, name)
}
