// Package register describes the UM7 addressable register space: configuration
// registers (CREG), data registers (DREG) and command registers. The table is
// produced offline from the vendor SVD description; nothing here talks to the
// device.
package register

import "strings"

// Access describes the host's rights on a register.
type Access uint8

const (
	ReadOnly Access = iota
	WriteOnly
	ReadWrite
)

// Interp selects how a register payload is interpreted.
type Interp uint8

const (
	Uint32 Interp = iota
	Float32
	Int16Pair
	Bytes4
)

// BitField is one named slice of a register word, bits Hi..Lo inclusive.
// Scale converts the raw field value to engineering units when non-zero.
type BitField struct {
	Name  string
	Hi    uint8
	Lo    uint8
	Scale float64
	Unit  string
}

// Width returns the field width in bits.
func (f BitField) Width() uint8 {
	return f.Hi - f.Lo + 1
}

// Mask returns the field mask, already shifted down to bit 0.
func (f BitField) Mask() uint32 {
	return (1 << uint32(f.Width())) - 1
}

// Register is one immutable entry of the register map.
type Register struct {
	Address uint8
	Name    string
	Width   int // payload bytes, 2 or 4
	Access  Access
	Interp  Interp
	Hidden  bool
	Fields  []BitField
}

// Field looks up a bit field by name.
func (r Register) Field(name string) (BitField, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return BitField{}, false
}

// Writable reports whether the host may write this register.
func (r Register) Writable() bool {
	return r.Access == WriteOnly || r.Access == ReadWrite
}

var (
	byAddress map[uint8]Register
	byName    map[string]Register
)

func init() {
	byAddress = make(map[uint8]Register, len(table))
	byName = make(map[string]Register, len(table))
	for _, r := range table {
		byName[r.Name] = r
		if !r.Hidden {
			byAddress[r.Address] = r
		}
	}
}

// LookupByAddress finds a register in the regular (non-hidden) address space.
func LookupByAddress(addr uint8) (Register, bool) {
	r, ok := byAddress[addr]
	return r, ok
}

// LookupByName finds a register by its SVD name, case-insensitively.
// Hidden registers are reachable only through here.
func LookupByName(name string) (Register, bool) {
	r, ok := byName[strings.ToUpper(name)]
	return r, ok
}

// All returns the register table in address order, hidden entries last.
func All() []Register {
	out := make([]Register, len(table))
	copy(out, table)
	return out
}
