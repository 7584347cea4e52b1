/*
Package crc32 implements the 32-bit cyclic redundancy check, or CRC-32,
checksum using several interchangeable algorithms.

Two bit orderings are supported. The forward convention processes bits most
significant first using the normal polynomial 0x04c11db7, the reflected
convention processes bits least significant first using the reversed
polynomial 0xedb88320. The reflected convention is the common CRC-32 used by
Ethernet, gzip and zip.

Each algorithm starts with an accumulator of all ones and complements it at the
end so every algorithm returns the same value for the same input and
convention:

	Bitwise      one bit at a time, the reference implementation
	TableDriven  one 256-entry table lookup per byte
	Bytewise     one byte at a time without a table
	Nibblewise   four bits at a time without a table

Only whole buffers are checksummed; there is no incremental update.
*/
package crc32

import (
	"fmt"
	"strings"
)

// The size of a CRC-32 checksum in bytes.
const Size = 4

// Predefined polynomials.
const (
	// ForwardPolynomial is the normal representation of the CRC-32
	// polynomial, x^32+x^26+x^23+...+x+1 with the x^32 term implied.
	ForwardPolynomial = 0x04c11db7

	// ReflectedPolynomial is ForwardPolynomial with the bits reversed.
	ReflectedPolynomial = 0xedb88320
)

const (
	initial = 0xffffffff
	width   = 32
)

// Convention selects the bit ordering and polynomial used for a checksum.
type Convention int

const (
	// Forward processes bits most significant first.
	Forward Convention = iota + 1
	// Reflected processes bits least significant first.
	Reflected
)

var conventionNames = map[Convention]string{
	Forward:   "forward",
	Reflected: "reflected",
}

func (c Convention) String() string {
	if s, ok := conventionNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Convention(%d)", int(c))
}

// Polynomial returns the generator polynomial in the bit order used by c.
func (c Convention) Polynomial() uint32 {
	if c == Forward {
		return ForwardPolynomial
	}
	return ReflectedPolynomial
}

func (c Convention) valid() bool {
	_, ok := conventionNames[c]
	return ok
}

// ParseConvention returns the Convention named by s. Both "normal" and
// "forward" select Forward, "reflected" and "ieee" select Reflected.
func ParseConvention(s string) (Convention, error) {
	switch strings.ToLower(s) {
	case "forward", "normal", "msb":
		return Forward, nil
	case "reflected", "reversed", "ieee", "lsb":
		return Reflected, nil
	}
	return 0, fmt.Errorf("crc32: unknown convention %q", s)
}

// step runs n rounds of the bit-level shift and XOR recurrence on crc.
func step(crc uint32, n int, c Convention) uint32 {
	if c == Forward {
		for i := 0; i < n; i++ {
			if crc&0x80000000 != 0 {
				crc = crc<<1 ^ ForwardPolynomial
			} else {
				crc <<= 1
			}
		}
		return crc
	}
	for i := 0; i < n; i++ {
		if crc&1 != 0 {
			crc = crc>>1 ^ ReflectedPolynomial
		} else {
			crc >>= 1
		}
	}
	return crc
}
