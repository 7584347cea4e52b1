package crc32

import (
	"fmt"
	"strings"
)

// Algorithm identifies one of the interchangeable checksum strategies.
type Algorithm int

const (
	// Bitwise processes one bit at a time.
	Bitwise Algorithm = iota + 1
	// TableDriven processes one byte at a time with a lookup table.
	TableDriven
	// Bytewise processes one byte at a time without a table.
	Bytewise
	// Nibblewise processes four bits at a time without a table.
	Nibblewise
)

var algorithmNames = map[Algorithm]string{
	Bitwise:     "bitwise",
	TableDriven: "table",
	Bytewise:    "bytewise",
	Nibblewise:  "nibblewise",
}

func (a Algorithm) String() string {
	if s, ok := algorithmNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// Algorithms returns every supported algorithm, reference first.
func Algorithms() []Algorithm {
	return []Algorithm{Bitwise, TableDriven, Bytewise, Nibblewise}
}

// ParseAlgorithm returns the Algorithm named by s.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(s) {
	case "bitwise", "bit":
		return Bitwise, nil
	case "table", "table-driven", "lookup":
		return TableDriven, nil
	case "bytewise", "byte":
		return Bytewise, nil
	case "nibblewise", "nibble":
		return Nibblewise, nil
	}
	return 0, fmt.Errorf("crc32: unknown algorithm %q", s)
}

// Engine computes CRC-32 checksums of whole buffers with a fixed algorithm
// and convention. Engines are safe for concurrent use.
type Engine interface {
	Checksum(p []byte) uint32
	Algorithm() Algorithm
	Convention() Convention
}

type engine struct {
	algorithm  Algorithm
	convention Convention
	fn         func([]byte) uint32
}

func (e *engine) Checksum(p []byte) uint32 { return e.fn(p) }

func (e *engine) Algorithm() Algorithm { return e.algorithm }

func (e *engine) Convention() Convention { return e.convention }

func (e *engine) String() string {
	return e.algorithm.String() + "/" + e.convention.String()
}

// New returns an Engine for the given algorithm and convention. A
// TableDriven engine uses the shared table for c.
func New(a Algorithm, c Convention) (Engine, error) {
	if !c.valid() {
		return nil, fmt.Errorf("crc32: unknown convention %d", int(c))
	}

	e := &engine{algorithm: a, convention: c}
	switch a {
	case Bitwise:
		e.fn = func(p []byte) uint32 { return ChecksumBitwise(p, c) }
	case TableDriven:
		tab := TableFor(c)
		e.fn = func(p []byte) uint32 { return ChecksumTable(p, tab) }
	case Bytewise:
		e.fn = func(p []byte) uint32 { return ChecksumBytewise(p, c) }
	case Nibblewise:
		e.fn = func(p []byte) uint32 { return ChecksumNibblewise(p, c) }
	default:
		return nil, fmt.Errorf("crc32: unknown algorithm %d", int(a))
	}
	return e, nil
}

// Checksum returns the CRC-32 checksum of p using the table-driven algorithm.
func Checksum(p []byte, c Convention) uint32 {
	return ChecksumTable(p, TableFor(c))
}

// Compare computes the checksum of p with every algorithm and returns the
// common result. It returns an error naming the first algorithm that
// disagrees with the bitwise reference.
func Compare(p []byte, c Convention) (uint32, error) {
	if !c.valid() {
		return 0, fmt.Errorf("crc32: unknown convention %d", int(c))
	}

	want := ChecksumBitwise(p, c)
	for _, a := range Algorithms()[1:] {
		e, err := New(a, c)
		if err != nil {
			return 0, err
		}
		if got := e.Checksum(p); got != want {
			return 0, fmt.Errorf("crc32: %s %s checksum %08X does not match bitwise %08X", c, a, got, want)
		}
	}
	return want, nil
}
