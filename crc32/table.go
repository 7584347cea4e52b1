package crc32

import "sync"

// Table is a 256-word table representing the polynomial for efficient
// processing. It remembers the convention it was built for. A Table must not
// be modified once built.
type Table struct {
	convention Convention
	entries    [256]uint32
}

// MakeTable returns a Table constructed for the given convention. Entry i
// holds the accumulator after eight bit-steps starting from i placed in the
// top byte for Forward or the bottom byte for Reflected.
func MakeTable(c Convention) *Table {
	t := &Table{convention: c}
	for i := 0; i < 256; i++ {
		if c == Forward {
			t.entries[i] = step(uint32(i)<<(width-8), 8, c)
		} else {
			t.entries[i] = step(uint32(i), 8, c)
		}
	}
	return t
}

// Convention returns the convention the table was built for.
func (t *Table) Convention() Convention { return t.convention }

// Entry returns the partial remainder for byte value i.
func (t *Table) Entry(i byte) uint32 { return t.entries[i] }

// Entries returns a copy of all 256 entries.
func (t *Table) Entries() [256]uint32 { return t.entries }

var (
	forwardOnce    sync.Once
	forwardTable   *Table
	reflectedOnce  sync.Once
	reflectedTable *Table
)

// ForwardTable returns the shared Forward table, building it on first use.
func ForwardTable() *Table {
	forwardOnce.Do(func() {
		forwardTable = MakeTable(Forward)
	})
	return forwardTable
}

// ReflectedTable returns the shared Reflected table, building it on first
// use.
func ReflectedTable() *Table {
	reflectedOnce.Do(func() {
		reflectedTable = MakeTable(Reflected)
	})
	return reflectedTable
}

// TableFor returns the shared table for c.
func TableFor(c Convention) *Table {
	if c == Forward {
		return ForwardTable()
	}
	return ReflectedTable()
}
