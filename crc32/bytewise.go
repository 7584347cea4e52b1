package crc32

// A table entry is t·x^32 mod P. Modulo P, x^32 is the low 32 bits of the
// polynomial, so the entry is t times those bits. Only the x^26 term can
// overflow the register for an 8-bit t; it is reduced with two bit-steps and
// the remaining terms are plain shifted copies of t.

// foldForward8 returns the Forward table entry for t without a table.
func foldForward8(t uint32) uint32 {
	return step(t<<(width-8), 2, Forward) ^
		t<<23 ^ t<<22 ^ t<<16 ^ t<<12 ^ t<<11 ^ t<<10 ^
		t<<8 ^ t<<7 ^ t<<5 ^ t<<4 ^ t<<2 ^ t<<1 ^ t
}

// foldReflected8 returns the Reflected table entry for t without a table.
// A term x^d of the polynomial becomes a left shift by 24-d.
func foldReflected8(t uint32) uint32 {
	return step(t, 2, Reflected) ^
		t<<24 ^ t<<23 ^ t<<22 ^ t<<20 ^ t<<19 ^ t<<17 ^ t<<16 ^
		t<<14 ^ t<<13 ^ t<<12 ^ t<<8 ^ t<<2 ^ t<<1
}

// ChecksumBytewise returns the CRC-32 checksum of p one byte at a time
// without consulting a table.
func ChecksumBytewise(p []byte, c Convention) uint32 {
	crc := uint32(initial)
	if c == Forward {
		for _, b := range p {
			crc = foldForward8(uint32(b)^crc>>(width-8)) ^ crc<<8
		}
	} else {
		for _, b := range p {
			crc = foldReflected8(uint32(b)^crc&0xff) ^ crc>>8
		}
	}
	return ^crc
}
