package crc32

// For a 4-bit t the product with the polynomial never overflows, so every
// term is a shifted copy of t.

// foldForward4 returns t·x^32 mod P for a Forward nibble t.
func foldForward4(t uint32) uint32 {
	return t<<26 ^ t<<23 ^ t<<22 ^ t<<16 ^ t<<12 ^ t<<11 ^ t<<10 ^
		t<<8 ^ t<<7 ^ t<<5 ^ t<<4 ^ t<<2 ^ t<<1 ^ t
}

// foldReflected4 returns t·x^32 mod P for a Reflected nibble t held in the
// bottom four bits.
func foldReflected4(t uint32) uint32 {
	t <<= width - 4
	return t>>26 ^ t>>23 ^ t>>22 ^ t>>16 ^ t>>12 ^ t>>11 ^ t>>10 ^
		t>>8 ^ t>>7 ^ t>>5 ^ t>>4 ^ t>>2 ^ t>>1 ^ t
}

// ChecksumNibblewise returns the CRC-32 checksum of p four bits at a time
// without consulting a table. Forward consumes the high nibble of each byte
// first, Reflected the low nibble.
func ChecksumNibblewise(p []byte, c Convention) uint32 {
	crc := uint32(initial)
	if c == Forward {
		for _, b := range p {
			crc = foldForward4(uint32(b>>4)^crc>>(width-4)) ^ crc<<4
			crc = foldForward4(uint32(b&0x0f)^crc>>(width-4)) ^ crc<<4
		}
	} else {
		for _, b := range p {
			crc = foldReflected4((uint32(b)^crc)&0x0f) ^ crc>>4
			crc = foldReflected4((uint32(b>>4)^crc)&0x0f) ^ crc>>4
		}
	}
	return ^crc
}
