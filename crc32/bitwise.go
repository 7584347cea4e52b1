package crc32

// ChecksumBitwise returns the CRC-32 checksum of p computed one bit at a
// time. It is the reference every other algorithm is checked against.
func ChecksumBitwise(p []byte, c Convention) uint32 {
	crc := uint32(initial)
	for _, b := range p {
		if c == Forward {
			crc ^= uint32(b) << (width - 8)
		} else {
			crc ^= uint32(b)
		}
		crc = step(crc, 8, c)
	}
	return ^crc
}
