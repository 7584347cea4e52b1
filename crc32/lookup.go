package crc32

// ChecksumTable returns the CRC-32 checksum of p using one table lookup per
// byte. The convention is the one tab was built for.
func ChecksumTable(p []byte, tab *Table) uint32 {
	crc := uint32(initial)
	if tab.convention == Forward {
		for _, b := range p {
			crc = crc<<8 ^ tab.entries[byte(crc>>(width-8))^b]
		}
	} else {
		for _, b := range p {
			crc = crc>>8 ^ tab.entries[byte(crc)^b]
		}
	}
	return ^crc
}
