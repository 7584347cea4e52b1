package fastcrc

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/bodgit/fastcrc/crc32"
)

func formatCRC(crc uint32) string {
	return fmt.Sprintf("%0*X", crc32.Size<<1, crc)
}

func (s *Scanner) checksum(b []byte) (uint32, error) {
	if s.selfCheck {
		return crc32.Compare(b, s.engine.Convention())
	}
	return s.engine.Checksum(b), nil
}

func (s *Scanner) crcFile(file string) (uint32, int64, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, 0, err
	}

	if info.Size() > MaxFileSize {
		return 0, 0, fmt.Errorf("%s: larger than %d bytes", file, MaxFileSize)
	}

	b, err := ioutil.ReadAll(f)
	if err != nil {
		return 0, 0, err
	}

	crc, err := s.checksum(b)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", file, err)
	}

	return crc, int64(len(b)), nil
}
