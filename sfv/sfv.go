/*
Package sfv implements the Simple File Verification manifest written to each
scanned directory.

Each line holds a file name followed by a space and its CRC-32 checksum as
eight uppercase hexadecimal digits. Lines starting with ';' are comments. The
traditional format only knows the reflected CRC-32; a manifest produced with
the forward convention records that in a "; convention: forward" comment.
*/
package sfv

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bodgit/fastcrc/crc32"
)

const (
	// Filename is the expected filename used when writing to disk
	Filename = "checksums.sfv"

	conventionPrefix = "convention:"
)

// Manifest maps file names to checksums. It implements the
// encoding.TextMarshaler and encoding.TextUnmarshaler interfaces.
type Manifest struct {
	// Convention is the convention the checksums were computed with
	Convention crc32.Convention

	checksums map[string]uint32
}

// New returns an empty manifest for the given convention
func New(c crc32.Convention) *Manifest {
	return &Manifest{
		Convention: c,
		checksums:  make(map[string]uint32),
	}
}

// Length returns the number of entries in the manifest
func (m *Manifest) Length() int {
	return len(m.checksums)
}

// ErrInvalidName is returned for file names that cannot be stored in a
// manifest and read back unchanged.
var ErrInvalidName = errors.New("sfv: invalid file name")

// ValidName reports whether name can be stored in a manifest. Names must be
// a single path element, must not start with the comment character and must
// not start or end with whitespace.
func ValidName(name string) bool {
	switch {
	case name == "", name == ".", name == "..":
		return false
	case name[0] == ';':
		return false
	case strings.TrimSpace(name) != name:
		return false
	case strings.ContainsAny(name, "\r\n/\\"):
		return false
	}
	return true
}

// Set stores the checksum for the given file name
func (m *Manifest) Set(name string, crc uint32) error {
	if !ValidName(name) {
		return fmt.Errorf("%w %q", ErrInvalidName, name)
	}
	m.checksums[name] = crc
	return nil
}

// Get returns the checksum for the given file name
func (m *Manifest) Get(name string) (uint32, bool) {
	crc, ok := m.checksums[name]
	return crc, ok
}

// Names returns the file names in the manifest in sorted order
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.checksums))
	for k := range m.checksums {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// MarshalText encodes the manifest and returns the result
func (m *Manifest) MarshalText() ([]byte, error) {
	b := new(bytes.Buffer)

	if m.Convention != crc32.Reflected {
		fmt.Fprintf(b, "; %s %s\n", conventionPrefix, m.Convention)
	}

	for _, name := range m.Names() {
		fmt.Fprintf(b, "%s %0*X\n", name, crc32.Size<<1, m.checksums[name])
	}

	return b.Bytes(), nil
}

// UnmarshalText decodes the manifest from text form
func (m *Manifest) UnmarshalText(b []byte) error {
	m.Convention = crc32.Reflected
	m.checksums = make(map[string]uint32)

	s := bufio.NewScanner(bytes.NewReader(b))
	for n := 1; s.Scan(); n++ {
		line := strings.TrimRight(s.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if line[0] == ';' {
			comment := strings.TrimSpace(line[1:])
			if strings.HasPrefix(comment, conventionPrefix) {
				c, err := crc32.ParseConvention(strings.TrimSpace(strings.TrimPrefix(comment, conventionPrefix)))
				if err != nil {
					return fmt.Errorf("sfv: line %d: %w", n, err)
				}
				m.Convention = c
			}
			continue
		}

		// The name may itself contain spaces so split on the last one,
		// exactly one space separates it from the checksum
		i := strings.LastIndexByte(line, ' ')
		if i <= 0 {
			return fmt.Errorf("sfv: line %d: missing checksum", n)
		}

		sum := line[i+1:]
		if len(sum) != crc32.Size<<1 {
			return fmt.Errorf("sfv: line %d: invalid checksum %q", n, sum)
		}
		crc, err := strconv.ParseUint(sum, 16, 32)
		if err != nil {
			return fmt.Errorf("sfv: line %d: invalid checksum %q", n, sum)
		}

		if err := m.Set(line[:i], uint32(crc)); err != nil {
			return fmt.Errorf("sfv: line %d: %w", n, err)
		}
	}

	return s.Err()
}
