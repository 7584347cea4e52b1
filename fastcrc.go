/*
Package fastcrc is a library for cataloguing and verifying the CRC-32
checksums of files on disk.

A Scanner walks a directory tree, checksums every regular file with a
configurable crc32.Engine, records the results in a SQLite catalog and writes
an SFV manifest into each directory. The manifests can later be checked
against the files they describe.
*/
package fastcrc

import (
	"log"

	"github.com/bodgit/fastcrc/crc32"
)

const (
	defaultWorkers = 10

	// MaxFileSize is the largest file that will be checksummed. Checksums
	// are computed over whole buffers so the file is read into memory.
	MaxFileSize = 64 << (10 * 2)
)

// Scanner checksums directory trees.
type Scanner struct {
	db        *DB
	engine    crc32.Engine
	logger    *log.Logger
	workers   int
	selfCheck bool
}

// New returns a Scanner that records into db using engine. The db may be nil
// in which case only manifests are written.
func New(db *DB, engine crc32.Engine, logger *log.Logger) *Scanner {
	return &Scanner{
		db:      db,
		engine:  engine,
		logger:  logger,
		workers: defaultWorkers,
	}
}

// SetSelfCheck enables computing every checksum with all algorithms and
// failing if any of them disagree.
func (s *Scanner) SetSelfCheck(enabled bool) {
	s.selfCheck = enabled
}

// SetWorkers sets the number of directories processed concurrently.
func (s *Scanner) SetWorkers(n int) {
	if n > 0 {
		s.workers = n
	}
}
