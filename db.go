package fastcrc

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/bodgit/fastcrc/crc32"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the SQLite checksum catalog.
type DB struct {
	db *sql.DB
}

// NewDB opens or creates the catalog stored in file.
func NewDB(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	// SQLite only allows a single writer
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS scan (id TEXT PRIMARY KEY NOT NULL, started INTEGER NOT NULL, root TEXT NOT NULL, algorithm TEXT NOT NULL, convention TEXT NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS file (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, size INTEGER NOT NULL, crc TEXT NOT NULL, scan_id TEXT NOT NULL, FOREIGN KEY(scan_id) REFERENCES scan(id))"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE INDEX IF NOT EXISTS file_crc ON file (crc)"); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{
		db: db,
	}, nil
}

// Close closes the catalog.
func (db *DB) Close() error {
	return db.db.Close()
}

// BeginScan records the start of a scan of root and returns its identifier.
func (db *DB) BeginScan(root string, engine crc32.Engine) (string, error) {
	id := uuid.New().String()
	if _, err := db.db.Exec("INSERT INTO scan (id, started, root, algorithm, convention) VALUES (?, ?, ?, ?, ?)", id, time.Now().Unix(), root, engine.Algorithm().String(), engine.Convention().String()); err != nil {
		return "", err
	}
	return id, nil
}

// Record stores the checksum of path, replacing any earlier entry.
func (db *DB) Record(scanID, path string, size int64, crc uint32) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO file (path, size, crc, scan_id) VALUES (?, ?, ?, ?)", path, size, formatCRC(crc), scanID); err != nil {
		return err
	}
	return nil
}

// Lookup returns the recorded checksum of path.
func (db *DB) Lookup(path string) (uint32, bool, error) {
	var crc string
	switch err := db.db.QueryRow("SELECT crc FROM file WHERE path = ?", path).Scan(&crc); err {
	case sql.ErrNoRows:
		return 0, false, nil
	case nil:
		v, err := strconv.ParseUint(crc, 16, 32)
		if err != nil {
			return 0, false, err
		}
		return uint32(v), true, nil
	default:
		return 0, false, err
	}
}

// FindByCRC returns every recorded path with the given checksum, sorted.
func (db *DB) FindByCRC(crc uint32) ([]string, error) {
	rows, err := db.db.Query("SELECT path FROM file WHERE crc = ? ORDER BY path", formatCRC(crc))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// Scan describes a recorded scan.
type Scan struct {
	ID         string
	Started    time.Time
	Root       string
	Algorithm  string
	Convention string
	Files      int
}

// Scans returns every recorded scan, newest first.
func (db *DB) Scans() ([]Scan, error) {
	rows, err := db.db.Query("SELECT s.id, s.started, s.root, s.algorithm, s.convention, COUNT(f.id) FROM scan AS s LEFT JOIN file AS f ON f.scan_id = s.id GROUP BY s.id ORDER BY s.started DESC, s.rowid DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		var s Scan
		var started int64
		if err := rows.Scan(&s.ID, &started, &s.Root, &s.Algorithm, &s.Convention, &s.Files); err != nil {
			return nil, err
		}
		s.Started = time.Unix(started, 0)
		scans = append(scans, s)
	}
	return scans, rows.Err()
}
