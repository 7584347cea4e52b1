package fastcrc

import (
	"path/filepath"
	"testing"

	"github.com/bodgit/fastcrc/crc32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	db, err := NewDB(filepath.Join(t.TempDir(), "fastcrc.db"))
	require.Nil(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB(t *testing.T) {
	db := newTestDB(t)

	engine, err := crc32.New(crc32.TableDriven, crc32.Reflected)
	require.Nil(t, err)

	id, err := db.BeginScan("/data", engine)
	require.Nil(t, err)
	assert.Len(t, id, 36)

	require.Nil(t, db.Record(id, "/data/a", 9, 0xcbf43926))
	require.Nil(t, db.Record(id, "/data/b", 9, 0xcbf43926))
	require.Nil(t, db.Record(id, "/data/c", 1, 0xd202ef8d))

	crc, ok, err := db.Lookup("/data/a")
	require.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint32(0xcbf43926), crc)

	_, ok, err = db.Lookup("/data/missing")
	require.Nil(t, err)
	assert.False(t, ok)

	paths, err := db.FindByCRC(0xcbf43926)
	require.Nil(t, err)
	assert.Equal(t, []string{"/data/a", "/data/b"}, paths)

	paths, err = db.FindByCRC(0x12345678)
	require.Nil(t, err)
	assert.Empty(t, paths)

	// Re-recording a path replaces its checksum
	require.Nil(t, db.Record(id, "/data/a", 1, 0xd202ef8d))
	crc, _, err = db.Lookup("/data/a")
	require.Nil(t, err)
	assert.Equal(t, uint32(0xd202ef8d), crc)

	scans, err := db.Scans()
	require.Nil(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, id, scans[0].ID)
	assert.Equal(t, "/data", scans[0].Root)
	assert.Equal(t, "table", scans[0].Algorithm)
	assert.Equal(t, "reflected", scans[0].Convention)
	assert.Equal(t, 3, scans[0].Files)
}

func TestDBUnknownScan(t *testing.T) {
	db := newTestDB(t)
	assert.NotNil(t, db.Record("not-a-scan", "/data/a", 0, 0))
}
