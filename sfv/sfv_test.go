package sfv

import (
	"errors"
	"testing"

	"github.com/bodgit/fastcrc/crc32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalText(t *testing.T) {
	m := New(crc32.Reflected)
	require.Nil(t, m.Set("b.bin", 0xcbf43926))
	require.Nil(t, m.Set("a file.txt", 0x1))
	assert.Equal(t, 2, m.Length())

	b, err := m.MarshalText()
	require.Nil(t, err)
	assert.Equal(t, "a file.txt 00000001\nb.bin CBF43926\n", string(b))

	m = New(crc32.Forward)
	require.Nil(t, m.Set("check", 0xfc891918))

	b, err = m.MarshalText()
	require.Nil(t, err)
	assert.Equal(t, "; convention: forward\ncheck FC891918\n", string(b))
}

func TestUnmarshalText(t *testing.T) {
	tests := []struct {
		input      string
		convention crc32.Convention
		want       map[string]uint32
	}{
		{
			"; Generated by some tool\r\nfoo.bin cbf43926\r\n\r\nbar baz.iso 0000ABCD\r\n",
			crc32.Reflected,
			map[string]uint32{
				"foo.bin":     0xcbf43926,
				"bar baz.iso": 0x0000abcd,
			},
		},
		{
			"; convention: forward\ncheck FC891918\n",
			crc32.Forward,
			map[string]uint32{
				"check": 0xfc891918,
			},
		},
		{
			"",
			crc32.Reflected,
			map[string]uint32{},
		},
	}

	for _, table := range tests {
		m := new(Manifest)
		require.Nil(t, m.UnmarshalText([]byte(table.input)))
		assert.Equal(t, table.convention, m.Convention)
		assert.Equal(t, len(table.want), m.Length())
		for name, want := range table.want {
			got, ok := m.Get(name)
			assert.True(t, ok, name)
			assert.Equal(t, want, got, name)
		}
	}
}

func TestUnmarshalTextErrors(t *testing.T) {
	tests := map[string]string{
		"missing checksum":   "foo.bin\n",
		"short checksum":     "foo.bin ABCD\n",
		"invalid checksum":   "foo.bin ABCDEFGH\n",
		"unknown convention": "; convention: sideways\n",
		"double separator":   "trail  CBF43926\n",
		"parent directory":   "../x CBF43926\n",
		"subdirectory":       "sub/x CBF43926\n",
		"windows separator":  "sub\\x CBF43926\n",
		"dot dot":            ".. CBF43926\n",
	}

	for name, input := range tests {
		m := new(Manifest)
		assert.NotNil(t, m.UnmarshalText([]byte(input)), name)
	}
}

func TestRoundTrip(t *testing.T) {
	m := New(crc32.Forward)
	for _, name := range []string{"one", "two words", "three"} {
		require.Nil(t, m.Set(name, crc32.Checksum([]byte(name), crc32.Forward)))
	}

	b, err := m.MarshalText()
	require.Nil(t, err)

	got := new(Manifest)
	require.Nil(t, got.UnmarshalText(b))
	assert.Equal(t, m, got)
}

func TestSetInvalid(t *testing.T) {
	m := New(crc32.Reflected)
	assert.NotNil(t, m.Set("", 0))
	assert.NotNil(t, m.Set("a\nb", 0))
	assert.Equal(t, 0, m.Length())
}

func TestSetRejectsNamesThatDoNotRoundTrip(t *testing.T) {
	for _, name := range []string{";notes.txt", "trail ", " lead", "tab\t", ".", "..", "../x", "sub/x", `sub\x`} {
		m := New(crc32.Reflected)
		err := m.Set(name, 0xcbf43926)
		assert.True(t, errors.Is(err, ErrInvalidName), "%q", name)
		assert.False(t, ValidName(name), "%q", name)
		assert.Equal(t, 0, m.Length(), "%q", name)
	}
}

func TestRoundTripAwkwardNames(t *testing.T) {
	m := New(crc32.Reflected)
	for _, name := range []string{"a;b", "semi;", "two  spaces", "x 00000000", ".hidden", "...", "#notes"} {
		require.Nil(t, m.Set(name, crc32.Checksum([]byte(name), crc32.Reflected)), name)
	}

	b, err := m.MarshalText()
	require.Nil(t, err)

	got := new(Manifest)
	require.Nil(t, got.UnmarshalText(b))
	assert.Equal(t, m.Names(), got.Names())
	for _, name := range m.Names() {
		want, _ := m.Get(name)
		crc, ok := got.Get(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, crc, name)
	}
}
