package crc32

import (
	"bytes"
	crc "hash/crc32"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

var check = []byte("123456789")

type checksumFunc func([]byte, Convention) uint32

var algorithms = map[string]checksumFunc{
	"bitwise": ChecksumBitwise,
	"table": func(p []byte, c Convention) uint32 {
		return ChecksumTable(p, MakeTable(c))
	},
	"bytewise":   ChecksumBytewise,
	"nibblewise": ChecksumNibblewise,
}

func TestGolden(t *testing.T) {
	tests := []struct {
		name       string
		convention Convention
		input      []byte
		want       uint32
	}{
		{"empty forward", Forward, nil, 0x00000000},
		{"empty reflected", Reflected, []byte{}, 0x00000000},
		{"check forward", Forward, check, 0xfc891918},
		{"check reflected", Reflected, check, 0xcbf43926},
		{"zero forward", Forward, []byte{0x00}, 0xb1f7404b},
		{"zero reflected", Reflected, []byte{0x00}, 0xd202ef8d},
		{"fox reflected", Reflected, []byte("The quick brown fox jumps over the lazy dog"), 0x414fa339},
	}

	for _, table := range tests {
		for name, fn := range algorithms {
			assert.Equalf(t, table.want, fn(table.input, table.convention), "%s: %s", table.name, name)
		}
	}
}

func inputs() [][]byte {
	r := rand.New(rand.NewSource(1))
	in := [][]byte{
		nil,
		{0xff},
		{0x80},
		{0x01},
		bytes.Repeat([]byte{0x00}, 64),
		bytes.Repeat([]byte{0xff}, 64),
		bytes.Repeat([]byte{0xa5, 0x5a}, 33),
	}
	for _, n := range []int{1, 2, 3, 7, 31, 256, 1000, 4096} {
		b := make([]byte, n)
		r.Read(b)
		in = append(in, b)
	}
	return in
}

func TestEquivalence(t *testing.T) {
	for _, c := range []Convention{Forward, Reflected} {
		for _, p := range inputs() {
			want := ChecksumBitwise(p, c)
			for name, fn := range algorithms {
				assert.Equalf(t, want, fn(p, c), "%s %s over %d bytes", c, name, len(p))
			}
		}
	}
}

func TestReflectedMatchesIEEE(t *testing.T) {
	for _, p := range inputs() {
		want := crc.ChecksumIEEE(p)
		for name, fn := range algorithms {
			assert.Equalf(t, want, fn(p, Reflected), "%s over %d bytes", name, len(p))
		}
	}
}

func TestEverySingleByte(t *testing.T) {
	for _, c := range []Convention{Forward, Reflected} {
		for i := 0; i < 256; i++ {
			p := []byte{byte(i)}
			want := ChecksumBitwise(p, c)
			assert.Equal(t, want, ChecksumTable(p, TableFor(c)))
			assert.Equal(t, want, ChecksumBytewise(p, c))
			assert.Equal(t, want, ChecksumNibblewise(p, c))
		}
	}
}

func TestTrailingBytesIgnored(t *testing.T) {
	buf := append(append([]byte{}, check...), 0xde, 0xad, 0xbe, 0xef)

	for _, c := range []Convention{Forward, Reflected} {
		want := ChecksumBitwise(check, c)
		for name, fn := range algorithms {
			assert.Equalf(t, want, fn(buf[:len(check)], c), "%s %s", c, name)
			assert.NotEqualf(t, want, fn(buf, c), "%s %s", c, name)
		}
	}
}

func TestIdempotent(t *testing.T) {
	p := bytes.Repeat(check, 10)
	for _, c := range []Convention{Forward, Reflected} {
		for name, fn := range algorithms {
			assert.Equalf(t, fn(p, c), fn(p, c), "%s %s", c, name)
		}
	}
}

func BenchmarkChecksum(b *testing.B) {
	p := make([]byte, 16<<10)
	rand.New(rand.NewSource(1)).Read(p)

	for name, fn := range algorithms {
		for _, c := range []Convention{Forward, Reflected} {
			b.Run(name+"/"+c.String(), func(b *testing.B) {
				b.SetBytes(int64(len(p)))
				for i := 0; i < b.N; i++ {
					fn(p, c)
				}
			})
		}
	}
}
