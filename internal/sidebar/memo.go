package sidebar

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// fingerprint hashes the versions a compose depends on. Two composes with
// equal fingerprints are guaranteed to produce equal snapshots, so the
// previous one can be returned.
type fingerprint struct {
	d   *xxhash.Digest
	buf [8]byte
}

func newFingerprint() *fingerprint {
	return &fingerprint{d: xxhash.New()}
}

func (f *fingerprint) str(s string) {
	f.uint(uint64(len(s)))
	f.d.WriteString(s)
}

func (f *fingerprint) uint(v uint64) {
	binary.LittleEndian.PutUint64(f.buf[:], v)
	f.d.Write(f.buf[:])
}

func (f *fingerprint) int(v int64) { f.uint(uint64(v)) }

func (f *fingerprint) bool(b bool) {
	if b {
		f.uint(1)
	} else {
		f.uint(0)
	}
}

func (f *fingerprint) sum() uint64 { return f.d.Sum64() }
