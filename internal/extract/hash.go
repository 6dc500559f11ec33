package extract

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// hashSalts widen a single 64-bit xxhash digest into a longer stable
// fingerprint: xxhash/v2 dropped the seeded-hash constructor upstream
// carried, so each salt is hashed in as a distinct prefix instead.
var hashSalts = [][]byte{
	[]byte("engine-hash-salt-0"),
	[]byte("engine-hash-salt-1"),
	[]byte("engine-hash-salt-2"),
	[]byte("engine-hash-salt-3"),
}

// FileHash returns a stable, non-cryptographic 32-byte (64 hex char)
// fingerprint of file content. Equal hashes imply the extractor will
// produce identical symbols and relationships for the same grammar
// (spec.md §4.3).
func FileHash(content []byte) string {
	var out [32]byte
	for i, salt := range hashSalts {
		d := xxhash.New()
		d.Write(salt)
		d.Write(content)
		binary.BigEndian.PutUint64(out[i*8:(i+1)*8], d.Sum64())
	}
	return hex.EncodeToString(out[:])
}

// SymbolID content-addresses a symbol so it survives edits elsewhere in
// the same file: hash(file_path || name || start_line || kind), widened
// to 16 bytes (128 bits, spec.md §3).
func SymbolID(filePath, name string, startLine int, kind Kind) string {
	key := filePath + "\x00" + name + "\x00" + strconv.Itoa(startLine) + "\x00" + string(kind)
	var out [16]byte
	for i := 0; i < 2; i++ {
		d := xxhash.New()
		d.Write(hashSalts[i])
		d.Write([]byte(key))
		binary.BigEndian.PutUint64(out[i*8:(i+1)*8], d.Sum64())
	}
	return hex.EncodeToString(out[:])
}
