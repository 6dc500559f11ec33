package shape

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// detail handles pack (snapshot-id uint16, query-hash uint32, unix-minute
// uint16) into a single uint64 — snapshotID and queryHash in the high
// bits so a stale handle from a different snapshot or query fails the
// cheap equality check in validateHandle before ever touching the detail
// cache, unixMinute in the low bits as an opaque staleness hint (the
// cache's own TTL eviction, not this encoding, is what actually enforces
// detail-ttl). Bit-widening style grounded on internal/extract/hash.go's
// binary.BigEndian packing, generalized from a content fingerprint to a
// compact structured ID.
func encodeHandle(snapshotID uint16, query string, unixMinute uint16) uint64 {
	queryHash := uint32(xxhash.Sum64String(query))
	return uint64(snapshotID)<<48 | uint64(queryHash)<<16 | uint64(unixMinute)
}

func decodeHandle(h uint64) (snapshotID uint16, queryHash uint32, unixMinute uint16) {
	snapshotID = uint16(h >> 48)
	queryHash = uint32((h >> 16) & 0xFFFFFFFF)
	unixMinute = uint16(h & 0xFFFF)
	return
}

// validateHandle reports whether h was minted for snapshotID and query —
// it does not check unixMinute, since expiry is the detail cache's job.
func validateHandle(h uint64, snapshotID uint16, query string) bool {
	gotSnapshot, gotHash, _ := decodeHandle(h)
	if gotSnapshot != snapshotID {
		return false
	}
	return gotHash == uint32(xxhash.Sum64String(query))
}

func formatHandle(h uint64) string {
	return strconv.FormatUint(h, 16)
}

func parseHandle(s string) (uint64, error) {
	return strconv.ParseUint(s, 16, 64)
}
