package cache

import (
	"encoding/binary"
	"encoding/hex"
	"sort"

	"lukechampine.com/blake3"
)

const keyDomain = "zonecheck/verdict/v1\n"

// Key computes the verdict key of query over the given component
// definitions. Component order does not matter.
func Key(query string, components map[string][]byte) string {
	h := blake3.New(32, nil)
	h.Write([]byte(keyDomain))
	writeField(h, []byte(query))

	names := make([]string, 0, len(components))
	for n := range components {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		writeField(h, []byte(n))
		writeField(h, components[n])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Digest is the BLAKE3 hash of a single definition, hex encoded.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// writeField length-prefixes data so that field boundaries are unambiguous.
func writeField(h *blake3.Hasher, data []byte) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(data)))
	h.Write(n[:])
	h.Write(data)
}
