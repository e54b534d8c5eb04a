package models

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// DeriveWinningTicket maps a combined hash onto a 1-based dense ticket range
// [1, totalTickets]. Successive 8-byte windows of the hash are read as
// unsigned integers with rejection sampling: values in the biased tail of the
// uint64 range are discarded so every ticket has exactly equal probability,
// avoiding the naive modulo bias. When all windows of a hash are rejected the
// hash is extended deterministically with a round counter. The derivation is a
// pure function of its inputs, which is what makes independent verification
// possible.
func DeriveWinningTicket(combinedHash []byte, totalTickets int64) int64 {
	n := uint64(totalTickets)
	// Largest multiple of n that fits in a uint64; values at or above it
	// would make low tickets slightly more likely.
	limit := math.MaxUint64 - math.MaxUint64%n

	hash := combinedHash
	for round := uint64(0); ; round++ {
		for off := 0; off+8 <= len(hash); off += 8 {
			v := binary.BigEndian.Uint64(hash[off : off+8])
			if v < limit {
				return int64(v%n) + 1
			}
		}
		// All windows rejected; extend the hash stream.
		next := sha256.Sum256(appendUint64(hash, round))
		hash = next[:]
	}
}
