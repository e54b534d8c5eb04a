package models

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// DrawSeed is the committed randomness for a single draw. PublicSeed is
// derivable without PrivateSeed; PrivateSeed stays undisclosed until the draw
// executes. Both are fixed at commitment time and never mutated.
type DrawSeed struct {
	PublicSeed  string `json:"public_seed"`
	PrivateSeed string `json:"private_seed"`
	// Unix milliseconds at seed generation.
	Timestamp int64 `json:"timestamp"`
	// Optional third-party entropy sealed into the commitment, e.g. a
	// recent public block hash. Empty when unavailable.
	ExternalEntropy string `json:"external_entropy,omitempty"`
}

// appendField writes a uvarint length prefix followed by the field bytes.
// Length-prefixing keeps the encoding unambiguous regardless of field content,
// unlike delimiter-joined strings.
func appendField(buf []byte, field []byte) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(field)))
	return append(buf, field...)
}

func appendUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return appendField(buf, b[:])
}

// Encode serializes the seed into its canonical binary form used for
// commitment hashing. The encoding is stable: any change to any field yields
// different bytes.
func (s DrawSeed) Encode() []byte {
	buf := make([]byte, 0, len(s.PublicSeed)+len(s.PrivateSeed)+len(s.ExternalEntropy)+32)
	buf = appendField(buf, []byte(s.PublicSeed))
	buf = appendField(buf, []byte(s.PrivateSeed))
	buf = appendUint64(buf, uint64(s.Timestamp))
	buf = appendField(buf, []byte(s.ExternalEntropy))
	return buf
}

// Hash returns the hex SHA-256 of the canonical seed encoding. This is the
// published commitment hash and the audit seed hash.
func (s DrawSeed) Hash() string {
	sum := sha256.Sum256(s.Encode())
	return hex.EncodeToString(sum[:])
}

// CombinedHash binds the revealed seed to the draw parameters. This is the
// finalHash the winning ticket is derived from; verification recomputes it
// from the stored seed and must reproduce it bit for bit.
func (s DrawSeed) CombinedHash(totalTickets, participantCount int64) []byte {
	buf := make([]byte, 0, len(s.PublicSeed)+len(s.PrivateSeed)+len(s.ExternalEntropy)+48)
	buf = appendField(buf, []byte(s.PublicSeed))
	buf = appendField(buf, []byte(s.PrivateSeed))
	buf = appendField(buf, []byte(s.ExternalEntropy))
	buf = appendUint64(buf, uint64(totalTickets))
	buf = appendUint64(buf, uint64(participantCount))
	sum := sha256.Sum256(buf)
	return sum[:]
}
