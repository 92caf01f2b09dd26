// Package entropy provides seeds for procedural generation.
// Uses crypto/rand so separate runs never share terrain by accident.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	"time"
)

// Seed returns a non-zero random int64 suitable for seeding noise.
// Zero is reserved by callers to mean "pick a seed for me".
func Seed() int64 {
	for {
		s := int64(cryptoUint64() >> 1)
		if s != 0 {
			return s
		}
	}
}

func cryptoUint64() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen; fall back to the clock.
		slog.Warn("crypto/rand unavailable, seeding from clock", "error", err)
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(buf[:])
}
