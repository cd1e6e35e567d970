// Package id generates request identifiers.
//
// Identifiers are ULIDs: 48 bits of millisecond time followed by 80 random
// bits, written in Crockford base32. They sort by creation time, which
// keeps request IDs in log order.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"strings"
	"time"
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// ULIDLength is the length of an encoded ULID.
const ULIDLength = 26

var ErrInvalidULID = errors.New("id: invalid ulid")

// NewULID returns a ULID for the current time.
func NewULID() string {
	return ULIDAt(time.Now())
}

// ULIDAt returns a ULID whose time part is t.
func ULIDAt(t time.Time) string {
	var entropy [10]byte
	if _, err := rand.Read(entropy[:]); err != nil {
		binary.BigEndian.PutUint64(entropy[2:], uint64(t.UnixNano()))
	}
	return encode(uint64(t.UnixMilli()), entropy)
}

// Time returns the creation time encoded in a ULID.
func Time(ulid string) (time.Time, error) {
	if len(ulid) != ULIDLength {
		return time.Time{}, ErrInvalidULID
	}
	var ms uint64
	for i := range 10 {
		v := strings.IndexByte(crockford, ulid[i])
		if v < 0 {
			return time.Time{}, ErrInvalidULID
		}
		ms = ms<<5 | uint64(v)
	}
	return time.UnixMilli(int64(ms)), nil
}

func encode(ms uint64, entropy [10]byte) string {
	var out [ULIDLength]byte
	for i := 9; i >= 0; i-- {
		out[i] = crockford[ms&0x1F]
		ms >>= 5
	}

	var acc uint64
	bits, j := 0, 10
	for _, b := range entropy {
		acc = acc<<8 | uint64(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out[j] = crockford[(acc>>bits)&0x1F]
			j++
		}
	}
	return string(out[:])
}
