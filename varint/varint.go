// Package varint implements the base-128, continuation-bit-terminated
// unsigned integer encoding used by the runestone wire format.
//
// Each byte contributes 7 little-endian payload bits; the high bit (0x80)
// is set iff another byte follows. Values up to 128 payload bits (u128)
// are supported; anything larger is a decode error.
package varint

import (
	"fmt"
	"math/big"
)

// ErrorCode identifies the kind of varint decode failure.
type ErrorCode string

const (
	// ErrTruncated means the byte slice ended while the continuation bit
	// was still set on the last byte read.
	ErrTruncated ErrorCode = "VARINT_ERR_TRUNCATED"
	// ErrOverflow means more than 128 payload bits were seen before a
	// terminating byte.
	ErrOverflow ErrorCode = "VARINT_ERR_OVERFLOW"
)

// Error is returned by Decode on malformed input.
type Error struct {
	Code ErrorCode
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func errf(code ErrorCode, msg string) error {
	return &Error{Code: code, Msg: msg}
}

// maxBytes is the longest possible encoding of a 128-bit value: ceil(128/7).
const maxBytes = 19

// Uint128 is a 128-bit unsigned integer split into high and low 64-bit
// halves, little-endian-of-words (Lo holds bits 0..63, Hi holds bits 64..127).
// Rune amounts and rune IDs fit values this wide; everything else in this
// module fits in a uint64 and uses that directly.
type Uint128 struct {
	Lo uint64
	Hi uint64
}

// FromUint64 builds a Uint128 from a plain uint64.
func FromUint64(v uint64) Uint128 { return Uint128{Lo: v} }

// Fits64 reports whether the value has no bits set above bit 63.
func (u Uint128) Fits64() bool { return u.Hi == 0 }

// IsZero reports whether the value is zero.
func (u Uint128) IsZero() bool { return u.Lo == 0 && u.Hi == 0 }

// Or returns the bitwise OR of u and v.
func (u Uint128) Or(v Uint128) Uint128 { return Uint128{Lo: u.Lo | v.Lo, Hi: u.Hi | v.Hi} }

// And returns the bitwise AND of u and v.
func (u Uint128) And(v Uint128) Uint128 { return Uint128{Lo: u.Lo & v.Lo, Hi: u.Hi & v.Hi} }

// AndNot returns u with every bit set in v cleared.
func (u Uint128) AndNot(v Uint128) Uint128 { return Uint128{Lo: u.Lo &^ v.Lo, Hi: u.Hi &^ v.Hi} }

var big64 = new(big.Int).Lsh(big.NewInt(1), 64)

// Big converts u to a *big.Int. Used sparingly, where exact decimal
// formatting or base conversion on the full 128-bit range is clearer done
// with arbitrary-precision arithmetic than manual limb math (rune name
// encoding, rune ledger balances).
func (u Uint128) Big() *big.Int {
	v := new(big.Int).Lsh(new(big.Int).SetUint64(u.Hi), 64)
	return v.Add(v, new(big.Int).SetUint64(u.Lo))
}

// FromBig converts a non-negative *big.Int no wider than 128 bits to a
// Uint128.
func FromBig(v *big.Int) (Uint128, bool) {
	if v.Sign() < 0 || v.BitLen() > 128 {
		return Uint128{}, false
	}
	hi := new(big.Int).Rsh(v, 64)
	lo := new(big.Int).Mod(v, big64)
	return Uint128{Lo: lo.Uint64(), Hi: hi.Uint64()}, true
}

// Cmp compares two Uint128 values, returning -1, 0 or 1.
func (u Uint128) Cmp(v Uint128) int {
	if u.Hi != v.Hi {
		if u.Hi < v.Hi {
			return -1
		}
		return 1
	}
	if u.Lo != v.Lo {
		if u.Lo < v.Lo {
			return -1
		}
		return 1
	}
	return 0
}

// Decode reads one varint starting at b[0], returning the decoded value and
// the number of bytes consumed. It is restartable from any offset: callers
// that need to decode a stream pass successive slices b[off:].
func Decode(b []byte) (Uint128, int, error) {
	var lo, hi uint64
	shift := uint(0)
	for i := 0; i < len(b); i++ {
		c := b[i]
		if shift >= 128 {
			return Uint128{}, 0, errf(ErrOverflow, "more than 128 payload bits")
		}
		payload := uint64(c & 0x7f)
		switch {
		case shift < 64 && shift+7 <= 64:
			lo |= payload << shift
		case shift < 64:
			// Straddles the low/high word boundary.
			loBits := 64 - shift
			lo |= (payload & ((1 << loBits) - 1)) << shift
			hi |= payload >> loBits
		default:
			hiShift := shift - 64
			if avail := 64 - hiShift; avail < 7 {
				if payload>>avail != 0 {
					return Uint128{}, 0, errf(ErrOverflow, "more than 128 payload bits")
				}
				hi |= (payload & (1<<avail - 1)) << hiShift
			} else {
				hi |= payload << hiShift
			}
		}
		if c&0x80 == 0 {
			return Uint128{Lo: lo, Hi: hi}, i + 1, nil
		}
		shift += 7
	}
	return Uint128{}, 0, errf(ErrTruncated, "continuation bit set on final byte")
}

// DecodeUint64 is a convenience wrapper for values known to fit in 64 bits.
// It still decodes the full varint (rejecting overflow past 128 bits) and
// then reports an overflow error if the decoded value doesn't fit.
func DecodeUint64(b []byte) (uint64, int, error) {
	v, n, err := Decode(b)
	if err != nil {
		return 0, 0, err
	}
	if !v.Fits64() {
		return 0, 0, errf(ErrOverflow, "value does not fit in 64 bits")
	}
	return v.Lo, n, nil
}

// Encode appends the varint encoding of v to dst and returns the result.
func Encode(dst []byte, v Uint128) []byte {
	lo, hi := v.Lo, v.Hi
	for {
		c := byte(lo & 0x7f)
		lo = (lo >> 7) | (hi << 57)
		hi >>= 7
		if lo != 0 || hi != 0 {
			dst = append(dst, c|0x80)
			continue
		}
		dst = append(dst, c)
		return dst
	}
}

// EncodeUint64 appends the varint encoding of v to dst.
func EncodeUint64(dst []byte, v uint64) []byte {
	return Encode(dst, Uint128{Lo: v})
}

// DecodeStream decodes every varint in b in sequence, returning the decoded
// values. A truncated or overflowing final varint is an error; an empty
// input decodes to an empty, non-error result.
func DecodeStream(b []byte) ([]Uint128, error) {
	out := make([]Uint128, 0, len(b)/2+1)
	off := 0
	for off < len(b) {
		v, n, err := Decode(b[off:])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		off += n
	}
	return out, nil
}
