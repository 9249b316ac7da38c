package chain

import "encoding/binary"

// DecodeCompactSize decodes one Bitcoin-style CompactSize varint from the
// front of buf. Returns the decoded value and the number of bytes consumed.
// Non-minimal encodings are rejected.
func DecodeCompactSize(buf []byte) (uint64, int, error) {
	if len(buf) < 1 {
		return 0, 0, errf(ErrParse, "truncated CompactSize")
	}
	tag := buf[0]
	switch {
	case tag < 0xfd:
		return uint64(tag), 1, nil
	case tag == 0xfd:
		if len(buf) < 3 {
			return 0, 0, errf(ErrParse, "truncated CompactSize (0xfd)")
		}
		v := binary.LittleEndian.Uint16(buf[1:3])
		if v < 0xfd {
			return 0, 0, errf(ErrParse, "non-minimal CompactSize (0xfd)")
		}
		return uint64(v), 3, nil
	case tag == 0xfe:
		if len(buf) < 5 {
			return 0, 0, errf(ErrParse, "truncated CompactSize (0xfe)")
		}
		v := binary.LittleEndian.Uint32(buf[1:5])
		if v <= 0xffff {
			return 0, 0, errf(ErrParse, "non-minimal CompactSize (0xfe)")
		}
		return uint64(v), 5, nil
	default:
		if len(buf) < 9 {
			return 0, 0, errf(ErrParse, "truncated CompactSize (0xff)")
		}
		v := binary.LittleEndian.Uint64(buf[1:9])
		if v <= 0xffff_ffff {
			return 0, 0, errf(ErrParse, "non-minimal CompactSize (0xff)")
		}
		return v, 9, nil
	}
}

// AppendCompactSize encodes n in Bitcoin-style CompactSize and appends to dst.
func AppendCompactSize(dst []byte, n uint64) []byte {
	switch {
	case n < 0xfd:
		return append(dst, byte(n))
	case n <= 0xffff:
		dst = append(dst, 0xfd)
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], uint16(n))
		return append(dst, buf[:]...)
	case n <= 0xffff_ffff:
		dst = append(dst, 0xfe)
		return AppendU32LE(dst, uint32(n))
	default:
		dst = append(dst, 0xff)
		return AppendU64LE(dst, n)
	}
}
