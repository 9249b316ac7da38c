package varint

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []uint64{
		0, 1, 127, 128, 255, 256, 16384, 1 << 32, 1<<64 - 1,
	}
	for _, v := range cases {
		enc := EncodeUint64(nil, v)
		if len(enc) > maxBytes {
			t.Fatalf("encode(%d) length %d exceeds max %d", v, len(enc), maxBytes)
		}
		got, n, err := DecodeUint64(enc)
		if err != nil {
			t.Fatalf("decode(%x): %v", enc, err)
		}
		if got != v || n != len(enc) {
			t.Fatalf("decode(encode(%d)) = (%d, %d), want (%d, %d)", v, got, n, v, len(enc))
		}
	}
}

func TestEncodeUint128RoundTrip(t *testing.T) {
	v := Uint128{Lo: 0xffffffffffffffff, Hi: 0x1}
	enc := Encode(nil, v)
	got, n, err := Decode(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != v || n != len(enc) {
		t.Fatalf("decode(encode(v)) = (%+v, %d), want (%+v, %d)", got, n, v, len(enc))
	}
}

func TestDecodeTruncated(t *testing.T) {
	_, _, err := DecodeUint64([]byte{0x80})
	if err == nil {
		t.Fatalf("expected truncation error")
	}
	e, ok := err.(*Error)
	if !ok || e.Code != ErrTruncated {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestDecodeOverflow(t *testing.T) {
	// The 19th byte starts at bit 126, so only two of its payload bits fit in
	// 128; 0xff carries seven, which overflows before the 20th byte is read.
	b := bytes.Repeat([]byte{0xff}, 19)
	b = append(b, 0x01)
	_, _, err := Decode(b)
	if err == nil {
		t.Fatalf("expected overflow error")
	}
	e, ok := err.(*Error)
	if !ok || e.Code != ErrOverflow {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestDecodeRestartableFromOffset(t *testing.T) {
	var b []byte
	b = EncodeUint64(b, 42)
	b = EncodeUint64(b, 1000)
	v1, n1, err := DecodeUint64(b)
	if err != nil {
		t.Fatalf("decode first: %v", err)
	}
	v2, _, err := DecodeUint64(b[n1:])
	if err != nil {
		t.Fatalf("decode second: %v", err)
	}
	if v1 != 42 || v2 != 1000 {
		t.Fatalf("got (%d, %d), want (42, 1000)", v1, v2)
	}
}

func TestDecodeStream(t *testing.T) {
	var b []byte
	b = EncodeUint64(b, 0)
	b = EncodeUint64(b, 1)
	b = EncodeUint64(b, 2)
	vals, err := DecodeStream(b)
	if err != nil {
		t.Fatalf("DecodeStream: %v", err)
	}
	if len(vals) != 3 {
		t.Fatalf("got %d values, want 3", len(vals))
	}
	for i, want := range []uint64{0, 1, 2} {
		if vals[i].Lo != want || vals[i].Hi != 0 {
			t.Fatalf("vals[%d] = %+v, want %d", i, vals[i], want)
		}
	}
}

func TestDecodeStreamEmpty(t *testing.T) {
	vals, err := DecodeStream(nil)
	if err != nil || len(vals) != 0 {
		t.Fatalf("DecodeStream(nil) = (%v, %v), want (empty, nil)", vals, err)
	}
}
