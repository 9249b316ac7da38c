package chain

import "encoding/binary"

// Opcode is a single Bitcoin script opcode byte.
type Opcode byte

const (
	OP_0         Opcode = 0x00
	OP_PUSHDATA1 Opcode = 0x4c
	OP_PUSHDATA2 Opcode = 0x4d
	OP_PUSHDATA4 Opcode = 0x4e
	OP_1NEGATE   Opcode = 0x4f
	OP_RESERVED  Opcode = 0x50
	OP_1         Opcode = 0x51
	OP_13        Opcode = 0x5d
	OP_16        Opcode = 0x60
	OP_RETURN    Opcode = 0x6a
)

// MaxScriptElementSize is the host chain's limit on a single data push.
const MaxScriptElementSize = 520

// Instruction is one decoded step of a script: either a data push (IsPush
// true, Data holds the pushed bytes) or a bare opcode.
type Instruction struct {
	Op     Opcode
	IsPush bool
	Data   []byte
}

// Script is a raw scriptPubKey/scriptSig byte string with an opcode/push
// iterator, mirroring how the wire-format parsers in this package walk
// other fixed-layout byte streams with a cursor.
type Script []byte

// Instructions decodes every instruction in the script in order. It stops
// and returns an error at the first malformed push (a push opcode whose
// declared length runs past the end of the script).
func (s Script) Instructions() ([]Instruction, error) {
	var out []Instruction
	i := 0
	for i < len(s) {
		op := Opcode(s[i])
		i++
		switch {
		case op == OP_0:
			out = append(out, Instruction{Op: op, IsPush: true, Data: nil})
		case byte(op) >= 0x01 && byte(op) <= 0x4b:
			n := int(op)
			if i+n > len(s) {
				return nil, errf(ErrBadOpcode, "truncated direct push")
			}
			out = append(out, Instruction{Op: op, IsPush: true, Data: s[i : i+n]})
			i += n
		case op == OP_PUSHDATA1:
			if i+1 > len(s) {
				return nil, errf(ErrBadOpcode, "truncated PUSHDATA1 length")
			}
			n := int(s[i])
			i++
			if i+n > len(s) {
				return nil, errf(ErrBadOpcode, "truncated PUSHDATA1 data")
			}
			out = append(out, Instruction{Op: op, IsPush: true, Data: s[i : i+n]})
			i += n
		case op == OP_PUSHDATA2:
			if i+2 > len(s) {
				return nil, errf(ErrBadOpcode, "truncated PUSHDATA2 length")
			}
			n := int(binary.LittleEndian.Uint16(s[i : i+2]))
			i += 2
			if i+n > len(s) {
				return nil, errf(ErrBadOpcode, "truncated PUSHDATA2 data")
			}
			out = append(out, Instruction{Op: op, IsPush: true, Data: s[i : i+n]})
			i += n
		case op == OP_PUSHDATA4:
			if i+4 > len(s) {
				return nil, errf(ErrBadOpcode, "truncated PUSHDATA4 length")
			}
			n := int(binary.LittleEndian.Uint32(s[i : i+4]))
			i += 4
			if n < 0 || i+n > len(s) {
				return nil, errf(ErrBadOpcode, "truncated PUSHDATA4 data")
			}
			out = append(out, Instruction{Op: op, IsPush: true, Data: s[i : i+n]})
			i += n
		default:
			out = append(out, Instruction{Op: op, IsPush: false})
		}
	}
	return out, nil
}

// InstructionIter walks a Script one instruction at a time, the way
// Runestone payload extraction needs to: it must be able to stop after
// inspecting only the first two instructions without decoding the rest.
type InstructionIter struct {
	s   Script
	pos int
}

// Iterator returns a fresh, stateful instruction walker over s.
func (s Script) Iterator() *InstructionIter {
	return &InstructionIter{s: s}
}

// Next decodes the next instruction. ok is false with a nil error when the
// script is exhausted; err is non-nil on a malformed push.
func (it *InstructionIter) Next() (ins Instruction, ok bool, err error) {
	s, i := it.s, it.pos
	if i >= len(s) {
		return Instruction{}, false, nil
	}
	op := Opcode(s[i])
	i++
	switch {
	case op == OP_0:
		ins = Instruction{Op: op, IsPush: true, Data: nil}
	case byte(op) >= 0x01 && byte(op) <= 0x4b:
		n := int(op)
		if i+n > len(s) {
			return Instruction{}, false, errf(ErrBadOpcode, "truncated direct push")
		}
		ins = Instruction{Op: op, IsPush: true, Data: s[i : i+n]}
		i += n
	case op == OP_PUSHDATA1:
		if i+1 > len(s) {
			return Instruction{}, false, errf(ErrBadOpcode, "truncated PUSHDATA1 length")
		}
		n := int(s[i])
		i++
		if i+n > len(s) {
			return Instruction{}, false, errf(ErrBadOpcode, "truncated PUSHDATA1 data")
		}
		ins = Instruction{Op: op, IsPush: true, Data: s[i : i+n]}
		i += n
	case op == OP_PUSHDATA2:
		if i+2 > len(s) {
			return Instruction{}, false, errf(ErrBadOpcode, "truncated PUSHDATA2 length")
		}
		n := int(binary.LittleEndian.Uint16(s[i : i+2]))
		i += 2
		if i+n > len(s) {
			return Instruction{}, false, errf(ErrBadOpcode, "truncated PUSHDATA2 data")
		}
		ins = Instruction{Op: op, IsPush: true, Data: s[i : i+n]}
		i += n
	case op == OP_PUSHDATA4:
		if i+4 > len(s) {
			return Instruction{}, false, errf(ErrBadOpcode, "truncated PUSHDATA4 length")
		}
		n := int(binary.LittleEndian.Uint32(s[i : i+4]))
		i += 4
		if n < 0 || i+n > len(s) {
			return Instruction{}, false, errf(ErrBadOpcode, "truncated PUSHDATA4 data")
		}
		ins = Instruction{Op: op, IsPush: true, Data: s[i : i+n]}
		i += n
	default:
		ins = Instruction{Op: op, IsPush: false}
	}
	it.pos = i
	return ins, true, nil
}

// PushData builds the minimal push opcode(s) for data and appends them to
// dst. Data longer than MaxScriptElementSize must be chunked by the caller.
func PushData(dst []byte, data []byte) []byte {
	n := len(data)
	switch {
	case n == 0:
		return append(dst, byte(OP_0))
	case n <= 0x4b:
		dst = append(dst, byte(n))
	case n <= 0xff:
		dst = append(dst, byte(OP_PUSHDATA1), byte(n))
	case n <= 0xffff:
		dst = append(dst, byte(OP_PUSHDATA2))
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], uint16(n))
		dst = append(dst, buf[:]...)
	default:
		dst = append(dst, byte(OP_PUSHDATA4))
		dst = AppendU32LE(dst, uint32(n))
	}
	return append(dst, data...)
}
