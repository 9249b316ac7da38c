package chain

import "bytes"

import "testing"

func TestScriptInstructionsDirectPush(t *testing.T) {
	s := Script{byte(OP_RETURN), byte(OP_13), 0x05, 'h', 'e', 'l', 'l', 'o'}
	ins, err := s.Instructions()
	if err != nil {
		t.Fatalf("Instructions: %v", err)
	}
	if len(ins) != 3 {
		t.Fatalf("got %d instructions, want 3", len(ins))
	}
	if ins[0].IsPush || ins[0].Op != OP_RETURN {
		t.Fatalf("ins[0] = %+v", ins[0])
	}
	if ins[1].IsPush || ins[1].Op != OP_13 {
		t.Fatalf("ins[1] = %+v", ins[1])
	}
	if !ins[2].IsPush || !bytes.Equal(ins[2].Data, []byte("hello")) {
		t.Fatalf("ins[2] = %+v", ins[2])
	}
}

func TestScriptInstructionsTruncatedPush(t *testing.T) {
	s := Script{0x05, 'h', 'i'}
	_, err := s.Instructions()
	if err == nil {
		t.Fatalf("expected truncation error")
	}
}

func TestPushDataChunkBoundary(t *testing.T) {
	big := bytes.Repeat([]byte{0xab}, 300)
	s := Script(PushData(nil, big))
	ins, err := s.Instructions()
	if err != nil {
		t.Fatalf("Instructions: %v", err)
	}
	if len(ins) != 1 || !bytes.Equal(ins[0].Data, big) {
		t.Fatalf("round trip failed")
	}
}
