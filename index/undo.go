package index

import (
	"encoding/binary"
	"fmt"

	"github.com/runestone-project/satrune/chain"
)

// UndoRestore is a range-list entry overwritten or deleted at the height
// being undone, restored verbatim on disconnect.
type UndoRestore struct {
	OutPoint chain.OutPoint
	Ranges   OutputRanges
}

// UndoRecord captures everything CommitBlock changed at one height, enough
// to exactly reverse it: newly created keys are deleted, restored keys get
// their prior range list back.
type UndoRecord struct {
	Created  []chain.OutPoint
	Restored []UndoRestore
}

func encodeUndoRecord(u UndoRecord) ([]byte, error) {
	if len(u.Created) > 0xffffffff || len(u.Restored) > 0xffffffff {
		return nil, fmt.Errorf("undo: too many items")
	}

	out := make([]byte, 0, 4+len(u.Created)*36+4+64*len(u.Restored))

	var tmp4 [4]byte
	binary.LittleEndian.PutUint32(tmp4[:], uint32(len(u.Created)))
	out = append(out, tmp4[:]...)
	for _, p := range u.Created {
		out = append(out, outpointKey(p)...)
	}

	binary.LittleEndian.PutUint32(tmp4[:], uint32(len(u.Restored)))
	out = append(out, tmp4[:]...)
	for _, r := range u.Restored {
		out = append(out, outpointKey(r.OutPoint)...)
		rb := encodeOutputRanges(r.Ranges)
		binary.LittleEndian.PutUint32(tmp4[:], uint32(len(rb)))
		out = append(out, tmp4[:]...)
		out = append(out, rb...)
	}
	return out, nil
}

func decodeUndoRecord(b []byte) (*UndoRecord, error) {
	off := 0
	readU32 := func() (uint32, error) {
		if off+4 > len(b) {
			return 0, fmt.Errorf("undo: truncated u32")
		}
		v := binary.LittleEndian.Uint32(b[off : off+4])
		off += 4
		return v, nil
	}
	readOutpoint := func() (chain.OutPoint, error) {
		if off+36 > len(b) {
			return chain.OutPoint{}, fmt.Errorf("undo: truncated outpoint")
		}
		p, err := decodeOutpointKey(b[off : off+36])
		off += 36
		return p, err
	}

	createdN, err := readU32()
	if err != nil {
		return nil, err
	}
	created := make([]chain.OutPoint, 0, createdN)
	for i := uint32(0); i < createdN; i++ {
		p, err := readOutpoint()
		if err != nil {
			return nil, err
		}
		created = append(created, p)
	}

	restoredN, err := readU32()
	if err != nil {
		return nil, err
	}
	restored := make([]UndoRestore, 0, restoredN)
	for i := uint32(0); i < restoredN; i++ {
		p, err := readOutpoint()
		if err != nil {
			return nil, err
		}
		rlen, err := readU32()
		if err != nil {
			return nil, err
		}
		if off+int(rlen) > len(b) {
			return nil, fmt.Errorf("undo: truncated range list")
		}
		ranges, err := decodeOutputRanges(b[off : off+int(rlen)])
		if err != nil {
			return nil, err
		}
		off += int(rlen)
		restored = append(restored, UndoRestore{OutPoint: p, Ranges: ranges})
	}
	if off != len(b) {
		return nil, fmt.Errorf("undo: trailing bytes")
	}
	return &UndoRecord{Created: created, Restored: restored}, nil
}
