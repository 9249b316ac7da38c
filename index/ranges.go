// Package index builds and maintains the content-addressed satoshi range
// index: for every unspent output, the list of sat ranges it carries,
// allocated block by block with the same FIFO ordering the underlying chain
// uses to assign coinbase subsidy and transaction fees to output sats.
package index

import (
	"encoding/binary"
	"fmt"

	"github.com/runestone-project/satrune/sat"
)

// SatRange is a half-open interval [Start, End) of sat serial numbers.
type SatRange struct {
	Start sat.Sat
	End   sat.Sat
}

// Len returns the number of sats in r.
func (r SatRange) Len() uint64 {
	return uint64(r.End - r.Start)
}

// OutputRanges is the ordered list of sat ranges an output carries, first
// range first.
type OutputRanges []SatRange

// Len returns the total number of sats across all ranges.
func (o OutputRanges) Len() uint64 {
	var n uint64
	for _, r := range o {
		n += r.Len()
	}
	return n
}

// encodeOutputRanges lays out ranges as a concatenation of 16-byte
// (start, end) pairs, both little-endian u64s.
func encodeOutputRanges(o OutputRanges) []byte {
	out := make([]byte, 16*len(o))
	for i, r := range o {
		binary.LittleEndian.PutUint64(out[i*16:i*16+8], uint64(r.Start))
		binary.LittleEndian.PutUint64(out[i*16+8:i*16+16], uint64(r.End))
	}
	return out
}

func decodeOutputRanges(b []byte) (OutputRanges, error) {
	if len(b)%16 != 0 {
		return nil, fmt.Errorf("index: range list length %d not a multiple of 16", len(b))
	}
	out := make(OutputRanges, len(b)/16)
	for i := range out {
		out[i] = SatRange{
			Start: sat.Sat(binary.LittleEndian.Uint64(b[i*16 : i*16+8])),
			End:   sat.Sat(binary.LittleEndian.Uint64(b[i*16+8 : i*16+16])),
		}
	}
	return out, nil
}

// satQueue is a FIFO of sat ranges drained by drawExact as outputs are
// filled in order; a draw that does not land on a range boundary splits the
// head range and leaves the remainder at the front of the queue.
type satQueue struct {
	ranges []SatRange
}

func newSatQueue(ranges ...OutputRanges) *satQueue {
	q := &satQueue{}
	for _, o := range ranges {
		q.ranges = append(q.ranges, o...)
	}
	return q
}

func (q *satQueue) push(r SatRange) {
	if r.Len() == 0 {
		return
	}
	q.ranges = append(q.ranges, r)
}

// pushAll appends every range in rs to the back of the queue, in order.
func (q *satQueue) pushAll(rs OutputRanges) {
	q.ranges = append(q.ranges, rs...)
}

func (q *satQueue) len() uint64 {
	var n uint64
	for _, r := range q.ranges {
		n += r.Len()
	}
	return n
}

// drawExact removes exactly amount sats from the front of the queue, in
// range order, splitting the last range drawn from if amount does not
// consume it entirely. It panics if the queue holds fewer than amount sats
// (a caller bug: total input sats must always cover total output value).
func (q *satQueue) drawExact(amount uint64) OutputRanges {
	var out OutputRanges
	for amount > 0 {
		if len(q.ranges) == 0 {
			panic("index: satQueue exhausted before amount satisfied")
		}
		head := q.ranges[0]
		n := head.Len()
		if n <= amount {
			out = append(out, head)
			q.ranges = q.ranges[1:]
			amount -= n
			continue
		}
		split := sat.Sat(uint64(head.Start) + amount)
		out = append(out, SatRange{Start: head.Start, End: split})
		q.ranges[0] = SatRange{Start: split, End: head.End}
		amount = 0
	}
	return out
}

// drainAll removes every remaining range from the queue, in order; used to
// route leftover input sats (beyond total output value) to the fee queue.
func (q *satQueue) drainAll() OutputRanges {
	out := OutputRanges(q.ranges)
	q.ranges = nil
	return out
}
