package runes

import "github.com/runestone-project/satrune/varint"

// RuneId identifies a rune by the height and transaction index of its
// etching transaction.
type RuneId struct {
	Block uint64
	Tx    uint32
}

// Valid reports the RuneId structural invariant: block==0 is only valid
// paired with tx==0 (the zero value, used as the "no rune yet" sentinel).
func (id RuneId) Valid() bool {
	return id.Block > 0 || id.Tx == 0
}

// Less orders RuneIds by (block, tx), the canonical encipher order.
func (id RuneId) Less(other RuneId) bool {
	if id.Block != other.Block {
		return id.Block < other.Block
	}
	return id.Tx < other.Tx
}

// next reconstructs the RuneId of an edict from the running-sum delta
// encoding described in §6 of the design: block_delta is always absolute
// relative to prev; tx_delta restarts from absolute when block_delta != 0,
// otherwise it is relative to prev.Tx.
func next(prev RuneId, blockDelta, txDelta varint.Uint128) (RuneId, bool) {
	if !blockDelta.Fits64() {
		return RuneId{}, false
	}
	block := prev.Block + blockDelta.Lo
	if block < prev.Block {
		return RuneId{}, false // overflow
	}

	var tx uint64
	if blockDelta.IsZero() {
		if !txDelta.Fits64() {
			return RuneId{}, false
		}
		tx = uint64(prev.Tx) + txDelta.Lo
		if tx < uint64(prev.Tx) {
			return RuneId{}, false // overflow
		}
	} else {
		if !txDelta.Fits64() {
			return RuneId{}, false
		}
		tx = txDelta.Lo
	}
	if tx > 0xffffffff {
		return RuneId{}, false
	}

	id := RuneId{Block: block, Tx: uint32(tx)}
	if !id.Valid() {
		return RuneId{}, false
	}
	return id, true
}

// delta computes the (block_delta, tx_delta) pair to emit for id given the
// running previous RuneId, per §6.
func delta(prev, id RuneId) (blockDelta, txDelta uint64) {
	blockDelta = id.Block - prev.Block
	if blockDelta == 0 {
		txDelta = uint64(id.Tx) - uint64(prev.Tx)
	} else {
		txDelta = uint64(id.Tx)
	}
	return blockDelta, txDelta
}

// runeIdFromClaim builds a RuneId from the two u128 values taken for the
// Claim tag (arity 2): the first must fit u64 (block), the second u32 (tx).
func runeIdFromClaim(blockVal, txVal varint.Uint128) (RuneId, bool) {
	if !blockVal.Fits64() || !txVal.Fits64() || txVal.Lo > 0xffffffff {
		return RuneId{}, false
	}
	id := RuneId{Block: blockVal.Lo, Tx: uint32(txVal.Lo)}
	if !id.Valid() {
		return RuneId{}, false
	}
	return id, true
}
