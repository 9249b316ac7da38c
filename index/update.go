package index

import (
	"fmt"

	"github.com/runestone-project/satrune/chain"
	"github.com/runestone-project/satrune/crypto"
	"github.com/runestone-project/satrune/sat"
)

// BuildBlockUpdate runs the per-block FIFO allocation algorithm: the
// coinbase mints a fresh range at the block's start-of-subsidy sat, every
// other transaction draws its input ranges across its outputs in order,
// and sats left over after an output list is filled carry forward as fees
// for the coinbase to collect.
//
// prior supplies the current range list for every outpoint this block's
// transactions spend; a spent outpoint missing from prior is a caller bug
// (the chain consumer must always resolve inputs before calling this).
func BuildBlockUpdate(h crypto.Hasher, height uint64, hash, prevHash [32]byte, block *chain.Block, prior map[chain.OutPoint]OutputRanges) (BlockUpdate, error) {
	u := BlockUpdate{
		Height:   height,
		Hash:     hash,
		PrevHash: prevHash,
		Put:      map[chain.OutPoint]OutputRanges{},
	}

	if len(block.Transactions) == 0 {
		return u, fmt.Errorf("index: block %d has no coinbase", height)
	}
	coinbase := block.Transactions[0]
	if !coinbase.IsCoinbase() {
		return u, fmt.Errorf("index: block %d's first transaction is not a coinbase", height)
	}

	fees := newSatQueue()

	for i := 1; i < len(block.Transactions); i++ {
		tx := &block.Transactions[i]

		input := newSatQueue()
		for _, in := range tx.Inputs {
			rs, ok := prior[in.PrevOut]
			if !ok {
				return u, fmt.Errorf("index: block %d: unresolved input %x:%d", height, in.PrevOut.TxID, in.PrevOut.Vout)
			}
			input.pushAll(rs)
			u.Spend = append(u.Spend, in.PrevOut)
		}

		txID := chain.TxID(h, tx)
		for vout, out := range tx.Outputs {
			op := chain.OutPoint{TxID: txID, Vout: uint32(vout)}
			drawn := input.drawExact(out.Value)
			if isUnspendable(out) {
				appendUnbound(u.Put, drawn)
				continue
			}
			if len(drawn) > 0 {
				u.Put[op] = append(u.Put[op], drawn...)
			}
		}

		fees.pushAll(input.drainAll())
	}

	subsidy := sat.Subsidy(height)
	if subsidy > 0 {
		fees.ranges = append([]SatRange{{Start: sat.HeightStartSat(height), End: sat.HeightStartSat(height) + sat.Sat(subsidy)}}, fees.ranges...)
	}

	coinbaseID := chain.TxID(h, &coinbase)
	for vout, out := range coinbase.Outputs {
		op := chain.OutPoint{TxID: coinbaseID, Vout: uint32(vout)}
		drawn := fees.drawExact(out.Value)
		if isUnspendable(out) {
			appendUnbound(u.Put, drawn)
			continue
		}
		if len(drawn) > 0 {
			u.Put[op] = append(u.Put[op], drawn...)
		}
	}
	// Anything left in fees after the coinbase outputs are filled is itself
	// provably unspendable (the coinbase's declared outputs claim less than
	// its subsidy plus the collected fees) and is swept into the unbound sentinel rather than
	// discarded, preserving the sat-supply conservation invariant.
	appendUnbound(u.Put, fees.drainAll())

	return u, nil
}

// ResolvePrior looks up the current range list for every input consumed by
// block's non-coinbase transactions, the map BuildBlockUpdate needs as its
// prior argument.
func (d *DB) ResolvePrior(block *chain.Block) (map[chain.OutPoint]OutputRanges, error) {
	prior := map[chain.OutPoint]OutputRanges{}
	for i := 1; i < len(block.Transactions); i++ {
		for _, in := range block.Transactions[i].Inputs {
			if _, ok := prior[in.PrevOut]; ok {
				continue
			}
			rs, ok, err := d.Ranges(in.PrevOut)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("index: input %x:%d not found in range index", in.PrevOut.TxID, in.PrevOut.Vout)
			}
			prior[in.PrevOut] = rs
		}
	}
	return prior, nil
}

func appendUnbound(put map[chain.OutPoint]OutputRanges, rs OutputRanges) {
	if len(rs) == 0 {
		return
	}
	put[chain.UnboundOutPoint] = append(put[chain.UnboundOutPoint], rs...)
}

func isUnspendable(out chain.TxOut) bool {
	if out.Value == 0 {
		return true
	}
	return len(out.ScriptPubKey) > 0 && chain.Opcode(out.ScriptPubKey[0]) == chain.OP_RETURN
}

