package runes

import "github.com/runestone-project/satrune/varint"

// Edict moves Amount of rune ID to the transaction output at Output.
// Output == len(tx.Outputs) is the "all outputs" sentinel: it is structural
// and valid, not an error; the rune ledger consumer distributes evenly
// across outputs in that case (see index.RuneLedger).
type Edict struct {
	ID     RuneId
	Amount varint.Uint128
	Output uint32
}

// edictFromIntegers validates the four raw integers decoded for one body
// tuple against outputCount (tx.output.len()), per §4.2/§4.3: the RuneId
// must already have been validated by next(); output must fit u32 and must
// not exceed outputCount (equality means "all outputs").
func edictFromIntegers(outputCount int, id RuneId, amount, output varint.Uint128) (Edict, bool) {
	if !output.Fits64() || output.Lo > 0xffffffff {
		return Edict{}, false
	}
	if output.Lo > uint64(outputCount) {
		return Edict{}, false
	}
	return Edict{ID: id, Amount: amount, Output: uint32(output.Lo)}, true
}
