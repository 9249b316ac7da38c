package index

import (
	"math/big"

	"github.com/runestone-project/satrune/chain"
	"github.com/runestone-project/satrune/runes"
)

// RuneEntry is the ledger's metadata record for one etched rune.
type RuneEntry struct {
	ID           runes.RuneId
	Divisibility uint8
	Rune         *runes.Rune
	Spacers      uint32
	Symbol       *rune
	Mint         *runes.Mint
	Mints        uint64 // number of successful claims against Mint so far
}

type balanceKey struct {
	ID runes.RuneId
	OP chain.OutPoint
}

// RuneLedger tracks rune balances per output and rune metadata per RuneId.
// It is driven by the range index's per-block ingest alongside the sat-range
// FIFO allocator, giving the runestone codec a real consumer: a valid
// etching registers a rune entry, edicts move balances between outputs, a
// claim mints against an open schedule, and a cenotaph burns whatever
// balance the transaction's inputs carried for the runes it references.
type RuneLedger struct {
	entries  map[runes.RuneId]*RuneEntry
	balances map[balanceKey]*big.Int
}

// NewRuneLedger returns an empty ledger.
func NewRuneLedger() *RuneLedger {
	return &RuneLedger{
		entries:  map[runes.RuneId]*RuneEntry{},
		balances: map[balanceKey]*big.Int{},
	}
}

// Balance returns the rune id balance held by op.
func (l *RuneLedger) Balance(id runes.RuneId, op chain.OutPoint) *big.Int {
	if v, ok := l.balances[balanceKey{id, op}]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

// Entry returns the rune metadata for id, and false if it has not been
// etched.
func (l *RuneLedger) Entry(id runes.RuneId) (RuneEntry, bool) {
	e, ok := l.entries[id]
	if !ok {
		return RuneEntry{}, false
	}
	return *e, true
}

func (l *RuneLedger) credit(id runes.RuneId, op chain.OutPoint, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	key := balanceKey{id, op}
	cur, ok := l.balances[key]
	if !ok {
		cur = new(big.Int)
		l.balances[key] = cur
	}
	cur.Add(cur, amount)
}

// ApplyTx ingests one transaction's runestone effects.
//
// txID is tx's own id (the outpoint base for any balance this transaction's
// outputs receive); etchID is the RuneId a new etching in this transaction
// would receive (block = the containing block's height, tx = the
// transaction's index within it); spent lists the prevouts tx's inputs
// consume, so their rune balances can be pulled into this transaction's
// unallocated pool before edicts run.
func (l *RuneLedger) ApplyTx(txID [32]byte, etchID runes.RuneId, tx *chain.Tx, rs *runes.Runestone, spent []chain.OutPoint) {
	unallocated := map[runes.RuneId]*big.Int{}
	addUnallocated := func(id runes.RuneId, v *big.Int) {
		cur, ok := unallocated[id]
		if !ok {
			cur = new(big.Int)
			unallocated[id] = cur
		}
		cur.Add(cur, v)
	}

	// Every rune balance carried by a spent input becomes unallocated,
	// available for this transaction's edicts (or the default output) to
	// reassign.
	for _, op := range spent {
		for key, v := range l.balances {
			if key.OP != op {
				continue
			}
			delete(l.balances, key)
			addUnallocated(key.ID, v)
		}
	}

	if rs == nil {
		// No runestone: unallocated balances return to the first output,
		// the same as an explicit default-output-only redistribution.
		l.assignDefault(txID, 0, tx, unallocated)
		return
	}

	if rs.Cenotaph {
		// A cenotaph burns every balance referenced by this transaction's
		// inputs; nothing is assigned to any output and no new rune is
		// registered even if an Etching was structurally present.
		return
	}

	if rs.Etching != nil {
		l.entries[etchID] = &RuneEntry{
			ID:           etchID,
			Divisibility: rs.Etching.Divisibility,
			Rune:         rs.Etching.Rune,
			Spacers:      rs.Etching.Spacers,
			Symbol:       rs.Etching.Symbol,
			Mint:         rs.Etching.Mint,
		}
	}

	if rs.Claim != nil {
		if e, ok := l.entries[*rs.Claim]; ok && e.Mint != nil {
			if e.Mint.Term == nil || e.Mints < uint64(*e.Mint.Term) {
				e.Mints++
				limit := new(big.Int)
				if e.Mint.Limit != nil {
					limit = e.Mint.Limit.Big()
				}
				addUnallocated(*rs.Claim, limit)
			}
		}
	}

	for _, ed := range rs.Edicts {
		pool, ok := unallocated[ed.ID]
		if !ok || pool.Sign() == 0 {
			continue
		}
		amount := ed.Amount.Big()
		if amount.Sign() == 0 || amount.Cmp(pool) > 0 {
			amount = new(big.Int).Set(pool)
		}
		switch {
		case int(ed.Output) == len(tx.Outputs):
			l.distributeEvenly(txID, ed.ID, tx, amount)
		case int(ed.Output) < len(tx.Outputs):
			l.credit(ed.ID, chain.OutPoint{TxID: txID, Vout: ed.Output}, amount)
		default:
			continue
		}
		pool.Sub(pool, amount)
	}

	defaultOut := 0
	if rs.DefaultOutput != nil {
		defaultOut = int(*rs.DefaultOutput)
	}
	l.assignDefault(txID, defaultOut, tx, unallocated)
}

// distributeEvenly implements the "all outputs" edict sentinel
// (output == len(tx.Outputs)): split amount evenly across every output,
// remainder going to the lowest-indexed outputs first.
func (l *RuneLedger) distributeEvenly(txID [32]byte, id runes.RuneId, tx *chain.Tx, amount *big.Int) {
	n := len(tx.Outputs)
	if n == 0 {
		return
	}
	share, rem := new(big.Int), new(big.Int)
	share.QuoRem(amount, big.NewInt(int64(n)), rem)
	for i := 0; i < n; i++ {
		v := new(big.Int).Set(share)
		if big.NewInt(int64(i)).Cmp(rem) < 0 {
			v.Add(v, big.NewInt(1))
		}
		l.credit(id, chain.OutPoint{TxID: txID, Vout: uint32(i)}, v)
	}
}

func (l *RuneLedger) assignDefault(txID [32]byte, out int, tx *chain.Tx, unallocated map[runes.RuneId]*big.Int) {
	if len(tx.Outputs) == 0 {
		return
	}
	if out < 0 || out >= len(tx.Outputs) {
		out = 0
	}
	for id, v := range unallocated {
		if v.Sign() == 0 {
			continue
		}
		l.credit(id, chain.OutPoint{TxID: txID, Vout: uint32(out)}, v)
	}
}
