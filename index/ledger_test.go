package index

import (
	"math/big"
	"testing"

	"github.com/runestone-project/satrune/chain"
	"github.com/runestone-project/satrune/runes"
	"github.com/runestone-project/satrune/varint"
)

func TestRuneLedgerEtchingRegistersEntry(t *testing.T) {
	l := NewRuneLedger()
	etchID := runes.RuneId{Block: 10, Tx: 1}
	tx := &chain.Tx{Outputs: []chain.TxOut{{Value: 1000}}}
	rs := &runes.Runestone{Etching: &runes.Etching{Divisibility: 2}}

	l.ApplyTx([32]byte{1}, etchID, tx, rs, nil)

	entry, ok := l.Entry(etchID)
	if !ok {
		t.Fatalf("expected rune entry to be registered")
	}
	if entry.Divisibility != 2 {
		t.Fatalf("divisibility = %d, want 2", entry.Divisibility)
	}
}

func TestRuneLedgerCenotaphBurnsInputBalance(t *testing.T) {
	l := NewRuneLedger()
	id := runes.RuneId{Block: 1, Tx: 1}
	spentOp := chain.OutPoint{TxID: [32]byte{5}, Vout: 0}
	l.credit(id, spentOp, big.NewInt(100))

	tx := &chain.Tx{Outputs: []chain.TxOut{{Value: 1000}}}
	rs := &runes.Runestone{Cenotaph: true}
	l.ApplyTx([32]byte{9}, runes.RuneId{}, tx, rs, []chain.OutPoint{spentOp})

	if bal := l.Balance(id, chain.OutPoint{TxID: [32]byte{9}, Vout: 0}); bal.Sign() != 0 {
		t.Fatalf("expected burned balance, got %v", bal)
	}
}

func TestRuneLedgerEdictMovesBalanceToOutput(t *testing.T) {
	l := NewRuneLedger()
	id := runes.RuneId{Block: 1, Tx: 1}
	spentOp := chain.OutPoint{TxID: [32]byte{5}, Vout: 0}
	l.credit(id, spentOp, big.NewInt(100))

	txID := [32]byte{9}
	tx := &chain.Tx{Outputs: []chain.TxOut{{Value: 1000}, {Value: 1000}}}
	rs := &runes.Runestone{Edicts: []runes.Edict{{ID: id, Amount: varint.FromUint64(40), Output: 1}}}
	l.ApplyTx(txID, runes.RuneId{}, tx, rs, []chain.OutPoint{spentOp})

	if bal := l.Balance(id, chain.OutPoint{TxID: txID, Vout: 1}); bal.Cmp(big.NewInt(40)) != 0 {
		t.Fatalf("output 1 balance = %v, want 40", bal)
	}
	// Remainder (60) falls through to the default output (0, since none set).
	if bal := l.Balance(id, chain.OutPoint{TxID: txID, Vout: 0}); bal.Cmp(big.NewInt(60)) != 0 {
		t.Fatalf("output 0 (default) balance = %v, want 60", bal)
	}
}

func TestRuneLedgerEdictAllOutputsSentinelSplitsEvenly(t *testing.T) {
	l := NewRuneLedger()
	id := runes.RuneId{Block: 1, Tx: 1}
	spentOp := chain.OutPoint{TxID: [32]byte{5}, Vout: 0}
	l.credit(id, spentOp, big.NewInt(10))

	txID := [32]byte{9}
	tx := &chain.Tx{Outputs: []chain.TxOut{{Value: 1}, {Value: 1}, {Value: 1}}}
	rs := &runes.Runestone{Edicts: []runes.Edict{{ID: id, Amount: varint.FromUint64(10), Output: uint32(len(tx.Outputs))}}}
	l.ApplyTx(txID, runes.RuneId{}, tx, rs, []chain.OutPoint{spentOp})

	total := big.NewInt(0)
	for i := 0; i < 3; i++ {
		total.Add(total, l.Balance(id, chain.OutPoint{TxID: txID, Vout: uint32(i)}))
	}
	if total.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("total distributed = %v, want 10", total)
	}
	// 10 / 3 = 3 remainder 1: output 0 gets the extra unit.
	if bal := l.Balance(id, chain.OutPoint{TxID: txID, Vout: 0}); bal.Cmp(big.NewInt(4)) != 0 {
		t.Fatalf("output 0 balance = %v, want 4", bal)
	}
}

func TestRuneLedgerClaimMintsAgainstOpenSchedule(t *testing.T) {
	l := NewRuneLedger()
	id := runes.RuneId{Block: 1, Tx: 1}
	limit := varint.FromUint64(50)
	l.entries[id] = &RuneEntry{ID: id, Mint: &runes.Mint{Limit: &limit}}

	txID := [32]byte{9}
	tx := &chain.Tx{Outputs: []chain.TxOut{{Value: 1000}}}
	rs := &runes.Runestone{Claim: &id}
	l.ApplyTx(txID, runes.RuneId{}, tx, rs, nil)

	if bal := l.Balance(id, chain.OutPoint{TxID: txID, Vout: 0}); bal.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("claimed balance = %v, want 50", bal)
	}
	entry, _ := l.Entry(id)
	if entry.Mints != 1 {
		t.Fatalf("Mints = %d, want 1", entry.Mints)
	}
}
