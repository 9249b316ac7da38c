package index

import (
	"testing"

	"github.com/runestone-project/satrune/chain"
	"github.com/runestone-project/satrune/sat"
)

func TestBuildBlockUpdateCoinbaseOnlyAllocatesSubsidy(t *testing.T) {
	block := &chain.Block{
		Transactions: []chain.Tx{
			{
				Inputs:  []chain.TxIn{{PrevOut: chain.OutPoint{Vout: ^uint32(0)}}},
				Outputs: []chain.TxOut{{Value: sat.InitialSubsidy}},
			},
		},
	}
	u, err := BuildBlockUpdate(testHasher(), 0, [32]byte{1}, [32]byte{}, block, nil)
	if err != nil {
		t.Fatalf("BuildBlockUpdate: %v", err)
	}
	if len(u.Put) != 1 {
		t.Fatalf("expected 1 put, got %d", len(u.Put))
	}
	for _, ranges := range u.Put {
		if ranges.Len() != sat.InitialSubsidy {
			t.Fatalf("coinbase output got %d sats, want %d", ranges.Len(), sat.InitialSubsidy)
		}
	}
}

func TestBuildBlockUpdateTransfersInputRangesToOutputs(t *testing.T) {
	spentOp := chain.OutPoint{TxID: [32]byte{9}, Vout: 0}
	block := &chain.Block{
		Transactions: []chain.Tx{
			{
				Inputs:  []chain.TxIn{{PrevOut: chain.OutPoint{Vout: ^uint32(0)}}},
				Outputs: []chain.TxOut{{Value: sat.InitialSubsidy}},
			},
			{
				Inputs: []chain.TxIn{{PrevOut: spentOp}},
				Outputs: []chain.TxOut{
					{Value: 30},
					{Value: 70},
				},
			},
		},
	}
	prior := map[chain.OutPoint]OutputRanges{
		spentOp: {{Start: 1000, End: 1100}},
	}
	u, err := BuildBlockUpdate(testHasher(), 1, [32]byte{2}, [32]byte{1}, block, prior)
	if err != nil {
		t.Fatalf("BuildBlockUpdate: %v", err)
	}
	if len(u.Spend) != 1 || u.Spend[0] != spentOp {
		t.Fatalf("unexpected spend list: %+v", u.Spend)
	}

	var total uint64
	for op, ranges := range u.Put {
		if op == spentOp {
			t.Fatalf("spent outpoint should not appear as a put target")
		}
		total += ranges.Len()
	}
	if total != sat.InitialSubsidy+100 {
		t.Fatalf("total allocated = %d, want %d", total, sat.InitialSubsidy+100)
	}
}

func TestBuildBlockUpdateLeftoverInputGoesToFees(t *testing.T) {
	spentOp := chain.OutPoint{TxID: [32]byte{9}, Vout: 0}
	block := &chain.Block{
		Transactions: []chain.Tx{
			{
				Inputs:  []chain.TxIn{{PrevOut: chain.OutPoint{Vout: ^uint32(0)}}},
				Outputs: []chain.TxOut{{Value: sat.InitialSubsidy + 10}},
			},
			{
				Inputs:  []chain.TxIn{{PrevOut: spentOp}},
				Outputs: []chain.TxOut{{Value: 90}},
			},
		},
	}
	prior := map[chain.OutPoint]OutputRanges{
		spentOp: {{Start: 1000, End: 1100}}, // 100 sats in, 90 spent on the output, 10 left as fee
	}
	u, err := BuildBlockUpdate(testHasher(), 0, [32]byte{2}, [32]byte{}, block, prior)
	if err != nil {
		t.Fatalf("BuildBlockUpdate: %v", err)
	}
	var total uint64
	for _, ranges := range u.Put {
		total += ranges.Len()
	}
	if total != sat.InitialSubsidy+100 {
		t.Fatalf("total allocated = %d, want subsidy(%d)+fee(10)+spent(90)", total, sat.InitialSubsidy)
	}
}

func TestBuildBlockUpdateZeroValueUnspendableOutputCreatesNoUnbound(t *testing.T) {
	block := &chain.Block{
		Transactions: []chain.Tx{
			{
				Inputs: []chain.TxIn{{PrevOut: chain.OutPoint{Vout: ^uint32(0)}}},
				Outputs: []chain.TxOut{
					{Value: 0, ScriptPubKey: []byte{byte(chain.OP_RETURN)}},
					{Value: sat.InitialSubsidy},
				},
			},
		},
	}
	u, err := BuildBlockUpdate(testHasher(), 0, [32]byte{1}, [32]byte{}, block, nil)
	if err != nil {
		t.Fatalf("BuildBlockUpdate: %v", err)
	}
	if _, ok := u.Put[chain.UnboundOutPoint]; ok {
		// Zero-value output draws zero sats; nothing should land in unbound here.
		t.Fatalf("zero-length draw should not create an unbound entry")
	}
	var total uint64
	for _, ranges := range u.Put {
		total += ranges.Len()
	}
	if total != sat.InitialSubsidy {
		t.Fatalf("total = %d, want %d", total, sat.InitialSubsidy)
	}
}

func TestBuildBlockUpdateRejectsMissingCoinbase(t *testing.T) {
	block := &chain.Block{Transactions: []chain.Tx{{}}}
	if _, err := BuildBlockUpdate(testHasher(), 0, [32]byte{}, [32]byte{}, block, nil); err == nil {
		t.Fatalf("expected error for non-coinbase first transaction")
	}
}
