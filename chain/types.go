// Package chain implements the minimal Bitcoin transaction/block wire
// decoding this module's core needs: enough to walk a scriptPubKey for a
// runestone payload and to feed the range index's FIFO allocator (§4.5 of
// the design). It deliberately does not implement signature checking,
// script execution, or PoW/header validation — those belong to the
// external node this module consumes blocks from (§6).
package chain

// OutPoint identifies one transaction output.
type OutPoint struct {
	TxID [32]byte
	Vout uint32
}

// UnboundOutPoint is the distinguished sentinel under which provably
// unspendable outputs are recorded; it is never restored by a reorg.
var UnboundOutPoint = OutPoint{}

// TxIn is a transaction input.
type TxIn struct {
	PrevOut   OutPoint
	ScriptSig []byte
	Sequence  uint32
}

// TxOut is a transaction output.
type TxOut struct {
	Value        uint64
	ScriptPubKey []byte
}

// Tx is a parsed Bitcoin-style transaction.
type Tx struct {
	Version  uint32
	Inputs   []TxIn
	Outputs  []TxOut
	Locktime uint32
}

// IsCoinbase reports whether tx is the block's coinbase transaction: exactly
// one input whose previous outpoint has an all-zero txid and vout 0xffffffff.
func (tx *Tx) IsCoinbase() bool {
	if tx == nil || len(tx.Inputs) != 1 {
		return false
	}
	in := tx.Inputs[0]
	return in.PrevOut.TxID == ([32]byte{}) && in.PrevOut.Vout == ^uint32(0)
}

// BlockHeader is the fixed-size portion of a block preceding its
// transaction list.
type BlockHeader struct {
	Version       uint32
	PrevBlockHash [32]byte
	MerkleRoot    [32]byte
	Timestamp     uint64
	Nonce         uint64
}

// Block is a parsed block: a header plus its transaction list in the order
// the range index must replay them (coinbase first).
type Block struct {
	Header       BlockHeader
	Transactions []Tx
}
