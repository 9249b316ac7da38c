package chain

import "github.com/runestone-project/satrune/crypto"

// MarshalTx serializes tx into its canonical wire bytes, the exact inverse
// of ParseTxBytes.
func MarshalTx(tx *Tx) []byte {
	var b []byte
	b = AppendU32LE(b, tx.Version)

	b = AppendCompactSize(b, uint64(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		b = append(b, in.PrevOut.TxID[:]...)
		b = AppendU32LE(b, in.PrevOut.Vout)
		b = AppendCompactSize(b, uint64(len(in.ScriptSig)))
		b = append(b, in.ScriptSig...)
		b = AppendU32LE(b, in.Sequence)
	}

	b = AppendCompactSize(b, uint64(len(tx.Outputs)))
	for _, o := range tx.Outputs {
		b = AppendU64LE(b, o.Value)
		b = AppendCompactSize(b, uint64(len(o.ScriptPubKey)))
		b = append(b, o.ScriptPubKey...)
	}

	b = AppendU32LE(b, tx.Locktime)
	return b
}

// TxID computes tx's identifying hash: SHA3-256 over its canonical wire
// bytes, the same hash family the range index uses for its own
// content-addressing (see package crypto), in place of Bitcoin's double
// SHA-256.
func TxID(h crypto.Hasher, tx *Tx) [32]byte {
	return h.SHA3_256(MarshalTx(tx))
}

// MarshalHeader serializes a block header into its canonical wire bytes.
func MarshalHeader(hdr BlockHeader) []byte {
	var b []byte
	b = AppendU32LE(b, hdr.Version)
	b = append(b, hdr.PrevBlockHash[:]...)
	b = append(b, hdr.MerkleRoot[:]...)
	b = AppendU64LE(b, hdr.Timestamp)
	b = AppendU64LE(b, hdr.Nonce)
	return b
}

// HeaderHash computes a block header's identifying hash the same way TxID
// computes a transaction's.
func HeaderHash(h crypto.Hasher, hdr BlockHeader) [32]byte {
	return h.SHA3_256(MarshalHeader(hdr))
}
