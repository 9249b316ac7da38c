package chain

// MarshalBlock serializes a block into its canonical wire bytes, the exact
// inverse of ParseBlockBytes.
func MarshalBlock(b *Block) []byte {
	var out []byte
	out = AppendU32LE(out, b.Header.Version)
	out = append(out, b.Header.PrevBlockHash[:]...)
	out = append(out, b.Header.MerkleRoot[:]...)
	out = AppendU64LE(out, b.Header.Timestamp)
	out = AppendU64LE(out, b.Header.Nonce)

	out = AppendCompactSize(out, uint64(len(b.Transactions)))
	for i := range b.Transactions {
		out = append(out, MarshalTx(&b.Transactions[i])...)
	}
	return out
}
