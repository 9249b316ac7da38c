package chain

const (
	maxInputs       = 1_000_000
	maxOutputs      = 1_000_000
	maxScriptBytes  = 10_000_000
	maxTxCountBlock = 4_000_000
)

// ParseTxBytes parses one transaction starting at b[0] and returns it along
// with the number of bytes consumed.
func ParseTxBytes(b []byte) (*Tx, int, error) {
	c := newCursor(b)
	tx, err := parseTx(c)
	if err != nil {
		return nil, 0, err
	}
	return tx, c.pos, nil
}

func parseTx(c *cursor) (*Tx, error) {
	version, err := c.readU32LE()
	if err != nil {
		return nil, err
	}

	inCount, err := c.readCompactSize()
	if err != nil {
		return nil, err
	}
	if inCount > maxInputs {
		return nil, errf(ErrParse, "input count overflow")
	}

	inputs := make([]TxIn, 0, inCount)
	for i := uint64(0); i < inCount; i++ {
		txidBytes, err := c.readExact(32)
		if err != nil {
			return nil, err
		}
		var txid [32]byte
		copy(txid[:], txidBytes)

		vout, err := c.readU32LE()
		if err != nil {
			return nil, err
		}

		scriptLen, err := c.readCompactSize()
		if err != nil {
			return nil, err
		}
		if scriptLen > maxScriptBytes {
			return nil, errf(ErrScriptTooBig, "scriptSig length overflow")
		}
		script, err := c.readExact(int(scriptLen))
		if err != nil {
			return nil, err
		}

		sequence, err := c.readU32LE()
		if err != nil {
			return nil, err
		}

		inputs = append(inputs, TxIn{
			PrevOut:   OutPoint{TxID: txid, Vout: vout},
			ScriptSig: append([]byte(nil), script...),
			Sequence:  sequence,
		})
	}

	outCount, err := c.readCompactSize()
	if err != nil {
		return nil, err
	}
	if outCount > maxOutputs {
		return nil, errf(ErrParse, "output count overflow")
	}

	outputs := make([]TxOut, 0, outCount)
	for i := uint64(0); i < outCount; i++ {
		value, err := c.readU64LE()
		if err != nil {
			return nil, err
		}
		scriptLen, err := c.readCompactSize()
		if err != nil {
			return nil, err
		}
		if scriptLen > maxScriptBytes {
			return nil, errf(ErrScriptTooBig, "scriptPubKey length overflow")
		}
		script, err := c.readExact(int(scriptLen))
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, TxOut{
			Value:        value,
			ScriptPubKey: append([]byte(nil), script...),
		})
	}

	locktime, err := c.readU32LE()
	if err != nil {
		return nil, err
	}

	return &Tx{
		Version:  version,
		Inputs:   inputs,
		Outputs:  outputs,
		Locktime: locktime,
	}, nil
}

// ParseBlockBytes parses a full block: a fixed-size header followed by a
// CompactSize-prefixed transaction list, coinbase first.
func ParseBlockBytes(b []byte) (*Block, error) {
	c := newCursor(b)

	version, err := c.readU32LE()
	if err != nil {
		return nil, err
	}
	prevHashBytes, err := c.readExact(32)
	if err != nil {
		return nil, err
	}
	merkleBytes, err := c.readExact(32)
	if err != nil {
		return nil, err
	}
	timestamp, err := c.readU64LE()
	if err != nil {
		return nil, err
	}
	nonce, err := c.readU64LE()
	if err != nil {
		return nil, err
	}

	var prevHash, merkleRoot [32]byte
	copy(prevHash[:], prevHashBytes)
	copy(merkleRoot[:], merkleBytes)

	txCount, err := c.readCompactSize()
	if err != nil {
		return nil, err
	}
	if txCount == 0 || txCount > maxTxCountBlock {
		return nil, errf(ErrParse, "tx count out of range")
	}

	txs := make([]Tx, 0, txCount)
	for i := uint64(0); i < txCount; i++ {
		tx, err := parseTx(c)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *tx)
	}

	return &Block{
		Header: BlockHeader{
			Version:       version,
			PrevBlockHash: prevHash,
			MerkleRoot:    merkleRoot,
			Timestamp:     timestamp,
			Nonce:         nonce,
		},
		Transactions: txs,
	}, nil
}
