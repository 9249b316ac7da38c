package crypto

import "golang.org/x/crypto/sha3"

// StdHasher is the standard-library-adjacent Hasher backed by
// golang.org/x/crypto/sha3.
type StdHasher struct{}

func (StdHasher) SHA3_256(input []byte) [32]byte {
	h := sha3.New256()
	_, _ = h.Write(input)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
