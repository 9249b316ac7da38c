// Package crypto provides the single hash primitive the range index needs
// for content-addressing its persisted manifest: everything else the
// teacher's own crypto provider exposed (signature verification, key
// wrapping) has no caller in this module and was dropped rather than kept
// unused (see DESIGN.md).
package crypto

// Hasher is the narrow hashing interface the range index's manifest uses to
// checksum the committed tip (chain id, height and block hash).
type Hasher interface {
	SHA3_256(input []byte) [32]byte
}
