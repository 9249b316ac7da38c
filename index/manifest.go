package index

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runestone-project/satrune/crypto"
)

const SchemaVersionV1 uint32 = 1

// Manifest is the index's crash-safe commit point: everything needed to
// resume ingestion, plus a content digest over the chain id and the
// committed tip. Open reads the manifest but does not recompute or check
// the digest.
type Manifest struct {
	SchemaVersion uint32 `json:"schema_version"`
	ChainIDHex    string `json:"chain_id_hex"`

	Height    uint64 `json:"height"`
	BlockHash string `json:"block_hash_hex"`
	Digest    string `json:"digest_hex"`
}

// digest returns the content-addressing checksum for a committed height and
// block hash, tying the manifest to one specific tip of one chain. Nothing
// in this package verifies it after it is written.
func digest(h crypto.Hasher, chainIDHex string, height uint64, blockHash [32]byte) string {
	buf := make([]byte, 0, len(chainIDHex)+8+32)
	buf = append(buf, chainIDHex...)
	var heightBytes [8]byte
	binary.LittleEndian.PutUint64(heightBytes[:], height)
	buf = append(buf, heightBytes[:]...)
	buf = append(buf, blockHash[:]...)
	sum := h.SHA3_256(buf)
	return hex.EncodeToString(sum[:])
}

func manifestPath(chainDir string) string {
	return filepath.Join(chainDir, "MANIFEST.json")
}

func readManifest(chainDir string) (*Manifest, error) {
	b, err := os.ReadFile(manifestPath(chainDir))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("manifest json: %w", err)
	}
	return &m, nil
}

// writeManifestAtomic commits m as the new recovery point: write temp,
// fsync temp, rename, fsync the containing directory.
func writeManifestAtomic(chainDir string, m *Manifest) error {
	if m == nil {
		return fmt.Errorf("manifest: nil")
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("manifest json: %w", err)
	}
	b = append(b, '\n')

	final := manifestPath(chainDir)
	tmp := final + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("manifest open tmp: %w", err)
	}
	_, werr := f.Write(b)
	serr := f.Sync()
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("manifest write tmp: %w", werr)
	}
	if serr != nil {
		return fmt.Errorf("manifest fsync tmp: %w", serr)
	}
	if cerr != nil {
		return fmt.Errorf("manifest close tmp: %w", cerr)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("manifest rename: %w", err)
	}

	d, err := os.Open(chainDir)
	if err != nil {
		return fmt.Errorf("manifest fsync dir open: %w", err)
	}
	if err := d.Sync(); err != nil {
		_ = d.Close()
		return fmt.Errorf("manifest fsync dir: %w", err)
	}
	if err := d.Close(); err != nil {
		return fmt.Errorf("manifest fsync dir close: %w", err)
	}
	return nil
}
